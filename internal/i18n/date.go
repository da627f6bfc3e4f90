package i18n

import (
	"fmt"
	"time"
)

var bgMonths = [12]string{"яну", "фев", "март", "апр", "май", "юни", "юли", "авг", "сеп", "окт", "ное", "дек"}

// FormatDate renders t as a two digit day, short month and full year.
// bg follows "02 окт 2026 г.", everything else follows en-GB "02 Oct 2026".
func FormatDate(t time.Time, locale string) string {
	if locale == "bg" {
		return fmt.Sprintf("%02d %s %d г.", t.Day(), bgMonths[t.Month()-1], t.Year())
	}
	return t.Format("02 Jan 2006")
}
