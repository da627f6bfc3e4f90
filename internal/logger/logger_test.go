package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")

	if err := Init(Config{Level: "debug", Output: path}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	l := Component("test")
	l.Info().Str("article_id", "abc").Msg("hello")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	line := string(data)
	for _, want := range []string{`"component":"test"`, `"article_id":"abc"`, `"message":"hello"`} {
		if !strings.Contains(line, want) {
			t.Errorf("log line %q missing %s", line, want)
		}
	}
}
