package utils

import (
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// Hash generates a SHA-256 hash of the input string
func Hash(input string) string {
	hasher := sha256.New()
	hasher.Write([]byte(input))
	return hex.EncodeToString(hasher.Sum(nil))
}

// SignParams returns the hex SHA-1 of the params sorted by key and joined as
// k=v pairs with '&', followed by the secret. Empty values are skipped.
func SignParams(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}

	hasher := sha1.New()
	hasher.Write([]byte(strings.Join(pairs, "&") + secret))
	return hex.EncodeToString(hasher.Sum(nil))
}
