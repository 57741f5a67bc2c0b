package utils

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strconv"
	"strings"
)

var unsafeFileChars = regexp.MustCompile(`[\\/:*?"<>|\s]+`)

// SanitizeFilename makes a customer name safe to use as a download filename.
func SanitizeFilename(name string) string {
	s := strings.TrimSpace(name)
	s = unsafeFileChars.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if s == "" {
		return "order"
	}
	return s
}

// FormatMoney renders an integer currency amount with thousands separators.
func FormatMoney(n int64) string {
	neg := n < 0
	if neg {
		n = -n
	}

	s := strconv.FormatInt(n, 10)
	var b strings.Builder
	pre := len(s) % 3
	if pre > 0 {
		b.WriteString(s[:pre])
	}
	for i := pre; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}

	if neg {
		return "-" + b.String()
	}
	return b.String()
}

func StrPtr(s string) *string {
	return &s
}

func Int64Ptr(n int64) *int64 {
	return &n
}

func PtrString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func WriteJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}

func WriteJSONError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
