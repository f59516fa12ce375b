package logger

import (
	"net/url"
	"strings"
)

// SanitizedEmail masks an address for logging, keeping the first character of the
// local part and the top-level domain ("user@example.com" becomes "u***@*******.com").
func SanitizedEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return "[invalid-email]"
	}

	local, domain := []rune(email[:at]), email[at+1:]
	masked := string(local[0]) + strings.Repeat("*", len(local)-1)

	labels := strings.Split(domain, ".")
	for i := 0; i < len(labels)-1; i++ {
		labels[i] = strings.Repeat("*", len([]rune(labels[i])))
	}

	return masked + "@" + strings.Join(labels, ".")
}

var sensitiveParams = map[string]bool{
	"password":     true,
	"token":        true,
	"access_token": true,
	"secret":       true,
	"auth":         true,
	"email":        true,
}

// SanitizeQueryString reports whether a query string should be redacted from request
// logs: it names a credential parameter or carries an email address, as admin
// searches over users often do. Unparseable queries are redacted.
func SanitizeQueryString(rawQuery string) bool {
	if rawQuery == "" {
		return false
	}

	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return true
	}

	for key, vals := range values {
		if sensitiveParams[strings.ToLower(key)] {
			return true
		}
		for _, v := range vals {
			if strings.Contains(v, "@") {
				return true
			}
		}
	}
	return false
}
