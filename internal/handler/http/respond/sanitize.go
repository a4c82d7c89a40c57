package respond

import (
	"regexp"
)

var (
	// AccessTrade credentials travel as "Authorization: Token <value>".
	authTokenPattern = regexp.MustCompile(`(?i)token\s+[A-Za-z0-9._-]{8,}`)

	// Token values leaking through query strings or echoed env config.
	tokenParamPattern = regexp.MustCompile(`(?i)(access_token|token)=[^&\s]+`)

	// Database passwords inside DSNs.
	dbPasswordPattern = regexp.MustCompile(`://([^:/]+):([^@]+)@`)
)

// SanitizeError returns the error message with credentials masked.
// Applied before any error string reaches a log line or response body.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	msg = authTokenPattern.ReplaceAllString(msg, "Token ****")
	msg = tokenParamPattern.ReplaceAllString(msg, "$1=****")
	msg = dbPasswordPattern.ReplaceAllString(msg, "://$1:****@")

	return msg
}
