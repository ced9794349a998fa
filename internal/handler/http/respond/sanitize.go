package respond

import (
	"regexp"
)

var (
	// DSN 内のパスワード
	dbPasswordPattern = regexp.MustCompile(`://([^:/@\s]+):([^@\s]+)@`)

	// URL クエリ内の認証情報 (collector の upstream URL など)
	querySecretPattern = regexp.MustCompile(`(?i)([?&](?:api_key|apikey|key|token|access_token|password|secret)=)[^&\s"]+`)

	// Authorization ヘッダ値
	bearerPattern = regexp.MustCompile(`(?i)(bearer\s+)[A-Za-z0-9\-._~+/]+=*`)

	// Slack / Discord の webhook トークン
	webhookPattern = regexp.MustCompile(`(hooks\.slack\.com/services/|/api/webhooks/)[^\s"]+`)
)

// SanitizeError は機密情報をマスクしたエラーメッセージを返す
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return SanitizeString(err.Error())
}

// SanitizeString masks credentials in free text such as collector error
// messages and upstream URLs.
func SanitizeString(msg string) string {
	msg = dbPasswordPattern.ReplaceAllString(msg, "://$1:****@")
	msg = querySecretPattern.ReplaceAllString(msg, "${1}****")
	msg = bearerPattern.ReplaceAllString(msg, "${1}****")
	msg = webhookPattern.ReplaceAllString(msg, "${1}****")
	return msg
}
