package mailing

import (
	"fmt"
	"html"
)

func WelcomeMail(appURL, username string) (subject string, body string) {
	subject = "Welcome to Foodgram"
	body = fmt.Sprintf(
		"<p>Hi %s,</p><p>your account is ready. Start sharing recipes at <a href=\"%s\">%s</a>.</p>",
		html.EscapeString(username), appURL, appURL,
	)
	return subject, body
}
