package notify

import (
	"fmt"
	"net/url"
	"strings"
)

// renderConfirmation builds the subject and body for an account action
// token. confirmBase, when set, turns the token into a clickable link.
func renderConfirmation(confirmBase, kind, token string) (subject, body string) {
	var action string
	switch kind {
	case "password_reset":
		action = "reset your password"
	case "confirm_email":
		action = "verify your email address"
	case "profile_update":
		action = "apply your profile changes"
	default:
		action = "confirm your request"
	}
	subject = "Confirm your request"

	var b strings.Builder
	fmt.Fprintf(&b, "You asked to %s.\n\n", action)
	if confirmBase != "" {
		fmt.Fprintf(&b, "Confirm here: %s?token=%s\n\n", strings.TrimRight(confirmBase, "/"), url.QueryEscape(token))
	} else {
		fmt.Fprintf(&b, "Your confirmation token: %s\n\n", token)
	}
	b.WriteString("The link is valid for 24 hours and can be used once. If you did not request this, ignore this message.\n")
	return subject, b.String()
}

func renderApplicationUpdate(jobTitle, status, detail string) (subject, body string) {
	subject = fmt.Sprintf("Application update: %s", jobTitle)
	var b strings.Builder
	fmt.Fprintf(&b, "Your application for %q is %s.\n", jobTitle, status)
	if detail != "" {
		fmt.Fprintf(&b, "\n%s\n", detail)
	}
	return subject, b.String()
}
