// Package templates renders the small set of transactional emails the API
// sends. Page templating for the website is out of scope here.
package templates

import (
	"bytes"
	"fmt"
	"html/template"
)

type def struct {
	subject string
	text    string
	html    string
}

var kinds = map[string]def{
	"welcome": {
		subject: "Welcome to the Atlastrek family!",
		text:    "Hi {{.Name}},\n\nWelcome to Atlastrek, we're glad to have you!\nVisit {{.URL}} to complete your profile.\n",
		html:    `<p>Hi {{.Name}},</p><p>Welcome to Atlastrek, we're glad to have you!</p><p><a href="{{.URL}}">Complete your profile</a></p>`,
	},
	"password_reset": {
		subject: "Your password reset token (valid for 10 minutes)",
		text:    "Hi {{.Name}},\n\nForgot your password? Submit a PATCH request with your new password to {{.URL}}.\nIf you didn't forget your password, please ignore this email.\n",
		html:    `<p>Hi {{.Name}},</p><p>Forgot your password? <a href="{{.URL}}">Reset it here</a> within the next 10 minutes.</p><p>If you didn't forget your password, please ignore this email.</p>`,
	},
}

// Render produces subject, text and HTML bodies for the given template kind.
func Render(kind string, data map[string]any) (subject, text, html string, err error) {
	d, ok := kinds[kind]
	if !ok {
		return "", "", "", fmt.Errorf("unknown email template %q", kind)
	}
	text, err = render(kind+"_text", d.text, data)
	if err != nil {
		return "", "", "", err
	}
	html, err = render(kind+"_html", d.html, data)
	if err != nil {
		return "", "", "", err
	}
	return d.subject, text, html, nil
}

func render(name, body string, data map[string]any) (string, error) {
	t, err := template.New(name).Parse(body)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
