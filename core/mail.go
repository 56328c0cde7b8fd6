package core

import (
	"bytes"
	"encoding/base64"
	htmltmpl "html/template"
	"net/http"
	"net/mail"

	"github.com/pkg/errors"
)

var htmlBody = htmltmpl.Must(htmltmpl.New("body").Parse(
	`<html><body><pre style="font-family:sans-serif;white-space:pre-wrap">{{.}}</pre></body></html>`,
))

type (
	Attachment struct {
		Content     string // base64 encoded
		ContentType string
		Filename    string
	}

	EmailMessage struct {
		To          []mail.Address
		Cc          []mail.Address
		Bcc         []mail.Address
		Subject     string
		BodyStr     string // text/plain content; also rendered as HTML
		Attachments []Attachment

		TextContent string
		HTMLContent string
	}

	// EmailService is any service that can send emails
	EmailService interface {
		// SendMessages sends messages concurrently
		SendMessages(messages ...*EmailMessage)
	}
)

func (m *EmailMessage) Render() error {
	if m.BodyStr == "" {
		return nil
	}
	m.TextContent = m.BodyStr

	var buff bytes.Buffer
	if err := htmlBody.Execute(&buff, m.BodyStr); err != nil {
		return errors.Wrap(err, "rendering html body")
	}
	m.HTMLContent = buff.String()
	return nil
}

// Attach base64-encodes `content` and adds it to the message.
// The content type is sniffed when `ct` is not given.
func (m *EmailMessage) Attach(content []byte, filename string, ct ...string) {
	at := Attachment{
		Content:  base64.StdEncoding.EncodeToString(content),
		Filename: filename,
	}
	if len(ct) > 0 && ct[0] != "" {
		at.ContentType = ct[0]
	} else {
		at.ContentType = http.DetectContentType(content)
	}
	m.Attachments = append(m.Attachments, at)
}

func (m *EmailMessage) HasRecipients() bool  { return len(m.To) > 0 }
func (m *EmailMessage) HasContent() bool     { return (m.TextContent != "") || (m.HTMLContent != "") }
func (m *EmailMessage) HasAttachments() bool { return len(m.Attachments) > 0 }
