package email

import "context"

// Provider delivers a Message.
type Provider interface {
	Send(ctx context.Context, msg *Message) error
}

// TemplateRenderer turns a template name and data into HTML.
type TemplateRenderer interface {
	Render(templateName string, data TemplateData) (string, error)
}
