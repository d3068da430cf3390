package email

import (
	"context"

	"contacts_backend/internal/logger"
)

// LogProvider renders messages and writes them to the log instead of
// sending. Used in development when no SMTP host is configured.
type LogProvider struct {
	renderer TemplateRenderer
}

func NewLogProvider(renderer TemplateRenderer) *LogProvider {
	return &LogProvider{renderer: renderer}
}

func (p *LogProvider) Send(ctx context.Context, msg *Message) error {
	body, err := p.renderer.Render(msg.Template, msg.Data)
	if err != nil {
		return err
	}
	logger.CtxInfo(ctx, "email not sent, smtp disabled",
		"to", msg.To,
		"subject", msg.Subject,
		"template", msg.Template,
		"body", body,
	)
	return nil
}
