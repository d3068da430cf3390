package email

import (
	"context"
	"errors"
	"fmt"

	"gopkg.in/gomail.v2"
)

// SMTPProvider renders templates and sends them through gomail.
type SMTPProvider struct {
	config   SMTPConfig
	renderer TemplateRenderer
	dialer   *gomail.Dialer
}

func NewSMTPProvider(config SMTPConfig, renderer TemplateRenderer) *SMTPProvider {
	d := gomail.NewDialer(config.Host, config.Port, config.Username, config.Password)
	if config.UseSSL {
		d.SSL = true
	}
	return &SMTPProvider{
		config:   config,
		renderer: renderer,
		dialer:   d,
	}
}

func (p *SMTPProvider) Send(ctx context.Context, msg *Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m, err := p.build(msg)
	if err != nil {
		return err
	}
	if err := p.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send to %v: %w", msg.To, err)
	}
	return nil
}

func (p *SMTPProvider) build(msg *Message) (*gomail.Message, error) {
	if len(msg.To) == 0 {
		return nil, errors.New("email has no recipients")
	}
	body, err := p.renderer.Render(msg.Template, msg.Data)
	if err != nil {
		return nil, err
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", p.config.FromEmail, p.config.FromName)
	m.SetHeader("To", msg.To...)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", body)
	return m, nil
}
