package email

// Message is a templated email ready to be rendered and sent.
type Message struct {
	To       []string
	Subject  string
	Template string
	Data     TemplateData
}

// TemplateData is the value passed to a template.
type TemplateData map[string]interface{}

// Template names.
const (
	TemplateVerifyEmail       = "verify_email"
	TemplateResetPassword     = "reset_password"
	TemplateResetPasswordForm = "reset_password_form"
)
