package email

// Provider sends outgoing email.
type Provider interface {
	// Send delivers a single message.
	Send(email *Email) error

	// SendTemplate renders the named template and delivers the result.
	SendTemplate(to []string, subject string, templateName string, data TemplateData) error

	// Validate checks the provider configuration.
	Validate() error

	// Close releases provider resources.
	Close() error
}

// TemplateRenderer renders named email templates.
type TemplateRenderer interface {
	Render(templateName string, data TemplateData) (string, error)
	AddTemplate(name string, template string) error
}

// NoopProvider discards all mail. Used when no SMTP host is configured
// and in tests that only care that sending was attempted.
type NoopProvider struct{}

func NewNoopProvider() *NoopProvider { return &NoopProvider{} }

func (p *NoopProvider) Send(email *Email) error { return nil }

func (p *NoopProvider) SendTemplate(to []string, subject string, templateName string, data TemplateData) error {
	return nil
}

func (p *NoopProvider) Validate() error { return nil }

func (p *NoopProvider) Close() error { return nil }
