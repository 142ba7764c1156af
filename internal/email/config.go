package email

import "eventhub_backend/internal/config"

// SMTPConfig holds the SMTP server settings.
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
}

// ConfigFromApp maps the application config onto SMTP settings.
func ConfigFromApp(cfg *config.Config) *SMTPConfig {
	return &SMTPConfig{
		Host:      cfg.Email.SMTPHost,
		Port:      cfg.Email.SMTPPort,
		Username:  cfg.Email.SMTPUsername,
		Password:  cfg.Email.SMTPPassword,
		FromEmail: cfg.Email.FromEmail,
		FromName:  cfg.Email.FromName,
	}
}

// NewProviderFromConfig builds the SMTP provider, or a no-op provider
// when no SMTP host is configured.
func NewProviderFromConfig(cfg *config.Config) Provider {
	if cfg.Email.SMTPHost == "" {
		return NewNoopProvider()
	}
	return NewSMTPProvider(ConfigFromApp(cfg), NewDefaultTemplateManager())
}
