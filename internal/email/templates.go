package email

import (
	"fmt"
	"html/template"
	"strings"
	"sync"
)

// TemplateManager keeps parsed email templates keyed by name.
type TemplateManager struct {
	templates map[string]*template.Template
	mutex     sync.RWMutex
}

func NewTemplateManager() *TemplateManager {
	return &TemplateManager{
		templates: make(map[string]*template.Template),
	}
}

func (tm *TemplateManager) Render(templateName string, data TemplateData) (string, error) {
	tm.mutex.RLock()
	tpl, exists := tm.templates[templateName]
	tm.mutex.RUnlock()

	if !exists {
		return "", fmt.Errorf("template not found: %s", templateName)
	}

	var buf strings.Builder
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

func (tm *TemplateManager) AddTemplate(name string, templateStr string) error {
	tpl, err := template.New(name).Parse(templateStr)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	tm.mutex.Lock()
	tm.templates[name] = tpl
	tm.mutex.Unlock()

	return nil
}

const passwordResetTemplate = `<html>
<body>
  <p>Hello {{.Username}},</p>
  <p>We received a request to reset the password for your account.</p>
  <p><a href="{{.ResetURL}}">Reset your password</a></p>
  <p>The link is valid for one hour. If you did not request a reset, ignore this message.</p>
</body>
</html>`

// NewDefaultTemplateManager returns a manager preloaded with the
// built-in templates.
func NewDefaultTemplateManager() *TemplateManager {
	tm := NewTemplateManager()
	tm.AddTemplate("password_reset", passwordResetTemplate)
	return tm
}
