package email

import (
	"embed"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogFS embed.FS

// DisqualifyTemplate holds the fixed intro and outro paragraphs for one
// disqualification template variant.
type DisqualifyTemplate struct {
	Intro string `yaml:"intro"`
	Outro string `yaml:"outro"`
}

// ReminderDefaults holds the fallback copy for the reminder email.
type ReminderDefaults struct {
	DefaultBody string `yaml:"default_body"`
	AfterCTA    string `yaml:"after_cta"`
}

// Catalog is the message template catalog loaded from the embedded YAML file.
type Catalog struct {
	DefaultSubject string                        `yaml:"default_subject"`
	Templates      map[string]DisqualifyTemplate `yaml:"templates"`
	Reminder       ReminderDefaults              `yaml:"reminder"`
}

var (
	catalogOnce   sync.Once
	loadedCatalog Catalog
	catalogErr    error
)

// LoadCatalog parses the embedded template catalog. The result is cached.
func LoadCatalog() (Catalog, error) {
	catalogOnce.Do(func() {
		raw, err := catalogFS.ReadFile("catalog.yaml")
		if err != nil {
			catalogErr = err
			return
		}
		catalogErr = yaml.Unmarshal(raw, &loadedCatalog)
	})
	return loadedCatalog, catalogErr
}

// TemplateFor returns the disqualification template for the given type,
// falling back to the default variant for unknown types.
func (c Catalog) TemplateFor(templateType string) DisqualifyTemplate {
	if tmpl, ok := c.Templates[templateType]; ok {
		return tmpl
	}
	return c.Templates["default"]
}
