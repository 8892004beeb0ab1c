package config

import (
	"fmt"
	"os"
	"strings"

	"salesbot/internal/models"

	yaml "gopkg.in/yaml.v2"
)

// TemplatesFile набор шаблонов, которые создаются менеджеру при регистрации
type TemplatesFile struct {
	Templates []models.Template `yaml:"templates"`
}

// LoadTemplates читает файл шаблонов. Отсутствующий файл не ошибка.
func LoadTemplates(path string) ([]models.Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read templates: %w", err)
	}

	var file TemplatesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	if err := ValidateTemplates(file.Templates); err != nil {
		return nil, err
	}
	return file.Templates, nil
}

func ValidateTemplates(templates []models.Template) error {
	names := make(map[string]bool)
	for _, tpl := range templates {
		name := strings.TrimSpace(tpl.Name)
		if name == "" {
			return fmt.Errorf("template with empty name")
		}
		if strings.TrimSpace(tpl.Content) == "" {
			return fmt.Errorf("template '%s' has empty content", tpl.Name)
		}
		if names[name] {
			return fmt.Errorf("duplicate template name found: %s", name)
		}
		names[name] = true
	}
	return nil
}
