package template

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Template represents the structure of a TOML message template file
type Template struct {
	Message     string `toml:"message"`
	Description string `toml:"description,omitempty"`
}

// LoadTemplate loads a template file and returns its contents
func LoadTemplate(filePath string) (*Template, error) {
	var tmpl Template
	if _, err := toml.DecodeFile(filePath, &tmpl); err != nil {
		return nil, fmt.Errorf("error decoding template file: %v", err)
	}
	if tmpl.Message == "" {
		return nil, fmt.Errorf("template file %s has no message", filePath)
	}
	return &tmpl, nil
}
