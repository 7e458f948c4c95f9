// Package template formats user input with reusable TOML message templates.
package template

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FormatMessage formats the message with the named template if one is given.
// Later directories in templateDirs take precedence over earlier ones.
func FormatMessage(message string, templateName string, templateDirs []string, args []string) (string, error) {
	if templateName == "" {
		return message, nil
	}

	path, err := Find(templateName, templateDirs)
	if err != nil {
		return "", err
	}

	tmpl, err := LoadTemplate(path)
	if err != nil {
		return "", fmt.Errorf("error loading template file: %v", err)
	}

	argMap, err := processArgs(args)
	if err != nil {
		return "", fmt.Errorf("error processing arguments: %v", err)
	}

	replacements := make(map[string]string)
	replacements["input"] = message
	for key, value := range argMap {
		replacements[key] = value
	}

	formatted := tmpl.Message
	for key, value := range replacements {
		placeholder := fmt.Sprintf("{{%s}}", key)
		formatted = strings.ReplaceAll(formatted, placeholder, value)
	}

	return formatted, nil
}

// Find returns the path of the named template, searching every directory.
func Find(templateName string, templateDirs []string) (string, error) {
	templateFile := templateName
	if !strings.HasSuffix(templateFile, ".toml") {
		templateFile = templateFile + ".toml"
	}

	var found string
	for _, dir := range templateDirs {
		candidate := filepath.Join(dir, templateFile)
		if _, err := os.Stat(candidate); err == nil {
			// Keep searching: later directories win
			found = candidate
		}
	}

	if found == "" {
		return "", fmt.Errorf("template file '%s' not found in any of the template directories: %v", templateFile, templateDirs)
	}
	return found, nil
}

// processArgs processes key:value arguments and returns them as a map
func processArgs(args []string) (map[string]string, error) {
	result := make(map[string]string)
	for _, arg := range args {
		arg = strings.TrimSpace(arg)
		if strings.HasPrefix(arg, `"`) && strings.HasSuffix(arg, `"`) {
			arg = strings.Trim(arg, `"`)
		}

		parts := strings.SplitN(arg, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid argument format: %s. Expected format: key:value", arg)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		value = strings.ReplaceAll(value, `\:`, ":")
		value = strings.ReplaceAll(value, `\"`, `"`)

		if key == "" {
			return nil, fmt.Errorf("invalid argument format: %s. Key cannot be empty", arg)
		}
		if key == "input" {
			return nil, fmt.Errorf("'input' is a reserved keyword and cannot be used as a key")
		}
		result[key] = value
	}
	return result, nil
}
