package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/bytedance/sonic"
)

const questionsPlaceholder = "{questions}"

// RenderPrompt substitutes the questions file, re-encoded as compact JSON,
// for every {questions} placeholder in the template.
func RenderPrompt(templatePath, questionsPath string) (string, error) {
	tmpl, err := os.ReadFile(templatePath)
	if err != nil {
		return "", fmt.Errorf("reading prompt template: %w", err)
	}
	if !strings.Contains(string(tmpl), questionsPlaceholder) {
		return string(tmpl), nil
	}
	raw, err := os.ReadFile(questionsPath)
	if err != nil {
		return "", fmt.Errorf("reading questions: %w", err)
	}
	var questions any
	if err := sonic.Unmarshal(raw, &questions); err != nil {
		return "", fmt.Errorf("decoding questions %q: %w", questionsPath, err)
	}
	encoded, err := sonic.ConfigDefault.MarshalToString(questions)
	if err != nil {
		return "", fmt.Errorf("encoding questions: %w", err)
	}
	return strings.ReplaceAll(string(tmpl), questionsPlaceholder, encoded), nil
}
