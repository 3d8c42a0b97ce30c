package service

import (
	"fmt"
	"strings"
)

// PromptTemplates are the configured instruction templates. The
// translation template carries a {language} placeholder.
type PromptTemplates struct {
	Correction string
	Translate  string
	Detection  string
}

// PromptBuilder resolves which instruction a message gets and renders the
// template once, so both provider request shapes (flattened prompt and
// system/user pair) share the same logic.
type PromptBuilder struct {
	templates       PromptTemplates
	defaultLanguage string
}

func NewPromptBuilder(templates PromptTemplates, defaultLanguage string) *PromptBuilder {
	return &PromptBuilder{templates: templates, defaultLanguage: defaultLanguage}
}

// RenderTemplate substitutes the {language} placeholder.
func RenderTemplate(template, language string) string {
	return strings.ReplaceAll(template, "{language}", language)
}

// FlattenPrompt collapses a system instruction and user message into the
// single-string shape the legacy completions endpoint expects.
func FlattenPrompt(system, userMessage string) string {
	return fmt.Sprintf("%s '%s'", system, userMessage)
}

// ResolveLanguage picks the group's configured target language, falling
// back to the global default.
func (b *PromptBuilder) ResolveLanguage(groupLanguage string) string {
	if groupLanguage != "" {
		return groupLanguage
	}
	return b.defaultLanguage
}

// ForMessage chooses between correction and translation: text already in
// the target language only needs correcting, anything else is translated
// into the target language.
func (b *PromptBuilder) ForMessage(detectedLanguage, targetLanguage string) string {
	if strings.HasPrefix(strings.ToLower(detectedLanguage), strings.ToLower(targetLanguage)) {
		return b.templates.Correction
	}
	return RenderTemplate(b.templates.Translate, targetLanguage)
}

// DetectionPrompt is the flattened instruction for the language
// detection pre-step.
func (b *PromptBuilder) DetectionPrompt(text string) string {
	return FlattenPrompt(b.templates.Detection, text)
}

// ValidDetectedLanguage rejects detector answers that are clearly not a
// language name. A real answer is one or two words.
func ValidDetectedLanguage(detected string) bool {
	words := CountWords(detected)
	return words > 0 && words < 3
}
