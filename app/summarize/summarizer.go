package summarize

import (
	"context"
	"fmt"
	"strings"
)

// Options controls the shape of a requested summary.
type Options struct {
	Level    string // "short" or "detailed"
	Focus    string // implementation, troubleshooting, architecture, performance, general
	Language string // "en" or "ja"
}

// Summarizer produces a summary of already-extracted article text.
type Summarizer interface {
	Summarize(ctx context.Context, text string, opts Options) (string, error)
}

const basePrompt = "You are a technical article summarization expert."

var levelPrompts = map[string]string{
	"short":    "Summarize in 3-5 bullet points, 1-2 sentences each.",
	"detailed": "Summarize in 7-10 bullet points, 2-3 sentences each with technical details.",
}

var focusPrompts = map[string]string{
	"implementation":  "Focus on: implementation methods, code examples, setup procedures.",
	"troubleshooting": "Focus on: problems solved, root causes, solution approaches.",
	"architecture":    "Focus on: system design, technology choices, architectural decisions.",
	"performance":     "Focus on: optimization techniques, performance improvements.",
	"general":         "Provide balanced coverage of all important aspects.",
}

var languageLabels = map[string]string{
	"en": "English",
	"ja": "Japanese",
}

func (o *Options) applyDefaults() {
	if o.Level == "" {
		o.Level = "short"
	}
	if o.Focus == "" {
		o.Focus = "general"
	}
	if o.Language == "" {
		o.Language = "en"
	}
}

func (o Options) validate() error {
	if _, ok := levelPrompts[o.Level]; !ok {
		return fmt.Errorf("unsupported summary level: %s", o.Level)
	}
	if _, ok := focusPrompts[o.Focus]; !ok {
		return fmt.Errorf("unsupported summary focus: %s", o.Focus)
	}
	if _, ok := languageLabels[o.Language]; !ok {
		return fmt.Errorf("unsupported summary language: %s", o.Language)
	}
	return nil
}

// buildPrompt assembles the instruction block, article metadata and text
// into a single prompt string.
func buildPrompt(title, url, text string, opts Options) string {
	parts := []string{
		basePrompt,
		levelPrompts[opts.Level],
		focusPrompts[opts.Focus],
		fmt.Sprintf("Respond in %s only.", languageLabels[opts.Language]),
	}

	if title != "" {
		parts = append(parts, "Title: "+title)
	}
	parts = append(parts, "URL: "+url, text)

	return strings.Join(parts, "\n\n")
}
