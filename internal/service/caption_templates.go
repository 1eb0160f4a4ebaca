package service

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed templates/prompts.yaml
var promptTemplatesYAML []byte

const (
	PlatformPage  = "page"
	PlatformGroup = "group"

	defaultStyle = "casual"
	defaultCount = 3
	maxCount     = 10
)

type topicTemplate struct {
	Instruction    string `yaml:"instruction"`
	DefaultComment string `yaml:"default_comment"`
}

type promptTemplates struct {
	Topics      map[string]topicTemplate `yaml:"topics"`
	Styles      map[string]string        `yaml:"styles"`
	Platforms   map[string]string        `yaml:"platforms"`
	PromptKinds map[string]string        `yaml:"prompt_kinds"`
}

func loadPromptTemplates(data []byte) (*promptTemplates, error) {
	var t promptTemplates
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse prompt templates: %w", err)
	}
	if len(t.Topics) == 0 || len(t.Styles) == 0 || len(t.Platforms) == 0 || len(t.PromptKinds) == 0 {
		return nil, fmt.Errorf("prompt templates are incomplete")
	}
	return &t, nil
}

func templateKeys[V any](m map[string]V) string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return strings.Join(out, ", ")
}

func clampCount(n int) int {
	if n <= 0 {
		return defaultCount
	}
	if n > maxCount {
		return maxCount
	}
	return n
}

func (t *promptTemplates) captionPrompt(topic, style, platform, extra string, count int, withComments bool) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are a social media copywriter writing for %s.\n", t.Platforms[platform])
	b.WriteString(t.Topics[topic].Instruction)
	b.WriteString("\n")
	fmt.Fprintf(&b, "Tone: %s\n", t.Styles[style])
	if extra != "" {
		fmt.Fprintf(&b, "Context from the author: %s\n", extra)
	}
	fmt.Fprintf(&b, "Write exactly %d distinct captions.\n", count)
	if withComments {
		b.WriteString("For each caption also write a short first comment that starts a conversation.\n")
	}

	b.WriteString("Return JSON of the form {\"items\":[{\"text\":\"...\",\"comment\":\"...\"}]}.\n")
	b.WriteString("If you cannot return JSON, use this exact format:\n")
	for i := 1; i <= 2 && i <= count; i++ {
		fmt.Fprintf(&b, "CAPTION %d: <caption>\n", i)
		if withComments {
			fmt.Fprintf(&b, "COMMENT %d: <comment>\n", i)
		}
	}
	return b.String()
}

func (t *promptTemplates) mediaPrompt(kind, topic, style, extra string, count int) string {
	var b strings.Builder

	b.WriteString(t.PromptKinds[kind])
	b.WriteString("\n")
	if topic != "" {
		fmt.Fprintf(&b, "Theme: %s\n", t.Topics[topic].Instruction)
	}
	if style != "" {
		fmt.Fprintf(&b, "Mood: %s\n", t.Styles[style])
	}
	if extra != "" {
		fmt.Fprintf(&b, "Context from the author: %s\n", extra)
	}
	fmt.Fprintf(&b, "Write exactly %d prompts.\n", count)
	b.WriteString("Return JSON of the form {\"items\":[{\"text\":\"...\"}]}.\n")
	b.WriteString("If you cannot return JSON, use this exact format:\n")
	for i := 1; i <= 2 && i <= count; i++ {
		fmt.Fprintf(&b, "PROMPT %d: <prompt>\n", i)
	}
	return b.String()
}
