package service

import (
	"encoding/json"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

type generatedItem struct {
	Text    string `json:"text"`
	Comment string `json:"comment"`
}

type generatedItems struct {
	Items []generatedItem `json:"items"`
}

var (
	codeFence     = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*(.*?)\\s*```$")
	markerLine    = regexp.MustCompile(`(?i)^(caption|comment|prompt)\s*#?\s*(\d+)\s*[:.)\-]\s*(.*)$`)
	numberedLine  = regexp.MustCompile(`^(\d+)\s*[.)]\s+(.*)$`)
	commentLine   = regexp.MustCompile(`(?i)^comment\s*#?\s*\d*\s*[:.)\-]\s*(.*)$`)
	blankLines    = regexp.MustCompile(`\n\s*\n`)
	linePrefix    = regexp.MustCompile(`^(#{1,6}\s+|[-*>]\s+)`)
	markdownNoise = strings.NewReplacer("**", "", "__", "")
)

// ParseCaptions extracts up to count captions from a model response. Comments are
// aligned with captions by position. A caption without its own comment gets the last
// comment the model produced, or defaultComment when it produced none.
func ParseCaptions(raw string, count int, withComments bool, defaultComment string) (captions, comments []string) {
	items := parseGenerated(raw, "caption")
	if len(items) > count {
		items = items[:count]
	}

	for _, item := range items {
		captions = append(captions, item.Text)
	}

	if !withComments || len(captions) == 0 {
		return captions, nil
	}

	last := defaultComment
	for _, item := range items {
		if item.Comment != "" {
			last = item.Comment
		}
	}

	for _, item := range items {
		if item.Comment != "" {
			comments = append(comments, item.Comment)
		} else {
			comments = append(comments, last)
		}
	}
	if last == "" {
		return captions, nil
	}
	return captions, comments
}

// ParsePrompts extracts up to count image or video prompts from a model response.
func ParsePrompts(raw string, count int) []string {
	items := parseGenerated(raw, "prompt")
	if len(items) > count {
		items = items[:count]
	}

	prompts := make([]string, 0, len(items))
	for _, item := range items {
		prompts = append(prompts, item.Text)
	}
	return prompts
}

// parseGenerated tries structured JSON first, then markers, numbered items, blank-line
// blocks and finally the whole text. A non-empty response always yields one item.
func parseGenerated(raw, label string) []generatedItem {
	text := strings.TrimSpace(strings.ReplaceAll(raw, "\r\n", "\n"))
	if text == "" {
		return nil
	}

	if items := parseStructured(text); len(items) > 0 {
		return items
	}
	if items := parseMarkers(text, label); len(items) > 0 {
		return items
	}
	if items := parseNumbered(text); len(items) > 0 {
		return items
	}
	if items := parseBlocks(text); len(items) > 0 {
		return items
	}
	return []generatedItem{{Text: text}}
}

func parseStructured(text string) []generatedItem {
	if m := codeFence.FindStringSubmatch(text); m != nil {
		text = m[1]
	}

	var out generatedItems
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return nil
	}

	var items []generatedItem
	for _, item := range out.Items {
		item.Text = strings.TrimSpace(item.Text)
		item.Comment = strings.TrimSpace(item.Comment)
		if item.Text != "" {
			items = append(items, item)
		}
	}
	return items
}

func cleanLine(line string) string {
	line = strings.TrimSpace(markdownNoise.Replace(line))
	return strings.TrimSpace(linePrefix.ReplaceAllString(line, ""))
}

func parseMarkers(text, label string) []generatedItem {
	texts := map[int]*strings.Builder{}
	comments := map[int]*strings.Builder{}

	var current *strings.Builder
	for _, line := range strings.Split(text, "\n") {
		cleaned := cleanLine(line)
		m := markerLine.FindStringSubmatch(cleaned)
		if m == nil {
			if current != nil && cleaned != "" {
				current.WriteString("\n")
				current.WriteString(cleaned)
			}
			continue
		}

		n, _ := strconv.Atoi(m[2])
		kind := strings.ToLower(m[1])

		var target map[int]*strings.Builder
		switch {
		case kind == label:
			target = texts
		case kind == "comment" && label == "caption":
			target = comments
		default:
			current = nil
			continue
		}

		b, ok := target[n]
		if !ok {
			b = &strings.Builder{}
			target[n] = b
		} else if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(strings.TrimSpace(m[3]))
		current = b
	}

	numbers := make([]int, 0, len(texts))
	for n := range texts {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)

	var items []generatedItem
	for _, n := range numbers {
		item := generatedItem{Text: strings.TrimSpace(texts[n].String())}
		if c, ok := comments[n]; ok {
			item.Comment = strings.TrimSpace(c.String())
		}
		if item.Text != "" {
			items = append(items, item)
		}
	}
	return items
}

func parseNumbered(text string) []generatedItem {
	var items []generatedItem
	var lines []string

	flush := func() {
		if lines == nil {
			return
		}
		if item, ok := itemFromLines(lines); ok {
			items = append(items, item)
		}
		lines = nil
	}

	for _, line := range strings.Split(text, "\n") {
		cleaned := cleanLine(line)
		if m := numberedLine.FindStringSubmatch(cleaned); m != nil {
			flush()
			lines = []string{m[2]}
			continue
		}
		if lines != nil && cleaned != "" {
			lines = append(lines, cleaned)
		}
	}
	flush()
	return items
}

func parseBlocks(text string) []generatedItem {
	var items []generatedItem
	for _, block := range blankLines.Split(text, -1) {
		var lines []string
		for _, line := range strings.Split(block, "\n") {
			if cleaned := cleanLine(line); cleaned != "" {
				lines = append(lines, cleaned)
			}
		}
		if item, ok := itemFromLines(lines); ok {
			items = append(items, item)
		}
	}
	return items
}

// itemFromLines joins lines into one item, pulling out an inline "Comment:" or
// "COMMENT N:" line.
func itemFromLines(lines []string) (generatedItem, bool) {
	var text []string
	var item generatedItem
	for _, line := range lines {
		if m := commentLine.FindStringSubmatch(line); m != nil {
			item.Comment = strings.TrimSpace(m[1])
			continue
		}
		text = append(text, line)
	}
	item.Text = strings.TrimSpace(strings.Join(text, "\n"))
	return item, item.Text != ""
}
