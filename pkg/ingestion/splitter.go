package ingestion

import (
	"regexp"
	"strings"
)

var headingPattern = regexp.MustCompile(`(?m)^(#{1,6})[ \t]+(.*)$`)

// DefaultSectionTitle names text that precedes any heading.
const DefaultSectionTitle = "Document"

// Section is a titled span of cleaned document text.
type Section struct {
	Title string
	Body  string
}

// SplitSections cuts markdown-style text at heading lines. Text before the
// first heading belongs to a "Document" section; text without headings is a
// single "Document" section.
func SplitSections(text string) []Section {
	var sections []Section
	title := DefaultSectionTitle
	last := 0

	for _, m := range headingPattern.FindAllStringSubmatchIndex(text, -1) {
		start, end := m[0], m[1]
		if start > last {
			if body := strings.TrimSpace(text[last:start]); body != "" {
				sections = append(sections, Section{Title: title, Body: body})
			}
		}
		title = strings.TrimSpace(text[m[4]:m[5]])
		last = end
	}

	if tail := strings.TrimSpace(text[last:]); tail != "" {
		sections = append(sections, Section{Title: title, Body: tail})
	}
	if len(sections) == 0 {
		sections = []Section{{Title: DefaultSectionTitle, Body: text}}
	}
	return sections
}

// SplitText splits a long string into chunks of at most chunkSize characters.
// Consecutive chunks share exactly overlap characters so context survives the
// boundary. Lengths are counted in runes; Arabic text would otherwise be cut
// mid-character.
func SplitText(text string, chunkSize int, overlap int) []string {
	runes := []rune(text)
	totalLen := len(runes)
	if totalLen <= chunkSize {
		return []string{text}
	}

	step := chunkSize - overlap
	if step <= 0 {
		step = chunkSize // fallback if overlap >= chunkSize
	}

	var chunks []string
	for i := 0; i < totalLen; i += step {
		end := i + chunkSize
		if end > totalLen {
			end = totalLen
		}

		chunks = append(chunks, string(runes[i:end]))

		if end == totalLen {
			break
		}
	}

	return chunks
}
