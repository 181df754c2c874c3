package prompt

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"hr-helpdesk-be/pkg/store"
)

const DefaultMaxContextChars = 8000

const defaultDomain = "Egypt's Labour Law 14/2025"

// Builder assembles a grounded answering prompt from retrieval hits.
type Builder struct {
	maxContextChars int
	domain          string
}

func NewBuilder(maxContextChars int, domain string) *Builder {
	if maxContextChars <= 0 {
		maxContextChars = DefaultMaxContextChars
	}
	if domain == "" {
		domain = defaultDomain
	}
	return &Builder{maxContextChars: maxContextChars, domain: domain}
}

// Build lays out instructions, question, context and answer cue. Context
// blocks are appended in hit order while they fit the character budget.
func (b *Builder) Build(query string, hits []store.Hit) string {
	var prompt strings.Builder

	b.writeInstructions(&prompt)

	prompt.WriteString("\n\nQuestion:\n")
	prompt.WriteString(query)

	prompt.WriteString("\n\nContext:\n")
	prompt.WriteString(b.Context(hits))

	prompt.WriteString("\n\nAnswer (concise and specific):\n")
	return prompt.String()
}

// Context renders hits into at most maxContextChars characters. A first block
// larger than the budget is cut rather than dropped.
func (b *Builder) Context(hits []store.Hit) string {
	var parts []string
	total := 0

	for _, hit := range hits {
		block := FormatBlock(hit)
		size := utf8.RuneCountInString(block)
		if total+size > b.maxContextChars {
			if len(parts) == 0 {
				parts = append(parts, block)
			}
			break
		}
		parts = append(parts, block)
		total += size
	}

	return truncateRunes(strings.TrimSpace(strings.Join(parts, "\n")), b.maxContextChars)
}

// FormatBlock renders one hit as "[Source: url | Section: s] Score=0.000" followed by its text.
func FormatBlock(hit store.Hit) string {
	return fmt.Sprintf("\n[Source: %s | Section: %s] Score=%.3f\n%s\n",
		hit.Chunk.SourceURL, hit.Chunk.Section, hit.Score, hit.Chunk.Text)
}

func (b *Builder) writeInstructions(prompt *strings.Builder) {
	prompt.WriteString("You are an HR assistant answering questions about " + b.domain + ".\n")
	prompt.WriteString("Ground your answers ONLY in the context provided below (Arabic or English). If you're unsure, say so.\n")
	prompt.WriteString("Where relevant, cite the URL in-line as (Source: <url>). Use bullets when helpful.\n")
	prompt.WriteString("Provide accurate, specific information based on the context.")
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
