// Package i18n serves the bilingual (Arabic/English) text used by the help desk.
package i18n

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	LangArabic  = "ar"
	LangEnglish = "en"
)

//go:embed messages.yaml
var defaultCatalog []byte

// Localized holds one message in both supported languages.
type Localized struct {
	Ar string `yaml:"ar"`
	En string `yaml:"en"`
}

// In returns the variant for lang, falling back to English.
func (l Localized) In(lang string) string {
	if lang == LangArabic && l.Ar != "" {
		return l.Ar
	}
	return l.En
}

// MenuItem is one entry of the guided common-questions menu.
type MenuItem struct {
	ID string `yaml:"id"`
	Localized `yaml:",inline"`
}

type catalogFile struct {
	Messages map[string]Localized `yaml:"messages"`
	Menu     []MenuItem           `yaml:"menu"`
}

// Catalog is an immutable message lookup. Safe for concurrent use.
type Catalog struct {
	messages map[string]Localized
	menu     []MenuItem
}

// Default parses the embedded catalog. It panics on a malformed file since the
// file ships with the binary.
func Default() *Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("i18n: embedded catalog: %v", err))
	}
	return c
}

// Parse builds a catalog from YAML bytes.
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(f.Messages) == 0 {
		return nil, fmt.Errorf("parse catalog: no messages")
	}
	return &Catalog{messages: f.Messages, menu: f.Menu}, nil
}

// Text returns the message for key in lang. Unknown keys yield the key itself
// so a missing translation is visible instead of blank.
func (c *Catalog) Text(key, lang string) string {
	m, ok := c.messages[key]
	if !ok {
		return key
	}
	return m.In(lang)
}

// Format returns the message with {placeholder} values substituted.
func (c *Catalog) Format(key, lang string, args map[string]interface{}) string {
	text := c.Text(key, lang)
	if len(args) == 0 {
		return text
	}
	pairs := make([]string, 0, len(args)*2)
	for k, v := range args {
		pairs = append(pairs, "{"+k+"}", fmt.Sprint(v))
	}
	return strings.NewReplacer(pairs...).Replace(text)
}

// Menu returns the guided menu entries in display order.
func (c *Catalog) Menu() []MenuItem {
	out := make([]MenuItem, len(c.menu))
	copy(out, c.menu)
	return out
}

// MenuText returns the menu entry text for id in every language.
func (c *Catalog) MenuText(id string) (Localized, bool) {
	for _, item := range c.menu {
		if item.ID == id {
			return item.Localized, true
		}
	}
	return Localized{}, false
}
