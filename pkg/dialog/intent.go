package dialog

import (
	"strings"

	"hr-helpdesk-be/pkg/i18n"
)

// Intent is the guided dialog a menu selection asks for.
type Intent int

const (
	IntentNone Intent = iota
	IntentVacation
	IntentDepartment
	IntentResignation
)

func (i Intent) String() string {
	switch i {
	case IntentVacation:
		return "vacation"
	case IntentDepartment:
		return "department"
	case IntentResignation:
		return "resignation"
	default:
		return "none"
	}
}

// menuIntents maps menu entry ids to the dialog they open.
var menuIntents = map[string]Intent{
	"vacation":    IntentVacation,
	"department":  IntentDepartment,
	"resignation": IntentResignation,
}

// Classifier recognizes trigger phrases by exact (trimmed) match against the
// menu text in either language.
type Classifier struct {
	triggers map[string]Intent
}

func NewClassifier(catalog *i18n.Catalog) *Classifier {
	c := &Classifier{triggers: make(map[string]Intent)}
	for id, intent := range menuIntents {
		text, ok := catalog.MenuText(id)
		if !ok {
			continue
		}
		for _, phrase := range []string{text.Ar, text.En} {
			if phrase = strings.TrimSpace(phrase); phrase != "" {
				c.triggers[phrase] = intent
			}
		}
	}
	return c
}

func (c *Classifier) Classify(text string) Intent {
	return c.triggers[strings.TrimSpace(text)]
}
