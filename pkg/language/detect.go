// Package language detects Arabic versus English text and translates
// between them on a best-effort basis.
package language

import "hr-helpdesk-be/pkg/i18n"

// arabicShare is the fraction of Arabic characters above which text counts as Arabic.
const arabicShare = 0.3

// Detect returns i18n.LangArabic when more than 30% of the characters fall in
// the Arabic block (U+0600 to U+06FF), otherwise i18n.LangEnglish.
func Detect(text string) string {
	total, arabic := 0, 0
	for _, r := range text {
		total++
		if r >= 0x0600 && r <= 0x06FF {
			arabic++
		}
	}
	if total > 0 && float64(arabic) > float64(total)*arabicShare {
		return i18n.LangArabic
	}
	return i18n.LangEnglish
}

// Normalize maps anything other than Arabic to English.
func Normalize(lang string) string {
	if lang == i18n.LangArabic {
		return i18n.LangArabic
	}
	return i18n.LangEnglish
}
