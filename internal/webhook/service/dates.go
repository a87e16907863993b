package service

import (
	"regexp"
	"strings"
	"time"
)

// spanishMonths translates month names so the form's localized dates parse
// with the standard layouts below.
var spanishMonths = map[string]string{
	"enero": "January", "febrero": "February", "marzo": "March",
	"abril": "April", "mayo": "May", "junio": "June",
	"julio": "July", "agosto": "August", "septiembre": "September",
	"octubre": "October", "noviembre": "November", "diciembre": "December",
}

var monthPattern = func() *regexp.Regexp {
	names := make([]string, 0, len(spanishMonths))
	for es := range spanishMonths {
		names = append(names, es)
	}
	return regexp.MustCompile(`(?i)\b(` + strings.Join(names, "|") + `)\b`)
}()

var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"2 January 2006",
	"2 de January de 2006",
	"January 2, 2006",
	"January 2 2006",
	"2 January, 2006",
}

// defaultCollectionOffset is applied when the form sends no usable date.
const defaultCollectionOffset = 7 * 24 * time.Hour

// ParseCollectionDate turns the form's free-text date into a calendar date.
// Spanish month names are translated first; anything unparseable falls back
// to a week from now, which the admin corrects during review.
func ParseCollectionDate(value string, now time.Time) time.Time {
	fallback := now.Add(defaultCollectionOffset).Truncate(24 * time.Hour)

	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}

	value = monthPattern.ReplaceAllStringFunc(value, func(match string) string {
		return spanishMonths[strings.ToLower(match)]
	})

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return fallback
}
