package glassdoor

import (
	"fmt"
	"strconv"
	"strings"
)

// Locale is a Glassdoor country site. Its ID goes into the tldp cookie and
// the filter.countryId query parameter and selects which localized result
// set the site serves.
type Locale struct {
	ID   int
	Code string
	Name string
}

var locales = []Locale{
	{ID: 1, Code: "us", Name: "United States"},
	{ID: 2, Code: "uk", Name: "United Kingdom"},
	{ID: 3, Code: "ca", Name: "Canada (English)"},
	{ID: 4, Code: "in", Name: "India"},
	{ID: 5, Code: "au", Name: "Australia"},
	{ID: 6, Code: "fr", Name: "France"},
	{ID: 7, Code: "de", Name: "Deutschland"},
	{ID: 8, Code: "es", Name: "España"},
	{ID: 9, Code: "br", Name: "Brasil"},
	{ID: 10, Code: "nl", Name: "Nederland"},
	{ID: 11, Code: "at", Name: "Österreich"},
	{ID: 12, Code: "mx", Name: "México"},
	{ID: 13, Code: "ar", Name: "Argentina"},
	{ID: 14, Code: "be-nl", Name: "België (Nederlands)"},
	{ID: 15, Code: "be-fr", Name: "Belgique (Français)"},
	{ID: 16, Code: "ch-de", Name: "Schweiz (Deutsch)"},
	{ID: 17, Code: "ch-fr", Name: "Suisse (Français)"},
	{ID: 18, Code: "ie", Name: "Ireland"},
	{ID: 19, Code: "ca-fr", Name: "Canada (Français)"},
	{ID: 20, Code: "hk", Name: "Hong Kong"},
	{ID: 21, Code: "nz", Name: "New Zealand"},
	{ID: 22, Code: "sg", Name: "Singapore"},
	{ID: 23, Code: "it", Name: "Italia"},
}

var localeAliases = map[string]string{
	"usa": "us",
	"gb":  "uk",
	"en":  "us",
	"be":  "be-nl",
	"ch":  "ch-de",
}

// DefaultLocale is the United States site.
var DefaultLocale = locales[0]

// Locales returns every known Glassdoor country site ordered by id.
func Locales() []Locale {
	return append([]Locale(nil), locales...)
}

// ParseLocale resolves a locale from its numeric id or short code.
// An empty value yields DefaultLocale.
func ParseLocale(value string) (Locale, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return DefaultLocale, nil
	}
	if id, err := strconv.Atoi(value); err == nil {
		for _, locale := range locales {
			if locale.ID == id {
				return locale, nil
			}
		}
		return Locale{}, fmt.Errorf("unknown locale id: %d", id)
	}

	value = strings.ReplaceAll(value, "_", "-")
	if alias, ok := localeAliases[value]; ok {
		value = alias
	}
	for _, locale := range locales {
		if locale.Code == value {
			return locale, nil
		}
	}
	return Locale{}, fmt.Errorf("unknown locale: %s", value)
}
