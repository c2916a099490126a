// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package rails

import (
	"regexp"
	"strings"
)

type inflection struct {
	pattern     *regexp.Regexp
	replacement string
}

// pluralRules are tried in order; the first match wins.
var pluralRules = []inflection{
	{regexp.MustCompile(`(?i)(quiz)$`), "${1}zes"},
	{regexp.MustCompile(`(?i)^(oxen)$`), "${1}"},
	{regexp.MustCompile(`(?i)^(ox)$`), "${1}en"},
	{regexp.MustCompile(`(?i)^(m|l)ice$`), "${1}ice"},
	{regexp.MustCompile(`(?i)^(m|l)ouse$`), "${1}ice"},
	{regexp.MustCompile(`(?i)(matr|vert|ind)(?:ix|ex)$`), "${1}ices"},
	{regexp.MustCompile(`(?i)(x|ch|ss|sh)$`), "${1}es"},
	{regexp.MustCompile(`(?i)([^aeiouy]|qu)y$`), "${1}ies"},
	{regexp.MustCompile(`(?i)(hive)$`), "${1}s"},
	{regexp.MustCompile(`(?i)(?:([^f])fe|([lr])f)$`), "${1}${2}ves"},
	{regexp.MustCompile(`(?i)sis$`), "ses"},
	{regexp.MustCompile(`(?i)([ti])a$`), "${1}a"},
	{regexp.MustCompile(`(?i)([ti])um$`), "${1}a"},
	{regexp.MustCompile(`(?i)(buffal|tomat)o$`), "${1}oes"},
	{regexp.MustCompile(`(?i)(bu)s$`), "${1}ses"},
	{regexp.MustCompile(`(?i)(alias|status)$`), "${1}es"},
	{regexp.MustCompile(`(?i)(octop|vir)i$`), "${1}i"},
	{regexp.MustCompile(`(?i)(octop|vir)us$`), "${1}i"},
	{regexp.MustCompile(`(?i)^(ax|test)is$`), "${1}es"},
	{regexp.MustCompile(`(?i)s$`), "s"},
	{regexp.MustCompile(`$`), "s"},
}

var irregularPlurals = map[string]string{
	"person": "people",
	"man":    "men",
	"child":  "children",
	"sex":    "sexes",
	"move":   "moves",
	"zombie": "zombies",
}

var uncountables = map[string]bool{
	"equipment":   true,
	"information": true,
	"rice":        true,
	"money":       true,
	"species":     true,
	"series":      true,
	"fish":        true,
	"sheep":       true,
	"jeans":       true,
	"police":      true,
}

// Pluralize returns the plural form of an underscored word using the
// default English inflections of the framework. Only the last word of
// an underscored name is inflected.
func Pluralize(word string) string {
	if word == "" || uncountables[strings.ToLower(word)] {
		return word
	}

	for singular, plural := range irregularPlurals {
		if strings.EqualFold(word, singular) {
			return plural
		}
		if strings.HasSuffix(strings.ToLower(word), "_"+singular) {
			return word[:len(word)-len(singular)] + plural
		}
		if strings.EqualFold(word, plural) || strings.HasSuffix(strings.ToLower(word), "_"+plural) {
			return word
		}
	}

	for _, rule := range pluralRules {
		if rule.pattern.MatchString(word) {
			return rule.pattern.ReplaceAllString(word, rule.replacement)
		}
	}
	return word
}
