// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package rewriter

import (
	"strings"

	"github.com/viant/parsly"
)

// ValueKind is the shape of a parameter value the rewriter understands.
type ValueKind int

const (
	ValueList ValueKind = iota
	ValueSymbol
	ValueSingleQuoted
	ValueDoubleQuoted
	ValueTrue
	ValueFalse
)

var valueKindNames = map[ValueKind]string{
	ValueList:         "list",
	ValueSymbol:       "symbol",
	ValueSingleQuoted: "single-quoted",
	ValueDoubleQuoted: "double-quoted",
	ValueTrue:         "true",
	ValueFalse:        "false",
}

func (k ValueKind) String() string {
	if name, ok := valueKindNames[k]; ok {
		return name
	}
	return "unknown"
}

var tokenKinds = map[int]ValueKind{
	listToken:         ValueList,
	symbolToken:       ValueSymbol,
	singleQuotedToken: ValueSingleQuoted,
	doubleQuotedToken: ValueDoubleQuoted,
	trueToken:         ValueTrue,
	falseToken:        ValueFalse,
}

// Param is one recognized "key: value" pair.
type Param struct {
	Key   string
	Value string
	Kind  ValueKind
}

// ParseSafeParams tokenizes a parameter list made only of simple key/value
// pairs separated by commas. It returns false when anything else is present,
// including braces or an empty list.
func ParseSafeParams(params string) ([]Param, bool) {
	if strings.ContainsAny(params, "{}") {
		return nil, false
	}

	cursor := parsly.NewCursor("", []byte(params), 0)
	var result []Param
	for {
		matched := cursor.MatchAfterOptional(whitespaceMatcher, keyMatcher)
		if matched.Code != keyToken {
			return nil, false
		}
		key := normalizeKey(matched.Text(cursor))

		matched = cursor.MatchAfterOptional(whitespaceMatcher, valueMatchers...)
		kind, ok := tokenKinds[matched.Code]
		if !ok {
			return nil, false
		}
		result = append(result, Param{Key: key, Value: matched.Text(cursor), Kind: kind})

		skipWhitespace(cursor)
		if cursor.Pos >= cursor.InputSize {
			return result, true
		}
		if matched = cursor.MatchAfterOptional(whitespaceMatcher, commaMatcher); matched.Code != commaToken {
			return nil, false
		}
	}
}

func skipWhitespace(cursor *parsly.Cursor) {
	for cursor.Pos < cursor.InputSize {
		switch cursor.Input[cursor.Pos] {
		case ' ', '\t', '\r', '\n', '\v', '\f':
			cursor.Pos++
		default:
			return
		}
	}
}

// normalizeKey turns "name:" and ":name =>" into "name".
func normalizeKey(text string) string {
	text = strings.TrimSuffix(text, "=>")
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, ":")
	return strings.TrimSuffix(text, ":")
}

// IsSafeHash reports whether params can take one more key/value pair appended.
func IsSafeHash(params string) bool {
	_, ok := ParseSafeParams(params)
	return ok
}
