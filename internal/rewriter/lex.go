// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package rewriter

import (
	"github.com/viant/parsly"
	"github.com/viant/parsly/matcher"
)

const (
	whitespaceToken int = iota
	commaToken
	keyToken
	listToken
	symbolToken
	singleQuotedToken
	doubleQuotedToken
	trueToken
	falseToken
)

var (
	whitespaceMatcher   = parsly.NewToken(whitespaceToken, "Whitespace", matcher.NewWhiteSpace())
	commaMatcher        = parsly.NewToken(commaToken, "Comma", matcher.NewByte(','))
	keyMatcher          = parsly.NewToken(keyToken, "Key", &hashKey{})
	listMatcher         = parsly.NewToken(listToken, "[ ... ]", &bracketList{})
	symbolMatcher       = parsly.NewToken(symbolToken, "Symbol", &symbol{})
	singleQuotedMatcher = parsly.NewToken(singleQuotedToken, "'...'", &quoted{quote: '\''})
	doubleQuotedMatcher = parsly.NewToken(doubleQuotedToken, `"..."`, &quoted{quote: '"'})
	trueMatcher         = parsly.NewToken(trueToken, "true", &keyword{text: "true"})
	falseMatcher        = parsly.NewToken(falseToken, "false", &keyword{text: "false"})
)

var valueMatchers = []*parsly.Token{listMatcher, symbolMatcher, singleQuotedMatcher, doubleQuotedMatcher, trueMatcher, falseMatcher}

func isWordByte(b byte) bool {
	return b == '_' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}

func wordLength(input []byte, from int) int {
	n := 0
	for i := from; i < len(input) && isWordByte(input[i]); i++ {
		n++
	}
	return n
}

// hashKey matches "name:" and the legacy ":name =>".
type hashKey struct{}

func (k *hashKey) Match(cursor *parsly.Cursor) (matched int) {
	input := cursor.Input[:cursor.InputSize]
	pos := cursor.Pos
	if pos >= len(input) {
		return 0
	}

	if input[pos] == ':' {
		n := wordLength(input, pos+1)
		if n == 0 {
			return 0
		}
		i := pos + 1 + n
		for i < len(input) && (input[i] == ' ' || input[i] == '\t') {
			i++
		}
		if i+1 < len(input) && input[i] == '=' && input[i+1] == '>' {
			return i + 2 - pos
		}
		return 0
	}

	n := wordLength(input, pos)
	i := pos + n
	if n == 0 || i >= len(input) || input[i] != ':' {
		return 0
	}
	if i+1 < len(input) && input[i+1] == ':' {
		return 0
	}
	return n + 1
}

// bracketList matches "[" up to the first "]".
type bracketList struct{}

func (l *bracketList) Match(cursor *parsly.Cursor) (matched int) {
	input := cursor.Input[:cursor.InputSize]
	if cursor.Pos >= len(input) || input[cursor.Pos] != '[' {
		return 0
	}
	for i := cursor.Pos + 1; i < len(input); i++ {
		if input[i] == ']' {
			return i + 1 - cursor.Pos
		}
	}
	return 0
}

type symbol struct{}

func (s *symbol) Match(cursor *parsly.Cursor) (matched int) {
	input := cursor.Input[:cursor.InputSize]
	if cursor.Pos >= len(input) || input[cursor.Pos] != ':' {
		return 0
	}
	n := wordLength(input, cursor.Pos+1)
	if n == 0 {
		return 0
	}
	return n + 1
}

// quoted matches a string without escapes or interpolation handling.
type quoted struct {
	quote byte
}

func (q *quoted) Match(cursor *parsly.Cursor) (matched int) {
	input := cursor.Input[:cursor.InputSize]
	if cursor.Pos >= len(input) || input[cursor.Pos] != q.quote {
		return 0
	}
	for i := cursor.Pos + 1; i < len(input); i++ {
		if input[i] == q.quote {
			return i + 1 - cursor.Pos
		}
	}
	return 0
}

type keyword struct {
	text string
}

func (k *keyword) Match(cursor *parsly.Cursor) (matched int) {
	input := cursor.Input[:cursor.InputSize]
	end := cursor.Pos + len(k.text)
	if end > len(input) || string(input[cursor.Pos:end]) != k.text {
		return 0
	}
	if end < len(input) && isWordByte(input[end]) {
		return 0
	}
	return len(k.text)
}
