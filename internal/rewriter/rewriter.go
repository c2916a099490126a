// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package rewriter injects only:/except: clauses into resource(s) lines.
//
// It understands a single call shape, one resource(s) declaration per line,
// and refuses anything it cannot rewrite without guessing.
package rewriter

import (
	"regexp"
	"strings"
)

var (
	resourcesLine = regexp.MustCompile(`^(?P<beginning>\s*resources?\(?\s*:\w+)(?P<separator>,\s*)?(?P<params>.*?)(?P<end>\)?(?:\s+(?:do|\{))?[\t ]*)$`)
	onlyExcept    = regexp.MustCompile(`(:(?:only|except)\s*=>|\b(?:only|except):)\s*(\[[^\]]*\]|:\w+)`)
	bracedParams  = regexp.MustCompile(`^(\s*\{\s*)(.*?)(\s*\}\s*)$`)
)

const defaultSeparator = ", "

// FixResourcesLine rewrites line so that its parameters carry suggestion,
// e.g. "only: [:index]". A trailing line break is preserved. It returns false
// when the parameter list has a shape it does not understand.
func FixResourcesLine(line, suggestion string) (string, bool) {
	body, lineBreak := splitLineBreak(line)

	m := resourcesLine.FindStringSubmatch(body)
	if m == nil {
		return "", false
	}
	beginning := m[resourcesLine.SubexpIndex("beginning")]
	separator := m[resourcesLine.SubexpIndex("separator")]
	params := m[resourcesLine.SubexpIndex("params")]
	end := m[resourcesLine.SubexpIndex("end")]

	if separator == "" {
		separator = defaultSeparator
	}

	newParams, ok := rewriteParams(params, suggestion)
	if !ok {
		return "", false
	}
	return beginning + separator + newParams + end + lineBreak, true
}

func rewriteParams(params, suggestion string) (string, bool) {
	if params == "" {
		return suggestion, true
	}

	if locs := onlyExcept.FindAllStringIndex(params, -1); locs != nil {
		return replaceClauses(params, locs, suggestion), true
	}

	if IsSafeHash(params) {
		return params + ", " + suggestion, true
	}

	if m := bracedParams.FindStringSubmatch(params); m != nil && IsSafeHash(m[2]) {
		return m[1] + m[2] + ", " + suggestion + m[3], true
	}

	return "", false
}

// replaceClauses puts suggestion in place of the first only:/except: clause
// and drops the remaining ones with their leading comma.
func replaceClauses(params string, locs [][]int, suggestion string) string {
	var sb strings.Builder
	prev := 0
	for i, loc := range locs {
		start := loc[0]
		if i > 0 {
			start = separatorStart(params, prev, start)
		}
		sb.WriteString(params[prev:start])
		if i == 0 {
			sb.WriteString(suggestion)
		}
		prev = loc[1]
	}
	sb.WriteString(params[prev:])
	return sb.String()
}

// separatorStart returns where the comma separating params[end:] from the
// preceding parameter starts, or end when there is none after from.
func separatorStart(params string, from, end int) int {
	before := strings.TrimRight(params[from:end], " \t")
	if !strings.HasSuffix(before, ",") {
		return end
	}
	return from + len(strings.TrimRight(strings.TrimSuffix(before, ","), " \t"))
}

func splitLineBreak(line string) (string, string) {
	idx := strings.IndexAny(line, "\r\n")
	if idx < 0 {
		return line, ""
	}
	return line[:idx], line[idx:]
}
