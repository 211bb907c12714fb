package database

import (
	"regexp"
	"strings"
)

var (
	commentRegex = regexp.MustCompile(`(?m)^\s*--.*$`)
	stringRegex  = regexp.MustCompile(`'(?:[^']|'')*'|"(?:[^"]|"")*"|` + "`(?:[^`]|``)*`")
)

// splitStatements breaks a DDL script into single statements on semicolons
// that are not inside quoted literals or identifiers.
func splitStatements(script string) []string {
	script = commentRegex.ReplaceAllString(script, "")

	quoted := make(map[int]bool)
	for _, match := range stringRegex.FindAllStringIndex(script, -1) {
		for i := match[0]; i < match[1]; i++ {
			quoted[i] = true
		}
	}

	statements := make([]string, 0, strings.Count(script, ";")+1)
	var current strings.Builder

	flush := func() {
		stmt := strings.TrimSpace(current.String())
		if stmt != "" {
			statements = append(statements, stmt)
		}
		current.Reset()
	}

	for i, char := range script {
		if char == ';' && !quoted[i] {
			flush()
			continue
		}
		current.WriteRune(char)
	}
	flush()

	return statements
}
