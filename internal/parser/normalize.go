package parser

import (
	"regexp"
	"strconv"
	"strings"
)

var multiSpaceRE = regexp.MustCompile(`\s+`)

func normaliseInput(raw string) string {
	raw = strings.TrimSpace(strings.ToLower(raw))
	if raw == "" {
		return ""
	}
	var b strings.Builder
	lastSpace := false
	for _, r := range raw {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastSpace = false
			continue
		}
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '-' || r == '_' || r == '/' || r == '\'' || r == '#' {
			if !lastSpace {
				b.WriteByte(' ')
			}
			lastSpace = true
		}
	}
	return strings.TrimSpace(multiSpaceRE.ReplaceAllString(b.String(), " "))
}

func tokenise(normalised string) []string {
	if strings.TrimSpace(normalised) == "" {
		return nil
	}
	return strings.Fields(normalised)
}

var ordinalWords = map[string]int{
	"one": 1, "first": 1, "1st": 1,
	"two": 2, "second": 2, "2nd": 2,
	"three": 3, "third": 3, "3rd": 3,
	"four": 4, "fourth": 4, "4th": 4,
	"five": 5, "fifth": 5, "5th": 5,
	"six": 6, "sixth": 6, "6th": 6,
	"seven": 7, "seventh": 7, "7th": 7,
	"eight": 8, "eighth": 8, "8th": 8,
	"nine": 9, "ninth": 9, "9th": 9,
}

// parseSlotToken reads a 1-based slot number ("3", "third") and returns the
// 0-based index.
func parseSlotToken(token string) (int, bool) {
	token = strings.TrimSpace(strings.ToLower(token))
	if token == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(token); err == nil {
		if n < 1 {
			return 0, false
		}
		return n - 1, true
	}
	if n, ok := ordinalWords[token]; ok {
		return n - 1, true
	}
	return 0, false
}

func isPronoun(token string) bool {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "it", "that", "them", "this", "those", "another", "again":
		return true
	default:
		return false
	}
}

func isFiller(token string) bool {
	switch token {
	case "the", "a", "an", "slot", "tile", "square", "cell", "number", "no", "up", "at", "from", "on":
		return true
	default:
		return false
	}
}

// Normalise applies the parser's input normalisation, so callers can compare
// species names with resolved arguments.
func Normalise(s string) string {
	return normaliseInput(s)
}
