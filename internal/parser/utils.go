package parser

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var (
	rirPattern      = regexp.MustCompile(`(?i)r\((\d+)\)`)
	firstIntPattern = regexp.MustCompile(`\d+`)
	leadingIntRe    = regexp.MustCompile(`^\d+`)
)

// ExtractRIR pulls "reps in reserve" out of a free-form cell.
// Supported forms: "r(2) tempo slow" -> 2, "3" -> 3. A cell without digits
// yields nil.
func ExtractRIR(text string) *int {
	if m := rirPattern.FindStringSubmatch(text); len(m) == 2 {
		if v, err := strconv.Atoi(m[1]); err == nil {
			return &v
		}
	}
	if m := firstIntPattern.FindString(text); m != "" {
		if v, err := strconv.Atoi(m); err == nil {
			return &v
		}
	}
	return nil
}

// leadingInt parses the integer prefix of a cell, so "3" and "3x10" both
// yield 3. Anything without a digit prefix yields 0.
func leadingInt(text string) int {
	m := leadingIntRe.FindString(text)
	if m == "" {
		return 0
	}
	v, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return v
}

// cleanCell strips decorative quotes and surrounding whitespace.
func cleanCell(text string) string {
	text = strings.ReplaceAll(text, `"`, "")
	return strings.TrimSpace(text)
}

// normalizeMuscleGroup strips markup, trims and title-cases a muscle group
// cell. A blank cell falls back to "General".
func normalizeMuscleGroup(text string) string {
	text = strings.ReplaceAll(text, "**", "")
	text = cleanCell(text)
	if text == "" {
		return "General"
	}
	return titleCase(text)
}

// titleCase upper-cases the first letter of each word and lower-cases the
// rest, so "PECHO Y HOMBRO" and "pecho y hombro" normalize identically.
func titleCase(text string) string {
	words := strings.Fields(strings.ToLower(text))
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
