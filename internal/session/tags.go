package session

import (
	"regexp"
	"strconv"
	"strings"
)

var tagSeparator = regexp.MustCompile(`[\s,]+`)

// MinSignalCount and MaxSignalCount bound the third-party signal count
const (
	MinSignalCount = 1
	MaxSignalCount = 10
)

// ParseTags splits raw input on whitespace and commas and upper-cases each piece.
// Empty pieces are dropped; duplicates within the input are kept for MergeTags to resolve.
func ParseTags(input string) []string {
	var tags []string
	for _, part := range tagSeparator.Split(input, -1) {
		if tag := strings.ToUpper(strings.TrimSpace(part)); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// MergeTags appends the tags parsed from input that are not already present.
// Existing order is kept; the result is a new slice.
func MergeTags(existing []string, input string) []string {
	seen := make(map[string]bool, len(existing))
	merged := make([]string, 0, len(existing))
	for _, tag := range existing {
		if !seen[tag] {
			seen[tag] = true
			merged = append(merged, tag)
		}
	}
	for _, tag := range ParseTags(input) {
		if !seen[tag] {
			seen[tag] = true
			merged = append(merged, tag)
		}
	}
	return merged
}

// ClampSignalCount parses a count from user input and clamps it to 1..10. Non-numeric input yields 1.
func ClampSignalCount(value string) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return MinSignalCount
	}
	return clampCount(n)
}

func clampCount(n int) int {
	if n < MinSignalCount {
		return MinSignalCount
	}
	if n > MaxSignalCount {
		return MaxSignalCount
	}
	return n
}
