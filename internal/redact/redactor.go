// Package redact strips identifying values from free text before it crosses a
// trust boundary (audit metadata, purpose strings, payloads for external
// text-generation services).
//
// Redaction is pattern based and deliberately aggressive: a false positive
// costs readability, a false negative leaks protected health information.
// Every match is replaced with a fixed sentinel token so output length never
// reveals the length of the original value, and the sentinel itself matches no
// category pattern, which makes Redact idempotent.
package redact

import (
	"regexp"
)

// Result holds the outcome of a redaction pass.
type Result struct {
	// Cleaned is the input with every match replaced by a sentinel token.
	Cleaned string
	// HitCount is the total number of replacements across all categories.
	HitCount int
	// Categories lists the category names that matched at least once, in
	// evaluation order.
	Categories []string
}

// category is one independent pattern group. Categories are evaluated in a
// fixed order; more specific numeric shapes run before looser ones so a card
// number is never half-consumed by the bare SSN pattern.
type category struct {
	name     string
	patterns []*regexp.Regexp
}

var categories = []category{
	{
		name: "card",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\b\d{4}[- ]\d{4}[- ]\d{4}[- ]\d{4}\b`),
			regexp.MustCompile(`\b\d{16}\b`),
		},
	},
	{
		name: "ssn",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`),
			regexp.MustCompile(`\b\d{9}\b`),
		},
	},
	{
		name: "mrn",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\b(?:MRN|mrn)[:#]?\s*\d{5,10}\b`),
		},
	},
	{
		name: "dob",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\b(?:0?[1-9]|1[0-2])[/-](?:0?[1-9]|[12][0-9]|3[01])[/-](?:19|20)\d{2}\b`),
			regexp.MustCompile(`\b(?:19|20)\d{2}-(?:0[1-9]|1[0-2])-(?:0[1-9]|[12][0-9]|3[01])\b`),
		},
	},
	{
		name: "phone",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\(\d{3}\)\s?\d{3}[-. ]\d{4}\b`),
			regexp.MustCompile(`\b\d{3}[-. ]\d{3}[-. ]\d{4}\b`),
		},
	},
	{
		name: "email",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\b[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}\b`),
		},
	},
	{
		name: "ipv4",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`),
		},
	},
	{
		name: "address",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\b\d{1,5}\s+(?:[A-Z][a-z]+\s+){1,3}(?:Street|St|Avenue|Ave|Road|Rd|Boulevard|Blvd|Lane|Ln|Drive|Dr|Court|Ct|Place|Pl|Way)\b`),
		},
	},
	{
		name: "name",
		patterns: []*regexp.Regexp{
			// Two capitalized tokens in a row. Intentionally broad: this
			// catches patient names at the cost of also hitting place names.
			regexp.MustCompile(`\b[A-Z][a-z]+ [A-Z][a-z]+\b`),
		},
	},
}

// sentinel returns the replacement token for a category. The token contains
// no digits and no capitalized-word pair, so no category pattern can match it
// on a second pass.
func sentinel(name string) string {
	return "[REDACTED:" + name + "]"
}

// Redact replaces every category match in text with the category's sentinel
// token. Pure function; safe for concurrent use from any number of goroutines
// (all state is package-level compiled patterns).
func Redact(text string) Result {
	cleaned := text
	hitCount := 0
	var found []string

	for _, cat := range categories {
		matched := false
		for _, re := range cat.patterns {
			count := 0
			cleaned = re.ReplaceAllStringFunc(cleaned, func(string) string {
				count++
				return sentinel(cat.name)
			})
			if count > 0 {
				matched = true
				hitCount += count
			}
		}
		if matched {
			found = append(found, cat.name)
		}
	}

	return Result{
		Cleaned:    cleaned,
		HitCount:   hitCount,
		Categories: found,
	}
}
