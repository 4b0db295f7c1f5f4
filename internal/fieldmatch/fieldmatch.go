// Package fieldmatch recognises labeled metadata fields in header comment lines.
//
// A field line starts with optional Lisp comment markers, then a label, a
// colon and free text:
//
//	;;; Author: Jane Doe
//	;; Keywords: parsing, lisp
//	Title: Nothing to see here
//
// The captured value is the text after the colon with surrounding
// whitespace removed. A label followed by nothing matches with an empty value.
package fieldmatch

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/custodia-labs/lispmeta/internal/core/domain"
)

// commentPrefix matches leading whitespace and an optional run of
// semicolons or a block comment opener.
const commentPrefix = `^[ \t]*(?:(?:;+|#\|)[ \t]*)?`

// Pattern pairs a metadata key with the compiled rule recognising it.
// Patterns are immutable and safe for concurrent use.
type Pattern struct {
	key   domain.Key
	label string
	re    *regexp.Regexp
	value int // submatch index of the value group
}

// Compile builds a pattern for key whose label is the regular expression
// label (for example `Authors?` or `License|Licence`). The label may
// contain its own groups, but not one named "value".
func Compile(key domain.Key, label string, caseInsensitive bool) (*Pattern, error) {
	if !key.IsValid() {
		return nil, fmt.Errorf("%w: unknown key %q", domain.ErrInvalidInput, key)
	}
	if strings.TrimSpace(label) == "" {
		return nil, fmt.Errorf("%w: empty label for key %q", domain.ErrInvalidInput, key)
	}

	flags := ""
	if caseInsensitive {
		flags = "(?i)"
	}
	expr := flags + commentPrefix + `(?:` + label + `)[ \t]*:(?P<value>.*)$`

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: label %q: %w", domain.ErrInvalidInput, label, err)
	}
	value := re.SubexpIndex("value")
	if value != re.NumSubexp() {
		return nil, fmt.Errorf("%w: label %q uses the reserved group name \"value\"", domain.ErrInvalidInput, label)
	}
	return &Pattern{key: key, label: label, re: re, value: value}, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(key domain.Key, label string, caseInsensitive bool) *Pattern {
	p, err := Compile(key, label, caseInsensitive)
	if err != nil {
		panic(err)
	}
	return p
}

// Key returns the metadata key this pattern populates.
func (p *Pattern) Key() domain.Key {
	return p.key
}

// Label returns the label expression the pattern was built from.
func (p *Pattern) Label() string {
	return p.label
}

// Match reports whether line declares the pattern's field and returns the
// trimmed value if so. line should not include its terminator.
func (p *Pattern) Match(line string) (string, bool) {
	m := p.re.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[p.value]), true
}

// Table is an ordered, read-only set of patterns.
type Table struct {
	patterns []*Pattern
}

// NewTable returns a table holding patterns in the given order.
func NewTable(patterns ...*Pattern) *Table {
	cp := make([]*Pattern, len(patterns))
	copy(cp, patterns)
	return &Table{patterns: cp}
}

// Patterns returns a copy of the table's patterns.
func (t *Table) Patterns() []*Pattern {
	cp := make([]*Pattern, len(t.patterns))
	copy(cp, t.patterns)
	return cp
}

// Len returns the number of patterns.
func (t *Table) Len() int {
	return len(t.patterns)
}

// Each calls fn for every pattern matching line, in table order.
func (t *Table) Each(line string, fn func(key domain.Key, value string)) {
	for _, p := range t.patterns {
		if v, ok := p.Match(line); ok {
			fn(p.key, v)
		}
	}
}

// field describes one recognised header field.
type field struct {
	key             domain.Key
	label           string
	caseInsensitive bool
}

// fields is the fixed set of recognised header fields.
var fields = []field{
	{domain.KeyAuthor, `Authors?`, true},
	{domain.KeyTitle, `Title`, true},
	{domain.KeyKeywords, `Keywords`, true},
	{domain.KeyAbstract, `Abstract|Description|Purpose`, true},
	{domain.KeyVersion, `Version`, true},
	{domain.KeyLicense, `License|Licence`, true},
	{domain.KeyCopyright, `Copyright`, false},
	{domain.KeyMaintainer, `Maintainer`, true},
	{domain.KeyCreated, `Created`, true},
	{domain.KeyURL, `URL|Homepage`, true},
}

// DefaultTable returns the table of recognised fields.
// It is compiled on first use and shared afterwards.
var DefaultTable = sync.OnceValue(func() *Table {
	patterns := make([]*Pattern, 0, len(fields))
	for _, f := range fields {
		patterns = append(patterns, MustCompile(f.key, f.label, f.caseInsensitive))
	}
	return NewTable(patterns...)
})
