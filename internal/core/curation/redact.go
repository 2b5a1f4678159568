package curation

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"AidDesk/internal/core/domain"
	"AidDesk/internal/core/phone"
)

const redactionMask = "***"

// redactor removes the requester's identifiers from admin-written text.
type redactor struct {
	patterns []pattern
}

// pattern matches one identifier case-insensitively. Identifiers with letters
// (names, handles) only match as whole words; digit-only ones match anywhere.
type pattern struct {
	re *regexp.Regexp
	// leftEdge and rightEdge require a non-word rune (or the end of text)
	// next to the match on that side.
	leftEdge  bool
	rightEdge bool
}

func newPattern(secret string) pattern {
	p := pattern{re: regexp.MustCompile(`(?i)` + regexp.QuoteMeta(secret))}
	if strings.ContainsFunc(secret, unicode.IsLetter) {
		first, _ := utf8.DecodeRuneInString(secret)
		last, _ := utf8.DecodeLastRuneInString(secret)
		p.leftEdge = isWordRune(first)
		p.rightEdge = isWordRune(last)
	}
	return p
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}

// find returns the byte spans of s the pattern covers.
func (p pattern) find(s string) [][]int {
	if !p.leftEdge && !p.rightEdge {
		return p.re.FindAllStringIndex(s, -1)
	}
	var spans [][]int
	for pos := 0; pos < len(s); {
		loc := p.re.FindStringIndex(s[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]
		if p.bounded(s, start, end) {
			spans = append(spans, []int{start, end})
			pos = end
			continue
		}
		// Retry one rune later: a shorter overlap may still stand alone.
		_, size := utf8.DecodeRuneInString(s[start:])
		pos = start + size
	}
	return spans
}

func (p pattern) bounded(s string, start, end int) bool {
	if p.leftEdge {
		if r, _ := utf8.DecodeLastRuneInString(s[:start]); start > 0 && isWordRune(r) {
			return false
		}
	}
	if p.rightEdge {
		if r, _ := utf8.DecodeRuneInString(s[end:]); end < len(s) && isWordRune(r) {
			return false
		}
	}
	return true
}

func (p pattern) replace(s, with string) string {
	spans := p.find(s)
	if len(spans) == 0 {
		return s
	}
	var b strings.Builder
	last := 0
	for _, span := range spans {
		b.WriteString(s[last:span[0]])
		b.WriteString(with)
		last = span[1]
	}
	b.WriteString(s[last:])
	return b.String()
}

// newRedactor collects every identifying value of raw: name, phone as typed,
// its digits and full-length variants, and secondary contacts.
func newRedactor(raw *domain.RawRequest) *redactor {
	seen := make(map[string]bool)
	var secrets []string
	add := func(s string) {
		s = strings.TrimSpace(s)
		key := strings.ToLower(s)
		if s == "" || seen[key] {
			return
		}
		seen[key] = true
		secrets = append(secrets, s)
	}

	add(raw.RequesterName)
	add(raw.PhoneNumber)
	if d := phone.Digits(raw.PhoneNumber); len(d) >= phone.SignificantDigits {
		add(d)
		for _, v := range phone.Expand(raw.PhoneNumber) {
			add(v)
		}
	}
	for _, c := range raw.SecondaryContacts.Values() {
		add(c)
	}

	r := &redactor{}
	for _, s := range secrets {
		r.patterns = append(r.patterns, newPattern(s))
	}
	return r
}

// contains reports whether s holds any identifier.
func (r *redactor) contains(s string) bool {
	for _, p := range r.patterns {
		if len(p.find(s)) > 0 {
			return true
		}
	}
	return false
}

// scrub masks identifiers in s. Masking can splice fragments into a new
// match, so leftovers are then deleted until none remain; deletion always
// shortens s, which bounds the loop.
func (r *redactor) scrub(s string) string {
	if s == "" {
		return s
	}
	for _, p := range r.patterns {
		s = p.replace(s, redactionMask)
	}
	for r.contains(s) {
		for _, p := range r.patterns {
			s = p.replace(s, "")
		}
	}
	return strings.TrimSpace(s)
}
