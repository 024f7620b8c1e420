// Package numfmt formats and parses numbers using the grouping and decimal
// separators of a locale.
package numfmt

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// LamportsPerSOL is the number of base units in one SOL.
const LamportsPerSOL = 1_000_000_000

// Locale selects number separators. The zero value formats as en-US.
type Locale struct {
	tag language.Tag
	set bool
}

func New(tag language.Tag) Locale {
	return Locale{tag: tag, set: true}
}

// Parse builds a Locale from a BCP 47 or POSIX style name such as "de-DE" or
// "de_DE.UTF-8". Unparseable names fall back to en-US.
func Parse(name string) Locale {
	name = strings.TrimSpace(name)
	if i := strings.IndexAny(name, ".@"); i >= 0 {
		name = name[:i]
	}
	if name == "" || name == "C" || name == "POSIX" {
		return Locale{}
	}
	tag, err := language.Parse(strings.ReplaceAll(name, "_", "-"))
	if err != nil {
		return Locale{}
	}
	return New(tag)
}

// FromEnv reads LC_ALL, LC_NUMERIC and LANG through getenv, first non-empty wins.
func FromEnv(getenv func(string) string) Locale {
	for _, key := range []string{"LC_ALL", "LC_NUMERIC", "LANG"} {
		if v := getenv(key); v != "" {
			return Parse(v)
		}
	}
	return Locale{}
}

func (l Locale) Tag() language.Tag {
	if !l.set {
		return language.AmericanEnglish
	}
	return l.tag
}

func (l Locale) String() string { return l.Tag().String() }

func (l Locale) printer() *message.Printer {
	return message.NewPrinter(l.Tag())
}

// GroupSeparator returns the thousands separator, e.g. "," for en-US and "." for de-DE.
func (l Locale) GroupSeparator() string {
	if sep := stripDigits(l.printer().Sprintf("%d", 1111111)); sep != "" {
		return string([]rune(sep)[0:1])
	}
	return ","
}

// DecimalSeparator returns the radix mark, e.g. "." for en-US and "," for de-DE.
func (l Locale) DecimalSeparator() string {
	if sep := stripDigits(l.printer().Sprintf("%.1f", 1.5)); sep != "" {
		return sep
	}
	return "."
}

func (l Locale) Int(n int64) string {
	return l.printer().Sprintf("%d", n)
}

func (l Locale) Uint(n uint64) string {
	return l.printer().Sprintf("%d", n)
}

// ParseInt parses a base-10 integer after removing the locale group separator.
func (l Locale) ParseInt(s string) (int64, error) {
	s = strings.TrimSpace(s)
	sep := l.GroupSeparator()
	s = strings.ReplaceAll(s, sep, "")
	if isSpace(sep) {
		s = strings.Map(func(r rune) rune {
			if unicode.IsSpace(r) || r == '\u00a0' || r == '\u202f' {
				return -1
			}
			return r
		}, s)
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse integer %q: %w", s, err)
	}
	return n, nil
}

// Lamports renders a lamport amount as SOL with nine fixed decimals.
func (l Locale) Lamports(n uint64) string {
	whole := n / LamportsPerSOL
	frac := n % LamportsPerSOL
	return fmt.Sprintf("%s%s%09d", l.Uint(whole), l.DecimalSeparator(), frac)
}

// Percent renders p, already scaled to 0-100, rounded to a whole percent.
func (l Locale) Percent(p float64) string {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		p = 0
	}
	return l.Int(int64(math.Round(p))) + "%"
}

func stripDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return -1
		}
		return r
	}, s)
}

func isSpace(s string) bool {
	for _, r := range s {
		if !unicode.IsSpace(r) && r != '\u00a0' && r != '\u202f' {
			return false
		}
	}
	return s != ""
}
