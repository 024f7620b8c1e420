// Package report derives the display rows shown for accounts, transactions and
// blocks from already-fetched chain data.
//
// Builders are pure: they never perform I/O and take every piece of formatting
// context (current time, time zone, number locale) from Options. Input that
// breaks the shape a node is expected to return fails with
// ErrMalformedUpstreamData instead of being guessed around.
package report

import (
	"errors"
	"time"

	"github.com/dmagro/soldev/internal/numfmt"
)

// ErrMalformedUpstreamData means the RPC node returned structurally invalid data.
var ErrMalformedUpstreamData = errors.New("malformed upstream data")

// Style is a rendering hint for a value. Renderers decide what it looks like.
type Style int

const (
	Plain Style = iota
	Muted
	Warning
	Success
	Failure
)

func (s Style) String() string {
	switch s {
	case Muted:
		return "muted"
	case Warning:
		return "warning"
	case Success:
		return "success"
	case Failure:
		return "failure"
	default:
		return "plain"
	}
}

func (s Style) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

type Row struct {
	Label string `json:"label"`
	Value string `json:"value"`
	// Note is secondary text rendered under the value, e.g. a relative time.
	Note  string `json:"note,omitempty"`
	Style Style  `json:"style"`
}

type Table struct {
	Title       string `json:"title"`
	Status      string `json:"status,omitempty"`
	StatusStyle Style  `json:"status_style"`
	Rows        []Row  `json:"rows"`
}

func (t *Table) add(label, value string) {
	t.Rows = append(t.Rows, Row{Label: label, Value: value})
}

func (t *Table) addStyled(label, value string, style Style) {
	t.Rows = append(t.Rows, Row{Label: label, Value: value, Style: style})
}

// Options carries the formatting context. Zero fields use UTC, en-US and, for
// Now, the zero time, so callers should always set Now.
type Options struct {
	Now      time.Time
	Location *time.Location
	Locale   numfmt.Locale
}

func (o Options) location() *time.Location {
	if o.Location == nil {
		return time.UTC
	}
	return o.Location
}

const timestampLayout = "Jan 2, 2006 15:04:05 MST"

// timestampRow renders t in the configured zone with the relative age as a note.
// A missing block time is shown as unavailable.
func (o Options) timestampRow(t *time.Time) Row {
	if t == nil {
		return Row{Label: "Timestamp", Value: "unavailable", Style: Warning}
	}
	return Row{
		Label: "Timestamp",
		Value: t.In(o.location()).Format(timestampLayout),
		Note:  TimeAgo(*t, o.Now),
	}
}
