// Package programlog turns the raw log messages of a transaction into one
// group of display lines per top-level instruction.
package programlog

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dmagro/soldev/internal/chain"
)

type Style int

const (
	Muted Style = iota
	Info
	Success
	Error
)

func (s Style) String() string {
	switch s {
	case Info:
		return "info"
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return "muted"
	}
}

func (s Style) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

type Line struct {
	Prefix string `json:"prefix"`
	Text   string `json:"text"`
	Style  Style  `json:"style"`
}

// InstructionLogs holds the lines emitted while one top-level instruction ran.
// Nested invocations are flattened into Lines with a deeper Prefix.
type InstructionLogs struct {
	// InvokedProgram is empty for a synthetic group opened by logs that
	// appeared outside of any invoke.
	InvokedProgram string `json:"program,omitempty"`
	Lines          []Line `json:"lines"`
	// ComputeUnits sums the consumed figures reported at depth 1 only; inner
	// invocations are already included in them.
	ComputeUnits uint64 `json:"compute_units"`
	Truncated    bool   `json:"truncated,omitempty"`
	Failed       bool   `json:"failed,omitempty"`
}

var (
	invokePattern   = regexp.MustCompile(`Program (\w*) invoke \[(\d+)\]`)
	consumedPattern = regexp.MustCompile(`Program \w* consumed (\d*) (.*)`)
)

const indentUnit = "\u00a0\u00a0"

func prefix(depth int) string {
	if depth < 1 {
		return "> "
	}
	return strings.Repeat(indentUnit, depth-1) + "> "
}

type parser struct {
	groups []InstructionLogs
	depth  int
}

// current returns the open group, opening a synthetic one if logs arrive
// before any invoke.
func (p *parser) current() *InstructionLogs {
	if len(p.groups) == 0 {
		p.groups = append(p.groups, InstructionLogs{})
		if p.depth == 0 {
			p.depth = 1
		}
	}
	return &p.groups[len(p.groups)-1]
}

func (p *parser) emit(text string, style Style) {
	g := p.current()
	g.Lines = append(g.Lines, Line{Prefix: prefix(p.depth), Text: text, Style: style})
}

func (p *parser) leave() {
	if p.depth > 0 {
		p.depth--
	}
}

// Parse groups logs by top-level instruction. txErr may be nil. The result only
// depends on the arguments.
func Parse(logs []string, txErr *chain.TransactionError) []InstructionLogs {
	p := &parser{}

	for _, log := range logs {
		switch {
		case strings.HasPrefix(log, "Program log:"):
			msg := strings.TrimPrefix(strings.TrimPrefix(log, "Program log:"), " ")
			p.emit(`Program logged: "`+msg+`"`, Muted)

		case strings.HasPrefix(log, "Log truncated"):
			p.current().Truncated = true

		case invokePattern.MatchString(log):
			program := invokePattern.FindStringSubmatch(log)[1]
			if p.depth == 0 {
				p.groups = append(p.groups, InstructionLogs{InvokedProgram: program})
			} else {
				p.emit("Program invoked: "+program, Info)
			}
			p.depth++

		case strings.Contains(log, "success"):
			p.emit("Program returned success", Success)
			p.leave()

		case strings.Contains(log, "failed"):
			g := p.current()
			g.Failed = true
			text := `Program returned error: "` + afterColon(log) + `"`
			// A verifier failure for the previous program is reported after
			// its frame closed, so it is printed at the depth it ran at.
			if strings.HasPrefix(log, "failed") {
				p.depth++
				text = capitalize(log)
			}
			p.emit(text, Error)
			p.leave()

		default:
			if p.depth == 0 {
				p.groups = append(p.groups, InstructionLogs{})
				p.depth++
			}
			g := p.current()
			if m := consumedPattern.FindStringSubmatch(log); m != nil {
				if p.depth == 1 {
					units, _ := strconv.ParseUint(m[1], 10, 64)
					g.ComputeUnits += units
				}
				log = consumedPattern.ReplaceAllString(log, "Program consumed: $1 $2")
			}
			p.emit(log, Muted)
		}
	}

	if txErr == nil {
		return p.groups
	}

	// No logs: a single empty group carries the failure.
	if len(p.groups) == 0 {
		p.groups = append(p.groups, InstructionLogs{Failed: true})
	}
	if index, msg, ok := DecodeTransactionError(txErr); ok && index == len(p.groups)-1 {
		g := &p.groups[index]
		if !g.Failed {
			g.Failed = true
			g.Lines = append(g.Lines, Line{Prefix: prefix(1), Text: "Runtime error: " + msg, Style: Error})
		}
	}
	return p.groups
}

func afterColon(s string) string {
	if i := strings.Index(s, ": "); i >= 0 {
		return s[i+2:]
	}
	return s
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
