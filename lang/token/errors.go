package token

import (
	"strconv"
	"strings"
)

// Error is a single lexical, syntactic, resolution or runtime error tied to
// a source line.
type Error struct {
	Line int
	Msg  string
}

func (e *Error) Error() string {
	return "Line " + strconv.Itoa(e.Line) + ": " + e.Msg
}

// ErrorList accumulates Errors across a scan or parse, in the order they were
// reported. Its Error method joins every message with a newline, matching
// the "accumulated, newline-joined" error surfacing described for the
// scanner and parser stages.
type ErrorList []*Error

// Add appends a new error for the given line.
func (l *ErrorList) Add(line int, msg string) {
	*l = append(*l, &Error{Line: line, Msg: msg})
}

// Err returns nil if the list is empty, otherwise returns the list itself as
// an error.
func (l ErrorList) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

func (l ErrorList) Error() string {
	msgs := make([]string, len(l))
	for i, e := range l {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "\n")
}
