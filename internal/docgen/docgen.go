// Package docgen implements the optional Mermaid flowchart emitter
// (spec.md §6): an evaluator.Recorder that appends one node per executed
// expression, print, clear, var or block statement (at any nesting depth,
// including inside function bodies) to a growing flowchart document,
// written to ./doc.md after a successful run.
//
// Node IDs and statement shapes are grounded on
// original_source/src/interpreter.rs: each node is identified by the
// document's current line count (not the source line number), and the
// shape depends on the statement kind.
package docgen

import (
	"fmt"
	"os"
	"strings"
)

const header = "flowchart TD\nL3@{ shape: circle, label: \"início\"}\n"

// shapes maps the evaluator's statement kind labels to a Mermaid node shape.
// A kind absent from this map (e.g. the plain "default" expression
// statement) gets an unshaped node: just the label.
var shapes = map[string]string{
	"print": "doc",
	"var":   "notch-rect",
	"block": "lin-rect",
	"clear": "curv-trap",
}

// Doc accumulates the flowchart text for one evaluation run.
type Doc struct {
	b strings.Builder
}

// New returns a Doc seeded with the flowchart header and start node.
func New() *Doc {
	d := &Doc{}
	d.b.WriteString(header)
	return d
}

// Statement records one executed statement as a new flowchart node.
func (d *Doc) Statement(kind, label string) {
	id := d.nextID()
	label = sanitize(label)
	if shape, ok := shapes[kind]; ok {
		fmt.Fprintf(&d.b, "L%d@{ shape: %s, label: \"%s\"}\n", id, shape, label)
		return
	}
	fmt.Fprintf(&d.b, "L%d[\"%s\"]\n", id, label)
}

// Return records a "retorna" statement by appending the literal line "fim".
// Statements executed afterwards still add nodes after it.
func (d *Doc) Return() {
	d.b.WriteString("fim\n")
}

// String returns the accumulated flowchart document.
func (d *Doc) String() string { return d.b.String() }

// WriteFile writes the document to path, overwriting any prior content
// (spec.md §6: "overwriting prior content").
func (d *Doc) WriteFile(path string) error {
	return os.WriteFile(path, []byte(d.b.String()), 0o644)
}

// nextID mirrors original_source's self.doc.lines().count(): the node ID is
// the number of lines already written to the document.
func (d *Doc) nextID() int {
	return strings.Count(d.b.String(), "\n")
}

func sanitize(s string) string {
	return strings.ReplaceAll(s, `"`, `'`)
}
