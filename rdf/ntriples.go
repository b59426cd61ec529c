package rdf

import (
	"strings"
)

// SerializeNTriples renders the graph as N-Triples: one full statement per
// line, IRIs in angle brackets, statements in insertion order.
func (g *Graph) SerializeNTriples() string {
	var b strings.Builder

	for _, t := range g.triples {
		b.WriteString("<")
		b.WriteString(t.Subject)
		b.WriteString("> <")
		b.WriteString(t.Predicate)
		b.WriteString("> ")
		b.WriteString(ntObject(t.Object))
		b.WriteString(" .\n")
	}

	return b.String()
}

func ntObject(term Term) string {
	if term.Kind == TermIRI {
		return "<" + term.Value + ">"
	}
	quoted := `"` + escapeLiteral(term.Value) + `"`
	if term.Datatype != "" {
		return quoted + "^^<" + term.Datatype + ">"
	}
	return quoted
}
