package rdf

import (
	"strings"
)

// SerializeTurtle renders the graph as Turtle: prefix directives, then
// statements grouped by subject in first-appearance order, predicates
// separated with ";" continuation lines.
func (g *Graph) SerializeTurtle() string {
	var b strings.Builder

	for _, p := range g.prefixes {
		b.WriteString("@prefix ")
		b.WriteString(p.Name)
		b.WriteString(": <")
		b.WriteString(p.URI)
		b.WriteString("> .\n")
	}
	if len(g.prefixes) > 0 && len(g.triples) > 0 {
		b.WriteString("\n")
	}

	// Group statements by subject, keeping first-appearance order
	var subjects []string
	bySubject := make(map[string][]Triple)
	for _, t := range g.triples {
		if _, seen := bySubject[t.Subject]; !seen {
			subjects = append(subjects, t.Subject)
		}
		bySubject[t.Subject] = append(bySubject[t.Subject], t)
	}

	for i, subject := range subjects {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(g.qname(subject))

		stmts := bySubject[subject]
		for j, t := range stmts {
			if j == 0 {
				b.WriteString(" ")
			} else {
				b.WriteString(" ;\n    ")
			}
			b.WriteString(g.predicate(t.Predicate))
			b.WriteString(" ")
			b.WriteString(g.object(t.Object))
		}
		b.WriteString(" .\n")
	}

	return b.String()
}

// predicate renders a predicate IRI, using the "a" shorthand for rdf:type
func (g *Graph) predicate(iri string) string {
	if iri == RDFType {
		return "a"
	}
	return g.qname(iri)
}

// object renders an object term
func (g *Graph) object(term Term) string {
	if term.Kind == TermIRI {
		return g.qname(term.Value)
	}
	if term.Datatype == NSXsd+"integer" {
		// Turtle integer shorthand
		return term.Value
	}
	quoted := `"` + escapeLiteral(term.Value) + `"`
	if term.Datatype != "" {
		return quoted + "^^" + g.qname(term.Datatype)
	}
	return quoted
}

// qname shortens an IRI with the longest matching bound prefix, falling
// back to <...> form. The local part must be a safe prefixed-name suffix;
// IRIs with path separators after the namespace stay in <...> form.
func (g *Graph) qname(iri string) string {
	best := ""
	bestName := ""
	for _, p := range g.prefixes {
		if strings.HasPrefix(iri, p.URI) && len(p.URI) > len(best) {
			best = p.URI
			bestName = p.Name
		}
	}
	if best != "" {
		local := iri[len(best):]
		if local != "" && isSafeLocal(local) {
			return bestName + ":" + local
		}
	}
	return "<" + iri + ">"
}

func isSafeLocal(local string) bool {
	for _, r := range local {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_' || r == '-' || r == '.':
		default:
			return false
		}
	}
	// A trailing dot would merge with the statement terminator
	return !strings.HasSuffix(local, ".")
}

// escapeLiteral escapes a literal's lexical form for quoted rendering.
// Shared by the Turtle and N-Triples writers.
func escapeLiteral(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
