// Package rdf provides a minimal triple graph with namespace-prefix
// management and serialization to Turtle and N-Triples.
//
// The graph is transient: the generator builds one per call, serializes it
// once, and discards it. Statement order and prefix order are insertion
// order so serialized output is reproducible.
package rdf

import (
	"strconv"

	"github.com/teranos/hdcat/errors"
)

// Namespace URIs for the HealthDCAT profile vocabulary.
const (
	NSDcat       = "http://www.w3.org/ns/dcat#"
	NSDct        = "http://purl.org/dc/terms/"
	NSFoaf       = "http://xmlns.com/foaf/0.1/"
	NSVcard      = "http://www.w3.org/2006/vcard/ns#"
	NSSchema     = "http://schema.org/"
	NSRdfs       = "http://www.w3.org/2000/01/rdf-schema#"
	NSCsvw       = "http://www.w3.org/ns/csvw#"
	NSHealthdcat = "https://health.ec.europa.eu/healthdcat-ap/"

	NSRdf = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	NSXsd = "http://www.w3.org/2001/XMLSchema#"
)

// RDFType is the rdf:type predicate, rendered as "a" in Turtle.
const RDFType = NSRdf + "type"

// Serialization format identifiers accepted by Serialize.
const (
	FormatTurtle   = "turtle"
	FormatNTriples = "ntriples"
)

// TermKind distinguishes IRIs from literals.
type TermKind int

const (
	TermIRI TermKind = iota
	TermLiteral
)

// Term is an object position value: an IRI or a (possibly typed) literal.
type Term struct {
	Kind     TermKind
	Value    string // IRI text, or the literal's lexical form
	Datatype string // literal datatype IRI; empty for plain literals
}

// IRI returns an IRI term
func IRI(iri string) Term {
	return Term{Kind: TermIRI, Value: iri}
}

// Literal returns a plain string literal term
func Literal(s string) Term {
	return Term{Kind: TermLiteral, Value: s}
}

// TypedLiteral returns a literal term with an explicit datatype IRI
func TypedLiteral(s, datatype string) Term {
	return Term{Kind: TermLiteral, Value: s, Datatype: datatype}
}

// IntegerLiteral returns an xsd:integer literal term
func IntegerLiteral(n int) Term {
	return TypedLiteral(strconv.Itoa(n), NSXsd+"integer")
}

// Triple is one (subject, predicate, object) statement. Subjects and
// predicates are always IRIs in this profile.
type Triple struct {
	Subject   string
	Predicate string
	Object    Term
}

// Prefix binds a short name to a namespace URI.
type Prefix struct {
	Name string
	URI  string
}

// Graph is an ordered collection of triples plus bound prefixes.
type Graph struct {
	prefixes []Prefix
	byName   map[string]string
	triples  []Triple
}

// NewGraph creates an empty graph with no prefixes bound
func NewGraph() *Graph {
	return &Graph{
		byName: make(map[string]string),
	}
}

// NewProfileGraph creates a graph with the HealthDCAT profile namespaces
// bound in their conventional order
func NewProfileGraph() *Graph {
	g := NewGraph()
	g.Bind("dcat", NSDcat)
	g.Bind("dct", NSDct)
	g.Bind("foaf", NSFoaf)
	g.Bind("vcard", NSVcard)
	g.Bind("schema", NSSchema)
	g.Bind("rdfs", NSRdfs)
	g.Bind("csvw", NSCsvw)
	g.Bind("healthdcat", NSHealthdcat)
	return g
}

// Bind registers a prefix for a namespace URI. Rebinding a name replaces
// its URI but keeps its position.
func (g *Graph) Bind(name, uri string) {
	if _, exists := g.byName[name]; !exists {
		g.prefixes = append(g.prefixes, Prefix{Name: name, URI: uri})
	} else {
		for i := range g.prefixes {
			if g.prefixes[i].Name == name {
				g.prefixes[i].URI = uri
				break
			}
		}
	}
	g.byName[name] = uri
}

// Add appends a statement to the graph
func (g *Graph) Add(subject, predicate string, object Term) {
	g.triples = append(g.triples, Triple{Subject: subject, Predicate: predicate, Object: object})
}

// Triples returns the statements in insertion order
func (g *Graph) Triples() []Triple {
	out := make([]Triple, len(g.triples))
	copy(out, g.triples)
	return out
}

// Prefixes returns the bound prefixes in bind order
func (g *Graph) Prefixes() []Prefix {
	out := make([]Prefix, len(g.prefixes))
	copy(out, g.prefixes)
	return out
}

// Len returns the number of statements
func (g *Graph) Len() int {
	return len(g.triples)
}

// Serialize renders the graph in the requested format
func (g *Graph) Serialize(format string) (string, error) {
	switch format {
	case FormatTurtle:
		return g.SerializeTurtle(), nil
	case FormatNTriples:
		return g.SerializeNTriples(), nil
	default:
		return "", errors.Wrapf(errors.ErrStructuralInvalid, "unsupported serialization format %q", format)
	}
}
