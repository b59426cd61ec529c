package steps

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/hdcat/errors"
	"github.com/teranos/hdcat/rdf"
	"github.com/teranos/hdcat/record"
	"github.com/teranos/hdcat/step"
)

func generate(t *testing.T, input any, opts step.Options) string {
	t.Helper()
	out, err := NewRDFGenerator().Execute(context.Background(), input, opts)
	require.NoError(t, err)
	doc, ok := out.(string)
	require.True(t, ok)
	return doc
}

// =============================================================================
// Turtle output
// =============================================================================

func TestRDFGeneratorTurtleDocument(t *testing.T) {
	doc := generate(t, patientSet(), step.Options{
		step.OptDatasetURI: "http://example.org/dataset/patients",
	})

	want := `@prefix dcat: <http://www.w3.org/ns/dcat#> .
@prefix dct: <http://purl.org/dc/terms/> .
@prefix foaf: <http://xmlns.com/foaf/0.1/> .
@prefix vcard: <http://www.w3.org/2006/vcard/ns#> .
@prefix schema: <http://schema.org/> .
@prefix rdfs: <http://www.w3.org/2000/01/rdf-schema#> .
@prefix csvw: <http://www.w3.org/ns/csvw#> .
@prefix healthdcat: <https://health.ec.europa.eu/healthdcat-ap/> .

<http://example.org/dataset/patients> a dcat:Dataset ;
    dct:title "Health Dataset" ;
    dct:description "Dataset converted from CSV" ;
    schema:numberOfItems 2 ;
    csvw:tableSchema <http://example.org/dataset/patients/schema> ;
    healthdcat:hasHealthCategory "general" .

<http://example.org/dataset/patients/schema> a csvw:TableSchema ;
    csvw:column <http://example.org/dataset/patients/schema/column/0> ;
    csvw:column <http://example.org/dataset/patients/schema/column/1> .

<http://example.org/dataset/patients/schema/column/0> a csvw:Column ;
    csvw:name "name" ;
    csvw:title "name" ;
    rdfs:label "name" ;
    csvw:datatype "string" .

<http://example.org/dataset/patients/schema/column/1> a csvw:Column ;
    csvw:name "age" ;
    csvw:title "age" ;
    rdfs:label "age" ;
    csvw:datatype "integer" .
`
	assert.Equal(t, want, doc)
}

func TestRDFGeneratorEmptySetOmitsCountAndSchema(t *testing.T) {
	doc := generate(t, record.Set{}, nil)

	assert.Contains(t, doc, "<http://example.org/dataset> a dcat:Dataset ;")
	assert.Contains(t, doc, `healthdcat:hasHealthCategory "general" .`)
	assert.NotContains(t, doc, "numberOfItems")
	assert.NotContains(t, doc, "tableSchema")
}

func TestRDFGeneratorNilInput(t *testing.T) {
	doc := generate(t, nil, nil)

	assert.Contains(t, doc, "a dcat:Dataset")
	assert.NotContains(t, doc, "numberOfItems")
}

func TestRDFGeneratorCategoryIsLastDatasetPredicate(t *testing.T) {
	doc := generate(t, patientSet(), nil)

	category := strings.Index(doc, "hasHealthCategory")
	require.NotEqual(t, -1, category)
	for _, predicate := range []string{"dct:title", "dct:description", "schema:numberOfItems", "csvw:tableSchema"} {
		pos := strings.Index(doc, predicate)
		require.NotEqual(t, -1, pos, predicate)
		assert.Less(t, pos, category, predicate)
	}
}

func TestRDFGeneratorKeywords(t *testing.T) {
	doc := generate(t, record.Set{}, step.Options{
		OptKeywords: []string{"health", "csv"},
	})

	first := strings.Index(doc, `dcat:keyword "health"`)
	second := strings.Index(doc, `dcat:keyword "csv"`)
	category := strings.Index(doc, "hasHealthCategory")
	require.NotEqual(t, -1, first)
	require.NotEqual(t, -1, second)
	assert.Less(t, first, second)
	assert.Less(t, second, category)
}

// =============================================================================
// Datatype inference
// =============================================================================

func TestRDFGeneratorInfersFromFirstNonEmptyValue(t *testing.T) {
	// Column classification ignores empty leading values; the first
	// non-empty value decides, later conflicting values do not.
	set := record.Set{}
	for _, score := range []string{"", "5", "not a number"} {
		r := record.New()
		r.Set("score", record.Text(score))
		set = append(set, r)
	}

	doc := generate(t, set, nil)
	assert.Contains(t, doc, `csvw:datatype "integer"`)
}

func TestRDFGeneratorDatatypeLabels(t *testing.T) {
	r := record.New()
	r.Set("name", record.Text("Alice"))
	r.Set("age", record.Text(" 30 "))
	r.Set("temp", record.Text("98.6"))
	r.Set("active", record.Bool(true))

	doc := generate(t, record.Set{r}, nil)

	assert.Contains(t, doc, `csvw:datatype "string"`)
	assert.Contains(t, doc, `csvw:datatype "integer"`)
	assert.Contains(t, doc, `csvw:datatype "decimal"`)
	assert.Contains(t, doc, `csvw:datatype "boolean"`)
}

// =============================================================================
// Formats and failures
// =============================================================================

func TestRDFGeneratorNTriples(t *testing.T) {
	doc := generate(t, patientSet(), step.Options{
		step.OptFormat:     rdf.FormatNTriples,
		step.OptDatasetURI: "http://example.org/ds",
	})

	assert.Contains(t, doc, "<http://example.org/ds> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://www.w3.org/ns/dcat#Dataset> .\n")
	assert.Contains(t, doc, `<http://example.org/ds> <http://schema.org/numberOfItems> "2"^^<http://www.w3.org/2001/XMLSchema#integer> .`+"\n")
	assert.NotContains(t, doc, "@prefix")
}

func TestRDFGeneratorUnsupportedFormat(t *testing.T) {
	_, err := NewRDFGenerator().Execute(context.Background(), record.Set{}, step.Options{
		step.OptFormat: "jsonld",
	})
	require.Error(t, err)
	assert.True(t, errors.IsStructuralInvalid(err))
}

func TestRDFGeneratorRejectsNonSetInput(t *testing.T) {
	_, err := NewRDFGenerator().Execute(context.Background(), "bogus", nil)
	require.Error(t, err)
	assert.True(t, errors.IsStructuralInvalid(err))
}
