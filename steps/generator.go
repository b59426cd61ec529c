package steps

import (
	"context"
	"fmt"

	"github.com/teranos/hdcat/errors"
	"github.com/teranos/hdcat/logger"
	"github.com/teranos/hdcat/rdf"
	"github.com/teranos/hdcat/record"
	"github.com/teranos/hdcat/step"
)

// OptKeywords lists dcat:keyword literals to attach to the dataset.
const OptKeywords = "keywords"

// Fixed metadata emitted for every dataset.
const (
	defaultDatasetURI  = "http://example.org/dataset"
	datasetTitle       = "Health Dataset"
	datasetDescription = "Dataset converted from CSV"
	healthCategory     = "general"
)

// RDFGenerator renders a record set as HealthDCAT dataset metadata plus a
// csvw table schema describing the columns. Column order follows the first
// record; datatypes are inferred from the first non-empty value per column.
type RDFGenerator struct{}

// NewRDFGenerator returns the builtin rdf_generator step.
func NewRDFGenerator() *RDFGenerator {
	return &RDFGenerator{}
}

// Name implements step.Step.
func (s *RDFGenerator) Name() string { return NameRDFGenerator }

// Describe implements step.Describer.
func (s *RDFGenerator) Describe() string {
	return "Generates HealthDCAT RDF from a record set"
}

// Execute renders input, a record set, in the format named by the format
// option. A nil input is treated as an empty set: the dataset metadata is
// still emitted, without the item count or table schema.
func (s *RDFGenerator) Execute(ctx context.Context, input any, opts step.Options) (any, error) {
	var set record.Set
	if input != nil {
		var ok bool
		set, ok = input.(record.Set)
		if !ok {
			return nil, errors.Wrapf(errors.ErrStructuralInvalid, "rdf_generator expects a record set, got %T", input)
		}
	}

	datasetURI := opts.String(step.OptDatasetURI, defaultDatasetURI)
	format := opts.String(step.OptFormat, rdf.FormatTurtle)

	g := rdf.NewProfileGraph()
	g.Add(datasetURI, rdf.RDFType, rdf.IRI(rdf.NSDcat+"Dataset"))
	g.Add(datasetURI, rdf.NSDct+"title", rdf.Literal(datasetTitle))
	g.Add(datasetURI, rdf.NSDct+"description", rdf.Literal(datasetDescription))

	if len(set) > 0 {
		g.Add(datasetURI, rdf.NSSchema+"numberOfItems", rdf.IntegerLiteral(len(set)))

		schemaURI := datasetURI + "/schema"
		g.Add(datasetURI, rdf.NSCsvw+"tableSchema", rdf.IRI(schemaURI))
		g.Add(schemaURI, rdf.RDFType, rdf.IRI(rdf.NSCsvw+"TableSchema"))

		for idx, field := range set[0].Fields() {
			colURI := fmt.Sprintf("%s/column/%d", schemaURI, idx)
			g.Add(schemaURI, rdf.NSCsvw+"column", rdf.IRI(colURI))
			g.Add(colURI, rdf.RDFType, rdf.IRI(rdf.NSCsvw+"Column"))
			g.Add(colURI, rdf.NSCsvw+"name", rdf.Literal(field))
			g.Add(colURI, rdf.NSCsvw+"title", rdf.Literal(field))
			g.Add(colURI, rdf.NSRdfs+"label", rdf.Literal(field))
			g.Add(colURI, rdf.NSCsvw+"datatype", rdf.Literal(set.InferFieldKind(field).String()))
		}
	}

	for _, kw := range opts.Strings(OptKeywords, nil) {
		g.Add(datasetURI, rdf.NSDcat+"keyword", rdf.Literal(kw))
	}

	g.Add(datasetURI, rdf.NSHealthdcat+"hasHealthCategory", rdf.Literal(healthCategory))

	doc, err := g.Serialize(format)
	if err != nil {
		return nil, err
	}

	logger.Debugw("Generated RDF",
		logger.FieldStep, NameRDFGenerator,
		logger.FieldFormat, format,
		logger.FieldRows, len(set),
		logger.FieldTriples, g.Len())

	return doc, nil
}
