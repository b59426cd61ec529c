// Package pipeline orchestrates the conversion flow: read the source,
// validate the records, generate RDF. Each stage is resolved from the step
// registry by name at call time, so a re-registered step takes effect on
// the next conversion without touching the pipeline.
package pipeline

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teranos/hdcat/errors"
	"github.com/teranos/hdcat/logger"
	"github.com/teranos/hdcat/rdf"
	"github.com/teranos/hdcat/record"
	"github.com/teranos/hdcat/step"
	"github.com/teranos/hdcat/steps"
)

// ConvertOptions controls a single conversion run. The yaml tags let a run
// be described by a profile file, see ProfileFromYAML.
type ConvertOptions struct {
	// Validate runs the validator stage between reading and generation
	Validate bool `yaml:"validate"`

	// RequiredFields lists the fields every record must carry
	RequiredFields []string `yaml:"required_fields"`

	// AllowEmpty permits present-but-empty values for required fields
	AllowEmpty bool `yaml:"allow_empty"`

	// Format selects the serialization (turtle or ntriples)
	Format string `yaml:"format"`

	// DatasetURI overrides the dataset URI derived from the source name
	DatasetURI string `yaml:"dataset_uri"`

	// Delimiter overrides the csv field delimiter
	Delimiter string `yaml:"delimiter"`

	// Keywords are attached to the dataset as dcat:keyword literals
	Keywords []string `yaml:"keywords"`
}

// DefaultConvertOptions returns the standard conversion settings:
// validation on, empty values tolerated, Turtle output.
func DefaultConvertOptions() ConvertOptions {
	return ConvertOptions{
		Validate:   true,
		AllowEmpty: true,
		Format:     rdf.FormatTurtle,
	}
}

// Converter drives the conversion of one tabular source. It remembers the
// last-loaded record set so ad hoc steps can run against it.
type Converter struct {
	source  string
	reg     *step.Registry
	emitter WarningEmitter
	log     *zap.SugaredLogger

	mu      sync.Mutex
	records record.Set
}

// New creates a converter for a source file. A nil emitter discards
// warnings.
func New(source string, reg *step.Registry, emitter WarningEmitter) *Converter {
	if emitter == nil {
		emitter = NopEmitter{}
	}
	return &Converter{
		source:  source,
		reg:     reg,
		emitter: emitter,
		log:     logger.ComponentLogger("pipeline"),
	}
}

// Source returns the converter's source file path.
func (c *Converter) Source() string { return c.source }

// Records returns a snapshot of the last-loaded record set, nil when
// nothing has been loaded yet.
func (c *Converter) Records() record.Set {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.records == nil {
		return nil
	}
	out := make(record.Set, len(c.records))
	copy(out, c.records)
	return out
}

// Convert runs the full pipeline and returns the serialized document.
// Validation findings abort the run with a validation-failed error that
// carries every finding; validation warnings go to the emitter and never
// abort.
func (c *Converter) Convert(ctx context.Context, opts ConvertOptions) (string, error) {
	start := time.Now()
	if opts.Format == "" {
		opts.Format = rdf.FormatTurtle
	}

	rlog := c.log.With(logger.FieldRunID, uuid.NewString())
	rlog.Infow("Starting conversion",
		logger.FieldSource, c.source,
		logger.FieldFormat, opts.Format)

	readerOpts := step.Options{}
	if opts.Delimiter != "" {
		readerOpts[steps.OptDelimiter] = opts.Delimiter
	}
	set, err := c.Load(ctx, readerOpts)
	if err != nil {
		return "", err
	}

	if opts.Validate {
		if err := c.validate(ctx, set, opts, rlog); err != nil {
			return "", err
		}
	} else {
		rlog.Debugw("Validation skipped")
	}

	doc, err := c.generate(ctx, set, opts)
	if err != nil {
		return "", err
	}

	rlog.Infow("Conversion complete",
		logger.FieldRows, len(set),
		logger.FieldFormat, opts.Format,
		logger.FieldDurationMS, time.Since(start).Milliseconds())

	return doc, nil
}

// Load reads the source through the csv_reader step and caches the result
// as the last-loaded record set.
func (c *Converter) Load(ctx context.Context, opts step.Options) (record.Set, error) {
	reader, err := c.reg.Lookup(steps.NameCSVReader)
	if err != nil {
		return nil, err
	}

	out, err := reader.Execute(ctx, c.source, opts)
	if err != nil {
		return nil, err
	}
	set, ok := out.(record.Set)
	if !ok {
		return nil, errors.Wrapf(errors.ErrStructuralInvalid, "csv_reader returned %T, want a record set", out)
	}

	c.mu.Lock()
	c.records = set
	c.mu.Unlock()
	return set, nil
}

// Run executes a single step by name. A nil input falls back to the
// last-loaded record set when one exists. The record cache is not
// updated; only Load and Convert refresh it.
func (c *Converter) Run(ctx context.Context, name string, input any, opts step.Options) (any, error) {
	s, err := c.reg.Lookup(name)
	if err != nil {
		return nil, err
	}

	if input == nil {
		if cached := c.Records(); cached != nil {
			input = cached
		}
	}

	c.log.Infow("Running step", logger.FieldStep, name)
	out, err := s.Execute(ctx, input, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "step %s", name)
	}
	return out, nil
}

func (c *Converter) validate(ctx context.Context, set record.Set, opts ConvertOptions, rlog *zap.SugaredLogger) error {
	v, err := c.reg.Lookup(steps.NameValidator)
	if err != nil {
		return err
	}

	vopts := step.Options{
		step.OptAllowEmpty: opts.AllowEmpty,
	}
	if len(opts.RequiredFields) > 0 {
		vopts[step.OptRequiredFields] = opts.RequiredFields
	}

	out, err := v.Execute(ctx, set, vopts)
	if err != nil {
		return err
	}
	result, ok := out.(*steps.ValidationResult)
	if !ok {
		return errors.Wrapf(errors.ErrStructuralInvalid, "validator returned %T, want a validation result", out)
	}

	for _, w := range result.Warnings {
		c.emitter.Warning(steps.NameValidator, w)
	}

	if !result.Valid {
		rlog.Errorw("Validation failed", "errors", len(result.Errors))
		return errors.NewValidationFailedError(result.Errors)
	}

	rlog.Debugw("Validation passed", logger.FieldWarnings, len(result.Warnings))
	return nil
}

func (c *Converter) generate(ctx context.Context, set record.Set, opts ConvertOptions) (string, error) {
	gen, err := c.reg.Lookup(steps.NameRDFGenerator)
	if err != nil {
		return "", err
	}

	datasetURI := opts.DatasetURI
	if datasetURI == "" {
		datasetURI = DatasetURIFor(c.source)
	}
	gopts := step.Options{
		step.OptFormat:     opts.Format,
		step.OptDatasetURI: datasetURI,
	}
	if len(opts.Keywords) > 0 {
		gopts[steps.OptKeywords] = opts.Keywords
	}

	out, err := gen.Execute(ctx, set, gopts)
	if err != nil {
		return "", err
	}
	doc, ok := out.(string)
	if !ok {
		return "", errors.Wrapf(errors.ErrStructuralInvalid, "rdf_generator returned %T, want a string", out)
	}
	return doc, nil
}

// DatasetURIFor derives the default dataset URI from the source file stem.
func DatasetURIFor(source string) string {
	stem := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	return "http://example.org/dataset/" + stem
}
