package steps

import (
	"context"
	"encoding/csv"
	"os"

	"github.com/teranos/hdcat/errors"
	"github.com/teranos/hdcat/logger"
	"github.com/teranos/hdcat/record"
	"github.com/teranos/hdcat/step"
)

// OptDelimiter overrides the field delimiter used by csv_reader.
// Must be a single character; defaults to a comma.
const OptDelimiter = "delimiter"

// CSVReader reads a delimited text file into a record set. The first row
// is the header; every cell is read as text, type inference happens later
// at generation time.
type CSVReader struct{}

// NewCSVReader returns the builtin csv_reader step.
func NewCSVReader() *CSVReader {
	return &CSVReader{}
}

// Name implements step.Step.
func (s *CSVReader) Name() string { return NameCSVReader }

// Describe implements step.Describer.
func (s *CSVReader) Describe() string {
	return "Reads a CSV file into a record set"
}

// Execute reads the file named by input. Rows shorter than the header are
// padded with absent values, the way a missing cell has no value rather
// than an empty one; extra cells beyond the header are dropped.
func (s *CSVReader) Execute(ctx context.Context, input any, opts step.Options) (any, error) {
	path, ok := input.(string)
	if !ok {
		return nil, errors.Wrapf(errors.ErrStructuralInvalid, "csv_reader expects a file path, got %T", input)
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewSourceNotFoundError(path)
		}
		return nil, errors.Wrapf(err, "stat %s", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	if d := opts.String(OptDelimiter, ""); d != "" {
		runes := []rune(d)
		if len(runes) != 1 {
			return nil, errors.Wrap(errors.ErrStructuralInvalid, "csv delimiter must be a single character")
		}
		reader.Comma = runes[0]
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}

	set := record.Set{}
	var header []string
	if len(rows) > 0 {
		header = rows[0]
		for _, row := range rows[1:] {
			r := record.New()
			for i, name := range header {
				if i < len(row) {
					r.Set(name, record.Text(row[i]))
				} else {
					r.Set(name, record.Absent())
				}
			}
			set = append(set, r)
		}
	}

	logger.Debugw("Read tabular source",
		logger.FieldStep, NameCSVReader,
		logger.FieldSource, path,
		logger.FieldRows, len(set),
		logger.FieldColumns, len(header))

	return set, nil
}
