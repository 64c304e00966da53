package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/theyify/internal/model"
)

// idColumns are header names recognized as the row identifier, in preference order
var idColumns = []string{"text-id", "text id", "text_id", "id", "index"}

// Options describes how to read an input file
type Options struct {
	Delimiter      rune
	OriginalColumn string
	GoldColumn     string
	IDColumn       string // Empty means auto-detect
}

// OptionsFromConfig builds reader options from the input config
func OptionsFromConfig(cfg model.InputConfig) (Options, error) {
	delim, err := ParseDelimiter(cfg.Delimiter)
	if err != nil {
		return Options{}, err
	}
	return Options{
		Delimiter:      delim,
		OriginalColumn: cfg.OriginalColumn,
		GoldColumn:     cfg.GoldColumn,
		IDColumn:       cfg.IDColumn,
	}, nil
}

// ParseDelimiter converts a configured delimiter into a rune.
// "tab" and `\t` are accepted for convenience on the command line.
func ParseDelimiter(s string) (rune, error) {
	switch s {
	case "", "\t", `\t`, "tab":
		return '\t', nil
	case "comma":
		return ',', nil
	}

	r, size := utf8.DecodeRuneInString(s)
	if size != len(s) || r == utf8.RuneError || r == '"' || r == '\r' || r == '\n' {
		return 0, fmt.Errorf("invalid delimiter %q", s)
	}
	return r, nil
}

// ReadFile loads a dataset from a delimited file
func ReadFile(path string, opts Options) (*model.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer func() { _ = f.Close() }()

	ds, err := Read(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	ds.Source = path

	return ds, nil
}

// Read loads a dataset from delimited text with a header row. Every row
// must carry non-empty original and gold text.
func Read(r io.Reader, opts Options) (*model.Dataset, error) {
	if opts.Delimiter == 0 {
		opts.Delimiter = '\t'
	}

	reader := csv.NewReader(r)
	reader.Comma = opts.Delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, model.ErrEmptyDataset
	}
	if err != nil {
		return nil, parseError(err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	for _, h := range header {
		if !utf8.ValidString(h) {
			return nil, &model.EncodingError{Row: 0, Column: strings.ToValidUTF8(h, "?")}
		}
	}

	cols, err := locateColumns(header, opts)
	if err != nil {
		return nil, err
	}

	ds := &model.Dataset{
		Header:  header,
		Columns: cols,
	}

	for row := 1; ; row++ {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, parseError(err)
		}

		rec, err := buildRecord(row, fields, header, cols)
		if err != nil {
			return nil, err
		}
		ds.Records = append(ds.Records, rec)
	}

	if len(ds.Records) == 0 {
		return nil, model.ErrEmptyDataset
	}

	return ds, nil
}

func buildRecord(row int, fields, header []string, cols model.ColumnIndex) (model.Record, error) {
	for i, f := range fields {
		if !utf8.ValidString(f) {
			return model.Record{}, &model.EncodingError{Row: row, Column: columnName(header, i)}
		}
	}

	id := strconv.Itoa(row)
	if cols.ID >= 0 && cols.ID < len(fields) && strings.TrimSpace(fields[cols.ID]) != "" {
		id = strings.TrimSpace(fields[cols.ID])
	}

	original, err := textField(row, id, fields, header, cols.Original)
	if err != nil {
		return model.Record{}, err
	}
	gold, err := textField(row, id, fields, header, cols.Gold)
	if err != nil {
		return model.Record{}, err
	}

	return model.Record{
		ID:       id,
		Row:      row,
		Original: original,
		Gold:     gold,
		Fields:   fields,
	}, nil
}

func textField(row int, id string, fields, header []string, col int) (string, error) {
	if col >= len(fields) {
		return "", &model.MalformedInputError{Row: row, ID: id, Column: header[col], Reason: "missing field"}
	}
	if fields[col] == "" {
		return "", &model.MalformedInputError{Row: row, ID: id, Column: header[col], Reason: "empty text"}
	}
	return fields[col], nil
}

func locateColumns(header []string, opts Options) (model.ColumnIndex, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.TrimSpace(h)
		if _, dup := index[key]; !dup {
			index[key] = i
		}
	}

	cols := model.ColumnIndex{ID: -1}

	for _, req := range []struct {
		name string
		dst  *int
	}{
		{opts.OriginalColumn, &cols.Original},
		{opts.GoldColumn, &cols.Gold},
	} {
		i, ok := index[req.name]
		if !ok {
			return cols, &model.MalformedInputError{Column: req.name, Reason: "required column not found"}
		}
		*req.dst = i
	}

	if opts.IDColumn != "" {
		i, ok := index[opts.IDColumn]
		if !ok {
			return cols, &model.MalformedInputError{Column: opts.IDColumn, Reason: "id column not found"}
		}
		cols.ID = i
		return cols, nil
	}

	for _, name := range idColumns {
		if i, ok := index[name]; ok {
			cols.ID = i
			return cols, nil
		}
	}

	// Unnamed leading column written by a dataframe index
	if len(header) > 0 && strings.TrimSpace(header[0]) == "" {
		cols.ID = 0
	}

	return cols, nil
}

func columnName(header []string, i int) string {
	if i < len(header) && header[i] != "" {
		return header[i]
	}
	return "#" + strconv.Itoa(i+1)
}

func parseError(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &model.MalformedInputError{Row: pe.StartLine - 1, Column: "#" + strconv.Itoa(pe.Column), Reason: pe.Err.Error()}
	}
	return fmt.Errorf("read input: %w", err)
}
