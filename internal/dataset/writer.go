package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/ppiankov/theyify/internal/model"
)

// ScoreColumn is the column appended to exports
const ScoreColumn = "score"

// Write exports the dataset with every input column, the rewritten text in
// place of the original and gold columns, and a trailing score column.
func Write(w io.Writer, ds *model.Dataset, delimiter rune) error {
	cw := csv.NewWriter(w)
	if delimiter != 0 {
		cw.Comma = delimiter
	}

	header, scoreCol := exportHeader(ds.Header)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, rec := range ds.Records {
		row := make([]string, len(header))
		copy(row, rec.Fields)
		row[ds.Columns.Original] = rec.Original
		row[ds.Columns.Gold] = rec.Gold
		if rec.Scored {
			row[scoreCol] = strconv.Itoa(rec.Score)
		}

		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", rec.Row, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush export: %w", err)
	}
	return nil
}

// WriteFile exports the dataset to path, replacing any existing file
func WriteFile(path string, ds *model.Dataset, delimiter rune) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close export: %w", closeErr)
		}
	}()

	return Write(f, ds, delimiter)
}

// exportHeader returns the header with a score column, reusing an existing
// one if the input already had it
func exportHeader(in []string) ([]string, int) {
	header := make([]string, len(in), len(in)+1)
	copy(header, in)

	for i, h := range header {
		if h == ScoreColumn {
			return header, i
		}
	}
	return append(header, ScoreColumn), len(header)
}
