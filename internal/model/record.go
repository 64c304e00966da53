package model

// Record is one sentence pair under evaluation
type Record struct {
	ID       string   `json:"id"`             // Identifier from the input file, or the row number
	Row      int      `json:"row"`            // 1-based data row in the source file
	Original string   `json:"original_text"`  // Working copy rewritten by each stage
	Gold     string   `json:"gold_text"`      // Human-authored reference, only lowercased
	Rule     string   `json:"rule,omitempty"` // Verb rule that fired (e.g. "they-is"), empty if none
	Score    int      `json:"score"`          // 1 on exact match, 0 otherwise
	Scored   bool     `json:"scored"`         // Whether Score has been populated
	Fields   []string `json:"-"`              // Raw input row, kept for export
}

// Dataset is an ordered collection of records loaded from one input file
type Dataset struct {
	Source  string      `json:"source,omitempty"`
	Header  []string    `json:"header"`
	Columns ColumnIndex `json:"columns"`
	Records []Record    `json:"records"`
}

// ColumnIndex locates the columns the pipeline reads. ID is -1 when the
// input has no identifier column.
type ColumnIndex struct {
	ID       int `json:"id"`
	Original int `json:"original"`
	Gold     int `json:"gold"`
}

// Len returns the number of records
func (d *Dataset) Len() int {
	return len(d.Records)
}

// WithRecords returns a copy of the dataset carrying the given records.
// Header and source are shared; records are not.
func (d *Dataset) WithRecords(records []Record) *Dataset {
	return &Dataset{
		Source:  d.Source,
		Header:  d.Header,
		Columns: d.Columns,
		Records: records,
	}
}

// AggregateResult summarizes a scored dataset
type AggregateResult struct {
	Source   string         `json:"source,omitempty"`
	Matches  int            `json:"matches"`             // Records with score 1
	Total    int            `json:"total"`               // Records evaluated
	Accuracy float64        `json:"accuracy"`            // Matches / Total, in [0,1]
	RuleHits map[string]int `json:"rule_hits,omitempty"` // Verb rule name -> records it fired on
}
