package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/ppiankov/theyify/internal/model"
	"github.com/ppiankov/theyify/internal/transform"
)

// Renderer writes evaluation results
type Renderer struct {
	out io.Writer
}

// NewRenderer creates a renderer writing summaries to out, or stdout when nil
func NewRenderer(out io.Writer) *Renderer {
	if out == nil {
		out = os.Stdout
	}
	return &Renderer{out: out}
}

// RenderSummary prints the match count and accuracy
func (r *Renderer) RenderSummary(agg *model.AggregateResult) error {
	if _, err := fmt.Fprintf(r.out, "Number of correct/matching sentences: %d\n", agg.Matches); err != nil {
		return err
	}
	_, err := fmt.Fprintf(r.out, "Accuracy = %v\n", agg.Accuracy)
	return err
}

// Report is the JSON form of an evaluation
type Report struct {
	Source      string     `json:"source,omitempty"`
	GeneratedAt time.Time  `json:"generated_at"`
	Matches     int        `json:"matches"`
	Total       int        `json:"total"`
	Accuracy    float64    `json:"accuracy"`
	Rules       []RuleHit  `json:"rules"`
	Mismatches  []Mismatch `json:"mismatches,omitempty"`
}

// RuleHit counts the records a verb rule fired on
type RuleHit struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Records     int    `json:"records"`
}

// Mismatch is a record whose output differs from its gold text
type Mismatch struct {
	ID     string `json:"id"`
	Row    int    `json:"row"`
	Output string `json:"output"`
	Gold   string `json:"gold"`
	Rule   string `json:"rule,omitempty"`
}

// NewReport builds a report from a result, listing rules in precedence order
func NewReport(result *Result, rules []transform.Rule) *Report {
	agg := result.Aggregate
	report := &Report{
		Source:      agg.Source,
		GeneratedAt: time.Now().UTC(),
		Matches:     agg.Matches,
		Total:       agg.Total,
		Accuracy:    agg.Accuracy,
	}

	known := make(map[string]bool, len(rules))
	for _, rule := range rules {
		known[rule.Name] = true
		report.Rules = append(report.Rules, RuleHit{
			Name:        rule.Name,
			Description: rule.Description,
			Records:     agg.RuleHits[rule.Name],
		})
	}

	// Hits from rules not in the list, sorted for stable output
	var extra []string
	for name := range agg.RuleHits {
		if !known[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	for _, name := range extra {
		report.Rules = append(report.Rules, RuleHit{Name: name, Records: agg.RuleHits[name]})
	}

	for _, rec := range result.Dataset.Records {
		if rec.Score == 1 {
			continue
		}
		report.Mismatches = append(report.Mismatches, Mismatch{
			ID:     rec.ID,
			Row:    rec.Row,
			Output: rec.Original,
			Gold:   rec.Gold,
			Rule:   rec.Rule,
		})
	}

	return report
}

// RenderJSON writes the report as indented JSON
func (r *Renderer) RenderJSON(report *Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}
