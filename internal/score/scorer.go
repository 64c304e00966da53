package score

import (
	"fmt"

	"github.com/ppiankov/theyify/internal/model"
)

// Scorer compares rewritten sentences against their gold references
type Scorer struct{}

// NewScorer creates a new scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// Score returns new records with Score set: 1 when the working text equals
// the gold text byte for byte, 0 otherwise. No normalization happens here.
func (s *Scorer) Score(records []model.Record) []model.Record {
	out := make([]model.Record, len(records))
	for i, rec := range records {
		rec.Score = Match(rec.Original, rec.Gold)
		rec.Scored = true
		out[i] = rec
	}
	return out
}

// Match returns 1 on exact equality and 0 otherwise
func Match(text, gold string) int {
	if text == gold {
		return 1
	}
	return 0
}

// Aggregate computes the match count and accuracy of scored records.
// It returns model.ErrEmptyDataset when there is nothing to score.
func (s *Scorer) Aggregate(records []model.Record) (*model.AggregateResult, error) {
	if len(records) == 0 {
		return nil, model.ErrEmptyDataset
	}

	result := &model.AggregateResult{
		Total:    len(records),
		RuleHits: make(map[string]int),
	}

	for _, rec := range records {
		if !rec.Scored {
			return nil, fmt.Errorf("record %s (row %d) has not been scored", rec.ID, rec.Row)
		}
		result.Matches += rec.Score
		if rec.Rule != "" {
			result.RuleHits[rec.Rule]++
		}
	}

	result.Accuracy = float64(result.Matches) / float64(result.Total)

	return result, nil
}
