package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ppiankov/theyify/internal/model"
	"github.com/ppiankov/theyify/internal/pipeline"
)

// mockEvaluator implements Evaluator
type mockEvaluator struct {
	fail map[string]bool
}

func (m *mockEvaluator) EvaluateFile(path string) (*pipeline.Result, error) {
	if m.fail[path] {
		return nil, errors.New("evaluation error")
	}
	return &pipeline.Result{
		Aggregate: &model.AggregateResult{Source: path, Matches: 1, Total: 2, Accuracy: 0.5},
	}, nil
}

func TestBatchEvaluator_EvaluateFiles(t *testing.T) {
	eval := &mockEvaluator{fail: map[string]bool{"b.tsv": true}}
	batch := NewBatchEvaluator(func() Evaluator { return eval }, 2)

	paths := []string{"a.tsv", "b.tsv", "c.tsv"}
	results := batch.EvaluateFiles(context.Background(), paths)

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, res := range results {
		if res.Path != paths[i] {
			t.Errorf("slot %d: expected %s, got %s", i, paths[i], res.Path)
		}
	}
	if results[1].Error == nil {
		t.Error("expected error for b.tsv")
	}
	if results[0].Error != nil || results[0].Result.Aggregate.Source != "a.tsv" {
		t.Errorf("unexpected result for a.tsv: %+v", results[0])
	}
}

func TestBatchEvaluator_FreshEvaluatorPerJob(t *testing.T) {
	created := 0
	batch := NewBatchEvaluator(func() Evaluator {
		created++
		return &mockEvaluator{}
	}, 4)

	batch.EvaluateFiles(context.Background(), []string{"a", "b", "c"})

	if created != 3 {
		t.Errorf("expected 3 evaluators, got %d", created)
	}
}

func TestBatchEvaluator_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	batch := NewBatchEvaluator(func() Evaluator { return &mockEvaluator{} }, 2)
	results := batch.EvaluateFiles(ctx, []string{"a", "b"})

	for _, res := range results {
		if !errors.Is(res.Error, context.Canceled) {
			t.Errorf("%s: expected context.Canceled, got %v", res.Path, res.Error)
		}
	}
}

func TestBatchEvaluator_RealPipeline(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.tsv")
	empty := filepath.Join(dir, "empty.tsv")

	if err := os.WriteFile(good, []byte("original-text\tgold-text\nHe/she is here\tThey are here\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(empty, []byte("original-text\tgold-text\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := model.DefaultConfig()
	batch := NewBatchEvaluator(func() Evaluator { return pipeline.NewPipeline(cfg, nil) }, 2)

	results := batch.EvaluateFiles(context.Background(), []string{good, empty})

	if results[0].Error != nil {
		t.Fatalf("unexpected error: %v", results[0].Error)
	}
	if results[0].Result.Aggregate.Accuracy != 1 {
		t.Errorf("expected accuracy 1, got %v", results[0].Result.Aggregate.Accuracy)
	}
	if !errors.Is(results[1].Error, model.ErrEmptyDataset) {
		t.Errorf("expected ErrEmptyDataset, got %v", results[1].Error)
	}
}
