package pipeline

import (
	"fmt"
	"io"

	"github.com/ppiankov/theyify/internal/cache"
	"github.com/ppiankov/theyify/internal/dataset"
	"github.com/ppiankov/theyify/internal/model"
	"github.com/ppiankov/theyify/internal/score"
	"github.com/ppiankov/theyify/internal/transform"
	"go.uber.org/zap"
)

// Stage names, also used as cache key prefixes
const (
	StageNormalize = "normalize"
	StagePronoun   = "pronoun"
	StageVerb      = "verb"
	StageScore     = "score"
)

// Pipeline runs the rewrite heuristic over a dataset and scores it.
// A Pipeline is not safe for concurrent use; create one per dataset.
type Pipeline struct {
	normalizer *transform.Normalizer
	pronouns   *transform.PronounSubstitutor
	verbs      *transform.VerbCorrector
	scorer     *score.Scorer
	cache      cache.Cache // nil when disabled
	config     *model.Config
	logger     *zap.Logger
}

// NewPipeline creates a new pipeline with the given configuration
func NewPipeline(cfg *model.Config, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}

	var memo cache.Cache
	if cfg.Cache.Enabled {
		memo = cache.NewMemoryCache(cfg.Cache.TTL)
	}

	return &Pipeline{
		normalizer: transform.NewNormalizer(cfg.Markers.Open, cfg.Markers.Close),
		pronouns:   transform.NewPronounSubstitutor(),
		verbs:      transform.NewVerbCorrector(),
		scorer:     score.NewScorer(),
		cache:      memo,
		config:     cfg,
		logger:     logger,
	}
}

// Result is a scored dataset with its aggregate metrics
type Result struct {
	Dataset   *model.Dataset
	Aggregate *model.AggregateResult
}

// Run applies every stage to the dataset in order, each over all records
// before the next begins. The input dataset is not modified.
func (p *Pipeline) Run(ds *model.Dataset) (*Result, error) {
	// 1. Normalize
	records := p.Normalize(ds.Records)
	p.logger.Debug("stage complete", zap.String("stage", StageNormalize), zap.Int("records", len(records)))

	// 2. Substitute pronouns
	records = p.SubstitutePronouns(records)
	p.logger.Debug("stage complete", zap.String("stage", StagePronoun), zap.Int("records", len(records)))

	// 3. Correct verb agreement
	records = p.CorrectVerbs(records)
	p.logger.Debug("stage complete", zap.String("stage", StageVerb), zap.Int("records", len(records)))

	// 4. Score against gold
	records = p.scorer.Score(records)
	p.logger.Debug("stage complete", zap.String("stage", StageScore), zap.Int("records", len(records)))

	scored := ds.WithRecords(records)

	// 5. Aggregate
	agg, err := p.scorer.Aggregate(scored.Records)
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	agg.Source = ds.Source

	if p.cache != nil {
		p.logger.Debug("rewrite cache", zap.Int("entries", p.cache.Len()))
	}

	return &Result{
		Dataset:   scored,
		Aggregate: agg,
	}, nil
}

// Normalize lowercases both texts and cleans the working text of every record
func (p *Pipeline) Normalize(records []model.Record) []model.Record {
	out := make([]model.Record, len(records))
	for i, rec := range records {
		rec.Original = p.memo(StageNormalize, rec.Original, func(text string) cache.Entry {
			return cache.Entry{Text: p.normalizer.Original(text)}
		}).Text
		rec.Gold = p.normalizer.Gold(rec.Gold)
		out[i] = rec
	}
	return out
}

// SubstitutePronouns rewrites binary pronoun idioms in every record
func (p *Pipeline) SubstitutePronouns(records []model.Record) []model.Record {
	out := make([]model.Record, len(records))
	for i, rec := range records {
		rec.Original = p.memo(StagePronoun, rec.Original, func(text string) cache.Entry {
			return cache.Entry{Text: p.pronouns.Rewrite(text)}
		}).Text
		out[i] = rec
	}
	return out
}

// CorrectVerbs applies the first matching verb rule to every record and
// records which rule fired
func (p *Pipeline) CorrectVerbs(records []model.Record) []model.Record {
	out := make([]model.Record, len(records))
	for i, rec := range records {
		entry := p.memo(StageVerb, rec.Original, func(text string) cache.Entry {
			corrected, rule := p.verbs.Correct(text)
			return cache.Entry{Text: corrected, Rule: rule}
		})
		rec.Original = entry.Text
		rec.Rule = entry.Rule
		out[i] = rec
	}
	return out
}

// memo returns the cached output of a stage for text, computing it on a miss
func (p *Pipeline) memo(stage, text string, fn func(string) cache.Entry) cache.Entry {
	if p.cache == nil {
		return fn(text)
	}

	key := cache.Key(stage, text)
	if entry, ok := p.cache.Get(key); ok {
		return entry
	}

	entry := fn(text)
	p.cache.Set(key, entry)
	return entry
}

// Evaluate loads a dataset from src, runs the pipeline and writes the
// summary to out. source names the input in results and reports.
func (p *Pipeline) Evaluate(src io.Reader, source string, out io.Writer) (*Result, error) {
	opts, err := dataset.OptionsFromConfig(p.config.Input)
	if err != nil {
		return nil, err
	}

	ds, err := dataset.Read(src, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	ds.Source = source

	result, err := p.Run(ds)
	if err != nil {
		return nil, err
	}

	if err := NewRenderer(out).RenderSummary(result.Aggregate); err != nil {
		return nil, fmt.Errorf("render summary: %w", err)
	}

	return result, nil
}

// EvaluateFile loads and scores the dataset at path
func (p *Pipeline) EvaluateFile(path string) (*Result, error) {
	opts, err := dataset.OptionsFromConfig(p.config.Input)
	if err != nil {
		return nil, err
	}

	ds, err := dataset.ReadFile(path, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	p.logger.Debug("dataset loaded",
		zap.String("path", path),
		zap.Int("records", ds.Len()),
		zap.Int("id_column", ds.Columns.ID),
	)

	return p.Run(ds)
}

// RenderReport writes the optional exports configured for this pipeline
func (p *Pipeline) RenderReport(result *Result) error {
	renderer := NewRenderer(nil)

	if path := p.config.Output.ExportPath; path != "" {
		delim, err := dataset.ParseDelimiter(p.config.Output.ExportDelimiter)
		if err != nil {
			return fmt.Errorf("export delimiter: %w", err)
		}
		if err := dataset.WriteFile(path, result.Dataset, delim); err != nil {
			return fmt.Errorf("export: %w", err)
		}
		p.logger.Debug("wrote export", zap.String("path", path))
	}

	if path := p.config.Output.ReportPath; path != "" {
		if err := renderer.RenderJSON(NewReport(result, p.verbs.Rules()), path); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		p.logger.Debug("wrote report", zap.String("path", path))
	}

	return nil
}
