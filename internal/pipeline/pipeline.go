// Package pipeline drives the post-fetch stages: extraction over persisted
// articles, deterministic validation of the resulting corrections, and
// QuickStatements batch generation from accepted ones. Every stage records
// per-item failures and moves on; one broken article never aborts a run.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/asherwoodbury/wikidata-football-cleanup/internal/articles"
	"github.com/asherwoodbury/wikidata-football-cleanup/internal/config"
	"github.com/asherwoodbury/wikidata-football-cleanup/internal/fetcher"
	"github.com/asherwoodbury/wikidata-football-cleanup/internal/logging"
	"github.com/asherwoodbury/wikidata-football-cleanup/internal/quickstatements"
	"github.com/asherwoodbury/wikidata-football-cleanup/internal/registry"
	"github.com/asherwoodbury/wikidata-football-cleanup/internal/services/extraction"
	"github.com/asherwoodbury/wikidata-football-cleanup/internal/services/wikipedia"
	"github.com/asherwoodbury/wikidata-football-cleanup/internal/validation"
)

// Pipeline wires the stores and stage services together.
type Pipeline struct {
	cfg       *config.Config
	store     *registry.Store
	articles  *articles.Store
	extractor extraction.Extractor
	validator *validation.Validator
	wikipedia *wikipedia.Client
	limiter   *fetcher.Limiter
	logger    *slog.Logger
}

// New assembles a pipeline. The extractor decides how corrections are
// produced; the validator is built from configuration.
func New(cfg *config.Config, store *registry.Store, articleStore *articles.Store, extractor extraction.Extractor, logger *slog.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	aliases, err := validation.LoadAliases(cfg.Validation.AliasFile)
	if err != nil {
		return nil, err
	}
	delay := time.Duration(cfg.Wikipedia.RequestDelay * float64(time.Second))
	return &Pipeline{
		cfg:       cfg,
		store:     store,
		articles:  articleStore,
		extractor: extractor,
		validator: validation.New(validation.Options{
			Aliases:        aliases,
			CurrentMarkers: cfg.Validation.CurrentMarkers,
		}),
		wikipedia: wikipedia.NewClient(wikipedia.Config{
			APIURL:     cfg.Wikipedia.APIURL,
			UserAgent:  cfg.Wikipedia.UserAgent,
			MaxRetries: cfg.Wikipedia.MaxRetries,
		}),
		limiter: fetcher.NewLimiter(delay),
		logger:  logging.WithComponent(logger, "pipeline"),
	}, nil
}

// ExtractionOptions filter which fetched items are processed.
type ExtractionOptions struct {
	Limit int
	Era   string
	// Force reprocesses items that already have a correction.
	Force bool
}

// ExtractionSummary reports one extraction pass.
type ExtractionSummary struct {
	Processed int
	Found     int
	NoDate    int
	Failed    int
	Skipped   int
}

// RunExtraction walks fetched items and records candidate corrections.
// Items that already have a correction are skipped unless forced, so the
// stage can be re-run after adding articles without redoing earlier work.
func (p *Pipeline) RunExtraction(ctx context.Context, opts ExtractionOptions) (ExtractionSummary, error) {
	summary := ExtractionSummary{}
	items, err := p.store.List(ctx, registry.ListOptions{
		Statuses: []registry.Status{registry.StatusFetched},
		Era:      opts.Era,
		Limit:    opts.Limit,
	})
	if err != nil {
		return summary, err
	}

	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		logger := p.logger.With(logging.String(logging.FieldQID, item.QID))

		if !opts.Force {
			existing, err := p.store.CorrectionByQID(ctx, item.QID)
			if err != nil {
				return summary, err
			}
			if existing != nil {
				summary.Skipped++
				continue
			}
		}

		article, err := p.articles.Load(item.QID)
		if err != nil {
			logger.Warn("article unreadable", logging.Error(err))
			summary.Failed++
			continue
		}

		result, err := p.extractor.Extract(ctx, extraction.Request{
			PlayerName:  item.PlayerName,
			ClubName:    item.ClubName,
			StartDate:   item.StartDate,
			Extract:     article.Extract,
			InfoboxHTML: p.fetchInfoboxHTML(ctx, logger, article.Title),
			ArticleURL:  article.URL,
		})
		summary.Processed++
		if err != nil {
			logger.Warn("extraction failed", logging.Error(err))
			summary.Failed++
			continue
		}
		if !result.Found {
			summary.NoDate++
			continue
		}

		correction := &registry.Correction{
			QID:             item.QID,
			ClubName:        result.ClubName,
			EndDate:         result.EndDate,
			Precision:       result.Precision,
			EvidenceSnippet: result.Evidence,
			EvidenceURL:     article.URL,
		}
		if err := p.store.SaveCorrection(ctx, correction); err != nil {
			return summary, err
		}
		summary.Found++
		logger.Info("correction extracted",
			logging.String("end_date", result.EndDate),
			logging.String("precision", string(result.Precision)),
		)
	}
	return summary, nil
}

// fetchInfoboxHTML is best effort: structured parsing improves results but
// the text path works without it.
func (p *Pipeline) fetchInfoboxHTML(ctx context.Context, logger *slog.Logger, title string) string {
	if title == "" {
		return ""
	}
	if err := p.limiter.Wait(ctx); err != nil {
		return ""
	}
	html, err := p.wikipedia.FetchHTML(ctx, title)
	if err != nil {
		logger.Warn("infobox fetch failed", logging.Error(err))
		return ""
	}
	return html
}

// ValidationSummary reports one validation pass.
type ValidationSummary struct {
	Validated     int
	Accepted      int
	Rejected      int
	NeedsResearch int
}

// RunValidation rules on every correction that has no verdict yet.
func (p *Pipeline) RunValidation(ctx context.Context) (ValidationSummary, error) {
	summary := ValidationSummary{}
	corrections, err := p.store.UnvalidatedCorrections(ctx)
	if err != nil {
		return summary, err
	}

	for _, correction := range corrections {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		item, err := p.store.GetByQID(ctx, correction.QID)
		if err != nil {
			return summary, err
		}
		if item == nil {
			// Corrections reference work items by foreign key; a miss
			// here means the ledger was modified out from under us.
			return summary, fmt.Errorf("correction %s has no work item", correction.QID)
		}

		verdict := p.validator.Validate(item, correction)
		if err := p.store.SaveVerdict(ctx, &verdict); err != nil {
			return summary, err
		}
		summary.Validated++
		switch verdict.Decision {
		case registry.DecisionAccepted:
			summary.Accepted++
		case registry.DecisionRejected:
			summary.Rejected++
		case registry.DecisionNeedsResearch:
			summary.NeedsResearch++
		}
		p.logger.Info("correction validated",
			logging.String(logging.FieldQID, correction.QID),
			logging.String("decision", string(verdict.Decision)),
			logging.String(logging.FieldReason, verdict.ReasonCode),
		)
	}
	return summary, nil
}

// BatchSummary reports one batch generation pass.
type BatchSummary struct {
	Path    string
	Written int
	Skipped []string
}

// RunBatch writes accepted corrections as a QuickStatements file. An empty
// outPath places a timestamped file in the configured batch directory.
func (p *Pipeline) RunBatch(ctx context.Context, outPath string) (BatchSummary, error) {
	summary := BatchSummary{}
	accepted, err := p.store.AcceptedCorrections(ctx)
	if err != nil {
		return summary, err
	}

	verdicts := make(map[string]*registry.Verdict, len(accepted))
	for _, pair := range accepted {
		verdict, err := p.store.VerdictByQID(ctx, pair.Item.QID)
		if err != nil {
			return summary, err
		}
		verdicts[pair.Item.QID] = verdict
	}

	if outPath == "" {
		if err := os.MkdirAll(p.cfg.Paths.BatchDir, 0o755); err != nil {
			return summary, fmt.Errorf("create batch directory: %w", err)
		}
		outPath = filepath.Join(p.cfg.Paths.BatchDir, fmt.Sprintf("quickstatements_%s.txt", time.Now().UTC().Format("20060102_150405")))
	}
	file, err := os.Create(outPath)
	if err != nil {
		return summary, fmt.Errorf("create batch file: %w", err)
	}
	defer file.Close()

	written, skipped, err := quickstatements.Generator{}.WriteBatch(file, accepted, verdicts)
	if err != nil {
		return summary, err
	}
	summary.Path = outPath
	summary.Written = written
	summary.Skipped = skipped
	p.logger.Info("batch written",
		logging.String("path", outPath),
		logging.Int("commands", written),
		logging.Int("skipped", len(skipped)),
	)
	return summary, nil
}
