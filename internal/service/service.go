// Package service is the caller-side layer around the forest builder: it
// enforces record limits, maps configuration to builder options, and logs
// and measures every operation.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/katalvlaran/lvtree/internal/config"
	"github.com/katalvlaran/lvtree/internal/metrics"
	"github.com/katalvlaran/lvtree/internal/records"
	"github.com/katalvlaran/lvtree/tree"
)

// ErrTooManyRecords is returned when a record set exceeds the configured limit.
var ErrTooManyRecords = errors.New("forester: too many records")

// Forest is the service view of a built forest.
type Forest struct {
	Roots      []*records.Record `json:"roots"`
	Depth      int               `json:"depth"`
	Attached   int               `json:"attached"`
	Unresolved []string          `json:"unresolved,omitempty"`
	Cycles     [][]string        `json:"cycles,omitempty"`
}

// Forester runs forest operations over string-keyed records.
type Forester struct {
	cfg     config.TreeConfig
	opts    []tree.Option
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// New creates a Forester. A nil logger is replaced by a no-op logger; a nil
// Metrics disables instrumentation.
func New(cfg config.TreeConfig, logger *zap.Logger, m *metrics.Metrics) (*Forester, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("forester: %w", err)
	}
	opts, err := cfg.Options()
	if err != nil {
		return nil, fmt.Errorf("forester: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Forester{
		cfg:     cfg,
		opts:    opts,
		logger:  logger.Named("forester"),
		metrics: m,
	}, nil
}

// IsInvalidInput reports whether err stems from malformed records rather
// than from the service.
func IsInvalidInput(err error) bool {
	return errors.Is(err, tree.ErrMissingID) ||
		errors.Is(err, tree.ErrDuplicateID) ||
		errors.Is(err, tree.ErrNilNode) ||
		errors.Is(err, tree.ErrCycleDetected)
}

// Build organises recs into a forest.
func (f *Forester) Build(ctx context.Context, recs []*records.Record) (*Forest, error) {
	if err := f.admit(ctx, len(recs)); err != nil {
		f.metrics.BuildFailed(metrics.ResultRejected)
		return nil, err
	}

	start := time.Now()
	built, err := tree.BuildForest[string](recs, f.opts...)
	elapsed := time.Since(start)
	if err != nil {
		f.buildFailed(err)
		return nil, fmt.Errorf("forester: build: %w", err)
	}

	f.metrics.ObserveBuild(elapsed, len(recs), built.Depth, len(built.Unresolved))
	f.logger.Debug("forest built",
		zap.Int("records", len(recs)),
		zap.Int("roots", len(built.Roots)),
		zap.Int("depth", built.Depth),
		zap.Duration("duration", elapsed),
	)
	if len(built.Unresolved) > 0 {
		f.logger.Warn("records promoted to roots by cycle policy",
			zap.String("policy", f.cfg.CyclePolicy),
			zap.Strings("ids", built.Unresolved),
			zap.Int("cycles", len(built.Cycles)),
		)
	}

	return &Forest{
		Roots:      built.Roots,
		Depth:      built.Depth,
		Attached:   built.Attached,
		Unresolved: built.Unresolved,
		Cycles:     built.Cycles,
	}, nil
}

// Path returns the ancestors of id, root first.
func (f *Forester) Path(ctx context.Context, id string, recs []*records.Record) ([]*records.Record, error) {
	if err := f.admit(ctx, len(recs)); err != nil {
		f.metrics.ObservePath("path", metrics.ResultRejected)
		return nil, err
	}

	path, err := tree.PathToRoot[string](id, recs)
	if err != nil {
		f.pathFailed("path", id, err)
		return nil, fmt.Errorf("forester: path %q: %w", id, err)
	}
	f.metrics.ObservePath("path", metrics.ResultOK)
	f.logger.Debug("path resolved", zap.String("id", id), zap.Int("depth", len(path)))

	return path, nil
}

// Subtree returns the single-branch chain from the root down to id.
func (f *Forester) Subtree(ctx context.Context, id string, recs []*records.Record) ([]*records.Record, error) {
	if err := f.admit(ctx, len(recs)); err != nil {
		f.metrics.ObservePath("subtree", metrics.ResultRejected)
		return nil, err
	}

	chain, err := tree.PathSubtree[string](id, recs)
	if err != nil {
		f.pathFailed("subtree", id, err)
		return nil, fmt.Errorf("forester: subtree %q: %w", id, err)
	}
	f.metrics.ObservePath("subtree", metrics.ResultOK)
	f.logger.Debug("subtree extracted", zap.String("id", id), zap.Bool("empty", len(chain) == 0))

	return chain, nil
}

// admit checks cancellation and the record limit before any work starts.
// The builder itself runs to completion once started.
func (f *Forester) admit(ctx context.Context, n int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if f.cfg.MaxRecords > 0 && n > f.cfg.MaxRecords {
		f.logger.Info("record set rejected", zap.Int("records", n), zap.Int("max_records", f.cfg.MaxRecords))
		return fmt.Errorf("%w: %d > %d", ErrTooManyRecords, n, f.cfg.MaxRecords)
	}

	return nil
}

func (f *Forester) buildFailed(err error) {
	if IsInvalidInput(err) {
		f.metrics.BuildFailed(metrics.ResultInvalid)
		f.logger.Info("invalid record set", zap.Error(err))
		return
	}
	f.metrics.BuildFailed(metrics.ResultError)
	f.logger.Error("forest build failed", zap.Error(err))
}

func (f *Forester) pathFailed(kind, id string, err error) {
	result := metrics.ResultError
	if IsInvalidInput(err) {
		result = metrics.ResultInvalid
	}
	f.metrics.ObservePath(kind, result)
	f.logger.Info(kind+" extraction failed", zap.String("id", id), zap.Error(err))
}
