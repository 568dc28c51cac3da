package runner

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync"

	"github.com/viant/classmodel/analyzer"
	"github.com/viant/classmodel/inspector/graph"
	"github.com/viant/classmodel/inspector/info"
	"github.com/viant/classmodel/inspector/java"
	"github.com/viant/classmodel/inspector/repository"
	"github.com/viant/classmodel/merger"
	"github.com/viant/classmodel/store"
)

const defaultGenerator = "classmodel"

// Result represents run outcome
type Result struct {
	Status      Status
	Model       *graph.Model // nil unless completed
	Primary     int          // number of primary class records
	Classpath   int          // number of reachable classpath records
	Skipped     []*java.EntryError
	Fingerprint string
	Saved       bool
}

// Runner builds a model out of class locations, one run at a time
type Runner struct {
	config    *info.Config
	filter    info.Filter
	hasFilter bool
	progress  chan<- Progress
	store     *store.Store
	detector  *repository.Detector
	generator string
	mux       sync.Mutex
}

// New creates a runner
func New(config *info.Config, options ...Option) *Runner {
	if config == nil {
		config = info.DefaultConfig()
	}
	ret := &Runner{config: config, generator: defaultGenerator, detector: repository.NewDetector()}
	for _, opt := range options {
		opt(ret)
	}
	if ret.store == nil {
		ret.store = store.New()
	}
	return ret
}

// Run executes ingest, construct, analyze, merge and save phases
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	r.mux.Lock()
	defer r.mux.Unlock()
	result := &Result{}
	model, err := r.run(ctx, result)
	switch {
	case err == nil:
		result.Status = StatusCompleted
		result.Model = model
		return result, nil
	case ctx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, ErrCancelled)):
		result.Status = StatusCancelled
		if errors.Is(err, ErrCancelled) {
			return result, err
		}
		return result, fmt.Errorf("%w: %w", ErrCancelled, ctx.Err())
	}
	result.Status = StatusFailed
	return result, err
}

func (r *Runner) run(ctx context.Context, result *Result) (*graph.Model, error) {
	config := r.config
	model := graph.New(r.modelName())
	var options []java.Option
	if r.hasFilter {
		options = append(options, java.WithFilter(r.filter))
	}
	options = append(options, java.WithScanListener(func(location string, completed, total int) {
		r.report(ctx, PhaseIngest, completed*UnitsPerPhase/total)
	}))
	inspector := java.NewInspector(model, config, options...)

	r.report(ctx, PhaseIngest, 0)
	input, err := inspector.Ingest(ctx, config.Sources, config.Classpath)
	if err != nil {
		return nil, err
	}
	result.Skipped = input.Skipped
	if err = r.checkpoint(ctx, PhaseIngest); err != nil {
		return nil, err
	}

	r.report(ctx, PhaseConstruct, 0)
	reachable := inspector.AddClassifiersClosure(input.Primary, input.Classpath)
	inspector.AddAllTypes(input.Primary)
	inspector.AddAllTypes(reachable)
	result.Primary, result.Classpath = len(input.Primary), len(reachable)
	r.report(ctx, PhaseConstruct, UnitsPerPhase/2)
	if config.IncludeMembers {
		if err = inspector.AddAllMembers(input.Primary); err != nil {
			return nil, err
		}
	}
	if err = r.checkpoint(ctx, PhaseConstruct); err != nil {
		return nil, err
	}

	r.report(ctx, PhaseAnalyze, 0)
	anAnalyzer := analyzer.New(model, analyzer.WithInstructionReferences(config.IncludeInstructionReferences))
	contained := anAnalyzer.FindContainedTypes(input.Primary)
	if config.DependenciesOnly {
		anAnalyzer.PruneDependencies(contained)
	} else {
		anAnalyzer.TagInferred(anAnalyzer.FindInferredTypes(contained))
	}
	if err = r.checkpoint(ctx, PhaseAnalyze); err != nil {
		return nil, err
	}

	unchanged := false
	if config.UpdateExistingModel && config.Output != "" {
		r.report(ctx, PhaseMerge, 0)
		if model, unchanged, err = r.merge(ctx, model); err != nil {
			return nil, err
		}
		if err = r.checkpoint(ctx, PhaseMerge); err != nil {
			return nil, err
		}
	}
	if config.IncludeGeneratorComment {
		model.Comment = fmt.Sprintf("Generated by %s from %d class records", r.generator, result.Primary+result.Classpath)
	}
	if result.Fingerprint, err = model.Fingerprint(); err != nil {
		return nil, err
	}

	r.report(ctx, PhaseSave, 0)
	if config.Output != "" && !unchanged {
		if err = r.store.Save(ctx, model, config.Output); err != nil {
			return nil, err
		}
		result.Saved = true
	}
	if err = r.checkpoint(ctx, PhaseSave); err != nil {
		return nil, err
	}
	return model, nil
}

// merge folds model into the stored one, unchanged is true if merge did not alter the stored model
func (r *Runner) merge(ctx context.Context, model *graph.Model) (*graph.Model, bool, error) {
	base, err := r.store.Load(ctx, r.config.Output)
	if err != nil {
		return nil, false, err
	}
	if base == nil {
		return model, false, nil
	}
	before, err := base.Fingerprint()
	if err != nil {
		return nil, false, err
	}
	if err = merger.New(base).MergeModel(model); err != nil {
		return nil, false, fmt.Errorf("failed to merge into %s: %w", r.config.Output, err)
	}
	after, err := base.Fingerprint()
	if err != nil {
		return nil, false, err
	}
	return base, before == after, nil
}

func (r *Runner) checkpoint(ctx context.Context, phase Phase) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrCancelled, phase, err)
	}
	r.report(ctx, phase, UnitsPerPhase)
	return nil
}

func (r *Runner) report(ctx context.Context, phase Phase, completed int) {
	if r.progress == nil {
		return
	}
	select {
	case r.progress <- Progress{Phase: phase, Completed: completed, Total: UnitsPerPhase}:
	case <-ctx.Done():
	}
}

func (r *Runner) modelName() string {
	if r.config.Name != "" {
		return r.config.Name
	}
	locations := append(append([]string{}, r.config.Sources...), r.config.Classpath...)
	if len(locations) == 0 {
		return defaultGenerator
	}
	location := locations[0]
	if strings.Contains(location, "://") {
		return strings.TrimSuffix(filepath.Base(location), filepath.Ext(location))
	}
	project, err := r.detector.DetectProject(location)
	if err != nil {
		log.Printf("WARNING: failed to detect project of %s: %v", location, err)
		return strings.TrimSuffix(filepath.Base(location), filepath.Ext(location))
	}
	return project.Name
}
