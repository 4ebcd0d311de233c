// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package trainer

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/pdiddy/tourism-qa/internal/container"
	"github.com/pdiddy/tourism-qa/internal/evaluate"
	"github.com/pdiddy/tourism-qa/internal/logging"
	"github.com/pdiddy/tourism-qa/pkg/types"
)

// ErrNoModels is returned when no model is configured.
var ErrNoModels = errors.New("no models configured")

// DefaultModels are fine-tuned when no models are configured. The larger
// checkpoints trade batch size for gradient accumulation.
var DefaultModels = []types.ModelSpec{
	{Name: "BERT", Path: "bert-base-uncased", BatchSize: 16, GradAccum: 2},
	{Name: "RoBERTa", Path: "roberta-base", BatchSize: 8, GradAccum: 4},
	{Name: "DistilBERT", Path: "distilbert-base-uncased", BatchSize: 16, GradAccum: 2},
	{Name: "ALBERT", Path: "albert-base-v2", BatchSize: 16, GradAccum: 2},
	{Name: "DeBERTa", Path: "microsoft/deberta-base", BatchSize: 8, GradAccum: 4},
}

// Evaluator scores predictions. *evaluate.Evaluator satisfies it.
type Evaluator interface {
	Evaluate(model string, preds []evaluate.Prediction, w io.Writer) (evaluate.Report, error)
}

// Result summarizes a multi-model run.
type Result struct {
	Reports []evaluate.Report
	Paths   []string
	Failed  []string
}

// HasFailures reports whether any model failed.
func (r Result) HasFailures() bool { return len(r.Failed) > 0 }

// Runner fine-tunes and evaluates each configured model in turn.
type Runner struct {
	rt        container.Runtime
	cfg       types.TrainerConfig
	eval      Evaluator
	reportDir string
	env       []string
	logger    *zap.Logger
}

// NewRunner returns a Runner. Reports are saved under reportDir.
func NewRunner(rt container.Runtime, cfg types.TrainerConfig, eval Evaluator, reportDir string, env []string, logger *zap.Logger) *Runner {
	return &Runner{
		rt:        rt,
		cfg:       cfg,
		eval:      eval,
		reportDir: reportDir,
		env:       env,
		logger:    logging.OrNop(logger),
	}
}

// Run processes every model. A failing model is logged and skipped; the
// remaining models still run. Progress and the comparison table are
// written to w.
func (r *Runner) Run(ctx context.Context, w io.Writer) (Result, error) {
	if len(r.cfg.Models) == 0 {
		return Result{}, ErrNoModels
	}

	var res Result
	for _, m := range r.cfg.Models {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		fmt.Fprintf(w, "training  %s (%s)\n", m.Name, m.Path)
		report, path, err := r.model(ctx, m, w)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", m.Name, err)
			r.logger.Error("model failed", zap.String("model", m.Name), zap.Error(err))
			res.Failed = append(res.Failed, m.Name)
			continue
		}
		fmt.Fprintf(w, "saved  %s\n", path)
		res.Reports = append(res.Reports, report)
		res.Paths = append(res.Paths, path)
	}

	fmt.Fprintf(w, "\nmodels: %d, succeeded: %d, failed: %d\n",
		len(r.cfg.Models), len(res.Reports), len(res.Failed))
	if len(res.Reports) > 0 {
		fmt.Fprintln(w)
		evaluate.CompareTable(w, res.Reports)
	}
	return res, nil
}

// model trains, predicts, and evaluates one model. The session is always
// released before returning.
func (r *Runner) model(ctx context.Context, m types.ModelSpec, w io.Writer) (evaluate.Report, string, error) {
	s, err := Open(ctx, r.rt, r.cfg, m, r.env, w, r.logger)
	if err != nil {
		return evaluate.Report{}, "", err
	}
	defer func() {
		if err := s.Close(); err != nil {
			r.logger.Debug("releasing trainer session", zap.String("container", s.Name()), zap.Error(err))
		}
	}()

	tr, err := s.Train(ctx)
	if err != nil {
		return evaluate.Report{}, "", err
	}
	r.logger.Info("trained", zap.String("model", m.Name), zap.Duration("duration", tr.Duration), zap.Any("metrics", tr.Metrics))

	preds, err := s.Predict(ctx)
	if err != nil {
		return evaluate.Report{}, "", err
	}

	report, err := r.eval.Evaluate(m.Name, preds, w)
	if err != nil {
		return evaluate.Report{}, "", err
	}
	path, err := evaluate.SaveReport(r.reportDir, report)
	if err != nil {
		return evaluate.Report{}, "", err
	}
	return report, path, nil
}
