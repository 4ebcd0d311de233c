// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package trainer drives the external fine-tuning image. A Session owns
// one model's container and output directory; callers must Close it on
// every exit path.
package trainer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pdiddy/tourism-qa/internal/container"
	"github.com/pdiddy/tourism-qa/internal/evaluate"
	"github.com/pdiddy/tourism-qa/internal/logging"
	"github.com/pdiddy/tourism-qa/pkg/types"
)

// Container paths seen by the trainer image.
const (
	dataMount   = "/data"
	outputMount = "/output"

	metricsFile     = "metrics.json"
	predictionsFile = "predictions.jsonl"
	modelDir        = "model"

	closeTimeout = 30 * time.Second
)

// Split file names inside the data directory.
const (
	TrainFile = "train.jsonl"
	ValFile   = "val.jsonl"
	TestFile  = "test.jsonl"
)

// ErrClosed is returned by operations on a closed session.
var ErrClosed = errors.New("trainer session closed")

// TrainResult is what the trainer reports after fine-tuning.
type TrainResult struct {
	Model    string             `json:"model"`
	Metrics  map[string]float64 `json:"metrics"`
	Duration time.Duration      `json:"duration"`
}

// Session is one model's exclusive use of the trainer image.
type Session struct {
	rt      container.Runtime
	image   string
	model   types.ModelSpec
	name    string
	dataDir string
	outDir  string
	gpu     bool
	env     []string
	stdout  io.Writer
	logger  *zap.Logger
	closed  bool
}

// Open verifies the image, prepares the model's output directory, and
// returns a session. env holds KEY=value pairs passed to the container.
func Open(ctx context.Context, rt container.Runtime, cfg types.TrainerConfig, model types.ModelSpec, env []string, stdout io.Writer, logger *zap.Logger) (*Session, error) {
	if model.Path == "" {
		return nil, fmt.Errorf("model %q has no checkpoint path", model.Name)
	}
	if err := rt.ImageExists(ctx, cfg.Image); err != nil {
		return nil, err
	}

	label := slug(model.Name)
	if label == "" {
		label = slug(model.Path)
	}
	outDir := filepath.Join(cfg.OutputDir, label)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	outDir, err := filepath.Abs(outDir)
	if err != nil {
		return nil, err
	}
	dataDir, err := filepath.Abs(cfg.DataDir)
	if err != nil {
		return nil, err
	}
	if stdout == nil {
		stdout = io.Discard
	}

	return &Session{
		rt:      rt,
		image:   cfg.Image,
		model:   model,
		name:    "tourism-qa-train-" + label + "-" + uuid.NewString()[:8],
		dataDir: dataDir,
		outDir:  outDir,
		gpu:     cfg.GPU,
		env:     env,
		stdout:  stdout,
		logger:  logging.OrNop(logger).With(zap.String("model", model.Name)),
	}, nil
}

// Name returns the container name used by this session.
func (s *Session) Name() string { return s.name }

// OutputDir returns the host directory the trainer writes into.
func (s *Session) OutputDir() string { return s.outDir }

func (s *Session) run(ctx context.Context, args ...string) error {
	if s.closed {
		return ErrClosed
	}
	return s.rt.Run(ctx, s.image, container.RunOptions{
		Name: s.name,
		Env:  s.env,
		Mounts: []container.Mount{
			{Host: s.dataDir, Container: dataMount, ReadOnly: true},
			{Host: s.outDir, Container: outputMount},
		},
		GPU:    s.gpu,
		Args:   args,
		Stdout: s.stdout,
		Stderr: s.stdout,
	})
}

// Train fine-tunes the model on train.jsonl and val.jsonl and reads the
// metrics file the trainer leaves in the output directory.
func (s *Session) Train(ctx context.Context) (TrainResult, error) {
	args := []string{
		"train",
		"--model", s.model.Path,
		"--train", dataMount + "/" + TrainFile,
		"--val", dataMount + "/" + ValFile,
		"--output", outputMount,
	}
	if s.model.BatchSize > 0 {
		args = append(args, "--batch-size", strconv.Itoa(s.model.BatchSize))
	}
	if s.model.GradAccum > 0 {
		args = append(args, "--grad-accum", strconv.Itoa(s.model.GradAccum))
	}

	s.logger.Info("training", zap.String("checkpoint", s.model.Path), zap.String("container", s.name))
	start := time.Now()
	if err := s.run(ctx, args...); err != nil {
		return TrainResult{}, fmt.Errorf("training %s: %w", s.model.Name, err)
	}

	data, err := os.ReadFile(filepath.Join(s.outDir, metricsFile))
	if err != nil {
		return TrainResult{}, fmt.Errorf("reading trainer metrics: %w", err)
	}
	res := TrainResult{Model: s.model.Name, Duration: time.Since(start)}
	if err := json.Unmarshal(data, &res.Metrics); err != nil {
		return TrainResult{}, fmt.Errorf("parsing trainer metrics: %w", err)
	}
	return res, nil
}

// Predict runs the fine-tuned model over test.jsonl and returns its raw
// per-token predictions.
func (s *Session) Predict(ctx context.Context) ([]evaluate.Prediction, error) {
	args := []string{
		"predict",
		"--model", outputMount + "/" + modelDir,
		"--input", dataMount + "/" + TestFile,
		"--output", outputMount + "/" + predictionsFile,
	}

	s.logger.Info("predicting", zap.String("container", s.name))
	if err := s.run(ctx, args...); err != nil {
		return nil, fmt.Errorf("predicting %s: %w", s.model.Name, err)
	}
	return evaluate.ReadPredictionsFile(filepath.Join(s.outDir, predictionsFile))
}

// Close removes the session's container. It is safe to call more than
// once and runs even when the caller's context is already cancelled.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()
	return s.rt.Remove(ctx, s.name)
}

func slug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		}
		return '-'
	}, s)
	return strings.Trim(s, "-.")
}
