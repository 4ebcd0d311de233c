// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package trainer

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/tourism-qa/internal/container"
	"github.com/pdiddy/tourism-qa/internal/evaluate"
	"github.com/pdiddy/tourism-qa/pkg/types"
)

// fakeRuntime writes trainer outputs into the mounted output directory.
type fakeRuntime struct {
	missingImage bool
	removeErr    error
	failOn       map[string]string // model path -> failing command
	runs         []container.RunOptions
	removed      []string
}

func (f *fakeRuntime) Name() string                   { return "fake" }
func (f *fakeRuntime) Available(context.Context) bool { return true }
func (f *fakeRuntime) Remove(_ context.Context, name string) error {
	f.removed = append(f.removed, name)
	return f.removeErr
}

func (f *fakeRuntime) ImageExists(_ context.Context, image string) error {
	if f.missingImage {
		return errors.New("image " + image + " not found")
	}
	return nil
}

func (f *fakeRuntime) Run(_ context.Context, _ string, opts container.RunOptions) error {
	f.runs = append(f.runs, opts)

	var out string
	for _, m := range opts.Mounts {
		if m.Container == outputMount {
			out = m.Host
		}
	}
	cmd := opts.Args[0]
	model := opts.Args[2]
	for path, failing := range f.failOn {
		if failing == cmd && model == path {
			return errors.New(cmd + " exited with code 1")
		}
	}

	switch cmd {
	case "train":
		return os.WriteFile(filepath.Join(out, metricsFile), []byte(`{"train_loss": 0.5, "eval_loss": 0.75}`), 0o644)
	case "predict":
		return os.WriteFile(filepath.Join(out, predictionsFile),
			[]byte(`{"id":"a","question":"What is Dubrovnik known for?","reference":"its walls","text":"its walls"}`+"\n"), 0o644)
	}
	return nil
}

type fakeEvaluator struct{ calls []string }

func (f *fakeEvaluator) Evaluate(model string, preds []evaluate.Prediction, _ io.Writer) (evaluate.Report, error) {
	f.calls = append(f.calls, model)
	return evaluate.Report{
		RunID:     "run-" + model,
		Model:     model,
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Count:     len(preds),
		Metrics:   evaluate.Metrics{ExactMatch: 1, F1: 1},
	}, nil
}

func testConfig(t *testing.T, models ...types.ModelSpec) types.TrainerConfig {
	t.Helper()
	return types.TrainerConfig{
		Image:     "tourism-qa-trainer:latest",
		Models:    models,
		OutputDir: t.TempDir(),
		DataDir:   t.TempDir(),
		GPU:       true,
	}
}

var bert = types.ModelSpec{Name: "BERT", Path: "bert-base-uncased", BatchSize: 8, GradAccum: 2}

func TestSessionTrainAndPredict(t *testing.T) {
	rt := &fakeRuntime{}
	cfg := testConfig(t, bert)

	s, err := Open(context.Background(), rt, cfg, bert, []string{"HF_TOKEN=x"}, nil, nil)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(s.Name(), "tourism-qa-train-bert-"))
	assert.DirExists(t, s.OutputDir())

	res, err := s.Train(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"train_loss": 0.5, "eval_loss": 0.75}, res.Metrics)

	require.Len(t, rt.runs, 1)
	run := rt.runs[0]
	assert.Equal(t, s.Name(), run.Name)
	assert.True(t, run.GPU)
	assert.Equal(t, []string{"HF_TOKEN=x"}, run.Env)
	assert.Equal(t, []string{
		"train", "--model", "bert-base-uncased",
		"--train", "/data/train.jsonl", "--val", "/data/val.jsonl",
		"--output", "/output", "--batch-size", "8", "--grad-accum", "2",
	}, run.Args)
	require.Len(t, run.Mounts, 2)
	assert.True(t, run.Mounts[0].ReadOnly)
	assert.Equal(t, dataMount, run.Mounts[0].Container)

	preds, err := s.Predict(context.Background())
	require.NoError(t, err)
	require.Len(t, preds, 1)
	assert.Equal(t, "its walls", preds[0].Reference)

	require.NoError(t, s.Close())
	assert.Equal(t, []string{s.Name()}, rt.removed)
}

func TestSessionCloseIdempotent(t *testing.T) {
	rt := &fakeRuntime{removeErr: errors.New("no such container")}
	s, err := Open(context.Background(), rt, testConfig(t, bert), bert, nil, nil, nil)
	require.NoError(t, err)

	assert.Error(t, s.Close())
	assert.NoError(t, s.Close())
	assert.Len(t, rt.removed, 1)

	_, err = s.Train(context.Background())
	assert.ErrorIs(t, err, ErrClosed)
}

func TestOpenErrors(t *testing.T) {
	_, err := Open(context.Background(), &fakeRuntime{missingImage: true}, testConfig(t, bert), bert, nil, nil, nil)
	assert.ErrorContains(t, err, "not found")

	_, err = Open(context.Background(), &fakeRuntime{}, testConfig(t), types.ModelSpec{Name: "x"}, nil, nil, nil)
	assert.ErrorContains(t, err, "no checkpoint path")
}

func TestRunnerRun(t *testing.T) {
	roberta := types.ModelSpec{Name: "RoBERTa", Path: "roberta-base"}
	rt := &fakeRuntime{}
	ev := &fakeEvaluator{}
	reports := t.TempDir()

	r := NewRunner(rt, testConfig(t, bert, roberta), ev, reports, nil, nil)
	var out bytes.Buffer
	res, err := r.Run(context.Background(), &out)
	require.NoError(t, err)

	assert.False(t, res.HasFailures())
	assert.Equal(t, []string{"BERT", "RoBERTa"}, ev.calls)
	require.Len(t, res.Paths, 2)
	for _, p := range res.Paths {
		assert.FileExists(t, p)
	}
	assert.Len(t, rt.removed, 2)
	assert.Contains(t, out.String(), "models: 2, succeeded: 2, failed: 0")
	assert.Contains(t, out.String(), "RoBERTa")
}

func TestRunnerReleasesOnFailure(t *testing.T) {
	roberta := types.ModelSpec{Name: "RoBERTa", Path: "roberta-base"}
	rt := &fakeRuntime{
		failOn:    map[string]string{"bert-base-uncased": "train"},
		removeErr: errors.New("no such container"),
	}
	ev := &fakeEvaluator{}

	r := NewRunner(rt, testConfig(t, bert, roberta), ev, t.TempDir(), nil, nil)
	var out bytes.Buffer
	res, err := r.Run(context.Background(), &out)
	require.NoError(t, err)

	assert.True(t, res.HasFailures())
	assert.Equal(t, []string{"BERT"}, res.Failed)
	assert.Equal(t, []string{"RoBERTa"}, ev.calls)
	assert.Len(t, rt.removed, 2, "failed session must still be released")
	assert.Contains(t, out.String(), "failed  BERT: training BERT: train exited with code 1")
}

func TestRunnerNoModels(t *testing.T) {
	r := NewRunner(&fakeRuntime{}, testConfig(t), &fakeEvaluator{}, t.TempDir(), nil, nil)
	_, err := r.Run(context.Background(), io.Discard)
	assert.ErrorIs(t, err, ErrNoModels)
}

func TestRunnerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := NewRunner(&fakeRuntime{}, testConfig(t, bert), &fakeEvaluator{}, t.TempDir(), nil, nil)
	_, err := r.Run(ctx, io.Discard)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "bert", slug("BERT"))
	assert.Equal(t, "deepset-roberta-base", slug("deepset/roberta base"))
	assert.Equal(t, "", slug("  "))
}
