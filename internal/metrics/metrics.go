// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics collects pipeline counters in a private Prometheus
// registry and writes them in the text exposition format, suitable for a
// node_exporter textfile collector.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/pdiddy/tourism-qa/internal/evaluate"
	"github.com/pdiddy/tourism-qa/internal/label"
	"github.com/pdiddy/tourism-qa/internal/synth"
	"github.com/pdiddy/tourism-qa/pkg/types"
)

const namespace = "tourism_qa"

// Pipeline holds the counters for one CLI invocation.
//
// Metrics:
//   - tourism_qa_texts_total{status} - source texts by outcome
//   - tourism_qa_pairs_total{language,rule} - synthesized pairs
//   - tourism_qa_spans_total{result} - answer localization outcomes
//   - tourism_qa_examples_total - labeled training examples
//   - tourism_qa_evaluation_score{model,metric} - mean evaluation metrics
type Pipeline struct {
	reg *prometheus.Registry

	Texts    *prometheus.CounterVec
	Pairs    *prometheus.CounterVec
	Spans    *prometheus.CounterVec
	Examples prometheus.Counter
	Scores   *prometheus.GaugeVec
}

// New returns a Pipeline backed by its own registry.
func New() *Pipeline {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Pipeline{
		reg: reg,
		Texts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "texts_total",
			Help:      "Source texts processed, by outcome.",
		}, []string{"status"}),
		Pairs: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pairs_total",
			Help:      "QA pairs synthesized, by language and rule.",
		}, []string{"language", "rule"}),
		Spans: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "spans_total",
			Help:      "Answer localization outcomes.",
		}, []string{"result"}),
		Examples: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "examples_total",
			Help:      "Labeled training examples written.",
		}),
		Scores: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "evaluation_score",
			Help:      "Mean evaluation metric per model.",
		}, []string{"model", "metric"}),
	}
}

// Registry exposes the underlying registry.
func (p *Pipeline) Registry() *prometheus.Registry { return p.reg }

// ObserveSynthesis records a corpus synthesis run and its pairs.
func (p *Pipeline) ObserveSynthesis(sum synth.CorpusSummary, pairs []types.QAPair) {
	p.Texts.WithLabelValues("processed").Add(float64(sum.Texts))
	p.Texts.WithLabelValues("skipped").Add(float64(sum.Skipped))
	p.Texts.WithLabelValues("failed").Add(float64(sum.Failed))
	for _, qa := range pairs {
		p.Pairs.WithLabelValues(string(qa.Language), qa.Rule).Inc()
	}
}

// ObserveLabel records a labeling run.
func (p *Pipeline) ObserveLabel(sum label.Summary) {
	p.Spans.WithLabelValues("found").Add(float64(sum.Found))
	p.Spans.WithLabelValues("not_found").Add(float64(sum.NotFound))
	p.Spans.WithLabelValues("failed").Add(float64(sum.Failed))
	p.Examples.Add(float64(sum.Examples))
}

// ObserveReport records the mean metrics of an evaluation report.
func (p *Pipeline) ObserveReport(r evaluate.Report) {
	for i, v := range r.Metrics.Values() {
		p.Scores.WithLabelValues(r.Model, evaluate.MetricNames[i]).Set(v)
	}
}

// WriteTextfile writes every collected metric to path atomically.
func (p *Pipeline) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, p.reg); err != nil {
		return fmt.Errorf("writing metrics: %w", err)
	}
	return nil
}
