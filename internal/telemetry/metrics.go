package telemetry

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/shaiso/Releaser/internal/domain"
)

// PushJob — имя job при отправке в Pushgateway.
const PushJob = "releaser"

// PushGroupLabel — ключ группировки в Pushgateway. Не должен совпадать
// с метками метрик: Pushgateway отвергает такие push.
const PushGroupLabel = "release_pipeline"

// Metrics собирает Prometheus метрики run и шагов.
//
// Releaser — короткоживущий процесс, поэтому метрики не отдаются по
// /metrics, а пишутся в textfile (node_exporter textfile collector)
// или отправляются в Pushgateway по завершении run.
//
// Metrics реализует runner.Observer.
type Metrics struct {
	registry *prometheus.Registry

	runsTotal       *prometheus.CounterVec
	runDuration     *prometheus.HistogramVec
	lastSuccess     *prometheus.GaugeVec
	stepInvocations *prometheus.CounterVec
	stepDuration    *prometheus.HistogramVec
}

// NewMetrics создаёт метрики в собственном реестре.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		runsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "releaser_runs_total",
			Help: "Pipeline runs by final status",
		}, []string{"pipeline", "status"}),
		runDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "releaser_run_duration_seconds",
			Help:    "Pipeline run duration",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		}, []string{"pipeline"}),
		lastSuccess: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "releaser_last_success_timestamp_seconds",
			Help: "Unix time of the last successful run per pipeline",
		}, []string{"pipeline"}),
		stepInvocations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "releaser_step_invocations_total",
			Help: "Step invocations (one per host for parallel steps) by status",
		}, []string{"pipeline", "step", "status"}),
		stepDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "releaser_step_duration_seconds",
			Help:    "Step invocation duration",
			Buckets: prometheus.DefBuckets,
		}, []string{"pipeline", "step"}),
	}
}

// Registry возвращает реестр метрик.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RunStarted ничего не записывает: run учитывается при завершении.
func (m *Metrics) RunStarted(ctx context.Context, run *domain.Run) error {
	return nil
}

// StepFinished учитывает один вызов шага.
func (m *Metrics) StepFinished(ctx context.Context, run *domain.Run, result domain.StepResult) error {
	m.stepInvocations.WithLabelValues(run.Pipeline, result.Name, string(result.Status)).Inc()
	m.stepDuration.WithLabelValues(run.Pipeline, result.Name).Observe(result.Duration().Seconds())
	return nil
}

// RunFinished учитывает завершённый run.
func (m *Metrics) RunFinished(ctx context.Context, run *domain.Run) error {
	m.runsTotal.WithLabelValues(run.Pipeline, string(run.Status)).Inc()
	m.runDuration.WithLabelValues(run.Pipeline).Observe(run.Duration().Seconds())
	if run.Status == domain.RunStatusSucceeded && run.FinishedAt != nil {
		m.lastSuccess.WithLabelValues(run.Pipeline).Set(float64(run.FinishedAt.Unix()))
	}
	return nil
}

// WriteTextfile атомарно записывает метрики в файл формата textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

// Push отправляет метрики в Pushgateway. Каждый pipeline — своя группа,
// поэтому push одного pipeline не затирает метрики другого.
func (m *Metrics) Push(ctx context.Context, url, pipeline string) error {
	err := push.New(url, PushJob).
		Gatherer(m.registry).
		Grouping(PushGroupLabel, pipeline).
		PushContext(ctx)
	if err != nil {
		return fmt.Errorf("push metrics: %w", err)
	}
	return nil
}
