// Package metrics экспортирует метрики обработки ответов в Prometheus.
package metrics

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"telegram-reply-tracker/internal/ports"
)

// ReplyMetrics реализует ports.ReplyMetrics поверх счётчиков Prometheus.
type ReplyMetrics struct {
	parsed      *prometheus.CounterVec
	diagnostics *prometheus.CounterVec
	changes     *prometheus.CounterVec
}

// NewReplyMetrics регистрирует метрики в reg. Повторная регистрация с тем
// же пространством имён переиспользует уже зарегистрированные счётчики.
func NewReplyMetrics(namespace string, reg prometheus.Registerer) (*ReplyMetrics, error) {
	if namespace == "" {
		namespace = "reply_tracker"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	var err error
	m := &ReplyMetrics{}
	m.parsed, err = registerCounterVec(reg, prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "replies_built_total",
		Help:      "Count of reply infos built, by source.",
	}, "source")
	if err != nil {
		return nil, err
	}
	m.diagnostics, err = registerCounterVec(reg, prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reply_header_anomalies_total",
		Help:      "Count of anomalies found in network reply headers, by kind.",
	}, "kind")
	if err != nil {
		return nil, err
	}
	m.changes, err = registerCounterVec(reg, prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reply_updates_total",
		Help:      "Count of stored reply updates, by outcome.",
	}, "outcome")
	if err != nil {
		return nil, err
	}
	return m, nil
}

func registerCounterVec(reg prometheus.Registerer, opts prometheus.CounterOpts, label string) (*prometheus.CounterVec, error) {
	counter := prometheus.NewCounterVec(opts, []string{label})
	if err := reg.Register(counter); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
		}
		return nil, fmt.Errorf("register %s counter: %w", opts.Name, err)
	}
	return counter, nil
}

func (m *ReplyMetrics) ObserveParsed(source string) {
	if m == nil {
		return
	}
	m.parsed.WithLabelValues(source).Inc()
}

func (m *ReplyMetrics) ObserveDiagnostic(kind string) {
	if m == nil {
		return
	}
	m.diagnostics.WithLabelValues(kind).Inc()
}

// ObserveChange учитывает обновление сохранённого ответа: существенное
// изменение или поглощённый дрейф.
func (m *ReplyMetrics) ObserveChange(changed bool) {
	if m == nil {
		return
	}
	outcome := "absorbed"
	if changed {
		outcome = "changed"
	}
	m.changes.WithLabelValues(outcome).Inc()
}

var _ ports.ReplyMetrics = (*ReplyMetrics)(nil)
