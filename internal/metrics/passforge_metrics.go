package metrics

import (
	"context"
	"time"

	"PassForgePlatform/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
)

// PassForgeMetrics содержит метрики генерации паролей
type PassForgeMetrics struct {
	// Базовые метрики из pkg
	base *metrics.Metrics

	// Специфичные метрики генерации
	generateTotal    *prometheus.CounterVec
	generateDuration prometheus.Histogram
	generateErrors   *prometheus.CounterVec
	wsClients        prometheus.Gauge
	wsMessages       *prometheus.CounterVec
	strengthAnalyzed *prometheus.CounterVec
}

// NewPassForgeMetrics создает новый экземпляр метрик генерации
func NewPassForgeMetrics(serviceName string) *PassForgeMetrics {
	base := metrics.NewMetrics(serviceName)

	generateTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "generator",
			Name:      "generate_total",
			Help:      "Total number of passwords generated",
		},
		[]string{"strength"},
	)

	generateDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: serviceName,
			Subsystem: "generator",
			Name:      "generate_duration_seconds",
			Help:      "Duration of password generation in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	generateErrors := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "generator",
			Name:      "generate_errors_total",
			Help:      "Total number of rejected or failed generation requests",
		},
		[]string{"reason"},
	)

	wsClients := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: serviceName,
			Subsystem: "ws",
			Name:      "clients",
			Help:      "Number of connected WebSocket clients",
		},
	)

	wsMessages := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "ws",
			Name:      "messages_total",
			Help:      "Total number of WebSocket messages by direction and type",
		},
		[]string{"direction", "type"},
	)

	strengthAnalyzed := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "strength",
			Name:      "analyzed_total",
			Help:      "Total number of strength analyses performed",
		},
		[]string{"strength"},
	)

	registerMetric(generateTotal)
	registerMetric(generateDuration)
	registerMetric(generateErrors)
	registerMetric(wsClients)
	registerMetric(wsMessages)
	registerMetric(strengthAnalyzed)

	return &PassForgeMetrics{
		base:             base,
		generateTotal:    generateTotal,
		generateDuration: generateDuration,
		generateErrors:   generateErrors,
		wsClients:        wsClients,
		wsMessages:       wsMessages,
		strengthAnalyzed: strengthAnalyzed,
	}
}

// registerMetric безопасно регистрирует метрику
func registerMetric(collector prometheus.Collector) {
	if err := prometheus.Register(collector); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			panic(err)
		}
	}
}

// RecordGeneration записывает метрики успешной генерации
func (pm *PassForgeMetrics) RecordGeneration(strength string, duration time.Duration) {
	pm.generateTotal.WithLabelValues(strength).Inc()
	pm.generateDuration.Observe(duration.Seconds())
}

// IncrementGenerateErrors инкрементирует счетчик ошибок генерации
func (pm *PassForgeMetrics) IncrementGenerateErrors(reason string) {
	pm.generateErrors.WithLabelValues(reason).Inc()
}

// IncrementWSClients инкрементирует счетчик подключенных клиентов
func (pm *PassForgeMetrics) IncrementWSClients() {
	pm.wsClients.Inc()
}

// DecrementWSClients декрементирует счетчик подключенных клиентов
func (pm *PassForgeMetrics) DecrementWSClients() {
	pm.wsClients.Dec()
}

// RecordWSMessage записывает websocket сообщение
func (pm *PassForgeMetrics) RecordWSMessage(direction, messageType string) {
	pm.wsMessages.WithLabelValues(direction, messageType).Inc()
}

// RecordStrengthAnalysis записывает выполненный анализ стойкости
func (pm *PassForgeMetrics) RecordStrengthAnalysis(strength string) {
	pm.strengthAnalyzed.WithLabelValues(strength).Inc()
}

// GetBaseMetrics возвращает базовые метрики из pkg
func (pm *PassForgeMetrics) GetBaseMetrics() *metrics.Metrics {
	return pm.base
}

// TraceGeneration выполняет трассировку генерации с использованием OpenTelemetry
func (pm *PassForgeMetrics) TraceGeneration(ctx context.Context, length int, fn func(context.Context) error) error {
	ctx, span := pm.base.Tracer.Start(ctx, "password_generate")
	defer span.End()

	span.SetAttributes(
		attribute.Int("generate.length", length),
	)

	err := fn(ctx)

	if err != nil {
		span.SetAttributes(
			attribute.String("generate.status", "failure"),
			attribute.String("generate.error", err.Error()),
		)
	} else {
		span.SetAttributes(attribute.String("generate.status", "success"))
	}

	return err
}
