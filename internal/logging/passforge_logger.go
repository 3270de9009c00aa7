package logging

import (
	"context"
	"fmt"
	"time"

	"PassForgePlatform/pkg/logger"
)

// PassForgeLogger обертка над pkg/logger для событий генерации паролей
type PassForgeLogger struct {
	base logger.Logger
}

// NewPassForgeLogger создает новый экземпляр логгера генерации
func NewPassForgeLogger(baseLogger logger.Logger) *PassForgeLogger {
	return &PassForgeLogger{
		base: baseLogger,
	}
}

// LogGenerated логирует успешную генерацию пароля
func (pl *PassForgeLogger) LogGenerated(ctx context.Context, strength string, length int, duration time.Duration) {
	pl.base.With(
		logger.CtxField(ctx),
		logger.String("event", "password_generated"),
		logger.String("strength", strength),
		logger.Int("length", length),
		logger.Float64("duration_seconds", duration.Seconds()),
		logger.String("component", "password_service"),
	).Info("Password generated")
}

// LogGenerationRejected логирует отклонение запроса валидацией
func (pl *PassForgeLogger) LogGenerationRejected(ctx context.Context, length int, err error) {
	pl.base.With(
		logger.CtxField(ctx),
		logger.String("event", "generation_rejected"),
		logger.Int("length", length),
		logger.Error(err),
		logger.String("component", "password_service"),
	).Warn("Generation request rejected")
}

// LogGenerationError логирует ошибку генерации
func (pl *PassForgeLogger) LogGenerationError(ctx context.Context, err error) {
	pl.base.With(
		logger.CtxField(ctx),
		logger.String("event", "generation_failed"),
		logger.Error(err),
		logger.String("component", "password_service"),
	).Error("Password generation failed")
}

// LogStrengthAnalyzed логирует анализ стойкости пароля
func (pl *PassForgeLogger) LogStrengthAnalyzed(ctx context.Context, passwordLength int, strength string) {
	pl.base.With(
		logger.CtxField(ctx),
		logger.String("event", "strength_analyzed"),
		logger.Int("password_length", passwordLength),
		logger.String("strength", strength),
		logger.String("component", "strength_scorer"),
	).Debug("Password strength analyzed")
}

// LogClientConnected логирует подключение websocket клиента
func (pl *PassForgeLogger) LogClientConnected(ctx context.Context, remoteAddr string, clients int) {
	pl.base.With(
		logger.CtxField(ctx),
		logger.String("event", "ws_client_connected"),
		logger.String("remote_addr", remoteAddr),
		logger.Int("clients", clients),
		logger.String("component", "ws_hub"),
	).Info("WebSocket client connected")
}

// LogClientDisconnected логирует отключение websocket клиента
func (pl *PassForgeLogger) LogClientDisconnected(ctx context.Context, remoteAddr string, clients int) {
	pl.base.With(
		logger.CtxField(ctx),
		logger.String("event", "ws_client_disconnected"),
		logger.String("remote_addr", remoteAddr),
		logger.Int("clients", clients),
		logger.String("component", "ws_hub"),
	).Info("WebSocket client disconnected")
}

// LogClientDropped логирует принудительное отключение медленного клиента
func (pl *PassForgeLogger) LogClientDropped(ctx context.Context, remoteAddr string) {
	pl.base.With(
		logger.CtxField(ctx),
		logger.String("event", "ws_client_dropped"),
		logger.String("remote_addr", remoteAddr),
		logger.String("component", "ws_hub"),
	).Warn("WebSocket client dropped, send queue full")
}

// LogServiceStarted логирует запуск сервиса
func (pl *PassForgeLogger) LogServiceStarted(ctx context.Context, serviceName string, version string) {
	pl.base.With(
		logger.CtxField(ctx),
		logger.String("event", "service_started"),
		logger.String("service_name", serviceName),
		logger.String("version", version),
		logger.String("component", "service"),
	).Info("Service started")
}

// LogServiceStopped логирует остановку сервиса
func (pl *PassForgeLogger) LogServiceStopped(ctx context.Context, serviceName string) {
	pl.base.With(
		logger.CtxField(ctx),
		logger.String("event", "service_stopped"),
		logger.String("service_name", serviceName),
		logger.String("component", "service"),
	).Info("Service stopped")
}

// WithComponent создает логгер с указанным компонентом
func (pl *PassForgeLogger) WithComponent(component string) *PassForgeLogger {
	return &PassForgeLogger{
		base: pl.base.With(
			logger.String("component", component),
		),
	}
}

// GetBaseLogger возвращает базовый логгер
func (pl *PassForgeLogger) GetBaseLogger() logger.Logger {
	return pl.base
}

// Sync синхронизирует буферы логгера
func (pl *PassForgeLogger) Sync() error {
	return pl.base.Sync()
}

// ContextKey ключи для контекста
type ContextKey string

const (
	// TraceIDKey ключ trace_id в контексте
	TraceIDKey ContextKey = "trace_id"
)

// WithTraceID добавляет trace_id в контекст
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDKey, traceID)
}

// GetTraceID извлекает trace_id из контекста
func GetTraceID(ctx context.Context) string {
	if traceID := ctx.Value(TraceIDKey); traceID != nil {
		if id, ok := traceID.(string); ok {
			return id
		}
	}
	return ""
}

// GenerateTraceID генерирует новый trace ID
func GenerateTraceID() string {
	return fmt.Sprintf("%d", time.Now().UnixNano())
}
