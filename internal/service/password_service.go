package service

import (
	"context"
	"time"
	"unicode/utf8"

	"PassForgePlatform/internal/analytics"
	"PassForgePlatform/internal/api"
	"PassForgePlatform/internal/domain"
	"PassForgePlatform/internal/generator"
	"PassForgePlatform/internal/logging"
	"PassForgePlatform/internal/metrics"
	"PassForgePlatform/internal/strength"
	"PassForgePlatform/internal/validation"
	"PassForgePlatform/pkg/errors"
)

// Broadcaster рассылает сообщение всем подключенным websocket клиентам
type Broadcaster interface {
	Broadcast(msg api.WSServerMessage) error
}

// PasswordService реализует генерацию паролей.
// Порядок обработки фиксирован: валидация, генерация, оценка стойкости,
// учет аналитики, широковещательная рассылка. Отклоненный запрос не
// попадает ни в аналитику, ни в рассылку.
type PasswordService struct {
	generator     *generator.Generator
	scorer        *strength.Scorer
	recorder      *analytics.Recorder
	broadcaster   Broadcaster
	validator     *validation.GenerateValidator
	logger        *logging.PassForgeLogger
	metrics       *metrics.PassForgeMetrics
	defaultLength int
}

// NewPasswordService создает новый PasswordService
func NewPasswordService(
	gen *generator.Generator,
	scorer *strength.Scorer,
	recorder *analytics.Recorder,
	broadcaster Broadcaster,
	pfLogger *logging.PassForgeLogger,
	pfMetrics *metrics.PassForgeMetrics,
	defaultLength int,
) *PasswordService {
	return &PasswordService{
		generator:     gen,
		scorer:        scorer,
		recorder:      recorder,
		broadcaster:   broadcaster,
		validator:     validation.NewGenerateValidator(gen.MinLength(), gen.MaxLength()),
		logger:        pfLogger,
		metrics:       pfMetrics,
		defaultLength: defaultLength,
	}
}

// Generate генерирует пароль по запросу.
// Нулевая длина в запросе заменяется длиной по умолчанию.
func (s *PasswordService) Generate(ctx context.Context, req api.GenerateRequest) (*domain.GeneratedPassword, error) {
	params := domain.GenerationParams{
		Length:           req.Length,
		IncludeLowercase: true,
		IncludeUppercase: req.IncludeUppercase,
		IncludeNumbers:   req.IncludeNumbers,
		IncludeSymbols:   req.IncludeSymbols,
	}
	if params.Length == 0 {
		params.Length = s.defaultLength
	}

	if err := s.validator.ValidateParams(params); err != nil {
		s.logger.LogGenerationRejected(ctx, params.Length, err)
		s.metrics.IncrementGenerateErrors("validation")
		return nil, err
	}

	start := time.Now()

	var password string
	err := s.metrics.TraceGeneration(ctx, params.Length, func(ctx context.Context) error {
		var genErr error
		password, genErr = s.generator.Generate(params)
		return genErr
	})
	if err != nil {
		if typed := errors.FromError(err); typed.Code == errors.ErrValidation {
			s.logger.LogGenerationRejected(ctx, params.Length, err)
			s.metrics.IncrementGenerateErrors("validation")
		} else {
			s.logger.LogGenerationError(ctx, err)
			s.metrics.IncrementGenerateErrors("internal")
		}
		return nil, err
	}

	label := s.scorer.Score(password)

	result := &domain.GeneratedPassword{
		Password:  password,
		Strength:  label,
		Length:    params.Length,
		Timestamp: time.Now(),
	}

	s.recorder.Record(label)

	duration := time.Since(start)
	s.metrics.RecordGeneration(string(label), duration)
	s.logger.LogGenerated(ctx, string(label), params.Length, duration)

	if s.broadcaster != nil {
		response := api.GenerateResponse{
			Password:  result.Password,
			Strength:  string(result.Strength),
			Length:    result.Length,
			Timestamp: result.Timestamp.Unix(),
		}
		if err := s.broadcaster.Broadcast(api.WSServerMessage{
			Type: api.WSTypePasswordGenerated,
			Data: response,
		}); err != nil {
			// Сбой рассылки не отменяет успешную генерацию
			s.logger.GetBaseLogger().Warn("Failed to broadcast generated password")
		}
	}

	return result, nil
}

// Analyze оценивает стойкость существующего пароля.
// Пароль длиннее 100 символов отклоняется.
func (s *PasswordService) Analyze(ctx context.Context, password string) (domain.StrengthLabel, error) {
	if err := s.validator.ValidateAnalyzePassword(password); err != nil {
		return "", err
	}

	label := s.scorer.Score(password)

	s.metrics.RecordStrengthAnalysis(string(label))
	s.logger.LogStrengthAnalyzed(ctx, utf8.RuneCountInString(password), string(label))

	return label, nil
}

// Snapshot возвращает агрегированную статистику генерации
func (s *PasswordService) Snapshot() *api.AnalyticsResponse {
	return s.recorder.Snapshot()
}

// ProcessGenerate обрабатывает websocket действие generate.
// Отсутствующие флаги считаются включенными, как и в HTTP запросе по умолчанию.
func (s *PasswordService) ProcessGenerate(ctx context.Context, msg api.WSClientMessage) error {
	req := api.GenerateRequest{
		Length:           msg.Length,
		IncludeSymbols:   boolOrDefault(msg.Symbols, true),
		IncludeNumbers:   boolOrDefault(msg.Numbers, true),
		IncludeUppercase: boolOrDefault(msg.Uppercase, true),
	}

	_, err := s.Generate(ctx, req)
	return err
}

// ProcessAnalyze обрабатывает websocket действие analyze
func (s *PasswordService) ProcessAnalyze(ctx context.Context, password string) (*api.WSServerMessage, error) {
	label, err := s.Analyze(ctx, password)
	if err != nil {
		return nil, err
	}

	return &api.WSServerMessage{
		Type: api.WSTypeStrengthAnalyzed,
		Data: map[string]string{"strength": string(label)},
	}, nil
}

// boolOrDefault возвращает значение флага или значение по умолчанию
func boolOrDefault(value *bool, def bool) bool {
	if value == nil {
		return def
	}
	return *value
}
