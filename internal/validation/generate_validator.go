package validation

import (
	"PassForgePlatform/internal/domain"
	"PassForgePlatform/pkg/errors"
	"PassForgePlatform/pkg/validation"
)

// maxAnalyzeLength предел длины пароля для анализа стойкости
const maxAnalyzeLength = 100

// GenerateValidator валидирует запросы генератора на границе сервиса
type GenerateValidator struct {
	base      *validation.Validator
	minLength int
	maxLength int
}

// NewGenerateValidator создает новый GenerateValidator с границами длины
func NewGenerateValidator(minLength, maxLength int) *GenerateValidator {
	return &GenerateValidator{
		base:      validation.NewValidator(),
		minLength: minLength,
		maxLength: maxLength,
	}
}

// ValidateParams проверяет параметры генерации
func (v *GenerateValidator) ValidateParams(params domain.GenerationParams) error {
	if err := v.base.ValidateIntRange(params.Length, v.minLength, v.maxLength, "length"); err != nil {
		return errors.New(errors.ErrValidation, err.Error())
	}

	if err := v.base.ValidateAnyEnabled(map[string]bool{
		"lowercase": params.IncludeLowercase,
		"uppercase": params.IncludeUppercase,
		"numbers":   params.IncludeNumbers,
		"symbols":   params.IncludeSymbols,
	}, "at least one character class must be enabled"); err != nil {
		return errors.New(errors.ErrValidation, err.Error())
	}

	return nil
}

// ValidateAnalyzePassword проверяет пароль для анализа стойкости.
// Предел длины считается в символах, не в байтах.
func (v *GenerateValidator) ValidateAnalyzePassword(password string) error {
	if err := v.base.ValidateRuneCount(password, "password", 0, maxAnalyzeLength); err != nil {
		return errors.New(errors.ErrValidation, err.Error())
	}
	return nil
}
