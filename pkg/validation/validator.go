package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Validator предоставляет общие функции валидации
type Validator struct{}

// NewValidator создает новый Validator
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateRequiredFields проверяет обязательные поля в структуре
func (v *Validator) ValidateRequiredFields(req interface{}, requiredFields map[string]string) error {
	switch r := req.(type) {
	case map[string]interface{}:
		for field, fieldName := range requiredFields {
			if value, exists := r[field]; !exists || value == nil || value == "" {
				return fmt.Errorf("%s is required", fieldName)
			}
		}
	default:
		// Для конкретных типов можно добавить type assertion
		return fmt.Errorf("unsupported request type for validation")
	}

	return nil
}

// ValidateIntRange проверяет, что значение попадает в диапазон [min, max]
func (v *Validator) ValidateIntRange(value int, min, max int, fieldName string) error {
	if value < min {
		return fmt.Errorf("%s must be at least %d, got: %d", fieldName, min, value)
	}
	if value > max {
		return fmt.Errorf("%s must not exceed %d, got: %d", fieldName, max, value)
	}
	return nil
}

// ValidateStringLength проверяет длину строки
func (v *Validator) ValidateStringLength(value, fieldName string, min, max int) error {
	length := len(value)
	if length < min {
		return fmt.Errorf("%s must be at least %d characters, got: %d", fieldName, min, length)
	}
	if length > max {
		return fmt.Errorf("%s must not exceed %d characters, got: %d", fieldName, max, length)
	}
	return nil
}

// ValidateRuneCount проверяет длину строки в символах, не в байтах
func (v *Validator) ValidateRuneCount(value, fieldName string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if length < min {
		return fmt.Errorf("%s must be at least %d characters, got: %d", fieldName, min, length)
	}
	if length > max {
		return fmt.Errorf("%s must not exceed %d characters, got: %d", fieldName, max, length)
	}
	return nil
}

// ValidateEnum проверяет значение на соответствие enum
func (v *Validator) ValidateEnum(value string, allowedValues []string, fieldName string) error {
	if value == "" {
		return fmt.Errorf("%s is required", fieldName)
	}

	for _, allowed := range allowedValues {
		if value == allowed {
			return nil
		}
	}

	return fmt.Errorf("invalid %s: %s, allowed values: %v", fieldName, value, allowedValues)
}

// ValidateNoWhitespace проверяет, что строка не содержит пробельных символов
func (v *Validator) ValidateNoWhitespace(value, fieldName string) error {
	if strings.ContainsAny(value, " \t\n\r") {
		return fmt.Errorf("%s contains invalid whitespace characters", fieldName)
	}
	return nil
}

// ValidateAnyEnabled проверяет, что хотя бы один из флагов включен
func (v *Validator) ValidateAnyEnabled(flags map[string]bool, message string) error {
	for _, enabled := range flags {
		if enabled {
			return nil
		}
	}
	return fmt.Errorf("%s", message)
}
