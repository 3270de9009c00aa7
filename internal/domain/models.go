package domain

import "time"

// StrengthLabel представляет уровень стойкости пароля
type StrengthLabel string

// Закрытый набор уровней стойкости
const (
	StrengthWeak   StrengthLabel = "weak"
	StrengthMedium StrengthLabel = "medium"
	StrengthStrong StrengthLabel = "strong"
	StrengthUltra  StrengthLabel = "ultra"
)

// GenerationParams представляет параметры генерации пароля.
// Строчные буквы включены всегда, остальные классы управляются флагами.
type GenerationParams struct {
	Length           int
	IncludeLowercase bool
	IncludeUppercase bool
	IncludeNumbers   bool
	IncludeSymbols   bool
}

// GeneratedPassword представляет сгенерированный пароль.
// Структура неизменяема после создания.
type GeneratedPassword struct {
	Password  string
	Strength  StrengthLabel
	Length    int
	Timestamp time.Time
}
