package strength

import (
	"strings"
	"unicode/utf8"

	"PassForgePlatform/internal/domain"
	"PassForgePlatform/internal/generator"
)

// Scorer оценивает стойкость пароля по эвристике длины и разнообразия классов.
// Функция чистая: одинаковый вход всегда дает одинаковую метку.
type Scorer struct{}

// NewScorer создает новый Scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// Score вычисляет метку стойкости пароля.
// Баллы начисляются за длину >= 8, наличие каждого класса символов и длину >= 12.
func (s *Scorer) Score(password string) domain.StrengthLabel {
	score := 0

	// Длина считается в символах, не в байтах
	length := utf8.RuneCountInString(password)

	if length >= 8 {
		score++
	}
	if strings.ContainsAny(password, generator.LowercaseChars) {
		score++
	}
	if strings.ContainsAny(password, generator.UppercaseChars) {
		score++
	}
	if strings.ContainsAny(password, generator.NumberChars) {
		score++
	}
	if strings.ContainsAny(password, generator.SymbolChars) {
		score++
	}
	if length >= 12 {
		score++
	}

	switch {
	case score <= 2:
		return domain.StrengthWeak
	case score <= 3:
		return domain.StrengthMedium
	case score <= 4:
		return domain.StrengthStrong
	default:
		return domain.StrengthUltra
	}
}
