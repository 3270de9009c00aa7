package generator

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"PassForgePlatform/internal/domain"
	"PassForgePlatform/pkg/errors"
)

// Наборы символов для классов алфавита
const (
	LowercaseChars = "abcdefghijklmnopqrstuvwxyz"
	UppercaseChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	NumberChars    = "0123456789"
	SymbolChars    = "!@#$%^&*()_+-=[]{}|;:,.<>?"
)

// Generator генерирует пароли из объединения включенных классов символов.
// Выборка равномерная по пулу, без гарантии представленности каждого класса.
type Generator struct {
	minLength int
	maxLength int
}

// NewGenerator создает новый Generator с границами длины пароля
func NewGenerator(minLength, maxLength int) *Generator {
	return &Generator{
		minLength: minLength,
		maxLength: maxLength,
	}
}

// Generate генерирует пароль по заданным параметрам.
// Каждый символ выбирается независимо и равномерно из пула через crypto/rand.
func (g *Generator) Generate(params domain.GenerationParams) (string, error) {
	if params.Length < g.minLength || params.Length > g.maxLength {
		return "", errors.New(errors.ErrValidation,
			fmt.Sprintf("length must be between %d and %d, got: %d", g.minLength, g.maxLength, params.Length))
	}

	pool := buildPool(params)
	if pool == "" {
		return "", errors.New(errors.ErrValidation, "at least one character class must be enabled")
	}

	var sb strings.Builder
	sb.Grow(params.Length)

	poolSize := big.NewInt(int64(len(pool)))
	for i := 0; i < params.Length; i++ {
		idx, err := rand.Int(rand.Reader, poolSize)
		if err != nil {
			return "", errors.Wrap(err, errors.ErrInternal, "random source failure")
		}
		sb.WriteByte(pool[idx.Int64()])
	}

	return sb.String(), nil
}

// MinLength возвращает минимальную допустимую длину пароля
func (g *Generator) MinLength() int {
	return g.minLength
}

// MaxLength возвращает максимальную допустимую длину пароля
func (g *Generator) MaxLength() int {
	return g.maxLength
}

// buildPool собирает пул символов из включенных классов
func buildPool(params domain.GenerationParams) string {
	var pool string
	if params.IncludeLowercase {
		pool += LowercaseChars
	}
	if params.IncludeUppercase {
		pool += UppercaseChars
	}
	if params.IncludeNumbers {
		pool += NumberChars
	}
	if params.IncludeSymbols {
		pool += SymbolChars
	}
	return pool
}
