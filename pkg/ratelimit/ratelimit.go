package ratelimit

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// RateLimiter интерфейс для ограничения частоты запросов
type RateLimiter interface {
	// CheckRateLimit проверяет лимит для заданного ключа
	// Возвращает true, если лимит превышен
	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// MemoryRateLimiter реализация RateLimiter с хранением счетчиков в памяти процесса.
// Использует fixed window алгоритм: счетчик по ключу сбрасывается по истечении окна.
type MemoryRateLimiter struct {
	mu      sync.Mutex
	windows map[string]*window

	// now подменяется в тестах
	now func() time.Time
}

type window struct {
	count    int
	resetsAt time.Time
}

// NewMemoryRateLimiter создает новый экземпляр MemoryRateLimiter
func NewMemoryRateLimiter() *MemoryRateLimiter {
	return &MemoryRateLimiter{
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

// CheckRateLimit проверяет, не превышен ли лимит запросов для заданного ключа.
// Алгоритм:
// 1. Определение ключа (IP или user_id)
// 2. Если окно по ключу истекло, счетчик сбрасывается
// 3. Если счетчик >= лимит, возвращает true
// 4. Иначе увеличивает счетчик и возвращает false
func (r *MemoryRateLimiter) CheckRateLimit(ctx context.Context, key string, limit int, windowSize time.Duration) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()

	w, ok := r.windows[key]
	if !ok || now.After(w.resetsAt) {
		w = &window{resetsAt: now.Add(windowSize)}
		r.windows[key] = w
	}

	if w.count >= limit {
		return true, nil
	}

	w.count++
	return false, nil
}

// Middleware оборачивает обработчик проверкой лимита по IP клиента.
// При превышении лимита возвращает 429 с JSON-ошибкой.
func Middleware(limiter RateLimiter, limit int, windowSize time.Duration, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		exceeded, err := limiter.CheckRateLimit(r.Context(), clientKey(r), limit, windowSize)
		if err == nil && exceeded {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"error": map[string]string{
					"code":    "RATE_LIMITED",
					"message": "too many requests",
				},
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

// clientKey определяет ключ лимита по IP клиента.
// Учитывает заголовок X-Forwarded-For при работе за прокси.
func clientKey(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
