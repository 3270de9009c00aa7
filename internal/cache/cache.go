package cache

import (
	"sync"
	"time"
)

// entry хранит значение вместе со сроком годности.
// Нулевой expiresAt означает бессрочную запись.
type entry struct {
	value     interface{}
	expiresAt time.Time
}

// Cache потокобезопасный кеш в памяти с ленивым истечением записей.
// Экземпляр создается в точке сборки и внедряется в компоненты явно.
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

// NewCache создает новый пустой Cache
func NewCache() *Cache {
	return &Cache{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Set сохраняет значение под ключом с заданным временем жизни.
// ttl <= 0 означает запись без срока годности.
func (c *Cache) Set(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := entry{value: value}
	if ttl > 0 {
		e.expiresAt = c.now().Add(ttl)
	}
	c.entries[key] = e
}

// Get возвращает значение по ключу.
// Просроченная запись удаляется при чтении и считается отсутствующей.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}

	if !e.expiresAt.IsZero() && c.now().After(e.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}

	return e.value, true
}

// Increment атомарно увеличивает счетчик под ключом и возвращает новое значение.
// Отсутствующий ключ считается нулем. Счетчики не имеют срока годности.
func (c *Cache) Increment(key string, delta int64) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var current int64
	if e, ok := c.entries[key]; ok {
		if v, isInt := e.value.(int64); isInt {
			current = v
		}
	}

	current += delta
	c.entries[key] = entry{value: current}
	return current
}

// GetCounter возвращает значение счетчика, ноль если ключ отсутствует
func (c *Cache) GetCounter(key string) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		if v, isInt := e.value.(int64); isInt {
			return v
		}
	}
	return 0
}

// Delete удаляет запись по ключу
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
}

// Len возвращает количество записей, включая просроченные, но еще не вычищенные
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}
