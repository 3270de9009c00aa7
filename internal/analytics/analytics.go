package analytics

import (
	"time"

	"PassForgePlatform/internal/api"
	"PassForgePlatform/internal/cache"
	"PassForgePlatform/internal/domain"
)

// Ключи счетчиков и снимка аналитики в кеше
const (
	totalGeneratedKey = "analytics:total_generated"
	strengthKeyPrefix = "analytics:strength:"
	snapshotKey       = "analytics_current"
)

// strengthLabels порядок меток в распределении стойкости
var strengthLabels = []domain.StrengthLabel{
	domain.StrengthWeak,
	domain.StrengthMedium,
	domain.StrengthStrong,
	domain.StrengthUltra,
}

// Recorder накапливает статистику генерации поверх кеша.
// Счетчики бессрочные, собранный снимок кешируется на snapshotTTL.
type Recorder struct {
	cache       *cache.Cache
	snapshotTTL time.Duration
}

// NewRecorder создает новый Recorder
func NewRecorder(c *cache.Cache, snapshotTTL time.Duration) *Recorder {
	return &Recorder{
		cache:       c,
		snapshotTTL: snapshotTTL,
	}
}

// Record учитывает одну успешную генерацию с указанной меткой стойкости
func (r *Recorder) Record(label domain.StrengthLabel) {
	r.cache.Increment(totalGeneratedKey, 1)
	r.cache.Increment(strengthKeyPrefix+string(label), 1)
}

// Snapshot возвращает агрегированную статистику.
// Собранный снимок кешируется и отдается до истечения срока его жизни.
func (r *Recorder) Snapshot() *api.AnalyticsResponse {
	if cached, ok := r.cache.Get(snapshotKey); ok {
		if snapshot, isSnapshot := cached.(*api.AnalyticsResponse); isSnapshot {
			return snapshot
		}
	}

	snapshot := r.assemble()
	r.cache.Set(snapshotKey, snapshot, r.snapshotTTL)
	return snapshot
}

// TotalGenerated возвращает общее количество сгенерированных паролей
func (r *Recorder) TotalGenerated() int64 {
	return r.cache.GetCounter(totalGeneratedKey)
}

// assemble собирает снимок из текущих значений счетчиков
func (r *Recorder) assemble() *api.AnalyticsResponse {
	distribution := make(map[string]int64, len(strengthLabels))
	for _, label := range strengthLabels {
		distribution[string(label)] = r.cache.GetCounter(strengthKeyPrefix + string(label))
	}

	return &api.AnalyticsResponse{
		TotalGenerated:       r.cache.GetCounter(totalGeneratedKey),
		StrengthDistribution: distribution,
	}
}
