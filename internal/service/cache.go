// cache.go — LRU-кэш метаданных файлов с TTL.
// Обёртка над hashicorp/golang-lru/v2/expirable. Используется на пути
// выдачи содержимого; инвалидируется при смене видимости файла.
package service

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bigkaa/gofilehub/internal/domain/model"
)

// Prometheus-метрики кэша.
var (
	cacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fh_cache_hits_total",
		Help: "Общее количество попаданий в LRU-кэш метаданных файлов.",
	})
	cacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fh_cache_misses_total",
		Help: "Общее количество промахов LRU-кэша метаданных файлов.",
	})
)

// MetadataCache — LRU-кэш метаданных файлов с автоматическим TTL.
// Per-instance кэш: каждый экземпляр сервиса держит собственный.
type MetadataCache struct {
	cache *expirable.LRU[string, *model.File]
}

// NewMetadataCache создаёт LRU-кэш с указанным размером и TTL.
func NewMetadataCache(maxSize int, ttl time.Duration) *MetadataCache {
	cache := expirable.NewLRU[string, *model.File](maxSize, nil, ttl)
	return &MetadataCache{cache: cache}
}

// Get возвращает файл из кэша по fileID.
// Возвращает (запись, true) при hit или (nil, false) при miss.
func (c *MetadataCache) Get(fileID string) (*model.File, bool) {
	val, ok := c.cache.Get(fileID)
	if ok {
		cacheHitsTotal.Inc()
		return val, true
	}
	cacheMissesTotal.Inc()
	return nil, false
}

// Set добавляет или обновляет запись в кэше.
func (c *MetadataCache) Set(fileID string, f *model.File) {
	c.cache.Add(fileID, f)
}

// Delete удаляет запись из кэша (инвалидация при изменении видимости).
func (c *MetadataCache) Delete(fileID string) {
	c.cache.Remove(fileID)
}
