// Пакет service — бизнес-логика Catalog Module.
// CacheService — LRU-кэш записей каталога с TTL.
// Обёртка над hashicorp/golang-lru/v2/expirable.
package service

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bigkaa/goartstore/catalog-module/internal/domain/model"
)

// Prometheus-метрики кэша.
var (
	cacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cm_cache_hits_total",
		Help: "Общее количество попаданий в LRU-кэш записей.",
	})
	cacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cm_cache_misses_total",
		Help: "Общее количество промахов LRU-кэша записей.",
	})
)

// CacheService — LRU-кэш записей с автоматическим TTL.
// Кэш локален для процесса. nil-значение — кэш отключён: Get всегда промах,
// SetIfCurrent и Delete ничего не делают.
//
// Каждое удаление увеличивает поколение кэша. Чтение, начатое до удаления,
// не может вернуть в кэш устаревшую запись (см. SetIfCurrent).
type CacheService struct {
	cache *expirable.LRU[string, model.Record]

	mu         sync.Mutex
	generation uint64
}

// NewCacheService создаёт LRU-кэш с указанным максимальным размером и TTL.
// maxSize <= 0 отключает кэш (возвращается nil).
func NewCacheService(maxSize int, ttl time.Duration) *CacheService {
	if maxSize <= 0 {
		return nil
	}
	cache := expirable.NewLRU[string, model.Record](maxSize, nil, ttl)
	return &CacheService{cache: cache}
}

// Get возвращает копию записи из кэша по id.
// Обновляет Prometheus-метрики hit/miss.
func (c *CacheService) Get(id string) (*model.Record, bool) {
	if c == nil {
		return nil, false
	}
	val, ok := c.cache.Get(id)
	if !ok {
		cacheMissesTotal.Inc()
		return nil, false
	}
	cacheHitsTotal.Inc()
	rec := val.Clone()
	return &rec, true
}

// Generation возвращает текущее поколение кэша.
func (c *CacheService) Generation() uint64 {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

// SetIfCurrent добавляет запись, только если с момента получения gen
// не было ни одного Delete.
func (c *CacheService) SetIfCurrent(rec *model.Record, gen uint64) bool {
	if c == nil || rec == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return false
	}
	c.cache.Add(rec.ID, rec.Clone())
	return true
}

// Delete удаляет запись из кэша и увеличивает поколение.
func (c *CacheService) Delete(id string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.cache.Remove(id)
}
