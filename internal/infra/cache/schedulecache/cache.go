package schedulecache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
	"github.com/m04kA/SMC-SalonScheduler/internal/infra/storage/schedule"
)

const keyPrefix = "salon:working_hours:"

// Cache read-through кэш рабочих часов в Redis
// Используется только расчётом доступности; проверка при записи читает репозиторий напрямую.
// Недоступность Redis не ломает чтение: запрос уходит в репозиторий
type Cache struct {
	redis  RedisClient
	store  WorkingHoursStore
	ttl    time.Duration
	logger Logger
}

// New создает кэш поверх репозитория
func New(client RedisClient, store WorkingHoursStore, ttl time.Duration, logger Logger) *Cache {
	return &Cache{
		redis:  client,
		store:  store,
		ttl:    ttl,
		logger: logger,
	}
}

// GetWorkingHours возвращает шаблон из кэша, при промахе читает репозиторий и кладёт результат в кэш
// Для ненастроенного шаблона возвращает schedule.ErrWorkingHoursNotConfigured, как и репозиторий
func (c *Cache) GetWorkingHours(ctx context.Context, employeeID int64) (*domain.WorkingHours, error) {
	key := cacheKey(employeeID)

	raw, err := c.redis.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		hours, decodeErr := decode(raw, employeeID)
		if decodeErr == nil {
			if hours == nil {
				return nil, schedule.ErrWorkingHoursNotConfigured
			}
			return hours, nil
		}
		c.logger.Warn("ScheduleCache: corrupted entry key=%s: %v", key, decodeErr)
	case errors.Is(err, redis.Nil):
		// Промах
	default:
		c.logger.Warn("ScheduleCache: redis get failed key=%s: %v", key, err)
	}

	hours, err := c.store.GetWorkingHours(ctx, employeeID)
	if err != nil && !errors.Is(err, schedule.ErrWorkingHoursNotConfigured) {
		return nil, err
	}

	c.put(ctx, key, hours)

	if hours == nil {
		return nil, schedule.ErrWorkingHoursNotConfigured
	}
	return hours, nil
}

// Invalidate удаляет шаблон сотрудника из кэша после изменения
func (c *Cache) Invalidate(ctx context.Context, employeeID int64) error {
	if err := c.redis.Del(ctx, cacheKey(employeeID)).Err(); err != nil {
		return fmt.Errorf("schedulecache: invalidate employee=%d: %w", employeeID, err)
	}
	return nil
}

func (c *Cache) put(ctx context.Context, key string, hours *domain.WorkingHours) {
	payload, err := json.Marshal(toEntry(hours))
	if err != nil {
		c.logger.Error("ScheduleCache: marshal key=%s: %v", key, err)
		return
	}
	if err := c.redis.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("ScheduleCache: redis set failed key=%s: %v", key, err)
	}
}

// decode возвращает nil без ошибки для закэшированного "не настроен"
func decode(raw []byte, employeeID int64) (*domain.WorkingHours, error) {
	var e entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, err
	}
	if !e.Configured {
		return nil, nil
	}
	return e.toDomain(employeeID)
}

func cacheKey(employeeID int64) string {
	return fmt.Sprintf("%s%d", keyPrefix, employeeID)
}
