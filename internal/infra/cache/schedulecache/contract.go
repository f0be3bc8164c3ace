package schedulecache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
)

// RedisClient подмножество *redis.Client, используемое кэшем
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// WorkingHoursStore источник рабочих часов (репозиторий)
type WorkingHoursStore interface {
	GetWorkingHours(ctx context.Context, employeeID int64) (*domain.WorkingHours, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
