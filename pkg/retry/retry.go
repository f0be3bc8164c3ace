package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// Policy параметры повторов
type Policy struct {
	Attempts        uint
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultPolicy используется, если в конфигурации ничего не задано
var DefaultPolicy = Policy{
	Attempts:        3,
	InitialInterval: 50 * time.Millisecond,
	MaxInterval:     500 * time.Millisecond,
}

// Do выполняет op с экспоненциальной задержкой между попытками
// Ошибки, для которых isPermanent возвращает true, не повторяются
// Использовать только для операций чтения
func Do[T any](ctx context.Context, policy Policy, isPermanent func(error) bool, op func() (T, error)) (T, error) {
	if policy.Attempts == 0 {
		policy.Attempts = 1
	}

	b := backoff.NewExponentialBackOff()
	if policy.InitialInterval > 0 {
		b.InitialInterval = policy.InitialInterval
	}
	if policy.MaxInterval > 0 {
		b.MaxInterval = policy.MaxInterval
	}

	return backoff.Retry(ctx, func() (T, error) {
		v, err := op()
		if err != nil && isPermanent != nil && isPermanent(err) {
			return v, backoff.Permanent(err)
		}
		return v, err
	}, backoff.WithBackOff(b), backoff.WithMaxTries(policy.Attempts))
}
