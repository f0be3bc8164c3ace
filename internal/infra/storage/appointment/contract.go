package appointment

import (
	"github.com/m04kA/SMC-SalonScheduler/pkg/dbmetrics"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
// Подходят и *dbmetrics.DB, и обёртка над *sql.DB без метрик
type DBExecutor = dbmetrics.DBExecutor
