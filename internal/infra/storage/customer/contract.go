package customer

import "github.com/emer5om/horaly-pro-sub000/pkg/dbmetrics"

// Переиспользуем интерфейс из dbmetrics: подходит и *dbmetrics.DB, и транзакция
type DBExecutor = dbmetrics.DBExecutor
