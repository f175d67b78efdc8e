package bidtable

import (
	"flashauction/packages/infrastructure/DB/postgres/executor"
	"flashauction/packages/infrastructure/DB/postgres/transaction"
)

// Implements bid.Store
type Manager struct {
	db   transaction.Beginner
	exec *executor.Executor
}

func New(db transaction.Beginner, exec *executor.Executor) *Manager {
	return &Manager{db, exec}
}
