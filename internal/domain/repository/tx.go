package repository

import "context"

// Repositories agrupa los repositorios atados a una misma transacción.
type Repositories struct {
	Products       ProductRepository
	StockMovements StockMovementRepository
	CashMovements  CashMovementRepository
	CashSessions   CashSessionRepository
	Sales          SaleRepository
}

// TxRunner ejecuta fn dentro de una transacción de BD con repositorios atados a ella.
// Si fn devuelve error (o el contexto se cancela) se hace Rollback; si no, Commit.
type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}
