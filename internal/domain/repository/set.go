package repository

// Set agrupa los repositorios atados a una misma conexión o transacción.
type Set struct {
	Catalog    CatalogRepository
	Balances   StockBalanceRepository
	Lots       LotRepository
	Movements  MovementRepository
	Transfers  TransferRepository
	Damages    DamageRepository
	Valuations ValuationRepository
	Alerts     AlertRepository
}
