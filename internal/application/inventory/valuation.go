package inventory

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// driftTolerance diferencia mínima entre valor guardado y recalculado que se reporta como desvío.
var driftTolerance = decimal.New(1, -4)

// ValuationUseCase lectura y recálculo de la valorización de inventario.
type ValuationUseCase struct {
	ledger *Ledger
}

// NewValuationUseCase construye el caso de uso sobre el ledger.
func NewValuationUseCase(ledger *Ledger) *ValuationUseCase {
	return &ValuationUseCase{ledger: ledger}
}

// RecomputeReport resumen de un recálculo masivo.
type RecomputeReport struct {
	Pairs   int
	Rows    int
	Drifted int
}

func (uc *ValuationUseCase) resolveMethod(method entity.ValuationMethod) (entity.ValuationMethod, error) {
	if method == "" {
		return uc.ledger.cfg.DefaultValuation, nil
	}
	if !method.Valid() {
		return "", domain.NewValidationError("method", "desconocido: "+string(method))
	}
	return method, nil
}

// GetValuation lee caché -> fila guardada -> recálculo bajo demanda.
func (uc *ValuationUseCase) GetValuation(ctx context.Context, productID, locationID string, method entity.ValuationMethod) (*entity.StockValuation, error) {
	method, err := uc.resolveMethod(method)
	if err != nil {
		return nil, err
	}
	if err := uc.ledger.requirePair(ctx, productID, locationID); err != nil {
		return nil, err
	}
	key := entity.PairKey{ProductID: productID, LocationID: locationID}
	if v, err := uc.ledger.cache.Get(ctx, key, method); err != nil {
		uc.ledger.log.Warn().Err(err).Str("pair", key.String()).Msg("caché de valorización no disponible")
	} else if v != nil {
		return v, nil
	}
	v, err := uc.ledger.reader.Valuations.Get(ctx, key, method)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return uc.Recompute(ctx, productID, locationID, method)
	}
	uc.fill(ctx, v)
	return v, nil
}

// Recompute reconstruye la fila del par+método desde lotes (FIFO/LIFO/específica)
// o reproduciendo el ledger (promedio ponderado).
func (uc *ValuationUseCase) Recompute(ctx context.Context, productID, locationID string, method entity.ValuationMethod) (*entity.StockValuation, error) {
	method, err := uc.resolveMethod(method)
	if err != nil {
		return nil, err
	}
	key := entity.PairKey{ProductID: productID, LocationID: locationID}
	var out *entity.StockValuation
	err = uc.ledger.Run(ctx, func(ctx context.Context, tx *Tx) error {
		if _, err := tx.Product(ctx, productID); err != nil {
			return err
		}
		if err := tx.RequireLocation(ctx, locationID); err != nil {
			return err
		}
		if err := tx.LockPairs(ctx, key); err != nil {
			return err
		}
		v, err := tx.computeValuation(ctx, key, method)
		if err != nil {
			return err
		}
		if err := tx.repos.Valuations.Upsert(ctx, &v); err != nil {
			return err
		}
		out = &v
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.fill(ctx, out)
	return out, nil
}

// RecomputeAll recalcula todas las filas de todos los pares con balance y reporta desvíos.
func (uc *ValuationUseCase) RecomputeAll(ctx context.Context) (RecomputeReport, error) {
	var report RecomputeReport
	offset := 0
	for {
		page, err := uc.ledger.reader.Balances.List(ctx, maxPageSize, offset)
		if err != nil {
			return report, err
		}
		for _, b := range page {
			if err := ctx.Err(); err != nil {
				return report, err
			}
			report.Pairs++
			for _, m := range uc.ledger.cfg.ValuationMethods {
				before, err := uc.ledger.reader.Valuations.Get(ctx, b.Key(), m)
				if err != nil {
					return report, err
				}
				after, err := uc.Recompute(ctx, b.ProductID, b.LocationID, m)
				if err != nil {
					return report, err
				}
				report.Rows++
				if before != nil && before.CurrentValue.Sub(after.CurrentValue).Abs().GreaterThan(driftTolerance) {
					report.Drifted++
					uc.ledger.log.Warn().
						Str("pair", b.Key().String()).
						Str("method", string(m)).
						Str("stored", before.CurrentValue.String()).
						Str("recomputed", after.CurrentValue.String()).
						Msg("desvío de valorización corregido")
				}
			}
		}
		if len(page) < maxPageSize {
			break
		}
		offset += len(page)
	}
	uc.ledger.log.Info().Int("pairs", report.Pairs).Int("rows", report.Rows).Int("drifted", report.Drifted).Msg("revalorización completa")
	return report, nil
}

func (uc *ValuationUseCase) fill(ctx context.Context, v *entity.StockValuation) {
	if err := uc.ledger.cache.Set(ctx, v); err != nil {
		uc.ledger.log.Warn().Err(err).Msg("no se pudo guardar valorización en caché")
	}
}

// computeValuation calcula desde cero el valor del par para un método.
func (t *Tx) computeValuation(ctx context.Context, key entity.PairKey, method entity.ValuationMethod) (entity.StockValuation, error) {
	if method.LotBased() {
		bal, err := t.repos.Balances.Get(ctx, key)
		if err != nil {
			return entity.StockValuation{}, err
		}
		lots, err := t.repos.Lots.ListByPair(ctx, key)
		if err != nil {
			return entity.StockValuation{}, err
		}
		return inventory.LotBasedValuation(key, method, lots, bal.CurrentStock, t.now), nil
	}
	movs, err := t.repos.Movements.ListByPair(ctx, key)
	if err != nil {
		return entity.StockValuation{}, err
	}
	return inventory.ReplayWeightedAverage(key, movs, t.now), nil
}
