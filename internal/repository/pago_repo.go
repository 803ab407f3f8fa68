package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"opticaomega/internal/model"
)

// PagoRepository is the append-only payment ledger. There is deliberately no
// update or delete: corrections happen on paper, not in the ledger.
type PagoRepository interface {
	Create(ctx context.Context, tx *gorm.DB, p *model.FacturaPago) error
	ListByFactura(ctx context.Context, facturaID uuid.UUID) ([]model.FacturaPago, error)
	// SumByFactura computes Σ(monto) fresh from the table. Runs inside the
	// caller's transaction when one is given so the overpayment check and the
	// insert see the same ledger.
	SumByFactura(ctx context.Context, tx *gorm.DB, facturaID uuid.UUID) (decimal.Decimal, error)
}

type pagoRepo struct{ db *gorm.DB }

func NewPagoRepository(db *gorm.DB) PagoRepository { return &pagoRepo{db: db} }

func (r *pagoRepo) Create(ctx context.Context, tx *gorm.DB, p *model.FacturaPago) error {
	return tx.WithContext(ctx).Create(p).Error
}

func (r *pagoRepo) ListByFactura(ctx context.Context, facturaID uuid.UUID) ([]model.FacturaPago, error) {
	var pagos []model.FacturaPago
	err := r.db.WithContext(ctx).
		Where("factura_id = ?", facturaID).
		Order("fecha ASC, created_at ASC").
		Find(&pagos).Error
	return pagos, err
}

func (r *pagoRepo) SumByFactura(ctx context.Context, tx *gorm.DB, facturaID uuid.UUID) (decimal.Decimal, error) {
	db := tx
	if db == nil {
		db = r.db
	}
	var suma decimal.NullDecimal
	err := db.WithContext(ctx).Model(&model.FacturaPago{}).
		Select("SUM(monto)").
		Where("factura_id = ?", facturaID).
		Scan(&suma).Error
	if err != nil || !suma.Valid {
		return decimal.Zero, err
	}
	return suma.Decimal, nil
}
