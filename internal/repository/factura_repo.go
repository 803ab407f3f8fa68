package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"opticaomega/internal/dto"
	"opticaomega/internal/model"
)

// ErrVersionObsoleta signals a lost compare-and-swap on the factura header:
// another editor replaced the invoice since this draft was loaded.
var ErrVersionObsoleta = errors.New("la factura fue modificada por otro usuario")

type FacturaRepository interface {
	Create(ctx context.Context, tx *gorm.DB, f *model.Factura) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Factura, error)
	FindHeader(ctx context.Context, id uuid.UUID) (*model.Factura, error)
	List(ctx context.Context, filter dto.FacturaFilter) ([]model.Factura, int64, error)
	NextFolio(ctx context.Context, tx *gorm.DB) (string, error)

	// UpdateHeaderCAS persists header fields only when the stored version
	// still equals expectedVersion, bumping it by one. ErrVersionObsoleta
	// otherwise.
	UpdateHeaderCAS(ctx context.Context, tx *gorm.DB, f *model.Factura, expectedVersion int) error

	// Replace* implement delete-then-reinsert of one owned child collection.
	ReplacePacientes(ctx context.Context, tx *gorm.DB, facturaID uuid.UUID, links []model.FacturaPaciente) error
	ReplaceRecetas(ctx context.Context, tx *gorm.DB, facturaID uuid.UUID, links []model.FacturaReceta) error
	ReplaceItems(ctx context.Context, tx *gorm.DB, facturaID uuid.UUID, items []model.FacturaItem) error

	ListPacientes(ctx context.Context, facturaID uuid.UUID) ([]model.FacturaPaciente, error)
	ListRecetas(ctx context.Context, facturaID uuid.UUID) ([]model.FacturaReceta, error)
	ListItems(ctx context.Context, facturaID uuid.UUID) ([]model.FacturaItem, error)

	UpdateEstado(ctx context.Context, id uuid.UUID, estado string) error
	UpdateSaldo(ctx context.Context, tx *gorm.DB, id uuid.UUID, saldo decimal.Decimal) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error

	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type facturaRepo struct{ db *gorm.DB }

func NewFacturaRepository(db *gorm.DB) FacturaRepository { return &facturaRepo{db: db} }

func (r *facturaRepo) DB() *gorm.DB { return r.db }

func (r *facturaRepo) Create(ctx context.Context, tx *gorm.DB, f *model.Factura) error {
	return tx.WithContext(ctx).Create(f).Error
}

func (r *facturaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Factura, error) {
	var f model.Factura
	err := r.db.WithContext(ctx).
		Preload("Pacientes.Paciente").
		Preload("Recetas").
		Preload("Items").
		Preload("Pagos").
		First(&f, "id = ?", id).Error
	return &f, err
}

func (r *facturaRepo) FindHeader(ctx context.Context, id uuid.UUID) (*model.Factura, error) {
	var f model.Factura
	err := r.db.WithContext(ctx).First(&f, "id = ?", id).Error
	return &f, err
}

func (r *facturaRepo) List(ctx context.Context, filter dto.FacturaFilter) ([]model.Factura, int64, error) {
	var facturas []model.Factura
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.Factura{})
	if filter.Estado != "" && filter.Estado != "all" {
		q = q.Where("estado = ?", filter.Estado)
	}
	if filter.Desde != "" {
		q = q.Where("fecha >= ?", filter.Desde)
	}
	if filter.Hasta != "" {
		q = q.Where("fecha <= ?", filter.Hasta)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Pacientes.Paciente").
		Order("fecha DESC, folio DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&facturas).Error
	return facturas, total, err
}

// NextFolio draws from a PostgreSQL sequence so concurrent creates never
// collide, and renders the display code.
func (r *facturaRepo) NextFolio(ctx context.Context, tx *gorm.DB) (string, error) {
	var num int64
	if err := tx.WithContext(ctx).Raw("SELECT nextval('facturas_folio_seq')").Scan(&num).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("FAC-%06d", num), nil
}

func (r *facturaRepo) UpdateHeaderCAS(ctx context.Context, tx *gorm.DB, f *model.Factura, expectedVersion int) error {
	res := tx.WithContext(ctx).Model(&model.Factura{}).
		Where("id = ? AND version = ?", f.ID, expectedVersion).
		Updates(map[string]interface{}{
			"fecha":             f.Fecha,
			"notas":             f.Notas,
			"subtotal":          f.Subtotal,
			"descuento":         f.Descuento,
			"iva":               f.IVA,
			"total":             f.Total,
			"saldo":             f.Saldo,
			"aplicar_iva":       f.AplicarIVA,
			"porcentaje_iva":    f.PorcentajeIVA,
			"aplicar_descuento": f.AplicarDescuento,
			"tipo_descuento":    f.TipoDescuento,
			"valor_descuento":   f.ValorDescuento,
			"notas_descuento":   f.NotasDescuento,
			"version":           expectedVersion + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrVersionObsoleta
	}
	f.Version = expectedVersion + 1
	return nil
}

func (r *facturaRepo) ReplacePacientes(ctx context.Context, tx *gorm.DB, facturaID uuid.UUID, links []model.FacturaPaciente) error {
	if err := tx.WithContext(ctx).Where("factura_id = ?", facturaID).Delete(&model.FacturaPaciente{}).Error; err != nil {
		return err
	}
	if len(links) == 0 {
		return nil
	}
	return tx.WithContext(ctx).Create(&links).Error
}

func (r *facturaRepo) ReplaceRecetas(ctx context.Context, tx *gorm.DB, facturaID uuid.UUID, links []model.FacturaReceta) error {
	if err := tx.WithContext(ctx).Where("factura_id = ?", facturaID).Delete(&model.FacturaReceta{}).Error; err != nil {
		return err
	}
	if len(links) == 0 {
		return nil
	}
	return tx.WithContext(ctx).Create(&links).Error
}

func (r *facturaRepo) ReplaceItems(ctx context.Context, tx *gorm.DB, facturaID uuid.UUID, items []model.FacturaItem) error {
	if err := tx.WithContext(ctx).Where("factura_id = ?", facturaID).Delete(&model.FacturaItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	return tx.WithContext(ctx).Create(&items).Error
}

func (r *facturaRepo) ListPacientes(ctx context.Context, facturaID uuid.UUID) ([]model.FacturaPaciente, error) {
	var links []model.FacturaPaciente
	err := r.db.WithContext(ctx).Preload("Paciente").
		Where("factura_id = ?", facturaID).Find(&links).Error
	return links, err
}

func (r *facturaRepo) ListRecetas(ctx context.Context, facturaID uuid.UUID) ([]model.FacturaReceta, error) {
	var links []model.FacturaReceta
	err := r.db.WithContext(ctx).Preload("Receta").
		Where("factura_id = ?", facturaID).Find(&links).Error
	return links, err
}

func (r *facturaRepo) ListItems(ctx context.Context, facturaID uuid.UUID) ([]model.FacturaItem, error) {
	var items []model.FacturaItem
	err := r.db.WithContext(ctx).
		Where("factura_id = ?", facturaID).
		Order("created_at ASC").Find(&items).Error
	return items, err
}

func (r *facturaRepo) UpdateEstado(ctx context.Context, id uuid.UUID, estado string) error {
	return r.db.WithContext(ctx).Model(&model.Factura{}).
		Where("id = ?", id).Update("estado", estado).Error
}

func (r *facturaRepo) UpdateSaldo(ctx context.Context, tx *gorm.DB, id uuid.UUID, saldo decimal.Decimal) error {
	return tx.WithContext(ctx).Model(&model.Factura{}).
		Where("id = ?", id).Update("saldo", saldo).Error
}

// Delete removes the factura and its owned child rows, children first.
func (r *facturaRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	for _, child := range []interface{}{
		&model.FacturaPago{}, &model.FacturaItem{},
		&model.FacturaReceta{}, &model.FacturaPaciente{},
	} {
		if err := tx.WithContext(ctx).Where("factura_id = ?", id).Delete(child).Error; err != nil {
			return err
		}
	}
	return tx.WithContext(ctx).Delete(&model.Factura{}, "id = ?", id).Error
}
