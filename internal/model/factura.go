package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Estados de una factura. El paso a "pagado" es siempre una acción explícita
// del usuario — nunca se dispara automáticamente al llegar el saldo a cero.
const (
	EstadoPendiente = "pendiente"
	EstadoPagado    = "pagado"
	EstadoCancelado = "cancelado"
)

// Tipos de descuento aplicables a una factura.
const (
	DescuentoPorcentaje = "porcentaje"
	DescuentoFijo       = "fijo"
)

// Factura is the aggregate root of the invoicing engine. Its four child
// collections (pacientes, recetas, items, pagos) are owned exclusively by the
// factura: they are deleted when the factura is deleted and fully replaced on
// every edit.
//
// Saldo is a cache of Total − Σ(pagos.monto). Any path that feeds a financial
// decision recomputes it from the pagos table instead of trusting this column.
type Factura struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Folio string    `gorm:"uniqueIndex;not null"`
	Fecha time.Time `gorm:"not null;index"`
	Notas *string

	Subtotal  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Descuento decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	IVA       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0;column:iva"`
	Total     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Saldo     decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Estado string `gorm:"type:varchar(20);not null;default:'pendiente'"`

	// Tax config
	AplicarIVA    bool            `gorm:"not null;default:false;column:aplicar_iva"`
	PorcentajeIVA decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0;column:porcentaje_iva"`

	// Discount config
	AplicarDescuento bool            `gorm:"not null;default:false"`
	TipoDescuento    string          `gorm:"type:varchar(20);not null;default:'porcentaje'"`
	ValorDescuento   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	NotasDescuento   *string

	// Version backs the compare-and-swap on edit: a Reemplazar with a stale
	// version is rejected with a conflict error instead of overwriting.
	Version int `gorm:"not null;default:1"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Pacientes []FacturaPaciente `gorm:"foreignKey:FacturaID"`
	Recetas   []FacturaReceta   `gorm:"foreignKey:FacturaID"`
	Items     []FacturaItem     `gorm:"foreignKey:FacturaID"`
	Pagos     []FacturaPago     `gorm:"foreignKey:FacturaID"`
}

func (Factura) TableName() string { return "facturas" }

// FacturaItem is one line of a factura. Subtotal is always recomputed from
// Cantidad × PrecioUnitario — the stored value is never trusted as input.
type FacturaItem struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FacturaID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Concepto       string    `gorm:"not null"`
	Descripcion    *string
	Cantidad       int             `gorm:"not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt      time.Time
}

func (FacturaItem) TableName() string { return "factura_items" }

// FacturaPaciente joins a factura with a billed paciente (many-to-many:
// an invoice may bill several patients, a patient appears on many invoices).
type FacturaPaciente struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FacturaID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_factura_paciente"`
	PacienteID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_factura_paciente"`
	CreatedAt  time.Time

	Paciente *Paciente `gorm:"foreignKey:PacienteID"`
}

func (FacturaPaciente) TableName() string { return "factura_pacientes" }

// FacturaReceta references a receta on a factura for traceability only —
// it never participates in totals.
type FacturaReceta struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FacturaID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_factura_receta"`
	RecetaID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_factura_receta"`
	PacienteID uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt  time.Time

	Receta *Receta `gorm:"foreignKey:RecetaID"`
}

func (FacturaReceta) TableName() string { return "factura_recetas" }

// Métodos de pago aceptados.
const (
	PagoEfectivo      = "efectivo"
	PagoTarjeta       = "tarjeta"
	PagoTransferencia = "transferencia"
)

// FacturaPago is one entry in the append-only payment ledger of a factura.
// Pagos are never edited or deleted through the API.
type FacturaPago struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FacturaID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Fecha      time.Time       `gorm:"not null"`
	Monto      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	MetodoPago string          `gorm:"type:varchar(20);not null"`
	Referencia *string
	Notas      *string
	CreatedAt  time.Time
}

func (FacturaPago) TableName() string { return "factura_pagos" }
