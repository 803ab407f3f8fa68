package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ItemFacturaRequest struct {
	Concepto       string          `json:"concepto"        validate:"required,min=1"`
	Descripcion    *string         `json:"descripcion"`
	Cantidad       int             `json:"cantidad"        validate:"required,min=1"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario" validate:"required,gt=0"`
}

type RecetaFacturaRequest struct {
	RecetaID   string `json:"receta_id"   validate:"required,uuid"`
	PacienteID string `json:"paciente_id" validate:"required,uuid"`
}

type ConfigDescuentoRequest struct {
	Aplicar bool            `json:"aplicar"`
	Tipo    string          `json:"tipo"  validate:"omitempty,oneof=porcentaje fijo"`
	Valor   decimal.Decimal `json:"valor" validate:"min=0"`
	Notas   *string         `json:"notas"`
}

type ConfigIVARequest struct {
	Aplicar    bool            `json:"aplicar"`
	Porcentaje decimal.Decimal `json:"porcentaje" validate:"min=0,max=100"`
}

// CrearFacturaRequest is the full draft snapshot submitted at creation:
// items, pacientes, recetas opcionales and the discount/tax config.
type CrearFacturaRequest struct {
	Fecha       string                 `json:"fecha"        validate:"required,datetime=2006-01-02"`
	Notas       *string                `json:"notas"`
	PacienteIDs []string               `json:"paciente_ids" validate:"required,min=1,dive,uuid"`
	Recetas     []RecetaFacturaRequest `json:"recetas"      validate:"omitempty,dive"`
	Items       []ItemFacturaRequest   `json:"items"        validate:"required,min=1,dive"`
	Descuento   ConfigDescuentoRequest `json:"descuento"`
	IVA         ConfigIVARequest       `json:"iva"`
}

// EditarFacturaRequest replaces the whole snapshot. Version carries the
// optimistic-concurrency token read with the factura being edited.
type EditarFacturaRequest struct {
	Fecha       string                 `json:"fecha"        validate:"required,datetime=2006-01-02"`
	Notas       *string                `json:"notas"`
	PacienteIDs []string               `json:"paciente_ids" validate:"required,min=1,dive,uuid"`
	Recetas     []RecetaFacturaRequest `json:"recetas"      validate:"omitempty,dive"`
	Items       []ItemFacturaRequest   `json:"items"        validate:"required,min=1,dive"`
	Descuento   ConfigDescuentoRequest `json:"descuento"`
	IVA         ConfigIVARequest       `json:"iva"`
	Version     int                    `json:"version"      validate:"required,min=1"`
}

type EnviarFacturaRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type CambiarEstadoRequest struct {
	Estado string `json:"estado" validate:"required,oneof=pendiente pagado cancelado"`
}

// FacturaFilter is bound from the query string of GET /v1/facturas.
type FacturaFilter struct {
	Estado string `form:"estado"` // pendiente | pagado | cancelado | all
	Desde  string `form:"desde"`  // YYYY-MM-DD
	Hasta  string `form:"hasta"`
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemFacturaResponse struct {
	ID             string          `json:"id"`
	Concepto       string          `json:"concepto"`
	Descripcion    *string         `json:"descripcion"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type PacienteFacturaResponse struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
}

type TotalesResponse struct {
	Subtotal      decimal.Decimal `json:"subtotal"`
	Descuento     decimal.Decimal `json:"descuento"`
	BaseImponible decimal.Decimal `json:"base_imponible"`
	IVA           decimal.Decimal `json:"iva"`
	Total         decimal.Decimal `json:"total"`
}

type FacturaResponse struct {
	ID        string          `json:"id"`
	Folio     string          `json:"folio"`
	Fecha     string          `json:"fecha"`
	Estado    string          `json:"estado"`
	Notas     *string         `json:"notas"`
	Totales   TotalesResponse `json:"totales"`
	Saldo     decimal.Decimal `json:"saldo"`
	Version   int             `json:"version"`
	CreatedAt string          `json:"created_at"`
}

type FacturaListItem struct {
	ID        string          `json:"id"`
	Folio     string          `json:"folio"`
	Fecha     string          `json:"fecha"`
	Estado    string          `json:"estado"`
	Total     decimal.Decimal `json:"total"`
	Saldo     decimal.Decimal `json:"saldo"`
	Pacientes []string        `json:"pacientes"`
}

type FacturaListResponse struct {
	Data  []FacturaListItem `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

// FacturaDetalleResponse is the assembled read model: header joined with
// pacientes, items and the payment ledger. This is also the PDF export input.
type FacturaDetalleResponse struct {
	FacturaResponse
	Pacientes []PacienteFacturaResponse `json:"pacientes"`
	Recetas   []RecetaFacturaResponse   `json:"recetas"`
	Items     []ItemFacturaResponse     `json:"items"`
	Pagos     []PagoResponse            `json:"pagos"`
	// TotalFormateado follows the es-MX currency contract.
	TotalFormateado string `json:"total_formateado"`
	SaldoFormateado string `json:"saldo_formateado"`
}

type RecetaFacturaResponse struct {
	RecetaID   string `json:"receta_id"`
	PacienteID string `json:"paciente_id"`
	Fecha      string `json:"fecha"`
}
