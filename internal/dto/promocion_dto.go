package dto

import "github.com/shopspring/decimal"

type CrearPromocionRequest struct {
	Titulo       string           `json:"titulo"        validate:"required,min=3,max=150"`
	Descripcion  *string          `json:"descripcion"`
	DescuentoPct *decimal.Decimal `json:"descuento_pct" validate:"omitempty"`
	FechaInicio  string           `json:"fecha_inicio"  validate:"required,datetime=2006-01-02"`
	FechaFin     string           `json:"fecha_fin"     validate:"required,datetime=2006-01-02"`
	ImagenURL    *string          `json:"imagen_url"    validate:"omitempty,url"`
}

type ActualizarPromocionRequest struct {
	Titulo       string           `json:"titulo"        validate:"omitempty,min=3,max=150"`
	Descripcion  *string          `json:"descripcion"`
	DescuentoPct *decimal.Decimal `json:"descuento_pct"`
	FechaInicio  string           `json:"fecha_inicio"  validate:"omitempty,datetime=2006-01-02"`
	FechaFin     string           `json:"fecha_fin"     validate:"omitempty,datetime=2006-01-02"`
	ImagenURL    *string          `json:"imagen_url"    validate:"omitempty,url"`
}

type PromocionResponse struct {
	ID           string           `json:"id"`
	Titulo       string           `json:"titulo"`
	Descripcion  *string          `json:"descripcion"`
	DescuentoPct *decimal.Decimal `json:"descuento_pct"`
	FechaInicio  string           `json:"fecha_inicio"`
	FechaFin     string           `json:"fecha_fin"`
	ImagenURL    *string          `json:"imagen_url"`
	Vigente      bool             `json:"vigente"`
	Activo       bool             `json:"activo"`
}
