package dto

import "github.com/shopspring/decimal"

// RegistrarPagoRequest appends one entry to the payment ledger of a factura.
type RegistrarPagoRequest struct {
	Fecha      string          `json:"fecha"       validate:"required,datetime=2006-01-02"`
	Monto      decimal.Decimal `json:"monto"       validate:"required,gt=0"`
	MetodoPago string          `json:"metodo_pago" validate:"required,oneof=efectivo tarjeta transferencia"`
	Referencia *string         `json:"referencia"`
	Notas      *string         `json:"notas"`
}

type PagoResponse struct {
	ID         string          `json:"id"`
	Fecha      string          `json:"fecha"`
	Monto      decimal.Decimal `json:"monto"`
	MetodoPago string          `json:"metodo_pago"`
	Referencia *string         `json:"referencia"`
	Notas      *string         `json:"notas"`
	// Saldo is the outstanding balance after this payment was applied.
	Saldo decimal.Decimal `json:"saldo"`
}
