// Package calculo derives invoice totals from line items and the
// discount/tax configuration. Everything here is pure: no I/O, no state.
// It is cheap enough to re-run on every input change.
package calculo

import (
	"github.com/shopspring/decimal"

	"opticaomega/internal/model"
)

var cien = decimal.NewFromInt(100)

// ConfigDescuento describes the optional invoice-level discount.
// Tipo: model.DescuentoPorcentaje | model.DescuentoFijo.
type ConfigDescuento struct {
	Aplicar bool
	Tipo    string
	Valor   decimal.Decimal
}

// ConfigIVA describes the optional tax.
type ConfigIVA struct {
	Aplicar    bool
	Porcentaje decimal.Decimal
}

// Linea is the minimal line-item input for totals.
type Linea struct {
	Cantidad       int
	PrecioUnitario decimal.Decimal
}

// Totales is the derived money breakdown of an invoice.
// Invariant: Total = (Subtotal − Descuento) + IVA, with 0 ≤ Descuento ≤ Subtotal.
type Totales struct {
	Subtotal      decimal.Decimal
	Descuento     decimal.Decimal
	BaseImponible decimal.Decimal
	IVA           decimal.Decimal
	Total         decimal.Decimal
}

// SubtotalLinea computes cantidad × precio unitario for one line.
func SubtotalLinea(cantidad int, precioUnitario decimal.Decimal) decimal.Decimal {
	return precioUnitario.Mul(decimal.NewFromInt(int64(cantidad)))
}

// Calcular derives the full breakdown. The discount is clamped to
// [0, subtotal] for both tipos — the same clamp on every call site.
func Calcular(lineas []Linea, desc ConfigDescuento, iva ConfigIVA) Totales {
	subtotal := decimal.Zero
	for _, l := range lineas {
		subtotal = subtotal.Add(SubtotalLinea(l.Cantidad, l.PrecioUnitario))
	}

	descuento := decimal.Zero
	if desc.Aplicar {
		switch desc.Tipo {
		case model.DescuentoPorcentaje:
			descuento = subtotal.Mul(desc.Valor).Div(cien).Round(2)
		case model.DescuentoFijo:
			descuento = desc.Valor
		}
		if descuento.IsNegative() {
			descuento = decimal.Zero
		}
		if descuento.GreaterThan(subtotal) {
			descuento = subtotal
		}
	}

	base := subtotal.Sub(descuento)

	montoIVA := decimal.Zero
	if iva.Aplicar {
		montoIVA = base.Mul(iva.Porcentaje).Div(cien).Round(2)
	}

	return Totales{
		Subtotal:      subtotal,
		Descuento:     descuento,
		BaseImponible: base,
		IVA:           montoIVA,
		Total:         base.Add(montoIVA),
	}
}
