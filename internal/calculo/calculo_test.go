package calculo

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"opticaomega/internal/model"
)

// Item base de los escenarios: 2×100 + 1×50 = 250.
func lineasBase() []Linea {
	return []Linea{
		{Cantidad: 2, PrecioUnitario: decimal.NewFromInt(100)},
		{Cantidad: 1, PrecioUnitario: decimal.NewFromInt(50)},
	}
}

func TestCalcular_SinDescuentoConIVA(t *testing.T) {
	// subtotal=250, descuento=0, iva 16% = 40, total=290
	tot := Calcular(lineasBase(),
		ConfigDescuento{},
		ConfigIVA{Aplicar: true, Porcentaje: decimal.NewFromInt(16)})

	assert.Equal(t, "250", tot.Subtotal.String())
	assert.Equal(t, "0", tot.Descuento.String())
	assert.Equal(t, "250", tot.BaseImponible.String())
	assert.Equal(t, "40", tot.IVA.String())
	assert.Equal(t, "290", tot.Total.String())
}

func TestCalcular_DescuentoPorcentaje(t *testing.T) {
	// descuento 10% = 25, base=225, iva 16% = 36, total=261
	tot := Calcular(lineasBase(),
		ConfigDescuento{Aplicar: true, Tipo: model.DescuentoPorcentaje, Valor: decimal.NewFromInt(10)},
		ConfigIVA{Aplicar: true, Porcentaje: decimal.NewFromInt(16)})

	assert.Equal(t, "25", tot.Descuento.String())
	assert.Equal(t, "225", tot.BaseImponible.String())
	assert.Equal(t, "36", tot.IVA.String())
	assert.Equal(t, "261", tot.Total.String())
}

func TestCalcular_DescuentoFijoExcedeSubtotal(t *testing.T) {
	// descuento fijo 300 sobre subtotal 250 → se recorta a 250, total=0
	tot := Calcular(lineasBase(),
		ConfigDescuento{Aplicar: true, Tipo: model.DescuentoFijo, Valor: decimal.NewFromInt(300)},
		ConfigIVA{Aplicar: true, Porcentaje: decimal.NewFromInt(16)})

	assert.Equal(t, "250", tot.Descuento.String())
	assert.True(t, tot.BaseImponible.IsZero())
	assert.True(t, tot.IVA.IsZero())
	assert.True(t, tot.Total.IsZero())
}

func TestCalcular_IVADeshabilitadoIgnoraPorcentaje(t *testing.T) {
	tot := Calcular(lineasBase(),
		ConfigDescuento{},
		ConfigIVA{Aplicar: false, Porcentaje: decimal.NewFromInt(16)})

	assert.True(t, tot.IVA.IsZero())
	assert.Equal(t, "250", tot.Total.String())
}

func TestCalcular_DescuentoNegativoSeIgnora(t *testing.T) {
	tot := Calcular(lineasBase(),
		ConfigDescuento{Aplicar: true, Tipo: model.DescuentoFijo, Valor: decimal.NewFromInt(-50)},
		ConfigIVA{})

	assert.True(t, tot.Descuento.IsZero())
	assert.Equal(t, "250", tot.Total.String())
}

func TestCalcular_SinLineas(t *testing.T) {
	tot := Calcular(nil,
		ConfigDescuento{Aplicar: true, Tipo: model.DescuentoPorcentaje, Valor: decimal.NewFromInt(10)},
		ConfigIVA{Aplicar: true, Porcentaje: decimal.NewFromInt(16)})

	assert.True(t, tot.Subtotal.IsZero())
	assert.True(t, tot.Total.IsZero())
}

func TestCalcular_RedondeoCentavos(t *testing.T) {
	// 3×33.33 = 99.99; 10% = 9.999 → redondea a 10.00; base 89.99; 16% = 14.3984 → 14.40
	lineas := []Linea{{Cantidad: 3, PrecioUnitario: decimal.RequireFromString("33.33")}}
	tot := Calcular(lineas,
		ConfigDescuento{Aplicar: true, Tipo: model.DescuentoPorcentaje, Valor: decimal.NewFromInt(10)},
		ConfigIVA{Aplicar: true, Porcentaje: decimal.NewFromInt(16)})

	assert.Equal(t, "99.99", tot.Subtotal.String())
	assert.Equal(t, "10", tot.Descuento.String())
	assert.Equal(t, "89.99", tot.BaseImponible.String())
	assert.Equal(t, "14.4", tot.IVA.String())
	// El invariante total = base + iva se conserva tras el redondeo
	assert.True(t, tot.Total.Equal(tot.BaseImponible.Add(tot.IVA)))
}

func TestCalcular_InvariantesGenerales(t *testing.T) {
	configs := []struct {
		desc ConfigDescuento
		iva  ConfigIVA
	}{
		{ConfigDescuento{}, ConfigIVA{}},
		{ConfigDescuento{Aplicar: true, Tipo: model.DescuentoPorcentaje, Valor: decimal.NewFromInt(50)}, ConfigIVA{Aplicar: true, Porcentaje: decimal.NewFromInt(8)}},
		{ConfigDescuento{Aplicar: true, Tipo: model.DescuentoFijo, Valor: decimal.NewFromInt(125)}, ConfigIVA{}},
		{ConfigDescuento{Aplicar: true, Tipo: model.DescuentoPorcentaje, Valor: decimal.NewFromInt(100)}, ConfigIVA{Aplicar: true, Porcentaje: decimal.NewFromInt(16)}},
	}
	for _, c := range configs {
		tot := Calcular(lineasBase(), c.desc, c.iva)
		assert.False(t, tot.Descuento.IsNegative())
		assert.True(t, tot.Descuento.LessThanOrEqual(tot.Subtotal))
		assert.True(t, tot.Total.Equal(tot.Subtotal.Sub(tot.Descuento).Add(tot.IVA)))
	}
}
