package borrador

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opticaomega/internal/calculo"
	"opticaomega/internal/model"
)

// stubFetcher serves canned recetas per paciente.
type stubFetcher struct {
	recetas map[uuid.UUID][]model.Receta
	err     error
}

func (f *stubFetcher) RecetasPorPaciente(_ context.Context, pacienteID uuid.UUID) ([]model.Receta, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.recetas[pacienteID], nil
}

func nuevoPaciente(nombre string) model.Paciente {
	return model.Paciente{ID: uuid.New(), Nombre: nombre, ApellidoPaterno: "García"}
}

func nuevaReceta(pacienteID uuid.UUID) model.Receta {
	return model.Receta{ID: uuid.New(), PacienteID: pacienteID, Fecha: time.Now()}
}

func TestAgregarItem_Validaciones(t *testing.T) {
	b := Nuevo(nil)

	_, err := b.AgregarItem("", nil, 1, decimal.NewFromInt(100))
	assert.ErrorIs(t, err, ErrConceptoVacio)

	_, err = b.AgregarItem("Armazón", nil, 1, decimal.Zero)
	assert.ErrorIs(t, err, ErrPrecioInvalido)

	_, err = b.AgregarItem("Armazón", nil, 0, decimal.NewFromInt(100))
	assert.ErrorIs(t, err, ErrCantidadInvalida)

	// Ningún rechazo deja rastro en el borrador
	assert.Empty(t, b.Items())
}

func TestAgregarItem_CalculaSubtotal(t *testing.T) {
	b := Nuevo(nil)
	item, err := b.AgregarItem("Lente progresivo", nil, 2, decimal.RequireFromString("1250.50"))
	require.NoError(t, err)
	assert.Equal(t, "2501", item.Subtotal.String())
	assert.Len(t, b.Items(), 1)
}

func TestQuitarItem(t *testing.T) {
	b := Nuevo(nil)
	a, _ := b.AgregarItem("Armazón", nil, 1, decimal.NewFromInt(800))
	c, _ := b.AgregarItem("Estuche", nil, 1, decimal.NewFromInt(150))

	b.QuitarItem(a.ID)
	require.Len(t, b.Items(), 1)
	assert.Equal(t, c.ID, b.Items()[0].ID)

	// id desconocido: no-op
	b.QuitarItem(uuid.New())
	assert.Len(t, b.Items(), 1)
}

func TestAgregarPaciente_DuplicadoRechazado(t *testing.T) {
	b := Nuevo(&stubFetcher{})
	p := nuevoPaciente("Ana")

	require.NoError(t, b.AgregarPaciente(context.Background(), p))
	err := b.AgregarPaciente(context.Background(), p)
	assert.ErrorIs(t, err, ErrPacienteDuplicado)
	assert.Len(t, b.Pacientes(), 1)
}

func TestAgregarPaciente_CargaRecetas(t *testing.T) {
	p := nuevoPaciente("Luis")
	r := nuevaReceta(p.ID)
	b := Nuevo(&stubFetcher{recetas: map[uuid.UUID][]model.Receta{p.ID: {r}}})

	require.NoError(t, b.AgregarPaciente(context.Background(), p))
	assert.Len(t, b.RecetasDisponibles(p.ID), 1)
}

func TestAgregarPaciente_FalloDeLookupNoBloquea(t *testing.T) {
	b := Nuevo(&stubFetcher{err: errors.New("timeout")})
	p := nuevoPaciente("Eva")

	// La selección de recetas es opcional: el paciente queda agregado
	require.NoError(t, b.AgregarPaciente(context.Background(), p))
	assert.Empty(t, b.RecetasDisponibles(p.ID))
}

func TestQuitarPaciente_CascadaDeRecetas(t *testing.T) {
	p1 := nuevoPaciente("Ana")
	p2 := nuevoPaciente("Luis")
	r1 := nuevaReceta(p1.ID)
	r2 := nuevaReceta(p2.ID)
	b := Nuevo(&stubFetcher{recetas: map[uuid.UUID][]model.Receta{
		p1.ID: {r1},
		p2.ID: {r2},
	}})

	require.NoError(t, b.AgregarPaciente(context.Background(), p1))
	require.NoError(t, b.AgregarPaciente(context.Background(), p2))
	require.True(t, b.ToggleReceta(r1.ID))
	require.True(t, b.ToggleReceta(r2.ID))

	b.QuitarPaciente(p1.ID)

	// Las recetas de p1 salen de disponibles y de seleccionadas; las de p2 quedan
	assert.Empty(t, b.RecetasDisponibles(p1.ID))
	sel := b.RecetasSeleccionadas()
	assert.NotContains(t, sel, r1.ID)
	assert.Contains(t, sel, r2.ID)
	assert.Len(t, b.Pacientes(), 1)
}

func TestToggleReceta(t *testing.T) {
	p := nuevoPaciente("Ana")
	r := nuevaReceta(p.ID)
	b := Nuevo(&stubFetcher{recetas: map[uuid.UUID][]model.Receta{p.ID: {r}}})
	require.NoError(t, b.AgregarPaciente(context.Background(), p))

	assert.True(t, b.ToggleReceta(r.ID))
	assert.False(t, b.ToggleReceta(r.ID))
	// Una receta que no está en disponibles no puede seleccionarse
	assert.False(t, b.ToggleReceta(uuid.New()))
}

func TestToggleReceta_NoAfectaTotales(t *testing.T) {
	p := nuevoPaciente("Ana")
	r := nuevaReceta(p.ID)
	b := Nuevo(&stubFetcher{recetas: map[uuid.UUID][]model.Receta{p.ID: {r}}})
	require.NoError(t, b.AgregarPaciente(context.Background(), p))
	_, err := b.AgregarItem("Examen de vista", nil, 1, decimal.NewFromInt(350))
	require.NoError(t, err)

	antes := b.Totales()
	b.ToggleReceta(r.ID)
	despues := b.Totales()
	assert.True(t, antes.Total.Equal(despues.Total))
}

func TestTotales_ViveConElBorrador(t *testing.T) {
	b := Nuevo(nil)
	_, _ = b.AgregarItem("Armazón", nil, 2, decimal.NewFromInt(100))
	_, _ = b.AgregarItem("Estuche", nil, 1, decimal.NewFromInt(50))
	b.IVA = calculo.ConfigIVA{Aplicar: true, Porcentaje: decimal.NewFromInt(16)}

	tot := b.Totales()
	assert.Equal(t, "250", tot.Subtotal.String())
	assert.Equal(t, "290", tot.Total.String())
}

func TestValidar(t *testing.T) {
	b := Nuevo(&stubFetcher{})
	assert.ErrorIs(t, b.Validar(), ErrSinPacientes)

	require.NoError(t, b.AgregarPaciente(context.Background(), nuevoPaciente("Ana")))
	assert.ErrorIs(t, b.Validar(), ErrSinItems)

	_, err := b.AgregarItem("Armazón", nil, 1, decimal.NewFromInt(100))
	require.NoError(t, err)
	assert.NoError(t, b.Validar())
}
