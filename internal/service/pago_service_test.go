package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opticaomega/internal/dto"
	"opticaomega/internal/model"
)

// crearFacturaDe500 seeds one factura with total exactly 500.00 (sin IVA).
func crearFacturaDe500(t *testing.T, fx *facturaFixture, pid uuid.UUID) uuid.UUID {
	t.Helper()
	req := crearRequest(pid, item("Lentes de contacto", 1, "500.00"))
	req.IVA = dto.ConfigIVARequest{}
	resp, err := fx.svc.Crear(context.Background(), req)
	require.NoError(t, err)
	return uuid.MustParse(resp.ID)
}

func pagoDe(monto string) dto.RegistrarPagoRequest {
	return dto.RegistrarPagoRequest{
		Fecha:      "2026-08-20",
		Monto:      decimal.RequireFromString(monto),
		MetodoPago: model.PagoEfectivo,
	}
}

func TestRegistrarPagoParcial(t *testing.T) {
	fx := newFacturaFixture()
	pid := fx.pacienteRepo.agregar("Ana", "García")
	fid := crearFacturaDe500(t, fx, pid)
	ctx := context.Background()

	resp, err := fx.pagoSvc.RegistrarPago(ctx, fid, pagoDe("200.00"))
	require.NoError(t, err)

	assert.True(t, resp.Saldo.Equal(decimal.RequireFromString("300.00")))

	f, err := fx.repo.FindHeader(ctx, fid)
	require.NoError(t, err)
	assert.True(t, f.Saldo.Equal(decimal.RequireFromString("300.00")), "el saldo cacheado se refresca")
	assert.Equal(t, model.EstadoPendiente, f.Estado, "un abono parcial no toca el estado")
}

func TestRegistrarPagoLiquidaSinCambiarEstado(t *testing.T) {
	fx := newFacturaFixture()
	pid := fx.pacienteRepo.agregar("Ana", "García")
	fid := crearFacturaDe500(t, fx, pid)
	ctx := context.Background()

	_, err := fx.pagoSvc.RegistrarPago(ctx, fid, pagoDe("200.00"))
	require.NoError(t, err)
	resp, err := fx.pagoSvc.RegistrarPago(ctx, fid, pagoDe("300.00"))
	require.NoError(t, err)

	assert.True(t, resp.Saldo.IsZero())

	// Saldo en cero NO marca la factura como pagada: eso es siempre una
	// acción explícita del usuario.
	f, err := fx.repo.FindHeader(ctx, fid)
	require.NoError(t, err)
	assert.Equal(t, model.EstadoPendiente, f.Estado)
}

func TestRegistrarPagoExcedeSaldo(t *testing.T) {
	fx := newFacturaFixture()
	pid := fx.pacienteRepo.agregar("Ana", "García")
	fid := crearFacturaDe500(t, fx, pid)
	ctx := context.Background()

	_, err := fx.pagoSvc.RegistrarPago(ctx, fid, pagoDe("200.00"))
	require.NoError(t, err)

	_, err = fx.pagoSvc.RegistrarPago(ctx, fid, pagoDe("350.00"))
	assert.ErrorContains(t, err, "excede el saldo pendiente")

	pagos, err := fx.pagoRepo.ListByFactura(ctx, fid)
	require.NoError(t, err)
	assert.Len(t, pagos, 1, "el pago rechazado no deja rastro en el libro")
}

func TestRegistrarPagoMontoInvalido(t *testing.T) {
	fx := newFacturaFixture()
	pid := fx.pacienteRepo.agregar("Ana", "García")
	fid := crearFacturaDe500(t, fx, pid)

	_, err := fx.pagoSvc.RegistrarPago(context.Background(), fid, pagoDe("0"))
	assert.ErrorContains(t, err, "mayor a cero")

	_, err = fx.pagoSvc.RegistrarPago(context.Background(), fid, pagoDe("-50.00"))
	assert.ErrorContains(t, err, "mayor a cero")
}

func TestRegistrarPagoFacturaCancelada(t *testing.T) {
	fx := newFacturaFixture()
	pid := fx.pacienteRepo.agregar("Ana", "García")
	fid := crearFacturaDe500(t, fx, pid)
	ctx := context.Background()

	require.NoError(t, fx.pagoSvc.CambiarEstado(ctx, fid, model.EstadoCancelado))

	_, err := fx.pagoSvc.RegistrarPago(ctx, fid, pagoDe("100.00"))
	assert.ErrorContains(t, err, "cancelada")
}

func TestRegistrarPagoFacturaInexistente(t *testing.T) {
	fx := newFacturaFixture()
	_, err := fx.pagoSvc.RegistrarPago(context.Background(), uuid.New(), pagoDe("100.00"))
	assert.ErrorContains(t, err, "no encontrada")
}

func TestCambiarEstado(t *testing.T) {
	fx := newFacturaFixture()
	pid := fx.pacienteRepo.agregar("Ana", "García")
	fid := crearFacturaDe500(t, fx, pid)
	ctx := context.Background()

	t.Run("a pagado", func(t *testing.T) {
		require.NoError(t, fx.pagoSvc.CambiarEstado(ctx, fid, model.EstadoPagado))
		f, _ := fx.repo.FindHeader(ctx, fid)
		assert.Equal(t, model.EstadoPagado, f.Estado)
	})

	t.Run("de vuelta a pendiente", func(t *testing.T) {
		require.NoError(t, fx.pagoSvc.CambiarEstado(ctx, fid, model.EstadoPendiente))
		f, _ := fx.repo.FindHeader(ctx, fid)
		assert.Equal(t, model.EstadoPendiente, f.Estado)
	})

	t.Run("estado desconocido", func(t *testing.T) {
		err := fx.pagoSvc.CambiarEstado(ctx, fid, "liquidada")
		assert.ErrorContains(t, err, "estado inválido")
	})

	t.Run("mismo estado es no-op", func(t *testing.T) {
		require.NoError(t, fx.pagoSvc.CambiarEstado(ctx, fid, model.EstadoPendiente))
	})
}

func TestListPagosSaldoCorrido(t *testing.T) {
	fx := newFacturaFixture()
	pid := fx.pacienteRepo.agregar("Ana", "García")
	fid := crearFacturaDe500(t, fx, pid)
	ctx := context.Background()

	_, err := fx.pagoSvc.RegistrarPago(ctx, fid, pagoDe("150.00"))
	require.NoError(t, err)
	_, err = fx.pagoSvc.RegistrarPago(ctx, fid, pagoDe("250.00"))
	require.NoError(t, err)

	pagos, err := fx.pagoSvc.ListPagos(ctx, fid)
	require.NoError(t, err)
	require.Len(t, pagos, 2)
	assert.True(t, pagos[0].Saldo.Equal(decimal.RequireFromString("350.00")))
	assert.True(t, pagos[1].Saldo.Equal(decimal.RequireFromString("100.00")))
}
