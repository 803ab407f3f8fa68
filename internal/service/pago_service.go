package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"opticaomega/internal/dto"
	"opticaomega/internal/model"
	"opticaomega/internal/repository"
)

var estadosValidos = map[string]bool{
	model.EstadoPendiente: true,
	model.EstadoPagado:    true,
	model.EstadoCancelado: true,
}

// PagoService is the payment ledger and the estado machine of a factura.
//
// The estado never moves on its own: reaching saldo 0 does NOT flip the
// factura to "pagado" — marking it paid is an explicit user action.
type PagoService interface {
	RegistrarPago(ctx context.Context, facturaID uuid.UUID, req dto.RegistrarPagoRequest) (*dto.PagoResponse, error)
	CambiarEstado(ctx context.Context, facturaID uuid.UUID, nuevoEstado string) error
	ListPagos(ctx context.Context, facturaID uuid.UUID) ([]dto.PagoResponse, error)
}

type pagoService struct {
	facturaRepo repository.FacturaRepository
	pagoRepo    repository.PagoRepository
	notifier    CambioNotifier
}

func NewPagoService(facturaRepo repository.FacturaRepository, pagoRepo repository.PagoRepository, notifier CambioNotifier) PagoService {
	return &pagoService{facturaRepo: facturaRepo, pagoRepo: pagoRepo, notifier: notifier}
}

// RegistrarPago appends one ledger entry. The outstanding balance is
// recomputed from the pagos table inside the write transaction — the stored
// saldo column is a cache and is never trusted for the overpayment check.
// Two racing payments can still both pass the check between read and insert;
// the fresh read narrows that window but does not eliminate it.
func (s *pagoService) RegistrarPago(ctx context.Context, facturaID uuid.UUID, req dto.RegistrarPagoRequest) (*dto.PagoResponse, error) {
	if req.Monto.LessThanOrEqual(decimal.Zero) {
		return nil, errors.New("el monto del pago debe ser mayor a cero")
	}
	fecha, err := time.Parse("2006-01-02", req.Fecha)
	if err != nil {
		return nil, fmt.Errorf("fecha inválida: %w", err)
	}

	factura, err := s.facturaRepo.FindHeader(ctx, facturaID)
	if err != nil {
		return nil, errors.New("factura no encontrada")
	}
	if factura.Estado == model.EstadoCancelado {
		return nil, errors.New("no se pueden registrar pagos en una factura cancelada")
	}

	var pago model.FacturaPago
	var saldoNuevo decimal.Decimal
	txErr := runTx(ctx, s.facturaRepo.DB(), func(tx *gorm.DB) error {
		pagado, err := s.pagoRepo.SumByFactura(ctx, tx, facturaID)
		if err != nil {
			return err
		}
		saldo := factura.Total.Sub(pagado)
		if req.Monto.GreaterThan(saldo) {
			return fmt.Errorf("el pago (%s) excede el saldo pendiente (%s)",
				req.Monto.StringFixed(2), saldo.StringFixed(2))
		}

		pago = model.FacturaPago{
			FacturaID:  facturaID,
			Fecha:      fecha,
			Monto:      req.Monto,
			MetodoPago: req.MetodoPago,
			Referencia: req.Referencia,
			Notas:      req.Notas,
		}
		if err := s.pagoRepo.Create(ctx, tx, &pago); err != nil {
			return err
		}

		// Refresh the cached saldo column; readers that only need display
		// values use it, financial checks recompute.
		saldoNuevo = saldo.Sub(req.Monto)
		return s.facturaRepo.UpdateSaldo(ctx, tx, facturaID, saldoNuevo)
	})
	if txErr != nil {
		return nil, txErr
	}

	if s.notifier != nil {
		s.notifier.PublicarCambio(ctx, "factura_pagos", facturaID)
	}
	log.Info().
		Str("factura_id", facturaID.String()).
		Str("monto", pago.Monto.StringFixed(2)).
		Str("saldo", saldoNuevo.StringFixed(2)).
		Msg("pago registrado")

	resp := pagoToResponse(&pago, saldoNuevo)
	return &resp, nil
}

// CambiarEstado applies an explicit user-driven transition. Every transition
// among the three estados is allowed; cancelar is flagged loudly because in
// practice nobody reverts it.
func (s *pagoService) CambiarEstado(ctx context.Context, facturaID uuid.UUID, nuevoEstado string) error {
	if !estadosValidos[nuevoEstado] {
		return fmt.Errorf("estado inválido: %q", nuevoEstado)
	}
	factura, err := s.facturaRepo.FindHeader(ctx, facturaID)
	if err != nil {
		return errors.New("factura no encontrada")
	}
	if factura.Estado == nuevoEstado {
		return nil
	}
	if nuevoEstado == model.EstadoCancelado {
		log.Warn().
			Str("folio", factura.Folio).
			Str("estado_anterior", factura.Estado).
			Msg("factura cancelada — acción irreversible en la práctica")
	}
	if err := s.facturaRepo.UpdateEstado(ctx, facturaID, nuevoEstado); err != nil {
		return err
	}
	if s.notifier != nil {
		s.notifier.PublicarCambio(ctx, "facturas", facturaID)
	}
	return nil
}

func (s *pagoService) ListPagos(ctx context.Context, facturaID uuid.UUID) ([]dto.PagoResponse, error) {
	factura, err := s.facturaRepo.FindHeader(ctx, facturaID)
	if err != nil {
		return nil, errors.New("factura no encontrada")
	}
	pagos, err := s.pagoRepo.ListByFactura(ctx, facturaID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PagoResponse, 0, len(pagos))
	saldo := factura.Total
	for _, p := range pagos {
		saldo = saldo.Sub(p.Monto)
		out = append(out, pagoToResponse(&p, saldo))
	}
	return out, nil
}
