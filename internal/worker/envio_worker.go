package worker

// envio_worker.go
// Processes invoice-email jobs from QueueEnvioFactura: regenerates the PDF
// from the current factura and mails it to the requested address.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"opticaomega/internal/dto"
	"opticaomega/internal/infra"
)

// DetalleFetcher assembles the full invoice read model. Satisfied by the
// factura service; declared here so the worker package stays decoupled from it.
type DetalleFetcher interface {
	Detalle(ctx context.Context, id uuid.UUID) (*dto.FacturaDetalleResponse, error)
}

// Mailer sends an invoice PDF by email.
type Mailer interface {
	SendFactura(to, subject, body string, pdf []byte, filename string) error
}

type EnvioWorker struct {
	detalles DetalleFetcher
	mailer   Mailer
}

func NewEnvioWorker(detalles DetalleFetcher, mailer Mailer) *EnvioWorker {
	return &EnvioWorker{detalles: detalles, mailer: mailer}
}

// Process generates the PDF and sends it. A returned error requeues the job.
func (w *EnvioWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload EnvioFacturaPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("envio_worker: invalid payload")
		return nil // malformed jobs are not retryable
	}
	id, err := uuid.Parse(payload.FacturaID)
	if err != nil {
		log.Error().Str("factura_id", payload.FacturaID).Msg("envio_worker: invalid factura_id")
		return nil
	}

	det, err := w.detalles.Detalle(ctx, id)
	if err != nil {
		return fmt.Errorf("envio_worker: detalle: %w", err)
	}
	pdf, err := infra.GenerarFacturaPDF(det)
	if err != nil {
		return fmt.Errorf("envio_worker: pdf: %w", err)
	}

	subject := fmt.Sprintf("Su nota de venta %s — Óptica Omega", det.Folio)
	body := fmt.Sprintf(
		"Adjuntamos su nota de venta %s por %s.\n\nGracias por su preferencia.",
		det.Folio, det.TotalFormateado,
	)
	if err := w.mailer.SendFactura(payload.Email, subject, body, pdf, det.Folio+".pdf"); err != nil {
		return fmt.Errorf("envio_worker: send: %w", err)
	}

	log.Info().Str("folio", det.Folio).Str("to", payload.Email).Msg("factura enviada por correo")
	return nil
}
