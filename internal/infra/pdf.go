package infra

// pdf.go — A4 invoice generation with go-pdf/fpdf:
//   - Business header with folio and date
//   - Billed pacientes
//   - Item table (concepto, cantidad, precio unitario, subtotal)
//   - Discount and IVA lines when applicable, bold total
//   - Payment ledger with running balance

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"opticaomega/internal/dto"
	"opticaomega/internal/formato"
)

// GenerarFacturaPDF renders an invoice to an in-memory PDF. Callers either
// stream it to the client or attach it to an email.
func GenerarFacturaPDF(det *dto.FacturaDetalleResponse) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(contentW, 10, "Óptica Omega", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, "Nota de venta", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(contentW/2, 6, det.Folio, "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW/2, 6, "Fecha: "+det.Fecha, "", 1, "R", false, 0, "")
	pdf.Ln(2)

	// ── Pacientes ────────────────────────────────────────────────────────────
	if len(det.Pacientes) > 0 {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(contentW, 6, "Paciente(s):", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		for _, p := range det.Pacientes {
			pdf.CellFormat(contentW, 5, "  • "+p.Nombre, "", 1, "L", false, 0, "")
		}
		pdf.Ln(3)
	}

	// ── Items ────────────────────────────────────────────────────────────────
	col1 := contentW * 0.46 // concepto
	col2 := contentW * 0.12 // cantidad
	col3 := contentW * 0.21 // precio unitario
	col4 := contentW * 0.21 // subtotal

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(235, 235, 235)
	pdf.CellFormat(col1, 7, "Concepto", "1", 0, "L", true, 0, "")
	pdf.CellFormat(col2, 7, "Cant.", "1", 0, "C", true, 0, "")
	pdf.CellFormat(col3, 7, "P. Unitario", "1", 0, "R", true, 0, "")
	pdf.CellFormat(col4, 7, "Subtotal", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, it := range det.Items {
		concepto := it.Concepto
		if len(concepto) > 42 {
			concepto = concepto[:41] + "…"
		}
		pdf.CellFormat(col1, 6, concepto, "1", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 6, fmt.Sprintf("%d", it.Cantidad), "1", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 6, formato.Moneda(it.PrecioUnitario), "1", 0, "R", false, 0, "")
		pdf.CellFormat(col4, 6, formato.Moneda(it.Subtotal), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(3)

	// ── Totals ───────────────────────────────────────────────────────────────
	labelW := col1 + col2 + col3
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(labelW, 6, "Subtotal:", "", 0, "R", false, 0, "")
	pdf.CellFormat(col4, 6, formato.Moneda(det.Totales.Subtotal), "", 1, "R", false, 0, "")
	if !det.Totales.Descuento.IsZero() {
		pdf.CellFormat(labelW, 6, "Descuento:", "", 0, "R", false, 0, "")
		pdf.CellFormat(col4, 6, "-"+formato.Moneda(det.Totales.Descuento), "", 1, "R", false, 0, "")
	}
	if !det.Totales.IVA.IsZero() {
		pdf.CellFormat(labelW, 6, "IVA:", "", 0, "R", false, 0, "")
		pdf.CellFormat(col4, 6, formato.Moneda(det.Totales.IVA), "", 1, "R", false, 0, "")
	}
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(labelW, 8, "TOTAL:", "", 0, "R", false, 0, "")
	pdf.CellFormat(col4, 8, det.TotalFormateado, "", 1, "R", false, 0, "")

	// ── Pagos ────────────────────────────────────────────────────────────────
	if len(det.Pagos) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(contentW, 6, "Pagos recibidos:", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		for _, p := range det.Pagos {
			linea := fmt.Sprintf("  %s  %s (%s) — saldo %s",
				p.Fecha, formato.Moneda(p.Monto), p.MetodoPago, formato.Moneda(p.Saldo))
			pdf.CellFormat(contentW, 5, linea, "", 1, "L", false, 0, "")
		}
	}

	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW, 6, "Saldo pendiente: "+det.SaldoFormateado, "", 1, "L", false, 0, "")

	// ── Footer ───────────────────────────────────────────────────────────────
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.CellFormat(contentW, 5, "Gracias por su preferencia", "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: %w", err)
	}
	return buf.Bytes(), nil
}
