package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"opticaomega/internal/calculo"
	"opticaomega/internal/dto"
	"opticaomega/internal/formato"
	"opticaomega/internal/model"
	"opticaomega/internal/repository"
	"opticaomega/internal/worker"
)

// ErrConflictoEdicion surfaces a lost compare-and-swap to the handler layer,
// which maps it to 409.
var ErrConflictoEdicion = repository.ErrVersionObsoleta

// CambioNotifier is the optional realtime change feed: it announces that an
// invoice collection changed so list views can refetch. Delivery is
// best-effort — nothing here depends on it for correctness.
type CambioNotifier interface {
	PublicarCambio(ctx context.Context, coleccion string, id uuid.UUID)
}

type FacturaService interface {
	Crear(ctx context.Context, req dto.CrearFacturaRequest) (*dto.FacturaResponse, error)
	Reemplazar(ctx context.Context, id uuid.UUID, req dto.EditarFacturaRequest) (*dto.FacturaResponse, error)
	Detalle(ctx context.Context, id uuid.UUID) (*dto.FacturaDetalleResponse, error)
	List(ctx context.Context, filter dto.FacturaFilter) (*dto.FacturaListResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
	EnviarPorCorreo(ctx context.Context, id uuid.UUID, email string) error
}

type facturaService struct {
	repo         repository.FacturaRepository
	pagoRepo     repository.PagoRepository
	pacienteRepo repository.PacienteRepository
	recetaRepo   repository.RecetaRepository
	notifier     CambioNotifier
	dispatcher   *worker.Dispatcher
}

func NewFacturaService(
	repo repository.FacturaRepository,
	pagoRepo repository.PagoRepository,
	pacienteRepo repository.PacienteRepository,
	recetaRepo repository.RecetaRepository,
	notifier CambioNotifier,
	dispatcher *worker.Dispatcher,
) FacturaService {
	return &facturaService{
		repo:         repo,
		pagoRepo:     pagoRepo,
		pacienteRepo: pacienteRepo,
		recetaRepo:   recetaRepo,
		notifier:     notifier,
		dispatcher:   dispatcher,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// snapshot is the resolved, validated draft shared by Crear and Reemplazar.
type snapshot struct {
	fecha     time.Time
	pacientes []uuid.UUID
	recetas   []dto.RecetaFacturaRequest
	items     []model.FacturaItem
	totales   calculo.Totales
	desc      calculo.ConfigDescuento
	iva       calculo.ConfigIVA
}

// resolverSnapshot validates the submit preconditions (≥1 paciente, ≥1 item,
// pacientes exist, recetas belong to billed pacientes) and derives totals.
// It issues no write: a rejected draft leaves nothing behind.
func (s *facturaService) resolverSnapshot(
	ctx context.Context,
	fecha string, pacienteIDs []string,
	recetas []dto.RecetaFacturaRequest,
	items []dto.ItemFacturaRequest,
	descReq dto.ConfigDescuentoRequest, ivaReq dto.ConfigIVARequest,
) (*snapshot, error) {
	if len(pacienteIDs) == 0 {
		return nil, errors.New("la factura debe incluir al menos un paciente")
	}
	if len(items) == 0 {
		return nil, errors.New("la factura debe incluir al menos un artículo")
	}

	f, err := time.Parse("2006-01-02", fecha)
	if err != nil {
		return nil, fmt.Errorf("fecha inválida: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(pacienteIDs))
	vistos := make(map[uuid.UUID]bool, len(pacienteIDs))
	for _, raw := range pacienteIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("paciente_id inválido: %w", err)
		}
		if vistos[id] {
			return nil, errors.New("el paciente ya está agregado a la factura")
		}
		vistos[id] = true
		ids = append(ids, id)
	}

	existentes, err := s.pacienteRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(existentes) != len(ids) {
		return nil, errors.New("uno o más pacientes no existen")
	}

	// Recetas are traceability only, but each must exist and reference a
	// billed paciente.
	for _, r := range recetas {
		pid, err := uuid.Parse(r.PacienteID)
		if err != nil {
			return nil, fmt.Errorf("paciente_id de receta inválido: %w", err)
		}
		if !vistos[pid] {
			return nil, errors.New("la receta no corresponde a un paciente de la factura")
		}
		rid, err := uuid.Parse(r.RecetaID)
		if err != nil {
			return nil, fmt.Errorf("receta_id inválido: %w", err)
		}
		receta, err := s.recetaRepo.FindByID(ctx, rid)
		if err != nil {
			return nil, errors.New("la receta no existe")
		}
		if receta.PacienteID != pid {
			return nil, errors.New("la receta no pertenece al paciente indicado")
		}
	}

	lineas := make([]calculo.Linea, 0, len(items))
	modelos := make([]model.FacturaItem, 0, len(items))
	for _, it := range items {
		if it.Concepto == "" {
			return nil, errors.New("el concepto del artículo no puede estar vacío")
		}
		if it.Cantidad < 1 {
			return nil, errors.New("la cantidad debe ser al menos 1")
		}
		if it.PrecioUnitario.LessThanOrEqual(decimal.Zero) {
			return nil, errors.New("el precio unitario debe ser mayor a cero")
		}
		lineas = append(lineas, calculo.Linea{Cantidad: it.Cantidad, PrecioUnitario: it.PrecioUnitario})
		modelos = append(modelos, model.FacturaItem{
			Concepto:       it.Concepto,
			Descripcion:    it.Descripcion,
			Cantidad:       it.Cantidad,
			PrecioUnitario: it.PrecioUnitario,
			Subtotal:       calculo.SubtotalLinea(it.Cantidad, it.PrecioUnitario),
		})
	}

	desc := calculo.ConfigDescuento{Aplicar: descReq.Aplicar, Tipo: descReq.Tipo, Valor: descReq.Valor}
	iva := calculo.ConfigIVA{Aplicar: ivaReq.Aplicar, Porcentaje: ivaReq.Porcentaje}

	return &snapshot{
		fecha:     f,
		pacientes: ids,
		recetas:   recetas,
		items:     modelos,
		totales:   calculo.Calcular(lineas, desc, iva),
		desc:      desc,
		iva:       iva,
	}, nil
}

// ── Crear ────────────────────────────────────────────────────────────────────
// Write sequence: header (folio from sequence) → paciente links → receta
// links → items. The store supports transactions, so the whole sequence is
// atomic: a failed step rolls back instead of leaving a partial invoice.

func (s *facturaService) Crear(ctx context.Context, req dto.CrearFacturaRequest) (*dto.FacturaResponse, error) {
	snap, err := s.resolverSnapshot(ctx, req.Fecha, req.PacienteIDs, req.Recetas, req.Items, req.Descuento, req.IVA)
	if err != nil {
		return nil, err
	}

	factura := model.Factura{
		Fecha:            snap.fecha,
		Notas:            req.Notas,
		Subtotal:         snap.totales.Subtotal,
		Descuento:        snap.totales.Descuento,
		IVA:              snap.totales.IVA,
		Total:            snap.totales.Total,
		Saldo:            snap.totales.Total,
		Estado:           model.EstadoPendiente,
		AplicarIVA:       snap.iva.Aplicar,
		PorcentajeIVA:    snap.iva.Porcentaje,
		AplicarDescuento: snap.desc.Aplicar,
		TipoDescuento:    snap.desc.Tipo,
		ValorDescuento:   snap.desc.Valor,
		NotasDescuento:   req.Descuento.Notas,
		Version:          1,
	}
	if factura.TipoDescuento == "" {
		factura.TipoDescuento = model.DescuentoPorcentaje
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		folio, err := s.repo.NextFolio(ctx, tx)
		if err != nil {
			return err
		}
		factura.Folio = folio

		if err := s.repo.Create(ctx, tx, &factura); err != nil {
			return err
		}
		if err := s.escribirHijos(ctx, tx, factura.ID, snap); err != nil {
			return err
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.publicar(ctx, "facturas", factura.ID)
	log.Info().Str("folio", factura.Folio).Str("total", factura.Total.StringFixed(2)).Msg("factura creada")
	return facturaToResponse(&factura), nil
}

// ── Reemplazar ───────────────────────────────────────────────────────────────
// The edit fully supersedes the previous snapshot: header fields are updated
// via compare-and-swap on version, then every child collection is deleted and
// reinserted. Payments are untouched — the ledger survives edits, so the new
// total may not drop below what is already paid.

func (s *facturaService) Reemplazar(ctx context.Context, id uuid.UUID, req dto.EditarFacturaRequest) (*dto.FacturaResponse, error) {
	snap, err := s.resolverSnapshot(ctx, req.Fecha, req.PacienteIDs, req.Recetas, req.Items, req.Descuento, req.IVA)
	if err != nil {
		return nil, err
	}

	existente, err := s.repo.FindHeader(ctx, id)
	if err != nil {
		return nil, errors.New("factura no encontrada")
	}

	var factura model.Factura
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		pagado, err := s.pagoRepo.SumByFactura(ctx, tx, id)
		if err != nil {
			return err
		}
		if snap.totales.Total.LessThan(pagado) {
			return fmt.Errorf("el nuevo total (%s) no puede ser menor a lo ya pagado (%s)",
				snap.totales.Total.StringFixed(2), pagado.StringFixed(2))
		}

		factura = model.Factura{
			ID:               id,
			Folio:            existente.Folio,
			Fecha:            snap.fecha,
			Notas:            req.Notas,
			Subtotal:         snap.totales.Subtotal,
			Descuento:        snap.totales.Descuento,
			IVA:              snap.totales.IVA,
			Total:            snap.totales.Total,
			Saldo:            snap.totales.Total.Sub(pagado),
			Estado:           existente.Estado,
			AplicarIVA:       snap.iva.Aplicar,
			PorcentajeIVA:    snap.iva.Porcentaje,
			AplicarDescuento: snap.desc.Aplicar,
			TipoDescuento:    snap.desc.Tipo,
			ValorDescuento:   snap.desc.Valor,
			NotasDescuento:   req.Descuento.Notas,
			CreatedAt:        existente.CreatedAt,
		}
		if factura.TipoDescuento == "" {
			factura.TipoDescuento = model.DescuentoPorcentaje
		}

		if err := s.repo.UpdateHeaderCAS(ctx, tx, &factura, req.Version); err != nil {
			return err
		}
		return s.escribirHijos(ctx, tx, id, snap)
	})
	if txErr != nil {
		return nil, txErr
	}

	s.publicar(ctx, "facturas", id)
	log.Info().Str("folio", factura.Folio).Int("version", factura.Version).Msg("factura reemplazada")
	return facturaToResponse(&factura), nil
}

// escribirHijos writes the three replaceable child collections with the
// delete-then-reinsert strategy (simple, no stable natural key for items
// across edits; invoice sizes make diffing pointless).
func (s *facturaService) escribirHijos(ctx context.Context, tx *gorm.DB, facturaID uuid.UUID, snap *snapshot) error {
	links := make([]model.FacturaPaciente, 0, len(snap.pacientes))
	for _, pid := range snap.pacientes {
		links = append(links, model.FacturaPaciente{FacturaID: facturaID, PacienteID: pid})
	}
	if err := s.repo.ReplacePacientes(ctx, tx, facturaID, links); err != nil {
		return err
	}

	recetaLinks := make([]model.FacturaReceta, 0, len(snap.recetas))
	for _, r := range snap.recetas {
		rid, _ := uuid.Parse(r.RecetaID)
		pid, _ := uuid.Parse(r.PacienteID)
		recetaLinks = append(recetaLinks, model.FacturaReceta{FacturaID: facturaID, RecetaID: rid, PacienteID: pid})
	}
	if err := s.repo.ReplaceRecetas(ctx, tx, facturaID, recetaLinks); err != nil {
		return err
	}

	items := make([]model.FacturaItem, len(snap.items))
	copy(items, snap.items)
	for i := range items {
		items[i].FacturaID = facturaID
	}
	return s.repo.ReplaceItems(ctx, tx, facturaID, items)
}

// ── Detalle ──────────────────────────────────────────────────────────────────

// Detalle assembles the read model: header, pacientes, recetas, items and the
// payment ledger fetched in parallel. An invoice with zero payments renders
// an empty ledger, not an error.
func (s *facturaService) Detalle(ctx context.Context, id uuid.UUID) (*dto.FacturaDetalleResponse, error) {
	var (
		header    *model.Factura
		pacientes []model.FacturaPaciente
		recetas   []model.FacturaReceta
		items     []model.FacturaItem
		pagos     []model.FacturaPago
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		header, err = s.repo.FindHeader(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		pacientes, err = s.repo.ListPacientes(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		recetas, err = s.repo.ListRecetas(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		items, err = s.repo.ListItems(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		pagos, err = s.pagoRepo.ListByFactura(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, errors.New("factura no encontrada")
	}

	det := &dto.FacturaDetalleResponse{
		FacturaResponse: *facturaToResponse(header),
		Pacientes:       make([]dto.PacienteFacturaResponse, 0, len(pacientes)),
		Recetas:         make([]dto.RecetaFacturaResponse, 0, len(recetas)),
		Items:           make([]dto.ItemFacturaResponse, 0, len(items)),
		Pagos:           make([]dto.PagoResponse, 0, len(pagos)),
		TotalFormateado: formato.Moneda(header.Total),
	}

	for _, l := range pacientes {
		nombre := ""
		if l.Paciente != nil {
			nombre = l.Paciente.NombreCompleto()
		}
		det.Pacientes = append(det.Pacientes, dto.PacienteFacturaResponse{ID: l.PacienteID.String(), Nombre: nombre})
	}
	for _, l := range recetas {
		fecha := ""
		if l.Receta != nil {
			fecha = l.Receta.Fecha.Format("2006-01-02")
		}
		det.Recetas = append(det.Recetas, dto.RecetaFacturaResponse{
			RecetaID:   l.RecetaID.String(),
			PacienteID: l.PacienteID.String(),
			Fecha:      fecha,
		})
	}
	for _, it := range items {
		det.Items = append(det.Items, itemToResponse(&it))
	}

	// Running balance per ledger entry; the final value is the live saldo.
	saldo := header.Total
	for _, p := range pagos {
		saldo = saldo.Sub(p.Monto)
		det.Pagos = append(det.Pagos, pagoToResponse(&p, saldo))
	}
	det.Saldo = saldo
	det.SaldoFormateado = formato.Moneda(saldo)

	return det, nil
}

func (s *facturaService) List(ctx context.Context, filter dto.FacturaFilter) (*dto.FacturaListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	facturas, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.FacturaListItem, 0, len(facturas))
	for _, f := range facturas {
		nombres := make([]string, 0, len(f.Pacientes))
		for _, l := range f.Pacientes {
			if l.Paciente != nil {
				nombres = append(nombres, l.Paciente.NombreCompleto())
			}
		}
		items = append(items, dto.FacturaListItem{
			ID:        f.ID.String(),
			Folio:     f.Folio,
			Fecha:     f.Fecha.Format("2006-01-02"),
			Estado:    f.Estado,
			Total:     f.Total,
			Saldo:     f.Saldo,
			Pacientes: nombres,
		})
	}
	return &dto.FacturaListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *facturaService) Eliminar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindHeader(ctx, id); err != nil {
		return errors.New("factura no encontrada")
	}
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.Delete(ctx, tx, id)
	})
	if txErr != nil {
		return txErr
	}
	s.publicar(ctx, "facturas", id)
	return nil
}

// EnviarPorCorreo queues the PDF + email job; generation happens in the
// worker pool.
func (s *facturaService) EnviarPorCorreo(ctx context.Context, id uuid.UUID, email string) error {
	if s.dispatcher == nil {
		return errors.New("envío por correo no disponible")
	}
	if _, err := s.repo.FindHeader(ctx, id); err != nil {
		return errors.New("factura no encontrada")
	}
	return s.dispatcher.EnqueueEnvioFactura(ctx, worker.EnvioFacturaPayload{
		FacturaID: id.String(),
		Email:     email,
	})
}

func (s *facturaService) publicar(ctx context.Context, coleccion string, id uuid.UUID) {
	if s.notifier != nil {
		s.notifier.PublicarCambio(ctx, coleccion, id)
	}
}

// ── helpers ──────────────────────────────────────────────────────────────────

func facturaToResponse(f *model.Factura) *dto.FacturaResponse {
	return &dto.FacturaResponse{
		ID:     f.ID.String(),
		Folio:  f.Folio,
		Fecha:  f.Fecha.Format("2006-01-02"),
		Estado: f.Estado,
		Notas:  f.Notas,
		Totales: dto.TotalesResponse{
			Subtotal:      f.Subtotal,
			Descuento:     f.Descuento,
			BaseImponible: f.Subtotal.Sub(f.Descuento),
			IVA:           f.IVA,
			Total:         f.Total,
		},
		Saldo:     f.Saldo,
		Version:   f.Version,
		CreatedAt: f.CreatedAt.Format(time.RFC3339),
	}
}

func itemToResponse(it *model.FacturaItem) dto.ItemFacturaResponse {
	return dto.ItemFacturaResponse{
		ID:             it.ID.String(),
		Concepto:       it.Concepto,
		Descripcion:    it.Descripcion,
		Cantidad:       it.Cantidad,
		PrecioUnitario: it.PrecioUnitario,
		Subtotal:       it.Subtotal,
	}
}

func pagoToResponse(p *model.FacturaPago, saldo decimal.Decimal) dto.PagoResponse {
	return dto.PagoResponse{
		ID:         p.ID.String(),
		Fecha:      p.Fecha.Format("2006-01-02"),
		Monto:      p.Monto,
		MetodoPago: p.MetodoPago,
		Referencia: p.Referencia,
		Notas:      p.Notas,
		Saldo:      saldo,
	}
}
