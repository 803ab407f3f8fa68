package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"opticaomega/internal/dto"
	"opticaomega/internal/model"
	"opticaomega/internal/repository"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

// stubFacturaRepo is an in-memory FacturaRepository. DB() returns nil so
// runTx skips the transaction wrapper.
type stubFacturaRepo struct {
	facturas  map[uuid.UUID]*model.Factura
	pacientes map[uuid.UUID][]model.FacturaPaciente
	recetas   map[uuid.UUID][]model.FacturaReceta
	items     map[uuid.UUID][]model.FacturaItem
	folioSeq  int64
}

func newStubFacturaRepo() *stubFacturaRepo {
	return &stubFacturaRepo{
		facturas:  make(map[uuid.UUID]*model.Factura),
		pacientes: make(map[uuid.UUID][]model.FacturaPaciente),
		recetas:   make(map[uuid.UUID][]model.FacturaReceta),
		items:     make(map[uuid.UUID][]model.FacturaItem),
	}
}

func (r *stubFacturaRepo) DB() *gorm.DB { return nil }

func (r *stubFacturaRepo) Create(_ context.Context, _ *gorm.DB, f *model.Factura) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	copia := *f
	r.facturas[f.ID] = &copia
	return nil
}

func (r *stubFacturaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Factura, error) {
	return r.FindHeader(ctx, id)
}

func (r *stubFacturaRepo) FindHeader(_ context.Context, id uuid.UUID) (*model.Factura, error) {
	f, ok := r.facturas[id]
	if !ok {
		return nil, errors.New("not found")
	}
	copia := *f
	return &copia, nil
}

func (r *stubFacturaRepo) List(_ context.Context, filter dto.FacturaFilter) ([]model.Factura, int64, error) {
	var out []model.Factura
	for _, f := range r.facturas {
		if filter.Estado != "" && filter.Estado != "all" && f.Estado != filter.Estado {
			continue
		}
		out = append(out, *f)
	}
	return out, int64(len(out)), nil
}

func (r *stubFacturaRepo) NextFolio(_ context.Context, _ *gorm.DB) (string, error) {
	r.folioSeq++
	return fmt.Sprintf("FAC-%06d", r.folioSeq), nil
}

func (r *stubFacturaRepo) UpdateHeaderCAS(_ context.Context, _ *gorm.DB, f *model.Factura, expectedVersion int) error {
	existente, ok := r.facturas[f.ID]
	if !ok || existente.Version != expectedVersion {
		return repository.ErrVersionObsoleta
	}
	copia := *f
	copia.Estado = existente.Estado
	copia.Version = expectedVersion + 1
	r.facturas[f.ID] = &copia
	f.Version = copia.Version
	return nil
}

func (r *stubFacturaRepo) ReplacePacientes(_ context.Context, _ *gorm.DB, facturaID uuid.UUID, links []model.FacturaPaciente) error {
	r.pacientes[facturaID] = links
	return nil
}

func (r *stubFacturaRepo) ReplaceRecetas(_ context.Context, _ *gorm.DB, facturaID uuid.UUID, links []model.FacturaReceta) error {
	r.recetas[facturaID] = links
	return nil
}

func (r *stubFacturaRepo) ReplaceItems(_ context.Context, _ *gorm.DB, facturaID uuid.UUID, items []model.FacturaItem) error {
	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
	}
	r.items[facturaID] = items
	return nil
}

func (r *stubFacturaRepo) ListPacientes(_ context.Context, facturaID uuid.UUID) ([]model.FacturaPaciente, error) {
	return r.pacientes[facturaID], nil
}

func (r *stubFacturaRepo) ListRecetas(_ context.Context, facturaID uuid.UUID) ([]model.FacturaReceta, error) {
	return r.recetas[facturaID], nil
}

func (r *stubFacturaRepo) ListItems(_ context.Context, facturaID uuid.UUID) ([]model.FacturaItem, error) {
	return r.items[facturaID], nil
}

func (r *stubFacturaRepo) UpdateEstado(_ context.Context, id uuid.UUID, estado string) error {
	f, ok := r.facturas[id]
	if !ok {
		return errors.New("not found")
	}
	f.Estado = estado
	return nil
}

func (r *stubFacturaRepo) UpdateSaldo(_ context.Context, _ *gorm.DB, id uuid.UUID, saldo decimal.Decimal) error {
	f, ok := r.facturas[id]
	if !ok {
		return errors.New("not found")
	}
	f.Saldo = saldo
	return nil
}

func (r *stubFacturaRepo) Delete(_ context.Context, _ *gorm.DB, id uuid.UUID) error {
	delete(r.facturas, id)
	delete(r.pacientes, id)
	delete(r.recetas, id)
	delete(r.items, id)
	return nil
}

var _ repository.FacturaRepository = (*stubFacturaRepo)(nil)

// stubPagoRepo is an in-memory append-only ledger.
type stubPagoRepo struct {
	pagos map[uuid.UUID][]model.FacturaPago
}

func newStubPagoRepo() *stubPagoRepo {
	return &stubPagoRepo{pagos: make(map[uuid.UUID][]model.FacturaPago)}
}

func (r *stubPagoRepo) Create(_ context.Context, _ *gorm.DB, p *model.FacturaPago) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.pagos[p.FacturaID] = append(r.pagos[p.FacturaID], *p)
	return nil
}

func (r *stubPagoRepo) ListByFactura(_ context.Context, facturaID uuid.UUID) ([]model.FacturaPago, error) {
	return r.pagos[facturaID], nil
}

func (r *stubPagoRepo) SumByFactura(_ context.Context, _ *gorm.DB, facturaID uuid.UUID) (decimal.Decimal, error) {
	suma := decimal.Zero
	for _, p := range r.pagos[facturaID] {
		suma = suma.Add(p.Monto)
	}
	return suma, nil
}

var _ repository.PagoRepository = (*stubPagoRepo)(nil)

// stubPacienteRepoSvc backs the existence check in resolverSnapshot.
type stubPacienteRepoSvc struct {
	pacientes map[uuid.UUID]*model.Paciente
}

func newStubPacienteRepoSvc() *stubPacienteRepoSvc {
	return &stubPacienteRepoSvc{pacientes: make(map[uuid.UUID]*model.Paciente)}
}

func (r *stubPacienteRepoSvc) agregar(nombre, apellido string) uuid.UUID {
	id := uuid.New()
	r.pacientes[id] = &model.Paciente{ID: id, Nombre: nombre, ApellidoPaterno: apellido, Activo: true}
	return id
}

func (r *stubPacienteRepoSvc) Create(_ context.Context, p *model.Paciente) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.pacientes[p.ID] = p
	return nil
}

func (r *stubPacienteRepoSvc) FindByID(_ context.Context, id uuid.UUID) (*model.Paciente, error) {
	p, ok := r.pacientes[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return p, nil
}

func (r *stubPacienteRepoSvc) FindByIDs(_ context.Context, ids []uuid.UUID) ([]model.Paciente, error) {
	var out []model.Paciente
	for _, id := range ids {
		if p, ok := r.pacientes[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubPacienteRepoSvc) Search(_ context.Context, _ dto.PacienteFilter) ([]model.Paciente, int64, error) {
	return nil, 0, nil
}

func (r *stubPacienteRepoSvc) Update(_ context.Context, p *model.Paciente) error {
	r.pacientes[p.ID] = p
	return nil
}

func (r *stubPacienteRepoSvc) SetActivo(_ context.Context, id uuid.UUID, activo bool) error {
	if p, ok := r.pacientes[id]; ok {
		p.Activo = activo
	}
	return nil
}

var _ repository.PacienteRepository = (*stubPacienteRepoSvc)(nil)

// stubRecetaRepoSvc backs receta ownership checks.
type stubRecetaRepoSvc struct {
	recetas map[uuid.UUID]*model.Receta
}

func newStubRecetaRepoSvc() *stubRecetaRepoSvc {
	return &stubRecetaRepoSvc{recetas: make(map[uuid.UUID]*model.Receta)}
}

func (r *stubRecetaRepoSvc) agregar(pacienteID uuid.UUID) uuid.UUID {
	id := uuid.New()
	r.recetas[id] = &model.Receta{ID: id, PacienteID: pacienteID, Fecha: time.Now()}
	return id
}

func (r *stubRecetaRepoSvc) Create(_ context.Context, m *model.Receta) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.recetas[m.ID] = m
	return nil
}

func (r *stubRecetaRepoSvc) FindByID(_ context.Context, id uuid.UUID) (*model.Receta, error) {
	m, ok := r.recetas[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return m, nil
}

func (r *stubRecetaRepoSvc) ListByPaciente(_ context.Context, pacienteID uuid.UUID) ([]model.Receta, error) {
	var out []model.Receta
	for _, m := range r.recetas {
		if m.PacienteID == pacienteID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *stubRecetaRepoSvc) Update(_ context.Context, m *model.Receta) error {
	r.recetas[m.ID] = m
	return nil
}

func (r *stubRecetaRepoSvc) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.recetas, id)
	return nil
}

var _ repository.RecetaRepository = (*stubRecetaRepoSvc)(nil)

// stubNotifier records published change events.
type stubNotifier struct {
	eventos []string
}

func (n *stubNotifier) PublicarCambio(_ context.Context, coleccion string, _ uuid.UUID) {
	n.eventos = append(n.eventos, coleccion)
}

var _ CambioNotifier = (*stubNotifier)(nil)

// ── Factory ──────────────────────────────────────────────────────────────────

type facturaFixture struct {
	svc          FacturaService
	pagoSvc      PagoService
	repo         *stubFacturaRepo
	pagoRepo     *stubPagoRepo
	pacienteRepo *stubPacienteRepoSvc
	recetaRepo   *stubRecetaRepoSvc
	notifier     *stubNotifier
}

func newFacturaFixture() *facturaFixture {
	repo := newStubFacturaRepo()
	pagoRepo := newStubPagoRepo()
	pacienteRepo := newStubPacienteRepoSvc()
	recetaRepo := newStubRecetaRepoSvc()
	notifier := &stubNotifier{}
	return &facturaFixture{
		svc:          NewFacturaService(repo, pagoRepo, pacienteRepo, recetaRepo, notifier, nil),
		pagoSvc:      NewPagoService(repo, pagoRepo, notifier),
		repo:         repo,
		pagoRepo:     pagoRepo,
		pacienteRepo: pacienteRepo,
		recetaRepo:   recetaRepo,
		notifier:     notifier,
	}
}

func item(concepto string, cantidad int, precio string) dto.ItemFacturaRequest {
	return dto.ItemFacturaRequest{
		Concepto:       concepto,
		Cantidad:       cantidad,
		PrecioUnitario: decimal.RequireFromString(precio),
	}
}

func crearRequest(pacienteID uuid.UUID, items ...dto.ItemFacturaRequest) dto.CrearFacturaRequest {
	return dto.CrearFacturaRequest{
		Fecha:       "2026-08-15",
		PacienteIDs: []string{pacienteID.String()},
		Items:       items,
		IVA:         dto.ConfigIVARequest{Aplicar: true, Porcentaje: decimal.NewFromInt(16)},
	}
}

// ── Crear ────────────────────────────────────────────────────────────────────

func TestCrearFactura(t *testing.T) {
	fx := newFacturaFixture()
	pid := fx.pacienteRepo.agregar("Ana", "García")

	resp, err := fx.svc.Crear(context.Background(), crearRequest(pid, item("Armazón", 1, "250.00")))
	require.NoError(t, err)

	assert.Equal(t, "FAC-000001", resp.Folio)
	assert.Equal(t, model.EstadoPendiente, resp.Estado)
	assert.Equal(t, 1, resp.Version)
	assert.True(t, resp.Totales.Subtotal.Equal(decimal.RequireFromString("250.00")))
	assert.True(t, resp.Totales.IVA.Equal(decimal.RequireFromString("40.00")))
	assert.True(t, resp.Totales.Total.Equal(decimal.RequireFromString("290.00")))
	assert.True(t, resp.Saldo.Equal(decimal.RequireFromString("290.00")), "saldo inicial = total")

	fid := uuid.MustParse(resp.ID)
	assert.Len(t, fx.repo.pacientes[fid], 1)
	assert.Len(t, fx.repo.items[fid], 1)
	assert.Contains(t, fx.notifier.eventos, "facturas")
}

func TestCrearFacturaConDescuento(t *testing.T) {
	fx := newFacturaFixture()
	pid := fx.pacienteRepo.agregar("Luis", "Mora")

	req := crearRequest(pid, item("Lentes progresivos", 1, "250.00"))
	req.Descuento = dto.ConfigDescuentoRequest{
		Aplicar: true,
		Tipo:    model.DescuentoPorcentaje,
		Valor:   decimal.NewFromInt(10),
	}

	resp, err := fx.svc.Crear(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, resp.Totales.Descuento.Equal(decimal.RequireFromString("25.00")))
	assert.True(t, resp.Totales.BaseImponible.Equal(decimal.RequireFromString("225.00")))
	assert.True(t, resp.Totales.IVA.Equal(decimal.RequireFromString("36.00")))
	assert.True(t, resp.Totales.Total.Equal(decimal.RequireFromString("261.00")))
}

func TestCrearFacturaValidaciones(t *testing.T) {
	fx := newFacturaFixture()
	pid := fx.pacienteRepo.agregar("Eva", "Ríos")
	ctx := context.Background()

	t.Run("sin pacientes", func(t *testing.T) {
		req := crearRequest(pid, item("Micas", 2, "100.00"))
		req.PacienteIDs = nil
		_, err := fx.svc.Crear(ctx, req)
		assert.ErrorContains(t, err, "al menos un paciente")
	})

	t.Run("sin items", func(t *testing.T) {
		req := crearRequest(pid)
		_, err := fx.svc.Crear(ctx, req)
		assert.ErrorContains(t, err, "al menos un artículo")
	})

	t.Run("paciente inexistente", func(t *testing.T) {
		req := crearRequest(pid, item("Micas", 2, "100.00"))
		req.PacienteIDs = append(req.PacienteIDs, uuid.NewString())
		_, err := fx.svc.Crear(ctx, req)
		assert.ErrorContains(t, err, "no existen")
	})

	t.Run("paciente duplicado", func(t *testing.T) {
		req := crearRequest(pid, item("Micas", 2, "100.00"))
		req.PacienteIDs = append(req.PacienteIDs, pid.String())
		_, err := fx.svc.Crear(ctx, req)
		assert.ErrorContains(t, err, "ya está agregado")
	})

	t.Run("precio no positivo", func(t *testing.T) {
		_, err := fx.svc.Crear(ctx, crearRequest(pid, item("Micas", 1, "0")))
		assert.ErrorContains(t, err, "mayor a cero")
	})

	t.Run("nada persiste tras rechazo", func(t *testing.T) {
		assert.Empty(t, fx.repo.facturas)
	})
}

func TestCrearFacturaRecetas(t *testing.T) {
	fx := newFacturaFixture()
	pid := fx.pacienteRepo.agregar("Ana", "García")
	otro := fx.pacienteRepo.agregar("Beto", "Cano")
	rid := fx.recetaRepo.agregar(pid)
	ridAjena := fx.recetaRepo.agregar(otro)
	ctx := context.Background()

	t.Run("receta de paciente facturado", func(t *testing.T) {
		req := crearRequest(pid, item("Micas", 1, "400.00"))
		req.Recetas = []dto.RecetaFacturaRequest{{RecetaID: rid.String(), PacienteID: pid.String()}}
		resp, err := fx.svc.Crear(ctx, req)
		require.NoError(t, err)
		assert.Len(t, fx.repo.recetas[uuid.MustParse(resp.ID)], 1)
	})

	t.Run("receta de paciente fuera de la factura", func(t *testing.T) {
		req := crearRequest(pid, item("Micas", 1, "400.00"))
		req.Recetas = []dto.RecetaFacturaRequest{{RecetaID: ridAjena.String(), PacienteID: otro.String()}}
		_, err := fx.svc.Crear(ctx, req)
		assert.ErrorContains(t, err, "no corresponde a un paciente")
	})

	t.Run("receta de otro dueño", func(t *testing.T) {
		req := crearRequest(pid, item("Micas", 1, "400.00"))
		req.Recetas = []dto.RecetaFacturaRequest{{RecetaID: ridAjena.String(), PacienteID: pid.String()}}
		_, err := fx.svc.Crear(ctx, req)
		assert.ErrorContains(t, err, "no pertenece al paciente")
	})
}

// ── Reemplazar ───────────────────────────────────────────────────────────────

func TestReemplazarFactura(t *testing.T) {
	fx := newFacturaFixture()
	pid := fx.pacienteRepo.agregar("Ana", "García")
	ctx := context.Background()

	creada, err := fx.svc.Crear(ctx, crearRequest(pid, item("Armazón", 1, "250.00")))
	require.NoError(t, err)
	fid := uuid.MustParse(creada.ID)

	edit := dto.EditarFacturaRequest{
		Fecha:       "2026-08-16",
		PacienteIDs: []string{pid.String()},
		Items: []dto.ItemFacturaRequest{
			item("Armazón premium", 1, "300.00"),
			item("Tratamiento antirreflejante", 1, "150.00"),
		},
		IVA:     dto.ConfigIVARequest{Aplicar: true, Porcentaje: decimal.NewFromInt(16)},
		Version: creada.Version,
	}

	resp, err := fx.svc.Reemplazar(ctx, fid, edit)
	require.NoError(t, err)

	assert.Equal(t, creada.Folio, resp.Folio, "el folio nunca cambia en una edición")
	assert.Equal(t, 2, resp.Version)
	assert.True(t, resp.Totales.Total.Equal(decimal.RequireFromString("522.00")))
	assert.Len(t, fx.repo.items[fid], 2, "los items anteriores fueron reemplazados por completo")
}

func TestReemplazarVersionObsoleta(t *testing.T) {
	fx := newFacturaFixture()
	pid := fx.pacienteRepo.agregar("Ana", "García")
	ctx := context.Background()

	creada, err := fx.svc.Crear(ctx, crearRequest(pid, item("Armazón", 1, "250.00")))
	require.NoError(t, err)
	fid := uuid.MustParse(creada.ID)

	edit := dto.EditarFacturaRequest{
		Fecha:       "2026-08-16",
		PacienteIDs: []string{pid.String()},
		Items:       []dto.ItemFacturaRequest{item("Armazón", 1, "260.00")},
		Version:     creada.Version,
	}
	_, err = fx.svc.Reemplazar(ctx, fid, edit)
	require.NoError(t, err)

	// Second editor submits against the version it loaded before the first
	// edit landed.
	_, err = fx.svc.Reemplazar(ctx, fid, edit)
	assert.ErrorIs(t, err, ErrConflictoEdicion)
}

func TestReemplazarNoPuedeBajarDeLoPagado(t *testing.T) {
	fx := newFacturaFixture()
	pid := fx.pacienteRepo.agregar("Ana", "García")
	ctx := context.Background()

	creada, err := fx.svc.Crear(ctx, crearRequest(pid, item("Lentes", 1, "500.00")))
	require.NoError(t, err)
	fid := uuid.MustParse(creada.ID)

	// total = 580.00 (500 + 16% IVA); abona 300
	_, err = fx.pagoSvc.RegistrarPago(ctx, fid, dto.RegistrarPagoRequest{
		Fecha: "2026-08-16", Monto: decimal.RequireFromString("300.00"), MetodoPago: model.PagoEfectivo,
	})
	require.NoError(t, err)

	edit := dto.EditarFacturaRequest{
		Fecha:       "2026-08-17",
		PacienteIDs: []string{pid.String()},
		Items:       []dto.ItemFacturaRequest{item("Lentes", 1, "100.00")},
		Version:     creada.Version,
	}
	_, err = fx.svc.Reemplazar(ctx, fid, edit)
	assert.ErrorContains(t, err, "no puede ser menor a lo ya pagado")
}

func TestReemplazarConservaPagos(t *testing.T) {
	fx := newFacturaFixture()
	pid := fx.pacienteRepo.agregar("Ana", "García")
	ctx := context.Background()

	creada, err := fx.svc.Crear(ctx, crearRequest(pid, item("Lentes", 1, "500.00")))
	require.NoError(t, err)
	fid := uuid.MustParse(creada.ID)

	_, err = fx.pagoSvc.RegistrarPago(ctx, fid, dto.RegistrarPagoRequest{
		Fecha: "2026-08-16", Monto: decimal.RequireFromString("200.00"), MetodoPago: model.PagoTarjeta,
	})
	require.NoError(t, err)

	edit := dto.EditarFacturaRequest{
		Fecha:       "2026-08-17",
		PacienteIDs: []string{pid.String()},
		Items:       []dto.ItemFacturaRequest{item("Lentes", 1, "600.00")},
		IVA:         dto.ConfigIVARequest{Aplicar: true, Porcentaje: decimal.NewFromInt(16)},
		Version:     creada.Version,
	}
	resp, err := fx.svc.Reemplazar(ctx, fid, edit)
	require.NoError(t, err)

	// 600 + 96 IVA = 696; 200 already paid.
	assert.True(t, resp.Saldo.Equal(decimal.RequireFromString("496.00")))
	pagos, err := fx.pagoRepo.ListByFactura(ctx, fid)
	require.NoError(t, err)
	assert.Len(t, pagos, 1, "la edición nunca toca el libro de pagos")
}

// ── Detalle ──────────────────────────────────────────────────────────────────

func TestDetalle(t *testing.T) {
	fx := newFacturaFixture()
	pid := fx.pacienteRepo.agregar("Ana", "García")
	ctx := context.Background()

	creada, err := fx.svc.Crear(ctx, crearRequest(pid,
		item("Armazón", 1, "250.00"),
		item("Micas", 2, "500.00"),
	))
	require.NoError(t, err)
	fid := uuid.MustParse(creada.ID)

	// total = (250 + 1000) × 1.16 = 1450.00
	_, err = fx.pagoSvc.RegistrarPago(ctx, fid, dto.RegistrarPagoRequest{
		Fecha: "2026-08-16", Monto: decimal.RequireFromString("450.00"), MetodoPago: model.PagoEfectivo,
	})
	require.NoError(t, err)
	_, err = fx.pagoSvc.RegistrarPago(ctx, fid, dto.RegistrarPagoRequest{
		Fecha: "2026-08-17", Monto: decimal.RequireFromString("500.00"), MetodoPago: model.PagoTransferencia,
	})
	require.NoError(t, err)

	det, err := fx.svc.Detalle(ctx, fid)
	require.NoError(t, err)

	assert.Len(t, det.Items, 2)
	require.Len(t, det.Pagos, 2)
	assert.True(t, det.Pagos[0].Saldo.Equal(decimal.RequireFromString("1000.00")), "saldo corrido tras el primer pago")
	assert.True(t, det.Pagos[1].Saldo.Equal(decimal.RequireFromString("500.00")))
	assert.True(t, det.Saldo.Equal(decimal.RequireFromString("500.00")))
	assert.Equal(t, "$1,450.00", det.TotalFormateado)
	assert.Equal(t, "$500.00", det.SaldoFormateado)
}

func TestDetalleSinPagos(t *testing.T) {
	fx := newFacturaFixture()
	pid := fx.pacienteRepo.agregar("Ana", "García")
	ctx := context.Background()

	creada, err := fx.svc.Crear(ctx, crearRequest(pid, item("Armazón", 1, "250.00")))
	require.NoError(t, err)

	det, err := fx.svc.Detalle(ctx, uuid.MustParse(creada.ID))
	require.NoError(t, err)

	assert.Empty(t, det.Pagos, "sin pagos el libro queda vacío, no es un error")
	assert.True(t, det.Saldo.Equal(det.Totales.Total))
}

func TestDetalleNoEncontrada(t *testing.T) {
	fx := newFacturaFixture()
	_, err := fx.svc.Detalle(context.Background(), uuid.New())
	assert.ErrorContains(t, err, "no encontrada")
}

// ── Eliminar ─────────────────────────────────────────────────────────────────

func TestEliminarFactura(t *testing.T) {
	fx := newFacturaFixture()
	pid := fx.pacienteRepo.agregar("Ana", "García")
	ctx := context.Background()

	creada, err := fx.svc.Crear(ctx, crearRequest(pid, item("Armazón", 1, "250.00")))
	require.NoError(t, err)
	fid := uuid.MustParse(creada.ID)

	require.NoError(t, fx.svc.Eliminar(ctx, fid))

	_, err = fx.svc.Detalle(ctx, fid)
	assert.Error(t, err)
	assert.Empty(t, fx.repo.items[fid])
}
