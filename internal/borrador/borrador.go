// Package borrador holds the in-memory invoice draft: the line-item editor
// and the patient/prescription association manager. Nothing here touches the
// database except the prescription lookup triggered when a patient is
// attached; persistence of the whole draft is the coordinator's job.
package borrador

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"opticaomega/internal/calculo"
	"opticaomega/internal/model"
)

// Validation errors are user-visible messages, not failures: the caller shows
// them and leaves the draft editable.
var (
	ErrConceptoVacio     = errors.New("el concepto del artículo no puede estar vacío")
	ErrPrecioInvalido    = errors.New("el precio unitario debe ser mayor a cero")
	ErrCantidadInvalida  = errors.New("la cantidad debe ser al menos 1")
	ErrPacienteDuplicado = errors.New("el paciente ya está agregado a la factura")
	ErrSinPacientes      = errors.New("la factura debe incluir al menos un paciente")
	ErrSinItems          = errors.New("la factura debe incluir al menos un artículo")
)

// Item is a draft line. ID is a temporary client-side identifier; the
// persisted row gets its own key.
type Item struct {
	ID             uuid.UUID
	Concepto       string
	Descripcion    *string
	Cantidad       int
	PrecioUnitario decimal.Decimal
	Subtotal       decimal.Decimal
}

// RecetaFetcher is the read-only prescription lookup collaborator.
type RecetaFetcher interface {
	RecetasPorPaciente(ctx context.Context, pacienteID uuid.UUID) ([]model.Receta, error)
}

// Borrador is one in-progress invoice draft.
type Borrador struct {
	items     []Item
	pacientes []model.Paciente

	// disponibles: recetas fetched per attached paciente.
	// seleccionadas: receta → paciente that sourced it.
	disponibles   map[uuid.UUID][]model.Receta
	seleccionadas map[uuid.UUID]uuid.UUID

	Descuento calculo.ConfigDescuento
	IVA       calculo.ConfigIVA

	fetcher RecetaFetcher
}

func Nuevo(fetcher RecetaFetcher) *Borrador {
	return &Borrador{
		disponibles:   make(map[uuid.UUID][]model.Receta),
		seleccionadas: make(map[uuid.UUID]uuid.UUID),
		fetcher:       fetcher,
	}
}

// ── Line-item editor ─────────────────────────────────────────────────────────

// AgregarItem validates and appends a draft line, returning it with the
// subtotal computed immediately.
func (b *Borrador) AgregarItem(concepto string, descripcion *string, cantidad int, precioUnitario decimal.Decimal) (Item, error) {
	if concepto == "" {
		return Item{}, ErrConceptoVacio
	}
	if precioUnitario.LessThanOrEqual(decimal.Zero) {
		return Item{}, ErrPrecioInvalido
	}
	if cantidad < 1 {
		return Item{}, ErrCantidadInvalida
	}
	item := Item{
		ID:             uuid.New(),
		Concepto:       concepto,
		Descripcion:    descripcion,
		Cantidad:       cantidad,
		PrecioUnitario: precioUnitario,
		Subtotal:       calculo.SubtotalLinea(cantidad, precioUnitario),
	}
	b.items = append(b.items, item)
	return item, nil
}

// QuitarItem removes a draft line by its temporary id. Unknown ids are a
// no-op — the row is already gone, which is what the user wanted.
func (b *Borrador) QuitarItem(id uuid.UUID) {
	for i, it := range b.items {
		if it.ID == id {
			b.items = append(b.items[:i], b.items[i+1:]...)
			return
		}
	}
}

// Items returns the draft lines in insertion order.
func (b *Borrador) Items() []Item { return b.items }

// ── Patient / prescription association ───────────────────────────────────────

// AgregarPaciente attaches a paciente and loads their recetas into the
// available set. A failed lookup is tolerated: the paciente stays attached
// with an empty receta list, since selection is optional.
func (b *Borrador) AgregarPaciente(ctx context.Context, p model.Paciente) error {
	for _, existente := range b.pacientes {
		if existente.ID == p.ID {
			return ErrPacienteDuplicado
		}
	}
	b.pacientes = append(b.pacientes, p)

	if b.fetcher != nil {
		recetas, err := b.fetcher.RecetasPorPaciente(ctx, p.ID)
		if err == nil {
			b.disponibles[p.ID] = recetas
		}
	}
	return nil
}

// QuitarPaciente detaches a paciente and cascades: the recetas sourced from
// them leave both the available and the selected sets.
func (b *Borrador) QuitarPaciente(id uuid.UUID) {
	for i, p := range b.pacientes {
		if p.ID == id {
			b.pacientes = append(b.pacientes[:i], b.pacientes[i+1:]...)
			break
		}
	}
	delete(b.disponibles, id)
	for recetaID, pacienteID := range b.seleccionadas {
		if pacienteID == id {
			delete(b.seleccionadas, recetaID)
		}
	}
}

// Pacientes returns the attached pacientes in insertion order.
func (b *Borrador) Pacientes() []model.Paciente { return b.pacientes }

// RecetasDisponibles lists the fetched recetas for one attached paciente.
func (b *Borrador) RecetasDisponibles(pacienteID uuid.UUID) []model.Receta {
	return b.disponibles[pacienteID]
}

// ToggleReceta flips the selection of an available receta and reports the
// resulting state. Selecting a receta never affects totals.
func (b *Borrador) ToggleReceta(recetaID uuid.UUID) bool {
	if _, ok := b.seleccionadas[recetaID]; ok {
		delete(b.seleccionadas, recetaID)
		return false
	}
	for pacienteID, recetas := range b.disponibles {
		for _, r := range recetas {
			if r.ID == recetaID {
				b.seleccionadas[recetaID] = pacienteID
				return true
			}
		}
	}
	return false
}

// RecetasSeleccionadas returns the selected receta ids with the paciente that
// sourced each one.
func (b *Borrador) RecetasSeleccionadas() map[uuid.UUID]uuid.UUID {
	out := make(map[uuid.UUID]uuid.UUID, len(b.seleccionadas))
	for r, p := range b.seleccionadas {
		out[r] = p
	}
	return out
}

// ── Derived state ────────────────────────────────────────────────────────────

// Totales recomputes the money breakdown from the current draft.
func (b *Borrador) Totales() calculo.Totales {
	lineas := make([]calculo.Linea, 0, len(b.items))
	for _, it := range b.items {
		lineas = append(lineas, calculo.Linea{Cantidad: it.Cantidad, PrecioUnitario: it.PrecioUnitario})
	}
	return calculo.Calcular(lineas, b.Descuento, b.IVA)
}

// Validar checks the submit preconditions: at least one paciente and one item.
func (b *Borrador) Validar() error {
	if len(b.pacientes) == 0 {
		return ErrSinPacientes
	}
	if len(b.items) == 0 {
		return ErrSinItems
	}
	return nil
}
