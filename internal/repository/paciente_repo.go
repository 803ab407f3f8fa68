package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"opticaomega/internal/dto"
	"opticaomega/internal/model"
)

type PacienteRepository interface {
	Create(ctx context.Context, p *model.Paciente) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Paciente, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Paciente, error)
	// Search matches nombre, apellidos o teléfono — the lookup behind the
	// invoice draft's patient picker.
	Search(ctx context.Context, filter dto.PacienteFilter) ([]model.Paciente, int64, error)
	Update(ctx context.Context, p *model.Paciente) error
	SetActivo(ctx context.Context, id uuid.UUID, activo bool) error
}

type pacienteRepo struct{ db *gorm.DB }

func NewPacienteRepository(db *gorm.DB) PacienteRepository { return &pacienteRepo{db: db} }

func (r *pacienteRepo) Create(ctx context.Context, p *model.Paciente) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *pacienteRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Paciente, error) {
	var p model.Paciente
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	return &p, err
}

func (r *pacienteRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Paciente, error) {
	var pacientes []model.Paciente
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&pacientes).Error
	return pacientes, err
}

func (r *pacienteRepo) Search(ctx context.Context, filter dto.PacienteFilter) ([]model.Paciente, int64, error) {
	var pacientes []model.Paciente
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.Paciente{}).Where("activo = true")
	if filter.Buscar != "" {
		patron := "%" + filter.Buscar + "%"
		q = q.Where(
			"nombre ILIKE ? OR apellido_paterno ILIKE ? OR apellido_materno ILIKE ? OR telefono LIKE ?",
			patron, patron, patron, patron,
		)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("apellido_paterno ASC, nombre ASC").
		Offset(offset).Limit(filter.Limit).
		Find(&pacientes).Error
	return pacientes, total, err
}

func (r *pacienteRepo) Update(ctx context.Context, p *model.Paciente) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *pacienteRepo) SetActivo(ctx context.Context, id uuid.UUID, activo bool) error {
	return r.db.WithContext(ctx).Model(&model.Paciente{}).
		Where("id = ?", id).Update("activo", activo).Error
}
