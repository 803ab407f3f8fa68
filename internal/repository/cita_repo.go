package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"opticaomega/internal/dto"
	"opticaomega/internal/model"
)

type CitaRepository interface {
	Create(ctx context.Context, c *model.Cita) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Cita, error)
	List(ctx context.Context, filter dto.CitaFilter) ([]model.Cita, int64, error)
	Update(ctx context.Context, c *model.Cita) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type citaRepo struct{ db *gorm.DB }

func NewCitaRepository(db *gorm.DB) CitaRepository { return &citaRepo{db: db} }

func (r *citaRepo) Create(ctx context.Context, c *model.Cita) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *citaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Cita, error) {
	var c model.Cita
	err := r.db.WithContext(ctx).Preload("Paciente").First(&c, "id = ?", id).Error
	return &c, err
}

func (r *citaRepo) List(ctx context.Context, filter dto.CitaFilter) ([]model.Cita, int64, error) {
	var citas []model.Cita
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.Cita{})
	if filter.PacienteID != "" {
		q = q.Where("paciente_id = ?", filter.PacienteID)
	}
	if filter.Estado != "" && filter.Estado != "all" {
		q = q.Where("estado = ?", filter.Estado)
	}
	if filter.Fecha != "" {
		q = q.Where("DATE(fecha) = ?", filter.Fecha)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("Paciente").
		Order("fecha ASC").
		Offset(offset).Limit(filter.Limit).
		Find(&citas).Error
	return citas, total, err
}

func (r *citaRepo) Update(ctx context.Context, c *model.Cita) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *citaRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Cita{}, "id = ?", id).Error
}
