package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"opticaomega/internal/model"
)

type RecetaRepository interface {
	Create(ctx context.Context, r *model.Receta) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Receta, error)
	ListByPaciente(ctx context.Context, pacienteID uuid.UUID) ([]model.Receta, error)
	Update(ctx context.Context, r *model.Receta) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type recetaRepo struct{ db *gorm.DB }

func NewRecetaRepository(db *gorm.DB) RecetaRepository { return &recetaRepo{db: db} }

func (r *recetaRepo) Create(ctx context.Context, m *model.Receta) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *recetaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Receta, error) {
	var m model.Receta
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	return &m, err
}

func (r *recetaRepo) ListByPaciente(ctx context.Context, pacienteID uuid.UUID) ([]model.Receta, error) {
	var recetas []model.Receta
	err := r.db.WithContext(ctx).
		Where("paciente_id = ?", pacienteID).
		Order("fecha DESC").
		Find(&recetas).Error
	return recetas, err
}

func (r *recetaRepo) Update(ctx context.Context, m *model.Receta) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *recetaRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Receta{}, "id = ?", id).Error
}
