package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"opticaomega/internal/model"
)

type PromocionRepository interface {
	Create(ctx context.Context, p *model.Promocion) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Promocion, error)
	List(ctx context.Context, incluirInactivas bool) ([]model.Promocion, error)
	Update(ctx context.Context, p *model.Promocion) error
	SetActivo(ctx context.Context, id uuid.UUID, activo bool) error
}

type promocionRepo struct{ db *gorm.DB }

func NewPromocionRepository(db *gorm.DB) PromocionRepository { return &promocionRepo{db: db} }

func (r *promocionRepo) Create(ctx context.Context, p *model.Promocion) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *promocionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Promocion, error) {
	var p model.Promocion
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	return &p, err
}

func (r *promocionRepo) List(ctx context.Context, incluirInactivas bool) ([]model.Promocion, error) {
	var promos []model.Promocion
	q := r.db.WithContext(ctx).Order("fecha_inicio DESC")
	if !incluirInactivas {
		q = q.Where("activo = true")
	}
	err := q.Find(&promos).Error
	return promos, err
}

func (r *promocionRepo) Update(ctx context.Context, p *model.Promocion) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *promocionRepo) SetActivo(ctx context.Context, id uuid.UUID, activo bool) error {
	return r.db.WithContext(ctx).Model(&model.Promocion{}).
		Where("id = ?", id).Update("activo", activo).Error
}
