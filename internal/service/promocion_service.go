package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"opticaomega/internal/dto"
	"opticaomega/internal/model"
	"opticaomega/internal/repository"
)

type PromocionService interface {
	Crear(ctx context.Context, req dto.CrearPromocionRequest) (*dto.PromocionResponse, error)
	List(ctx context.Context, incluirInactivas bool) ([]dto.PromocionResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarPromocionRequest) (*dto.PromocionResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
}

type promocionService struct {
	repo repository.PromocionRepository
}

func NewPromocionService(repo repository.PromocionRepository) PromocionService {
	return &promocionService{repo: repo}
}

func (s *promocionService) Crear(ctx context.Context, req dto.CrearPromocionRequest) (*dto.PromocionResponse, error) {
	inicio, err := time.Parse("2006-01-02", req.FechaInicio)
	if err != nil {
		return nil, fmt.Errorf("fecha_inicio inválida: %w", err)
	}
	fin, err := time.Parse("2006-01-02", req.FechaFin)
	if err != nil {
		return nil, fmt.Errorf("fecha_fin inválida: %w", err)
	}
	if fin.Before(inicio) {
		return nil, errors.New("la fecha de fin no puede ser anterior a la de inicio")
	}
	p := &model.Promocion{
		Titulo:       req.Titulo,
		Descripcion:  req.Descripcion,
		DescuentoPct: req.DescuentoPct,
		FechaInicio:  inicio,
		FechaFin:     fin,
		ImagenURL:    req.ImagenURL,
		Activo:       true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return promocionToResponse(p), nil
}

func (s *promocionService) List(ctx context.Context, incluirInactivas bool) ([]dto.PromocionResponse, error) {
	promos, err := s.repo.List(ctx, incluirInactivas)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PromocionResponse, 0, len(promos))
	for i := range promos {
		out = append(out, *promocionToResponse(&promos[i]))
	}
	return out, nil
}

func (s *promocionService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarPromocionRequest) (*dto.PromocionResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("promoción no encontrada")
	}
	if req.Titulo != "" {
		p.Titulo = req.Titulo
	}
	if req.Descripcion != nil {
		p.Descripcion = req.Descripcion
	}
	if req.DescuentoPct != nil {
		p.DescuentoPct = req.DescuentoPct
	}
	if req.FechaInicio != "" {
		inicio, err := time.Parse("2006-01-02", req.FechaInicio)
		if err != nil {
			return nil, fmt.Errorf("fecha_inicio inválida: %w", err)
		}
		p.FechaInicio = inicio
	}
	if req.FechaFin != "" {
		fin, err := time.Parse("2006-01-02", req.FechaFin)
		if err != nil {
			return nil, fmt.Errorf("fecha_fin inválida: %w", err)
		}
		p.FechaFin = fin
	}
	if req.ImagenURL != nil {
		p.ImagenURL = req.ImagenURL
	}
	if p.FechaFin.Before(p.FechaInicio) {
		return nil, errors.New("la fecha de fin no puede ser anterior a la de inicio")
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return promocionToResponse(p), nil
}

func (s *promocionService) Desactivar(ctx context.Context, id uuid.UUID) error {
	return s.repo.SetActivo(ctx, id, false)
}

func promocionToResponse(p *model.Promocion) *dto.PromocionResponse {
	return &dto.PromocionResponse{
		ID:           p.ID.String(),
		Titulo:       p.Titulo,
		Descripcion:  p.Descripcion,
		DescuentoPct: p.DescuentoPct,
		FechaInicio:  p.FechaInicio.Format("2006-01-02"),
		FechaFin:     p.FechaFin.Format("2006-01-02"),
		ImagenURL:    p.ImagenURL,
		Vigente:      p.Vigente(time.Now()),
		Activo:       p.Activo,
	}
}
