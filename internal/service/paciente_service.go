package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"opticaomega/internal/borrador"
	"opticaomega/internal/dto"
	"opticaomega/internal/model"
	"opticaomega/internal/repository"
)

var _ borrador.RecetaFetcher = (PacienteService)(nil)

type PacienteService interface {
	Crear(ctx context.Context, req dto.CrearPacienteRequest) (*dto.PacienteResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.PacienteResponse, error)
	Buscar(ctx context.Context, filter dto.PacienteFilter) (*dto.PacienteListResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarPacienteRequest) (*dto.PacienteResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error

	// Recetas anidadas bajo el paciente
	CrearReceta(ctx context.Context, pacienteID uuid.UUID, req dto.CrearRecetaRequest) (*dto.RecetaResponse, error)
	ListRecetas(ctx context.Context, pacienteID uuid.UUID) ([]dto.RecetaResponse, error)
	EliminarReceta(ctx context.Context, recetaID uuid.UUID) error

	// RecetasPorPaciente satisfies borrador.RecetaFetcher.
	RecetasPorPaciente(ctx context.Context, pacienteID uuid.UUID) ([]model.Receta, error)
}

type pacienteService struct {
	repo       repository.PacienteRepository
	recetaRepo repository.RecetaRepository
}

func NewPacienteService(repo repository.PacienteRepository, recetaRepo repository.RecetaRepository) PacienteService {
	return &pacienteService{repo: repo, recetaRepo: recetaRepo}
}

func (s *pacienteService) Crear(ctx context.Context, req dto.CrearPacienteRequest) (*dto.PacienteResponse, error) {
	p := &model.Paciente{
		Nombre:          req.Nombre,
		ApellidoPaterno: req.ApellidoPaterno,
		ApellidoMaterno: req.ApellidoMaterno,
		Telefono:        req.Telefono,
		Email:           req.Email,
		Direccion:       req.Direccion,
		Notas:           req.Notas,
		Activo:          true,
	}
	if req.FechaNacimiento != nil {
		f, err := time.Parse("2006-01-02", *req.FechaNacimiento)
		if err != nil {
			return nil, fmt.Errorf("fecha_nacimiento inválida: %w", err)
		}
		p.FechaNacimiento = &f
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return pacienteToResponse(p), nil
}

func (s *pacienteService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.PacienteResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("paciente no encontrado")
	}
	return pacienteToResponse(p), nil
}

func (s *pacienteService) Buscar(ctx context.Context, filter dto.PacienteFilter) (*dto.PacienteListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	pacientes, total, err := s.repo.Search(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.PacienteResponse, 0, len(pacientes))
	for i := range pacientes {
		data = append(data, *pacienteToResponse(&pacientes[i]))
	}
	return &dto.PacienteListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *pacienteService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarPacienteRequest) (*dto.PacienteResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("paciente no encontrado")
	}
	if req.Nombre != "" {
		p.Nombre = req.Nombre
	}
	if req.ApellidoPaterno != "" {
		p.ApellidoPaterno = req.ApellidoPaterno
	}
	if req.ApellidoMaterno != nil {
		p.ApellidoMaterno = req.ApellidoMaterno
	}
	if req.Telefono != nil {
		p.Telefono = req.Telefono
	}
	if req.Email != nil {
		p.Email = req.Email
	}
	if req.Direccion != nil {
		p.Direccion = req.Direccion
	}
	if req.Notas != nil {
		p.Notas = req.Notas
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return pacienteToResponse(p), nil
}

func (s *pacienteService) Desactivar(ctx context.Context, id uuid.UUID) error {
	return s.repo.SetActivo(ctx, id, false)
}

// ── Recetas ──────────────────────────────────────────────────────────────────

func (s *pacienteService) CrearReceta(ctx context.Context, pacienteID uuid.UUID, req dto.CrearRecetaRequest) (*dto.RecetaResponse, error) {
	if _, err := s.repo.FindByID(ctx, pacienteID); err != nil {
		return nil, errors.New("paciente no encontrado")
	}
	fecha, err := time.Parse("2006-01-02", req.Fecha)
	if err != nil {
		return nil, fmt.Errorf("fecha inválida: %w", err)
	}
	r := &model.Receta{
		PacienteID: pacienteID,
		Fecha:      fecha,
		EsferaOD:   req.EsferaOD,
		CilindroOD: req.CilindroOD,
		EjeOD:      req.EjeOD,
		EsferaOI:   req.EsferaOI,
		CilindroOI: req.CilindroOI,
		EjeOI:      req.EjeOI,
		Adicion:    req.Adicion,
		TipoLente:  req.TipoLente,
		Material:   req.Material,
		Notas:      req.Notas,
	}
	if err := s.recetaRepo.Create(ctx, r); err != nil {
		return nil, err
	}
	return recetaToResponse(r), nil
}

func (s *pacienteService) ListRecetas(ctx context.Context, pacienteID uuid.UUID) ([]dto.RecetaResponse, error) {
	recetas, err := s.recetaRepo.ListByPaciente(ctx, pacienteID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RecetaResponse, 0, len(recetas))
	for i := range recetas {
		out = append(out, *recetaToResponse(&recetas[i]))
	}
	return out, nil
}

func (s *pacienteService) EliminarReceta(ctx context.Context, recetaID uuid.UUID) error {
	return s.recetaRepo.Delete(ctx, recetaID)
}

func (s *pacienteService) RecetasPorPaciente(ctx context.Context, pacienteID uuid.UUID) ([]model.Receta, error) {
	return s.recetaRepo.ListByPaciente(ctx, pacienteID)
}

// ── helpers ──────────────────────────────────────────────────────────────────

func pacienteToResponse(p *model.Paciente) *dto.PacienteResponse {
	return &dto.PacienteResponse{
		ID:              p.ID.String(),
		Nombre:          p.Nombre,
		ApellidoPaterno: p.ApellidoPaterno,
		ApellidoMaterno: p.ApellidoMaterno,
		NombreCompleto:  p.NombreCompleto(),
		Telefono:        p.Telefono,
		Email:           p.Email,
		Direccion:       p.Direccion,
		Notas:           p.Notas,
		Activo:          p.Activo,
	}
}

func recetaToResponse(r *model.Receta) *dto.RecetaResponse {
	return &dto.RecetaResponse{
		ID:         r.ID.String(),
		PacienteID: r.PacienteID.String(),
		Fecha:      r.Fecha.Format("2006-01-02"),
		EsferaOD:   r.EsferaOD,
		CilindroOD: r.CilindroOD,
		EjeOD:      r.EjeOD,
		EsferaOI:   r.EsferaOI,
		CilindroOI: r.CilindroOI,
		EjeOI:      r.EjeOI,
		Adicion:    r.Adicion,
		TipoLente:  r.TipoLente,
		Material:   r.Material,
		Notas:      r.Notas,
	}
}
