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

type CitaService interface {
	Crear(ctx context.Context, req dto.CrearCitaRequest) (*dto.CitaResponse, error)
	List(ctx context.Context, filter dto.CitaFilter) (*dto.CitaListResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarCitaRequest) (*dto.CitaResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type citaService struct {
	repo         repository.CitaRepository
	pacienteRepo repository.PacienteRepository
}

func NewCitaService(repo repository.CitaRepository, pacienteRepo repository.PacienteRepository) CitaService {
	return &citaService{repo: repo, pacienteRepo: pacienteRepo}
}

func (s *citaService) Crear(ctx context.Context, req dto.CrearCitaRequest) (*dto.CitaResponse, error) {
	pacienteID, err := uuid.Parse(req.PacienteID)
	if err != nil {
		return nil, fmt.Errorf("paciente_id inválido: %w", err)
	}
	paciente, err := s.pacienteRepo.FindByID(ctx, pacienteID)
	if err != nil {
		return nil, errors.New("paciente no encontrado")
	}
	fecha, err := parseFechaHora(req.Fecha)
	if err != nil {
		return nil, err
	}
	c := &model.Cita{
		PacienteID: pacienteID,
		Fecha:      fecha,
		Motivo:     req.Motivo,
		Estado:     "programada",
		Notas:      req.Notas,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	c.Paciente = paciente
	return citaToResponse(c), nil
}

func (s *citaService) List(ctx context.Context, filter dto.CitaFilter) (*dto.CitaListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	citas, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.CitaResponse, 0, len(citas))
	for i := range citas {
		data = append(data, *citaToResponse(&citas[i]))
	}
	return &dto.CitaListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *citaService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarCitaRequest) (*dto.CitaResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("cita no encontrada")
	}
	if req.Fecha != "" {
		fecha, err := parseFechaHora(req.Fecha)
		if err != nil {
			return nil, err
		}
		c.Fecha = fecha
	}
	if req.Motivo != "" {
		c.Motivo = req.Motivo
	}
	if req.Estado != "" {
		c.Estado = req.Estado
	}
	if req.Notas != nil {
		c.Notas = req.Notas
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return citaToResponse(c), nil
}

func (s *citaService) Eliminar(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// parseFechaHora accepts "2006-01-02T15:04" (the datetime-local input format)
// or a bare date.
func parseFechaHora(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02T15:04", time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("fecha inválida: %q", s)
}

func citaToResponse(c *model.Cita) *dto.CitaResponse {
	nombre := ""
	if c.Paciente != nil {
		nombre = c.Paciente.NombreCompleto()
	}
	return &dto.CitaResponse{
		ID:             c.ID.String(),
		PacienteID:     c.PacienteID.String(),
		PacienteNombre: nombre,
		Fecha:          c.Fecha.Format("2006-01-02T15:04"),
		Motivo:         c.Motivo,
		Estado:         c.Estado,
		Notas:          c.Notas,
	}
}
