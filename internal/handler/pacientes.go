package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"opticaomega/internal/apierror"
	"opticaomega/internal/dto"
	"opticaomega/internal/service"
)

type PacientesHandler struct{ svc service.PacienteService }

func NewPacientesHandler(svc service.PacienteService) *PacientesHandler {
	return &PacientesHandler{svc: svc}
}

// Crear godoc
// @Summary      Registrar paciente
// @Tags         pacientes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearPacienteRequest true "Datos del paciente"
// @Success      201  {object} dto.PacienteResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/pacientes [post]
func (h *PacientesHandler) Crear(c *gin.Context) {
	var req dto.CrearPacienteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Buscar godoc
// @Summary      Buscar pacientes
// @Description  Búsqueda paginada por nombre, apellidos o teléfono.
// @Tags         pacientes
// @Produce      json
// @Security     BearerAuth
// @Param        buscar query string false "Texto a buscar"
// @Param        page   query int    false "Página (default 1)"
// @Param        limit  query int    false "Registros por página (default 50)"
// @Success      200    {object} dto.PacienteListResponse
// @Router       /v1/pacientes [get]
func (h *PacientesHandler) Buscar(c *gin.Context) {
	var filter dto.PacienteFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.Buscar(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al buscar pacientes"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PacientesHandler) ObtenerPorID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.ObtenerPorID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PacientesHandler) Actualizar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.ActualizarPacienteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PacientesHandler) Desactivar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if err := h.svc.Desactivar(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

// ── Recetas anidadas ─────────────────────────────────────────────────────────

// CrearReceta godoc
// @Summary      Registrar receta
// @Description  Registra una graduación óptica para el paciente.
// @Tags         pacientes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string               true "UUID del paciente"
// @Param        body body dto.CrearRecetaRequest true "Graduación"
// @Success      201  {object} dto.RecetaResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/pacientes/{id}/recetas [post]
func (h *PacientesHandler) CrearReceta(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.CrearRecetaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearReceta(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *PacientesHandler) ListarRecetas(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.ListRecetas(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PacientesHandler) EliminarReceta(c *gin.Context) {
	recetaID, err := uuid.Parse(c.Param("receta_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if err := h.svc.EliminarReceta(c.Request.Context(), recetaID); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}
