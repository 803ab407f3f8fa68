package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"opticaomega/internal/apierror"
	"opticaomega/internal/dto"
	"opticaomega/internal/service"
)

type CitasHandler struct{ svc service.CitaService }

func NewCitasHandler(svc service.CitaService) *CitasHandler { return &CitasHandler{svc: svc} }

// Crear godoc
// @Summary      Agendar cita
// @Tags         citas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearCitaRequest true "Datos de la cita"
// @Success      201  {object} dto.CitaResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/citas [post]
func (h *CitasHandler) Crear(c *gin.Context) {
	var req dto.CrearCitaRequest
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

// Listar godoc
// @Summary      Listar citas
// @Tags         citas
// @Produce      json
// @Security     BearerAuth
// @Param        paciente_id query string false "UUID del paciente"
// @Param        fecha       query string false "Fecha YYYY-MM-DD"
// @Param        estado      query string false "programada | completada | cancelada | all"
// @Success      200 {object} dto.CitaListResponse
// @Router       /v1/citas [get]
func (h *CitasHandler) Listar(c *gin.Context) {
	var filter dto.CitaFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar citas"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CitasHandler) Actualizar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.ActualizarCitaRequest
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

func (h *CitasHandler) Eliminar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}
