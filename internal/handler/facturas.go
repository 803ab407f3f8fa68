package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"opticaomega/internal/apierror"
	"opticaomega/internal/dto"
	"opticaomega/internal/infra"
	"opticaomega/internal/service"
)

type FacturasHandler struct {
	svc     service.FacturaService
	pagoSvc service.PagoService
}

func NewFacturasHandler(svc service.FacturaService, pagoSvc service.PagoService) *FacturasHandler {
	return &FacturasHandler{svc: svc, pagoSvc: pagoSvc}
}

// Crear godoc
// @Summary      Crear factura
// @Description  Crea una factura a partir del borrador completo: pacientes, recetas, artículos y configuración de descuento/IVA. Los totales se calculan en el servidor.
// @Tags         facturas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearFacturaRequest true "Borrador de la factura"
// @Success      201  {object} dto.FacturaResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/facturas [post]
func (h *FacturasHandler) Crear(c *gin.Context) {
	var req dto.CrearFacturaRequest
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
// @Summary      Listar facturas
// @Description  Lista paginada de facturas filtrada por estado y rango de fechas.
// @Tags         facturas
// @Produce      json
// @Security     BearerAuth
// @Param        estado query string false "pendiente | pagado | cancelado | all"
// @Param        desde  query string false "Fecha YYYY-MM-DD"
// @Param        hasta  query string false "Fecha YYYY-MM-DD"
// @Param        page   query int    false "Página (default 1)"
// @Param        limit  query int    false "Registros por página (default 50)"
// @Success      200    {object} dto.FacturaListResponse
// @Router       /v1/facturas [get]
func (h *FacturasHandler) Listar(c *gin.Context) {
	var filter dto.FacturaFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar facturas"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Detalle godoc
// @Summary      Detalle de factura
// @Description  Retorna la factura completa: encabezado, pacientes, recetas, artículos y el libro de pagos con saldo corrido.
// @Tags         facturas
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la factura"
// @Success      200 {object} dto.FacturaDetalleResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/facturas/{id} [get]
func (h *FacturasHandler) Detalle(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.Detalle(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Reemplazar godoc
// @Summary      Editar factura
// @Description  Reemplaza por completo la factura: encabezado y colecciones hijas. Requiere la versión leída; una versión obsoleta produce 409.
// @Tags         facturas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                  true "UUID de la factura"
// @Param        body body dto.EditarFacturaRequest true "Nuevo contenido completo"
// @Success      200  {object} dto.FacturaResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/facturas/{id} [put]
func (h *FacturasHandler) Reemplazar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.EditarFacturaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Reemplazar(c.Request.Context(), id, req)
	if err != nil {
		if errors.Is(err, service.ErrConflictoEdicion) {
			c.JSON(http.StatusConflict, apierror.New(err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Eliminar godoc
// @Summary      Eliminar factura
// @Description  Elimina la factura y todas sus colecciones hijas, pagos incluidos.
// @Tags         facturas
// @Security     BearerAuth
// @Param        id path string true "UUID de la factura"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Router       /v1/facturas/{id} [delete]
func (h *FacturasHandler) Eliminar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

// RegistrarPago godoc
// @Summary      Registrar pago
// @Description  Agrega un abono al libro de pagos. Rechaza montos que excedan el saldo pendiente. No cambia el estado de la factura.
// @Tags         facturas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                   true "UUID de la factura"
// @Param        body body dto.RegistrarPagoRequest true "Datos del pago"
// @Success      201  {object} dto.PagoResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/facturas/{id}/pagos [post]
func (h *FacturasHandler) RegistrarPago(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.RegistrarPagoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.pagoSvc.RegistrarPago(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListarPagos godoc
// @Summary      Listar pagos de una factura
// @Tags         facturas
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la factura"
// @Success      200 {array} dto.PagoResponse
// @Router       /v1/facturas/{id}/pagos [get]
func (h *FacturasHandler) ListarPagos(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.pagoSvc.ListPagos(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CambiarEstado godoc
// @Summary      Cambiar estado de factura
// @Description  Transición explícita de estado (pendiente | pagado | cancelado). El estado jamás cambia solo al registrar pagos.
// @Tags         facturas
// @Accept       json
// @Security     BearerAuth
// @Param        id   path string                   true "UUID de la factura"
// @Param        body body dto.CambiarEstadoRequest true "Nuevo estado"
// @Success      204
// @Failure      400 {object} apierror.APIError
// @Router       /v1/facturas/{id}/estado [patch]
func (h *FacturasHandler) CambiarEstado(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.CambiarEstadoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.pagoSvc.CambiarEstado(c.Request.Context(), id, req.Estado); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

// DescargarPDF godoc
// @Summary      Descargar factura en PDF
// @Tags         facturas
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id path string true "UUID de la factura"
// @Success      200 {file} binary
// @Failure      404 {object} apierror.APIError
// @Router       /v1/facturas/{id}/pdf [get]
func (h *FacturasHandler) DescargarPDF(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	det, err := h.svc.Detalle(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	pdf, err := infra.GenerarFacturaPDF(det)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al generar el PDF"))
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.pdf", det.Folio))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// Enviar godoc
// @Summary      Enviar factura por correo
// @Description  Encola la generación del PDF y su envío por correo; el proceso corre en segundo plano.
// @Tags         facturas
// @Accept       json
// @Security     BearerAuth
// @Param        id   path string                  true "UUID de la factura"
// @Param        body body dto.EnviarFacturaRequest true "Destinatario"
// @Success      202
// @Failure      400 {object} apierror.APIError
// @Router       /v1/facturas/{id}/enviar [post]
func (h *FacturasHandler) Enviar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.EnviarFacturaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.EnviarPorCorreo(c.Request.Context(), id, req.Email); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusAccepted)
}
