package dto

import "github.com/shopspring/decimal"

// ─── Pacientes ───────────────────────────────────────────────────────────────

type CrearPacienteRequest struct {
	Nombre          string  `json:"nombre"           validate:"required,min=2,max=100"`
	ApellidoPaterno string  `json:"apellido_paterno" validate:"required,min=2,max=100"`
	ApellidoMaterno *string `json:"apellido_materno" validate:"omitempty,max=100"`
	Telefono        *string `json:"telefono"         validate:"omitempty,min=7,max=20"`
	Email           *string `json:"email"            validate:"omitempty,email"`
	Direccion       *string `json:"direccion"`
	FechaNacimiento *string `json:"fecha_nacimiento" validate:"omitempty,datetime=2006-01-02"`
	Notas           *string `json:"notas"`
}

type ActualizarPacienteRequest struct {
	Nombre          string  `json:"nombre"           validate:"omitempty,min=2,max=100"`
	ApellidoPaterno string  `json:"apellido_paterno" validate:"omitempty,min=2,max=100"`
	ApellidoMaterno *string `json:"apellido_materno" validate:"omitempty,max=100"`
	Telefono        *string `json:"telefono"         validate:"omitempty,min=7,max=20"`
	Email           *string `json:"email"            validate:"omitempty,email"`
	Direccion       *string `json:"direccion"`
	Notas           *string `json:"notas"`
}

// PacienteFilter backs the search-by-name/phone lookup consumed by the
// invoice draft.
type PacienteFilter struct {
	Buscar string `form:"buscar"`
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type PacienteResponse struct {
	ID              string  `json:"id"`
	Nombre          string  `json:"nombre"`
	ApellidoPaterno string  `json:"apellido_paterno"`
	ApellidoMaterno *string `json:"apellido_materno"`
	NombreCompleto  string  `json:"nombre_completo"`
	Telefono        *string `json:"telefono"`
	Email           *string `json:"email"`
	Direccion       *string `json:"direccion"`
	Notas           *string `json:"notas"`
	Activo          bool    `json:"activo"`
}

type PacienteListResponse struct {
	Data  []PacienteResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

// ─── Recetas ─────────────────────────────────────────────────────────────────

type CrearRecetaRequest struct {
	Fecha      string           `json:"fecha"       validate:"required,datetime=2006-01-02"`
	EsferaOD   *decimal.Decimal `json:"esfera_od"`
	CilindroOD *decimal.Decimal `json:"cilindro_od"`
	EjeOD      *int             `json:"eje_od"      validate:"omitempty,min=0,max=180"`
	EsferaOI   *decimal.Decimal `json:"esfera_oi"`
	CilindroOI *decimal.Decimal `json:"cilindro_oi"`
	EjeOI      *int             `json:"eje_oi"      validate:"omitempty,min=0,max=180"`
	Adicion    *decimal.Decimal `json:"adicion"`
	TipoLente  *string          `json:"tipo_lente"  validate:"omitempty,oneof=monofocal bifocal progresivo"`
	Material   *string          `json:"material"`
	Notas      *string          `json:"notas"`
}

type RecetaResponse struct {
	ID         string           `json:"id"`
	PacienteID string           `json:"paciente_id"`
	Fecha      string           `json:"fecha"`
	EsferaOD   *decimal.Decimal `json:"esfera_od"`
	CilindroOD *decimal.Decimal `json:"cilindro_od"`
	EjeOD      *int             `json:"eje_od"`
	EsferaOI   *decimal.Decimal `json:"esfera_oi"`
	CilindroOI *decimal.Decimal `json:"cilindro_oi"`
	EjeOI      *int             `json:"eje_oi"`
	Adicion    *decimal.Decimal `json:"adicion"`
	TipoLente  *string          `json:"tipo_lente"`
	Material   *string          `json:"material"`
	Notas      *string          `json:"notas"`
}
