package dto

type CrearCitaRequest struct {
	PacienteID string  `json:"paciente_id" validate:"required,uuid"`
	Fecha      string  `json:"fecha"       validate:"required"`
	Motivo     string  `json:"motivo"      validate:"required,min=3"`
	Notas      *string `json:"notas"`
}

type ActualizarCitaRequest struct {
	Fecha  string  `json:"fecha"  validate:"omitempty"`
	Motivo string  `json:"motivo" validate:"omitempty,min=3"`
	Estado string  `json:"estado" validate:"omitempty,oneof=programada completada cancelada"`
	Notas  *string `json:"notas"`
}

type CitaFilter struct {
	PacienteID string `form:"paciente_id" validate:"omitempty,uuid"`
	Fecha      string `form:"fecha"`
	Estado     string `form:"estado" validate:"omitempty,oneof=programada completada cancelada all"`
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type CitaResponse struct {
	ID             string  `json:"id"`
	PacienteID     string  `json:"paciente_id"`
	PacienteNombre string  `json:"paciente_nombre"`
	Fecha          string  `json:"fecha"`
	Motivo         string  `json:"motivo"`
	Estado         string  `json:"estado"`
	Notas          *string `json:"notas"`
}

type CitaListResponse struct {
	Data  []CitaResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}
