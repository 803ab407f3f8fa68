package model

import (
	"time"

	"github.com/google/uuid"
)

// Cita is an appointment. Estado: "programada" | "completada" | "cancelada".
type Cita struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PacienteID uuid.UUID `gorm:"type:uuid;not null;index"`
	Fecha      time.Time `gorm:"not null;index"`
	Motivo     string    `gorm:"not null"`
	Estado     string    `gorm:"type:varchar(20);not null;default:'programada'"`
	Notas      *string
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Paciente *Paciente `gorm:"foreignKey:PacienteID"`
}

func (Cita) TableName() string { return "citas" }
