package model

import (
	"time"

	"github.com/google/uuid"
)

// Paciente is a patient of the optical shop.
type Paciente struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre          string    `gorm:"index;not null"`
	ApellidoPaterno string    `gorm:"not null"`
	ApellidoMaterno *string
	Telefono        *string `gorm:"index"`
	Email           *string
	Direccion       *string
	FechaNacimiento *time.Time
	Notas           *string
	Activo          bool `gorm:"not null;default:true"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Recetas []Receta `gorm:"foreignKey:PacienteID"`
}

func (Paciente) TableName() string { return "pacientes" }

// NombreCompleto joins the name parts for display and search results.
func (p *Paciente) NombreCompleto() string {
	nombre := p.Nombre + " " + p.ApellidoPaterno
	if p.ApellidoMaterno != nil && *p.ApellidoMaterno != "" {
		nombre += " " + *p.ApellidoMaterno
	}
	return nombre
}
