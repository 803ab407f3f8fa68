package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Receta stores one optical prescription for a paciente.
// Graduación values follow the usual optometry notation: esfera and cilindro
// in diopters (quarter steps), eje in degrees 0–180.
type Receta struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PacienteID uuid.UUID `gorm:"type:uuid;not null;index"`
	Fecha      time.Time `gorm:"not null"`

	// Ojo derecho
	EsferaOD   *decimal.Decimal `gorm:"type:decimal(5,2);column:esfera_od"`
	CilindroOD *decimal.Decimal `gorm:"type:decimal(5,2);column:cilindro_od"`
	EjeOD      *int             `gorm:"column:eje_od"`

	// Ojo izquierdo
	EsferaOI   *decimal.Decimal `gorm:"type:decimal(5,2);column:esfera_oi"`
	CilindroOI *decimal.Decimal `gorm:"type:decimal(5,2);column:cilindro_oi"`
	EjeOI      *int             `gorm:"column:eje_oi"`

	Adicion   *decimal.Decimal `gorm:"type:decimal(5,2)"`
	TipoLente *string          `gorm:"type:varchar(40)"` // monofocal | bifocal | progresivo
	Material  *string
	Notas     *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Receta) TableName() string { return "recetas" }
