package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Promocion is a marketing promotion with a validity window.
type Promocion struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Titulo      string    `gorm:"not null"`
	Descripcion *string
	// DescuentoPct is informational — promos do not feed invoice totals.
	DescuentoPct *decimal.Decimal `gorm:"type:decimal(5,2)"`
	FechaInicio  time.Time        `gorm:"not null"`
	FechaFin     time.Time        `gorm:"not null"`
	ImagenURL    *string          `gorm:"column:imagen_url"`
	Activo       bool             `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Promocion) TableName() string { return "promociones" }

// Vigente reports whether the promo window covers the given instant.
func (p *Promocion) Vigente(t time.Time) bool {
	return p.Activo && !t.Before(p.FechaInicio) && !t.After(p.FechaFin)
}
