package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Income represents a single income record owned by a user (by remotejid).
// Fonte is an optional free-text source ("salário", "freela", ...).
type Income struct {
	Base
	Usuario   string          `gorm:"not null;index" json:"usuario"`
	Descricao string          `gorm:"not null" json:"descricao"`
	Valor     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"valor"`
	Categoria Category        `gorm:"not null;index" json:"categoria"`
	Fonte     *string         `json:"fonte,omitempty"`
	Data      time.Time       `gorm:"not null;index" json:"data"`
}

// TableName keeps the original schema's table name.
func (Income) TableName() string { return "receitas" }
