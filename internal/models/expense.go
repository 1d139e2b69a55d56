package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts are serialized as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Category is the closed set of financial categories shared by expenses and
// incomes.
type Category string

const (
	CategoryAlimentacao Category = "Alimentação"
	CategoryTransporte  Category = "Transporte"
	CategoryMoradia     Category = "Moradia"
	CategorySaude       Category = "Saúde"
	CategoryEducacao    Category = "Educação"
	CategoryLazer       Category = "Lazer"
	CategoryCompras     Category = "Compras"
	CategoryOutros      Category = "Outros"
)

// Categories returns all valid categories.
func Categories() []Category {
	return []Category{
		CategoryAlimentacao,
		CategoryTransporte,
		CategoryMoradia,
		CategorySaude,
		CategoryEducacao,
		CategoryLazer,
		CategoryCompras,
		CategoryOutros,
	}
}

// ValidCategory reports whether c belongs to the closed category set.
func ValidCategory(c Category) bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// Expense represents a single expense record owned by a user (by remotejid).
type Expense struct {
	Base
	Usuario   string          `gorm:"not null;index" json:"usuario"`
	Descricao string          `gorm:"not null" json:"descricao"`
	Valor     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"valor"`
	Categoria Category        `gorm:"not null;index" json:"categoria"`
	Data      time.Time       `gorm:"not null;index" json:"data"`
}

// TableName keeps the original schema's table name.
func (Expense) TableName() string { return "gastos" }
