package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del libro de stock (conjunto cerrado).
const (
	MovementKindIN     = "IN"     // entrada, cantidad positiva
	MovementKindOUT    = "OUT"    // salida, cantidad positiva (la agregación la resta)
	MovementKindADJUST = "ADJUST" // ajuste, delta con signo explícito
)

// StockMovement es una entrada del libro: una vez escrita no se actualiza ni
// se borra. Las correcciones son nuevos movimientos ADJUST.
type StockMovement struct {
	ID       string
	ItemID   string
	Kind     string
	Quantity decimal.Decimal
	Ref      string // referencia libre (orden de compra, remisión, etc.)
	MovedAt  time.Time
}

// ValidKind indica si kind pertenece al conjunto cerrado {IN, OUT, ADJUST}.
func ValidKind(kind string) bool {
	switch kind {
	case MovementKindIN, MovementKindOUT, MovementKindADJUST:
		return true
	}
	return false
}

// SignedQuantity devuelve el efecto del movimiento sobre el saldo:
// IN suma, OUT resta, ADJUST aplica su delta tal cual.
func (m *StockMovement) SignedQuantity() decimal.Decimal {
	if m.Kind == MovementKindOUT {
		return m.Quantity.Neg()
	}
	return m.Quantity
}
