package stock

import (
	"time"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// TrendPoint un día de la serie: delta neto del día y saldo acumulado hasta
// ese día inclusive.
type TrendPoint struct {
	Date    string          `json:"date"` // YYYY-MM-DD (UTC)
	Balance decimal.Decimal `json:"balance"`
	Delta   decimal.Decimal `json:"delta"`
}

// buildTrend reconstruye la serie diaria de saldo para la ventana
// [end-days+1, end] a partir del historial completo del artículo.
// Los movimientos anteriores a la ventana siembran el saldo inicial; un día
// sin movimientos produce delta 0 y arrastra el saldo del día anterior.
// Es una función pura: regenerable en cada llamada, sin estado entre llamadas.
func buildTrend(movs []*entity.StockMovement, end time.Time, days int) []TrendPoint {
	endDay := end.UTC().Truncate(24 * time.Hour)
	startDay := endDay.AddDate(0, 0, -(days - 1))

	startBalance := decimal.Zero
	daily := make(map[string]decimal.Decimal)
	for _, m := range movs {
		d := m.MovedAt.UTC().Truncate(24 * time.Hour)
		delta := m.SignedQuantity()
		switch {
		case d.Before(startDay):
			startBalance = startBalance.Add(delta)
		case !d.After(endDay):
			key := d.Format("2006-01-02")
			daily[key] = daily[key].Add(delta)
		}
		// Movimientos posteriores a la ventana no afectan la serie.
	}

	series := make([]TrendPoint, 0, days)
	bal := startBalance
	for cur := startDay; !cur.After(endDay); cur = cur.AddDate(0, 0, 1) {
		key := cur.Format("2006-01-02")
		delta := daily[key]
		bal = bal.Add(delta)
		series = append(series, TrendPoint{Date: key, Balance: bal, Delta: delta})
	}
	return series
}
