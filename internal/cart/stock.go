package cart

import "fmt"

// StockLevel classifies how a product's availability is displayed.
type StockLevel string

const (
	StockOut       StockLevel = "out"
	StockLow       StockLevel = "low"
	StockAvailable StockLevel = "available"
)

const lowStockThreshold = 10

// ClassifyStock maps an on-hand quantity to its indicator level and label.
func ClassifyStock(quantity int) (StockLevel, string) {
	switch {
	case quantity <= 0:
		return StockOut, "Нет в наличии"
	case quantity < lowStockThreshold:
		return StockLow, fmt.Sprintf("Осталось %d шт.", quantity)
	default:
		return StockAvailable, "В наличии"
	}
}
