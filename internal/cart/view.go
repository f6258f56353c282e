package cart

import "github.com/shopspring/decimal"

// Summary mirrors the last server-reported cart state. The server owns the
// cart; this struct is only a transient snapshot of its last response.
type Summary struct {
	Count      int
	Subtotal   decimal.Decimal
	Discount   decimal.Decimal
	GrandTotal decimal.Decimal
}

// TotalsText carries formatted totals for display. Empty fields were absent
// from the server response and must be left unchanged.
type TotalsText struct {
	Subtotal   string
	Discount   string
	GrandTotal string
}

// EmptyCartView is the content shown when the server reports an emptied cart.
type EmptyCartView struct {
	Icon         string
	Title        string
	Text         string
	CatalogURL   string
	CatalogLabel string
}

// DefaultEmptyCart mirrors the storefront's empty-cart markup.
var DefaultEmptyCart = EmptyCartView{
	Icon:         "🛒",
	Title:        "Ваша корзина пуста",
	Text:         "Добавьте товары из каталога, чтобы сделать заказ",
	CatalogURL:   "/catalog/",
	CatalogLabel: "Перейти в каталог",
}

// View is implemented by the binding layer that owns the cart presentation.
type View interface {
	SetCount(count int)
	// MarkCountUpdated applies the visual pulse on the count display;
	// ClearCountUpdated removes it shortly after.
	MarkCountUpdated()
	ClearCountUpdated()
	SetQuantity(productID string, quantity int)
	SetTotals(totals TotalsText)
	RemoveLine(productID string)
	ShowEmpty(view EmptyCartView)
}
