package main

import (
	"bufio"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/sportshop/frontend/internal/cart"
	"github.com/sportshop/frontend/internal/checkout"
	"github.com/sportshop/frontend/internal/notify"
	"github.com/sportshop/frontend/internal/review"
	"github.com/sportshop/frontend/internal/search"
)

// terminalDocument plays the host page for the demo binary. The path is
// mutable so cart-page behavior can be exercised from the prompt.
type terminalDocument struct {
	mu    sync.Mutex
	token string
	path  string
}

func (d *terminalDocument) CSRFToken() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.token
}

func (d *terminalDocument) Path() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.path
}

func (d *terminalDocument) SetPath(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.path = path
}

func (d *terminalDocument) Reload() {
	fmt.Println("[page] перезагрузка страницы корзины")
}

func (d *terminalDocument) Navigate(url string) {
	fmt.Printf("[page] переход на %s\n", url)
	d.SetPath(url)
}

// terminalConfirmer asks the y/n question on the prompt.
type terminalConfirmer struct {
	in *bufio.Reader
}

func (c *terminalConfirmer) Confirm(prompt string) bool {
	fmt.Printf("%s [y/n]: ", prompt)
	line, err := c.in.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "д" || answer == "да"
}

// terminalSink prints notifications the way the page toaster would show them.
type terminalSink struct{}

func (terminalSink) Render(n notify.Notification) {
	marker := "✓"
	if n.Level == notify.LevelError {
		marker = "✗"
	}
	fmt.Printf("[%s] %s\n", marker, n.Message)
}

func (terminalSink) Remove(id uuid.UUID) {}

type terminalCartView struct{}

func (terminalCartView) SetCount(count int) {
	fmt.Printf("[cart] товаров в корзине: %d\n", count)
}

func (terminalCartView) MarkCountUpdated()  {}
func (terminalCartView) ClearCountUpdated() {}

func (terminalCartView) SetQuantity(productID string, qty int) {
	fmt.Printf("[cart] товар %s: количество %d\n", productID, qty)
}

func (terminalCartView) SetTotals(totals cart.TotalsText) {
	if totals.Subtotal != "" {
		fmt.Printf("[cart] сумма: %s\n", totals.Subtotal)
	}
	if totals.Discount != "" {
		fmt.Printf("[cart] скидка: %s\n", totals.Discount)
	}
	if totals.GrandTotal != "" {
		fmt.Printf("[cart] итого: %s\n", totals.GrandTotal)
	}
}

func (terminalCartView) RemoveLine(productID string) {
	fmt.Printf("[cart] строка товара %s убрана\n", productID)
}

func (terminalCartView) ShowEmpty(view cart.EmptyCartView) {
	fmt.Printf("%s %s\n%s\n(%s: %s)\n", view.Icon, view.Title, view.Text, view.CatalogLabel, view.CatalogURL)
}

type terminalSearchView struct{}

func (terminalSearchView) ShowResults(results search.ResultSet) {
	fmt.Printf("[search] результаты по запросу %q:\n", results.Query)
	for _, item := range results.Items {
		fmt.Printf("  %s — %s (%s)\n", item.Name, item.PriceText, item.URL)
	}
	fmt.Printf("  все результаты: %s\n", results.MoreURL)
}

func (terminalSearchView) ShowNoResults(query string) {
	fmt.Printf("[search] по запросу %q ничего не найдено\n", query)
}

func (terminalSearchView) Hide() {}

type terminalReviewView struct{}

func (terminalReviewView) ResetForm() {
	fmt.Println("[review] форма очищена")
}

func (terminalReviewView) SetAverageRating(value float64) {
	fmt.Printf("[review] средний рейтинг: %.1f\n", value)
}

func (terminalReviewView) SetReviewsCount(count int) {
	fmt.Printf("[review] всего отзывов: %d\n", count)
}

func (terminalReviewView) PrependReview(r review.Review) {
	fmt.Printf("[review] %s (%s): %d/5 — %s\n", r.Author, r.Created, r.Rating, r.Comment)
}

type terminalCheckoutView struct{}

func (terminalCheckoutView) ShowDeliveryInfo(option checkout.DeliveryOption, costText string) {
	fmt.Printf("[checkout] %s — %s, срок %s, стоимость %s\n", option.Title, option.Description, option.ETA, costText)
}

func (terminalCheckoutView) SetDeliveryCost(costText string) {
	fmt.Printf("[checkout] доставка: %s\n", costText)
}

func (terminalCheckoutView) SetTotal(totalText string) {
	fmt.Printf("[checkout] итого к оплате: %s\n", totalText)
}

func (terminalCheckoutView) ShowPaymentInfo(blurb string) {
	if blurb != "" {
		fmt.Printf("[checkout] %s\n", blurb)
	}
}

func (terminalCheckoutView) SetNewAddressFormVisible(visible bool) {
	if visible {
		fmt.Println("[checkout] форма нового адреса открыта")
	} else {
		fmt.Println("[checkout] форма нового адреса скрыта")
	}
}
