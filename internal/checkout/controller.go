package checkout

import (
	"sync"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/sportshop/frontend/pkg/errors"
	"github.com/sportshop/frontend/pkg/logger"
	"github.com/sportshop/frontend/pkg/money"
)

const freeDeliveryLabel = "Бесплатно"

// View is implemented by the binding layer that owns the checkout form.
type View interface {
	ShowDeliveryInfo(option DeliveryOption, costText string)
	SetDeliveryCost(costText string)
	SetTotal(totalText string)
	ShowPaymentInfo(blurb string)
	SetNewAddressFormVisible(visible bool)
}

// Params groups dependencies for the checkout controller.
type Params struct {
	// Subtotal is read once from the order summary data attribute; it is
	// never refetched during the page's lifetime.
	Subtotal decimal.Decimal
	View     View
	Logger   *logger.Logger
}

// Controller recomputes checkout totals locally. It never talks to the
// server: the cost table is static and the subtotal is already on the page.
type Controller struct {
	view View
	logg *logger.Logger

	mu             sync.Mutex
	subtotal       decimal.Decimal
	selected       DeliveryMethod
	addressID      string
	addressVisible bool
}

// NewController builds a checkout controller with the required dependencies.
func NewController(params Params) (*Controller, error) {
	if params.View == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "view is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	if params.Subtotal.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "subtotal cannot be negative")
	}
	return &Controller{
		view:     params.View,
		logg:     params.Logger,
		subtotal: params.Subtotal,
		selected: DeliveryCourier,
	}, nil
}

// SelectDelivery updates the delivery details and recomputes the order total.
func (c *Controller) SelectDelivery(method DeliveryMethod) {
	option := OptionFor(method)

	c.mu.Lock()
	c.selected = option.Method
	total := c.subtotal.Add(option.Cost)
	c.mu.Unlock()

	costText := freeDeliveryLabel
	if option.Cost.IsPositive() {
		costText = money.Format(option.Cost)
	}
	c.view.ShowDeliveryInfo(option, costText)
	c.view.SetDeliveryCost(costText)
	c.view.SetTotal(money.Format(total))
}

// SelectPayment shows the static explanation for the chosen payment method.
func (c *Controller) SelectPayment(method PaymentMethod) {
	c.view.ShowPaymentInfo(PaymentBlurb(method))
}

// SelectAddress records the chosen address for the eventual form submission.
func (c *Controller) SelectAddress(addressID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.addressID = addressID
}

// AddressID returns the currently selected address id, empty if none.
func (c *Controller) AddressID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.addressID
}

// ToggleNewAddressForm flips the visibility of the hidden new-address form.
func (c *Controller) ToggleNewAddressForm() {
	c.mu.Lock()
	c.addressVisible = !c.addressVisible
	visible := c.addressVisible
	c.mu.Unlock()
	c.view.SetNewAddressFormVisible(visible)
}

// Total returns the current order total for the selected delivery method.
func (c *Controller) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.subtotal.Add(OptionFor(c.selected).Cost)
}

// Selected returns the currently selected delivery method.
func (c *Controller) Selected() DeliveryMethod {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected
}
