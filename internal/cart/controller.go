package cart

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sportshop/frontend/internal/page"
	"github.com/sportshop/frontend/pkg/config"
	pkgerrors "github.com/sportshop/frontend/pkg/errors"
	"github.com/sportshop/frontend/pkg/logger"
	"github.com/sportshop/frontend/pkg/money"
)

const (
	opAdd    = "cart_add"
	opUpdate = "cart_update"
	opRemove = "cart_remove"
)

const (
	msgAdded        = "Товар добавлен в корзину"
	msgAddFailed    = "Ошибка при добавлении в корзину"
	msgUpdateFailed = "Ошибка при обновлении корзины"
	msgRemoved      = "Товар удален из корзины"
	msgRemoveFailed = "Ошибка при удалении из корзины"
	removePrompt    = "Удалить товар из корзины?"
)

type apiClient interface {
	PostJSON(ctx context.Context, operation, path string, body any, dest any) error
	PostEmpty(ctx context.Context, operation, path string, dest any) error
}

type notifier interface {
	Success(message string) uuid.UUID
	Error(message string) uuid.UUID
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

type mutationResponse struct {
	Success    bool             `json:"success"`
	Message    string           `json:"message"`
	Error      string           `json:"error"`
	Count      *int             `json:"cart_count"`
	Subtotal   *decimal.Decimal `json:"cart_subtotal"`
	Discount   *decimal.Decimal `json:"cart_discount"`
	GrandTotal *decimal.Decimal `json:"cart_grand_total"`
}

// Params groups dependencies for the cart controller.
type Params struct {
	Client    apiClient
	Notifier  notifier
	View      View
	Document  page.Document
	Confirmer page.Confirmer
	Logger    *logger.Logger
	Config    config.CartConfig
}

// Controller owns all cart-affecting interactions. Every public method is an
// independent operation; responses are applied in resolution order, and a
// per-product sequence guard drops responses older than the freshest one
// already applied.
type Controller struct {
	client  apiClient
	notif   notifier
	view    View
	doc     page.Document
	confirm page.Confirmer
	logg    *logger.Logger
	cfg     config.CartConfig

	mu         sync.Mutex
	summary    Summary
	issued     map[string]uint64
	applied    map[string]uint64
	pulseTimer *time.Timer
}

// NewController builds a cart controller with the required dependencies.
func NewController(params Params) (*Controller, error) {
	if params.Client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "api client is required")
	}
	if params.Notifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "notifier is required")
	}
	if params.View == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "view is required")
	}
	if params.Document == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "document is required")
	}
	if params.Confirmer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "confirmer is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &Controller{
		client:  params.Client,
		notif:   params.Notifier,
		view:    params.View,
		doc:     params.Document,
		confirm: params.Confirmer,
		logg:    params.Logger,
		cfg:     params.Config,
		issued:  map[string]uint64{},
		applied: map[string]uint64{},
	}, nil
}

// Summary returns the last server-reported cart snapshot.
func (c *Controller) Summary() Summary {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.summary
}

// Clamp bounds a requested quantity to the configured range.
func (c *Controller) Clamp(quantity int) int {
	if quantity < c.cfg.MinQuantity {
		return c.cfg.MinQuantity
	}
	if quantity > c.cfg.MaxQuantity {
		return c.cfg.MaxQuantity
	}
	return quantity
}

// ItemTotal formats the line total preview for a quantity change.
func (c *Controller) ItemTotal(unitPrice decimal.Decimal, quantity int) string {
	return money.Format(unitPrice.Mul(decimal.NewFromInt(int64(quantity))))
}

// AddToCart posts an add request and refreshes the count display. While on
// the cart page the whole page is reloaded instead of reconciling line state.
func (c *Controller) AddToCart(ctx context.Context, productID string, quantity int) {
	ctx = c.logg.WithProductID(ctx, productID)
	quantity = c.Clamp(quantity)

	seq := c.nextSeq(productID)
	var resp mutationResponse
	err := c.client.PostJSON(ctx, opAdd, "/cart/add/"+productID+"/", quantityRequest{Quantity: quantity}, &resp)
	if err == nil && !resp.Success {
		err = pkgerrors.New(pkgerrors.CodeServerRejected, resp.Error)
	}
	if err != nil {
		c.notif.Error(pkgerrors.UserMessage(err, msgAddFailed))
		return
	}

	message := resp.Message
	if message == "" {
		message = msgAdded
	}
	c.notif.Success(message)
	c.apply(ctx, productID, seq, resp, applyOptions{})

	if page.OnCart(c.doc) {
		c.doc.Reload()
	}
}

// Increment raises the line quantity by one, clamped to the allowed range.
func (c *Controller) Increment(ctx context.Context, productID string, current int) {
	c.SetQuantity(ctx, productID, current+1)
}

// Decrement lowers the line quantity by one, clamped to the allowed range.
func (c *Controller) Decrement(ctx context.Context, productID string, current int) {
	c.SetQuantity(ctx, productID, current-1)
}

// SetQuantity clamps and optimistically displays the new quantity, then posts
// the update. A failed update leaves the displayed quantity as-is; the next
// successful sync or reload restores consistency.
func (c *Controller) SetQuantity(ctx context.Context, productID string, quantity int) {
	ctx = c.logg.WithProductID(ctx, productID)
	quantity = c.Clamp(quantity)
	c.view.SetQuantity(productID, quantity)

	seq := c.nextSeq(productID)
	var resp mutationResponse
	err := c.client.PostJSON(ctx, opUpdate, "/cart/update/"+productID+"/", quantityRequest{Quantity: quantity}, &resp)
	if err == nil && !resp.Success {
		err = pkgerrors.New(pkgerrors.CodeServerRejected, resp.Error)
	}
	if err != nil {
		c.notif.Error(pkgerrors.UserMessage(err, msgUpdateFailed))
		return
	}

	c.apply(ctx, productID, seq, resp, applyOptions{totals: page.OnCart(c.doc)})
}

// Remove asks for confirmation, posts the removal, and drops the line from
// the page. A zero count from the server swaps in the empty-cart view.
func (c *Controller) Remove(ctx context.Context, productID string) {
	ctx = c.logg.WithProductID(ctx, productID)
	if !c.confirm.Confirm(removePrompt) {
		c.logg.Debug(ctx, "cart removal declined")
		return
	}

	seq := c.nextSeq(productID)
	var resp mutationResponse
	err := c.client.PostEmpty(ctx, opRemove, "/cart/remove/"+productID+"/", &resp)
	if err == nil && !resp.Success {
		err = pkgerrors.New(pkgerrors.CodeServerRejected, resp.Error)
	}
	if err != nil {
		c.notif.Error(pkgerrors.UserMessage(err, msgRemoveFailed))
		return
	}

	c.notif.Success(msgRemoved)
	c.apply(ctx, productID, seq, resp, applyOptions{
		totals:     page.OnCart(c.doc),
		removeLine: page.OnCart(c.doc),
	})
}

type applyOptions struct {
	totals     bool
	removeLine bool
}

func (c *Controller) nextSeq(productID string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.issued[productID]++
	return c.issued[productID]
}

// apply folds a server response into the summary and the view, unless a
// fresher response for the same product has been applied already.
func (c *Controller) apply(ctx context.Context, productID string, seq uint64, resp mutationResponse, opts applyOptions) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if seq <= c.applied[productID] {
		c.logg.Debug(ctx, "stale cart response discarded")
		return
	}
	c.applied[productID] = seq

	if opts.removeLine {
		c.view.RemoveLine(productID)
	}

	if resp.Count != nil {
		c.summary.Count = *resp.Count
		c.view.SetCount(*resp.Count)
		c.pulseLocked()
	}

	totals := TotalsText{}
	if resp.Subtotal != nil {
		c.summary.Subtotal = *resp.Subtotal
		totals.Subtotal = money.Format(*resp.Subtotal)
	}
	if resp.Discount != nil {
		c.summary.Discount = *resp.Discount
		totals.Discount = money.Format(*resp.Discount)
	}
	if resp.GrandTotal != nil {
		c.summary.GrandTotal = *resp.GrandTotal
		totals.GrandTotal = money.Format(*resp.GrandTotal)
	}
	if opts.totals && totals != (TotalsText{}) {
		c.view.SetTotals(totals)
	}

	if opts.removeLine && resp.Count != nil && *resp.Count == 0 {
		c.view.ShowEmpty(DefaultEmptyCart)
	}
}

// pulseLocked re-triggers the count highlight. Repeated calls restart the
// removal timer instead of stacking clears.
func (c *Controller) pulseLocked() {
	c.view.MarkCountUpdated()
	if c.pulseTimer != nil {
		c.pulseTimer.Stop()
	}
	pulse := c.cfg.PulseDuration
	if pulse <= 0 {
		pulse = 300 * time.Millisecond
	}
	c.pulseTimer = time.AfterFunc(pulse, c.view.ClearCountUpdated)
}
