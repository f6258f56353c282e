package search

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/sportshop/frontend/internal/page"
	"github.com/sportshop/frontend/pkg/config"
	pkgerrors "github.com/sportshop/frontend/pkg/errors"
	"github.com/sportshop/frontend/pkg/logger"
	"github.com/sportshop/frontend/pkg/money"
	"github.com/sportshop/frontend/pkg/sched"
)

const opSearch = "search"

// State of the query box.
type State int

const (
	StateIdle State = iota
	// StatePending means the debounce timer is running.
	StatePending
	// StateInFlight means a request was sent and no response has landed yet.
	StateInFlight
)

// Product is one entry of the server's live-search payload.
type Product struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Image string          `json:"image,omitempty"`
}

type searchResponse struct {
	Products []Product `json:"products"`
}

// ResultItem is a single rendered dropdown row.
type ResultItem struct {
	ID        string
	Name      string
	PriceText string
	Image     string
	URL       string
}

// ResultSet is what the dropdown shows for a query: at most the configured
// number of items plus a link to the full results page.
type ResultSet struct {
	Query   string
	Items   []ResultItem
	MoreURL string
}

// View is implemented by the binding layer that owns the results panel.
type View interface {
	ShowResults(results ResultSet)
	ShowNoResults(query string)
	Hide()
}

type apiClient interface {
	GetJSON(ctx context.Context, operation, path string, dest any) error
}

// Params groups dependencies for the search controller.
type Params struct {
	Client   apiClient
	View     View
	Document page.Document
	Logger   *logger.Logger
	Config   config.SearchConfig
}

// Controller owns the debounced query box. Debouncing is the only pre-request
// concurrency control; responses carry a sequence number so a slow early
// response can never overwrite a fresher one.
type Controller struct {
	client    apiClient
	view      View
	doc       page.Document
	logg      *logger.Logger
	cfg       config.SearchConfig
	debouncer *sched.Debouncer

	mu      sync.Mutex
	state   State
	issued  uint64
	applied uint64
	last    *ResultSet
}

// NewController builds a search controller with the required dependencies.
func NewController(params Params) (*Controller, error) {
	if params.Client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "api client is required")
	}
	if params.View == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "view is required")
	}
	if params.Document == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "document is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	if params.Config.Debounce <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "debounce must be positive")
	}
	return &Controller{
		client:    params.Client,
		view:      params.View,
		doc:       params.Document,
		logg:      params.Logger,
		cfg:       params.Config,
		debouncer: sched.NewDebouncer(params.Config.Debounce),
	}, nil
}

// SetQuery handles an input event. Too-short queries hide the panel and
// suppress pending and in-flight work; anything else restarts the debounce
// timer with the latest query.
func (c *Controller) SetQuery(ctx context.Context, raw string) {
	query := strings.TrimSpace(raw)
	if utf8.RuneCountInString(query) < c.cfg.MinQueryLength {
		c.debouncer.Cancel()
		c.mu.Lock()
		// Outstanding responses become stale so they cannot re-open
		// the panel after it was hidden.
		c.applied = c.issued
		c.state = StateIdle
		c.mu.Unlock()
		c.view.Hide()
		return
	}

	c.mu.Lock()
	c.state = StatePending
	c.mu.Unlock()
	c.debouncer.Trigger(func() {
		c.perform(ctx, query)
	})
}

// Submit handles the Enter key: it bypasses debouncing entirely and opens the
// full results page.
func (c *Controller) Submit(raw string) {
	query := strings.TrimSpace(raw)
	if query == "" {
		return
	}
	c.doc.Navigate(resultsPageURL(query))
}

// ClickAway hides the panel. Results stay in memory; only the next qualifying
// query makes them visible again.
func (c *Controller) ClickAway() {
	c.view.Hide()
}

// State reports where the query box currently is in its lifecycle.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// LastResults returns the most recently rendered result set, if any.
func (c *Controller) LastResults() *ResultSet {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.last == nil {
		return nil
	}
	copied := *c.last
	return &copied
}

// Close cancels any pending debounce timer.
func (c *Controller) Close() error {
	c.debouncer.Cancel()
	return nil
}

func (c *Controller) perform(ctx context.Context, query string) {
	c.mu.Lock()
	c.issued++
	seq := c.issued
	c.state = StateInFlight
	c.mu.Unlock()

	ctx = c.logg.WithField(ctx, "query", query)
	var resp searchResponse
	err := c.client.GetJSON(ctx, opSearch, "/search/?q="+url.QueryEscape(query)+"&format=json", &resp)

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq <= c.applied {
		c.logg.Debug(ctx, "stale search response discarded")
		return
	}
	if err != nil {
		// The panel keeps whatever it showed; the user simply types again.
		c.state = StateIdle
		c.logg.Error(ctx, "live search failed", err)
		return
	}
	c.applied = seq
	c.state = StateIdle

	if len(resp.Products) == 0 {
		c.last = nil
		c.view.ShowNoResults(query)
		return
	}

	results := ResultSet{
		Query:   query,
		MoreURL: resultsPageURL(query),
	}
	limit := c.cfg.MaxResults
	if limit <= 0 || limit > len(resp.Products) {
		limit = len(resp.Products)
	}
	for _, product := range resp.Products[:limit] {
		results.Items = append(results.Items, ResultItem{
			ID:        product.ID,
			Name:      product.Name,
			PriceText: money.Format(product.Price),
			Image:     product.Image,
			URL:       "/product/" + product.ID + "/",
		})
	}
	c.last = &results
	c.view.ShowResults(results)
}

func resultsPageURL(query string) string {
	return "/search/?q=" + url.QueryEscape(query)
}
