// Package app wires the storefront interaction core together: one API
// client, one notifier, and the four page controllers, all built from a
// single config and the capabilities the host page provides.
package app

import (
	"net/http"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/sportshop/frontend/internal/api"
	"github.com/sportshop/frontend/internal/cart"
	"github.com/sportshop/frontend/internal/checkout"
	"github.com/sportshop/frontend/internal/notify"
	"github.com/sportshop/frontend/internal/page"
	"github.com/sportshop/frontend/internal/review"
	"github.com/sportshop/frontend/internal/search"
	"github.com/sportshop/frontend/pkg/config"
	pkgerrors "github.com/sportshop/frontend/pkg/errors"
	"github.com/sportshop/frontend/pkg/logger"
	"github.com/sportshop/frontend/pkg/metrics"
)

// Views bundles the render surfaces the host page implements. Checkout may
// be nil on pages without a checkout form.
type Views struct {
	Cart     cart.View
	Search   search.View
	Review   review.View
	Checkout checkout.View
}

// Params groups everything the composition root needs from the host.
type Params struct {
	Config    *config.Config
	Logger    *logger.Logger
	Document  page.Document
	Confirmer page.Confirmer
	Sink      notify.Sink
	Views     Views
	// Subtotal seeds the checkout controller; ignored when Views.Checkout
	// is nil.
	Subtotal decimal.Decimal
	// HTTPClient overrides the transport, mainly for tests. Nil gets a
	// default client with the configured request timeout.
	HTTPClient *http.Client
	Metrics    *metrics.RequestMetrics
}

// App holds the assembled controllers for one page.
type App struct {
	Client   *api.Client
	Notifier *notify.Notifier
	Cart     *cart.Controller
	Search   *search.Controller
	Review   *review.Controller
	Checkout *checkout.Controller
}

// New assembles the interaction core. Every controller shares the same
// client, notifier, and logger.
func New(params Params) (*App, error) {
	if params.Config == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "config is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}

	httpClient := params.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: params.Config.API.RequestTimeout}
	}

	client, err := api.NewClient(api.Params{
		BaseURL:    params.Config.API.BaseURL,
		Document:   params.Document,
		HTTPClient: httpClient,
		Logger:     params.Logger,
		Metrics:    params.Metrics,
	})
	if err != nil {
		return nil, err
	}

	notifier, err := notify.NewNotifier(notify.Params{
		Sink:         params.Sink,
		DismissAfter: params.Config.Notify.DismissAfter,
		Logger:       params.Logger,
	})
	if err != nil {
		return nil, err
	}

	cartCtrl, err := cart.NewController(cart.Params{
		Client:    client,
		Notifier:  notifier,
		View:      params.Views.Cart,
		Document:  params.Document,
		Confirmer: params.Confirmer,
		Logger:    params.Logger,
		Config:    params.Config.Cart,
	})
	if err != nil {
		return nil, err
	}

	searchCtrl, err := search.NewController(search.Params{
		Client:   client,
		View:     params.Views.Search,
		Document: params.Document,
		Logger:   params.Logger,
		Config:   params.Config.Search,
	})
	if err != nil {
		return nil, err
	}

	reviewCtrl, err := review.NewController(review.Params{
		Client:   client,
		Notifier: notifier,
		View:     params.Views.Review,
		Logger:   params.Logger,
	})
	if err != nil {
		return nil, err
	}

	app := &App{
		Client:   client,
		Notifier: notifier,
		Cart:     cartCtrl,
		Search:   searchCtrl,
		Review:   reviewCtrl,
	}

	if params.Views.Checkout != nil {
		checkoutCtrl, err := checkout.NewController(checkout.Params{
			Subtotal: params.Subtotal,
			View:     params.Views.Checkout,
			Logger:   params.Logger,
		})
		if err != nil {
			return nil, err
		}
		app.Checkout = checkoutCtrl
	}

	return app, nil
}

// Close stops the pending timers owned by the core. Safe to call once the
// page is being torn down; in-flight requests are left to finish.
func (a *App) Close() error {
	var err error
	err = multierr.Append(err, a.Search.Close())
	err = multierr.Append(err, a.Notifier.Close())
	return err
}
