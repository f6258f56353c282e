package cart

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sportshop/frontend/pkg/config"
	pkgerrors "github.com/sportshop/frontend/pkg/errors"
	"github.com/sportshop/frontend/pkg/logger"
)

type stubClient struct {
	postJSON  func(ctx context.Context, operation, path string, body any, dest any) error
	postEmpty func(ctx context.Context, operation, path string, dest any) error
}

func (s *stubClient) PostJSON(ctx context.Context, operation, path string, body any, dest any) error {
	return s.postJSON(ctx, operation, path, body, dest)
}

func (s *stubClient) PostEmpty(ctx context.Context, operation, path string, dest any) error {
	return s.postEmpty(ctx, operation, path, dest)
}

type stubNotifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (s *stubNotifier) Success(message string) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.successes = append(s.successes, message)
	return uuid.New()
}

func (s *stubNotifier) Error(message string) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors = append(s.errors, message)
	return uuid.New()
}

type recordingView struct {
	mu         sync.Mutex
	counts     []int
	marks      int
	clears     int
	quantities map[string]int
	totals     []TotalsText
	removed    []string
	emptyShown bool
}

func newRecordingView() *recordingView {
	return &recordingView{quantities: map[string]int{}}
}

func (v *recordingView) SetCount(count int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.counts = append(v.counts, count)
}

func (v *recordingView) MarkCountUpdated() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.marks++
}

func (v *recordingView) ClearCountUpdated() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.clears++
}

func (v *recordingView) SetQuantity(productID string, quantity int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.quantities[productID] = quantity
}

func (v *recordingView) SetTotals(totals TotalsText) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.totals = append(v.totals, totals)
}

func (v *recordingView) RemoveLine(productID string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.removed = append(v.removed, productID)
}

func (v *recordingView) ShowEmpty(view EmptyCartView) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.emptyShown = true
}

type stubDocument struct {
	mu       sync.Mutex
	path     string
	reloaded bool
}

func (d *stubDocument) CSRFToken() string { return "token" }

func (d *stubDocument) Path() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.path
}

func (d *stubDocument) Reload() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.reloaded = true
}

func (d *stubDocument) Navigate(url string) {}

type alwaysConfirm bool

func (a alwaysConfirm) Confirm(prompt string) bool { return bool(a) }

func testCartConfig() config.CartConfig {
	return config.CartConfig{MinQuantity: 1, MaxQuantity: 99, PulseDuration: 20 * time.Millisecond}
}

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func intPtr(n int) *int { return &n }

func newTestController(t *testing.T, client apiClient, view View, notif *stubNotifier, doc *stubDocument, confirm alwaysConfirm) *Controller {
	t.Helper()
	ctrl, err := NewController(Params{
		Client:    client,
		Notifier:  notif,
		View:      view,
		Document:  doc,
		Confirmer: confirm,
		Logger:    logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		Config:    testCartConfig(),
	})
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	return ctrl
}

func TestAddToCartSuccessUpdatesCountAndNotifies(t *testing.T) {
	t.Parallel()

	client := &stubClient{
		postJSON: func(ctx context.Context, operation, path string, body any, dest any) error {
			resp := dest.(*mutationResponse)
			resp.Success = true
			resp.Message = "Товар добавлен в корзину"
			resp.Count = intPtr(3)
			return nil
		},
	}
	view := newRecordingView()
	notif := &stubNotifier{}
	doc := &stubDocument{path: "/product/10/"}
	ctrl := newTestController(t, client, view, notif, doc, true)

	ctrl.AddToCart(context.Background(), "10", 1)

	if len(notif.successes) != 1 {
		t.Fatalf("expected one success notification, got %+v", notif)
	}
	if got := ctrl.Summary().Count; got != 3 {
		t.Fatalf("expected summary count 3, got %d", got)
	}
	if len(view.counts) != 1 || view.counts[0] != 3 {
		t.Fatalf("expected count display update, got %+v", view.counts)
	}
	if doc.reloaded {
		t.Fatal("must not reload outside the cart page")
	}
}

func TestAddToCartReloadsOnCartPage(t *testing.T) {
	t.Parallel()

	client := &stubClient{
		postJSON: func(ctx context.Context, operation, path string, body any, dest any) error {
			resp := dest.(*mutationResponse)
			resp.Success = true
			resp.Count = intPtr(1)
			return nil
		},
	}
	doc := &stubDocument{path: "/cart/"}
	ctrl := newTestController(t, client, newRecordingView(), &stubNotifier{}, doc, true)

	ctrl.AddToCart(context.Background(), "10", 1)

	if !doc.reloaded {
		t.Fatal("expected full reload on the cart page")
	}
}

func TestAddToCartRejectionShowsServerError(t *testing.T) {
	t.Parallel()

	client := &stubClient{
		postJSON: func(ctx context.Context, operation, path string, body any, dest any) error {
			resp := dest.(*mutationResponse)
			resp.Success = false
			resp.Error = "Товар отсутствует на складе"
			return nil
		},
	}
	view := newRecordingView()
	notif := &stubNotifier{}
	ctrl := newTestController(t, client, view, notif, &stubDocument{path: "/product/10/"}, true)

	ctrl.AddToCart(context.Background(), "10", 1)

	if len(notif.errors) != 1 || notif.errors[0] != "Товар отсутствует на складе" {
		t.Fatalf("expected verbatim server error, got %+v", notif.errors)
	}
	if len(view.counts) != 0 {
		t.Fatal("count display must stay unchanged on failure")
	}
}

func TestAddToCartNetworkFailureUsesFallbackMessage(t *testing.T) {
	t.Parallel()

	client := &stubClient{
		postJSON: func(ctx context.Context, operation, path string, body any, dest any) error {
			return pkgerrors.New(pkgerrors.CodeNetwork, "dial tcp: refused")
		},
	}
	notif := &stubNotifier{}
	ctrl := newTestController(t, client, newRecordingView(), notif, &stubDocument{path: "/product/10/"}, true)

	ctrl.AddToCart(context.Background(), "10", 1)

	if len(notif.errors) != 1 || notif.errors[0] != "Ошибка при добавлении в корзину" {
		t.Fatalf("expected localized fallback, got %+v", notif.errors)
	}
}

func TestSetQuantityClampsBeforeRequest(t *testing.T) {
	t.Parallel()

	var sent []int
	client := &stubClient{
		postJSON: func(ctx context.Context, operation, path string, body any, dest any) error {
			sent = append(sent, body.(quantityRequest).Quantity)
			resp := dest.(*mutationResponse)
			resp.Success = true
			resp.Count = intPtr(1)
			return nil
		},
	}
	view := newRecordingView()
	ctrl := newTestController(t, client, view, &stubNotifier{}, &stubDocument{path: "/cart/"}, true)

	ctrl.SetQuantity(context.Background(), "10", 150)
	ctrl.SetQuantity(context.Background(), "10", -5)
	ctrl.Increment(context.Background(), "10", 99)
	ctrl.Decrement(context.Background(), "10", 1)

	want := []int{99, 1, 99, 1}
	if len(sent) != len(want) {
		t.Fatalf("expected %d requests, got %d", len(want), len(sent))
	}
	for i, q := range want {
		if sent[i] != q {
			t.Fatalf("request %d: expected quantity %d, got %d", i, q, sent[i])
		}
	}
	if view.quantities["10"] != 1 {
		t.Fatalf("expected displayed quantity 1, got %d", view.quantities["10"])
	}
}

func TestSetQuantityFailureKeepsOptimisticDisplay(t *testing.T) {
	t.Parallel()

	client := &stubClient{
		postJSON: func(ctx context.Context, operation, path string, body any, dest any) error {
			return pkgerrors.New(pkgerrors.CodeNetwork, "timeout")
		},
	}
	view := newRecordingView()
	notif := &stubNotifier{}
	ctrl := newTestController(t, client, view, notif, &stubDocument{path: "/cart/"}, true)

	ctrl.SetQuantity(context.Background(), "10", 5)

	if view.quantities["10"] != 5 {
		t.Fatalf("optimistic quantity must remain displayed, got %d", view.quantities["10"])
	}
	if len(notif.errors) != 1 {
		t.Fatalf("expected one error notification, got %+v", notif.errors)
	}
}

func TestRemoveDeclinedSkipsRequest(t *testing.T) {
	t.Parallel()

	called := false
	client := &stubClient{
		postEmpty: func(ctx context.Context, operation, path string, dest any) error {
			called = true
			return nil
		},
	}
	ctrl := newTestController(t, client, newRecordingView(), &stubNotifier{}, &stubDocument{path: "/cart/"}, false)

	ctrl.Remove(context.Background(), "10")

	if called {
		t.Fatal("declined confirmation must not issue a request")
	}
}

func TestRemoveEmptiesCartOnZeroCount(t *testing.T) {
	t.Parallel()

	client := &stubClient{
		postEmpty: func(ctx context.Context, operation, path string, dest any) error {
			resp := dest.(*mutationResponse)
			resp.Success = true
			resp.Count = intPtr(0)
			resp.Subtotal = decPtr("0")
			resp.Discount = decPtr("0")
			resp.GrandTotal = decPtr("0")
			return nil
		},
	}
	view := newRecordingView()
	notif := &stubNotifier{}
	ctrl := newTestController(t, client, view, notif, &stubDocument{path: "/cart/"}, true)

	ctrl.Remove(context.Background(), "10")

	if len(view.removed) != 1 || view.removed[0] != "10" {
		t.Fatalf("expected line removal, got %+v", view.removed)
	}
	if !view.emptyShown {
		t.Fatal("expected empty-cart view on zero count")
	}
	if len(notif.successes) != 1 || notif.successes[0] != "Товар удален из корзины" {
		t.Fatalf("unexpected notifications %+v", notif.successes)
	}
	if len(view.totals) != 1 || view.totals[0].Discount == "" {
		t.Fatalf("expected totals including discount, got %+v", view.totals)
	}
}

func TestStaleUpdateResponseDiscarded(t *testing.T) {
	t.Parallel()

	firstSent := make(chan struct{})
	secondDone := make(chan struct{})
	var calls int
	var mu sync.Mutex

	client := &stubClient{
		postJSON: func(ctx context.Context, operation, path string, body any, dest any) error {
			mu.Lock()
			calls++
			call := calls
			mu.Unlock()

			resp := dest.(*mutationResponse)
			resp.Success = true
			if call == 1 {
				close(firstSent)
				// Resolve only after the second response was applied.
				<-secondDone
				resp.Count = intPtr(2)
			} else {
				resp.Count = intPtr(7)
			}
			return nil
		},
	}
	view := newRecordingView()
	ctrl := newTestController(t, client, view, &stubNotifier{}, &stubDocument{path: "/catalog/"}, true)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ctrl.SetQuantity(context.Background(), "10", 2)
	}()

	<-firstSent
	ctrl.SetQuantity(context.Background(), "10", 7)
	close(secondDone)
	wg.Wait()

	if got := ctrl.Summary().Count; got != 7 {
		t.Fatalf("expected freshest response to win, got count %d", got)
	}
	view.mu.Lock()
	defer view.mu.Unlock()
	if len(view.counts) != 1 || view.counts[0] != 7 {
		t.Fatalf("stale response must not reach the view, got %+v", view.counts)
	}
}

func TestCountPulseRestartsInsteadOfStacking(t *testing.T) {
	t.Parallel()

	client := &stubClient{
		postJSON: func(ctx context.Context, operation, path string, body any, dest any) error {
			resp := dest.(*mutationResponse)
			resp.Success = true
			resp.Count = intPtr(4)
			return nil
		},
	}
	view := newRecordingView()
	ctrl := newTestController(t, client, view, &stubNotifier{}, &stubDocument{path: "/catalog/"}, true)

	ctrl.SetQuantity(context.Background(), "10", 4)
	ctrl.SetQuantity(context.Background(), "10", 4)

	time.Sleep(100 * time.Millisecond)

	view.mu.Lock()
	defer view.mu.Unlock()
	if view.marks != 2 {
		t.Fatalf("expected pulse per update, got %d", view.marks)
	}
	if view.clears != 1 {
		t.Fatalf("expected a single clear after restart, got %d", view.clears)
	}
}

func TestItemTotal(t *testing.T) {
	t.Parallel()

	ctrl := newTestController(t, &stubClient{}, newRecordingView(), &stubNotifier{}, &stubDocument{}, true)

	got := ctrl.ItemTotal(decimal.RequireFromString("250"), 3)
	if got == "" {
		t.Fatal("expected formatted line total")
	}
}
