// Package stubserver is a small in-memory storefront backend. The dev binary
// runs it when no real server is configured, and the integration tests drive
// the whole client stack against it.
package stubserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/sportshop/frontend/pkg/errors"
	"github.com/sportshop/frontend/pkg/logger"
)

const csrfHeader = "X-CSRFToken"

// Product is a catalog entry served by the stub.
type Product struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	OldPrice decimal.Decimal `json:"-"`
	Image    string          `json:"image,omitempty"`
	Stock    int             `json:"-"`
}

// Params groups dependencies for the stub server.
type Params struct {
	Logger *logger.Logger
	// CSRFToken is the only token the server accepts on mutating requests.
	CSRFToken string
	// Registry, when set, exposes its metrics on GET /metrics.
	Registry *prometheus.Registry
	// Catalog overrides the built-in demo catalog.
	Catalog []Product
}

// Server holds the in-memory storefront state.
type Server struct {
	logg     *logger.Logger
	token    string
	registry *prometheus.Registry

	mu      sync.Mutex
	catalog []Product
	cart    map[string]int
	reviews int
	ratings int
}

// New builds a stub server with the required dependencies.
func New(params Params) (*Server, error) {
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	if strings.TrimSpace(params.CSRFToken) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "csrf token is required")
	}
	catalog := params.Catalog
	if catalog == nil {
		catalog = demoCatalog()
	}
	return &Server{
		logg:     params.Logger,
		token:    params.CSRFToken,
		registry: params.Registry,
		catalog:  catalog,
		cart:     map[string]int{},
	}, nil
}

func demoCatalog() []Product {
	return []Product{
		{ID: "1", Name: "Кроссовки беговые", Price: decimal.NewFromInt(4990), OldPrice: decimal.NewFromInt(5990), Stock: 12},
		{ID: "2", Name: "Мяч футбольный", Price: decimal.NewFromInt(1500), Stock: 30},
		{ID: "3", Name: "Гантели 5 кг", Price: decimal.NewFromInt(2200), Stock: 8},
		{ID: "4", Name: "Коврик для йоги", Price: decimal.NewFromInt(990), Stock: 25},
		{ID: "5", Name: "Скакалка", Price: decimal.NewFromInt(350), Stock: 50},
		{ID: "6", Name: "Мяч баскетбольный", Price: decimal.NewFromInt(1800), Stock: 0},
	}
}

// Handler builds the HTTP handler for the stub storefront.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Route("/cart", func(r chi.Router) {
		r.With(s.requireCSRF).Post("/add/{productID}/", s.cartAdd)
		r.With(s.requireCSRF).Post("/update/{productID}/", s.cartUpdate)
		r.With(s.requireCSRF).Post("/remove/{productID}/", s.cartRemove)
	})
	r.Get("/search/", s.search)
	r.With(s.requireCSRF).Post("/api/review/{productID}/", s.submitReview)
	if s.registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}

	return r
}

func (s *Server) requireCSRF(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(csrfHeader) != s.token {
			s.logg.Warn(r.Context(), "rejected request with bad csrf token")
			writeJSON(w, http.StatusForbidden, map[string]string{
				"error": "CSRF token missing or incorrect.",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) cartAdd(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")
	var body struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Quantity < 1 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Некорректное количество"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.product(productID)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Товар не найден"})
		return
	}
	if product.Stock == 0 {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "Товар отсутствует на складе"})
		return
	}
	s.cart[productID] += body.Quantity
	s.writeCartState(w, "Товар добавлен в корзину")
}

func (s *Server) cartUpdate(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")
	var body struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Quantity < 1 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Некорректное количество"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cart[productID]; !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Товар не найден в корзине"})
		return
	}
	s.cart[productID] = body.Quantity
	s.writeCartState(w, "")
}

func (s *Server) cartRemove(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cart[productID]; !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Товар не найден в корзине"})
		return
	}
	delete(s.cart, productID)
	s.writeCartState(w, "Товар удален из корзины")
}

// writeCartState must be called with the mutex held.
func (s *Server) writeCartState(w http.ResponseWriter, message string) {
	count := 0
	subtotal := decimal.Zero
	discount := decimal.Zero
	for id, qty := range s.cart {
		product, ok := s.product(id)
		if !ok {
			continue
		}
		count += qty
		lineQty := decimal.NewFromInt(int64(qty))
		subtotal = subtotal.Add(product.Price.Mul(lineQty))
		if product.OldPrice.GreaterThan(product.Price) {
			discount = discount.Add(product.OldPrice.Sub(product.Price).Mul(lineQty))
		}
	}

	resp := map[string]any{
		"success":          true,
		"cart_count":       count,
		"cart_subtotal":    subtotal,
		"cart_discount":    discount,
		"cart_grand_total": subtotal,
	}
	if message != "" {
		resp["message"] = message
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	query := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))

	s.mu.Lock()
	defer s.mu.Unlock()

	matches := []Product{}
	if query != "" {
		for _, product := range s.catalog {
			if strings.Contains(strings.ToLower(product.Name), query) {
				matches = append(matches, product)
			}
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"products": matches})
}

func (s *Server) submitReview(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")
	var body struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Некорректный запрос"})
		return
	}
	if body.Rating < 1 || body.Rating > 5 || strings.TrimSpace(body.Comment) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Пожалуйста, заполните все поля"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.product(productID); !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Товар не найден"})
		return
	}
	s.reviews++
	s.ratings += body.Rating
	average := float64(s.ratings) / float64(s.reviews)

	writeJSON(w, http.StatusOK, map[string]any{
		"success":        true,
		"message":        "Спасибо за ваш отзыв!",
		"average_rating": average,
		"reviews_count":  s.reviews,
		"review": map[string]any{
			"rating":  body.Rating,
			"comment": strings.TrimSpace(body.Comment),
			"author":  "Гость",
			"created": time.Now().Format("02.01.2006"),
		},
	})
}

// CartCount reports the current number of items across all cart lines.
func (s *Server) CartCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, qty := range s.cart {
		count += qty
	}
	return count
}

// product must be called with the mutex held.
func (s *Server) product(id string) (Product, bool) {
	for _, product := range s.catalog {
		if product.ID == id {
			return product, true
		}
	}
	return Product{}, false
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		fmt.Fprintln(w, `{}`)
	}
}
