package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if !cfg.App.IsDev() {
		t.Fatalf("expected dev environment by default, got %q", cfg.App.Env)
	}
	if cfg.Search.Debounce != 300*time.Millisecond {
		t.Fatalf("unexpected debounce %v", cfg.Search.Debounce)
	}
	if cfg.Search.MinQueryLength != 2 {
		t.Fatalf("unexpected min query length %d", cfg.Search.MinQueryLength)
	}
	if cfg.Search.MaxResults != 5 {
		t.Fatalf("unexpected max results %d", cfg.Search.MaxResults)
	}
	if cfg.Cart.MinQuantity != 1 || cfg.Cart.MaxQuantity != 99 {
		t.Fatalf("unexpected quantity bounds [%d,%d]", cfg.Cart.MinQuantity, cfg.Cart.MaxQuantity)
	}
	if cfg.Notify.DismissAfter != 5*time.Second {
		t.Fatalf("unexpected dismiss delay %v", cfg.Notify.DismissAfter)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SPORTSHOP_APP_ENV", "production")
	t.Setenv("SPORTSHOP_SEARCH_DEBOUNCE", "150ms")
	t.Setenv("SPORTSHOP_API_BASE_URL", "https://shop.example.ru")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if !cfg.App.IsProd() {
		t.Fatalf("expected production environment, got %q", cfg.App.Env)
	}
	if cfg.Search.Debounce != 150*time.Millisecond {
		t.Fatalf("unexpected debounce %v", cfg.Search.Debounce)
	}
	if cfg.API.BaseURL != "https://shop.example.ru" {
		t.Fatalf("unexpected base url %q", cfg.API.BaseURL)
	}
}

func TestLoadRejectsInvertedQuantityBounds(t *testing.T) {
	t.Setenv("SPORTSHOP_CART_MIN_QUANTITY", "10")
	t.Setenv("SPORTSHOP_CART_MAX_QUANTITY", "5")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for inverted quantity bounds")
	}
}

func TestLoadRejectsZeroDebounce(t *testing.T) {
	t.Setenv("SPORTSHOP_SEARCH_DEBOUNCE", "0s")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for zero debounce")
	}
}
