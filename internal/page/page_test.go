package page

import "testing"

type stubDocument struct {
	path string
}

func (d *stubDocument) CSRFToken() string  { return "token" }
func (d *stubDocument) Path() string       { return d.path }
func (d *stubDocument) Reload()            {}
func (d *stubDocument) Navigate(url string) {}

func TestOnCart(t *testing.T) {
	t.Parallel()

	if !OnCart(&stubDocument{path: "/cart/"}) {
		t.Fatal("expected cart page to be detected")
	}
	if OnCart(&stubDocument{path: "/catalog/"}) {
		t.Fatal("catalog page must not count as cart")
	}
	if OnCart(nil) {
		t.Fatal("nil document must not count as cart")
	}
}

func TestConfirmFunc(t *testing.T) {
	t.Parallel()

	var prompt string
	c := ConfirmFunc(func(p string) bool {
		prompt = p
		return true
	})
	if !c.Confirm("Вы уверены?") {
		t.Fatal("expected confirmation to pass through")
	}
	if prompt != "Вы уверены?" {
		t.Fatalf("unexpected prompt %q", prompt)
	}
}
