package page

import "strings"

// Document exposes the capabilities of the hosting page that the controllers
// need: the CSRF token hidden field, the current location, and navigation.
// The token is read at call time, never cached across navigations.
type Document interface {
	CSRFToken() string
	Path() string
	Reload()
	Navigate(url string)
}

// Confirmer asks the user to approve a destructive action. The synchronous
// prompt of the original UI becomes an injected capability so the controllers
// stay headless.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a plain function to the Confirmer interface.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool {
	return f(prompt)
}

// OnCart reports whether the document currently shows the cart page.
func OnCart(doc Document) bool {
	if doc == nil {
		return false
	}
	return strings.Contains(doc.Path(), "/cart/")
}
