// Package view holds presentation state that does not depend on a rendering technology: which
// page a UI shows, which hero banner is current and what the storefront contains.
package view

import "sync"

type Mode string

const (
	ModeStorefront Mode = "storefront"
	ModeAdmin      Mode = "admin"
)

// Controller switches one UI between the storefront and the admin dashboard.
type Controller struct {
	mu   sync.Mutex
	mode Mode
}

func NewController() *Controller {
	return &Controller{mode: ModeStorefront}
}

func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// Toggle flips the mode and returns the new one.
func (c *Controller) Toggle() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode == ModeAdmin {
		c.mode = ModeStorefront
	} else {
		c.mode = ModeAdmin
	}
	return c.mode
}

// ExitAdmin returns to the storefront. It is a no-op on the storefront.
func (c *Controller) ExitAdmin() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = ModeStorefront
	return c.mode
}
