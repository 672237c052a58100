package razorpay

import (
	"sync"

	"github.com/rs/zerolog"

	"wildlens_tours/internal/domain"
)

const (
	displayName = "WildLens Tours"
	description = "Tour booking"
	themeColor  = "#28523E"
)

// Checkout is the handoff boundary to the Razorpay widget. Open registers a
// pending checkout and returns immediately; the widget runs outside this
// process and reports back through Complete (driven by the payment callback
// endpoint). Completions for unknown or already-resolved orders are logged
// no-ops, so a torn-down form never gets a late callback.
type Checkout struct {
	key string
	log zerolog.Logger

	mu      sync.Mutex
	pending map[string]func(domain.PaymentResult) // keyed by order id
}

func New(key string, log zerolog.Logger) *Checkout {
	return &Checkout{key: key, log: log, pending: make(map[string]func(domain.PaymentResult))}
}

// Options builds the widget options object for an order.
func (c *Checkout) Options(order domain.Order, prefill domain.CheckoutPrefill, receipt string) domain.CheckoutOptions {
	return domain.CheckoutOptions{
		Key:         c.key,
		Amount:      order.Amount,
		Currency:    order.Currency,
		Name:        displayName,
		Description: description,
		OrderID:     order.ID,
		Receipt:     receipt,
		Prefill:     prefill,
		Theme:       domain.CheckoutTheme{Color: themeColor},
	}
}

// Open hands the checkout to the widget. Fire-and-forget: it only records
// where to deliver the eventual completion.
func (c *Checkout) Open(opts domain.CheckoutOptions, done func(domain.PaymentResult)) {
	c.mu.Lock()
	c.pending[opts.OrderID] = done
	c.mu.Unlock()
	c.log.Info().Str("order", opts.OrderID).Int64("amount", opts.Amount).Msg("checkout opened")
}

// Complete delivers the widget's completion report. Each order resolves at
// most once.
func (c *Checkout) Complete(res domain.PaymentResult) {
	c.mu.Lock()
	done, ok := c.pending[res.OrderID]
	if ok {
		delete(c.pending, res.OrderID)
	}
	c.mu.Unlock()

	if !ok {
		c.log.Warn().Str("order", res.OrderID).Msg("completion for unknown checkout, ignoring")
		return
	}
	if done != nil {
		done(res)
	}
}

// Pending reports whether an order is still awaiting completion.
func (c *Checkout) Pending(orderID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.pending[orderID]
	return ok
}
