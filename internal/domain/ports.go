package domain

import "context"

// TourAPI is the remote WildLens catalog/booking service.
type TourAPI interface {
	// FetchTours loads the full catalog.
	FetchTours(ctx context.Context) ([]Tour, error)
	// AddReview submits a review for a tour. Requires a bearer credential.
	// A non-error return still needs its Message checked for the affirmative
	// acknowledgement before any local state is mutated.
	AddReview(ctx context.Context, token, tourID string, rating int, content string) (ReviewAck, error)
	// CreateOrder requests a payment order carrying the tour's price.
	CreateOrder(ctx context.Context, amount float64) (Order, error)
	// ActivateAccount consumes an activation token.
	ActivateAccount(ctx context.Context, token string) (string, error)
}

// ReviewAckAffirmative is the sole server message that signals a review was
// accepted; anything else on a 2xx is a business rejection.
const ReviewAckAffirmative = "Review added"

type ReviewAck struct {
	Message   string `json:"message"`
	NewReview Review `json:"newReview"`
}

func (a ReviewAck) Affirmative() bool { return a.Message == ReviewAckAffirmative }

// PaymentGateway is the external payment widget boundary. Options builds the
// widget's options object from an order and the prefilled contact details;
// Open hands off the checkout and returns immediately. done is invoked
// asynchronously, at most once, outside this core's ordering guarantees.
type PaymentGateway interface {
	Options(order Order, prefill CheckoutPrefill, receipt string) CheckoutOptions
	Open(opts CheckoutOptions, done func(PaymentResult))
}

// Notifier is the transient toast surface. Implementations must never block.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// FilterOptions are the distinct attribute values used to populate the
// structured filter controls.
type FilterOptions struct {
	Prices    []float64 `json:"prices"`
	Countries []string  `json:"countries"`
	Durations []string  `json:"durations"`
}
