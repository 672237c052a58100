package app_test

import (
	"context"
	"encoding/json"
	"sync"

	"wildlens_tours/internal/domain"
)

// ---- fakes ----

type fakeAPI struct {
	mu sync.Mutex

	tours    []domain.Tour
	toursErr error

	ack       domain.ReviewAck
	reviewErr error

	order    domain.Order
	orderErr error

	activateMsg string
	activateErr error

	addReviewCalls   int
	createOrderCalls int
	fetchCalls       int

	// blockReview, when set, parks AddReview until released
	blockReview chan struct{}
	// onAddReview runs inside AddReview before returning (for close-mid-flight tests)
	onAddReview func()
	// onCreateOrder likewise
	onCreateOrder func()
}

func (f *fakeAPI) FetchTours(ctx context.Context) ([]domain.Tour, error) {
	f.mu.Lock()
	f.fetchCalls++
	f.mu.Unlock()
	return f.tours, f.toursErr
}

func (f *fakeAPI) AddReview(ctx context.Context, token, tourID string, rating int, content string) (domain.ReviewAck, error) {
	f.mu.Lock()
	f.addReviewCalls++
	f.mu.Unlock()
	if f.blockReview != nil {
		<-f.blockReview
	}
	if f.onAddReview != nil {
		f.onAddReview()
	}
	return f.ack, f.reviewErr
}

func (f *fakeAPI) CreateOrder(ctx context.Context, amount float64) (domain.Order, error) {
	f.mu.Lock()
	f.createOrderCalls++
	f.mu.Unlock()
	if f.onCreateOrder != nil {
		f.onCreateOrder()
	}
	return f.order, f.orderErr
}

func (f *fakeAPI) ActivateAccount(ctx context.Context, token string) (string, error) {
	return f.activateMsg, f.activateErr
}

func (f *fakeAPI) calls() (reviews, orders, fetches int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.addReviewCalls, f.createOrderCalls, f.fetchCalls
}

type fakeNotifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (n *fakeNotifier) Success(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, msg)
}

func (n *fakeNotifier) Error(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, msg)
}

type fakeGateway struct {
	mu    sync.Mutex
	opens []domain.CheckoutOptions
	dones []func(domain.PaymentResult)
}

func (g *fakeGateway) Options(order domain.Order, prefill domain.CheckoutPrefill, receipt string) domain.CheckoutOptions {
	return domain.CheckoutOptions{
		Key:      "rzp_test_key",
		Amount:   order.Amount,
		Currency: order.Currency,
		Name:     "WildLens Tours",
		OrderID:  order.ID,
		Receipt:  receipt,
		Prefill:  prefill,
	}
}

func (g *fakeGateway) Open(opts domain.CheckoutOptions, done func(domain.PaymentResult)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.opens = append(g.opens, opts)
	g.dones = append(g.dones, done)
}

func (g *fakeGateway) openCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.opens)
}

type fakeCache struct {
	mu    sync.Mutex
	store map[string][]byte
	gets  int
	sets  int
}

func newFakeCache() *fakeCache { return &fakeCache{store: map[string][]byte{}} }

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	return nil
}
