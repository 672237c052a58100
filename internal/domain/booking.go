package domain

// Order is the transient payment-intent descriptor returned by
// /tour/create-order. It is never persisted; it lives from the order response
// until the checkout handoff (or failure) and is then discarded.
type Order struct {
	ID       string `json:"id"`
	Currency string `json:"currency"`
	Amount   int64  `json:"amount"`
}

// CheckoutOptions is the options object handed to the payment widget.
// Field names follow the widget's wire contract.
type CheckoutOptions struct {
	Key         string          `json:"key"`
	Amount      int64           `json:"amount"`
	Currency    string          `json:"currency"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	OrderID     string          `json:"order_id"`
	Receipt     string          `json:"receipt,omitempty"`
	Prefill     CheckoutPrefill `json:"prefill"`
	Theme       CheckoutTheme   `json:"theme"`
}

type CheckoutPrefill struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Contact string `json:"contact"`
}

type CheckoutTheme struct {
	Color string `json:"color"`
}

// PaymentResult is the widget's asynchronous completion report. It arrives
// outside this core's ordering guarantees and is observed only.
type PaymentResult struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature,omitempty"`
	Err       string `json:"error,omitempty"` // non-empty on cancellation/failure
}

func (r PaymentResult) Succeeded() bool { return r.Err == "" && r.PaymentID != "" }
