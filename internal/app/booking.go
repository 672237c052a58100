package app

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"wildlens_tours/internal/adapters/observability"
	"wildlens_tours/internal/domain"
)

const bookingErrMsg = "An error occurred while creating the order. Please try again."

// BookingWorkflow drives one booking form instance: validate the request,
// obtain an order from the remote service, and hand the order plus prefilled
// contact details to the payment widget. The handoff is fire-and-forget; the
// widget's completion report is observed and logged only. While an order is
// being requested or awaiting payment, further submits are rejected.
type BookingWorkflow struct {
	api     domain.TourAPI
	gateway domain.PaymentGateway
	notify  domain.Notifier
	log     zerolog.Logger
	timeout time.Duration // bound on the order-creation call; 0 disables

	state  atomic.Int32
	closed atomic.Bool
}

func NewBookingWorkflow(api domain.TourAPI, gateway domain.PaymentGateway, notify domain.Notifier, log zerolog.Logger, orderTimeout time.Duration) *BookingWorkflow {
	return &BookingWorkflow{api: api, gateway: gateway, notify: notify, log: log, timeout: orderTimeout}
}

func (w *BookingWorkflow) State() Phase { return Phase(w.state.Load()) }

// Close tears down the form instance. A pending order response or widget
// completion that arrives afterwards is logged and dropped.
func (w *BookingWorkflow) Close() {
	w.closed.Store(true)
	w.state.Store(int32(PhaseIdle))
}

// Submit runs one booking attempt. On success it returns the checkout
// options that were handed to the payment widget and leaves the workflow in
// AwaitingPayment until the widget reports completion or the form closes.
func (w *BookingWorkflow) Submit(ctx context.Context, tour domain.Tour, req domain.BookingRequest) (domain.CheckoutOptions, error) {
	if w.closed.Load() {
		return domain.CheckoutOptions{}, domain.ErrFormClosed
	}
	if !w.state.CompareAndSwap(int32(PhaseIdle), int32(PhaseValidating)) {
		return domain.CheckoutOptions{}, domain.ErrSubmissionInFlight
	}

	if fields := ValidateBooking(req, tour.TravellerLimit); len(fields) > 0 {
		observability.ObserveBookingAttempt("validation")
		w.state.Store(int32(PhaseIdle))
		return domain.CheckoutOptions{}, &domain.ValidationError{Fields: fields}
	}

	w.state.Store(int32(PhaseRequestingOrder))
	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}
	order, err := w.api.CreateOrder(ctx, tour.Price)

	if w.closed.Load() {
		w.log.Info().Str("tour", tour.ID).Err(err).Msg("order response after form close, dropping")
		observability.ObserveBookingAttempt("dropped")
		return domain.CheckoutOptions{}, domain.ErrFormClosed
	}

	if err != nil {
		observability.ObserveBookingAttempt("failed")
		w.log.Warn().Str("tour", tour.ID).Err(err).Msg("order creation failed")
		w.notify.Error(bookingErrMsg)
		w.state.Store(int32(PhaseIdle))
		return domain.CheckoutOptions{}, err
	}
	if order.ID == "" {
		observability.ObserveBookingAttempt("failed")
		perr := &domain.ProtocolError{Op: "create-order", Detail: "response missing order id"}
		w.log.Warn().Str("tour", tour.ID).Msg(perr.Error())
		w.notify.Error(bookingErrMsg)
		w.state.Store(int32(PhaseIdle))
		return domain.CheckoutOptions{}, perr
	}

	receipt := uuid.NewString()
	opts := w.gateway.Options(order, domain.CheckoutPrefill{
		Name:    req.Name,
		Email:   req.Email,
		Contact: req.MobileNo,
	}, receipt)

	w.state.Store(int32(PhaseAwaitingPayment))
	observability.ObserveBookingAttempt("handoff")
	observability.ObservePaymentHandoff()
	w.log.Info().
		Str("tour", tour.ID).
		Str("order", order.ID).
		Str("receipt", receipt).
		Int64("amount", order.Amount).
		Str("currency", order.Currency).
		Msg("handing order to payment widget")

	w.gateway.Open(opts, func(res domain.PaymentResult) {
		// Completion arrives on the widget's schedule, possibly after the
		// form is gone. Observe only; never touch booking or catalog state.
		if w.closed.Load() {
			w.log.Info().Str("order", res.OrderID).Msg("payment completion after form close")
			return
		}
		if res.Succeeded() {
			w.log.Info().Str("order", res.OrderID).Str("payment", res.PaymentID).Msg("payment completed")
		} else {
			w.log.Warn().Str("order", res.OrderID).Str("error", res.Err).Msg("payment not completed")
		}
		w.state.CompareAndSwap(int32(PhaseAwaitingPayment), int32(PhaseIdle))
	})

	return opts, nil
}
