package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wildlens_tours/internal/app"
	"wildlens_tours/internal/domain"
)

var bookedTour = domain.Tour{
	ID: "t2", Title: "Bengal Tiger Trail", Price: 5000, Country: "India",
	Duration: "3 days", TravellerLimit: 3,
}

func validRequest() domain.BookingRequest {
	return domain.BookingRequest{
		Name:       "Ana",
		Email:      "ana@example.com",
		MobileNo:   "9876543210",
		Companions: 2,
	}
}

func TestBookingSubmit_HappyPathHandsOffExactlyOnce(t *testing.T) {
	api := &fakeAPI{order: domain.Order{ID: "order_1", Currency: "INR", Amount: 5000}}
	gw := &fakeGateway{}
	notes := &fakeNotifier{}
	w := app.NewBookingWorkflow(api, gw, notes, zerolog.Nop(), 0)

	opts, err := w.Submit(context.Background(), bookedTour, validRequest())
	require.NoError(t, err)

	_, orders, _ := api.calls()
	assert.Equal(t, 1, orders, "exactly one order per attempt")
	require.Equal(t, 1, gw.openCount(), "exactly one handoff")

	assert.Equal(t, "order_1", opts.OrderID)
	assert.Equal(t, "INR", opts.Currency)
	assert.Equal(t, int64(5000), opts.Amount)
	assert.Equal(t, "Ana", opts.Prefill.Name)
	assert.Equal(t, "ana@example.com", opts.Prefill.Email)
	assert.Equal(t, "9876543210", opts.Prefill.Contact)
	assert.NotEmpty(t, opts.Receipt)

	assert.Equal(t, app.PhaseAwaitingPayment, w.State())
	assert.Empty(t, notes.errors)
}

func TestBookingSubmit_CompanionsOverLimitFailsValidation(t *testing.T) {
	api := &fakeAPI{}
	w := app.NewBookingWorkflow(api, &fakeGateway{}, &fakeNotifier{}, zerolog.Nop(), 0)

	req := validRequest()
	req.Companions = 3 // travellerLimit=3 -> max 2
	_, err := w.Submit(context.Background(), bookedTour, req)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Fields, 1)
	assert.Equal(t, "companions", verr.Fields[0].Field)
	assert.Equal(t, "Max 2 companions", verr.Fields[0].Message)

	_, orders, _ := api.calls()
	assert.Zero(t, orders, "validation failure must not reach the network")
	assert.Equal(t, app.PhaseIdle, w.State())
}

func TestBookingSubmit_PerFieldValidationDetail(t *testing.T) {
	w := app.NewBookingWorkflow(&fakeAPI{}, &fakeGateway{}, &fakeNotifier{}, zerolog.Nop(), 0)

	req := domain.BookingRequest{Name: "", Email: "not-an-email", MobileNo: "12345", Companions: -1}
	_, err := w.Submit(context.Background(), bookedTour, req)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	fields := map[string]string{}
	for _, f := range verr.Fields {
		fields[f.Field] = f.Message
	}
	assert.Equal(t, "Name is required", fields["name"])
	assert.Equal(t, "Invalid email", fields["email"])
	assert.Equal(t, "Invalid mobile no", fields["mobileNo"])
	assert.Contains(t, fields, "companions")
}

func TestBookingSubmit_TransportFailureSurfacesGenericError(t *testing.T) {
	api := &fakeAPI{orderErr: &domain.TransportError{Op: "/tour/create-order", Status: 503}}
	notes := &fakeNotifier{}
	w := app.NewBookingWorkflow(api, &fakeGateway{}, notes, zerolog.Nop(), 0)

	_, err := w.Submit(context.Background(), bookedTour, validRequest())
	require.Error(t, err)
	var verr *domain.ValidationError
	assert.False(t, errors.As(err, &verr), "transport failure must be distinct from validation")

	require.Len(t, notes.errors, 1)
	assert.Equal(t, app.PhaseIdle, w.State(), "failed attempt resets; user resubmits from scratch")
}

func TestBookingSubmit_MissingOrderIDIsProtocolError(t *testing.T) {
	api := &fakeAPI{order: domain.Order{Currency: "INR", Amount: 5000}} // no id
	gw := &fakeGateway{}
	w := app.NewBookingWorkflow(api, gw, &fakeNotifier{}, zerolog.Nop(), 0)

	_, err := w.Submit(context.Background(), bookedTour, validRequest())
	var perr *domain.ProtocolError
	require.ErrorAs(t, err, &perr)
	assert.Zero(t, gw.openCount(), "no handoff without a valid order")
	assert.Equal(t, app.PhaseIdle, w.State())
}

func TestBookingSubmit_SecondSubmitWhileAwaitingPaymentRejected(t *testing.T) {
	api := &fakeAPI{order: domain.Order{ID: "order_1", Currency: "INR", Amount: 5000}}
	gw := &fakeGateway{}
	w := app.NewBookingWorkflow(api, gw, &fakeNotifier{}, zerolog.Nop(), 0)

	_, err := w.Submit(context.Background(), bookedTour, validRequest())
	require.NoError(t, err)
	require.Equal(t, app.PhaseAwaitingPayment, w.State())

	_, err = w.Submit(context.Background(), bookedTour, validRequest())
	assert.ErrorIs(t, err, domain.ErrSubmissionInFlight)

	_, orders, _ := api.calls()
	assert.Equal(t, 1, orders)
	assert.Equal(t, 1, gw.openCount())
}

func TestBookingSubmit_CompletionReturnsToIdle(t *testing.T) {
	api := &fakeAPI{order: domain.Order{ID: "order_1", Currency: "INR", Amount: 5000}}
	gw := &fakeGateway{}
	w := app.NewBookingWorkflow(api, gw, &fakeNotifier{}, zerolog.Nop(), 0)

	_, err := w.Submit(context.Background(), bookedTour, validRequest())
	require.NoError(t, err)
	require.Len(t, gw.dones, 1)

	gw.dones[0](domain.PaymentResult{OrderID: "order_1", PaymentID: "pay_1"})
	assert.Equal(t, app.PhaseIdle, w.State())

	// a second attempt is allowed again
	_, err = w.Submit(context.Background(), bookedTour, validRequest())
	require.NoError(t, err)
}

func TestBookingSubmit_OrderResponseAfterCloseDropped(t *testing.T) {
	api := &fakeAPI{order: domain.Order{ID: "order_1", Currency: "INR", Amount: 5000}}
	gw := &fakeGateway{}
	w := app.NewBookingWorkflow(api, gw, &fakeNotifier{}, zerolog.Nop(), 0)
	api.onCreateOrder = w.Close

	_, err := w.Submit(context.Background(), bookedTour, validRequest())
	assert.ErrorIs(t, err, domain.ErrFormClosed)
	assert.Zero(t, gw.openCount(), "no handoff after teardown")
}

func TestBookingSubmit_OrderTimeoutBoundsTheCall(t *testing.T) {
	api := &fakeAPI{order: domain.Order{ID: "order_1", Currency: "INR", Amount: 5000}}
	api.onCreateOrder = func() { time.Sleep(5 * time.Millisecond) }
	w := app.NewBookingWorkflow(api, &fakeGateway{}, &fakeNotifier{}, zerolog.Nop(), 50*time.Millisecond)

	_, err := w.Submit(context.Background(), bookedTour, validRequest())
	require.NoError(t, err, "call inside the bound succeeds")
}
