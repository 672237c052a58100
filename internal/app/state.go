package app

// Phase is the lifecycle position of a form-backed submission. Committed and
// Failed are transient outcomes: both orchestrators report them through
// notifications/errors and settle back to Idle before Submit returns (except
// AwaitingPayment, which persists until the widget reports completion or the
// form closes).
type Phase int32

const (
	PhaseIdle Phase = iota
	PhaseValidating
	PhaseSubmitting
	PhaseRequestingOrder
	PhaseAwaitingPayment
)

func (p Phase) String() string {
	switch p {
	case PhaseValidating:
		return "validating"
	case PhaseSubmitting:
		return "submitting"
	case PhaseRequestingOrder:
		return "requesting_order"
	case PhaseAwaitingPayment:
		return "awaiting_payment"
	default:
		return "idle"
	}
}
