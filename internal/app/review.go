package app

import (
	"context"
	"sync/atomic"

	"github.com/rs/zerolog"

	"wildlens_tours/internal/adapters/observability"
	"wildlens_tours/internal/catalog"
	"wildlens_tours/internal/domain"
)

// ReviewOrchestrator drives one review form instance. A submission validates
// locally, calls the remote service, and commits to the catalog only on the
// server's affirmative acknowledgement; any failure leaves local state
// untouched. At most one submission is in flight at a time; a second submit
// while one is pending is rejected with ErrSubmissionInFlight.
//
// Callers must ensure the bearer credential is present before submitting
// (the unauthenticated path redirects to login upstream of this component).
type ReviewOrchestrator struct {
	api    domain.TourAPI
	store  *catalog.Store
	notify domain.Notifier
	log    zerolog.Logger

	state  atomic.Int32
	closed atomic.Bool
}

func NewReviewOrchestrator(api domain.TourAPI, store *catalog.Store, notify domain.Notifier, log zerolog.Logger) *ReviewOrchestrator {
	return &ReviewOrchestrator{api: api, store: store, notify: notify, log: log}
}

func (o *ReviewOrchestrator) State() Phase { return Phase(o.state.Load()) }

// Close marks the form instance as torn down. An in-flight response that
// lands afterwards is observed and dropped; it never mutates the catalog.
func (o *ReviewOrchestrator) Close() {
	o.closed.Store(true)
}

// Submit runs one review submission end to end. On success it returns the
// committed review (likes/dislikes zeroed) as the server returned it.
func (o *ReviewOrchestrator) Submit(ctx context.Context, token, tourID string, rating int, content string) (domain.Review, error) {
	if o.closed.Load() {
		return domain.Review{}, domain.ErrFormClosed
	}
	if !o.state.CompareAndSwap(int32(PhaseIdle), int32(PhaseValidating)) {
		return domain.Review{}, domain.ErrSubmissionInFlight
	}
	defer o.state.Store(int32(PhaseIdle))

	if fields := ValidateReview(rating, content); len(fields) > 0 {
		observability.ObserveReviewSubmission("validation")
		return domain.Review{}, &domain.ValidationError{Fields: fields}
	}

	o.state.Store(int32(PhaseSubmitting))
	ack, err := o.api.AddReview(ctx, token, tourID, rating, content)

	if o.closed.Load() {
		// The form went away mid-flight; the outcome is irrelevant now.
		o.log.Info().Str("tour", tourID).Err(err).Msg("review response after form close, dropping")
		observability.ObserveReviewSubmission("dropped")
		return domain.Review{}, domain.ErrFormClosed
	}

	if err != nil {
		observability.ObserveReviewSubmission("failed")
		o.log.Warn().Str("tour", tourID).Err(err).Msg("review submission failed")
		o.notify.Error("Failed to add review. Please try again later.")
		return domain.Review{}, err
	}

	if !ack.Affirmative() {
		observability.ObserveReviewSubmission("rejected")
		rej := &domain.BusinessRejection{Op: "addreview", Message: ack.Message}
		o.log.Warn().Str("tour", tourID).Str("message", ack.Message).Msg("review not accepted")
		o.notify.Error(rej.Error())
		return domain.Review{}, rej
	}

	review := ack.NewReview
	review.Likes = 0
	review.Dislikes = 0
	if err := o.store.CommitReview(tourID, review); err != nil {
		// Tour vanished between submit and ack; the server has the review,
		// the local catalog has nowhere to put it.
		observability.ObserveReviewSubmission("failed")
		o.log.Error().Str("tour", tourID).Err(err).Msg("review commit failed")
		o.notify.Error("Failed to add review. Please try again later.")
		return domain.Review{}, err
	}

	observability.ObserveReviewSubmission("committed")
	o.notify.Success("Review added")
	return review, nil
}
