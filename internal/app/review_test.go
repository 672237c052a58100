package app_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wildlens_tours/internal/app"
	"wildlens_tours/internal/catalog"
	"wildlens_tours/internal/domain"
)

func testStore(t *testing.T) *catalog.Store {
	t.Helper()
	s := catalog.NewStore()
	s.Load([]domain.Tour{
		{ID: "t1", Title: "Safari in Kenya", Price: 500, Country: "Kenya", Duration: "5 days", TravellerLimit: 4},
		{ID: "t2", Title: "Bengal Tiger Trail", Price: 5000, Country: "India", Duration: "3 days", TravellerLimit: 3},
	})
	return s
}

func TestReviewSubmit_AffirmativeAckCommits(t *testing.T) {
	api := &fakeAPI{ack: domain.ReviewAck{
		Message:   "Review added",
		NewReview: domain.Review{ID: "r9", Author: "Ana", Rating: 4, Content: "Great trip", Likes: 7, Dislikes: 3},
	}}
	store := testStore(t)
	notes := &fakeNotifier{}
	o := app.NewReviewOrchestrator(api, store, notes, zerolog.Nop())

	before, _ := store.Get("t1")
	review, err := o.Submit(context.Background(), "tok", "t1", 4, "Great trip")
	require.NoError(t, err)

	after, _ := store.Get("t1")
	require.Len(t, after.Reviews, len(before.Reviews)+1)
	// counters are initialized locally regardless of what the server sent
	assert.Equal(t, 0, review.Likes)
	assert.Equal(t, 0, review.Dislikes)
	assert.Equal(t, 0, after.Reviews[len(after.Reviews)-1].Likes)
	assert.Equal(t, app.PhaseIdle, o.State())
	assert.Equal(t, []string{"Review added"}, notes.successes)
}

func TestReviewSubmit_InvalidRatingNeverHitsNetwork(t *testing.T) {
	api := &fakeAPI{}
	store := testStore(t)
	o := app.NewReviewOrchestrator(api, store, &fakeNotifier{}, zerolog.Nop())

	_, err := o.Submit(context.Background(), "tok", "t1", 0, "fine")
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "rating", verr.Fields[0].Field)

	reviews, _, _ := api.calls()
	assert.Zero(t, reviews, "validation failure must not reach the network")
	tour, _ := store.Get("t1")
	assert.Empty(t, tour.Reviews)
}

func TestReviewSubmit_EmptyContentFailsLocally(t *testing.T) {
	api := &fakeAPI{}
	o := app.NewReviewOrchestrator(api, testStore(t), &fakeNotifier{}, zerolog.Nop())

	_, err := o.Submit(context.Background(), "tok", "t1", 3, "   ")
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	reviews, _, _ := api.calls()
	assert.Zero(t, reviews)
}

func TestReviewSubmit_TransportFailureLeavesStoreUntouched(t *testing.T) {
	api := &fakeAPI{reviewErr: &domain.TransportError{Op: "/tour/addreview", Status: 500}}
	store := testStore(t)
	notes := &fakeNotifier{}
	o := app.NewReviewOrchestrator(api, store, notes, zerolog.Nop())

	_, err := o.Submit(context.Background(), "tok", "t1", 4, "Great trip")
	require.Error(t, err)

	tour, _ := store.Get("t1")
	assert.Empty(t, tour.Reviews, "no partial write on failure")
	assert.Equal(t, app.PhaseIdle, o.State())
	require.Len(t, notes.errors, 1)
}

func TestReviewSubmit_NonAffirmativeAckIsRejection(t *testing.T) {
	api := &fakeAPI{ack: domain.ReviewAck{Message: "already reviewed"}}
	store := testStore(t)
	notes := &fakeNotifier{}
	o := app.NewReviewOrchestrator(api, store, notes, zerolog.Nop())

	_, err := o.Submit(context.Background(), "tok", "t1", 4, "Great trip")
	var rej *domain.BusinessRejection
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, "already reviewed", rej.Message)

	tour, _ := store.Get("t1")
	assert.Empty(t, tour.Reviews)
	require.Len(t, notes.errors, 1)
	assert.Contains(t, notes.errors[0], "already reviewed")
}

func TestReviewSubmit_SecondSubmitWhileInFlightRejected(t *testing.T) {
	release := make(chan struct{})
	api := &fakeAPI{
		blockReview: release,
		ack:         domain.ReviewAck{Message: "Review added", NewReview: domain.Review{ID: "r1", Rating: 5, Content: "ok"}},
	}
	store := testStore(t)
	o := app.NewReviewOrchestrator(api, store, &fakeNotifier{}, zerolog.Nop())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = o.Submit(context.Background(), "tok", "t1", 5, "ok")
	}()

	// wait until the first submission is parked inside the API call
	for o.State() != app.PhaseSubmitting {
		time.Sleep(time.Millisecond)
	}

	_, err := o.Submit(context.Background(), "tok", "t1", 4, "second")
	assert.ErrorIs(t, err, domain.ErrSubmissionInFlight)

	close(release)
	wg.Wait()
	assert.Equal(t, app.PhaseIdle, o.State())
}

func TestReviewSubmit_ResponseAfterCloseIsNoOp(t *testing.T) {
	api := &fakeAPI{ack: domain.ReviewAck{Message: "Review added", NewReview: domain.Review{ID: "r1", Rating: 5, Content: "ok"}}}
	store := testStore(t)
	o := app.NewReviewOrchestrator(api, store, &fakeNotifier{}, zerolog.Nop())
	api.onAddReview = o.Close // form torn down while the request is in flight

	_, err := o.Submit(context.Background(), "tok", "t1", 5, "ok")
	assert.True(t, errors.Is(err, domain.ErrFormClosed))

	tour, _ := store.Get("t1")
	assert.Empty(t, tour.Reviews, "late response must not mutate the catalog")
}

func TestReviewSubmit_ClosedFormRejectsNewSubmits(t *testing.T) {
	o := app.NewReviewOrchestrator(&fakeAPI{}, testStore(t), &fakeNotifier{}, zerolog.Nop())
	o.Close()
	_, err := o.Submit(context.Background(), "tok", "t1", 5, "ok")
	assert.ErrorIs(t, err, domain.ErrFormClosed)
}
