package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"wildlens_tours/internal/adapters/razorpay"
	"wildlens_tours/internal/app"
	"wildlens_tours/internal/catalog"
	"wildlens_tours/internal/domain"
)

// Handlers exposes the session's catalog, review, and booking flows over
// HTTP. The store holds the session's filter/search state, mirroring the
// original single-user client where that state lived in the page store.
type Handlers struct {
	Store    *catalog.Store
	Reviews  *app.ReviewOrchestrator
	Booking  *app.BookingWorkflow
	Checkout *razorpay.Checkout
	API      domain.TourAPI
}

type problem struct {
	Type   string              `json:"type"`
	Title  string              `json:"title"`
	Status int                 `json:"status"`
	Detail string              `json:"detail,omitempty"`
	Fields []domain.FieldError `json:"fields,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/tours", h.listTours)
	s.mux.Get("/v1/tours/filters", h.filterOptions)
	s.mux.Get("/v1/tours/{id}", h.getTour)
	s.mux.Post("/v1/tours/{id}/reviews", h.addReview)
	s.mux.Post("/v1/tours/{id}/book", h.bookTour)
	s.mux.Post("/v1/payments/callback", h.paymentCallback)
	s.mux.Post("/v1/account/activate", h.activateAccount)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	writeProblemFields(w, status, title, detail, nil)
}

func writeProblemFields(w http.ResponseWriter, status int, title, detail string, fields []domain.FieldError) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	p := problem{Type: "about:blank", Title: title, Status: status, Detail: detail, Fields: fields}
	if err := json.NewEncoder(w).Encode(p); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

// listTours applies the query-carried filter/search state to the session
// store and returns the resulting view. Query params mirror the original
// page's dispatch-on-change controls; "all" resets the structured filter.
func (h *Handlers) listTours(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Has("search") {
		h.Store.SetSearch(q.Get("search"))
	}
	switch {
	case q.Has("price"):
		v := q.Get("price")
		if v == "all" || v == "" {
			h.Store.SetFilter(domain.NoFilter())
			break
		}
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid price", "price must be a number or \"all\"")
			return
		}
		h.Store.SetFilter(domain.PriceFilter(p))
	case q.Has("location"):
		if v := q.Get("location"); v == "all" || v == "" {
			h.Store.SetFilter(domain.NoFilter())
		} else {
			h.Store.SetFilter(domain.LocationFilter(v))
		}
	case q.Has("duration"):
		if v := q.Get("duration"); v == "all" || v == "" {
			h.Store.SetFilter(domain.NoFilter())
		} else {
			h.Store.SetFilter(domain.DurationFilter(v))
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{"tours": h.Store.View()})
}

func (h *Handlers) filterOptions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Store.Options())
}

func (h *Handlers) getTour(w http.ResponseWriter, r *http.Request) {
	tour, ok := h.Store.Get(chi.URLParam(r, "id"))
	if !ok {
		writeProblem(w, http.StatusNotFound, "Not Found", "tour not found")
		return
	}

	etag, body := calcETagAndBody(tour)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write getTour body")
	}
}

func (h *Handlers) addReview(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		// unauthenticated users are redirected to login before this point
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", "bearer credential required")
		return
	}

	var body struct {
		Rating  int    `json:"rating"`
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "expected JSON {rating, content}")
		return
	}

	review, err := h.Reviews.Submit(r.Context(), token, chi.URLParam(r, "id"), body.Rating, body.Content)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": domain.ReviewAckAffirmative, "newReview": review})
}

func (h *Handlers) bookTour(w http.ResponseWriter, r *http.Request) {
	tour, ok := h.Store.Get(chi.URLParam(r, "id"))
	if !ok {
		writeProblem(w, http.StatusNotFound, "Not Found", "tour not found")
		return
	}

	var req domain.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "expected a booking request")
		return
	}

	opts, err := h.Booking.Submit(r.Context(), tour, req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, opts)
}

// paymentCallback receives the widget's completion report. Observed only;
// never a booking or catalog mutation.
func (h *Handlers) paymentCallback(w http.ResponseWriter, r *http.Request) {
	var res domain.PaymentResult
	if err := json.NewDecoder(r.Body).Decode(&res); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "expected a payment result")
		return
	}
	h.Checkout.Complete(res)
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handlers) activateAccount(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", "activation token required")
		return
	}
	msg, err := h.API.ActivateAccount(r.Context(), token)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if msg != "activated" && msg != "Already activated" {
		writeProblem(w, http.StatusConflict, "Not activated", msg)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": msg})
}

func writeDomainError(w http.ResponseWriter, err error) {
	var verr *domain.ValidationError
	var rej *domain.BusinessRejection
	switch {
	case errors.As(err, &verr):
		writeProblemFields(w, http.StatusUnprocessableEntity, "Validation failed", "", verr.Fields)
	case errors.Is(err, domain.ErrSubmissionInFlight):
		writeProblem(w, http.StatusConflict, "Submission in flight", "a submission is already in progress")
	case errors.Is(err, domain.ErrFormClosed):
		writeProblem(w, http.StatusConflict, "Form closed", "this form instance has been torn down")
	case errors.As(err, &rej):
		writeProblem(w, http.StatusConflict, "Rejected", rej.Message)
	case errors.Is(err, catalog.ErrTourNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", "tour not found")
	default:
		// transport/protocol failures talking to the remote service
		writeProblem(w, http.StatusBadGateway, "Upstream failure", err.Error())
	}
}
