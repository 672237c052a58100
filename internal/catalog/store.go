package catalog

import (
	"errors"
	"sync"

	"wildlens_tours/internal/domain"
)

var ErrTourNotFound = errors.New("catalog: tour not found")

// Store owns the session's tour catalog, the active filter/search state, and
// the derived filtered view. Every mutator recomputes the view before
// returning, so a commit is always visible to the next read regardless of
// which event triggers it. The only authorized write to tour data is
// CommitReview; everything else treats the catalog as read-only.
type Store struct {
	mu        sync.RWMutex
	tours     []domain.Tour
	selection domain.FilterSelection
	search    string
	view      []domain.Tour
}

func NewStore() *Store {
	return &Store{}
}

// Load replaces the whole catalog (bootstrap or refresh) and resets any
// active filter and search state, mirroring a fresh catalog page.
func (s *Store) Load(tours []domain.Tour) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tours = make([]domain.Tour, len(tours))
	copy(s.tours, tours)
	s.selection = domain.NoFilter()
	s.search = ""
	s.recompute()
}

// SetFilter activates one structured filter dimension. The tagged union
// guarantees the other dimensions are cleared.
func (s *Store) SetFilter(sel domain.FilterSelection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = sel
	s.recompute()
}

func (s *Store) SetSearch(q string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.search = q
	s.recompute()
}

// ResetFilters clears both the structured selection and the search text.
func (s *Store) ResetFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = domain.NoFilter()
	s.search = ""
	s.recompute()
}

// recompute must be called with mu held for writing.
func (s *Store) recompute() {
	s.view = ComputeFilteredView(s.tours, s.selection, s.search)
}

// View returns the current filtered view. The slice is shared with the
// store's derived state; callers must not mutate it.
func (s *Store) View() []domain.Tour {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view
}

func (s *Store) Selection() (domain.FilterSelection, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selection, s.search
}

func (s *Store) Tours() []domain.Tour {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tours
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tours)
}

func (s *Store) Get(id string) (domain.Tour, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.tours {
		if t.ID == id {
			return t, true
		}
	}
	return domain.Tour{}, false
}

// Options returns the distinct filter values of the loaded catalog.
func (s *Store) Options() domain.FilterOptions {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Options(s.tours)
}

// CommitReview appends a server-acknowledged review to its tour. This is the
// single write path into tour data; it runs only after the remote service
// has confirmed the review, so local state never gets ahead of the server.
func (s *Store) CommitReview(tourID string, r domain.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tours {
		if s.tours[i].ID == tourID {
			s.tours[i].Reviews = append(s.tours[i].Reviews, r)
			s.recompute()
			return nil
		}
	}
	return ErrTourNotFound
}
