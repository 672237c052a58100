package domain

// FilterKind tags the active structured filter dimension.
type FilterKind int

const (
	FilterNone FilterKind = iota
	FilterPrice
	FilterLocation
	FilterDuration
)

func (k FilterKind) String() string {
	switch k {
	case FilterPrice:
		return "price"
	case FilterLocation:
		return "location"
	case FilterDuration:
		return "duration"
	default:
		return "none"
	}
}

// FilterSelection is a tagged union over {none, price, location, duration}.
// At most one dimension carries a value; the constructors are the only way to
// build a non-zero selection, so selecting one dimension clears the others by
// construction. Free-text search is tracked separately by the store.
type FilterSelection struct {
	kind     FilterKind
	price    float64
	location string
	duration string
}

func NoFilter() FilterSelection { return FilterSelection{} }

func PriceFilter(p float64) FilterSelection {
	return FilterSelection{kind: FilterPrice, price: p}
}

func LocationFilter(country string) FilterSelection {
	return FilterSelection{kind: FilterLocation, location: country}
}

func DurationFilter(d string) FilterSelection {
	return FilterSelection{kind: FilterDuration, duration: d}
}

func (s FilterSelection) Kind() FilterKind { return s.kind }

// Price returns the selected price; valid only when Kind() == FilterPrice.
func (s FilterSelection) Price() float64 { return s.price }

func (s FilterSelection) Location() string { return s.location }

func (s FilterSelection) Duration() string { return s.duration }

// Matches reports whether t satisfies the selection predicate. A zero
// selection matches every tour.
func (s FilterSelection) Matches(t Tour) bool {
	switch s.kind {
	case FilterPrice:
		return t.Price == s.price
	case FilterLocation:
		return t.Country == s.location
	case FilterDuration:
		return t.Duration == s.duration
	default:
		return true
	}
}
