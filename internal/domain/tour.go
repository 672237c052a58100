package domain

// Tour is a single catalog entry. The catalog is loaded in bulk from the
// WildLens API and owned by the Catalog Store for the rest of the session;
// the only local mutation is appending a committed review.
type Tour struct {
	ID             string           `json:"id"`
	Title          string           `json:"title"`
	Price          float64          `json:"price"`
	Country        string           `json:"country"`
	Duration       string           `json:"duration"` // categorical label, e.g. "3 days"
	TravellerLimit int              `json:"travellersLimit"`
	Img            string           `json:"img,omitempty"`
	Sections       []ContentSection `json:"sections,omitempty"`
	Reviews        []Review         `json:"reviews"`
}

// ContentSection is one block of the tour detail page (intro, highlights,
// visit info, contact), in display order.
type ContentSection struct {
	Heading string `json:"heading"`
	Body    string `json:"body"`
}

type Review struct {
	ID       string `json:"id"`
	Author   string `json:"author"`
	Rating   int    `json:"rating"` // 1..5
	Content  string `json:"content"`
	Likes    int    `json:"likes"`
	Dislikes int    `json:"dislikes"`
}

// BookingRequest is the validated booking form input. It exists only for the
// duration of one submission; Companions is bounded by TravellerLimit-1 of
// the tour being booked.
type BookingRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	MobileNo   string `json:"mobileNo"` // exactly 10 digits
	Companions int    `json:"companions"`
}
