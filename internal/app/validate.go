package app

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"

	"wildlens_tours/internal/domain"
)

var mobileRe = regexp.MustCompile(`^\d{10}$`)

// ValidateReview checks a review submission locally. An empty result means
// the submission may proceed to the network.
func ValidateReview(rating int, content string) []domain.FieldError {
	var errs []domain.FieldError
	if rating < 1 || rating > 5 {
		errs = append(errs, domain.FieldError{Field: "rating", Message: "rating must be between 1 and 5"})
	}
	if strings.TrimSpace(content) == "" {
		errs = append(errs, domain.FieldError{Field: "review", Message: "Review required"})
	}
	return errs
}

// ValidateBooking checks the booking form. travellerLimit is the booked
// tour's limit; the booker counts as one traveller, so at most
// travellerLimit-1 companions are allowed.
func ValidateBooking(req domain.BookingRequest, travellerLimit int) []domain.FieldError {
	var errs []domain.FieldError
	if strings.TrimSpace(req.Name) == "" {
		errs = append(errs, domain.FieldError{Field: "name", Message: "Name is required"})
	}
	if strings.TrimSpace(req.Email) == "" {
		errs = append(errs, domain.FieldError{Field: "email", Message: "Email is required"})
	} else if a, err := mail.ParseAddress(req.Email); err != nil || a.Address != req.Email {
		errs = append(errs, domain.FieldError{Field: "email", Message: "Invalid email"})
	}
	if req.MobileNo == "" {
		errs = append(errs, domain.FieldError{Field: "mobileNo", Message: "Mobile no is required"})
	} else if !mobileRe.MatchString(req.MobileNo) {
		errs = append(errs, domain.FieldError{Field: "mobileNo", Message: "Invalid mobile no"})
	}
	maxCompanions := travellerLimit - 1
	if maxCompanions < 0 {
		maxCompanions = 0
	}
	if req.Companions < 0 || req.Companions > maxCompanions {
		errs = append(errs, domain.FieldError{
			Field:   "companions",
			Message: fmt.Sprintf("Max %d companions", maxCompanions),
		})
	}
	return errs
}
