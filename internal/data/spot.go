package data

import (
	"slices"
	"time"

	"github.com/parkwell-gh/parkwell/internal/validator"
)

const (
	VehicleTypeCar   = "car"
	VehicleTypeBike  = "bike"
	VehicleTypeTruck = "truck"
)

// Spot is a single bookable parking location with a finite free-capacity
// counter. Available is the number of spaces currently free, never the total.
type Spot struct {
	ID                int64    `json:"id"`
	Name              string   `json:"name"`
	Lat               float64  `json:"lat"`
	Lng               float64  `json:"lng"`
	Price             float64  `json:"price"`
	Available         int      `json:"available"`
	TrustLevel        int      `json:"trust_level"`
	VehicleType       string   `json:"vehicle_type"`
	ImageURL          string   `json:"image_url,omitempty"`
	QRCodeID          string   `json:"qr_code_id"`
	Amenities         []string `json:"amenities,omitempty"`
	UnavailableDates  []string `json:"unavailable_dates,omitempty"`
	UnavailableDays   []string `json:"unavailable_days,omitempty"`
	UnavailableReason string   `json:"unavailable_reason,omitempty"`
	OwnerID           string   `json:"owner_id,omitempty"`
	IsPremium         bool     `json:"is_premium"`
}

// SpotDraft carries the caller-supplied fields for a new spot. Numeric
// fields are pointers so that missing values can be told apart from zeroes.
type SpotDraft struct {
	Name             string   `json:"name"`
	Lat              *float64 `json:"lat"`
	Lng              *float64 `json:"lng"`
	Price            *float64 `json:"price"`
	Available        *int     `json:"available"`
	TrustLevel       int      `json:"trust_level"`
	VehicleType      string   `json:"vehicle_type"`
	ImageURL         string   `json:"image_url"`
	Amenities        []string `json:"amenities"`
	UnavailableDates []string `json:"unavailable_dates"`
	UnavailableDays  []string `json:"unavailable_days"`
	OwnerID          string   `json:"owner_id"`
}

// SpotPatch is the allow-listed field set for partial updates. Unknown
// fields are rejected at the handler; absent fields leave the spot alone.
// IsPremium is only applied for privileged requesters.
type SpotPatch struct {
	Name              *string   `json:"name"`
	Lat               *float64  `json:"lat"`
	Lng               *float64  `json:"lng"`
	Price             *float64  `json:"price"`
	Available         *int      `json:"available"`
	TrustLevel        *int      `json:"trust_level"`
	VehicleType       *string   `json:"vehicle_type"`
	ImageURL          *string   `json:"image_url"`
	Amenities         *[]string `json:"amenities"`
	UnavailableDates  *[]string `json:"unavailable_dates"`
	UnavailableDays   *[]string `json:"unavailable_days"`
	UnavailableReason *string   `json:"unavailable_reason"`
	IsPremium         *bool     `json:"is_premium"`
}

func ValidateSpotDraft(v *validator.Validator, draft *SpotDraft) {
	v.Check(draft.Name != "", "name", "must be provided")
	v.Check(len(draft.Name) <= 120, "name", "must not be more than 120 characters long")

	v.Check(draft.Lat != nil, "lat", "must be provided")
	v.Check(draft.Lng != nil, "lng", "must be provided")
	v.Check(draft.Price != nil, "price", "must be provided")
	v.Check(draft.Available != nil, "available", "must be provided")

	if draft.Lat != nil {
		v.Check(*draft.Lat >= -90 && *draft.Lat <= 90, "lat", "must be between -90 and 90")
	}
	if draft.Lng != nil {
		v.Check(*draft.Lng >= -180 && *draft.Lng <= 180, "lng", "must be between -180 and 180")
	}
	if draft.Price != nil {
		v.Check(*draft.Price >= 0, "price", "must not be negative")
	}
	if draft.Available != nil {
		v.Check(*draft.Available >= 0, "available", "must not be negative")
	}

	if draft.VehicleType != "" {
		v.Check(validator.PermittedValue(draft.VehicleType, VehicleTypeCar, VehicleTypeBike, VehicleTypeTruck), "vehicle_type", "must be a valid vehicle type")
	}
}

// ValidateSpotPatch checks the fields a partial update supplies. Absent
// fields are not the patch's concern; present ones must satisfy the same
// bounds a fresh draft would.
func ValidateSpotPatch(v *validator.Validator, patch *SpotPatch) {
	if patch.Name != nil {
		v.Check(*patch.Name != "", "name", "must not be empty")
		v.Check(len(*patch.Name) <= 120, "name", "must not be more than 120 characters long")
	}
	if patch.Lat != nil {
		v.Check(*patch.Lat >= -90 && *patch.Lat <= 90, "lat", "must be between -90 and 90")
	}
	if patch.Lng != nil {
		v.Check(*patch.Lng >= -180 && *patch.Lng <= 180, "lng", "must be between -180 and 180")
	}
	if patch.Price != nil {
		v.Check(*patch.Price >= 0, "price", "must not be negative")
	}
	if patch.Available != nil {
		v.Check(*patch.Available >= 0, "available", "must not be negative")
	}
	if patch.VehicleType != nil {
		v.Check(validator.PermittedValue(*patch.VehicleType, VehicleTypeCar, VehicleTypeBike, VehicleTypeTruck), "vehicle_type", "must be a valid vehicle type")
	}
}

// ClosedOn reports whether the spot's schedule exceptions block bookings at
// the given time. Dates match on YYYY-MM-DD, days on the weekday name.
func (s *Spot) ClosedOn(t time.Time) bool {
	if slices.Contains(s.UnavailableDates, t.Format("2006-01-02")) {
		return true
	}
	return slices.Contains(s.UnavailableDays, t.Weekday().String())
}

// Clone returns a deep copy, so snapshots and lock-free reads never alias
// the live collection.
func (s *Spot) Clone() *Spot {
	clone := *s
	clone.Amenities = slices.Clone(s.Amenities)
	clone.UnavailableDates = slices.Clone(s.UnavailableDates)
	clone.UnavailableDays = slices.Clone(s.UnavailableDays)
	return &clone
}
