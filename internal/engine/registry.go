package engine

import (
	"github.com/google/uuid"

	"github.com/parkwell-gh/parkwell/internal/data"
	"github.com/parkwell-gh/parkwell/internal/geo"
	"github.com/parkwell-gh/parkwell/internal/store"
	"github.com/parkwell-gh/parkwell/internal/validator"
)

// MaxOwnerDistance is how far, in meters, a non-privileged submitter's
// claimed position may be from the spot being registered.
const MaxOwnerDistance = 100.0

// CreateSpot registers a new spot. Non-admin submitters must supply a
// claimed position within MaxOwnerDistance of the spot. IDs are assigned as
// max(existing)+1 so insertion order stays deterministic, and each spot
// receives a stable qr_code_id exactly once.
func (e *Engine) CreateSpot(draft *data.SpotDraft, req Requester) (*data.Spot, error) {
	if draft.Lat == nil || draft.Lng == nil || draft.Price == nil || draft.Available == nil {
		return nil, data.ErrInvalidDraft
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.retryPending()

	if !req.Admin {
		if req.Lat == nil || req.Lng == nil {
			return nil, data.ErrLocationDenied
		}
		if geo.Distance(*req.Lat, *req.Lng, *draft.Lat, *draft.Lng) > MaxOwnerDistance {
			return nil, data.ErrLocationDenied
		}
	}

	var maxID int64
	for _, spot := range e.spots {
		if spot.ID > maxID {
			maxID = spot.ID
		}
	}

	vehicleType := draft.VehicleType
	if vehicleType == "" {
		vehicleType = data.VehicleTypeCar
	}

	spot := &data.Spot{
		ID:               maxID + 1,
		Name:             draft.Name,
		Lat:              *draft.Lat,
		Lng:              *draft.Lng,
		Price:            *draft.Price,
		Available:        *draft.Available,
		TrustLevel:       draft.TrustLevel,
		VehicleType:      vehicleType,
		ImageURL:         draft.ImageURL,
		QRCodeID:         uuid.NewString(),
		Amenities:        draft.Amenities,
		UnavailableDates: draft.UnavailableDates,
		UnavailableDays:  draft.UnavailableDays,
		OwnerID:          draft.OwnerID,
	}

	if req.Admin {
		e.pushUndo()
	}

	e.spots = append(e.spots, spot)
	e.persistPut(store.CollectionSpots, spotKey(spot.ID), spot)
	e.notify(EventSpotAdded, SpotEventPayload{SpotID: spot.ID})

	return spot.Clone(), nil
}

// UpdateSpot applies an allow-listed partial update. Supplied fields must
// pass the same bounds as a fresh draft, so a patch can never commit
// negative capacity or an off-the-map position. is_premium is only honored
// for privileged requesters.
func (e *Engine) UpdateSpot(id int64, patch *data.SpotPatch, req Requester) (*data.Spot, error) {
	v := validator.New()
	if data.ValidateSpotPatch(v, patch); !v.Valid() {
		return nil, data.ErrInvalidDraft
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.retryPending()

	_, spot := e.findSpot(id)
	if spot == nil {
		return nil, data.ErrRecordNotFound
	}

	if req.Admin {
		e.pushUndo()
	}

	if patch.Name != nil {
		spot.Name = *patch.Name
	}
	if patch.Lat != nil {
		spot.Lat = *patch.Lat
	}
	if patch.Lng != nil {
		spot.Lng = *patch.Lng
	}
	if patch.Price != nil {
		spot.Price = *patch.Price
	}
	if patch.Available != nil {
		spot.Available = *patch.Available
	}
	if patch.TrustLevel != nil {
		spot.TrustLevel = *patch.TrustLevel
	}
	if patch.VehicleType != nil {
		spot.VehicleType = *patch.VehicleType
	}
	if patch.ImageURL != nil {
		spot.ImageURL = *patch.ImageURL
	}
	if patch.Amenities != nil {
		spot.Amenities = *patch.Amenities
	}
	if patch.UnavailableDates != nil {
		spot.UnavailableDates = *patch.UnavailableDates
	}
	if patch.UnavailableDays != nil {
		spot.UnavailableDays = *patch.UnavailableDays
	}
	if patch.UnavailableReason != nil {
		spot.UnavailableReason = *patch.UnavailableReason
	}
	if patch.IsPremium != nil && req.Admin {
		spot.IsPremium = *patch.IsPremium
	}

	e.persistPut(store.CollectionSpots, spotKey(spot.ID), spot)
	e.notify(EventSpotUpdated, SpotEventPayload{SpotID: spot.ID})

	return spot.Clone(), nil
}

// DeleteSpot removes a spot and cascades to its active session. The cascade
// runs even when the spot row itself is already gone, so an orphaned
// session left by a partial earlier failure still self-heals.
func (e *Engine) DeleteSpot(id int64, req Requester) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.retryPending()

	idx, spot := e.findSpot(id)
	if spot == nil {
		e.removeSession(id)
		return data.ErrRecordNotFound
	}

	if req.Admin {
		e.pushUndo()
	}

	e.spots = append(e.spots[:idx], e.spots[idx+1:]...)
	e.removeSession(id)

	e.persistDelete(store.CollectionSpots, spotKey(id))
	e.notify(EventSpotDeleted, SpotEventPayload{SpotID: id})

	return nil
}

// Spots returns the full collection in insertion order, as deep copies.
func (e *Engine) Spots() []*data.Spot {
	e.mu.Lock()
	defer e.mu.Unlock()

	spots := make([]*data.Spot, len(e.spots))
	for i, spot := range e.spots {
		spots[i] = spot.Clone()
	}
	return spots
}

// Spot returns one spot by id.
func (e *Engine) Spot(id int64) (*data.Spot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, spot := e.findSpot(id)
	if spot == nil {
		return nil, data.ErrRecordNotFound
	}
	return spot.Clone(), nil
}

// SpotByQRCode resolves a scanned QR token back to its spot.
func (e *Engine) SpotByQRCode(code string) (*data.Spot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, spot := range e.spots {
		if spot.QRCodeID == code {
			return spot.Clone(), nil
		}
	}
	return nil, data.ErrRecordNotFound
}
