// Package reports implements the change-report workflow: visitors propose
// field-level edits to a location, admins approve, reject or approve-and-edit
// them.
package reports

import (
	"errors"
	"strings"

	"petapintar/internal/models"
)

// ErrNoChanges means the draft is identical to the stored record; no report
// is created for it.
var ErrNoChanges = errors.New("draft contains no changes")

// Draft carries the proposed values from a report form. Nil slots were not on
// the form; populated slots are compared against the stored record.
type Draft struct {
	Name           *string  `json:"name,omitempty"`
	Category       *string  `json:"category,omitempty"`
	Lat            *float64 `json:"lat,omitempty"`
	Lng            *float64 `json:"lng,omitempty"`
	Description    *string  `json:"description,omitempty"`
	Address        *string  `json:"address,omitempty"`
	Phone          *string  `json:"phone,omitempty"`
	OwnerName      *string  `json:"ownerName,omitempty"`
	Whatsapp       *string  `json:"whatsapp,omitempty"`
	OperatingHours *string  `json:"operatingHours,omitempty"`
	ImageURL       *string  `json:"imageUrl,omitempty"`
	Partnership    *string  `json:"partnershipStatus,omitempty"`
	Status         *string  `json:"status,omitempty"`
}

// diffString normalizes both sides (trim whitespace, empty equals unset) and
// returns the proposed value only when the normalized values differ. This is
// the single equality rule applied to every text field, so a form that blanks
// an absent field never produces a spurious change entry.
func diffString(proposed *string, current string) *string {
	if proposed == nil {
		return nil
	}
	p := strings.TrimSpace(*proposed)
	if p == strings.TrimSpace(current) {
		return nil
	}
	return &p
}

// BuildChanges diffs a draft against the stored record and returns a
// ChangeSet holding only the fields whose proposed values differ.
func BuildChanges(original models.Location, draft Draft) models.ChangeSet {
	var c models.ChangeSet

	c.Name = diffString(draft.Name, original.Name)
	c.Description = diffString(draft.Description, original.Description)
	c.Address = diffString(draft.Address, original.Address)
	c.Phone = diffString(draft.Phone, original.Phone)
	c.OwnerName = diffString(draft.OwnerName, original.OwnerName)
	c.Whatsapp = diffString(draft.Whatsapp, original.Whatsapp)
	c.OperatingHours = diffString(draft.OperatingHours, original.OperatingHours)
	c.ImageURL = diffString(draft.ImageURL, original.ImageURL)

	if draft.Category != nil {
		if cat := models.ParseCategory(*draft.Category); cat != original.Category {
			c.Category = &cat
		}
	}
	if draft.Partnership != nil {
		if p := models.ParsePartnership(*draft.Partnership); p != original.Partnership {
			c.Partnership = &p
		}
	}
	if draft.Status != nil {
		if st := models.ParseStatus(*draft.Status); st != original.Status {
			c.Status = &st
		}
	}
	if draft.Lat != nil && *draft.Lat != original.Lat {
		c.Lat = draft.Lat
	}
	if draft.Lng != nil && *draft.Lng != original.Lng {
		c.Lng = draft.Lng
	}

	return c
}
