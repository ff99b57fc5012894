package models

import "time"

// ChangeSet is a field-level diff against a Location. One optional slot per
// reportable field; only populated slots are serialized, so the stored JSON
// carries exactly the fields that differ. Lat/Lng and the enum fields use
// their own types so a merge can never smuggle in an invalid value class.
type ChangeSet struct {
	Name           *string          `json:"name,omitempty"`
	Category       *Category        `json:"category,omitempty"`
	Lat            *float64         `json:"lat,omitempty"`
	Lng            *float64         `json:"lng,omitempty"`
	Description    *string          `json:"description,omitempty"`
	Address        *string          `json:"address,omitempty"`
	Phone          *string          `json:"phone,omitempty"`
	OwnerName      *string          `json:"ownerName,omitempty"`
	Whatsapp       *string          `json:"whatsapp,omitempty"`
	OperatingHours *string          `json:"operatingHours,omitempty"`
	ImageURL       *string          `json:"imageUrl,omitempty"`
	Partnership    *Partnership     `json:"partnershipStatus,omitempty"`
	Status         *OperationStatus `json:"status,omitempty"`
}

// IsEmpty reports whether no slot is populated.
func (c ChangeSet) IsEmpty() bool {
	return c.Name == nil && c.Category == nil && c.Lat == nil && c.Lng == nil &&
		c.Description == nil && c.Address == nil && c.Phone == nil &&
		c.OwnerName == nil && c.Whatsapp == nil && c.OperatingHours == nil &&
		c.ImageURL == nil && c.Partnership == nil && c.Status == nil
}

// Apply merges the populated slots into a copy of the given location.
// Unpopulated fields keep their original values; ID and CreatedAt are never
// touched. Applying the same ChangeSet twice yields the same record.
func (c ChangeSet) Apply(l Location) Location {
	if c.Name != nil {
		l.Name = *c.Name
	}
	if c.Category != nil {
		l.Category = *c.Category
	}
	if c.Lat != nil {
		l.Lat = *c.Lat
	}
	if c.Lng != nil {
		l.Lng = *c.Lng
	}
	if c.Description != nil {
		l.Description = *c.Description
	}
	if c.Address != nil {
		l.Address = *c.Address
	}
	if c.Phone != nil {
		l.Phone = *c.Phone
	}
	if c.OwnerName != nil {
		l.OwnerName = *c.OwnerName
	}
	if c.Whatsapp != nil {
		l.Whatsapp = *c.Whatsapp
	}
	if c.OperatingHours != nil {
		l.OperatingHours = *c.OperatingHours
	}
	if c.ImageURL != nil {
		l.ImageURL = *c.ImageURL
	}
	if c.Partnership != nil {
		l.Partnership = *c.Partnership
	}
	if c.Status != nil {
		l.Status = *c.Status
	}
	return l
}

// ChangeReport is a visitor-submitted proposal to edit one location. PinName
// is a display snapshot taken at submission time; PinID may dangle if the
// location is deleted before review. A report is consumed exactly once by an
// admin decision and never mutated in place.
type ChangeReport struct {
	ReportID   string    `json:"reportId"`
	PinID      string    `json:"pinId"`
	PinName    string    `json:"pinName"`
	Changes    ChangeSet `json:"changes"`
	ReportedAt time.Time `json:"reportedAt"`
}
