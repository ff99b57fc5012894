package models

import (
	"fmt"
	"strings"
	"time"
)

// Category classifies a pin on the map.
type Category string

const (
	CategoryDropPoint     Category = "Drop Point"
	CategoryTransitCenter Category = "Transit Center"
	CategoryGateway       Category = "Gateway"
	CategoryMiniDropPoint Category = "Mini Drop Point"
)

// Categories lists every valid category value.
var Categories = []Category{
	CategoryDropPoint,
	CategoryTransitCenter,
	CategoryGateway,
	CategoryMiniDropPoint,
}

// ParseCategory matches a raw value against the known categories,
// falling back to Drop Point for anything unrecognised.
func ParseCategory(raw string) Category {
	for _, c := range Categories {
		if strings.EqualFold(string(c), strings.TrimSpace(raw)) {
			return c
		}
	}
	return CategoryDropPoint
}

// OperationStatus says whether a location is currently open for business.
type OperationStatus string

const (
	StatusOpen   OperationStatus = "Buka"
	StatusClosed OperationStatus = "Tutup"
)

// ParseStatus treats anything other than the closed value as open.
func ParseStatus(raw string) OperationStatus {
	if strings.EqualFold(strings.TrimSpace(raw), string(StatusClosed)) {
		return StatusClosed
	}
	return StatusOpen
}

// Partnership is the commercial relationship of a location with the network.
type Partnership string

const (
	PartnershipAgent Partnership = "AGENT"
	PartnershipMitra Partnership = "MITRA"
)

// ParsePartnership falls back to AGENT for unknown values.
func ParsePartnership(raw string) Partnership {
	if strings.EqualFold(strings.TrimSpace(raw), string(PartnershipMitra)) {
		return PartnershipMitra
	}
	return PartnershipAgent
}

// Location is a point of interest on the public map. ID and CreatedAt are
// immutable once the record is stored.
type Location struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Category       Category        `json:"category"`
	Lat            float64         `json:"lat"`
	Lng            float64         `json:"lng"`
	Description    string          `json:"description,omitempty"`
	Address        string          `json:"address,omitempty"`
	Phone          string          `json:"phone,omitempty"`
	OwnerName      string          `json:"ownerName,omitempty"`
	Whatsapp       string          `json:"whatsapp,omitempty"`
	OperatingHours string          `json:"operatingHours,omitempty"`
	ImageURL       string          `json:"imageUrl,omitempty"`
	Partnership    Partnership     `json:"partnershipStatus,omitempty"`
	Status         OperationStatus `json:"status,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// Validate collects human-readable problems with a record before it is
// persisted. An empty slice means the record is storable.
func (l Location) Validate() []string {
	var errs []string
	if strings.TrimSpace(l.Name) == "" {
		errs = append(errs, "name is required")
	}
	if strings.TrimSpace(l.Description) == "" {
		errs = append(errs, "description is required")
	}
	if l.Lat < -90 || l.Lat > 90 {
		errs = append(errs, fmt.Sprintf("latitude %v out of range [-90, 90]", l.Lat))
	}
	if l.Lng < -180 || l.Lng > 180 {
		errs = append(errs, fmt.Sprintf("longitude %v out of range [-180, 180]", l.Lng))
	}
	return errs
}
