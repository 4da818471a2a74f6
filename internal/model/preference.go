package model

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a device has no saved preference.
var ErrNotFound = errors.New("not found")

// Preference is the single saved location preference of a device.
type Preference struct {
	DeviceID          string    `json:"device_id"`
	City              *City     `json:"city"`
	PermissionAsked   bool      `json:"permission_asked"`
	PermissionGranted bool      `json:"permission_granted"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// PermissionDenied reports whether the user was asked for location access and refused.
func (p *Preference) PermissionDenied() bool {
	return p != nil && p.PermissionAsked && !p.PermissionGranted
}
