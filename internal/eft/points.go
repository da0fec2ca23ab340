// Package eft provides the anatomical tapping-point mapping and temporal
// smoothing used by the guidance pipeline.
package eft

import "fmt"

// TappingPoint identifies one of the named EFT tapping locations.
type TappingPoint string

const (
	// Brow is the inner eyebrow point.
	Brow TappingPoint = "brow"
	// SideEye is the outer edge of the eye, toward the ear.
	SideEye TappingPoint = "side_eye"
	// UnderEye is the bone directly under the eye.
	UnderEye TappingPoint = "under_eye"
	// UnderNose is between the nose and the upper lip.
	UnderNose TappingPoint = "under_nose"
	// Chin is the crease between lower lip and chin.
	Chin TappingPoint = "chin"
	// Clavicle is the midpoint between the collarbones.
	Clavicle TappingPoint = "clavicle"
	// UnderArm is a hand's width below the armpit.
	UnderArm TappingPoint = "under_arm"
	// TopHead is the crown of the head.
	TopHead TappingPoint = "top_head"
)

// Side qualifies which side of the body a tapping point is on. Center is only
// valid for points without left/right duplication.
type Side string

const (
	SideLeft   Side = "left"
	SideRight  Side = "right"
	SideCenter Side = "center"
)

// AllPoints lists every tapping point in canonical session order.
var AllPoints = []TappingPoint{
	TopHead, Brow, SideEye, UnderEye, UnderNose, Chin, Clavicle, UnderArm,
}

// labels maps tapping points to their on-screen names.
var labels = map[TappingPoint]string{
	Brow:      "Eyebrow",
	SideEye:   "Side of Eye",
	UnderEye:  "Under Eye",
	UnderNose: "Under Nose",
	Chin:      "Chin",
	Clavicle:  "Collarbone",
	UnderArm:  "Under Arm",
	TopHead:   "Top of Head",
}

// Label returns the human-readable name for a tapping point.
func (p TappingPoint) Label() string {
	if l, ok := labels[p]; ok {
		return l
	}
	return string(p)
}

// Valid reports whether p is a known tapping point.
func (p TappingPoint) Valid() bool {
	_, ok := labels[p]
	return ok
}

// Valid reports whether s is a known side.
func (s Side) Valid() bool {
	return s == SideLeft || s == SideRight || s == SideCenter
}

// ParseTappingPoint converts a string to a TappingPoint.
func ParseTappingPoint(s string) (TappingPoint, error) {
	p := TappingPoint(s)
	if !p.Valid() {
		return "", fmt.Errorf("unknown tapping point %q", s)
	}
	return p, nil
}

// ParseSide converts a string to a Side.
func ParseSide(s string) (Side, error) {
	side := Side(s)
	if !side.Valid() {
		return "", fmt.Errorf("unknown side %q", s)
	}
	return side, nil
}

// Key returns the stable smoothing key for a point/side pair.
func Key(p TappingPoint, s Side) string {
	return string(p) + "_" + string(s)
}
