package domain

import "strings"

// Category represents a device family offered on the pre-booking page
type Category string

const (
	CategoryIPhone  Category = "iphone"
	CategoryIPad    Category = "ipad"
	CategoryMacBook Category = "macbook"
	CategoryWatch   Category = "watch"
	CategoryAirPods Category = "airpods"
)

// Categories lists every category in display order
var Categories = []Category{
	CategoryIPhone,
	CategoryIPad,
	CategoryMacBook,
	CategoryWatch,
	CategoryAirPods,
}

// ParseCategory accepts the canonical id as well as the plural catalog keys
// ("iphones", "watches") used by the data files.
func ParseCategory(s string) (Category, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	switch key {
	case "iphones":
		key = "iphone"
	case "ipads":
		key = "ipad"
	case "macbooks":
		key = "macbook"
	case "watches":
		key = "watch"
	}
	c := Category(key)
	return c, c.IsValid()
}

// IsValid checks if the category is known
func (c Category) IsValid() bool {
	switch c {
	case CategoryIPhone,
		CategoryIPad,
		CategoryMacBook,
		CategoryWatch,
		CategoryAirPods:
		return true
	default:
		return false
	}
}

// Label returns the human readable category name
func (c Category) Label() string {
	switch c {
	case CategoryIPhone:
		return "iPhone"
	case CategoryIPad:
		return "iPad"
	case CategoryMacBook:
		return "MacBook"
	case CategoryWatch:
		return "Apple Watch"
	case CategoryAirPods:
		return "AirPods"
	default:
		return string(c)
	}
}

// Dimension is the variant attribute that sits next to color in the lookup key
type Dimension string

const (
	DimensionStorage Dimension = "storage"
	DimensionSize    Dimension = "size"
	DimensionNone    Dimension = ""
)

// Dimension reports which attribute a category's variants are keyed by
func (c Category) Dimension() Dimension {
	switch c {
	case CategoryIPhone, CategoryIPad, CategoryMacBook:
		return DimensionStorage
	case CategoryWatch:
		return DimensionSize
	default:
		return DimensionNone
	}
}

// UsesStorage is true for categories picked by storage + finish
func (c Category) UsesStorage() bool {
	return c.Dimension() == DimensionStorage
}

// UsesSize is true for categories picked by size + color
func (c Category) UsesSize() bool {
	return c.Dimension() == DimensionSize
}

// WizardStep represents the position of a pre-booking session
type WizardStep string

const (
	WizardStepProduct    WizardStep = "PRODUCT"
	WizardStepDetails    WizardStep = "DETAILS"
	WizardStepSubmitting WizardStep = "SUBMITTING"
	WizardStepSuccess    WizardStep = "SUCCESS"
	WizardStepFailed     WizardStep = "FAILED"
)

// IsValid checks if the step is valid
func (s WizardStep) IsValid() bool {
	switch s {
	case WizardStepProduct,
		WizardStepDetails,
		WizardStepSubmitting,
		WizardStepSuccess,
		WizardStepFailed:
		return true
	default:
		return false
	}
}

// CanTransitionTo checks if a step transition is valid
func (s WizardStep) CanTransitionTo(next WizardStep) bool {
	switch s {
	case WizardStepProduct:
		return next == WizardStepDetails
	case WizardStepDetails:
		return next == WizardStepProduct ||
			next == WizardStepSubmitting
	case WizardStepSubmitting:
		return next == WizardStepSuccess ||
			next == WizardStepFailed
	case WizardStepFailed:
		return next == WizardStepDetails
	case WizardStepSuccess:
		// Only "start over" leaves a successful session
		return next == WizardStepProduct
	default:
		return false
	}
}
