package domain

import (
	"time"

	"github.com/google/uuid"
)

// Product represents one device model and its purchasable variants
type Product struct {
	Category    Category  `yaml:"-" json:"category"`
	Model       string    `yaml:"model" json:"model"`
	ProductCode string    `yaml:"productCode" json:"productCode"`
	Variants    []Variant `yaml:"variants" json:"variants"`

	// StorageMenu and FinishMenu are the storage and finish choices shown
	// for a storage-keyed model, spelled as the customer sees them. Priced
	// variants may cover only some of the combinations.
	StorageMenu []string `yaml:"storageOptions,omitempty" json:"storageOptions,omitempty"`
	FinishMenu  []string `yaml:"finishOptions,omitempty" json:"finishOptions,omitempty"`
}

// Variant is a priced configuration of a product. Storage and Size are
// mutually exclusive and chosen by the owning product's Category; the
// category-specific extras are likewise keyed by Category, at most one is set.
type Variant struct {
	Color           string `yaml:"color" json:"color"`
	ColorCode       string `yaml:"colorCode" json:"colorCode"`
	Storage         string `yaml:"storage,omitempty" json:"storage,omitempty"`
	Size            string `yaml:"size,omitempty" json:"size,omitempty"`
	ItemName        string `yaml:"itemName" json:"itemName"`
	MRP             int64  `yaml:"mrp" json:"mrp"`
	Discount        int64  `yaml:"discount" json:"discount"`
	EffectivePrice  *int64 `yaml:"effectivePrice,omitempty" json:"effectivePrice,omitempty"`
	CashBack        *int64 `yaml:"cashBack,omitempty" json:"cashBack,omitempty"`
	InstantDiscount *int64 `yaml:"instantDiscount,omitempty" json:"instantDiscount,omitempty"`
	ExchangeValue   *int64 `yaml:"exchangeValue,omitempty" json:"exchangeValue,omitempty"`
	ExchangeBonus   *int64 `yaml:"exchangeBonus,omitempty" json:"exchangeBonus,omitempty"`

	Phone  *PhoneExtras  `yaml:"phone,omitempty" json:"phone,omitempty"`
	Tablet *TabletExtras `yaml:"tablet,omitempty" json:"tablet,omitempty"`
	Watch  *WatchExtras  `yaml:"watch,omitempty" json:"watch,omitempty"`
	Audio  *AudioExtras  `yaml:"audio,omitempty" json:"audio,omitempty"`
}

// PhoneExtras holds iPhone-only offer fields
type PhoneExtras struct {
	IndentDiscount *int64 `yaml:"indentDiscount,omitempty" json:"indentDiscount,omitempty"`
	FreeGift       string `yaml:"freeGift,omitempty" json:"freeGift,omitempty"`
}

// TabletExtras holds iPad-only fields
type TabletExtras struct {
	Connectivity string `yaml:"connectivity" json:"connectivity"`
	SKU          string `yaml:"sku" json:"sku"`
	ExchangeRate string `yaml:"exchangeRate,omitempty" json:"exchangeRate,omitempty"`
}

// WatchExtras holds Apple Watch-only fields
type WatchExtras struct {
	Band         string `yaml:"band" json:"band"`
	InsertAmount int64  `yaml:"insertAmount" json:"insertAmount"`
}

// AudioExtras holds AirPods-only fields
type AudioExtras struct {
	ItemAlias string `yaml:"itemAlias" json:"itemAlias"`
}

// DisplayPrice is the effective price when the catalog sets one, else the MRP
func (v Variant) DisplayPrice() int64 {
	if v.EffectivePrice != nil {
		return *v.EffectivePrice
	}
	return v.MRP
}

// HasDiscount reports whether a discount badge should be shown
func (v Variant) HasDiscount() bool {
	return v.Discount > 0
}

// Selection is the product half of a pre-booking session. Fields that do
// not apply to Category stay empty.
type Selection struct {
	Category Category `json:"category"`
	Product  string   `json:"product"`
	Storage  string   `json:"storage"`
	Size     string   `json:"size"`
	Finish   string   `json:"finish"`
	Color    string   `json:"color"`
}

// ContactDetails is the customer half of a pre-booking session
type ContactDetails struct {
	FirstName         string `json:"firstName"`
	LastName          string `json:"lastName"`
	Email             string `json:"email"`
	Phone             string `json:"phone"`
	Address           string `json:"address,omitempty"`
	City              string `json:"city,omitempty"`
	Pincode           string `json:"pincode,omitempty"`
	ExpectedVisitDate string `json:"expectedVisitDate,omitempty"`
}

// Attribution carries campaign and UTM tags attached to a lead
type Attribution struct {
	LeadSource       string `json:"leadSource,omitempty"`
	CampaignName     string `json:"campaignName,omitempty"`
	LeadCampaignName string `json:"leadCampaignName,omitempty"`
	AdName           string `json:"adName,omitempty"`
	UTM              string `json:"utm,omitempty"`
	UTMCampaign      string `json:"utmCampaign,omitempty"`
	UTMTerm          string `json:"utmTerm,omitempty"`
	UTMContent       string `json:"utmContent,omitempty"`
	UTMMedium        string `json:"utmMedium,omitempty"`
	UTMSource        string `json:"utmSource,omitempty"`
}

// LeadPayload is the body posted to the lead proxy. Empty values are omitted.
type LeadPayload struct {
	FirstName         string `json:"firstName,omitempty"`
	LastName          string `json:"lastName,omitempty"`
	Phone             string `json:"phone,omitempty"`
	Mobile            string `json:"mobile,omitempty"`
	Email             string `json:"email,omitempty"`
	ItemName          string `json:"itemName,omitempty"`
	ExpectedVisitDate string `json:"expectedVisitDate,omitempty"`
	Attribution
}

// LeadSubmission is an audit record of one forwarded lead
type LeadSubmission struct {
	ID             uuid.UUID
	RequestID      string
	FirstName      string
	LastName       string
	Email          string
	Phone          string
	ItemName       string
	VisitDate      string
	UTMSource      *string
	UTMMedium      *string
	UTMCampaign    *string
	Success        bool
	CRMLeadID      *string
	UpstreamStatus int
	ErrorMessage   *string
	CreatedAt      time.Time
}

// StoreAddress is the postal address of a store
type StoreAddress struct {
	Line1   string `json:"line1"`
	Line2   string `json:"line2,omitempty"`
	Line3   string `json:"line3,omitempty"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
}

// StoreContact holds customer-facing contact channels of a store
type StoreContact struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Store is the retail outlet a landing page deployment books for
type Store struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	Address    StoreAddress `json:"address"`
	Contact    StoreContact `json:"contact"`
	Disclaimer string       `json:"disclaimer"`
	PageTitle  string       `json:"pageTitle"`
}
