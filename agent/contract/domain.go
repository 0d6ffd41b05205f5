package contract

import (
	"fmt"
	"strings"
)

// Property is the projected view of a listing exposed to the model. Internal
// columns (view counts, gallery, timestamps) are never part of it.
type Property struct {
	ID                 string   `json:"id"`
	Title              string   `json:"title"`
	Slug               string   `json:"slug"`
	PropertyType       string   `json:"property_type"`
	PriceAED           float64  `json:"price_aed"`
	PriceUSD           float64  `json:"price_usd"`
	Bedrooms           int      `json:"bedrooms"`
	Bathrooms          int      `json:"bathrooms"`
	SizeSqft           float64  `json:"size_sqft"`
	Location           string   `json:"location"`
	Features           []string `json:"features"`
	RentalYield        *float64 `json:"rental_yield,omitempty"`
	ROIEstimate        *float64 `json:"roi_estimate,omitempty"`
	GoldenVisaEligible bool     `json:"golden_visa_eligible"`
	IsFeatured         bool     `json:"is_featured"`
	Status             string   `json:"status"`
	PaymentPlan        *string  `json:"payment_plan,omitempty"`
	CompletionDate     *string  `json:"completion_date,omitempty"`
	MainImageURL       *string  `json:"main_image_url,omitempty"`
}

// PropertyFilter combines optional predicates conjunctively. A nil or zero
// field means "no constraint", never "exclude all".
type PropertyFilter struct {
	PropertyType       string
	MinPriceAED        *float64
	MaxPriceAED        *float64
	Bedrooms           *int
	Location           string
	GoldenVisaEligible *bool
}

type Timeline string

const (
	TimelineUrgent      Timeline = "urgent"
	TimelineOneToThree  Timeline = "1-3 months"
	TimelineThreeToSix  Timeline = "3-6 months"
	TimelineSixToTwelve Timeline = "6-12 months"
	TimelineExploring   Timeline = "exploring"
)

func (t Timeline) Valid() bool {
	switch t {
	case TimelineUrgent, TimelineOneToThree, TimelineThreeToSix, TimelineSixToTwelve, TimelineExploring:
		return true
	}
	return false
}

type Purpose string

const (
	PurposePersonalResidence Purpose = "personal residence"
	PurposeInvestment        Purpose = "investment"
	PurposeGoldenVisa        Purpose = "golden visa"
	PurposeSecondHome        Purpose = "second home"
)

func (p Purpose) Valid() bool {
	switch p {
	case PurposePersonalResidence, PurposeInvestment, PurposeGoldenVisa, PurposeSecondHome:
		return true
	}
	return false
}

// LeadQualification is the business object assembled from lead_registration
// tool arguments. BudgetMinAED, Timeline and Purpose are mandatory.
type LeadQualification struct {
	FullName           string   `json:"full_name"`
	Email              string   `json:"email"`
	Phone              string   `json:"phone"`
	BudgetMinAED       float64  `json:"budget_min_aed"`
	BudgetMaxAED       *float64 `json:"budget_max_aed,omitempty"`
	PropertyType       string   `json:"property_type,omitempty"`
	Bedrooms           *int     `json:"bedrooms,omitempty"`
	LocationPreference string   `json:"location_preference,omitempty"`
	Timeline           Timeline `json:"timeline"`
	Purpose            Purpose  `json:"purpose"`
	FinancingNeeded    bool     `json:"financing_needed"`
	Notes              string   `json:"notes,omitempty"`
}

// Validate enforces the mandatory qualification fields. Absence is a
// validation failure, not a silent default.
func (q LeadQualification) Validate() error {
	var missing []string
	if strings.TrimSpace(q.FullName) == "" {
		missing = append(missing, "fullName")
	}
	if strings.TrimSpace(q.Email) == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(q.Phone) == "" {
		missing = append(missing, "phone")
	}
	if q.BudgetMinAED <= 0 {
		missing = append(missing, "budgetMinAed")
	}
	if q.Timeline == "" {
		missing = append(missing, "timeline")
	}
	if q.Purpose == "" {
		missing = append(missing, "purpose")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required fields: %s", ErrValidation, strings.Join(missing, ", "))
	}
	if !q.Timeline.Valid() {
		return fmt.Errorf("%w: invalid timeline %q", ErrValidation, q.Timeline)
	}
	if !q.Purpose.Valid() {
		return fmt.Errorf("%w: invalid purpose %q", ErrValidation, q.Purpose)
	}
	return nil
}

// Lead is the persisted outcome of a successful registration.
type Lead struct {
	ID    string `json:"id"`
	Score int    `json:"score"`
}

// EligibilityResult is a pure function of price; no state, no side effects.
type EligibilityResult struct {
	Eligible     bool   `json:"eligible"`
	ThresholdAED int64  `json:"threshold"`
	Explanation  string `json:"message"`
}

type Viewing struct {
	ID          string `json:"id"`
	LeadID      string `json:"lead_id"`
	PropertyID  string `json:"property_id"`
	ViewingDate string `json:"viewing_date"`
	ViewingTime string `json:"viewing_time"`
	ViewingType string `json:"viewing_type"`
	Status      string `json:"status"`
}
