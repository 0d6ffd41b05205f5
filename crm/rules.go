package crm

import (
	contractx "github.com/apexproperties/concierge/agent/contract"
)

// GoldenVisaThresholdAED is the minimum property investment qualifying for
// the UAE 10-year Golden Visa.
const GoldenVisaThresholdAED int64 = 2_000_000

const (
	goldenVisaEligibleMsg    = "This property qualifies for UAE 10-year Golden Visa"
	goldenVisaNotEligibleMsg = "This property does not meet the AED 2M minimum for Golden Visa"
)

// CheckGoldenVisaEligibility is a pure threshold comparison. Exactly the
// threshold price is eligible.
func CheckGoldenVisaEligibility(priceAED float64) contractx.EligibilityResult {
	eligible := priceAED >= float64(GoldenVisaThresholdAED)
	msg := goldenVisaNotEligibleMsg
	if eligible {
		msg = goldenVisaEligibleMsg
	}
	return contractx.EligibilityResult{
		Eligible:     eligible,
		ThresholdAED: GoldenVisaThresholdAED,
		Explanation:  msg,
	}
}

// ScoreLead rates a qualification 0-100. It is pure and total: every valid
// LeadQualification maps to a score, unknown enum values contribute zero.
func ScoreLead(q contractx.LeadQualification) int {
	score := budgetScore(q.BudgetMinAED) + timelineScore(q.Timeline) + purposeScore(q.Purpose)
	if !q.FinancingNeeded {
		// cash buyers close faster
		score += 10
	}
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}

func budgetScore(minAED float64) int {
	switch {
	case minAED >= 30_000_000:
		return 40
	case minAED >= 10_000_000:
		return 30
	case minAED >= 5_000_000:
		return 20
	case minAED >= float64(GoldenVisaThresholdAED):
		return 15
	case minAED > 0:
		return 5
	default:
		return 0
	}
}

func timelineScore(t contractx.Timeline) int {
	switch t {
	case contractx.TimelineUrgent:
		return 30
	case contractx.TimelineOneToThree:
		return 25
	case contractx.TimelineThreeToSix:
		return 15
	case contractx.TimelineSixToTwelve:
		return 10
	case contractx.TimelineExploring:
		return 5
	default:
		return 0
	}
}

func purposeScore(p contractx.Purpose) int {
	switch p {
	case contractx.PurposeGoldenVisa:
		return 20
	case contractx.PurposeInvestment:
		return 15
	case contractx.PurposePersonalResidence, contractx.PurposeSecondHome:
		return 10
	default:
		return 0
	}
}
