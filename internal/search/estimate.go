package search

import "github.com/prasmadji/maganghub-seeker/internal/maganghub"

// Estimate holds the derived competitiveness fields of a record. Each value
// carries its own defined flag: a zero-quota posting has a defined
// acceptance probability (0.0) but no applicants-per-slot ratio, and a
// malformed counter leaves both undefined.
type Estimate struct {
	ApplicantsPerSlot        float64
	AcceptanceProb           float64
	ApplicantsPerSlotDefined bool
	AcceptanceProbDefined    bool
}

// EstimateAcceptance computes the acceptance fields for one record. Both
// jumlah_kuota and jumlah_terdaftar must parse as non-negative integers;
// otherwise the record is flagged undefined rather than defaulted to a
// silently wrong number.
//
// Division by registered+1 keeps the probability defined when nobody has
// registered yet and treats zero registrants as favorable but not certain.
func EstimateAcceptance(vacancy *maganghub.Vacancy) Estimate {
	quota, ok := vacancy.Quota()
	if !ok {
		return Estimate{}
	}

	registered, ok := vacancy.Registered()
	if !ok {
		return Estimate{}
	}

	est := Estimate{
		AcceptanceProb:        float64(quota) / float64(registered+1),
		AcceptanceProbDefined: true,
	}
	if est.AcceptanceProb > 1.0 {
		est.AcceptanceProb = 1.0
	}

	if quota > 0 {
		est.ApplicantsPerSlot = float64(registered+1) / float64(quota)
		est.ApplicantsPerSlotDefined = true
	}

	return est
}
