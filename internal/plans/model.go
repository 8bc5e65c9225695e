package plans

import "strings"

// Tier identifies a subscription plan.
type Tier string

const (
	TierStudent   Tier = "STUDENT"
	TierRecruiter Tier = "RECRUITER"
	TierBusiness  Tier = "BUSINESS"
)

// Plan holds the quota policy for a tier. Read-only from the core's perspective.
type Plan struct {
	Tier                 Tier `json:"tier"`
	MaxResumes           int  `json:"maxResumes"`
	MaxSubmissionsPerDay int  `json:"maxSubmissionsPerDay"`
}

// ParseTier normalizes a raw tier string, defaulting to STUDENT.
func ParseTier(raw string) Tier {
	switch Tier(strings.ToUpper(strings.TrimSpace(raw))) {
	case TierRecruiter:
		return TierRecruiter
	case TierBusiness:
		return TierBusiness
	default:
		return TierStudent
	}
}
