package plans

var catalog = map[Tier]Plan{
	TierStudent:   {Tier: TierStudent, MaxResumes: 1, MaxSubmissionsPerDay: 3},
	TierRecruiter: {Tier: TierRecruiter, MaxResumes: 5, MaxSubmissionsPerDay: 20},
	TierBusiness:  {Tier: TierBusiness, MaxResumes: 25, MaxSubmissionsPerDay: 100},
}

// ForTier returns the quota policy for a tier. Unknown tiers get the STUDENT plan.
func ForTier(tier Tier) Plan {
	if p, ok := catalog[tier]; ok {
		return p
	}
	return catalog[TierStudent]
}
