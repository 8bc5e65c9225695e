package plans

import "testing"

func TestForTierUnknownFallsBackToStudent(t *testing.T) {
	p := ForTier(Tier("PLATINUM"))
	if p.Tier != TierStudent {
		t.Fatalf("expected STUDENT fallback, got %s", p.Tier)
	}
	if p.MaxSubmissionsPerDay <= 0 || p.MaxResumes <= 0 {
		t.Fatalf("student plan must have positive quotas: %+v", p)
	}
}

func TestParseTier(t *testing.T) {
	cases := map[string]Tier{
		"student":   TierStudent,
		"RECRUITER": TierRecruiter,
		" business": TierBusiness,
		"":          TierStudent,
		"bogus":     TierStudent,
	}
	for raw, want := range cases {
		if got := ParseTier(raw); got != want {
			t.Fatalf("ParseTier(%q) = %s, want %s", raw, got, want)
		}
	}
}

func TestCatalogOrdering(t *testing.T) {
	student := ForTier(TierStudent)
	recruiter := ForTier(TierRecruiter)
	business := ForTier(TierBusiness)
	if !(student.MaxSubmissionsPerDay < recruiter.MaxSubmissionsPerDay && recruiter.MaxSubmissionsPerDay < business.MaxSubmissionsPerDay) {
		t.Fatalf("daily submission quotas must increase by tier")
	}
	if !(student.MaxResumes < recruiter.MaxResumes && recruiter.MaxResumes < business.MaxResumes) {
		t.Fatalf("resume quotas must increase by tier")
	}
}
