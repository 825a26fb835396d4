package entitlements

// Entitlements is the coarse feature grant derived from a user's plan and
// credit balance. Premium bypasses credit accounting entirely; free users
// are bounded by their stored balance.
type Entitlements struct {
	BypassCredits bool `json:"bypass_credits"`
	MaxCredits    int  `json:"max_credits"`
}

func Derive(plan string, credits, unlimited int) Entitlements {
	if plan == PlanPremium {
		return Entitlements{BypassCredits: true, MaxCredits: unlimited}
	}
	if credits < 0 {
		credits = 0
	}
	return Entitlements{MaxCredits: credits}
}
