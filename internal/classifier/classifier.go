// internal/classifier/classifier.go

// Package classifier maps free-text value-chain activity descriptions to
// GHG Protocol reporting scopes and life-cycle-assessment stages using
// case-insensitive substring keyword rules. Matching is deterministic
// and never fails: unrecognized text degrades to Scope 3 / Unclassified
// / unknown.
package classifier

import "strings"

const (
	Scope1 = "Scope 1"
	Scope2 = "Scope 2"
	Scope3 = "Scope 3"

	StageRawMaterialAcquisition  = "Raw Material Acquisition"
	StageManufacturingProcessing = "Manufacturing & Processing"
	StageDistributionTransport   = "Distribution & Transport"
	StageUsePhase                = "Use Phase"
	StageEndOfLife               = "End of Life"
	StageUnclassified            = "Unclassified"

	Unknown = "unknown"
)

var (
	scope2Keywords = []string{"electricity", "grid", "power", "kwh"}
	scope1Keywords = []string{"diesel", "petrol", "generator", "combustion", "fuel"}

	// stageRules are evaluated in order; the first matching group wins.
	stageRules = []struct {
		keywords []string
		stage    string
	}{
		{[]string{"mining", "extraction", "harvest"}, StageRawMaterialAcquisition},
		{[]string{"manufacturing", "production", "assembly"}, StageManufacturingProcessing},
		{[]string{"transport", "shipping", "logistics", "delivery"}, StageDistributionTransport},
		{[]string{"use", "consumption"}, StageUsePhase},
		{[]string{"disposal", "landfill", "waste", "recycling"}, StageEndOfLife},
	}

	activityTypes = []string{"electricity", "diesel", "natural gas", "transport", "plastic"}
	sources       = []string{"supplier", "own", "grid", "external", "internal", "on-site", "off-site"}
)

// Classification is the fully derived result for one activity text.
type Classification struct {
	ActivityType string `json:"activity_type"`
	Source       string `json:"source"`
	LCAStage     string `json:"lca_stage"`
	Scope        string `json:"scope"`
}

// ScopeNumber returns the scope as its integer form (1..3) for storage.
func (c Classification) ScopeNumber() int {
	switch c.Scope {
	case Scope1:
		return 1
	case Scope2:
		return 2
	default:
		return 3
	}
}

// Classify derives the reporting scope and LCA stage for an activity
// description. Rule order matters: the fuel-keyword rule overrides the
// purchased-energy rule when both match, and the electricity refinement
// has the last word on scope for electricity-related text.
func Classify(activity string) (scope, lcaStage string) {
	lower := strings.ToLower(activity)
	scope = Scope3
	lcaStage = StageUnclassified

	if containsAny(lower, scope2Keywords) {
		scope = Scope2
	}
	if containsAny(lower, scope1Keywords) {
		scope = Scope1
	}

	if strings.Contains(lower, "electricity") {
		switch {
		case strings.Contains(lower, "own") || strings.Contains(lower, "on-site generation"):
			scope = Scope1
		case strings.Contains(lower, "supplier") || strings.Contains(lower, "supply chain"):
			scope = Scope3
		case strings.Contains(lower, "purchased") || strings.Contains(lower, "grid"):
			scope = Scope2
		}
	}

	for _, rule := range stageRules {
		if containsAny(lower, rule.keywords) {
			lcaStage = rule.stage
			break
		}
	}

	return scope, lcaStage
}

// ParseActivity derives the full classification: the first matching
// activity type and source keyword plus the scope and stage from
// Classify. Unmatched fields come back as "unknown".
func ParseActivity(activity string) Classification {
	lower := strings.ToLower(activity)

	activityType := Unknown
	for _, t := range activityTypes {
		if strings.Contains(lower, t) {
			activityType = t
			break
		}
	}

	source := Unknown
	for _, s := range sources {
		if strings.Contains(lower, s) {
			source = s
			break
		}
	}

	scope, lcaStage := Classify(activity)

	return Classification{
		ActivityType: activityType,
		Source:       source,
		LCAStage:     lcaStage,
		Scope:        scope,
	}
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
