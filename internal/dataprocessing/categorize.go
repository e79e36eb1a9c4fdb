package dataprocessing

import "strings"

// categoryRule pairs a predicate with the label it assigns. Rules are
// evaluated in order and the first match wins; the order matters because the
// keyword groups overlap (a name containing both "maternal" and "training"
// is Maternal Health, not Training & Education).
type categoryRule struct {
	label CategoryLabel
	match func(name string) bool
}

var categoryRules = []categoryRule{
	{CategoryMentalHealth, matchAny("mental health", "pediatric mental")},
	{CategoryMaternal, matchAny("maternal", "healthy start")},
	{CategoryHomeVisiting, func(name string) bool {
		// Both substrings required, not necessarily adjacent.
		return strings.Contains(name, "home") && strings.Contains(name, "visit")
	}},
	{CategorySpecialNeeds, matchAny("cshcn", "special")},
	{CategoryTraining, matchAny("training", "leadership", "education")},
	{CategoryEmergency, matchAny("emsc", "emergency")},
	{CategoryScreening, matchAny("screening", "newborn")},
}

func matchAny(keywords ...string) func(string) bool {
	return func(name string) bool {
		for _, kw := range keywords {
			if strings.Contains(name, kw) {
				return true
			}
		}
		return false
	}
}

// Categorize maps a free-text program name to exactly one CategoryLabel.
// A missing name resolves to Unknown; a name matching no rule group resolves
// to Other. Matching is case-insensitive substring containment.
func Categorize(programName string) CategoryLabel {
	name := strings.ToLower(strings.TrimSpace(programName))
	if name == "" {
		return CategoryUnknown
	}

	for _, rule := range categoryRules {
		if rule.match(name) {
			return rule.label
		}
	}

	return CategoryOther
}
