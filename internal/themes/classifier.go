// Package themes implements keyword-heuristic theme classification for
// presidential-action titles.
//
// Classification is rule-based and total: a fixed, ordered table of
// (theme, keyword set) rules is evaluated in full for every title, matching
// keywords as substrings of the case-folded title. Multiple rules may match
// one title (labels are non-exclusive). When nothing matches, the sentinel
// label domain.ThemeAmericaFirst is assigned, so the result is never empty
// and classification never fails.
package themes

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/akratos/go-actions-backend/internal/domain"
)

// rule pairs one theme label with the keywords that trigger it.
type rule struct {
	theme    domain.Theme
	keywords []string
}

// rules is the classification table. Order determines the label order in
// multi-theme results; every rule is evaluated for every title.
var rules = []rule{
	{
		theme: domain.ThemeNationalSecurity,
		keywords: []string{
			"border", "security", "terrorist", "invasion", "guantanamo",
			"sanctions", "emergency", "military", "defending", "protection",
			"northern border", "southern border", "aviation", "fighting force",
			"readiness", "iron dome", "counterterror",
		},
	},
	{
		theme: domain.ThemeCulturalValues,
		keywords: []string{
			"second amendment", "faith", "anti-christian", "traditional", "cultural",
			"pardon", "clemency", "restoring", "declassification", "anti-semitism",
			"gender ideology", "indecency", "inauguration", "children", "educational freedom",
			"ending radical", "reinstating",
		},
	},
	{
		theme: domain.ThemeEconomicNationalism,
		keywords: []string{
			"deregulation", "prosperity", "sovereign wealth", "trade policy",
			"economic", "budget", "jobs", "free market", "expanding", "unleashing",
		},
	},
	{
		theme: domain.ThemeForeignPolicy,
		keywords: []string{
			"withdrawing", "united nations", "international", "foreign", "diplomatic",
			"oecd", "global", "foreign aid", "south africa", "china", "revising",
			"sanctions", "withdraw", "extradition",
		},
	},
	{
		theme: domain.ThemeCelebratory,
		keywords: []string{
			"day", "month", "celebrating", "anniversary", "remembrance", "birthday",
			"commemorating", "golden age", "250th", "flag",
		},
	},
}

// fold performs Unicode case folding so matching is case-insensitive beyond
// plain ASCII lowering.
var fold = cases.Fold()

// Classify maps a free-text title to its matching theme labels. The result
// is always non-empty: titles matching no rule receive the sentinel
// domain.ThemeAmericaFirst. The function is pure and safe for concurrent use.
func Classify(title string) domain.ThemeList {
	folded := fold.String(title)

	var out domain.ThemeList
	for _, r := range rules {
		if containsAny(folded, r.keywords) {
			out = append(out, r.theme)
		}
	}
	if len(out) == 0 {
		out = domain.ThemeList{domain.ThemeAmericaFirst}
	}
	return out
}

// ClassifyStrings is Classify with the labels as plain strings, used when
// enriching raw batch records before validation.
func ClassifyStrings(title string) []string {
	return Classify(title).Strings()
}

// containsAny reports whether any keyword occurs as a substring of the
// folded title. Keywords in the rule table are already in folded form.
func containsAny(folded string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(folded, kw) {
			return true
		}
	}
	return false
}
