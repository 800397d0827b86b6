package ingest

import (
	"strings"

	"portocli/pkg/contracts/domain"
)

// subClassRule maps free-text sub-category wording onto a SubClass. Rules
// are evaluated in order; the first match wins. A rule with requireCategory
// set only fires when the row's category also matches one of those keywords.
type subClassRule struct {
	subClass        domain.SubClass
	keywords        []string
	prefixOnly      bool
	requireCategory []string
}

var equityCategoryKeywords = []string{"equit", "aktien", "shares"}
var bondCategoryKeywords = []string{"fixed income", "obligation", "bond", "anleihe"}

// subClassRules resolves the sub-category column. Specific wordings come
// before generic ones: "equity fund" must win over the bare "fund", and
// ETFs split into equity and bond variants on the category column.
var subClassRules = []subClassRule{
	{subClass: domain.SubClassMoneyMarketFund, keywords: []string{"money market", "geldmarkt"}},
	{subClass: domain.SubClassEquityFund, keywords: []string{"equity fund", "aktienfonds", "aktien-fonds"}},
	{subClass: domain.SubClassEquityETF, keywords: []string{"etf", "exchange traded fund"}, requireCategory: equityCategoryKeywords},
	{subClass: domain.SubClassSingleStock, keywords: []string{"stock", "share", "aktie", "namenaktie", "inhaberaktie"}, prefixOnly: true},
	{subClass: domain.SubClassBondETF, keywords: []string{"etf", "exchange traded fund"}, requireCategory: bondCategoryKeywords},
	{subClass: domain.SubClassBondFund, keywords: []string{"bond fund", "obligationenfonds", "obligationen-fonds"}},
	{subClass: domain.SubClassCorporateBond, keywords: []string{"bond", "obligation", "anleihe", "notes"}},
	{subClass: domain.SubClassHedgeFund, keywords: []string{"hedge"}},
}

// categoryFallbacks resolves rows whose sub-category matched no rule from
// the coarser category column alone.
var categoryFallbacks = []subClassRule{
	{subClass: domain.SubClassCash, keywords: []string{"liquid", "cash", "konten"}},
	{subClass: domain.SubClassSingleStock, keywords: equityCategoryKeywords},
	{subClass: domain.SubClassCorporateBond, keywords: bondCategoryKeywords},
	{subClass: domain.SubClassAlternative, keywords: []string{"commodit", "rohstoff", "real estate", "immobilien", "alternativ", "übrige"}},
}

// Classify maps the free-text category and sub-category of a statement row
// onto the closed SubClass set. Cash rows short-circuit to SubClassCash.
// The boolean reports whether any rule matched; unmatched rows keep
// SubClassUnclassified and are counted, never rejected.
func Classify(category, subCategory string, isCash bool) (domain.SubClass, bool) {
	if isCash {
		return domain.SubClassCash, true
	}

	cat := strings.ToLower(strings.TrimSpace(category))
	sub := strings.ToLower(strings.TrimSpace(subCategory))

	if sub != "" {
		for _, rule := range subClassRules {
			if !matchesAny(sub, rule.keywords, rule.prefixOnly) {
				continue
			}
			if len(rule.requireCategory) > 0 && !matchesAny(cat, rule.requireCategory, false) {
				continue
			}
			return rule.subClass, true
		}
	}

	for _, rule := range categoryFallbacks {
		if matchesAny(cat, rule.keywords, false) {
			return rule.subClass, true
		}
	}

	return domain.SubClassUnclassified, false
}

func matchesAny(text string, keywords []string, prefixOnly bool) bool {
	for _, kw := range keywords {
		if prefixOnly {
			if strings.HasPrefix(text, kw) {
				return true
			}
		} else if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
