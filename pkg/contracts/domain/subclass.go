package domain

// SubClass is the closed instrument-classification enum. Bank statements
// carry free-text category labels; the classifier maps them onto these
// codes on a best-effort basis. SubClassUnclassified is a valid persisted
// state meaning the mapping needs manual follow-up.
type SubClass int

const (
	SubClassUnclassified SubClass = iota
	SubClassCash
	SubClassMoneyMarketFund
	SubClassEquityFund
	SubClassEquityETF
	SubClassSingleStock
	SubClassBondETF
	SubClassBondFund
	SubClassCorporateBond
	SubClassHedgeFund
	SubClassAlternative
)

var subClassNames = map[SubClass]string{
	SubClassUnclassified:    "unclassified",
	SubClassCash:            "cash",
	SubClassMoneyMarketFund: "money_market_fund",
	SubClassEquityFund:      "equity_fund",
	SubClassEquityETF:       "equity_etf",
	SubClassSingleStock:     "single_stock",
	SubClassBondETF:         "bond_etf",
	SubClassBondFund:        "bond_fund",
	SubClassCorporateBond:   "corporate_bond",
	SubClassHedgeFund:       "hedge_fund",
	SubClassAlternative:     "alternative",
}

// String returns the stable snake_case name used in exports and the store.
func (s SubClass) String() string {
	if name, ok := subClassNames[s]; ok {
		return name
	}
	return "unclassified"
}

// SubClassFromName resolves a stored snake_case name back to its code.
// Unknown names map to SubClassUnclassified.
func SubClassFromName(name string) SubClass {
	for code, n := range subClassNames {
		if n == name {
			return code
		}
	}
	return SubClassUnclassified
}

// Valid reports whether s is one of the defined codes.
func (s SubClass) Valid() bool {
	_, ok := subClassNames[s]
	return ok
}
