package core

import (
	"errors"
	"sort"
	"strings"
)

const (
	Essentials    CategoryKey = "essentials"
	EMIs          CategoryKey = "emis"
	NonEssentials CategoryKey = "nonEssentials"
	Investments   CategoryKey = "investments"
	Assets        CategoryKey = "assets"
	Liabilities   CategoryKey = "liabilities"
)

type (
	CategoryKey string

	// ItemDef describes a single line item within a category.
	ItemDef struct {
		Label   string  `json:"label"`
		Default float64 `json:"default"`
	}

	// CategoryDef describes one of the six budget categories and its items.
	CategoryDef struct {
		Label string             `json:"label"`
		Icon  string             `json:"icon"`
		Color string             `json:"color"`
		Items map[string]ItemDef `json:"items"`
	}

	// Schema maps the six category keys to their definitions. The key set is
	// fixed; the item maps are user-editable at runtime.
	Schema map[CategoryKey]CategoryDef
)

// CategoryOrder is the canonical display and aggregation order.
var CategoryOrder = []CategoryKey{Essentials, EMIs, NonEssentials, Investments, Assets, Liabilities}

var (
	ErrUnknownCategory = errors.New("unknown category")
	ErrUnknownItem     = errors.New("unknown item")
	ErrLastItem        = errors.New("cannot delete the last item in a category")
	ErrEmptyItemKey    = errors.New("empty item key")
	ErrNoItems         = errors.New("category has no items")
)

// KnownCategory reports whether k is one of the six fixed category keys.
func KnownCategory(k CategoryKey) bool {
	switch k {
	case Essentials, EMIs, NonEssentials, Investments, Assets, Liabilities:
		return true
	default:
		return false
	}
}

// DefaultSchema returns the built-in category schema. Callers receive a
// fresh copy on every call and may mutate it freely.
func DefaultSchema() Schema {
	return Schema{
		Essentials: {
			Label: "Essentials", Icon: "🏠", Color: "#4CAF50",
			Items: map[string]ItemDef{
				"rent":              {Label: "Rent"},
				"electricity":       {Label: "Electricity"},
				"waterGas":          {Label: "Water & Gas"},
				"groceries":         {Label: "Groceries"},
				"houseMaintenance":  {Label: "House Maintenance"},
				"phoneWifi":         {Label: "Phone & Wifi"},
				"healthcare":        {Label: "Healthcare"},
				"insurancePremiums": {Label: "Insurance Premiums"},
				"childEducation":    {Label: "Child's Education"},
				"otherEssentials":   {Label: "Other Essentials"},
			},
		},
		EMIs: {
			Label: "EMIs", Icon: "🏦", Color: "#FF9800",
			Items: map[string]ItemDef{
				"homeLoanEmi":      {Label: "Home Loan EMI"},
				"carLoanEmi":       {Label: "Car Loan EMI"},
				"twoWheelerEmi":    {Label: "2-Wheeler Loan EMI"},
				"personalLoanEmi":  {Label: "Personal Loan EMI"},
				"educationLoanEmi": {Label: "Education Loan EMI"},
				"creditCardBills":  {Label: "Credit Card Bills"},
				"otherEmis":        {Label: "Other EMIs"},
			},
		},
		NonEssentials: {
			Label: "Non-Essentials", Icon: "🛍️", Color: "#E91E63",
			Items: map[string]ItemDef{
				"transportation":    {Label: "Transportation"},
				"personalCare":      {Label: "Personal Care"},
				"shopping":          {Label: "Shopping"},
				"tvOtt":             {Label: "TV & OTT Subscriptions"},
				"diningOut":         {Label: "Dining Out"},
				"entertainment":     {Label: "Entertainment"},
				"gymMembership":     {Label: "Gym Membership"},
				"otherNonEssentials": {Label: "Other Non-Essentials"},
			},
		},
		Investments: {
			Label: "Investments", Icon: "📈", Color: "#2196F3",
			Items: map[string]ItemDef{
				"mutualFundsSip":    {Label: "Mutual Funds SIP"},
				"stocksInvestments": {Label: "Stocks Investments"},
				"npsPpf":            {Label: "NPS/PPF Investments"},
				"sgbGold":           {Label: "SGB/Gold"},
				"otherInvestments":  {Label: "Other Investments"},
			},
		},
		Assets: {
			Label: "Assets", Icon: "🏆", Color: "#9C27B0",
			Items: map[string]ItemDef{
				"realEstate":    {Label: "Real Estate (House, Land)"},
				"car":           {Label: "Car"},
				"cashBankFd":    {Label: "Cash, Bank, FDs & Liquid Funds"},
				"stocksMfsGold": {Label: "Stocks, MFs, Gold"},
				"npsPf":         {Label: "NPS, PF, etc."},
				"fdRds":         {Label: "FD/RDs"},
				"otherAssets":   {Label: "Other Assets"},
			},
		},
		Liabilities: {
			Label: "Liabilities", Icon: "💳", Color: "#f44336",
			Items: map[string]ItemDef{
				"homeLoan":        {Label: "Home Loan"},
				"carLoan":         {Label: "Car/Vehicle Loan"},
				"personalLoan":    {Label: "Personal Loan"},
				"educationalLoan": {Label: "Educational Loan"},
				"businessLoan":    {Label: "Business Loan"},
				"otherLoans":      {Label: "Other Loans"},
			},
		},
	}
}

// Clone returns a deep copy of the schema.
func (s Schema) Clone() Schema {
	out := make(Schema, len(s))
	for key, def := range s {
		items := make(map[string]ItemDef, len(def.Items))
		for k, it := range def.Items {
			items[k] = it
		}
		def.Items = items
		out[key] = def
	}
	return out
}

// Validate checks the schema invariants: only known category keys, no empty
// item keys, and at least one item per category.
func (s Schema) Validate() error {
	for key, def := range s {
		if !KnownCategory(key) {
			return ErrUnknownCategory
		}
		if len(def.Items) == 0 {
			return ErrNoItems
		}
		for itemKey := range def.Items {
			if strings.TrimSpace(itemKey) == "" {
				return ErrEmptyItemKey
			}
		}
	}
	return nil
}

// ItemKeys returns the item keys of a category in a stable order.
func (s Schema) ItemKeys(key CategoryKey) []string {
	def, ok := s[key]
	if !ok {
		return nil
	}
	keys := make([]string, 0, len(def.Items))
	for k := range def.Items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
