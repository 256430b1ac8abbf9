package core

import (
	"math"
	"strconv"
	"strings"
)

// Snapshot holds one calendar month's entries: the two income fields, the
// derived total income, and per-category item amounts. The JSON shape is the
// persisted record format: income fields and all six category maps at the top
// level of a single object.
type Snapshot struct {
	Income        float64            `json:"income"`
	MyIncome      float64            `json:"myIncome"`
	PartnerIncome float64            `json:"partnerIncome"`
	Essentials    map[string]float64 `json:"essentials"`
	EMIs          map[string]float64 `json:"emis"`
	NonEssentials map[string]float64 `json:"nonEssentials"`
	Investments   map[string]float64 `json:"investments"`
	Assets        map[string]float64 `json:"assets"`
	Liabilities   map[string]float64 `json:"liabilities"`
}

// NewSnapshot creates an empty snapshot with every schema item present at 0.
func NewSnapshot(schema Schema) *Snapshot {
	s := &Snapshot{}
	s.Normalize(schema)
	return s
}

// Category returns the amount map for a category key, or nil for an unknown
// key. The returned map is the snapshot's own storage.
func (s *Snapshot) Category(key CategoryKey) map[string]float64 {
	switch key {
	case Essentials:
		return s.Essentials
	case EMIs:
		return s.EMIs
	case NonEssentials:
		return s.NonEssentials
	case Investments:
		return s.Investments
	case Assets:
		return s.Assets
	case Liabilities:
		return s.Liabilities
	default:
		return nil
	}
}

func (s *Snapshot) setCategory(key CategoryKey, m map[string]float64) {
	switch key {
	case Essentials:
		s.Essentials = m
	case EMIs:
		s.EMIs = m
	case NonEssentials:
		s.NonEssentials = m
	case Investments:
		s.Investments = m
	case Assets:
		s.Assets = m
	case Liabilities:
		s.Liabilities = m
	}
}

// SetIncome records both income fields and keeps the derived total in sync.
func (s *Snapshot) SetIncome(my, partner float64) {
	s.MyIncome = sanitizeAmount(my)
	s.PartnerIncome = sanitizeAmount(partner)
	s.Income = s.MyIncome + s.PartnerIncome
}

// SetAmount records an item amount. Unknown categories are rejected; item
// keys are free-form so schema additions and orphaned keys both work.
func (s *Snapshot) SetAmount(category CategoryKey, itemKey string, amount float64) error {
	if !KnownCategory(category) {
		return ErrUnknownCategory
	}
	if strings.TrimSpace(itemKey) == "" {
		return ErrEmptyItemKey
	}
	m := s.Category(category)
	if m == nil {
		m = make(map[string]float64)
		s.setCategory(category, m)
	}
	m[itemKey] = sanitizeAmount(amount)
	return nil
}

// Amount returns the stored amount for an item, treating missing entries as 0.
func (s *Snapshot) Amount(category CategoryKey, itemKey string) float64 {
	return s.Category(category)[itemKey]
}

// Normalize backfills the snapshot against a schema: every item present in
// the schema gets a numeric value (0 when absent), nil category maps are
// initialized, and the derived income is recomputed. Amounts for item keys no
// longer in the schema are left in place; nothing references them.
func (s *Snapshot) Normalize(schema Schema) {
	for _, key := range CategoryOrder {
		m := s.Category(key)
		if m == nil {
			m = make(map[string]float64)
			s.setCategory(key, m)
		}
		for itemKey, def := range schema[key].Items {
			if _, ok := m[itemKey]; !ok {
				m[itemKey] = def.Default
			}
		}
		for itemKey, v := range m {
			m[itemKey] = sanitizeAmount(v)
		}
	}
	s.MyIncome = sanitizeAmount(s.MyIncome)
	s.PartnerIncome = sanitizeAmount(s.PartnerIncome)
	s.Income = s.MyIncome + s.PartnerIncome
}

// Clone returns a deep copy of the snapshot.
func (s *Snapshot) Clone() *Snapshot {
	out := &Snapshot{
		Income:        s.Income,
		MyIncome:      s.MyIncome,
		PartnerIncome: s.PartnerIncome,
	}
	for _, key := range CategoryOrder {
		src := s.Category(key)
		if src == nil {
			continue
		}
		dst := make(map[string]float64, len(src))
		for k, v := range src {
			dst[k] = v
		}
		out.setCategory(key, dst)
	}
	return out
}

// ParseAmount converts raw user input to a number, best-effort. Anything that
// does not parse to a finite number becomes 0; there is no error path.
func ParseAmount(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return sanitizeAmount(v)
}

// sanitizeAmount maps NaN and infinities to 0 so arithmetic downstream stays
// finite.
func sanitizeAmount(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
