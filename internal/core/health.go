package core

const (
	HealthGood    HealthStatus = "good"
	HealthWarning HealthStatus = "warning"
	HealthDanger  HealthStatus = "danger"
	// HealthNoData is the neutral status reported when income is not positive
	// and percentages are meaningless.
	HealthNoData HealthStatus = "nodata"
)

const (
	HealthKeyEssentials    HealthKey = "essentials"
	HealthKeyEMIs          HealthKey = "emis"
	HealthKeyNonEssentials HealthKey = "nonEssentials"
	HealthKeySavings       HealthKey = "savings"
)

type (
	HealthStatus string

	// HealthKey identifies one of the four health indicators. The first three
	// match spending categories; savings is derived.
	HealthKey string

	// Thresholds are percentages of income. For spending indicators lower is
	// better and Good < Warning; for savings higher is better and
	// Good > Warning.
	Thresholds struct {
		Good    float64 `json:"good"`
		Warning float64 `json:"warning"`
	}

	// HealthItem is one classified indicator.
	HealthItem struct {
		Key     HealthKey    `json:"key"`
		Percent float64      `json:"percent"`
		Status  HealthStatus `json:"status"`
	}
)

// DefaultThresholds reproduce the fixed guideline percentages: essentials,
// EMIs and non-essentials cap at 50/20/15 percent of income for a good
// rating, and savings of at least 20 percent rate as good.
func DefaultThresholds() map[HealthKey]Thresholds {
	return map[HealthKey]Thresholds{
		HealthKeyEssentials:    {Good: 50, Warning: 60},
		HealthKeyEMIs:          {Good: 20, Warning: 30},
		HealthKeyNonEssentials: {Good: 15, Warning: 25},
		HealthKeySavings:       {Good: 20, Warning: 10},
	}
}

// ClassifyHealth maps a percentage of income to a status. Boundaries are
// inclusive on the favorable side: a spending indicator exactly at the good
// threshold is good, exactly at the warning threshold is warning. Inverted
// indicators (savings) flip the comparison since higher is better.
func ClassifyHealth(percent float64, t Thresholds, inverted bool) HealthStatus {
	if inverted {
		switch {
		case percent >= t.Good:
			return HealthGood
		case percent >= t.Warning:
			return HealthWarning
		default:
			return HealthDanger
		}
	}
	switch {
	case percent <= t.Good:
		return HealthGood
	case percent <= t.Warning:
		return HealthWarning
	default:
		return HealthDanger
	}
}

// HealthReport classifies the four indicators against the default
// thresholds. With income ≤ 0 every indicator reports 0% and the neutral
// no-data status.
func HealthReport(m Metrics) []HealthItem {
	thresholds := DefaultThresholds()
	keys := []HealthKey{HealthKeyEssentials, HealthKeyEMIs, HealthKeyNonEssentials, HealthKeySavings}

	if m.Income <= 0 {
		items := make([]HealthItem, 0, len(keys))
		for _, key := range keys {
			items = append(items, HealthItem{Key: key, Status: HealthNoData})
		}
		return items
	}

	values := map[HealthKey]float64{
		HealthKeyEssentials:    m.EssentialsTotal,
		HealthKeyEMIs:          m.EMIsTotal,
		HealthKeyNonEssentials: m.NonEssentialsTotal,
		HealthKeySavings:       m.Savings,
	}
	items := make([]HealthItem, 0, len(keys))
	for _, key := range keys {
		percent := values[key] / m.Income * 100
		items = append(items, HealthItem{
			Key:     key,
			Percent: percent,
			Status:  ClassifyHealth(percent, thresholds[key], key == HealthKeySavings),
		})
	}
	return items
}
