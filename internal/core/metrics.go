package core

// Metrics are the derived values for one snapshot. Pure computation; nothing
// here touches storage or presentation.
type Metrics struct {
	Income             float64 `json:"income"`
	EssentialsTotal    float64 `json:"essentialsTotal"`
	EMIsTotal          float64 `json:"emisTotal"`
	NonEssentialsTotal float64 `json:"nonEssentialsTotal"`
	InvestmentsTotal   float64 `json:"investmentsTotal"`
	AssetsTotal        float64 `json:"assetsTotal"`
	LiabilitiesTotal   float64 `json:"liabilitiesTotal"`
	TotalExpenses      float64 `json:"totalExpenses"`
	Savings            float64 `json:"savings"`
	SavingsRate        float64 `json:"savingsRate"`
	NetWorth           float64 `json:"netWorth"`
}

// CategoryTotal sums all item amounts in one category. Missing items count
// as 0.
func CategoryTotal(s *Snapshot, key CategoryKey) float64 {
	var total float64
	for _, v := range s.Category(key) {
		total += v
	}
	return total
}

// Derive computes all aggregate metrics for a snapshot.
//
// Expenses are essentials + EMIs + non-essentials only: investments are a use
// of income reported separately, and assets/liabilities feed net worth. The
// savings rate is 0 (not NaN) when income is 0.
func Derive(s *Snapshot) Metrics {
	m := Metrics{
		Income:             s.Income,
		EssentialsTotal:    CategoryTotal(s, Essentials),
		EMIsTotal:          CategoryTotal(s, EMIs),
		NonEssentialsTotal: CategoryTotal(s, NonEssentials),
		InvestmentsTotal:   CategoryTotal(s, Investments),
		AssetsTotal:        CategoryTotal(s, Assets),
		LiabilitiesTotal:   CategoryTotal(s, Liabilities),
	}
	m.TotalExpenses = m.EssentialsTotal + m.EMIsTotal + m.NonEssentialsTotal
	m.Savings = m.Income - m.TotalExpenses
	if m.Income > 0 {
		m.SavingsRate = m.Savings / m.Income * 100
	}
	m.NetWorth = m.AssetsTotal - m.LiabilitiesTotal
	return m
}

type (
	// ChartSeries is one of the four spending series with its share of the
	// combined total. All four are always reported, including zero ones.
	ChartSeries struct {
		Category CategoryKey `json:"category"`
		Amount   float64     `json:"amount"`
		Percent  float64     `json:"percent"`
	}

	// ChartSegment is an angular span of the donut chart. Only series with a
	// positive amount produce a segment.
	ChartSegment struct {
		Category CategoryKey `json:"category"`
		StartDeg float64     `json:"startDeg"`
		EndDeg   float64     `json:"endDeg"`
	}

	// Chart is the spending-breakdown chart model. The arc from
	// BackgroundFrom to 360° is unclaimed background (the full circle when
	// there are no segments).
	Chart struct {
		Total          float64        `json:"total"`
		Series         []ChartSeries  `json:"series"`
		Segments       []ChartSegment `json:"segments"`
		BackgroundFrom float64        `json:"backgroundFrom"`
	}
)

// chartOrder fixes the series order: essentials, EMIs, non-essentials,
// investments.
var chartOrder = []CategoryKey{Essentials, EMIs, NonEssentials, Investments}

// BuildChart computes percentages and consecutive angular spans for the four
// chart series. A combined total of 0 yields four 0% series and no segments.
func BuildChart(essentials, emis, nonEssentials, investments float64) Chart {
	amounts := map[CategoryKey]float64{
		Essentials:    essentials,
		EMIs:          emis,
		NonEssentials: nonEssentials,
		Investments:   investments,
	}
	chart := Chart{Total: essentials + emis + nonEssentials + investments}

	var deg float64
	for _, key := range chartOrder {
		amount := amounts[key]
		var percent float64
		if chart.Total > 0 {
			percent = amount / chart.Total * 100
		}
		chart.Series = append(chart.Series, ChartSeries{Category: key, Amount: amount, Percent: percent})
		if amount > 0 {
			span := percent * 3.6
			chart.Segments = append(chart.Segments, ChartSegment{Category: key, StartDeg: deg, EndDeg: deg + span})
			deg += span
		}
	}
	chart.BackgroundFrom = deg
	return chart
}
