package track

// DefaultCriticalThresholdPercent is the deviation percentage above which a
// record is classified as critically late. Configurable via ReportConfig.
const DefaultCriticalThresholdPercent = 30.0

// Category buckets a record's deviation from its baseline.
type Category string

const (
	CategoryEarly    Category = "early"
	CategoryOnTime   Category = "on time"
	CategoryLate     Category = "late (minor)"
	CategoryCritical Category = "critically late"
)

// Deviation describes how a record's actual duration relates to its baseline
// snapshot.
type Deviation struct {
	AbsoluteMinutes float64 // actual - expected
	Percent         float64 // AbsoluteMinutes / expected * 100
	Category        Category
}

// Classify computes the deviation of actual against expected and buckets it.
// thresholdPercent is the critical cutoff; the comparison is strict, so a
// deviation of exactly the threshold is "late (minor)", not critical.
//
// expected is guaranteed positive by the data model; a non-positive expected
// is handled defensively as on-time with percent 0.
//
// This is the single shared classification used by alerting, the timeline,
// reports, and exports. It is pure: no I/O, no state.
func Classify(actual, expected, thresholdPercent float64) Deviation {
	if expected <= 0 {
		return Deviation{Category: CategoryOnTime}
	}

	abs := actual - expected
	percent := abs / expected * 100

	var cat Category
	switch {
	case percent > thresholdPercent:
		cat = CategoryCritical
	case percent > 0:
		cat = CategoryLate
	case percent < 0:
		cat = CategoryEarly
	default:
		cat = CategoryOnTime
	}

	return Deviation{
		AbsoluteMinutes: abs,
		Percent:         percent,
		Category:        cat,
	}
}
