package pricing

// TierTable prices a count of units bought in fixed-size bundles. A full
// bundle costs BundlePrice; a remainder of r units (1 <= r < BundleSize)
// costs Remainder[r].
type TierTable struct {
	BundleSize  int
	BundlePrice int64
	Remainder   map[int]int64
}

// PriceFor returns the charge for n units under the table. n <= 0 prices to
// zero.
func (t TierTable) PriceFor(n int) int64 {
	if n <= 0 {
		return 0
	}
	size := t.BundleSize
	if size <= 0 {
		size = 1
	}
	total := int64(n/size) * t.BundlePrice
	if rem := n % size; rem > 0 {
		total += t.Remainder[rem]
	}
	return total
}

// Discounted returns a copy of the table with every tier reduced by perUnit
// for each unit it covers, clamped at zero.
func (t TierTable) Discounted(perUnit int64) TierTable {
	out := TierTable{
		BundleSize:  t.BundleSize,
		BundlePrice: clampMinor(t.BundlePrice - int64(t.BundleSize)*perUnit),
		Remainder:   make(map[int]int64, len(t.Remainder)),
	}
	for r, price := range t.Remainder {
		out.Remainder[r] = clampMinor(price - int64(r)*perUnit)
	}
	return out
}

func clampMinor(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}

// DefaultTable holds the register's observed drink tiers: one unit 700, two
// units 1200, a bundle of three 1500.
func DefaultTable() TierTable {
	return TierTable{
		BundleSize:  3,
		BundlePrice: 1500,
		Remainder:   map[int]int64{1: 700, 2: 1200},
	}
}

// DefaultSoftDiscount is the per-unit reduction applied to soft drinks in the
// discounting modes.
const DefaultSoftDiscount int64 = 200
