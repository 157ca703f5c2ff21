package pricing

import (
	"fmt"

	"github.com/yoshii-hideaki/mikan-order/internal/domain"
)

// Line is one cart or order line handed to the engine. Callers filter out
// non-positive quantities before pricing.
type Line struct {
	Quantity  int
	UnitPrice int64
	Class     domain.PricingClass
}

// Receipt is the priced result. Bundle modes carry no tax.
type Receipt struct {
	Subtotal int64 `json:"subtotal"`
	Tax      int64 `json:"tax"`
	Total    int64 `json:"total"`
}

// Strategy converts a set of lines into a charge. Implementations are pure
// and total: any well-formed input prices without error.
type Strategy interface {
	Price(lines []Line) Receipt
}

// Pricing modes the register is configured with.
const (
	ModeFlat           = "flat"
	ModeSplit          = "split"
	ModePooledDiscount = "pooled_discount"
	ModePerLine        = "per_line"
)

// ForMode builds the strategy for a configured mode name using the default
// tier tables.
func ForMode(mode string) (Strategy, error) {
	switch mode {
	case ModeFlat:
		return FlatRate{Table: DefaultTable()}, nil
	case ModeSplit:
		return SplitByClass{
			Alcoholic: DefaultTable(),
			Soft:      DefaultTable().Discounted(DefaultSoftDiscount),
		}, nil
	case ModePooledDiscount:
		return PooledDiscount{
			Table:           DefaultTable(),
			DiscountClass:   domain.ClassSoft,
			PerUnitDiscount: DefaultSoftDiscount,
		}, nil
	case ModePerLine:
		return PerLine{TaxBasisPoints: DefaultTaxBasisPoints}, nil
	}
	return nil, fmt.Errorf("unknown pricing mode %q", mode)
}

// FlatRate pools every unit into a single population priced by one table.
type FlatRate struct {
	Table TierTable
}

func (s FlatRate) Price(lines []Line) Receipt {
	subtotal := s.Table.PriceFor(totalUnits(lines))
	return Receipt{Subtotal: subtotal, Total: subtotal}
}

// SplitByClass counts each pricing class as its own population and sums the
// per-class tier prices.
type SplitByClass struct {
	Alcoholic TierTable
	Soft      TierTable
}

func (s SplitByClass) Price(lines []Line) Receipt {
	subtotal := s.Alcoholic.PriceFor(classUnits(lines, domain.ClassAlcoholic)) +
		s.Soft.PriceFor(classUnits(lines, domain.ClassSoft))
	return Receipt{Subtotal: subtotal, Total: subtotal}
}

// PooledDiscount pools all units into the flat tiers, then subtracts a flat
// per-unit discount for units of DiscountClass. The result never goes
// negative.
type PooledDiscount struct {
	Table           TierTable
	DiscountClass   domain.PricingClass
	PerUnitDiscount int64
}

func (s PooledDiscount) Price(lines []Line) Receipt {
	subtotal := s.Table.PriceFor(totalUnits(lines))
	subtotal -= int64(classUnits(lines, s.DiscountClass)) * s.PerUnitDiscount
	subtotal = clampMinor(subtotal)
	return Receipt{Subtotal: subtotal, Total: subtotal}
}

// DefaultTaxBasisPoints is the consumption tax applied in per-line mode.
const DefaultTaxBasisPoints int64 = 1000

// PerLine is the fallback mode with no bundling: sum of unit price times
// quantity per line, plus tax rounded to the nearest minor unit.
type PerLine struct {
	TaxBasisPoints int64
}

func (s PerLine) Price(lines []Line) Receipt {
	var subtotal int64
	for _, l := range lines {
		subtotal += l.UnitPrice * int64(l.Quantity)
	}
	// Integer round-to-nearest, half up. Subtotals are non-negative.
	tax := (subtotal*s.TaxBasisPoints + 5000) / 10000
	return Receipt{Subtotal: subtotal, Tax: tax, Total: subtotal + tax}
}

func totalUnits(lines []Line) int {
	var n int
	for _, l := range lines {
		n += l.Quantity
	}
	return n
}

func classUnits(lines []Line, class domain.PricingClass) int {
	var n int
	for _, l := range lines {
		if l.Class == class {
			n += l.Quantity
		}
	}
	return n
}
