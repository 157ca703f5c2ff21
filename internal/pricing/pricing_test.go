package pricing

import (
	"testing"

	"github.com/yoshii-hideaki/mikan-order/internal/domain"
)

func drinks(alcoholic, soft int) []Line {
	var lines []Line
	if alcoholic > 0 {
		lines = append(lines, Line{Quantity: alcoholic, UnitPrice: 700, Class: domain.ClassAlcoholic})
	}
	if soft > 0 {
		lines = append(lines, Line{Quantity: soft, UnitPrice: 500, Class: domain.ClassSoft})
	}
	return lines
}

func TestTierTablePriceFor(t *testing.T) {
	table := DefaultTable()
	tests := []struct {
		n    int
		want int64
	}{
		{0, 0},
		{1, 700},
		{2, 1200},
		{3, 1500},
		{4, 2200},
		{5, 2700},
		{6, 3000},
		{7, 3700},
	}
	for _, tt := range tests {
		if got := table.PriceFor(tt.n); got != tt.want {
			t.Errorf("PriceFor(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestTierTableMonotonic(t *testing.T) {
	strategies := map[string]Strategy{
		ModeFlat:           FlatRate{Table: DefaultTable()},
		ModeSplit:          SplitByClass{Alcoholic: DefaultTable(), Soft: DefaultTable().Discounted(DefaultSoftDiscount)},
		ModePooledDiscount: PooledDiscount{Table: DefaultTable(), DiscountClass: domain.ClassSoft, PerUnitDiscount: DefaultSoftDiscount},
		ModePerLine:        PerLine{TaxBasisPoints: DefaultTaxBasisPoints},
	}
	for name, s := range strategies {
		prev := int64(-1)
		for n := 0; n <= 30; n++ {
			total := s.Price(drinks(n, 0)).Total
			if total < 0 {
				t.Fatalf("%s: negative total %d at n=%d", name, total, n)
			}
			if total < prev {
				t.Fatalf("%s: total decreased from %d to %d at n=%d", name, prev, total, n)
			}
			prev = total
		}
	}
}

func TestFlatRate(t *testing.T) {
	s := FlatRate{Table: DefaultTable()}
	tests := []struct {
		alcoholic, soft int
		want            int64
	}{
		{0, 0, 0},
		{1, 0, 700},
		{0, 2, 1200},
		{2, 1, 1500},
		{3, 1, 2200},
		{4, 2, 3000},
	}
	for _, tt := range tests {
		got := s.Price(drinks(tt.alcoholic, tt.soft))
		if got.Total != tt.want {
			t.Errorf("FlatRate(%d alc, %d soft) = %d, want %d", tt.alcoholic, tt.soft, got.Total, tt.want)
		}
		if got.Tax != 0 {
			t.Errorf("FlatRate should carry no tax, got %d", got.Tax)
		}
	}
}

func TestSplitByClass(t *testing.T) {
	s := SplitByClass{
		Alcoholic: DefaultTable(),
		Soft:      DefaultTable().Discounted(DefaultSoftDiscount),
	}
	tests := []struct {
		alcoholic, soft int
		want            int64
	}{
		{3, 0, 1500},
		{0, 3, 900},  // 1500 - 3*200
		{0, 1, 500},  // 700 - 200
		{3, 3, 2400}, // populations priced independently, then summed
		{1, 2, 700 + 800},
	}
	for _, tt := range tests {
		got := s.Price(drinks(tt.alcoholic, tt.soft)).Total
		if got != tt.want {
			t.Errorf("SplitByClass(%d alc, %d soft) = %d, want %d", tt.alcoholic, tt.soft, got, tt.want)
		}
	}
}

func TestPooledDiscount(t *testing.T) {
	s := PooledDiscount{
		Table:           DefaultTable(),
		DiscountClass:   domain.ClassSoft,
		PerUnitDiscount: DefaultSoftDiscount,
	}
	tests := []struct {
		alcoholic, soft int
		want            int64
	}{
		{0, 1, 500},  // max(0, 700 - 200)
		{2, 1, 1300}, // 1500 pooled bundle - 200
		{3, 0, 1500},
		{0, 3, 900},
	}
	for _, tt := range tests {
		got := s.Price(drinks(tt.alcoholic, tt.soft)).Total
		if got != tt.want {
			t.Errorf("PooledDiscount(%d alc, %d soft) = %d, want %d", tt.alcoholic, tt.soft, got, tt.want)
		}
	}
}

func TestPooledDiscountNeverNegative(t *testing.T) {
	s := PooledDiscount{
		Table:           DefaultTable(),
		DiscountClass:   domain.ClassSoft,
		PerUnitDiscount: 1000, // exceeds every tier price per unit
	}
	for soft := 0; soft <= 10; soft++ {
		if got := s.Price(drinks(0, soft)).Total; got < 0 {
			t.Fatalf("total went negative: %d soft units -> %d", soft, got)
		}
	}
}

func TestPerLine(t *testing.T) {
	s := PerLine{TaxBasisPoints: DefaultTaxBasisPoints}

	lines := []Line{
		{Quantity: 2, UnitPrice: 700, Class: domain.ClassAlcoholic},
		{Quantity: 1, UnitPrice: 500, Class: domain.ClassSoft},
	}
	got := s.Price(lines)
	if got.Subtotal != 1900 {
		t.Errorf("subtotal = %d, want 1900", got.Subtotal)
	}
	if got.Tax != 190 {
		t.Errorf("tax = %d, want 190", got.Tax)
	}
	if got.Total != 2090 {
		t.Errorf("total = %d, want 2090", got.Total)
	}
}

func TestPerLineTaxRounding(t *testing.T) {
	s := PerLine{TaxBasisPoints: DefaultTaxBasisPoints}
	tests := []struct {
		subtotal int64
		wantTax  int64
	}{
		{25, 3},  // 2.5 rounds up
		{24, 2},  // 2.4 rounds down
		{26, 3},  // 2.6 rounds up
		{0, 0},
		{105, 11}, // 10.5 rounds up
	}
	for _, tt := range tests {
		got := s.Price([]Line{{Quantity: 1, UnitPrice: tt.subtotal}})
		if got.Tax != tt.wantTax {
			t.Errorf("tax on %d = %d, want %d", tt.subtotal, got.Tax, tt.wantTax)
		}
		if got.Total != tt.subtotal+tt.wantTax {
			t.Errorf("total on %d = %d, want %d", tt.subtotal, got.Total, tt.subtotal+tt.wantTax)
		}
	}
}

func TestDiscountedTableClampsAtZero(t *testing.T) {
	table := DefaultTable().Discounted(800)
	for n := 0; n <= 6; n++ {
		if got := table.PriceFor(n); got < 0 {
			t.Fatalf("discounted tier went negative at n=%d: %d", n, got)
		}
	}
}

func TestForMode(t *testing.T) {
	for _, mode := range []string{ModeFlat, ModeSplit, ModePooledDiscount, ModePerLine} {
		if _, err := ForMode(mode); err != nil {
			t.Errorf("ForMode(%q) returned error: %v", mode, err)
		}
	}
	if _, err := ForMode("happy_hour"); err == nil {
		t.Error("expected error for unknown mode")
	}
}
