package layout

import (
	"math"
	"testing"
)

// TestPtMmRoundTrip 验证 pt↔mm 换算的往返精度。
func TestPtMmRoundTrip(t *testing.T) {
	samples := []float64{0, 0.001, 1, 9.5, 14.4, 72, 1000}
	for _, pt := range samples {
		mm := Length{Value: pt, Unit: UnitPT}.MM()
		back := Length{Value: mm, Unit: UnitMM}.PT()
		if diff := math.Abs(back - pt); diff > 1e-9 {
			t.Fatalf("pt→mm→pt 往返误差过大: in=%gpt back=%g diff=%g", pt, back, diff)
		}
	}
}

func TestParseLength(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"12mm", 12},
		{"2cm", 20},
		{"1in", 25.4},
		{"10pt", 10 * PtToMm},
		{"7", 7},
		{" 3.5MM ", 3.5},
	}
	for _, tc := range cases {
		l, err := ParseLength(tc.in)
		if err != nil {
			t.Fatalf("ParseLength(%q) error: %v", tc.in, err)
		}
		if diff := math.Abs(l.MM() - tc.want); diff > 1e-9 {
			t.Fatalf("ParseLength(%q) = %gmm, want %g", tc.in, l.MM(), tc.want)
		}
	}
	for _, bad := range []string{"", "abc", "-3mm", "mm"} {
		if _, err := ParseLength(bad); err == nil {
			t.Fatalf("ParseLength(%q) 应返回错误", bad)
		}
	}
}

// TestLineHeightResolve 覆盖倍数与绝对两种语义。
func TestLineHeightResolve(t *testing.T) {
	fontMM := 12 * PtToMm
	f, err := ParseLineHeight("1.2x")
	if err != nil {
		t.Fatalf("ParseLineHeight: %v", err)
	}
	if got, want := f.Resolve(fontMM), fontMM*1.2; math.Abs(got-want) > 1e-9 {
		t.Fatalf("1.2x: got=%g want=%g", got, want)
	}
	a, err := ParseLineHeight("6mm")
	if err != nil {
		t.Fatalf("ParseLineHeight: %v", err)
	}
	if got := a.Resolve(fontMM); math.Abs(got-6) > 1e-9 {
		t.Fatalf("6mm: got=%g", got)
	}
	if _, err := ParseLineHeight("0x"); err == nil {
		t.Fatalf("0x 应返回错误")
	}
}
