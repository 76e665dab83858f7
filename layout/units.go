package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// 布局内部统一使用毫米（mm）；主题中允许书写 pt/mm/cm/in，这里负责换算。

// Unit 表示长度值的原始单位。
type Unit int

const (
	UnitNone Unit = iota // 无单位（倍数等）
	UnitMM
	UnitCM
	UnitIN
	UnitPT
)

// pt 与 mm 的换算系数。
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
)

func (u Unit) String() string {
	switch u {
	case UnitMM:
		return "mm"
	case UnitCM:
		return "cm"
	case UnitIN:
		return "in"
	case UnitPT:
		return "pt"
	default:
		return ""
	}
}

// Length 保留数值与书写单位。
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

// MM 将长度换算为毫米；无单位时按毫米处理。
func (l Length) MM() float64 {
	switch l.Unit {
	case UnitCM:
		return l.Value * 10
	case UnitIN:
		return l.Value * 25.4
	case UnitPT:
		return l.Value * PtToMm
	default:
		return l.Value
	}
}

// PT 将长度换算为点。
func (l Length) PT() float64 {
	if l.Unit == UnitPT {
		return l.Value
	}
	return l.MM() * MmToPt
}

// ParseLength 解析 "9.5pt"、"12mm"、"2cm"、"1in" 或纯数字（mm）。
func ParseLength(value string) (Length, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, fmt.Errorf("长度为空")
	}
	unit := UnitNone
	num := v
	for _, suf := range []struct {
		s string
		u Unit
	}{{"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}, {"pt", UnitPT}} {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, fmt.Errorf("无法解析长度 %q: %w", value, err)
	}
	if f < 0 {
		return Length{}, fmt.Errorf("长度不能为负数: %q", value)
	}
	return Length{Value: f, Unit: unit}, nil
}

// LineHeightKind 区分倍数行高与绝对行高。
type LineHeightKind int

const (
	LineHeightFactor LineHeightKind = iota
	LineHeightAbsolute
)

// LineHeightSpec 保留作者意图：倍数（1.3x）或绝对长度（12pt）。
type LineHeightSpec struct {
	Kind   LineHeightKind `json:"kind"`
	Factor float64        `json:"factor,omitempty"`
	Len    Length         `json:"len,omitempty"`
}

// ParseLineHeight 解析 "1.3x" 或绝对长度。
func ParseLineHeight(value string) (LineHeightSpec, error) {
	v := strings.TrimSpace(value)
	if strings.HasSuffix(v, "x") {
		f, err := strconv.ParseFloat(strings.TrimSuffix(v, "x"), 64)
		if err != nil || f <= 0 {
			return LineHeightSpec{}, fmt.Errorf("无法解析行高倍数 %q", value)
		}
		return LineHeightSpec{Kind: LineHeightFactor, Factor: f}, nil
	}
	l, err := ParseLength(v)
	if err != nil {
		return LineHeightSpec{}, err
	}
	return LineHeightSpec{Kind: LineHeightAbsolute, Len: l}, nil
}

// Resolve 以毫米返回行高；fontSizeMM 为字号（mm）。
func (s LineHeightSpec) Resolve(fontSizeMM float64) float64 {
	switch s.Kind {
	case LineHeightAbsolute:
		return s.Len.MM()
	case LineHeightFactor:
		if s.Factor > 0 {
			return fontSizeMM * s.Factor
		}
	}
	return fontSizeMM * 1.4
}
