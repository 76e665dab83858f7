package resume

import "strings"

// Proficiency 是语言熟练度名称。
type Proficiency string

const (
	Native       Proficiency = "Native"
	Fluent       Proficiency = "Fluent"
	Advanced     Proficiency = "Advanced"
	Intermediate Proficiency = "Intermediate"
	Basic        Proficiency = "Basic"
)

// DefaultFraction 是无法识别的熟练度对应的进度条填充比例。
const DefaultFraction = 0.50

var fractions = map[Proficiency]float64{
	Native:       1.00,
	Fluent:       0.85,
	Advanced:     0.70,
	Intermediate: 0.50,
	Basic:        0.30,
}

// Levels 按熟练度从高到低列出全部已知名称。
func Levels() []Proficiency {
	return []Proficiency{Native, Fluent, Advanced, Intermediate, Basic}
}

// ParseProficiency 不区分大小写地匹配熟练度名称，未知名称返回 false。
func ParseProficiency(level string) (Proficiency, bool) {
	level = strings.TrimSpace(level)
	for _, p := range Levels() {
		if strings.EqualFold(level, string(p)) {
			return p, true
		}
	}
	return "", false
}

// ProficiencyFraction 返回熟练度对应的填充比例，未知或为空时为 DefaultFraction。
func ProficiencyFraction(level string) float64 {
	if p, ok := ParseProficiency(level); ok {
		return fractions[p]
	}
	return DefaultFraction
}

// Fraction 返回语言熟练度对应的填充比例。
func (l Language) Fraction() float64 { return ProficiencyFraction(l.Level) }
