package canvasrenderer

import (
	"strings"

	"github.com/ByLCY/papyrus-cv/layout"
)

// 宽度与颜色无关，度量时统一使用黑色。
var measureColor = layout.Color{}

// MeasureWidth 实现 layout.Typesetter，返回文本在给定字号（mm）下的宽度（mm）。
func (r *Renderer) MeasureWidth(content string, font layout.FontResource, fontSize float64) (float64, error) {
	face, err := r.fontFace(font, toPt(fontSize), measureColor)
	if err != nil {
		return 0, err
	}
	return face.TextWidth(content), nil
}

// LayoutLines 实现 layout.Typesetter 接口，使用贪心换行算法。
// 约定：fontSize/lineHeight 入参均为毫米（mm）。渲染器内部与字体系统交互使用 pt，并在边界做 mm↔pt 换算。
func (r *Renderer) LayoutLines(content string, width float64, font layout.FontResource, fontSize, lineHeight float64) ([]layout.TextLine, error) {
	face, err := r.fontFace(font, toPt(fontSize), measureColor)
	if err != nil {
		return nil, err
	}
	lines := greedyWrap(content, width, face.TextWidth)
	for i := range lines {
		lines[i].Height = lineHeight
	}
	return lines, nil
}

// greedyWrap 按空白切词（连续空白、制表符、换行均视为一个分隔符），在不超过 limit 的前提下
// 尽量多地累积单词；单个超宽单词独占一行，不做词内断行。空输入返回一个空行。
func greedyWrap(content string, limit float64, measure func(string) float64) []layout.TextLine {
	words := strings.Fields(content)
	if len(words) == 0 {
		return []layout.TextLine{{}}
	}
	var lines []layout.TextLine
	cur, curWidth := words[0], measure(words[0])
	for _, w := range words[1:] {
		candidate := cur + " " + w
		cw := measure(candidate)
		if cw <= limit {
			cur, curWidth = candidate, cw
			continue
		}
		lines = append(lines, layout.TextLine{Content: cur, Width: curWidth})
		cur, curWidth = w, measure(w)
	}
	return append(lines, layout.TextLine{Content: cur, Width: curWidth})
}
