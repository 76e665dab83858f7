package layout

import (
	"fmt"
	"image"
	"math"
	"strings"
)

const (
	keyValueGap   = 2.0  // 左右两段文本之间的最小间隔
	ruleWidth     = 0.4  // 标题强调线线宽
	dividerWidth  = 0.3  // 分隔线线宽
	outlineStroke = 0.1  // 调试边框线宽
	minKeyShare   = 0.35 // 右侧值过长时，左侧文本至少保留的宽度比例
)

var outlineColor = Color{R: 230, G: 60, B: 60}

// unit 是换页判定的最小单元：标题、键值行、进度条、分隔线、图片整体为一个单元，
// 列表每一项为一个单元，正文每一行为一个单元。图元坐标相对单元左上角。
type unit struct {
	height      float64
	spaceBefore float64
	layer       Layer
	// 单元高于整页可用高度时改用的逐行拆分结果
	pieces []unit
}

// composer 把 Block 转换为固定宽度下的单元序列；导出与预览共用同一实现，
// 因此两种模式下的折行结果完全一致。
type composer struct {
	theme    *Theme
	ts       Typesetter
	width    float64
	outlines bool
}

func newComposer(theme *Theme, ts Typesetter, width float64, debug DebugOptions) composer {
	return composer{theme: theme, ts: ts, width: width, outlines: debug.Outlines}
}

func (c composer) compose(b Block) ([]unit, error) {
	var (
		units []unit
		err   error
	)
	switch b.Kind {
	case BlockHeading:
		units, err = c.heading(b)
	case BlockBodyText:
		units, err = c.body(b)
	case BlockKeyValueRow:
		units, err = c.keyValue(b)
	case BlockBulletList:
		units, err = c.bullets(b)
	case BlockProgressBar:
		units = c.progress(b)
	case BlockDivider:
		units = c.divider(b)
	case BlockImage:
		units = c.image(b)
	default:
		return nil, fmt.Errorf("未知的块类型 %v", b.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("排版 %s 块失败: %w", b.Kind, err)
	}
	if len(units) == 0 {
		return nil, nil
	}
	units[0].spaceBefore = math.Max(units[0].spaceBefore, b.SpaceBefore)
	if c.outlines {
		for i := range units {
			c.outline(&units[i])
		}
	}
	return units, nil
}

func (c composer) outline(u *unit) {
	stroke := outlineColor
	u.layer.Rects = append(u.layer.Rects, Rect{Width: c.width, Height: u.height, StrokeColor: &stroke, StrokeWidth: outlineStroke})
	for i := range u.pieces {
		c.outline(&u.pieces[i])
	}
}

// textBox 折行并生成位于 (x, 0) 的文本框，每行高度等于样式行高。
func (c composer) textBox(style StyleName, content string, x, width float64, align string) (TextBox, error) {
	st := c.theme.Style(style)
	lines, err := c.ts.LayoutLines(content, width, st.Font, st.Size, st.LineHeight)
	if err != nil {
		return TextBox{}, err
	}
	if len(lines) == 0 {
		lines = []TextLine{{}}
	}
	for i := range lines {
		lines[i].Height = st.LineHeight
	}
	return TextBox{
		Content:    content,
		X:          x,
		Width:      width,
		Height:     float64(len(lines)) * st.LineHeight,
		LineHeight: st.LineHeight,
		FontSize:   st.Size,
		Font:       st.Font,
		Color:      st.Color,
		Align:      align,
		Lines:      lines,
	}, nil
}

// splitLines 将多行文本框拆为逐行文本框，纵坐标依次下移一个行高。
func splitLines(tb TextBox) []TextBox {
	out := make([]TextBox, len(tb.Lines))
	for i, ln := range tb.Lines {
		one := tb
		one.Content = ln.Content
		one.Y = tb.Y + float64(i)*tb.LineHeight
		one.Height = tb.LineHeight
		one.Lines = []TextLine{ln}
		out[i] = one
	}
	return out
}

// linePieces 为文本框生成逐行拆分单元；extra 为附着在首行的其它图元。
func linePieces(tb TextBox, extra Layer) []unit {
	if len(tb.Lines) < 2 {
		return nil
	}
	parts := splitLines(tb)
	pieces := make([]unit, len(parts))
	for i, p := range parts {
		var layer Layer
		if i == 0 {
			layer = extra
		}
		p.Y = 0
		layer.Texts = append(layer.Texts, p)
		pieces[i] = unit{height: tb.LineHeight, layer: layer}
	}
	return pieces
}

func (c composer) heading(b Block) ([]unit, error) {
	style := b.Style
	if style == "" {
		style = StyleSection
	}
	tb, err := c.textBox(style, b.Text, 0, c.width, b.Align)
	if err != nil {
		return nil, err
	}
	u := unit{height: tb.Height, pieces: linePieces(tb, Layer{})}
	u.layer.Texts = []TextBox{tb}
	if b.Rule {
		y := tb.Height + c.theme.RuleGap/2
		rule := Line{X1: 0, Y1: y, X2: c.width, Y2: y, Color: c.theme.Accent, Width: ruleWidth}
		u.layer.Lines = append(u.layer.Lines, rule)
		u.height += c.theme.RuleGap
		if n := len(u.pieces); n > 0 {
			last := &u.pieces[n-1]
			rule.Y1, rule.Y2 = last.height+c.theme.RuleGap/2, last.height+c.theme.RuleGap/2
			last.layer.Lines = append(last.layer.Lines, rule)
			last.height += c.theme.RuleGap
		}
	}
	return []unit{u}, nil
}

// body 按换行符分段，每一行是独立单元；空段落保留为空行。
func (c composer) body(b Block) ([]unit, error) {
	style := b.Style
	if style == "" {
		style = StyleBody
	}
	var units []unit
	for _, para := range strings.Split(b.Text, "\n") {
		tb, err := c.textBox(style, para, 0, c.width, b.Align)
		if err != nil {
			return nil, err
		}
		for _, line := range splitLines(tb) {
			line.Y = 0
			units = append(units, unit{height: line.Height, layer: Layer{Texts: []TextBox{line}}})
		}
	}
	return units, nil
}

func (c composer) keyValue(b Block) ([]unit, error) {
	style, valueStyle := b.Style, b.ValueStyle
	if style == "" {
		style = StyleMeta
	}
	if valueStyle == "" {
		valueStyle = StyleDate
	}
	keyWidth := c.width
	var value *TextBox
	if strings.TrimSpace(b.Value) != "" {
		vs := c.theme.Style(valueStyle)
		vw, err := c.ts.MeasureWidth(b.Value, vs.Font, vs.Size)
		if err != nil {
			return nil, err
		}
		var tb TextBox
		if limit := c.width * (1 - minKeyShare); vw > limit {
			// 过长的值在右侧区域内折行，不侵入左侧文本。
			if tb, err = c.textBox(valueStyle, b.Value, c.width-limit, limit, "right"); err != nil {
				return nil, err
			}
			vw = limit
		} else {
			tb = TextBox{
				Content:    b.Value,
				X:          c.width - vw,
				Width:      vw,
				Height:     vs.LineHeight,
				LineHeight: vs.LineHeight,
				FontSize:   vs.Size,
				Font:       vs.Font,
				Color:      vs.Color,
				Align:      "right",
				Lines:      []TextLine{{Content: b.Value, Width: vw, Height: vs.LineHeight}},
			}
		}
		value = &tb
		keyWidth = c.width - vw - keyValueGap
	}
	key, err := c.textBox(style, b.Text, 0, keyWidth, "")
	if err != nil {
		return nil, err
	}
	u := unit{height: key.Height}
	u.layer.Texts = []TextBox{key}
	if value != nil {
		u.layer.Texts = append(u.layer.Texts, *value)
		u.height = math.Max(u.height, value.Height)
	}
	u.pieces = rowPieces(key, value)
	return []unit{u}, nil
}

// rowPieces 按行号配对左右两侧文本，生成逐行拆分单元。
func rowPieces(key TextBox, value *TextBox) []unit {
	left := splitLines(key)
	var right []TextBox
	if value != nil {
		right = splitLines(*value)
	}
	n := max(len(left), len(right))
	if n < 2 {
		return nil
	}
	pieces := make([]unit, n)
	for i := range n {
		var p unit
		for _, side := range [][]TextBox{left, right} {
			if i >= len(side) {
				continue
			}
			tb := side[i]
			tb.Y = 0
			p.layer.Texts = append(p.layer.Texts, tb)
			p.height = math.Max(p.height, tb.Height)
		}
		pieces[i] = p
	}
	return pieces
}

// bullets 每一项一个单元，项目符号为与首行垂直居中的实心圆点。
func (c composer) bullets(b Block) ([]unit, error) {
	style := b.Style
	if style == "" {
		style = StyleBody
	}
	indent := c.theme.BulletIndent
	var units []unit
	for _, item := range b.Items {
		if strings.TrimSpace(item) == "" {
			continue
		}
		tb, err := c.textBox(style, item, indent, c.width-indent, "")
		if err != nil {
			return nil, err
		}
		dot := Circle{CX: indent / 2, CY: tb.LineHeight / 2, R: c.theme.BulletRadius, FillColor: c.theme.Accent}
		u := unit{height: tb.Height}
		if len(units) > 0 {
			u.spaceBefore = c.theme.ItemGap
		}
		u.layer.Circles = []Circle{dot}
		u.layer.Texts = []TextBox{tb}
		u.pieces = linePieces(tb, Layer{Circles: []Circle{dot}})
		units = append(units, u)
	}
	return units, nil
}

func (c composer) progress(b Block) []unit {
	h := b.Height
	if h <= 0 {
		h = c.theme.BarHeight
	}
	frac := math.Max(0, math.Min(1, b.Fraction))
	track, accent := c.theme.Track, c.theme.Accent
	u := unit{height: h}
	u.layer.Rects = []Rect{{Width: c.width, Height: h, Radius: c.theme.BarRadius, FillColor: &track}}
	if frac > 0 {
		u.layer.Rects = append(u.layer.Rects, Rect{Width: c.width * frac, Height: h, Radius: c.theme.BarRadius, FillColor: &accent})
	}
	return []unit{u}
}

func (c composer) divider(b Block) []unit {
	h := b.Height
	if h <= 0 {
		h = c.theme.RuleGap
	}
	u := unit{height: h}
	u.layer.Lines = []Line{{X1: 0, Y1: h / 2, X2: c.width, Y2: h / 2, Color: c.theme.Track, Width: dividerWidth}}
	return []unit{u}
}

// image 按比例缩放到栏宽与整页可用高度之内。
func (c composer) image(b Block) []unit {
	if b.Image == nil {
		return nil
	}
	w, h := b.Width, b.Height
	if w <= 0 || h <= 0 {
		w, h = naturalSize(b.Image, c.width)
	}
	if w <= 0 || h <= 0 {
		return nil
	}
	if w > c.width {
		h *= c.width / w
		w = c.width
	}
	if limit := c.theme.Usable(); limit > 0 && h > limit {
		w *= limit / h
		h = limit
	}
	u := unit{height: h}
	u.layer.Images = []ImageBox{{
		Key:    b.ImageKey,
		X:      alignOffset(c.width, w, b.Align),
		Width:  w,
		Height: h,
		Image:  b.Image,
	}}
	return []unit{u}
}

func naturalSize(img image.Image, width float64) (float64, float64) {
	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return 0, 0
	}
	return width, width * float64(bounds.Dy()) / float64(bounds.Dx())
}

func alignOffset(container, width float64, align string) float64 {
	if container <= width {
		return 0
	}
	switch strings.ToLower(align) {
	case "center", "middle":
		return (container - width) / 2
	case "right", "end":
		return container - width
	default:
		return 0
	}
}
