package layout

import "image"

// 该文件定义布局结果，供渲染、预览与调试 JSON 共用。坐标单位均为 mm，原点在左上角。

// Result 是导出模式（分页）的布局结果。
type Result struct {
	Pages    []Page       `json:"pages"`
	Meta     DocumentMeta `json:"meta"`
	Warnings []Warning    `json:"warnings,omitempty"`
}

// Preview 是预览模式（连续）的布局结果：侧栏与主栏并排，各自按内容自然增高。
type Preview struct {
	Width    float64      `json:"width"`
	Height   float64      `json:"height"`
	Sidebar  Region       `json:"sidebar"`
	Main     Region       `json:"main"`
	Chrome   Layer        `json:"chrome"`
	Meta     DocumentMeta `json:"meta"`
	Warnings []Warning    `json:"warnings,omitempty"`
}

// Region 是预览中的一栏。
type Region struct {
	X      float64 `json:"x"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Layer
}

// Page 记录页面尺寸与可直接渲染的元素。
type Page struct {
	Index  int     `json:"index"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	// 每页重复的装饰（侧栏背景、顶部色条、页脚），先于内容绘制
	Chrome Layer `json:"chrome"`
	Layer
}

// Layer 是一组绝对定位的绘制图元。
type Layer struct {
	Rects   []Rect     `json:"rects,omitempty"`
	Lines   []Line     `json:"lines,omitempty"`
	Circles []Circle   `json:"circles,omitempty"`
	Images  []ImageBox `json:"images,omitempty"`
	Texts   []TextBox  `json:"texts,omitempty"`
}

func (l *Layer) appendLayer(other Layer, dx, dy float64) {
	for _, r := range other.Rects {
		r.X += dx
		r.Y += dy
		l.Rects = append(l.Rects, r)
	}
	for _, ln := range other.Lines {
		ln.X1 += dx
		ln.X2 += dx
		ln.Y1 += dy
		ln.Y2 += dy
		l.Lines = append(l.Lines, ln)
	}
	for _, c := range other.Circles {
		c.CX += dx
		c.CY += dy
		l.Circles = append(l.Circles, c)
	}
	for _, img := range other.Images {
		img.X += dx
		img.Y += dy
		l.Images = append(l.Images, img)
	}
	for _, tb := range other.Texts {
		tb.X += dx
		tb.Y += dy
		l.Texts = append(l.Texts, tb)
	}
}

// Empty 判断图层是否没有任何图元。
func (l Layer) Empty() bool {
	return len(l.Rects) == 0 && len(l.Lines) == 0 && len(l.Circles) == 0 &&
		len(l.Images) == 0 && len(l.Texts) == 0
}

// TextBox 表示一个已经排好坐标的文本块，Lines 自上而下、行距为 LineHeight。
type TextBox struct {
	Content    string       `json:"content"`
	X          float64      `json:"x"`
	Y          float64      `json:"y"`
	Width      float64      `json:"width"`
	Height     float64      `json:"height"`
	LineHeight float64      `json:"lineHeight"`
	FontSize   float64      `json:"fontSize"`
	Font       FontResource `json:"font"`
	Color      Color        `json:"color"`
	Align      string       `json:"align,omitempty"` // left（默认）/right/center
	Lines      []TextLine   `json:"lines"`
}

// TextLine 表示排版后的一行文本及其宽高。
type TextLine struct {
	Content string  `json:"content"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
}

// ImageBox 描述已解码图片的位置与尺寸。
type ImageBox struct {
	Key    string      `json:"key"`
	X      float64     `json:"x"`
	Y      float64     `json:"y"`
	Width  float64     `json:"width"`
	Height float64     `json:"height"`
	Image  image.Image `json:"-"`
}

// Line 表示一条线段。
type Line struct {
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
	X2    float64 `json:"x2"`
	Y2    float64 `json:"y2"`
	Color Color   `json:"color"`
	Width float64 `json:"width"`
}

// Rect 表示矩形，Radius > 0 时为圆角矩形。
type Rect struct {
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	Radius      float64 `json:"radius,omitempty"`
	FillColor   *Color  `json:"fillColor,omitempty"`
	StrokeColor *Color  `json:"strokeColor,omitempty"`
	StrokeWidth float64 `json:"strokeWidth,omitempty"`
}

// Circle 表示一个圆。
type Circle struct {
	CX        float64 `json:"cx"`
	CY        float64 `json:"cy"`
	R         float64 `json:"r"`
	FillColor Color   `json:"fillColor"`
}

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// DocumentMeta 保存 PDF 元信息。
type DocumentMeta struct {
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Subject  string   `json:"subject"`
	Creator  string   `json:"creator"`
	Keywords []string `json:"keywords"`
}

// Warning 记录布局中的降级处理（图片被跳过、侧栏被截断等），不会中断渲染。
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

const (
	WarnPhotoOmitted     = "photo-omitted"
	WarnSidebarTruncated = "sidebar-truncated"
	WarnOversizedUnit    = "oversized-unit"
	WarnQROmitted        = "qr-omitted"
)
