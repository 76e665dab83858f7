package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"strings"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/papyrus-cv/layout"
	"github.com/ByLCY/papyrus-cv/renderer"
)

const defaultStrokeWidth = 0.2

// Renderer 基于 github.com/tdewolff/canvas 绘制布局结果，同时为布局引擎提供文字度量。
// 可被多个 goroutine 并发使用。
type Renderer struct {
	faces *faceCache
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.Typesetter = (*Renderer)(nil)
)

// Options 配置渲染器。
type Options struct {
	BaseDir string // 主题中相对字体路径的基准目录
}

// NewRenderer 创建以 baseDir 解析字体路径的渲染器。
func NewRenderer(baseDir string) *Renderer { return NewRendererWithOptions(Options{BaseDir: baseDir}) }

// NewRendererWithOptions 按选项创建渲染器。
func NewRendererWithOptions(opts Options) *Renderer {
	return &Renderer{faces: newFaceCache(opts.BaseDir)}
}

// Render renders the paginated result into a PDF byte slice.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if len(result.Pages) == 0 {
		return nil, fmt.Errorf("缺少可渲染的页面")
	}

	var buf bytes.Buffer
	writer := pdf.New(&buf, result.Pages[0].Width, result.Pages[0].Height, nil)
	r.applyMeta(writer, result.Meta)
	for i, page := range result.Pages {
		if i > 0 {
			writer.NewPage(page.Width, page.Height)
		}
		c := canvas.New(page.Width, page.Height)
		ctx := canvas.NewContext(c)
		ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点

		if err := r.Paint(ctx, page.Chrome); err != nil {
			return nil, err
		}
		if err := r.Paint(ctx, page.Layer); err != nil {
			return nil, fmt.Errorf("绘制第 %d 页失败: %w", i+1, err)
		}
		c.RenderTo(writer)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) applyMeta(writer *pdf.PDF, meta layout.DocumentMeta) {
	if writer == nil {
		return
	}
	keywords := strings.Join(meta.Keywords, ", ")
	writer.SetInfo(meta.Title, meta.Subject, keywords, meta.Author, meta.Creator)
}

// Paint 在 ctx 上绘制一个图层：先形状与图片作为背景，再绘制文本。
// ctx 需使用 CartesianIV 坐标系，单位为 mm。
func (r *Renderer) Paint(ctx *canvas.Context, layer layout.Layer) error {
	r.drawRects(ctx, layer.Rects)
	r.drawLines(ctx, layer.Lines)
	r.drawCircles(ctx, layer.Circles)
	r.drawImages(ctx, layer.Images)
	for _, tb := range layer.Texts {
		if err := r.drawTextBox(ctx, tb); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) drawTextBox(ctx *canvas.Context, tb layout.TextBox) error {
	// TextBox 的坐标/字号/行高均为 mm；创建字体面需要 pt，这里做一次 mm→pt。
	face, err := r.fontFace(tb.Font, toPt(tb.FontSize), tb.Color)
	if err != nil {
		return err
	}

	lines := tb.Lines
	if len(lines) == 0 {
		lines = []layout.TextLine{{Content: tb.Content, Width: tb.Width, Height: tb.LineHeight}}
	}

	var textAlign canvas.TextAlign
	var anchorX float64
	switch strings.ToLower(tb.Align) {
	case "center":
		textAlign = canvas.Center
		anchorX = tb.X + tb.Width/2
	case "right", "end":
		textAlign = canvas.Right
		anchorX = tb.X + tb.Width
	default:
		textAlign = canvas.Left
		anchorX = tb.X
	}

	// 字形在行高内垂直居中：基线 = 行顶 + 半行距 + 上升部
	metrics := face.Metrics()
	halfLeading := (tb.LineHeight - (metrics.Ascent + metrics.Descent)) / 2
	cursorY := tb.Y
	for _, line := range lines {
		if line.Content != "" {
			textLine := canvas.NewTextLine(face, line.Content, textAlign)
			ctx.DrawText(anchorX, cursorY+halfLeading+metrics.Ascent, textLine)
		}
		h := line.Height
		if h <= 0 {
			h = tb.LineHeight
		}
		cursorY += h
	}
	return nil
}

func (r *Renderer) drawImages(ctx *canvas.Context, images []layout.ImageBox) {
	for _, img := range images {
		if img.Image == nil || img.Width <= 0 {
			continue
		}
		dpmm := float64(img.Image.Bounds().Dx()) / img.Width
		if dpmm <= 0 {
			continue
		}
		ctx.DrawImage(img.X, img.Y, img.Image, canvas.DPMM(dpmm))
	}
}

// drawLines 绘制直线列表（毫米单位）
func (r *Renderer) drawLines(ctx *canvas.Context, lines []layout.Line) {
	for _, ln := range lines {
		w := ln.Width
		if w <= 0 {
			w = defaultStrokeWidth
		}
		ctx.SetFillColor(canvas.Transparent)
		ctx.SetStrokeColor(colorFromLayout(ln.Color))
		ctx.SetStrokeWidth(w)
		p := &canvas.Path{}
		p.MoveTo(0, 0)
		p.LineTo(ln.X2-ln.X1, ln.Y2-ln.Y1)
		ctx.DrawPath(ln.X1, ln.Y1, p)
	}
}

// drawRects 绘制矩形；Radius > 0 时绘制圆角矩形，半径不超过短边的一半。
func (r *Renderer) drawRects(ctx *canvas.Context, rects []layout.Rect) {
	for _, rc := range rects {
		if rc.Width <= 0 || rc.Height <= 0 {
			continue
		}
		ctx.SetFillColor(optionalColor(rc.FillColor))
		ctx.SetStrokeColor(optionalColor(rc.StrokeColor))
		w := rc.StrokeWidth
		if w <= 0 {
			w = defaultStrokeWidth
		}
		ctx.SetStrokeWidth(w)
		shape := canvas.Rectangle(rc.Width, rc.Height)
		if radius := min(rc.Radius, rc.Width/2, rc.Height/2); radius > 0 {
			shape = canvas.RoundedRectangle(rc.Width, rc.Height, radius)
		}
		ctx.DrawPath(rc.X, rc.Y, shape)
	}
}

// drawCircles 绘制实心圆
func (r *Renderer) drawCircles(ctx *canvas.Context, circles []layout.Circle) {
	for _, c := range circles {
		ctx.SetFillColor(colorFromLayout(c.FillColor))
		ctx.SetStrokeColor(canvas.Transparent)
		ctx.DrawPath(c.CX, c.CY, canvas.Circle(c.R))
	}
}

func (r *Renderer) fontFace(font layout.FontResource, sizePt float64, col layout.Color) (*canvas.FontFace, error) {
	return r.faces.face(font, sizePt, col)
}

func colorFromLayout(c layout.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0)
}

func optionalColor(c *layout.Color) color.Color {
	if c == nil {
		return canvas.Transparent
	}
	return colorFromLayout(*c)
}

// toPt 将毫米(mm)转换为点(pt)。
func toPt(mm float64) float64 { return mm * layout.MmToPt }
