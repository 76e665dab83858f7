// Package preview 将连续预览布局输出为压缩后的 SVG，供前端实时展示。
package preview

import (
	"bytes"
	"fmt"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/svg"
	"github.com/tdewolff/minify/v2"
	svgmin "github.com/tdewolff/minify/v2/svg"

	"github.com/ByLCY/papyrus-cv/layout"
	"github.com/ByLCY/papyrus-cv/renderer"
	canvasrenderer "github.com/ByLCY/papyrus-cv/renderer/canvas"
)

// MediaType 是预览输出的 MIME 类型。
const MediaType = "image/svg+xml"

// Renderer 复用 canvas 渲染器的绘制逻辑，仅更换输出目标为 SVG。
type Renderer struct {
	painter  *canvasrenderer.Renderer
	minifier *minify.M
}

var _ renderer.PreviewRenderer = (*Renderer)(nil)

// New 创建预览渲染器；painter 通常与排版使用同一个实例，以共享字体缓存。
func New(painter *canvasrenderer.Renderer) *Renderer {
	m := minify.New()
	m.AddFunc(MediaType, svgmin.Minify)
	return &Renderer{painter: painter, minifier: m}
}

// RenderPreview 将预览绘制为单张高度不限的 SVG 并压缩。
func (r *Renderer) RenderPreview(pv *layout.Preview) ([]byte, error) {
	raw, err := r.rawSVG(pv)
	if err != nil {
		return nil, err
	}
	out, err := r.minifier.Bytes(MediaType, raw)
	if err != nil {
		return nil, fmt.Errorf("压缩 SVG 失败: %w", err)
	}
	return out, nil
}

func (r *Renderer) rawSVG(pv *layout.Preview) ([]byte, error) {
	if pv == nil {
		return nil, fmt.Errorf("预览结果为空")
	}
	c := canvas.New(pv.Width, pv.Height)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV)
	for _, layer := range []layout.Layer{pv.Chrome, pv.Sidebar.Layer, pv.Main.Layer} {
		if err := r.painter.Paint(ctx, layer); err != nil {
			return nil, fmt.Errorf("绘制预览失败: %w", err)
		}
	}

	var buf bytes.Buffer
	w := svg.New(&buf, pv.Width, pv.Height, nil)
	c.RenderTo(w)
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("写入 SVG 失败: %w", err)
	}
	return buf.Bytes(), nil
}
