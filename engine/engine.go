// Package engine 是简历渲染的入口：导出分页 PDF，或生成连续预览。
// 每次调用都从文档重新构造全部布局状态，调用之间只共享字体缓存。
package engine

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/ByLCY/papyrus-cv/layout"
	"github.com/ByLCY/papyrus-cv/renderer"
	canvasrenderer "github.com/ByLCY/papyrus-cv/renderer/canvas"
	"github.com/ByLCY/papyrus-cv/renderer/preview"
	"github.com/ByLCY/papyrus-cv/resume"
	"github.com/ByLCY/papyrus-cv/sections"
	"github.com/ByLCY/papyrus-cv/theme"
)

// Creator 写入 PDF 元数据的生成器名称。
const Creator = "papyrus-cv"

// Options 配置引擎。零值可用：默认主题、内置字体、slog.Default()。
type Options struct {
	Theme   *layout.Theme
	BaseDir string // 主题中相对字体路径的基准目录
	Logger  *slog.Logger
	Debug   layout.DebugOptions
}

// Engine 可被多个 goroutine 并发使用。
type Engine struct {
	theme   *layout.Theme
	canvas  *canvasrenderer.Renderer
	pdf     renderer.Renderer
	preview renderer.PreviewRenderer
	log     *slog.Logger
	debug   layout.DebugOptions
}

// Export 是一次导出的结果。
type Export struct {
	PDF      []byte
	FileName string
	Layout   *layout.Result
}

// PreviewOutput 是一次预览的结果：可序列化的视觉树与对应的 SVG。
type PreviewOutput struct {
	Tree *layout.Preview
	SVG  []byte
}

// New 创建引擎。
func New(opts Options) (*Engine, error) {
	th := opts.Theme
	if th == nil {
		var err error
		if th, err = theme.Default(); err != nil {
			return nil, fmt.Errorf("加载默认主题失败: %w", err)
		}
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	cv := canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{BaseDir: opts.BaseDir})
	return &Engine{
		theme:   th,
		canvas:  cv,
		pdf:     cv,
		preview: preview.New(cv),
		log:     log,
		debug:   opts.Debug,
	}, nil
}

// Theme 返回引擎使用的主题。
func (e *Engine) Theme() *layout.Theme { return e.theme }

func (e *Engine) buildOptions(doc resume.Document) layout.BuildOptions {
	return layout.BuildOptions{
		Typesetter: e.canvas,
		Logger:     e.log,
		Meta:       Meta(doc),
		Debug:      e.debug,
	}
}

// Layout 执行格式化与分页，不生成 PDF。
func (e *Engine) Layout(doc resume.Document) (*layout.Result, error) {
	blocks, warnings := sections.Format(doc, e.theme, sections.Options{Logger: e.log})
	res, err := layout.Paginate(e.theme, blocks, e.buildOptions(doc))
	if err != nil {
		return nil, fmt.Errorf("分页失败: %w", err)
	}
	res.Warnings = append(warnings, res.Warnings...)
	return res, nil
}

// Export 生成分页 PDF 与下载文件名。
func (e *Engine) Export(doc resume.Document) (*Export, error) {
	res, err := e.Layout(doc)
	if err != nil {
		return nil, err
	}
	data, err := e.pdf.Render(res)
	if err != nil {
		return nil, fmt.Errorf("渲染 PDF 失败: %w", err)
	}
	e.log.Debug("resume exported", "pages", len(res.Pages), "bytes", len(data), "warnings", len(res.Warnings))
	return &Export{PDF: data, FileName: resume.FileName(doc), Layout: res}, nil
}

// Preview 生成连续预览。与 Export 共用同一组布局块与折行结果。
func (e *Engine) Preview(doc resume.Document) (*PreviewOutput, error) {
	blocks, warnings := sections.Format(doc, e.theme, sections.Options{Logger: e.log})
	pv, err := layout.Flow(e.theme, blocks, e.buildOptions(doc))
	if err != nil {
		return nil, fmt.Errorf("预览排版失败: %w", err)
	}
	pv.Warnings = append(warnings, pv.Warnings...)
	svg, err := e.preview.RenderPreview(pv)
	if err != nil {
		return nil, fmt.Errorf("渲染预览失败: %w", err)
	}
	return &PreviewOutput{Tree: pv, SVG: svg}, nil
}

// Meta 由文档生成 PDF 元数据，作者名同时用于页脚。
func Meta(doc resume.Document) layout.DocumentMeta {
	name := doc.Personal.DisplayName()
	meta := layout.DocumentMeta{
		Title:   name + " – Resume",
		Author:  name,
		Subject: "Resume",
		Creator: Creator,
	}
	for _, c := range doc.Filtered().SkillCategories {
		if label := strings.TrimSpace(c.Label); label != "" {
			meta.Keywords = append(meta.Keywords, label)
		}
	}
	return meta
}
