package layout

import (
	"errors"
	"fmt"
	"log/slog"
)

// Paginator 维护导出模式的分页状态：页面序列与侧栏、主栏两个独立游标。
//
// 主栏溢出时追加新页；侧栏只在首页绘制一次，溢出部分被截断（OverflowClip），
// 或在主题声明 OverflowContinue 时接续到后续页面。每次调用 Paginate 都会构造
// 新的 Paginator，不存在跨调用的共享状态。
type Paginator struct {
	theme *Theme
	opts  BuildOptions
	log   *slog.Logger

	pages []Page

	mainPage  int
	mainY     float64
	mainFresh bool
	mainGap   float64

	sidebarPage  int
	sidebarY     float64
	sidebarFresh bool
	clipped      bool
	dropped      int

	mainc    composer
	sidebarc composer
	warnings []Warning
	finished bool
}

// Cursor 是某一栏当前的写入位置。
type Cursor struct {
	Page int
	Y    float64
}

// NewPaginator 创建分页器并开启第 0 页。
func NewPaginator(theme *Theme, opts BuildOptions) (*Paginator, error) {
	if theme == nil {
		return nil, errors.New("layout: 主题为空")
	}
	if opts.Typesetter == nil {
		return nil, ErrNoTypesetter
	}
	if theme.Usable() <= 0 || theme.MainWidth() <= 0 {
		return nil, fmt.Errorf("layout: 主题 %q 的页面可用区域为空", theme.Name)
	}
	p := &Paginator{
		theme:    theme,
		opts:     opts,
		log:      opts.logger(),
		mainc:    newComposer(theme, opts.Typesetter, theme.MainWidth(), opts.Debug),
		sidebarc: newComposer(theme, opts.Typesetter, theme.SidebarContentWidth(), opts.Debug),
	}
	p.BeginPage()
	p.sidebarY = theme.MarginTop
	p.sidebarFresh = true
	return p, nil
}

// BeginPage 追加一页：绘制满高的侧栏背景与顶部色条，并把主栏游标移到新页顶部。
// 侧栏游标只在接续模式下由侧栏自身推进。
func (p *Paginator) BeginPage() {
	p.appendPage()
	p.mainPage = len(p.pages) - 1
	p.resetMain()
}

func (p *Paginator) appendPage() {
	t := p.theme
	sidebar, accent := t.Sidebar, t.Accent
	page := Page{Index: len(p.pages), Width: t.PageWidth, Height: t.PageHeight}
	page.Chrome.Rects = append(page.Chrome.Rects, Rect{Width: t.SidebarWidth, Height: t.PageHeight, FillColor: &sidebar})
	if t.StripeHeight > 0 {
		page.Chrome.Rects = append(page.Chrome.Rects, Rect{Width: t.PageWidth, Height: t.StripeHeight, FillColor: &accent})
	}
	p.pages = append(p.pages, page)
}

func (p *Paginator) resetMain() {
	p.mainY = p.theme.MarginTop
	p.mainFresh = true
	p.mainGap = 0
}

// nextMainPage 将主栏移到下一页；该页已由侧栏接续创建时直接复用。
func (p *Paginator) nextMainPage() {
	if p.mainPage+1 < len(p.pages) {
		p.mainPage++
		p.resetMain()
		return
	}
	p.BeginPage()
}

func (p *Paginator) nextSidebarPage() {
	if p.sidebarPage+1 >= len(p.pages) {
		p.appendPage()
	}
	p.sidebarPage++
	p.sidebarY = p.theme.MarginTop
	p.sidebarFresh = true
}

// EnsureMainSpace 在主栏剩余高度不足 required 时换页，返回是否发生了换页。
// required 超过整页可用高度时按整页处理；当前页主栏尚为空时不换页，
// 因此对同一请求最多换页一次。
func (p *Paginator) EnsureMainSpace(required float64) bool {
	if required > p.theme.Usable() {
		required = p.theme.Usable()
	}
	if p.mainFresh {
		return false
	}
	if p.mainY+required <= p.theme.Bottom() {
		return false
	}
	p.nextMainPage()
	return true
}

// DrawMainBlock 在主栏绘制一个块：先按块声明的最小高度做换页前瞻，再逐单元放置，
// 每个单元放置前单独检查剩余空间。
func (p *Paginator) DrawMainBlock(b Block) error {
	units, err := p.mainc.compose(b)
	if err != nil {
		return err
	}
	if len(units) == 0 {
		return nil
	}
	need := b.MinHeight
	if units[0].height > need {
		need = units[0].height
	}
	p.mainGap = max(p.mainGap, units[0].spaceBefore)
	p.EnsureMainSpace(p.pendingMainGap() + need)
	for _, u := range units {
		p.mainGap = max(p.mainGap, u.spaceBefore)
		if u.height > p.theme.Usable() && len(u.pieces) > 0 {
			for i, piece := range u.pieces {
				if i == 0 {
					piece.spaceBefore = u.spaceBefore
				}
				p.placeMain(piece)
			}
			continue
		}
		p.placeMain(u)
	}
	return nil
}

func (p *Paginator) pendingMainGap() float64 {
	if p.mainFresh {
		return 0
	}
	return p.mainGap
}

func (p *Paginator) placeMain(u unit) {
	p.mainGap = max(p.mainGap, u.spaceBefore)
	p.EnsureMainSpace(p.pendingMainGap() + u.height)
	y := p.mainY + p.pendingMainGap()
	if u.height > p.theme.Usable() {
		p.warn(WarnOversizedUnit, fmt.Sprintf("第 %d 页有高度 %.1fmm 的单元超出整页可用高度", p.mainPage+1, u.height))
	}
	p.pages[p.mainPage].Layer.appendLayer(u.layer, p.theme.MainX(), y)
	p.mainY = y + u.height
	p.mainFresh = false
	p.mainGap = 0
}

// DrawSidebarBlock 在侧栏绘制一个块，不会触发主栏换页。
func (p *Paginator) DrawSidebarBlock(b Block) error {
	units, err := p.sidebarc.compose(b)
	if err != nil {
		return err
	}
	if p.clipped {
		p.dropped += len(units)
		return nil
	}
	for i, u := range units {
		gap := u.spaceBefore
		if p.sidebarFresh {
			gap = 0
		}
		need := u.height
		if i == 0 && b.MinHeight > need {
			need = b.MinHeight
		}
		if !p.sidebarFresh && p.sidebarY+gap+need > p.theme.Bottom() {
			if p.theme.SidebarOverflow != OverflowContinue {
				p.clipped = true
				p.dropped += len(units) - i
				return nil
			}
			p.nextSidebarPage()
			gap = 0
		}
		y := p.sidebarY + gap
		p.pages[p.sidebarPage].Layer.appendLayer(u.layer, p.theme.SidebarX(), y)
		p.sidebarY = y + u.height
		p.sidebarFresh = false
	}
	return nil
}

// MainCursor 返回主栏游标。
func (p *Paginator) MainCursor() Cursor { return Cursor{Page: p.mainPage, Y: p.mainY} }

// SidebarCursor 返回侧栏游标。
func (p *Paginator) SidebarCursor() Cursor { return Cursor{Page: p.sidebarPage, Y: p.sidebarY} }

// PageCount 返回当前页数。
func (p *Paginator) PageCount() int { return len(p.pages) }

func (p *Paginator) warn(code, msg string) {
	p.warnings = append(p.warnings, Warning{Code: code, Message: msg})
	p.log.Warn("layout degraded", "code", code, "detail", msg)
}

// Finish 补充多页页脚与告警并返回结果；之后不应再绘制。
func (p *Paginator) Finish() (*Result, error) {
	if p.finished {
		return nil, errors.New("layout: Finish 已调用")
	}
	p.finished = true
	if p.dropped > 0 {
		p.warn(WarnSidebarTruncated, fmt.Sprintf("侧栏超出首页，%d 个单元未绘制", p.dropped))
	}
	if p.theme.Footer && len(p.pages) > 1 {
		if err := p.addFooters(); err != nil {
			return nil, err
		}
	}
	return &Result{Pages: p.pages, Meta: p.opts.Meta, Warnings: p.warnings}, nil
}

// addFooters 在每页主栏底边距中部写入 "<姓名> · i / N"，右对齐。
func (p *Paginator) addFooters() error {
	t := p.theme
	st := t.Style(StyleFooter)
	n := len(p.pages)
	for i := range p.pages {
		label := fmt.Sprintf("%d / %d", i+1, n)
		if p.opts.Meta.Author != "" {
			label = p.opts.Meta.Author + " · " + label
		}
		w, err := p.opts.Typesetter.MeasureWidth(label, st.Font, st.Size)
		if err != nil {
			return fmt.Errorf("测量页脚宽度失败: %w", err)
		}
		w = min(w, t.MainWidth())
		p.pages[i].Chrome.Texts = append(p.pages[i].Chrome.Texts, TextBox{
			Content:    label,
			X:          t.MainX() + t.MainWidth() - w,
			Y:          t.Bottom() + (t.MarginBottom-st.LineHeight)/2,
			Width:      w,
			Height:     st.LineHeight,
			LineHeight: st.LineHeight,
			FontSize:   st.Size,
			Font:       st.Font,
			Color:      st.Color,
			Align:      "right",
			Lines:      []TextLine{{Content: label, Width: w, Height: st.LineHeight}},
		})
	}
	return nil
}

// Paginate 依次绘制侧栏与主栏内容流，返回分页结果。
func Paginate(theme *Theme, blocks Blocks, opts BuildOptions) (*Result, error) {
	p, err := NewPaginator(theme, opts)
	if err != nil {
		return nil, err
	}
	for _, b := range blocks.Sidebar {
		if err := p.DrawSidebarBlock(b); err != nil {
			return nil, err
		}
	}
	for _, b := range blocks.Main {
		if err := p.DrawMainBlock(b); err != nil {
			return nil, err
		}
	}
	return p.Finish()
}
