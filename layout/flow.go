package layout

import "errors"

// Flow 以预览模式排版：侧栏与主栏是两条并排、高度不限的内容流，没有换页，
// 也没有任何重复绘制。两栏使用与 Paginate 相同的单元组合逻辑。
func Flow(theme *Theme, blocks Blocks, opts BuildOptions) (*Preview, error) {
	if theme == nil {
		return nil, errors.New("layout: 主题为空")
	}
	if opts.Typesetter == nil {
		return nil, ErrNoTypesetter
	}
	sidebar, err := flowRegion(newComposer(theme, opts.Typesetter, theme.SidebarContentWidth(), opts.Debug), blocks.Sidebar, theme.SidebarX(), theme.MarginTop)
	if err != nil {
		return nil, err
	}
	main, err := flowRegion(newComposer(theme, opts.Typesetter, theme.MainWidth(), opts.Debug), blocks.Main, theme.MainX(), theme.MarginTop)
	if err != nil {
		return nil, err
	}
	sidebar.Height += theme.MarginBottom
	main.Height += theme.MarginBottom
	sidebar.X, sidebar.Width = 0, theme.SidebarWidth
	main.X, main.Width = theme.MainX(), theme.MainWidth()

	height := max(sidebar.Height, main.Height, theme.PageHeight)
	pv := &Preview{
		Width:   theme.PageWidth,
		Height:  height,
		Sidebar: sidebar,
		Main:    main,
		Meta:    opts.Meta,
	}
	bg, accent := theme.Sidebar, theme.Accent
	pv.Chrome.Rects = append(pv.Chrome.Rects, Rect{Width: theme.SidebarWidth, Height: height, FillColor: &bg})
	if theme.StripeHeight > 0 {
		pv.Chrome.Rects = append(pv.Chrome.Rects, Rect{Width: theme.PageWidth, Height: theme.StripeHeight, FillColor: &accent})
	}
	return pv, nil
}

// flowRegion 把块依次向下堆叠；首个单元的前置间距被忽略，与分页模式下页顶的处理一致。
func flowRegion(c composer, blocks []Block, x, top float64) (Region, error) {
	var region Region
	y := top
	first := true
	for _, b := range blocks {
		units, err := c.compose(b)
		if err != nil {
			return Region{}, err
		}
		for _, u := range units {
			if !first {
				y += u.spaceBefore
			}
			region.Layer.appendLayer(u.layer, x, y)
			y += u.height
			first = false
		}
	}
	region.Height = y
	return region, nil
}
