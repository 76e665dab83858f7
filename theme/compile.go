package theme

import (
	"fmt"
	"maps"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/ByLCY/papyrus-cv/layout"
)

var pagePresets = map[string][2]float64{
	"A4":     {210, 297},
	"A5":     {148, 210},
	"LETTER": {215.9, 279.4},
	"LEGAL":  {215.9, 355.6},
}

// compiler 以 base 为起点，把主题文件中出现的属性逐项覆盖上去。
type compiler struct {
	theme  *layout.Theme
	colors map[string]layout.Color
	fonts  map[string]layout.FontResource
	// 样式在颜色与字体全部收集后再解析，因此段落顺序无关
	styles []*Command
}

// Compile 将主题 AST 编译为布局常量。base 非空时在其副本上覆盖，
// 未出现的属性沿用 base 的取值。
func Compile(f *File, base *layout.Theme) (*layout.Theme, error) {
	if f == nil || f.Body == nil {
		return nil, fmt.Errorf("主题为空")
	}
	c := &compiler{
		theme:  clone(base),
		colors: map[string]layout.Color{},
		fonts:  map[string]layout.FontResource{},
	}
	c.theme.Name = f.Name
	if base != nil {
		c.colors["accent"] = base.Accent
		c.colors["sidebar"] = base.Sidebar
		c.colors["track"] = base.Track
		for _, st := range base.Styles {
			if st.Font.Name != "" {
				c.fonts[st.Font.Name] = st.Font
			}
		}
	}

	for _, st := range f.Body.Statements {
		if st.Command == nil {
			return nil, errorAt(st.Assignment.Pos, "顶层只允许段落，发现属性 %q", st.Assignment.Key)
		}
		if err := c.section(st.Command); err != nil {
			return nil, err
		}
	}
	for _, cmd := range c.styles {
		if err := c.style(cmd); err != nil {
			return nil, err
		}
	}
	return c.theme, c.validate()
}

func clone(base *layout.Theme) *layout.Theme {
	if base == nil {
		return &layout.Theme{Styles: map[layout.StyleName]layout.TextStyle{}, SidebarOverflow: layout.OverflowClip}
	}
	out := *base
	out.Styles = maps.Clone(base.Styles)
	if out.Styles == nil {
		out.Styles = map[layout.StyleName]layout.TextStyle{}
	}
	return &out
}

func (c *compiler) section(cmd *Command) error {
	if cmd.Block == nil {
		return errorAt(cmd.Pos, "段落 %s 缺少 { }", cmd.Name)
	}
	switch cmd.Name {
	case "page":
		return c.assignments(cmd, c.pageProp)
	case "sidebar":
		return c.assignments(cmd, c.sidebarProp)
	case "colors":
		return c.assignments(cmd, c.colorProp)
	case "spacing":
		return c.assignments(cmd, c.spacingProp)
	case "shapes":
		return c.assignments(cmd, c.shapeProp)
	case "features":
		return c.assignments(cmd, c.featureProp)
	case "fonts":
		return c.commands(cmd, "font", c.font)
	case "styles":
		return c.commands(cmd, "style", func(s *Command) error {
			c.styles = append(c.styles, s)
			return nil
		})
	default:
		return errorAt(cmd.Pos, "未知段落 %q", cmd.Name)
	}
}

func (c *compiler) assignments(cmd *Command, apply func(a *Assignment) error) error {
	for _, st := range cmd.Block.Statements {
		if st.Assignment == nil {
			return errorAt(st.Command.Pos, "段落 %s 中不允许嵌套 %s", cmd.Name, st.Command.Name)
		}
		if err := apply(st.Assignment); err != nil {
			return err
		}
	}
	return nil
}

func (c *compiler) commands(cmd *Command, name string, apply func(*Command) error) error {
	for _, st := range cmd.Block.Statements {
		if st.Command == nil || st.Command.Name != name {
			pos := cmd.Pos
			if st.Assignment != nil {
				pos = st.Assignment.Pos
			}
			return errorAt(pos, "段落 %s 中只允许 %s 声明", cmd.Name, name)
		}
		if err := apply(st.Command); err != nil {
			return err
		}
	}
	return nil
}

func (c *compiler) pageProp(a *Assignment) error {
	t := c.theme
	switch a.Key {
	case "size":
		return c.pageSize(a)
	case "margin-top":
		return c.length(a, &t.MarginTop)
	case "margin-bottom":
		return c.length(a, &t.MarginBottom)
	case "margin-right":
		return c.length(a, &t.MarginRight)
	default:
		return unknownKey(a, "page")
	}
}

// pageSize 接受预设名（A4/A5/Letter/Legal）或 [宽, 高]。
func (c *compiler) pageSize(a *Assignment) error {
	if a.Value.Array != nil {
		vals := a.Value.Array.Values
		if len(vals) != 2 {
			return errorAt(a.Pos, "size 需要 [宽, 高] 两个长度")
		}
		w, err := layout.ParseLength(vals[0].Text())
		if err != nil {
			return errorAt(a.Pos, "size: %v", err)
		}
		h, err := layout.ParseLength(vals[1].Text())
		if err != nil {
			return errorAt(a.Pos, "size: %v", err)
		}
		c.theme.PageWidth, c.theme.PageHeight = w.MM(), h.MM()
		return nil
	}
	preset, ok := pagePresets[strings.ToUpper(a.Value.Text())]
	if !ok {
		return errorAt(a.Pos, "暂不支持的纸张尺寸：%s", a.Value.Text())
	}
	c.theme.PageWidth, c.theme.PageHeight = preset[0], preset[1]
	return nil
}

func (c *compiler) sidebarProp(a *Assignment) error {
	t := c.theme
	switch a.Key {
	case "width":
		return c.length(a, &t.SidebarWidth)
	case "padding":
		return c.length(a, &t.SidebarPadding)
	case "gutter":
		return c.length(a, &t.Gutter)
	case "stripe":
		return c.length(a, &t.StripeHeight)
	case "overflow":
		switch p := layout.OverflowPolicy(a.Value.Text()); p {
		case layout.OverflowClip, layout.OverflowContinue:
			t.SidebarOverflow = p
			return nil
		default:
			return errorAt(a.Pos, "overflow 只能是 clip 或 continue，得到 %q", a.Value.Text())
		}
	default:
		return unknownKey(a, "sidebar")
	}
}

// colorProp 登记命名颜色；accent/sidebar/track 同时写入主题。
func (c *compiler) colorProp(a *Assignment) error {
	col, err := c.color(a)
	if err != nil {
		return err
	}
	c.colors[a.Key] = col
	switch a.Key {
	case "accent":
		c.theme.Accent = col
	case "sidebar":
		c.theme.Sidebar = col
	case "track":
		c.theme.Track = col
	}
	return nil
}

func (c *compiler) spacingProp(a *Assignment) error {
	t := c.theme
	switch a.Key {
	case "section":
		return c.length(a, &t.SectionGap)
	case "entry":
		return c.length(a, &t.EntryGap)
	case "item":
		return c.length(a, &t.ItemGap)
	case "rule":
		return c.length(a, &t.RuleGap)
	default:
		return unknownKey(a, "spacing")
	}
}

func (c *compiler) shapeProp(a *Assignment) error {
	t := c.theme
	switch a.Key {
	case "bullet-indent":
		return c.length(a, &t.BulletIndent)
	case "bullet-radius":
		return c.length(a, &t.BulletRadius)
	case "bar-height":
		return c.length(a, &t.BarHeight)
	case "bar-radius":
		return c.length(a, &t.BarRadius)
	case "photo":
		return c.length(a, &t.PhotoSize)
	case "qr":
		return c.length(a, &t.QRSize)
	default:
		return unknownKey(a, "shapes")
	}
}

func (c *compiler) featureProp(a *Assignment) error {
	t := c.theme
	switch a.Key {
	case "qr":
		return c.flag(a, &t.QRCode)
	case "footer":
		return c.flag(a, &t.Footer)
	default:
		return unknownKey(a, "features")
	}
}

// font 解析 `font <名称> { src: "embed:Go-Bold" style: bold }`。
func (c *compiler) font(cmd *Command) error {
	if len(cmd.Args) != 1 {
		return errorAt(cmd.Pos, "font 需要一个名称")
	}
	res := layout.FontResource{Name: cmd.Args[0].Value}
	if cmd.Block != nil {
		for _, st := range cmd.Block.Statements {
			a := st.Assignment
			if a == nil {
				return errorAt(st.Command.Pos, "font %s 中不允许嵌套声明", res.Name)
			}
			switch a.Key {
			case "src":
				res.Src = a.Value.Text()
			case "style":
				res.Style = a.Value.Text()
			default:
				return unknownKey(a, "font")
			}
		}
	}
	if res.Src == "" {
		return errorAt(cmd.Pos, "font %s 缺少 src", res.Name)
	}
	c.fonts[res.Name] = res
	return nil
}

// style 解析 `style <名称> { font: .. size: .. line-height: .. color: .. }`，
// 未写出的属性沿用同名样式的既有取值。
func (c *compiler) style(cmd *Command) error {
	if len(cmd.Args) != 1 {
		return errorAt(cmd.Pos, "style 需要一个名称")
	}
	name := layout.StyleName(cmd.Args[0].Value)
	st := c.theme.Styles[name]
	prevSize := st.Size
	var lh *layout.LineHeightSpec
	if cmd.Block != nil {
		for _, s := range cmd.Block.Statements {
			a := s.Assignment
			if a == nil {
				return errorAt(s.Command.Pos, "style %s 中不允许嵌套声明", name)
			}
			switch a.Key {
			case "font":
				f, ok := c.fonts[a.Value.Text()]
				if !ok {
					return errorAt(a.Pos, "字体 %s 未定义", a.Value.Text())
				}
				st.Font = f
			case "size":
				if err := c.length(a, &st.Size); err != nil {
					return err
				}
			case "line-height":
				spec, err := layout.ParseLineHeight(a.Value.Text())
				if err != nil {
					return errorAt(a.Pos, "line-height: %v", err)
				}
				lh = &spec
			case "color":
				col, err := c.color(a)
				if err != nil {
					return err
				}
				st.Color = col
			default:
				return unknownKey(a, "style")
			}
		}
	}
	if st.Size <= 0 {
		return errorAt(cmd.Pos, "style %s 缺少 size", name)
	}
	switch {
	case lh != nil:
		st.LineHeight = lh.Resolve(st.Size)
	case st.LineHeight <= 0 || prevSize <= 0:
		st.LineHeight = layout.LineHeightSpec{}.Resolve(st.Size)
	case prevSize != st.Size:
		st.LineHeight *= st.Size / prevSize
	}
	c.theme.Styles[name] = st
	return nil
}

func (c *compiler) length(a *Assignment, dst *float64) error {
	l, err := layout.ParseLength(a.Value.Text())
	if err != nil {
		return errorAt(a.Pos, "%s: %v", a.Key, err)
	}
	*dst = l.MM()
	return nil
}

func (c *compiler) flag(a *Assignment, dst *bool) error {
	switch strings.ToLower(a.Value.Text()) {
	case "on", "true", "yes":
		*dst = true
	case "off", "false", "no":
		*dst = false
	default:
		return errorAt(a.Pos, "%s 只能是 on 或 off，得到 %q", a.Key, a.Value.Text())
	}
	return nil
}

// color 接受 #RGB/#RRGGBB/#RRGGBBAA 或已登记的颜色名。
func (c *compiler) color(a *Assignment) (layout.Color, error) {
	v := a.Value.Text()
	if strings.HasPrefix(v, "#") {
		col, err := ParseColor(v)
		if err != nil {
			return layout.Color{}, errorAt(a.Pos, "%v", err)
		}
		return col, nil
	}
	if col, ok := c.colors[v]; ok {
		return col, nil
	}
	return layout.Color{}, errorAt(a.Pos, "颜色 %s 未定义", v)
}

func (c *compiler) validate() error {
	t := c.theme
	if t.PageWidth <= 0 || t.PageHeight <= 0 {
		return fmt.Errorf("主题 %s 缺少纸张尺寸", t.Name)
	}
	if _, ok := t.Styles[layout.StyleBody]; !ok {
		return fmt.Errorf("主题 %s 缺少 body 样式", t.Name)
	}
	if t.Usable() <= 0 {
		return fmt.Errorf("主题 %s 的上下边距超过纸张高度", t.Name)
	}
	if t.MainWidth() <= 0 {
		return fmt.Errorf("主题 %s 的侧栏与边距超过纸张宽度", t.Name)
	}
	if t.SidebarContentWidth() <= 0 {
		return fmt.Errorf("主题 %s 的侧栏内边距超过侧栏宽度", t.Name)
	}
	return nil
}

// ParseColor 解析十六进制颜色，忽略透明度分量。
func ParseColor(value string) (layout.Color, error) {
	hex := strings.TrimPrefix(value, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 && len(hex) != 8 {
		return layout.Color{}, fmt.Errorf("颜色值 %s 无法解析", value)
	}
	var rgb [3]int
	for i := range rgb {
		n, err := strconv.ParseUint(hex[2*i:2*i+2], 16, 8)
		if err != nil {
			return layout.Color{}, fmt.Errorf("颜色值 %s 无法解析", value)
		}
		rgb[i] = int(n)
	}
	return layout.Color{R: rgb[0], G: rgb[1], B: rgb[2]}, nil
}

func unknownKey(a *Assignment, section string) error {
	return errorAt(a.Pos, "%s 中未知属性 %q", section, a.Key)
}

func errorAt(pos lexer.Position, format string, args ...any) error {
	return fmt.Errorf("%s: %s", pos, fmt.Sprintf(format, args...))
}
