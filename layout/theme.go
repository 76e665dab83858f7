package layout

// 该文件描述版式常量（页面尺寸、边距、侧栏宽度、配色、各类文字样式）。
// 常量由 theme 包从主题文件编译而来，布局阶段只读。

// OverflowPolicy 决定侧栏内容超出首页时的处理方式。
type OverflowPolicy string

const (
	// OverflowClip 超出首页的侧栏内容直接丢弃（默认）。
	OverflowClip OverflowPolicy = "clip"
	// OverflowContinue 侧栏内容在后续页面继续排版。
	OverflowContinue OverflowPolicy = "continue"
)

// StyleName 标识一种文字样式。
type StyleName string

const (
	StyleDisplayName  StyleName = "name"
	StyleHeadline     StyleName = "headline"
	StyleSection      StyleName = "section"
	StyleEntryTitle   StyleName = "entry-title"
	StyleMeta         StyleName = "meta"
	StyleDate         StyleName = "date"
	StyleBody         StyleName = "body"
	StyleSidebarTitle StyleName = "sidebar-title"
	StyleSidebarLabel StyleName = "sidebar-label"
	StyleSidebarBody  StyleName = "sidebar-body"
	StyleFooter       StyleName = "footer"
)

// FontResource 描述字体资源；Src 形如 "embed:Go-Bold" 或文件路径。
type FontResource struct {
	Name  string `json:"name"`
	Src   string `json:"src"`
	Style string `json:"style,omitempty"`
}

// TextStyle 为一种文字样式解析后的结果，长度单位均为 mm。
type TextStyle struct {
	Font       FontResource `json:"font"`
	Size       float64      `json:"size"`
	LineHeight float64      `json:"lineHeight"`
	Color      Color        `json:"color"`
}

// Theme 是固定的版式配置。
type Theme struct {
	Name string `json:"name"`

	PageWidth    float64 `json:"pageWidth"`
	PageHeight   float64 `json:"pageHeight"`
	MarginTop    float64 `json:"marginTop"`
	MarginBottom float64 `json:"marginBottom"`
	MarginRight  float64 `json:"marginRight"`

	SidebarWidth   float64 `json:"sidebarWidth"`
	SidebarPadding float64 `json:"sidebarPadding"`
	Gutter         float64 `json:"gutter"`
	StripeHeight   float64 `json:"stripeHeight"`

	Accent  Color `json:"accent"`
	Sidebar Color `json:"sidebar"`
	Track   Color `json:"track"`

	Styles map[StyleName]TextStyle `json:"styles"`

	SectionGap   float64 `json:"sectionGap"`
	EntryGap     float64 `json:"entryGap"`
	ItemGap      float64 `json:"itemGap"`
	RuleGap      float64 `json:"ruleGap"`
	BulletIndent float64 `json:"bulletIndent"`
	BulletRadius float64 `json:"bulletRadius"`
	BarHeight    float64 `json:"barHeight"`
	BarRadius    float64 `json:"barRadius"`
	PhotoSize    float64 `json:"photoSize"`
	QRSize       float64 `json:"qrSize"`

	QRCode          bool           `json:"qrCode"`
	Footer          bool           `json:"footer"`
	SidebarOverflow OverflowPolicy `json:"sidebarOverflow"`
}

// Style 返回指定样式，未定义时回退到 body。
func (t *Theme) Style(name StyleName) TextStyle {
	if s, ok := t.Styles[name]; ok {
		return s
	}
	return t.Styles[StyleBody]
}

// LineHeight 返回样式的单行高度（mm）。
func (t *Theme) LineHeight(name StyleName) float64 {
	return t.Style(name).LineHeight
}

// Bottom 是两栏内容允许到达的最低位置。
func (t *Theme) Bottom() float64 { return t.PageHeight - t.MarginBottom }

// Usable 是一页主栏可用高度。
func (t *Theme) Usable() float64 { return t.Bottom() - t.MarginTop }

func (t *Theme) MainX() float64 { return t.SidebarWidth + t.Gutter }

func (t *Theme) MainWidth() float64 { return t.PageWidth - t.MainX() - t.MarginRight }

func (t *Theme) SidebarX() float64 { return t.SidebarPadding }

func (t *Theme) SidebarContentWidth() float64 { return t.SidebarWidth - 2*t.SidebarPadding }
