package layout

import (
	"fmt"
	"image"
)

// BlockKind 是 Block 的变体标签。
type BlockKind int

const (
	BlockHeading BlockKind = iota
	BlockBodyText
	BlockKeyValueRow
	BlockBulletList
	BlockProgressBar
	BlockDivider
	BlockImage
)

var blockKindNames = [...]string{"heading", "body", "key-value", "bullets", "progress", "divider", "image"}

func (k BlockKind) String() string {
	if int(k) < len(blockKindNames) {
		return blockKindNames[k]
	}
	return fmt.Sprintf("BlockKind(%d)", int(k))
}

// MarshalText 让调试 JSON 输出可读的变体名。
func (k BlockKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Block 是布局引擎消费的最小语义单元，由各 section 格式化器产出，与渲染目标无关。
//
// MinHeight 声明该块需要的最小连续高度，用于换页前瞻：例如标题要求与随后的第一行
// 内容位于同一页。实际绘制高度可能大于 MinHeight。
type Block struct {
	Kind       BlockKind `json:"kind"`
	Style      StyleName `json:"style,omitempty"`
	ValueStyle StyleName `json:"valueStyle,omitempty"`

	Text  string   `json:"text,omitempty"`
	Value string   `json:"value,omitempty"` // KeyValueRow 右对齐部分
	Items []string `json:"items,omitempty"` // BulletList
	Align string   `json:"align,omitempty"`
	Rule  bool     `json:"rule,omitempty"` // Heading 下方的强调线

	Fraction float64     `json:"fraction,omitempty"` // ProgressBar 填充比例
	Height   float64     `json:"height,omitempty"`   // ProgressBar/Divider/Image 的固定高度
	Width    float64     `json:"width,omitempty"`    // Image 宽度
	ImageKey string      `json:"imageKey,omitempty"`
	Image    image.Image `json:"-"`

	SpaceBefore float64 `json:"spaceBefore,omitempty"`
	MinHeight   float64 `json:"minHeight,omitempty"`
}

// Blocks 是一份简历的两条内容流。
type Blocks struct {
	Sidebar []Block `json:"sidebar"`
	Main    []Block `json:"main"`
}

// Heading 构造标题块。
func Heading(style StyleName, text string) Block {
	return Block{Kind: BlockHeading, Style: style, Text: text}
}

// BodyText 构造正文块，可跨页按行拆分。
func BodyText(style StyleName, text string) Block {
	return Block{Kind: BlockBodyText, Style: style, Text: text}
}

// KeyValueRow 构造左文右值的单行块（例如 "公司 — 地点" + 右对齐日期）。
func KeyValueRow(style, valueStyle StyleName, key, value string) Block {
	return Block{Kind: BlockKeyValueRow, Style: style, ValueStyle: valueStyle, Text: key, Value: value}
}

// BulletList 构造项目符号列表，每一项是独立的换页单元。
func BulletList(style StyleName, items []string) Block {
	return Block{Kind: BlockBulletList, Style: style, Items: items}
}

// ProgressBar 构造进度条，fraction 取值 [0,1]。
func ProgressBar(fraction, height float64) Block {
	return Block{Kind: BlockProgressBar, Fraction: fraction, Height: height}
}

// Divider 构造分隔线。
func Divider(height float64) Block {
	return Block{Kind: BlockDivider, Height: height}
}

// ImageBlock 构造图片块。
func ImageBlock(key string, img image.Image, width, height float64) Block {
	return Block{Kind: BlockImage, ImageKey: key, Image: img, Width: width, Height: height}
}

// With 设置间距与最小高度并返回副本，便于链式构造。
func (b Block) With(spaceBefore, minHeight float64) Block {
	b.SpaceBefore = spaceBefore
	b.MinHeight = minHeight
	return b
}
