package layout

import (
	"errors"
	"log/slog"
)

// ErrNoTypesetter 表示未提供排版后端。
var ErrNoTypesetter = errors.New("layout: 缺少排版后端 Typesetter")

// BuildOptions 配置布局阶段所需的依赖。
type BuildOptions struct {
	Typesetter Typesetter
	Logger     *slog.Logger
	Meta       DocumentMeta
	Debug      DebugOptions
}

// DebugOptions 控制调试相关输出。
type DebugOptions struct {
	Outlines bool // 为每个排版单元绘制细边框，便于观察换页位置
}

func (o BuildOptions) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// Typesetter 是文字度量后端：测量宽度，并将文本贪心折行。
// 约定：宽度、字号、行高均为毫米（mm）。
type Typesetter interface {
	MeasureWidth(content string, font FontResource, fontSize float64) (float64, error)
	LayoutLines(content string, width float64, font FontResource, fontSize, lineHeight float64) ([]TextLine, error)
}
