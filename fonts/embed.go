package fonts

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// 内置字体来自 Go 字体家族，主题中以 "embed:<名称>" 引用。
var builtin = map[string][]byte{
	"Go-Regular":     goregular.TTF,
	"Go-Medium":      gomedium.TTF,
	"Go-Bold":        gobold.TTF,
	"Go-Italic":      goitalic.TTF,
	"Go-Bold-Italic": gobolditalic.TTF,
	"Go-Mono":        gomono.TTF,
}

// Default 是未指定字体时使用的正文字体。
const Default = "Go-Regular"

// Load 返回内置字体的字节数据，path 可写为 "embed:Go-Bold" 或直接 "Go-Bold"，
// 允许带 ".ttf" 后缀。
func Load(path string) ([]byte, error) {
	name := strings.TrimSuffix(strings.TrimPrefix(path, "embed:"), ".ttf")
	data, ok := builtin[name]
	if !ok {
		return nil, fmt.Errorf("读取内置字体 %s 失败: 可选 %s", name, strings.Join(Names(), ", "))
	}
	return data, nil
}

// Names 返回全部内置字体名称（已排序）。
func Names() []string {
	out := make([]string, 0, len(builtin))
	for name := range builtin {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
