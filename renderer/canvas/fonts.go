package canvasrenderer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/papyrus-cv/fonts"
	"github.com/ByLCY/papyrus-cv/layout"
)

// faceCache 缓存字体族（按资源）与字形（按资源、字号、颜色）。并发安全。
type faceCache struct {
	baseDir string

	mu       sync.Mutex
	families map[layout.FontResource]family
	faces    map[faceKey]*canvas.FontFace
}

type family struct {
	ff    *canvas.FontFamily
	style canvas.FontStyle
}

type faceKey struct {
	font  layout.FontResource
	size  float64 // pt
	color layout.Color
}

func newFaceCache(baseDir string) *faceCache {
	return &faceCache{
		baseDir:  baseDir,
		families: map[layout.FontResource]family{},
		faces:    map[faceKey]*canvas.FontFace{},
	}
}

// face 返回指定字号（pt）的字形。资源无法加载时退回内置默认字体。
func (c *faceCache) face(font layout.FontResource, sizePt float64, col layout.Color) (*canvas.FontFace, error) {
	key := faceKey{font: font, size: sizePt, color: col}
	c.mu.Lock()
	defer c.mu.Unlock()

	if f, ok := c.faces[key]; ok {
		return f, nil
	}
	fam, err := c.family(font)
	if err != nil {
		return nil, err
	}
	f := fam.ff.Face(sizePt, colorFromLayout(col), fam.style, canvas.FontNormal)
	c.faces[key] = f
	return f, nil
}

// family 须在持有 mu 时调用。
func (c *faceCache) family(font layout.FontResource) (family, error) {
	if fam, ok := c.families[font]; ok {
		return fam, nil
	}
	style := parseFontStyle(font.Style)
	fam, err := loadFamily(font.Name, style, func() ([]byte, error) { return c.fontBytes(font) })
	if err != nil {
		// 缺失字体只影响外观，不中断排版。
		fam, err = c.fallback()
		if err != nil {
			return family{}, err
		}
	}
	c.families[font] = fam
	return fam, nil
}

func (c *faceCache) fallback() (family, error) {
	fallbackKey := layout.FontResource{Src: fonts.Default}
	if fam, ok := c.families[fallbackKey]; ok {
		return fam, nil
	}
	fam, err := loadFamily("papyrus-fallback", canvas.FontRegular, func() ([]byte, error) { return fonts.Load(fonts.Default) })
	if err != nil {
		return family{}, fmt.Errorf("加载默认字体失败: %w", err)
	}
	c.families[fallbackKey] = fam
	return fam, nil
}

func loadFamily(name string, style canvas.FontStyle, data func() ([]byte, error)) (family, error) {
	if name == "" {
		name = "Body"
	}
	blob, err := data()
	if err != nil {
		return family{}, err
	}
	ff := canvas.NewFontFamily(name)
	if err := ff.LoadFont(blob, 0, style); err != nil {
		return family{}, fmt.Errorf("解析字体 %s 失败: %w", name, err)
	}
	return family{ff: ff, style: style}, nil
}

// fontBytes 支持 embed:<名称> 与文件路径两种来源；相对路径以 baseDir 为基准。
func (c *faceCache) fontBytes(font layout.FontResource) ([]byte, error) {
	src := font.Src
	switch {
	case src == "":
		return nil, fmt.Errorf("字体 %s 缺少 src", font.Name)
	case strings.HasPrefix(src, "embed:"):
		return fonts.Load(src)
	case filepath.IsAbs(src):
		return os.ReadFile(src)
	case c.baseDir == "":
		return nil, fmt.Errorf("未指定资源目录，无法解析相对字体路径 %s", src)
	default:
		return os.ReadFile(filepath.Join(c.baseDir, src))
	}
}

// 按匹配优先级排列：extrabold 须先于 bold 判断。
var fontWeights = []struct {
	keyword string
	style   canvas.FontStyle
}{
	{"black", canvas.FontBlack},
	{"extrabold", canvas.FontExtraBold},
	{"semibold", canvas.FontSemiBold},
	{"demibold", canvas.FontSemiBold},
	{"bold", canvas.FontBold},
	{"medium", canvas.FontMedium},
	{"light", canvas.FontLight},
}

func parseFontStyle(style string) canvas.FontStyle {
	s := strings.ToLower(style)
	result := canvas.FontRegular
	for _, w := range fontWeights {
		if strings.Contains(s, w.keyword) {
			result = w.style
			break
		}
	}
	if strings.Contains(s, "italic") || strings.Contains(s, "oblique") {
		result |= canvas.FontItalic
	}
	return result
}
