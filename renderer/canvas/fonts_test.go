package canvasrenderer

import (
	"sync"
	"testing"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/papyrus-cv/layout"
)

func TestFaceCacheReusesFaces(t *testing.T) {
	c := newFaceCache("")
	a, err := c.face(bodyFont, 10, layout.Color{})
	if err != nil {
		t.Fatalf("face error: %v", err)
	}
	b, err := c.face(bodyFont, 10, layout.Color{})
	if err != nil {
		t.Fatalf("face error: %v", err)
	}
	if a != b {
		t.Fatalf("同一资源与字号应返回同一字形")
	}
	if other, _ := c.face(bodyFont, 12, layout.Color{}); other == a {
		t.Fatalf("不同字号不应共享字形")
	}
}

func TestFaceCacheRelativePathNeedsBaseDir(t *testing.T) {
	c := newFaceCache("")
	if _, err := c.fontBytes(layout.FontResource{Name: "X", Src: "fonts/x.ttf"}); err == nil {
		t.Fatalf("未设置 baseDir 时相对路径应报错")
	}
	if _, err := c.fontBytes(layout.FontResource{Name: "X"}); err == nil {
		t.Fatalf("缺少 src 时应报错")
	}
}

func TestMeasureWidthConcurrent(t *testing.T) {
	r := NewRenderer("")
	want, err := r.MeasureWidth("Concurrent measuring", bodyFont, 4)
	if err != nil {
		t.Fatalf("MeasureWidth error: %v", err)
	}
	var wg sync.WaitGroup
	errs := make(chan string, 16)
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := r.MeasureWidth("Concurrent measuring", bodyFont, 4)
			if err != nil || got != want {
				errs <- "并发度量结果不一致"
			}
		}()
	}
	wg.Wait()
	close(errs)
	for msg := range errs {
		t.Fatalf("%s", msg)
	}
}

func TestParseFontStyle(t *testing.T) {
	cases := map[string]canvas.FontStyle{
		"":                canvas.FontRegular,
		"bold":            canvas.FontBold,
		"ExtraBold":       canvas.FontExtraBold,
		"semibold italic": canvas.FontSemiBold | canvas.FontItalic,
		"italic":          canvas.FontRegular | canvas.FontItalic,
		"light":           canvas.FontLight,
	}
	for in, want := range cases {
		if got := parseFontStyle(in); got != want {
			t.Fatalf("parseFontStyle(%q) = %v, want %v", in, got, want)
		}
	}
}
