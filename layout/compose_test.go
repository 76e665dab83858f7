package layout

import (
	"strings"
	"testing"
)

// TestKeyValueLongValueWraps 过长的右侧值在自身区域内折行，左右文本框互不重叠。
func TestKeyValueLongValueWraps(t *testing.T) {
	theme := testTheme()
	c := newComposer(theme, stubTypesetter{}, theme.MainWidth(), DebugOptions{})
	cases := []struct{ key, value string }{
		{"Analytical Engines Limited — London", "September 2019 (initial contract period) – December 2023 (extended engagement)"},
		{"Acme Corp — Berlin", "2019 – Present"},
		{words(40), "March 2001 – June 2004"},
	}
	for _, tc := range cases {
		units, err := c.compose(KeyValueRow(StyleMeta, StyleDate, tc.key, tc.value))
		if err != nil {
			t.Fatalf("compose: %v", err)
		}
		if len(units) != 1 || len(units[0].layer.Texts) != 2 {
			t.Fatalf("期望一个含左右两个文本框的单元: %+v", units)
		}
		key, value := units[0].layer.Texts[0], units[0].layer.Texts[1]
		if key.X+key.Width > value.X+1e-9 {
			t.Fatalf("%q: 左侧 [%g, %g] 与右侧起点 %g 重叠", tc.value, key.X, key.X+key.Width, value.X)
		}
		if value.X+value.Width > c.width+1e-9 {
			t.Fatalf("%q: 右侧文本框越出栏宽", tc.value)
		}
		for _, tb := range []TextBox{key, value} {
			for _, ln := range tb.Lines {
				if ln.Width > tb.Width+1e-9 && strings.Contains(ln.Content, " ") {
					t.Fatalf("行 %q 宽 %g 超出文本框宽度 %g", ln.Content, ln.Width, tb.Width)
				}
			}
		}
		if want := max(key.Height, value.Height); units[0].height != want {
			t.Fatalf("单元高度 = %g, 期望 %g", units[0].height, want)
		}
	}
}

// TestKeyValueRowPiecesPairLines 拆分后的逐行单元按行号配对左右文本。
func TestKeyValueRowPiecesPairLines(t *testing.T) {
	theme := testTheme()
	c := newComposer(theme, stubTypesetter{}, theme.MainWidth(), DebugOptions{})
	units, err := c.compose(KeyValueRow(StyleMeta, StyleDate, "Short", words(40)))
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	value := units[0].layer.Texts[1]
	pieces := units[0].pieces
	if len(pieces) != len(value.Lines) {
		t.Fatalf("拆分单元数 = %d, 期望 %d", len(pieces), len(value.Lines))
	}
	if len(pieces[0].layer.Texts) != 2 || len(pieces[1].layer.Texts) != 1 {
		t.Fatalf("首行应含左右两段，其后只有右侧: %+v", pieces)
	}
}
