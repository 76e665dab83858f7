package renderer

import "github.com/ByLCY/papyrus-cv/layout"

// Renderer 将分页布局结果输出为最终文件，例如 PDF。
// Render 返回生成的二进制数据以及可能的错误。
type Renderer interface {
	Render(result *layout.Result) ([]byte, error)
}

// PreviewRenderer 将连续预览布局输出为屏幕可用的标记（例如 SVG）。
type PreviewRenderer interface {
	RenderPreview(pv *layout.Preview) ([]byte, error)
}
