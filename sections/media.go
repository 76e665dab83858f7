package sections

import (
	"errors"
	"image"
	"strings"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"

	"github.com/ByLCY/papyrus-cv/layout"
	"github.com/ByLCY/papyrus-cv/resume"
)

// 图片在布局结果中的资源键。
const (
	PhotoKey = "photo"
	QRKey    = "qr"
)

// qrPixels 是二维码栅格化后的边长（像素）。
const qrPixels = 256

// photo 解码照片并按原始比例放入 PhotoSize 见方的区域；失败时记录告警并返回 false。
func (f *formatter) photo(p resume.Personal) (layout.Block, bool) {
	if !p.HasPhoto() {
		return layout.Block{}, false
	}
	img, err := p.Image()
	if err != nil {
		f.warn(layout.WarnPhotoOmitted, "photo omitted", err)
		return layout.Block{}, false
	}
	w, h := f.theme.PhotoSize, f.theme.PhotoSize
	if bounds := img.Bounds(); bounds.Dx() > bounds.Dy() {
		h = w * float64(bounds.Dy()) / float64(bounds.Dx())
	} else {
		w = h * float64(bounds.Dx()) / float64(bounds.Dy())
	}
	b := layout.ImageBlock(PhotoKey, img, w, h)
	b.Align = "center"
	return b, true
}

// qrCode 在主题开启二维码且提供了链接时生成链接的二维码。
func (f *formatter) qrCode(link string) (layout.Block, bool) {
	link = strings.TrimSpace(link)
	if !f.theme.QRCode || link == "" {
		return layout.Block{}, false
	}
	img, err := EncodeQR(link, qrPixels)
	if err != nil {
		f.warn(layout.WarnQROmitted, "qr code omitted", err)
		return layout.Block{}, false
	}
	b := layout.ImageBlock(QRKey, img, f.theme.QRSize, f.theme.QRSize)
	b.Align = "center"
	return b.With(f.theme.ItemGap*2, 0), true
}

// EncodeQR 以中等纠错级别编码 content 并缩放为 size×size 像素的图片。
func EncodeQR(content string, size int) (image.Image, error) {
	if content == "" {
		return nil, errors.New("sections: empty qr content")
	}
	code, err := qr.Encode(content, qr.M, qr.Auto)
	if err != nil {
		return nil, err
	}
	return barcode.Scale(code, size, size)
}
