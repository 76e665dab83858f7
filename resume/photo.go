package resume

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"strings"

	// 照片支持的解码格式
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

const (
	// MaxPhotoBytes 是照片编码数据的大小上限。
	MaxPhotoBytes = 5 << 20
	// MaxPhotoPixels 是照片解码后的像素数上限。
	MaxPhotoPixels = 40_000_000
)

var (
	ErrPhotoTooLarge  = errors.New("resume: photo exceeds size limit")
	ErrPhotoTooMany   = errors.New("resume: photo exceeds pixel limit")
	ErrPhotoMalformed = errors.New("resume: photo is not a decodable image")
)

// PhotoBytes 返回照片的原始编码字节：优先 PhotoData，否则解码 base64（可带 data URL 前缀）。
// 未提供照片时返回 nil, nil。
func (p Personal) PhotoBytes() ([]byte, error) {
	if len(p.PhotoData) > 0 {
		return p.PhotoData, nil
	}
	s := strings.TrimSpace(p.Photo)
	if s == "" {
		return nil, nil
	}
	if strings.HasPrefix(s, "data:") {
		comma := strings.IndexByte(s, ',')
		if comma == -1 || !strings.HasSuffix(s[:comma], ";base64") {
			return nil, fmt.Errorf("%w: unsupported data URL", ErrPhotoMalformed)
		}
		s = s[comma+1:]
	}
	if base64.StdEncoding.DecodedLen(len(s)) > MaxPhotoBytes+3 {
		return nil, ErrPhotoTooLarge
	}
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		if data, err = base64.RawStdEncoding.DecodeString(s); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPhotoMalformed, err)
		}
	}
	return data, nil
}

// DecodePhoto 解码照片。先读取尺寸再完整解码，超限的图片不会被展开到内存。
func DecodePhoto(data []byte) (image.Image, error) {
	if len(data) > MaxPhotoBytes {
		return nil, ErrPhotoTooLarge
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPhotoMalformed, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: empty image", ErrPhotoMalformed)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPhotoPixels {
		return nil, ErrPhotoTooMany
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPhotoMalformed, err)
	}
	return img, nil
}

// Image 解码个人信息中的照片；未提供时返回 nil, nil。
func (p Personal) Image() (image.Image, error) {
	data, err := p.PhotoBytes()
	if err != nil || data == nil {
		return nil, err
	}
	return DecodePhoto(data)
}
