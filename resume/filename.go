package resume

import (
	"strings"
	"unicode"
)

// FileName 返回导出文件名 "<姓名>-Resume.pdf"。姓名保留空格，路径分隔符与控制字符被移除；
// 姓名为空时使用 "Candidate"。
func FileName(d Document) string {
	return FileNameExt(d, "pdf")
}

// FileNameExt 同 FileName，使用给定扩展名。
func FileNameExt(d Document, ext string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\' || r == ':':
			return -1
		case unicode.IsSpace(r):
			return ' '
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, d.Personal.Name)
	name = strings.Join(strings.Fields(name), " ")
	name = strings.Trim(name, ". ")
	if name == "" {
		name = "Candidate"
	}
	return name + "-Resume." + strings.TrimPrefix(ext, ".")
}

// Slug 返回适合作为对象存储键的小写名称，例如 "ada-lovelace"。
func Slug(d Document) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(d.Personal.Name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(r)
			continue
		}
		dash = true
	}
	if b.Len() == 0 {
		return "candidate"
	}
	return b.String()
}
