// Package resume 定义简历内容模型：结构化文档、类型化更新操作、空白条目过滤、
// 语言熟练度映射、照片解码与导出文件命名。
package resume

import "strings"

// PlaceholderName 是姓名为空时显示的占位文本。
const PlaceholderName = "Your Name"

// Document 是一份简历的完整内容，按值传递；每次渲染都从当前表单状态重新构造。
type Document struct {
	Personal        Personal        `json:"personal"`
	Summary         string          `json:"summary"`
	Experiences     []Experience    `json:"experiences"`
	Educations      []Education     `json:"educations"`
	Certifications  []Certification `json:"certifications"`
	Languages       []Language      `json:"languages"`
	SkillCategories []SkillCategory `json:"skillCategories"`
	References      string          `json:"references"`
}

// Personal 是个人信息，全部字段可选。
type Personal struct {
	Name           string `json:"name"`
	Nationality    string `json:"nationality"`
	BirthDate      string `json:"birthDate"`
	Gender         string `json:"gender"`
	MaritalStatus  string `json:"maritalStatus"`
	VisaStatus     string `json:"visaStatus"`
	DrivingLicense string `json:"drivingLicense"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Location       string `json:"location"`
	Link           string `json:"link"`
	// Photo 为 base64 编码的图片，可带 "data:image/png;base64," 前缀
	Photo string `json:"photo,omitempty"`
	// PhotoData 供进程内调用方直接传入原始字节，优先于 Photo
	PhotoData []byte `json:"-"`
}

// Experience 是一段工作经历，按录入顺序展示。
type Experience struct {
	Title        string   `json:"title"`
	Employer     string   `json:"employer"`
	Location     string   `json:"location"`
	Start        string   `json:"start"`
	End          string   `json:"end"`
	IsCurrent    bool     `json:"isCurrent"`
	Achievements []string `json:"achievements"`
}

// Education 是一段教育经历。
type Education struct {
	Credential  string `json:"credential"`
	Institution string `json:"institution"`
	Location    string `json:"location"`
	Start       string `json:"start"`
	End         string `json:"end"`
	Score       string `json:"score"`
	Details     string `json:"details"`
}

// Certification 是一项证书。
type Certification struct {
	Name         string `json:"name"`
	Issuer       string `json:"issuer"`
	DateObtained string `json:"dateObtained"`
	Expiry       string `json:"expiry"`
}

// Language 是一门语言及其熟练度名称。
type Language struct {
	Name  string `json:"name"`
	Level string `json:"level"`
}

// SkillCategory 是一组技能。
type SkillCategory struct {
	Label  string   `json:"label"`
	Skills []string `json:"skills"`
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

// DisplayName 返回去除首尾空白的姓名，为空时返回占位文本。
func (p Personal) DisplayName() string {
	if name := strings.TrimSpace(p.Name); name != "" {
		return name
	}
	return PlaceholderName
}

// HasPhoto 判断是否提供了照片数据。
func (p Personal) HasPhoto() bool {
	return len(p.PhotoData) > 0 || !blank(p.Photo)
}

// IsBlank 职位与雇主均为空的经历不参与渲染。
func (e Experience) IsBlank() bool { return blank(e.Title) && blank(e.Employer) }

// IsBlank 学位与院校均为空的教育经历不参与渲染。
func (e Education) IsBlank() bool { return blank(e.Credential) && blank(e.Institution) }

// IsBlank 名称为空的证书不参与渲染。
func (c Certification) IsBlank() bool { return blank(c.Name) }

// IsBlank 名称为空的语言不参与渲染。
func (l Language) IsBlank() bool { return blank(l.Name) }

// IsBlank 没有任何非空技能的分类不参与渲染。
func (s SkillCategory) IsBlank() bool { return len(nonBlank(s.Skills)) == 0 }

// DateRange 组合为 "start – end"；IsCurrent 时结束日期显示为 "Present"。
func (e Experience) DateRange() string {
	end := e.End
	if e.IsCurrent {
		end = "Present"
	}
	return DateRange(e.Start, end)
}

// DateRange 组合起止日期，任一端为空时只显示另一端。
func DateRange(start, end string) string {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	switch {
	case start != "" && end != "":
		return start + " – " + end
	case start != "":
		return start
	default:
		return end
	}
}

// Filtered 返回去除空白条目后的副本：空白经历、教育、证书、语言、技能分类被移除，
// 成就与技能列表中的空白项被移除。原文档不受影响。
func (d Document) Filtered() Document {
	out := d
	out.Experiences = nil
	for _, e := range d.Experiences {
		if e.IsBlank() {
			continue
		}
		e.Achievements = nonBlank(e.Achievements)
		out.Experiences = append(out.Experiences, e)
	}
	out.Educations = keep(d.Educations, Education.IsBlank)
	out.Certifications = keep(d.Certifications, Certification.IsBlank)
	out.Languages = keep(d.Languages, Language.IsBlank)
	out.SkillCategories = nil
	for _, s := range d.SkillCategories {
		if s.IsBlank() {
			continue
		}
		s.Skills = nonBlank(s.Skills)
		out.SkillCategories = append(out.SkillCategories, s)
	}
	return out
}

func keep[T any](items []T, isBlank func(T) bool) []T {
	var out []T
	for _, it := range items {
		if !isBlank(it) {
			out = append(out, it)
		}
	}
	return out
}

func nonBlank(items []string) []string {
	var out []string
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// IsEmpty 判断文档在过滤后是否没有任何可渲染内容（照片除外）。
func (d Document) IsEmpty() bool {
	f := d.Filtered()
	p := f.Personal
	for _, s := range []string{p.Name, p.Nationality, p.BirthDate, p.Gender, p.MaritalStatus, p.VisaStatus,
		p.DrivingLicense, p.Email, p.Phone, p.Location, p.Link, f.Summary, f.References} {
		if !blank(s) {
			return false
		}
	}
	return len(f.Experiences) == 0 && len(f.Educations) == 0 && len(f.Certifications) == 0 &&
		len(f.Languages) == 0 && len(f.SkillCategories) == 0
}
