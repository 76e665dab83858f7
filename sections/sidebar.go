package sections

import (
	"strings"

	"github.com/ByLCY/papyrus-cv/layout"
	"github.com/ByLCY/papyrus-cv/resume"
)

type field struct {
	label string
	value string
}

func (f *formatter) sidebar() []layout.Block {
	var out []layout.Block
	p := f.doc.Personal

	if b, ok := f.photo(p); ok {
		out = append(out, b)
	}

	contact := []field{
		{"Email", p.Email},
		{"Phone", p.Phone},
		{"Location", p.Location},
		{"Link", p.Link},
	}
	out = append(out, f.fieldGroup(TitleContact, contact, len(out) > 0)...)
	if b, ok := f.qrCode(p.Link); ok {
		out = append(out, b)
	}

	details := []field{
		{"Nationality", p.Nationality},
		{"Date of Birth", p.BirthDate},
		{"Gender", p.Gender},
		{"Marital Status", p.MaritalStatus},
		{"Visa Status", p.VisaStatus},
		{"Driving License", p.DrivingLicense},
	}
	out = append(out, f.fieldGroup(TitlePersonal, details, len(out) > 0)...)

	if len(f.doc.Languages) > 0 {
		out = append(out, f.sidebarTitle(TitleLanguages, len(out) > 0, f.languageHeight()))
		for _, l := range f.doc.Languages {
			out = append(out, f.language(l)...)
		}
	}

	if len(f.doc.SkillCategories) > 0 {
		follow := f.lh(layout.StyleSidebarLabel) + f.lh(layout.StyleSidebarBody)
		out = append(out, f.sidebarTitle(TitleSkills, len(out) > 0, follow))
		for i, s := range f.doc.SkillCategories {
			out = append(out, f.skillCategory(i, s)...)
		}
	}
	return out
}

func (f *formatter) sidebarTitle(text string, spaced bool, follow float64) layout.Block {
	space := 0.0
	if spaced {
		space = f.theme.SectionGap
	}
	return f.sectionTitle(layout.StyleSidebarTitle, text, space, follow)
}

// fieldGroup 输出 "标签 / 值" 成对的行，值可折行；整组为空时不输出标题。
func (f *formatter) fieldGroup(title string, fields []field, spaced bool) []layout.Block {
	pair := f.lh(layout.StyleSidebarLabel) + f.lh(layout.StyleSidebarBody)
	var out []layout.Block
	for _, fd := range fields {
		v := strings.TrimSpace(fd.value)
		if v == "" {
			continue
		}
		if len(out) == 0 {
			out = append(out, f.sidebarTitle(title, spaced, pair))
		}
		out = append(out,
			layout.Heading(layout.StyleSidebarLabel, fd.label).With(f.theme.ItemGap, pair),
			layout.BodyText(layout.StyleSidebarBody, v),
		)
	}
	return out
}

func (f *formatter) languageHeight() float64 {
	return f.lh(layout.StyleSidebarBody) + f.theme.ItemGap + f.theme.BarHeight
}

// language 输出 "名称 + 熟练度" 一行与下方的进度条。
func (f *formatter) language(l resume.Language) []layout.Block {
	level := strings.TrimSpace(l.Level)
	if p, ok := resume.ParseProficiency(level); ok {
		level = string(p)
	}
	return []layout.Block{
		layout.KeyValueRow(layout.StyleSidebarBody, layout.StyleSidebarLabel, strings.TrimSpace(l.Name), level).
			With(f.theme.ItemGap*2, f.languageHeight()),
		layout.ProgressBar(l.Fraction(), f.theme.BarHeight).With(f.theme.ItemGap, 0),
	}
}

func (f *formatter) skillCategory(i int, s resume.SkillCategory) []layout.Block {
	space := f.theme.ItemGap
	if i > 0 {
		space = f.theme.EntryGap
	}
	label := strings.TrimSpace(s.Label)
	var out []layout.Block
	if label != "" {
		out = append(out, layout.Heading(layout.StyleSidebarLabel, label).
			With(space, f.lh(layout.StyleSidebarLabel)+f.lh(layout.StyleSidebarBody)))
		space = f.theme.ItemGap
	}
	return append(out, layout.BulletList(layout.StyleSidebarBody, s.Skills).With(space, 0))
}
