package sections

import (
	"strings"

	"github.com/ByLCY/papyrus-cv/layout"
	"github.com/ByLCY/papyrus-cv/resume"
)

func (f *formatter) main() []layout.Block {
	t := f.theme
	out := []layout.Block{layout.Heading(layout.StyleDisplayName, f.doc.Personal.DisplayName())}

	if s := strings.TrimSpace(f.doc.Summary); s != "" {
		out = append(out,
			f.sectionTitle(layout.StyleSection, TitleSummary, t.SectionGap, f.lh(layout.StyleBody)),
			layout.BodyText(layout.StyleBody, s),
		)
	}

	if len(f.doc.Experiences) > 0 {
		out = append(out, f.sectionTitle(layout.StyleSection, TitleExperience, t.SectionGap, f.entryHead()))
		for i, e := range f.doc.Experiences {
			out = append(out, f.experience(i, e)...)
		}
	}

	if len(f.doc.Educations) > 0 {
		out = append(out, f.sectionTitle(layout.StyleSection, TitleEducation, t.SectionGap, f.entryHead()))
		for i, e := range f.doc.Educations {
			out = append(out, f.education(i, e)...)
		}
	}

	if len(f.doc.Certifications) > 0 {
		out = append(out, f.sectionTitle(layout.StyleSection, TitleCertifications, t.SectionGap, f.lh(layout.StyleEntryTitle)))
		for i, c := range f.doc.Certifications {
			out = append(out, f.certification(i, c)...)
		}
	}

	if s := strings.TrimSpace(f.doc.References); s != "" {
		out = append(out,
			f.sectionTitle(layout.StyleSection, TitleReferences, t.SectionGap, f.lh(layout.StyleBody)),
			layout.BodyText(layout.StyleBody, s),
		)
	}
	return out
}

// entryHead 是条目标题、元信息行、正文前间距与首行正文的合计高度。
func (f *formatter) entryHead() float64 {
	return f.lh(layout.StyleEntryTitle) + f.lh(layout.StyleMeta) + f.theme.ItemGap + f.lh(layout.StyleBody)
}

// entryGap 是条目之间的间距；分节内第一个条目紧跟标题。
func (f *formatter) entryGap(i int) float64 {
	if i == 0 {
		return 0
	}
	return f.theme.EntryGap
}

func (f *formatter) experience(i int, e resume.Experience) []layout.Block {
	title, employer := strings.TrimSpace(e.Title), e.Employer
	if title == "" {
		// 雇主已作为标题，元信息行不再重复
		title, employer = strings.TrimSpace(e.Employer), ""
	}
	out := []layout.Block{
		layout.Heading(layout.StyleEntryTitle, title).With(f.entryGap(i), f.entryHead()),
		layout.KeyValueRow(layout.StyleMeta, layout.StyleDate, join(" — ", employer, e.Location), e.DateRange()),
	}
	if len(e.Achievements) > 0 {
		out = append(out, layout.BulletList(layout.StyleBody, e.Achievements).With(f.theme.ItemGap, 0))
	}
	return out
}

func (f *formatter) education(i int, e resume.Education) []layout.Block {
	title, institution := strings.TrimSpace(e.Credential), e.Institution
	if title == "" {
		title, institution = strings.TrimSpace(e.Institution), ""
	}
	out := []layout.Block{
		layout.Heading(layout.StyleEntryTitle, title).With(f.entryGap(i), f.entryHead()),
		layout.KeyValueRow(layout.StyleMeta, layout.StyleDate, join(" — ", institution, e.Location), resume.DateRange(e.Start, e.End)),
	}
	if s := prefixed("Score: ", e.Score); s != "" {
		out = append(out, layout.BodyText(layout.StyleMeta, s))
	}
	if s := strings.TrimSpace(e.Details); s != "" {
		out = append(out, layout.BodyText(layout.StyleBody, s).With(f.theme.ItemGap, 0))
	}
	return out
}

func (f *formatter) certification(i int, c resume.Certification) []layout.Block {
	out := []layout.Block{
		layout.Heading(layout.StyleEntryTitle, strings.TrimSpace(c.Name)).
			With(f.entryGap(i), f.lh(layout.StyleEntryTitle)+f.lh(layout.StyleMeta)),
	}
	meta := join(" · ", c.Issuer, prefixed("Obtained ", c.DateObtained), prefixed("Expires ", c.Expiry))
	if meta != "" {
		out = append(out, layout.BodyText(layout.StyleMeta, meta))
	}
	return out
}
