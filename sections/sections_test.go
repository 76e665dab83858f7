package sections

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/png"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/ByLCY/papyrus-cv/layout"
	canvasrenderer "github.com/ByLCY/papyrus-cv/renderer/canvas"
	"github.com/ByLCY/papyrus-cv/resume"
	"github.com/ByLCY/papyrus-cv/theme"
)

var ignoreImages = cmpopts.IgnoreFields(layout.Block{}, "Image")

func fullDocument() resume.Document {
	return resume.Document{
		Personal: resume.Personal{
			Name:        "Ada Lovelace",
			Email:       "ada@example.com",
			Phone:       "+44 20 0000 0000",
			Link:        "https://example.com/ada",
			Nationality: "British",
		},
		Summary: "Mathematician and writer.",
		Experiences: []resume.Experience{{
			Title: "Analyst", Employer: "Analytical Engine Co.", Location: "London",
			Start: "1842", End: "1843", Achievements: []string{"Published notes", " ", "Wrote the first algorithm"},
		}},
		Educations:      []resume.Education{{Credential: "Private tutoring", Institution: "Home", Score: "A", Details: "Mathematics and logic."}},
		Certifications:  []resume.Certification{{Name: "Royal Society reader", Issuer: "Royal Society", Expiry: "Never"}},
		Languages:       []resume.Language{{Name: "English", Level: "native"}, {Name: "French", Level: "conversational"}},
		SkillCategories: []resume.SkillCategory{{Label: "Math", Skills: []string{"Analysis", ""}}, {Label: "Empty", Skills: []string{" "}}},
		References:      "Available on request.",
	}
}

func titles(blocks []layout.Block, style layout.StyleName) []string {
	var out []string
	for _, b := range blocks {
		if b.Kind == layout.BlockHeading && b.Style == style {
			out = append(out, b.Text)
		}
	}
	return out
}

func TestSectionOrder(t *testing.T) {
	blocks, warnings := Format(fullDocument(), theme.MustDefault(), Options{})
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %+v", warnings)
	}
	wantMain := []string{TitleSummary, TitleExperience, TitleEducation, TitleCertifications, TitleReferences}
	if diff := cmp.Diff(wantMain, titles(blocks.Main, layout.StyleSection)); diff != "" {
		t.Fatalf("main order mismatch (-want +got):\n%s", diff)
	}
	wantSidebar := []string{TitleContact, TitlePersonal, TitleLanguages, TitleSkills}
	if diff := cmp.Diff(wantSidebar, titles(blocks.Sidebar, layout.StyleSidebarTitle)); diff != "" {
		t.Fatalf("sidebar order mismatch (-want +got):\n%s", diff)
	}
	if blocks.Main[0].Text != "Ada Lovelace" || blocks.Main[0].Style != layout.StyleDisplayName {
		t.Fatalf("first main block should be the name: %+v", blocks.Main[0])
	}
}

func TestEmptySectionsOmitted(t *testing.T) {
	doc := resume.Document{
		Experiences:     []resume.Experience{{Location: "nowhere"}},
		SkillCategories: []resume.SkillCategory{{Label: "Blank", Skills: []string{" "}}},
		Languages:       []resume.Language{{Level: "Native"}},
	}
	blocks, _ := Format(doc, theme.MustDefault(), Options{})
	if len(blocks.Main) != 1 || blocks.Main[0].Text != resume.PlaceholderName {
		t.Fatalf("expected only the placeholder name, got %+v", blocks.Main)
	}
	if len(blocks.Sidebar) != 0 {
		t.Fatalf("expected empty sidebar, got %+v", blocks.Sidebar)
	}
}

func TestExperienceBlocks(t *testing.T) {
	th := theme.MustDefault()
	doc := resume.Document{Experiences: []resume.Experience{
		{Title: "Engineer", Employer: "Acme", Location: "Berlin", Start: "2020", IsCurrent: true, Achievements: []string{"Built things"}},
		{Employer: "Initech", Location: "Austin", Start: "2018", End: "2019"},
	}}
	blocks, _ := Format(doc, th, Options{})
	head := th.LineHeight(layout.StyleEntryTitle) + th.LineHeight(layout.StyleMeta) + th.ItemGap + th.LineHeight(layout.StyleBody)
	want := []layout.Block{
		layout.Heading(layout.StyleEntryTitle, "Engineer").With(0, head),
		layout.KeyValueRow(layout.StyleMeta, layout.StyleDate, "Acme — Berlin", "2020 – Present"),
		layout.BulletList(layout.StyleBody, []string{"Built things"}).With(th.ItemGap, 0),
		layout.Heading(layout.StyleEntryTitle, "Initech").With(th.EntryGap, head),
		// 雇主作为标题时元信息行只保留地点
		layout.KeyValueRow(layout.StyleMeta, layout.StyleDate, "Austin", "2018 – 2019"),
	}
	// 跳过姓名与分节标题
	if diff := cmp.Diff(want, blocks.Main[2:]); diff != "" {
		t.Fatalf("experience blocks mismatch (-want +got):\n%s", diff)
	}
}

func TestEducationAndCertificationLines(t *testing.T) {
	blocks, _ := Format(fullDocument(), theme.MustDefault(), Options{})
	var texts []string
	for _, b := range blocks.Main {
		if b.Kind == layout.BlockBodyText && b.Style == layout.StyleMeta {
			texts = append(texts, b.Text)
		}
	}
	want := []string{"Score: A", "Royal Society · Expires Never"}
	if diff := cmp.Diff(want, texts); diff != "" {
		t.Fatalf("meta lines mismatch (-want +got):\n%s", diff)
	}
}

func TestLanguageBars(t *testing.T) {
	blocks, _ := Format(fullDocument(), theme.MustDefault(), Options{})
	var rows []string
	var fractions []float64
	for _, b := range blocks.Sidebar {
		switch b.Kind {
		case layout.BlockKeyValueRow:
			rows = append(rows, b.Text+"="+b.Value)
		case layout.BlockProgressBar:
			fractions = append(fractions, b.Fraction)
		}
	}
	if diff := cmp.Diff([]string{"English=Native", "French=conversational"}, rows); diff != "" {
		t.Fatalf("language rows mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{1.0, 0.5}, fractions); diff != "" {
		t.Fatalf("fractions mismatch (-want +got):\n%s", diff)
	}
}

func TestSkillsSkipBlankCategories(t *testing.T) {
	blocks, _ := Format(fullDocument(), theme.MustDefault(), Options{})
	var lists [][]string
	for _, b := range blocks.Sidebar {
		if b.Kind == layout.BlockBulletList {
			lists = append(lists, b.Items)
		}
	}
	if diff := cmp.Diff([][]string{{"Analysis"}}, lists); diff != "" {
		t.Fatalf("skill lists mismatch (-want +got):\n%s", diff)
	}
	if got := titles(blocks.Sidebar, layout.StyleSidebarLabel); cmp.Diff([]string{"Email", "Phone", "Link", "Nationality", "Math"}, got) != "" {
		t.Fatalf("unexpected sidebar labels: %v", got)
	}
}

func TestPhotoOmittedOnFailure(t *testing.T) {
	doc := fullDocument()
	doc.Personal.Photo = "bm90IGFuIGltYWdl" // "not an image"
	blocks, warnings := Format(doc, theme.MustDefault(), Options{})
	if len(warnings) != 1 || warnings[0].Code != layout.WarnPhotoOmitted {
		t.Fatalf("expected one photo warning, got %+v", warnings)
	}
	for _, b := range blocks.Sidebar {
		if b.Kind == layout.BlockImage {
			t.Fatalf("photo should be omitted, got %+v", b)
		}
	}
	if blocks.Sidebar[0].Text != TitleContact || blocks.Sidebar[0].SpaceBefore != 0 {
		t.Fatalf("contact should start the sidebar without spacing: %+v", blocks.Sidebar[0])
	}
}

func TestPhotoPrecedesContact(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 40, 20))); err != nil {
		t.Fatalf("encode: %v", err)
	}
	th := theme.MustDefault()
	doc := fullDocument()
	doc.Personal.Photo = base64.StdEncoding.EncodeToString(buf.Bytes())
	blocks, warnings := Format(doc, th, Options{})
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %+v", warnings)
	}
	photo := blocks.Sidebar[0]
	if photo.Kind != layout.BlockImage || photo.ImageKey != PhotoKey {
		t.Fatalf("first sidebar block should be the photo: %+v", photo)
	}
	if photo.Width != th.PhotoSize || photo.Height != th.PhotoSize/2 {
		t.Fatalf("photo should keep its aspect ratio: %gx%g", photo.Width, photo.Height)
	}
	if blocks.Sidebar[1].Text != TitleContact || blocks.Sidebar[1].SpaceBefore != th.SectionGap {
		t.Fatalf("contact should follow the photo: %+v", blocks.Sidebar[1])
	}
}

func TestQRCodeFollowsContact(t *testing.T) {
	th := theme.MustDefault()
	th.QRCode = true
	blocks, warnings := Format(fullDocument(), th, Options{})
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %+v", warnings)
	}
	idx := -1
	for i, b := range blocks.Sidebar {
		if b.Kind == layout.BlockImage && b.ImageKey == QRKey {
			idx = i
		}
	}
	if idx == -1 {
		t.Fatalf("expected a qr block")
	}
	if next := blocks.Sidebar[idx+1]; next.Text != TitlePersonal {
		t.Fatalf("qr should precede personal details, next=%+v", next)
	}
	img := blocks.Sidebar[idx].Image
	if b := img.Bounds(); b.Dx() != qrPixels || b.Dy() != qrPixels {
		t.Fatalf("unexpected qr size %v", b)
	}

	th.QRCode = false
	blocks, _ = Format(fullDocument(), th, Options{})
	for _, b := range blocks.Sidebar {
		if b.ImageKey == QRKey {
			t.Fatalf("qr should be disabled")
		}
	}
}

func TestFormatIsDeterministic(t *testing.T) {
	th := theme.MustDefault()
	th.QRCode = true
	a, _ := Format(fullDocument(), th, Options{})
	b, _ := Format(fullDocument(), th, Options{})
	if diff := cmp.Diff(a, b, ignoreImages); diff != "" {
		t.Fatalf("Format not deterministic (-first +second):\n%s", diff)
	}
}

// TestEntryHeadKeepsFirstBullet 剩余空间落在正文前间距之内时，标题与元信息行随首条要点一起换页。
func TestEntryHeadKeepsFirstBullet(t *testing.T) {
	th := theme.MustDefault()
	doc := resume.Document{Experiences: []resume.Experience{
		{Title: "Engineer", Employer: "Acme", Start: "2020", End: "2021", Achievements: []string{"Built things"}},
	}}
	blocks, _ := Format(doc, th, Options{})
	entry := blocks.Main[2:] // 跳过姓名与分节标题

	lines := th.LineHeight(layout.StyleEntryTitle) + th.LineHeight(layout.StyleMeta) + th.LineHeight(layout.StyleBody)
	filler := th.Usable() - lines - th.ItemGap/2
	column := append([]layout.Block{layout.Divider(filler)}, entry...)

	res, err := layout.Paginate(th, layout.Blocks{Main: column}, layout.BuildOptions{Typesetter: canvasrenderer.NewRenderer("")})
	if err != nil {
		t.Fatalf("Paginate: %v", err)
	}
	pageOf := func(content string) int {
		for i, pg := range res.Pages {
			for _, tb := range pg.Texts {
				if tb.Content == content {
					return i
				}
			}
		}
		t.Fatalf("未找到文本 %q", content)
		return -1
	}
	title, bullet := pageOf("Engineer"), pageOf("Built things")
	if title != bullet || title != 1 {
		t.Fatalf("标题在第 %d 页，首条要点在第 %d 页，期望都在第 1 页", title, bullet)
	}
}
