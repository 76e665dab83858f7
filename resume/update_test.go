package resume

import (
	"errors"
	"testing"
)

func TestExperienceOperations(t *testing.T) {
	var d Document
	i := d.AddExperience(Experience{Title: "Engineer"})
	if err := d.SetExperienceField(i, "employer", "Acme"); err != nil {
		t.Fatalf("SetExperienceField: %v", err)
	}
	if err := d.SetExperienceField(i, "isCurrent", "true"); err != nil {
		t.Fatalf("SetExperienceField(isCurrent): %v", err)
	}
	if err := d.AddAchievement(i, "first"); err != nil {
		t.Fatalf("AddAchievement: %v", err)
	}
	if err := d.AddAchievement(i, "second"); err != nil {
		t.Fatalf("AddAchievement: %v", err)
	}
	if err := d.SetAchievement(i, 1, "2nd"); err != nil {
		t.Fatalf("SetAchievement: %v", err)
	}
	if err := d.RemoveAchievement(i, 0); err != nil {
		t.Fatalf("RemoveAchievement: %v", err)
	}
	e := d.Experiences[0]
	if e.Employer != "Acme" || !e.IsCurrent || len(e.Achievements) != 1 || e.Achievements[0] != "2nd" {
		t.Fatalf("unexpected experience: %+v", e)
	}
	if err := d.RemoveExperience(0); err != nil || len(d.Experiences) != 0 {
		t.Fatalf("RemoveExperience: err=%v len=%d", err, len(d.Experiences))
	}
}

func TestRemoveKeepsOrder(t *testing.T) {
	var d Document
	for _, name := range []string{"a", "b", "c"} {
		d.AddLanguage(Language{Name: name})
	}
	if err := d.RemoveLanguage(1); err != nil {
		t.Fatalf("RemoveLanguage: %v", err)
	}
	if len(d.Languages) != 2 || d.Languages[0].Name != "a" || d.Languages[1].Name != "c" {
		t.Fatalf("unexpected languages: %+v", d.Languages)
	}
}

func TestIndexOutOfRange(t *testing.T) {
	var d Document
	d.AddSkillCategory(SkillCategory{Label: "Go", Skills: []string{"gin"}})
	checks := []error{
		d.RemoveExperience(0),
		d.SetAchievement(0, 0, "x"),
		d.SetEducationField(-1, "credential", "x"),
		d.RemoveCertification(3),
		d.SetLanguageField(0, "name", "x"),
		d.SetSkill(0, 5, "x"),
		d.RemoveSkill(1, 0),
		d.AddSkill(2, "x"),
	}
	for i, err := range checks {
		if !errors.Is(err, ErrIndexOutOfRange) {
			t.Fatalf("check %d: expected ErrIndexOutOfRange, got %v", i, err)
		}
	}
}

func TestUnknownField(t *testing.T) {
	var d Document
	d.AddExperience(Experience{})
	d.AddEducation(Education{})
	d.AddCertification(Certification{})
	d.AddLanguage(Language{})
	checks := []error{
		d.SetPersonal("age", "30"),
		d.SetExperienceField(0, "salary", "x"),
		d.SetEducationField(0, "gpa", "x"),
		d.SetCertificationField(0, "url", "x"),
		d.SetLanguageField(0, "proficiency", "x"),
	}
	for i, err := range checks {
		if !errors.Is(err, ErrUnknownField) {
			t.Fatalf("check %d: expected ErrUnknownField, got %v", i, err)
		}
	}
}

func TestSetExperienceCurrentRejectsBadBool(t *testing.T) {
	var d Document
	d.AddExperience(Experience{})
	if err := d.SetExperienceField(0, "isCurrent", "maybe"); err == nil {
		t.Fatalf("expected parse error")
	}
	if err := d.SetExperienceCurrent(0, true); err != nil || !d.Experiences[0].IsCurrent {
		t.Fatalf("SetExperienceCurrent: err=%v", err)
	}
}
