package resume

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrIndexOutOfRange 表示更新操作引用了不存在的条目。
	ErrIndexOutOfRange = errors.New("resume: index out of range")
	// ErrUnknownField 表示更新操作引用了未知字段。
	ErrUnknownField = errors.New("resume: unknown field")
)

func outOfRange(what string, i, n int) error {
	return fmt.Errorf("%w: %s[%d] (len %d)", ErrIndexOutOfRange, what, i, n)
}

func unknownField(what, field string) error {
	return fmt.Errorf("%w: %s.%s", ErrUnknownField, what, field)
}

func removeAt[T any](items []T, i int) []T {
	return append(items[:i:i], items[i+1:]...)
}

// SetSummary 设置个人简介。
func (d *Document) SetSummary(s string) { d.Summary = s }

// SetReferences 设置推荐人说明。
func (d *Document) SetReferences(s string) { d.References = s }

// SetPersonal 按 JSON 字段名设置个人信息。
func (d *Document) SetPersonal(field, value string) error {
	p, ok := d.Personal.field(field)
	if !ok {
		return unknownField("personal", field)
	}
	*p = value
	return nil
}

func (p *Personal) field(name string) (*string, bool) {
	switch name {
	case "name":
		return &p.Name, true
	case "nationality":
		return &p.Nationality, true
	case "birthDate":
		return &p.BirthDate, true
	case "gender":
		return &p.Gender, true
	case "maritalStatus":
		return &p.MaritalStatus, true
	case "visaStatus":
		return &p.VisaStatus, true
	case "drivingLicense":
		return &p.DrivingLicense, true
	case "email":
		return &p.Email, true
	case "phone":
		return &p.Phone, true
	case "location":
		return &p.Location, true
	case "link":
		return &p.Link, true
	case "photo":
		return &p.Photo, true
	}
	return nil, false
}

// AddExperience 追加一段经历并返回其下标。
func (d *Document) AddExperience(e Experience) int {
	d.Experiences = append(d.Experiences, e)
	return len(d.Experiences) - 1
}

// RemoveExperience 删除第 i 段经历，其余条目保持相对顺序。
func (d *Document) RemoveExperience(i int) error {
	if i < 0 || i >= len(d.Experiences) {
		return outOfRange("experiences", i, len(d.Experiences))
	}
	d.Experiences = removeAt(d.Experiences, i)
	return nil
}

// SetExperienceField 设置第 i 段经历的字段；isCurrent 接受 "true"/"false"。
func (d *Document) SetExperienceField(i int, field, value string) error {
	if i < 0 || i >= len(d.Experiences) {
		return outOfRange("experiences", i, len(d.Experiences))
	}
	e := &d.Experiences[i]
	if field == "isCurrent" {
		v, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("resume: experiences[%d].isCurrent: %w", i, err)
		}
		e.IsCurrent = v
		return nil
	}
	var p *string
	switch field {
	case "title":
		p = &e.Title
	case "employer":
		p = &e.Employer
	case "location":
		p = &e.Location
	case "start":
		p = &e.Start
	case "end":
		p = &e.End
	default:
		return unknownField(fmt.Sprintf("experiences[%d]", i), field)
	}
	*p = value
	return nil
}

// SetExperienceCurrent 标记第 i 段经历是否为当前职位。
func (d *Document) SetExperienceCurrent(i int, current bool) error {
	if i < 0 || i >= len(d.Experiences) {
		return outOfRange("experiences", i, len(d.Experiences))
	}
	d.Experiences[i].IsCurrent = current
	return nil
}

// AddAchievement 向第 i 段经历追加一条成就。
func (d *Document) AddAchievement(i int, text string) error {
	if i < 0 || i >= len(d.Experiences) {
		return outOfRange("experiences", i, len(d.Experiences))
	}
	d.Experiences[i].Achievements = append(d.Experiences[i].Achievements, text)
	return nil
}

// SetAchievement 修改第 i 段经历的第 j 条成就。
func (d *Document) SetAchievement(i, j int, text string) error {
	if i < 0 || i >= len(d.Experiences) {
		return outOfRange("experiences", i, len(d.Experiences))
	}
	a := d.Experiences[i].Achievements
	if j < 0 || j >= len(a) {
		return outOfRange(fmt.Sprintf("experiences[%d].achievements", i), j, len(a))
	}
	a[j] = text
	return nil
}

// RemoveAchievement 删除第 i 段经历的第 j 条成就。
func (d *Document) RemoveAchievement(i, j int) error {
	if i < 0 || i >= len(d.Experiences) {
		return outOfRange("experiences", i, len(d.Experiences))
	}
	a := d.Experiences[i].Achievements
	if j < 0 || j >= len(a) {
		return outOfRange(fmt.Sprintf("experiences[%d].achievements", i), j, len(a))
	}
	d.Experiences[i].Achievements = removeAt(a, j)
	return nil
}

// AddEducation 追加一段教育经历并返回其下标。
func (d *Document) AddEducation(e Education) int {
	d.Educations = append(d.Educations, e)
	return len(d.Educations) - 1
}

// RemoveEducation 删除第 i 段教育经历。
func (d *Document) RemoveEducation(i int) error {
	if i < 0 || i >= len(d.Educations) {
		return outOfRange("educations", i, len(d.Educations))
	}
	d.Educations = removeAt(d.Educations, i)
	return nil
}

// SetEducationField 设置第 i 段教育经历的字段。
func (d *Document) SetEducationField(i int, field, value string) error {
	if i < 0 || i >= len(d.Educations) {
		return outOfRange("educations", i, len(d.Educations))
	}
	e := &d.Educations[i]
	var p *string
	switch field {
	case "credential":
		p = &e.Credential
	case "institution":
		p = &e.Institution
	case "location":
		p = &e.Location
	case "start":
		p = &e.Start
	case "end":
		p = &e.End
	case "score":
		p = &e.Score
	case "details":
		p = &e.Details
	default:
		return unknownField(fmt.Sprintf("educations[%d]", i), field)
	}
	*p = value
	return nil
}

// AddCertification 追加一项证书并返回其下标。
func (d *Document) AddCertification(c Certification) int {
	d.Certifications = append(d.Certifications, c)
	return len(d.Certifications) - 1
}

// RemoveCertification 删除第 i 项证书。
func (d *Document) RemoveCertification(i int) error {
	if i < 0 || i >= len(d.Certifications) {
		return outOfRange("certifications", i, len(d.Certifications))
	}
	d.Certifications = removeAt(d.Certifications, i)
	return nil
}

// SetCertificationField 设置第 i 项证书的字段。
func (d *Document) SetCertificationField(i int, field, value string) error {
	if i < 0 || i >= len(d.Certifications) {
		return outOfRange("certifications", i, len(d.Certifications))
	}
	c := &d.Certifications[i]
	var p *string
	switch field {
	case "name":
		p = &c.Name
	case "issuer":
		p = &c.Issuer
	case "dateObtained":
		p = &c.DateObtained
	case "expiry":
		p = &c.Expiry
	default:
		return unknownField(fmt.Sprintf("certifications[%d]", i), field)
	}
	*p = value
	return nil
}

// AddLanguage 追加一门语言并返回其下标。
func (d *Document) AddLanguage(l Language) int {
	d.Languages = append(d.Languages, l)
	return len(d.Languages) - 1
}

// RemoveLanguage 删除第 i 门语言。
func (d *Document) RemoveLanguage(i int) error {
	if i < 0 || i >= len(d.Languages) {
		return outOfRange("languages", i, len(d.Languages))
	}
	d.Languages = removeAt(d.Languages, i)
	return nil
}

// SetLanguageField 设置第 i 门语言的 name 或 level。
func (d *Document) SetLanguageField(i int, field, value string) error {
	if i < 0 || i >= len(d.Languages) {
		return outOfRange("languages", i, len(d.Languages))
	}
	switch field {
	case "name":
		d.Languages[i].Name = value
	case "level":
		d.Languages[i].Level = value
	default:
		return unknownField(fmt.Sprintf("languages[%d]", i), field)
	}
	return nil
}

// AddSkillCategory 追加一个技能分类并返回其下标。
func (d *Document) AddSkillCategory(s SkillCategory) int {
	d.SkillCategories = append(d.SkillCategories, s)
	return len(d.SkillCategories) - 1
}

// RemoveSkillCategory 删除第 i 个技能分类。
func (d *Document) RemoveSkillCategory(i int) error {
	if i < 0 || i >= len(d.SkillCategories) {
		return outOfRange("skillCategories", i, len(d.SkillCategories))
	}
	d.SkillCategories = removeAt(d.SkillCategories, i)
	return nil
}

// SetSkillCategoryLabel 修改第 i 个技能分类的标题。
func (d *Document) SetSkillCategoryLabel(i int, label string) error {
	if i < 0 || i >= len(d.SkillCategories) {
		return outOfRange("skillCategories", i, len(d.SkillCategories))
	}
	d.SkillCategories[i].Label = label
	return nil
}

// AddSkill 向第 i 个分类追加一项技能。
func (d *Document) AddSkill(i int, skill string) error {
	if i < 0 || i >= len(d.SkillCategories) {
		return outOfRange("skillCategories", i, len(d.SkillCategories))
	}
	d.SkillCategories[i].Skills = append(d.SkillCategories[i].Skills, skill)
	return nil
}

// SetSkill 修改第 i 个分类的第 j 项技能。
func (d *Document) SetSkill(i, j int, skill string) error {
	if i < 0 || i >= len(d.SkillCategories) {
		return outOfRange("skillCategories", i, len(d.SkillCategories))
	}
	s := d.SkillCategories[i].Skills
	if j < 0 || j >= len(s) {
		return outOfRange(fmt.Sprintf("skillCategories[%d].skills", i), j, len(s))
	}
	s[j] = skill
	return nil
}

// RemoveSkill 删除第 i 个分类的第 j 项技能。
func (d *Document) RemoveSkill(i, j int) error {
	if i < 0 || i >= len(d.SkillCategories) {
		return outOfRange("skillCategories", i, len(d.SkillCategories))
	}
	s := d.SkillCategories[i].Skills
	if j < 0 || j >= len(s) {
		return outOfRange(fmt.Sprintf("skillCategories[%d].skills", i), j, len(s))
	}
	d.SkillCategories[i].Skills = removeAt(s, j)
	return nil
}
