package resume

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidPath 表示字段路径语法错误。
var ErrInvalidPath = errors.New("resume: invalid field path")

type segment struct {
	name    string
	indexes []int
}

// parsePath 解析形如 "experiences[2].achievements[0]" 的表单字段路径。
func parsePath(path string) ([]segment, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidPath)
	}
	var segs []segment
	for _, raw := range strings.Split(path, ".") {
		seg, err := parseSegment(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidPath, path, err)
		}
		segs = append(segs, seg)
	}
	return segs, nil
}

func parseSegment(raw string) (segment, error) {
	seg := segment{name: raw}
	i := strings.IndexByte(raw, '[')
	if i == -1 {
		if raw == "" {
			return seg, errors.New("empty segment")
		}
		return seg, nil
	}
	seg.name = raw[:i]
	if seg.name == "" {
		return seg, errors.New("index without field name")
	}
	rest := raw[i:]
	for len(rest) > 0 {
		if rest[0] != '[' {
			return seg, fmt.Errorf("unexpected %q", rest)
		}
		end := strings.IndexByte(rest, ']')
		if end == -1 {
			return seg, errors.New("unclosed '['")
		}
		idx, err := strconv.Atoi(rest[1:end])
		if err != nil || idx < 0 {
			return seg, fmt.Errorf("bad index %q", rest[1:end])
		}
		seg.indexes = append(seg.indexes, idx)
		rest = rest[end+1:]
	}
	return seg, nil
}

// ApplyFieldPath 把表单控件的一次编辑应用到文档上，例如
// "personal.email"、"experiences[1].isCurrent"、"skillCategories[0].skills[2]"。
// value 可以是字符串、布尔值或数字。
func (d *Document) ApplyFieldPath(path string, value any) error {
	segs, err := parsePath(path)
	if err != nil {
		return err
	}
	s, err := stringValue(value)
	if err != nil {
		return fmt.Errorf("resume: %s: %w", path, err)
	}

	head := segs[0]
	switch head.name {
	case "summary", "references":
		if len(segs) != 1 || len(head.indexes) != 0 {
			return fmt.Errorf("%w: %q", ErrInvalidPath, path)
		}
		if head.name == "summary" {
			d.SetSummary(s)
		} else {
			d.SetReferences(s)
		}
		return nil
	case "personal":
		if len(segs) != 2 || len(head.indexes) != 0 || len(segs[1].indexes) != 0 {
			return fmt.Errorf("%w: %q", ErrInvalidPath, path)
		}
		return d.SetPersonal(segs[1].name, s)
	}

	i, leaf, err := indexedLeaf(path, segs)
	if err != nil {
		return err
	}
	switch head.name {
	case "experiences":
		if leaf.name == "achievements" {
			j, err := singleIndex(path, leaf)
			if err != nil {
				return err
			}
			return d.SetAchievement(i, j, s)
		}
		if err := noIndex(path, leaf); err != nil {
			return err
		}
		return d.SetExperienceField(i, leaf.name, s)
	case "educations":
		if err := noIndex(path, leaf); err != nil {
			return err
		}
		return d.SetEducationField(i, leaf.name, s)
	case "certifications":
		if err := noIndex(path, leaf); err != nil {
			return err
		}
		return d.SetCertificationField(i, leaf.name, s)
	case "languages":
		if err := noIndex(path, leaf); err != nil {
			return err
		}
		return d.SetLanguageField(i, leaf.name, s)
	case "skillCategories":
		switch leaf.name {
		case "label":
			if err := noIndex(path, leaf); err != nil {
				return err
			}
			return d.SetSkillCategoryLabel(i, s)
		case "skills":
			j, err := singleIndex(path, leaf)
			if err != nil {
				return err
			}
			return d.SetSkill(i, j, s)
		}
		return unknownField(fmt.Sprintf("skillCategories[%d]", i), leaf.name)
	}
	return unknownField("document", head.name)
}

// indexedLeaf 校验 "list[i].field[...]" 形态并返回 i 与末段。
func indexedLeaf(path string, segs []segment) (int, segment, error) {
	if len(segs) != 2 {
		return 0, segment{}, fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	i, err := singleIndex(path, segs[0])
	if err != nil {
		return 0, segment{}, err
	}
	return i, segs[1], nil
}

func singleIndex(path string, seg segment) (int, error) {
	if len(seg.indexes) != 1 {
		return 0, fmt.Errorf("%w: %q: %s needs exactly one index", ErrInvalidPath, path, seg.name)
	}
	return seg.indexes[0], nil
}

func noIndex(path string, seg segment) error {
	if len(seg.indexes) != 0 {
		return fmt.Errorf("%w: %q: %s is not a list", ErrInvalidPath, path, seg.name)
	}
	return nil
}

func stringValue(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case bool:
		return strconv.FormatBool(x), nil
	case int:
		return strconv.Itoa(x), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	case nil:
		return "", nil
	case fmt.Stringer:
		return x.String(), nil
	}
	return "", fmt.Errorf("unsupported value type %T", v)
}
