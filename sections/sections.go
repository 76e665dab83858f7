// Package sections 把简历内容转换为两条有序的布局块序列（主栏与侧栏）。
// 导出与预览使用同一份输出，两种视图展示的内容因此完全一致。
package sections

import (
	"log/slog"
	"strings"

	"github.com/ByLCY/papyrus-cv/layout"
	"github.com/ByLCY/papyrus-cv/resume"
)

// 各分节标题。
const (
	TitleSummary        = "Summary"
	TitleExperience     = "Experience"
	TitleEducation      = "Education"
	TitleCertifications = "Certifications"
	TitleReferences     = "References"
	TitleContact        = "Contact"
	TitlePersonal       = "Personal Details"
	TitleLanguages      = "Languages"
	TitleSkills         = "Skills"
)

// Options 配置格式化阶段。
type Options struct {
	Logger *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// Format 过滤空白条目后按固定顺序生成两栏内容：
// 主栏 Summary → Experience → Education → Certifications → References，
// 侧栏 照片 → Contact → Personal Details → Languages → Skills。
// 照片无法解码时记录告警并跳过，不占用任何空间。
func Format(doc resume.Document, theme *layout.Theme, opts Options) (layout.Blocks, []layout.Warning) {
	f := formatter{doc: doc.Filtered(), theme: theme, log: opts.logger()}
	return layout.Blocks{Sidebar: f.sidebar(), Main: f.main()}, f.warnings
}

type formatter struct {
	doc      resume.Document
	theme    *layout.Theme
	log      *slog.Logger
	warnings []layout.Warning
}

func (f *formatter) warn(code, msg string, err error) {
	f.warnings = append(f.warnings, layout.Warning{Code: code, Message: msg + ": " + err.Error()})
	f.log.Warn(msg, "code", code, "error", err)
}

// lh 是样式的单行高度。
func (f *formatter) lh(style layout.StyleName) float64 { return f.theme.LineHeight(style) }

// sectionTitle 生成带强调线的分节标题，要求与随后 follow 高度的内容同页。
func (f *formatter) sectionTitle(style layout.StyleName, text string, space, follow float64) layout.Block {
	h := layout.Heading(style, text)
	h.Rule = true
	return h.With(space, f.lh(style)+f.theme.RuleGap+follow)
}

func join(sep string, parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

func prefixed(prefix, v string) string {
	if strings.TrimSpace(v) == "" {
		return ""
	}
	return prefix + strings.TrimSpace(v)
}
