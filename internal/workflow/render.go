package workflow

import (
	"fmt"
	"strconv"
	"strings"

	"medreport-probe/pkg/log"
)

// MaxDisplayedLabValues 最终结果中最多展示的化验值条数
const MaxDisplayedLabValues = 5

const defaultGlyph = "❓"

var stepGlyphs = map[StepStatus]string{
	StepCompleted: "✅",
	StepRunning:   "🔄",
	StepError:     "❌",
	StepPending:   "⏳",
}

var labGlyphs = map[LabStatus]string{
	LabNormal:  "✅",
	LabHigh:    "⬆️",
	LabLow:     "⬇️",
	LabUnknown: "❓",
}

// StepGlyph 步骤状态图标，未知状态返回 ❓
func StepGlyph(s StepStatus) string {
	if g, ok := stepGlyphs[s]; ok {
		return g
	}
	return defaultGlyph
}

// LabGlyph 化验值状态图标，未知状态返回 ❓
func LabGlyph(s LabStatus) string {
	if g, ok := labGlyphs[s]; ok {
		return g
	}
	return defaultGlyph
}

func rule(n int) string {
	return strings.Repeat("=", n)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func visibleLabValues(values []LabValue) []LabValue {
	if len(values) > MaxDisplayedLabValues {
		return values[:MaxDisplayedLabValues]
	}
	return values
}

func renderPlan(l *log.Logger, plan *Plan) {
	if plan == nil {
		return
	}
	l.Info(fmt.Sprintf("📋 Workflow Plan: %s", plan.Title))
	l.Info(fmt.Sprintf("📝 Description: %s", plan.Description))
	for i, step := range plan.Steps {
		l.Info(fmt.Sprintf("  %d. %s %s: %s", i+1, StepGlyph(step.Status), step.Name, step.Description))
		if step.Error != "" {
			l.Error(fmt.Sprintf("     ❌ Error: %s", step.Error))
		}
	}
}

func renderQuestion(l *log.Logger, q Clarification) {
	l.Info(fmt.Sprintf("  Q: %s", q.Question))
	for i, opt := range q.Options {
		l.Info(fmt.Sprintf("    %d. %s", i+1, opt))
	}
}

func renderSummary(l *log.Logger, s *Summary) {
	if s == nil {
		l.Warn("📊 ANALYSIS SUMMARY: summary unavailable")
		return
	}
	l.Info("📊 ANALYSIS SUMMARY:")
	l.Info(fmt.Sprintf("  • Total Tests: %d", s.TotalTests))
	l.Info(fmt.Sprintf("  • ✅ Normal: %d", s.NormalCount))
	l.Info(fmt.Sprintf("  • ⬆️ High: %d", s.HighCount))
	l.Info(fmt.Sprintf("  • ⬇️ Low: %d", s.LowCount))
	l.Info(fmt.Sprintf("  • ❓ Unknown: %d", s.UnknownCount))
}

func renderPatient(l *log.Logger, p *PatientInfo) {
	if p.Empty() {
		return
	}
	l.Info("👤 PATIENT INFORMATION:")
	if p.Name != "" {
		l.Info(fmt.Sprintf("  • Name: %s", p.Name))
	}
	if p.HasAge() {
		l.Info(fmt.Sprintf("  • Age: %s", p.Age))
	}
	if p.Gender != "" {
		l.Info(fmt.Sprintf("  • Gender: %s", p.Gender))
	}
}

// renderAnalysis 输出最终分析：摘要、患者信息、前 5 项化验值、建议、免责声明
func renderAnalysis(l *log.Logger, a *Analysis) {
	renderSummary(l, a.Summary)
	renderPatient(l, a.PatientInfo)

	if len(a.LabValues) > 0 {
		l.Info(fmt.Sprintf("🔬 LAB VALUES (showing first %d):", MaxDisplayedLabValues))
		for _, lab := range visibleLabValues(a.LabValues) {
			l.Info(fmt.Sprintf("  %s %s: %s %s", LabGlyph(lab.Status), lab.Name, lab.Value, lab.Unit))
			if lab.Explanation != "" {
				l.Info(fmt.Sprintf("     💡 %s", lab.Explanation))
			}
		}
	}

	if len(a.Recommendations) > 0 {
		l.Info("📝 RECOMMENDATIONS:")
		for i, rec := range a.Recommendations {
			l.Info(fmt.Sprintf("  %d. %s", i+1, rec))
		}
	}

	if a.Disclaimer != "" {
		l.Info("🔒 DISCLAIMER:")
		l.Info("  " + a.Disclaimer)
	}
}

// renderFlowStatus 输出 status 子命令结果
func renderFlowStatus(l *log.Logger, s *FlowStatusResponse) {
	l.Info(fmt.Sprintf("🔎 Flow %s", s.FlowID))
	l.Info(fmt.Sprintf("📊 Status: %s", s.Status))
	renderPlan(l, s.Plan)
	pending := Pending(s.Clarifications)
	if len(pending) > 0 {
		l.Info(fmt.Sprintf("❓ %d clarifications pending:", len(pending)))
		for _, q := range pending {
			l.Info(fmt.Sprintf("  [%s]", q.ID))
			renderQuestion(l, q)
		}
	}
	if s.HasAnalysis {
		l.Info("✅ Final analysis available")
	}
}
