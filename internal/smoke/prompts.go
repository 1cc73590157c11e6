package smoke

import "strings"

// BasicPrompt 基础功能检查的提示词
const BasicPrompt = "add 1 + 2"

// MedicalContext 格式化分析检查使用的化验报告
const MedicalContext = `Patient: John Doe, Age: 45
Test Date: 2025-01-15

LABORATORY RESULTS:
- Hemoglobin: 14.2 g/dL (Normal: 13.5-17.5)
- White Blood Cell Count: 7,200/μL (Normal: 4,500-11,000)
- Glucose (Fasting): 95 mg/dL (Normal: 70-100)
- Cholesterol Total: 220 mg/dL (Normal: <200)
- LDL Cholesterol: 145 mg/dL (Normal: <100)
- HDL Cholesterol: 38 mg/dL (Normal: >40 for men)

CLINICAL NOTES:
Patient presents with slightly elevated cholesterol levels.
Regular monitoring recommended.`

// AnalysisSections 要求模型输出的章节，顺序即输出顺序
var AnalysisSections = []struct {
	Heading string
	Hint    string
}{
	{"EXECUTIVE SUMMARY", "Brief overview of key findings"},
	{"KEY FINDINGS", "Detailed findings with explanations"},
	{"MEDICAL TERMINOLOGY EXPLAINED", "Explanation of complex medical terms found"},
	{"RECOMMENDATIONS", "Next steps and recommendations"},
	{"IMPORTANT NOTES", "Any warnings, disclaimers, or important considerations"},
}

// MedicalPrompt 用报告正文拼出结构化分析提示词
func MedicalPrompt(report string) string {
	var b strings.Builder
	b.WriteString("Analyze the following medical report and provide a comprehensive, well-structured analysis:\n\n")
	b.WriteString("Medical Report:\n")
	b.WriteString(report)
	b.WriteString("\n\nPlease provide analysis in the following structured format:\n")
	for _, s := range AnalysisSections {
		b.WriteString("\n## ")
		b.WriteString(s.Heading)
		b.WriteString("\n[")
		b.WriteString(s.Hint)
		b.WriteString("]\n")
	}
	b.WriteString("\nFormat the response with clear headings, bullet points, and structured information.")
	return b.String()
}
