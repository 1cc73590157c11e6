package workflow

// SampleReport 基础场景使用的完整化验报告
const SampleReport = `COMPREHENSIVE LABORATORY REPORT
Patient: John Doe, Age: 45, Male
Date of Collection: 2025-08-21
Ordering Physician: Dr. Sarah Johnson

COMPLETE BLOOD COUNT (CBC):
- Hemoglobin: 13.8 g/dL
- Hematocrit: 41.2%
- Red Blood Cell Count: 4.8 × 10⁶/μL
- White Blood Cell Count: 7,200/μL
- Platelet Count: 285 × 10³/μL

COMPREHENSIVE METABOLIC PANEL (CMP):
- Glucose (Fasting): 110 mg/dL
- Sodium: 141 mEq/L
- Potassium: 4.2 mEq/L
- Chloride: 102 mEq/L
- BUN: 18 mg/dL
- Creatinine: 1.1 mg/dL

LIPID PANEL:
- Total Cholesterol: 235 mg/dL
- LDL Cholesterol: 155 mg/dL
- HDL Cholesterol: 38 mg/dL
- Triglycerides: 210 mg/dL

ADDITIONAL TESTS:
- Vitamin D (25-OH): 22 ng/mL
- Vitamin B12: 450 pg/mL
- TSH: 2.8 mIU/L
- ALT: 35 U/L
- AST: 28 U/L

CLINICAL NOTES:
Patient presents with slightly elevated glucose and cholesterol levels.
Vitamin D deficiency noted. Follow-up recommended in 3 months.`

// AbnormalReport 含多项异常值的报告
const AbnormalReport = `Patient: Jane Smith, Female, 28 years old
Test Date: 2025-08-20

Lab Results:
- Hemoglobin: 10.2 g/dL
- Total Cholesterol: 195 mg/dL
- HDL: 35 mg/dL
- Glucose: 88 mg/dL
- Vitamin D: 15 ng/mL
- TSH: 6.2 mIU/L
- Iron: 45 μg/dL

Notes: Patient reports fatigue and cold intolerance.`

// ProbeReportText 端点探测时提交的最小报告
const ProbeReportText = "Test glucose: 95 mg/dL"
