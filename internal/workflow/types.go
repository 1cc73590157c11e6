// Copyright 2026 fanjia1024
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package workflow

import (
	"strings"

	perrors "medreport-probe/pkg/errors"
)

// ExplanationLevel 用户偏好的解释详略
type ExplanationLevel string

const (
	LevelSimple   ExplanationLevel = "simple"
	LevelDetailed ExplanationLevel = "detailed"
)

// ParseExplanationLevel 解析命令行传入的解释级别，空串返回 LevelSimple
func ParseExplanationLevel(s string) (ExplanationLevel, error) {
	switch ExplanationLevel(strings.ToLower(strings.TrimSpace(s))) {
	case "", LevelSimple:
		return LevelSimple, nil
	case LevelDetailed:
		return LevelDetailed, nil
	}
	return "", perrors.Wrapf(perrors.ErrInvalidArg, "explanation level %q (want simple|detailed)", s)
}

// StatusCompleted 服务端工作流完成时的状态值；其余状态（planning、awaiting_clarification 等）只做展示
const StatusCompleted = "completed"

// StepStatus 计划步骤状态；服务端词表不受本端约束，未知值按默认图标展示
type StepStatus string

const (
	StepCompleted StepStatus = "completed"
	StepRunning   StepStatus = "running"
	StepError     StepStatus = "error"
	StepPending   StepStatus = "pending"
)

// LabStatus 化验值相对参考范围的状态
type LabStatus string

const (
	LabNormal  LabStatus = "normal"
	LabHigh    LabStatus = "high"
	LabLow     LabStatus = "low"
	LabUnknown LabStatus = "unknown"
)

// UserPreferences analyze 请求中的用户偏好
type UserPreferences struct {
	ExplanationLevel ExplanationLevel `json:"explanationLevel"`
}

// AnalyzeRequest POST analyze 请求体；UserPreferences 为 nil 时不发送
type AnalyzeRequest struct {
	ReportText      string           `json:"reportText"`
	UserPreferences *UserPreferences `json:"userPreferences,omitempty"`
}

// MaxReportLength 服务端接受的报告最大字符数
const MaxReportLength = 50000

// Validate 发送前的本地校验，与服务端限制一致
func (r AnalyzeRequest) Validate() error {
	if strings.TrimSpace(r.ReportText) == "" {
		return perrors.Wrap(perrors.ErrInvalidArg, "report text is required")
	}
	if n := len([]rune(r.ReportText)); n > MaxReportLength {
		return perrors.Wrapf(perrors.ErrInvalidArg, "report text is %d characters, maximum is %d", n, MaxReportLength)
	}
	return nil
}

// PlanStep 计划中的单个步骤
type PlanStep struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Status      StepStatus `json:"status"`
	Error       string     `json:"error,omitempty"`
}

// Plan 服务端声明的执行计划，仅用于展示
type Plan struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Steps       []PlanStep `json:"steps"`
}

// Clarification 服务端提出的澄清问题
type Clarification struct {
	ID       string   `json:"id"`
	Question string   `json:"question"`
	Type     string   `json:"type,omitempty"`
	Options  []string `json:"options,omitempty"`
	Answered bool     `json:"answered,omitempty"`
	Answer   string   `json:"answer,omitempty"`
}

// Summary 化验值计数
type Summary struct {
	TotalTests   int `json:"totalTests"`
	NormalCount  int `json:"normalCount"`
	HighCount    int `json:"highCount"`
	LowCount     int `json:"lowCount"`
	UnknownCount int `json:"unknownCount"`
}

// PatientInfo 患者信息，字段缺失时各自跳过展示
type PatientInfo struct {
	Name     string `json:"name,omitempty"`
	Age      Number `json:"age"`
	Gender   string `json:"gender,omitempty"`
	TestDate string `json:"testDate,omitempty"`
}

// Empty 没有任何可展示字段
func (p *PatientInfo) Empty() bool {
	return p == nil || (p.Name == "" && !p.HasAge() && p.Gender == "")
}

// HasAge 年龄可解析且非 0
func (p *PatientInfo) HasAge() bool {
	return p.Age.Valid && p.Age.Value != 0
}

// ReferenceRange 参考范围
type ReferenceRange struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Unit string  `json:"unit"`
}

// LabValue 单项化验值
type LabValue struct {
	Name           string          `json:"name"`
	Value          Number          `json:"value"`
	Unit           string          `json:"unit"`
	Status         LabStatus       `json:"status"`
	Explanation    string          `json:"explanation,omitempty"`
	ReferenceRange *ReferenceRange `json:"referenceRange,omitempty"`
}

// Analysis generate 返回的完整分析结果
type Analysis struct {
	FormattedText   string       `json:"formattedText,omitempty"`
	Summary         *Summary     `json:"summary"`
	PatientInfo     *PatientInfo `json:"patientInfo"`
	LabValues       []LabValue   `json:"labValues"`
	Recommendations []string     `json:"recommendations"`
	Disclaimer      string       `json:"disclaimer"`
	ProcessingSteps []string     `json:"processingSteps,omitempty"`
}

// AnalysisDigest analyze 响应中内嵌的最终分析摘要（无需澄清时直接给出）
type AnalysisDigest struct {
	Summary              *Summary     `json:"summary"`
	PatientInfo          *PatientInfo `json:"patientInfo"`
	LabValuesCount       int          `json:"labValuesCount"`
	RecommendationsCount int          `json:"recommendationsCount"`
}

// AnalyzeResponse POST analyze 响应
type AnalyzeResponse struct {
	Success        bool            `json:"success"`
	FlowID         string          `json:"flowId"`
	Status         string          `json:"status"`
	ProcessingTime string          `json:"processingTime"`
	Plan           *Plan           `json:"plan"`
	Clarifications []Clarification `json:"clarifications"`
	FinalAnalysis  *AnalysisDigest `json:"finalAnalysis"`
}

// ClarifyRequest POST clarify 请求体
type ClarifyRequest struct {
	FlowID     string `json:"flowId"`
	QuestionID string `json:"questionId"`
	Answer     string `json:"answer"`
	UserEmail  string `json:"userEmail,omitempty"`
}

// ClarifyResponse POST clarify 响应
type ClarifyResponse struct {
	Success                 bool            `json:"success"`
	FlowID                  string          `json:"flowId"`
	Status                  string          `json:"status"`
	QuestionAnswered        string          `json:"questionAnswered"`
	Answer                  string          `json:"answer"`
	RemainingClarifications []Clarification `json:"remainingClarifications"`
}

// GenerateRequest POST generate 请求体
type GenerateRequest struct {
	FlowID string `json:"flowId"`
}

// OutputGenerated 服务端附带产出的标记
type OutputGenerated struct {
	PDFGenerated   bool `json:"pdfGenerated"`
	EmailSent      bool `json:"emailSent"`
	DriveFileSaved bool `json:"driveFileSaved"`
}

// GenerateMetadata 生成阶段的统计
type GenerateMetadata struct {
	TotalProcessingSteps   int `json:"totalProcessingSteps"`
	SuccessfulSteps        int `json:"successfulSteps"`
	ClarificationsAnswered int `json:"clarificationsAnswered"`
}

// GenerateResponse POST generate 响应
type GenerateResponse struct {
	Success         bool              `json:"success"`
	FlowID          string            `json:"flowId"`
	Analysis        *Analysis         `json:"analysis"`
	OutputGenerated *OutputGenerated  `json:"outputGenerated,omitempty"`
	CompletedAt     string            `json:"completedAt,omitempty"`
	Metadata        *GenerateMetadata `json:"metadata,omitempty"`
}

// FlowStatusResponse GET generate?flowId= 响应
type FlowStatusResponse struct {
	Success        bool            `json:"success"`
	FlowID         string          `json:"flowId"`
	Status         string          `json:"status"`
	Plan           *Plan           `json:"plan"`
	Clarifications []Clarification `json:"clarifications"`
	HasAnalysis    bool            `json:"hasAnalysis"`
}

// HealthResponse GET health 响应
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp,omitempty"`
}

// Pending 返回尚未回答的澄清问题
func Pending(qs []Clarification) []Clarification {
	var out []Clarification
	for _, q := range qs {
		if !q.Answered {
			out = append(out, q)
		}
	}
	return out
}
