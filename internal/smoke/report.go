package smoke

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// 报告中使用的状态值
const (
	StatusPassed    = "passed"
	StatusFailed    = "failed"
	StatusCompleted = "completed"
)

// TestEntry 报告中的单项测试
type TestEntry struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	Description string `json:"description"`
	DurationMS  int64  `json:"duration_ms"`
}

// IntegrationTest 报告主体
type IntegrationTest struct {
	Status        string      `json:"status"`
	Tests         []TestEntry `json:"tests"`
	OverallStatus string      `json:"overall_status"`
}

// Report 写入磁盘的测试报告
type Report struct {
	Timestamp   string          `json:"timestamp"`
	Integration IntegrationTest `json:"portia_integration_test"`
}

// NewReport 由检查结果构建报告；overall 为所有检查结果的与
func NewReport(now time.Time, results []CheckResult) *Report {
	r := &Report{
		Timestamp: now.Format(time.RFC3339Nano),
		Integration: IntegrationTest{
			Status: StatusCompleted,
			Tests:  make([]TestEntry, 0, len(results)),
		},
	}
	passed := true
	for _, res := range results {
		status := StatusFailed
		if res.Passed {
			status = StatusPassed
		} else {
			passed = false
		}
		r.Integration.Tests = append(r.Integration.Tests, TestEntry{
			Name:        res.Name,
			Status:      status,
			Description: res.Description,
			DurationMS:  res.Duration.Milliseconds(),
		})
	}
	r.Integration.OverallStatus = StatusFailed
	if passed {
		r.Integration.OverallStatus = StatusPassed
	}
	return r
}

// Passed overall_status 是否为 passed
func (r *Report) Passed() bool {
	return r.Integration.OverallStatus == StatusPassed
}

// WriteReport 以两空格缩进写入 path，覆盖已有内容
func WriteReport(path string, r *Report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return nil
}

// ReadReport 读取 WriteReport 写出的报告
func ReadReport(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report %s: %w", path, err)
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse report %s: %w", path, err)
	}
	return &r, nil
}
