package smoke

import (
	"context"
	"strings"
	"time"

	"medreport-probe/pkg/config"
	"medreport-probe/pkg/log"
	"medreport-probe/pkg/metrics"
	"medreport-probe/pkg/redaction"
	"medreport-probe/pkg/tracing"
	"medreport-probe/pkg/utils"
)

// 未配置时的单次调用上限
const (
	DefaultBasicTimeout    = 30 * time.Second
	DefaultAnalysisTimeout = 60 * time.Second
)

// CheckResult 单项检查结果
type CheckResult struct {
	Name        string
	Description string
	Passed      bool
	Duration    time.Duration
}

// Suite 两项冒烟检查与报告生成
type Suite struct {
	runner *Runner
	logger *log.Logger
	cfg    config.SmokeConfig
	now    func() time.Time
	redact *redaction.Redactor
}

// NewSuite 创建 Suite
func NewSuite(runner *Runner, logger *log.Logger, cfg config.SmokeConfig) *Suite {
	return &Suite{runner: runner, logger: logger, cfg: cfg, now: time.Now}
}

// WithRedactor CLI 输出写入日志前经 r 脱敏
func (s *Suite) WithRedactor(r *redaction.Redactor) *Suite {
	s.redact = r
	return s
}

func (s *Suite) check(ctx context.Context, name, description, prompt string, timeout time.Duration, metric string) (CheckResult, Result) {
	ctx, span := tracing.StartCheckSpan(ctx, metric)
	res := s.runner.Run(ctx, prompt, timeout)
	tracing.EndSpan(span, res.Err)

	status := StatusFailed
	if res.OK() {
		status = StatusPassed
	}
	metrics.CheckDuration.WithLabelValues(metric).Observe(res.Duration.Seconds())
	metrics.CheckTotal.WithLabelValues(metric, status).Inc()

	return CheckResult{Name: name, Description: description, Passed: res.OK(), Duration: res.Duration}, res
}

func (s *Suite) output(text string) string {
	return s.redact.String(strings.TrimSpace(text))
}

// failure 失败原因：启动/超时错误优先，否则为 stderr
func failure(res Result) string {
	if res.Err != nil {
		return res.Err.Error()
	}
	return strings.TrimSpace(res.Stderr)
}

// BasicCheck `<cli> run "add 1 + 2"`，退出码 0 即通过
func (s *Suite) BasicCheck(ctx context.Context) CheckResult {
	s.logger.Info("🧪 Testing basic Portia functionality...")
	cr, res := s.check(ctx, "Basic Functionality Test", "Test basic Portia SDK operations",
		BasicPrompt, utils.DefaultDuration(s.cfg.BasicTimeout, DefaultBasicTimeout), "basic")
	if cr.Passed {
		s.logger.Info("✅ Basic test result: " + s.output(res.Stdout))
	} else {
		s.logger.Error("❌ Basic test failed: " + s.output(failure(res)))
	}
	return cr
}

// MedicalCheck 以五段式结构化提示词请求分析内置化验报告
func (s *Suite) MedicalCheck(ctx context.Context) CheckResult {
	s.logger.Info("🏥 Testing medical analysis formatting...")
	cr, res := s.check(ctx, "Medical Analysis Test", "Test enhanced medical report analysis formatting",
		MedicalPrompt(MedicalContext), utils.DefaultDuration(s.cfg.AnalysisTimeout, DefaultAnalysisTimeout), "medical")
	if cr.Passed {
		s.logger.Info("✅ Medical analysis completed successfully")
		s.logger.Info("📋 Analysis Result:")
		s.logger.Info(strings.Repeat("=", 50))
		s.logger.Info(s.output(res.Stdout))
		s.logger.Info(strings.Repeat("=", 50))
	} else {
		s.logger.Error("❌ Medical analysis test failed: " + s.output(failure(res)))
	}
	return cr
}

// RunAll 依次执行两项检查并写报告；写报告失败时返回 error，报告本身仍返回
func (s *Suite) RunAll(ctx context.Context) (*Report, error) {
	if path, err := s.runner.Preflight(); err != nil {
		s.logger.Warn("⚠️ CLI not found, checks will fail", "cli", s.runner.CLIPath, "error", err)
	} else {
		s.logger.Debug("using CLI", "path", path)
	}

	results := []CheckResult{s.BasicCheck(ctx), s.MedicalCheck(ctx)}
	report := NewReport(s.now(), results)

	s.logger.Info("📊 Generating test report...")
	if err := WriteReport(s.cfg.ReportPath, report); err != nil {
		return report, err
	}
	s.logger.Info("✅ Test report saved to: " + s.cfg.ReportPath)
	if report.Passed() {
		s.logger.Info("🎉 All tests passed! Portia integration is working correctly.")
	} else {
		s.logger.Warn("⚠️ Some tests failed. Please check the configuration.")
	}
	return report, nil
}
