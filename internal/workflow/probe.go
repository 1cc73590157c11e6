package workflow

import (
	"context"
	"fmt"
	"net/http"

	perrors "medreport-probe/pkg/errors"
)

// ProbeOutcome 单个端点的探测结论
type ProbeOutcome string

const (
	ProbeOK          ProbeOutcome = "ok"
	ProbeFailed      ProbeOutcome = "failed"
	ProbeUnavailable ProbeOutcome = "unavailable"
	ProbeSkipped     ProbeOutcome = "skipped"
)

// ProbeReport 端点探测结果
type ProbeReport struct {
	Health       ProbeOutcome
	HealthStatus string
	Analyze      ProbeOutcome
	Clarify      ProbeOutcome
	Generate     ProbeOutcome
	FlowID       string
}

// 合成 flowId 在服务端没有真实状态，以下状态码也视为端点可用
var (
	clarifyWorking  = []int{http.StatusOK, http.StatusNotFound}
	generateWorking = []int{http.StatusOK, http.StatusBadRequest, http.StatusNotFound}
)

// Health 健康检查，仅作提示：任何失败都记为 unavailable，不返回错误
func (d *Demo) Health(ctx context.Context) (ProbeOutcome, string) {
	resp, err := d.client.Health(ctx, d.timeouts().Health)
	if err != nil {
		if _, ok := perrors.AsStatus(err); ok {
			d.logger.Warn("⚠️ Health check endpoint not available")
		} else {
			d.logger.Warn("⚠️ Could not reach health check endpoint")
		}
		return ProbeUnavailable, ""
	}
	d.logger.Info("✅ Health check passed: " + resp.Status)
	return ProbeOK, resp.Status
}

// ProbeEndpoints 用占位数据逐个探测端点。服务端错误只记录；analyze/clarify/generate 的传输层错误向上返回
func (d *Demo) ProbeEndpoints(ctx context.Context) (report ProbeReport, err error) {
	_, err = d.scenario(ctx, "probe", func(ctx context.Context) (bool, error) {
		report, err = d.probe(ctx)
		return report.Analyze == ProbeOK, err
	})
	return report, err
}

func (d *Demo) probe(ctx context.Context) (ProbeReport, error) {
	r := ProbeReport{Clarify: ProbeSkipped, Generate: ProbeSkipped}
	t := d.timeouts()

	d.logger.Info("🧪 Testing API Endpoints")
	d.logger.Info(rule(60))
	r.Health, r.HealthStatus = d.Health(ctx)

	d.logger.Info("Testing " + AnalyzePath + "...")
	resp, err := d.client.Analyze(ctx, AnalyzeRequest{ReportText: ProbeReportText}, t.ProbeAnalyze)
	if err != nil {
		se, ok := perrors.AsStatus(err)
		if !ok {
			return r, err
		}
		d.logger.Info(fmt.Sprintf("❌ Analyze endpoint failed: %d", se.Code))
		r.Analyze = ProbeFailed
		return r, nil
	}
	d.logger.Info("✅ Analyze endpoint working")
	r.Analyze = ProbeOK
	r.FlowID = resp.FlowID
	if r.FlowID == "" {
		return r, nil
	}

	d.logger.Info("Testing " + ClarifyPath + "...")
	_, err = d.client.Clarify(ctx, ClarifyRequest{FlowID: r.FlowID, QuestionID: "test", Answer: "test"}, t.Probe)
	if r.Clarify, err = d.judge("Clarify", err, clarifyWorking); err != nil {
		return r, err
	}

	d.logger.Info("Testing " + GeneratePath + "...")
	_, err = d.client.Generate(ctx, r.FlowID, t.Probe)
	if r.Generate, err = d.judge("Generate", err, generateWorking); err != nil {
		return r, err
	}
	return r, nil
}

func (d *Demo) judge(name string, err error, working []int) (ProbeOutcome, error) {
	code := http.StatusOK
	if err != nil {
		se, ok := perrors.AsStatus(err)
		if !ok {
			return ProbeFailed, err
		}
		code = se.Code
	}
	for _, c := range working {
		if c == code {
			d.logger.Info(fmt.Sprintf("✅ %s endpoint working", name))
			return ProbeOK, nil
		}
	}
	d.logger.Warn(fmt.Sprintf("⚠️ %s endpoint issue: %d", name, code))
	return ProbeFailed, nil
}
