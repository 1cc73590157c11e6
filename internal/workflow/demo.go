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

// Package workflow 驱动分析服务的 analyze → clarify → generate 工作流，并把 JSON 响应渲染为带时间戳的日志
package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"medreport-probe/pkg/config"
	perrors "medreport-probe/pkg/errors"
	"medreport-probe/pkg/log"
	"medreport-probe/pkg/metrics"
	"medreport-probe/pkg/tracing"
)

// Demo 一次演示运行的状态：当前 flowId 与最近一次服务端报告的状态
type Demo struct {
	client  *Client
	logger  *log.Logger
	cfg     *config.Config
	answers map[string]string
	sleep   func(ctx context.Context, d time.Duration) error

	flowID string
	status string
}

// NewDemo 创建演示；cfg.Demo.Answers 覆盖/补充内置预置答案
func NewDemo(client *Client, logger *log.Logger, cfg *config.Config) *Demo {
	return &Demo{
		client:  client,
		logger:  logger,
		cfg:     cfg,
		answers: MergeAnswers(DefaultAnswers(), cfg.Demo.Answers),
		sleep:   sleepContext,
	}
}

// FlowID 当前场景持有的 flowId
func (d *Demo) FlowID() string {
	return d.flowID
}

func sleepContext(ctx context.Context, dur time.Duration) error {
	if dur <= 0 {
		return nil
	}
	t := time.NewTimer(dur)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (d *Demo) timeouts() config.TimeoutsConfig {
	return d.cfg.Service.Timeouts
}

// scenario 为一个场景包上 span 与结果计数
func (d *Demo) scenario(ctx context.Context, name string, fn func(context.Context) (bool, error)) (ok bool, err error) {
	ctx, span := tracing.StartScenarioSpan(ctx, name)
	defer func() {
		result := "ok"
		if !ok || err != nil {
			result = "failed"
		}
		metrics.ScenarioTotal.WithLabelValues(name, result).Inc()
		tracing.EndSpan(span, err)
	}()
	return fn(ctx)
}

// AnalyzeReport 提交报告并走完整个流程：展示计划，逐个回答未回答的澄清，最新状态为 completed 时生成最终结果。
// 非 200 记录原始响应体并返回 false；传输层错误向上返回
func (d *Demo) AnalyzeReport(ctx context.Context, text string, level ExplanationLevel) (bool, error) {
	resp, err := d.client.Analyze(ctx, AnalyzeRequest{
		ReportText:      text,
		UserPreferences: &UserPreferences{ExplanationLevel: level},
	}, d.timeouts().Request)
	if err != nil {
		if se, ok := perrors.AsStatus(err); ok {
			d.logger.Error("❌ Analysis failed: " + se.Body)
			return false, nil
		}
		return false, err
	}

	d.flowID = resp.FlowID
	d.status = resp.Status
	d.logger.Info("✅ Analysis started successfully! Flow ID: " + resp.FlowID)
	d.logger.Info("📊 Status: " + resp.Status)
	d.logger.Info("⏱️ Processing time: " + resp.ProcessingTime)
	renderPlan(d.logger, resp.Plan)

	if len(resp.Clarifications) > 0 {
		d.logger.Info(fmt.Sprintf("❓ Found %d clarification questions:", len(resp.Clarifications)))
		for _, q := range Pending(resp.Clarifications) {
			renderQuestion(d.logger, q)
			if _, err := d.AnswerClarification(ctx, q); err != nil {
				return false, err
			}
		}
	}

	if d.status == StatusCompleted {
		if _, err := d.FinalResults(ctx); err != nil {
			return false, err
		}
	}
	return true, nil
}

// BasicAnalysis 基础场景：内置样例报告，simple 解释级别
func (d *Demo) BasicAnalysis(ctx context.Context) (bool, error) {
	return d.scenario(ctx, "basic", func(ctx context.Context) (bool, error) {
		d.logger.Info("🩺 Starting Basic Medical Report Analysis Demo")
		d.logger.Info(rule(60))
		d.logger.Info("Step 1: Initiating Portia analysis...")
		return d.AnalyzeReport(ctx, SampleReport, LevelSimple)
	})
}

// AnswerClarification 用预置答案回答一个澄清问题；成功时以响应中的状态更新当前状态
func (d *Demo) AnswerClarification(ctx context.Context, q Clarification) (bool, error) {
	d.logger.Info("🤔 Answering clarification: " + q.ID)
	answer := SelectAnswer(q, d.answers)
	d.logger.Info("💡 Auto-selecting answer: " + answer)

	resp, err := d.client.Clarify(ctx, ClarifyRequest{
		FlowID:     d.flowID,
		QuestionID: q.ID,
		Answer:     answer,
		UserEmail:  d.cfg.Demo.ContactEmail,
	}, d.timeouts().Request)
	if err != nil {
		if se, ok := perrors.AsStatus(err); ok {
			d.logger.Error("❌ Failed to answer clarification: " + se.Body)
			return false, nil
		}
		return false, err
	}

	if resp.Status != "" {
		d.status = resp.Status
	}
	d.logger.Info("✅ Clarification answered successfully")
	d.logger.Info("📊 Updated status: " + resp.Status)
	if n := len(resp.RemainingClarifications); n > 0 {
		d.logger.Info(fmt.Sprintf("❓ %d clarifications remaining", n))
	} else {
		d.logger.Info("🎉 All clarifications answered!")
	}
	return true, nil
}

// FinalResults 请求生成最终分析并渲染
func (d *Demo) FinalResults(ctx context.Context) (bool, error) {
	d.logger.Info("📋 Generating final analysis...")
	resp, err := d.client.Generate(ctx, d.flowID, d.timeouts().Request)
	if err != nil {
		if se, ok := perrors.AsStatus(err); ok {
			d.logger.Error("❌ Failed to get final results: " + se.Body)
			return false, nil
		}
		return false, err
	}
	if resp.Analysis == nil {
		d.logger.Error("❌ Failed to get final results: response carried no analysis")
		return false, nil
	}

	d.logger.Info("🎉 Final Analysis Generated Successfully!")
	d.logger.Info(rule(60))
	renderAnalysis(d.logger, resp.Analysis)
	return true, nil
}

// AbnormalReport 次要场景：多项异常的报告，detailed 解释级别；只看 analyze 内嵌的摘要，不做澄清与生成
func (d *Demo) AbnormalReport(ctx context.Context) (bool, error) {
	return d.scenario(ctx, "abnormal", func(ctx context.Context) (bool, error) {
		d.logger.Info("🚨 Starting Problematic Report Analysis Demo")
		d.logger.Info(rule(60))

		resp, err := d.client.Analyze(ctx, AnalyzeRequest{
			ReportText:      AbnormalReport,
			UserPreferences: &UserPreferences{ExplanationLevel: LevelDetailed},
		}, d.timeouts().Request)
		if err != nil {
			if se, ok := perrors.AsStatus(err); ok {
				d.logger.Error("❌ Problematic report analysis failed: " + se.Body)
				return false, nil
			}
			return false, err
		}

		d.logger.Info("✅ Problematic report analysis completed")
		if resp.FinalAnalysis == nil {
			return true, nil
		}
		var high, low int
		if s := resp.FinalAnalysis.Summary; s != nil {
			high, low = s.HighCount, s.LowCount
		}
		if high > 0 || low > 0 {
			d.logger.Info("⚠️ ABNORMAL VALUES DETECTED:")
			d.logger.Info(fmt.Sprintf("  • %d values above normal range", high))
			d.logger.Info(fmt.Sprintf("  • %d values below normal range", low))
		} else {
			d.logger.Info("✅ All values within normal ranges")
		}
		return true, nil
	})
}

// ShowStatus 查询并展示 flow 当前状态
func (d *Demo) ShowStatus(ctx context.Context, flowID string) (bool, error) {
	resp, err := d.client.FlowStatus(ctx, flowID, d.timeouts().Request)
	if err != nil {
		if errors.Is(err, perrors.ErrNotFound) {
			d.logger.Error(fmt.Sprintf("❌ Flow %s not found; it may have expired or belong to another server", flowID))
			return false, nil
		}
		if se, ok := perrors.AsStatus(err); ok {
			d.logger.Error(fmt.Sprintf("❌ Failed to get flow status (%d): %s", se.Code, se.Body))
			return false, nil
		}
		return false, err
	}
	renderFlowStatus(d.logger, resp)
	return true, nil
}

// Run 完整演示：探测 → 基础场景（失败即中止）→ 暂停 → 次要场景 → 暂停 → 完成总结。
// 连接失败只输出一条致命错误与一条提示；其它错误或 panic 记录一次并返回 false
func (d *Demo) Run(ctx context.Context) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error(fmt.Sprintf("❌ Demo failed with error: %v", r))
			ok = false
		}
	}()

	d.logger.Info("🚀 Starting Comprehensive Portia Medical Report Analysis Demo")
	d.logger.Info(rule(80))

	if err := d.run(ctx); err != nil {
		if !errors.Is(err, errStop) {
			d.ReportError(err)
		}
		return false
	}

	d.logger.Info("🎉 DEMO COMPLETED SUCCESSFULLY!")
	d.logger.Info(rule(80))
	d.logger.Info("✅ All Portia workflow features demonstrated:")
	for _, f := range demonstratedFeatures {
		d.logger.Info("  • " + f)
	}
	return true
}

var demonstratedFeatures = []string{
	"Multi-step medical report parsing",
	"Reference range comparison",
	"Abnormal value identification",
	"Patient-friendly explanations",
	"Interactive clarification questions",
	"Structured final output generation",
	"Comprehensive disclaimers",
}

// errStop 基础场景失败：已记录原因，无需再报错
var errStop = perrors.Wrap(perrors.ErrUnexpectedStatus, "basic scenario failed")

func (d *Demo) run(ctx context.Context) error {
	if _, err := d.ProbeEndpoints(ctx); err != nil {
		return err
	}
	ok, err := d.BasicAnalysis(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return errStop
	}
	if err := d.sleep(ctx, d.cfg.Demo.PauseAfterBasic); err != nil {
		return err
	}
	if _, err := d.AbnormalReport(ctx); err != nil {
		return err
	}
	return d.sleep(ctx, d.cfg.Demo.PauseAfterAbnormal)
}

// ReportError 按错误分类输出：连接失败给出启动服务的提示，其它错误原样记录
func (d *Demo) ReportError(err error) {
	if perrors.IsConnectionFailure(err) {
		d.logger.Error(fmt.Sprintf("❌ Could not connect to the server at %s. Make sure the development server is running.", d.client.BaseURL()))
		d.logger.Info("💡 Run: npm run dev")
		return
	}
	d.logger.Error(fmt.Sprintf("❌ Demo failed with error: %v", err))
}
