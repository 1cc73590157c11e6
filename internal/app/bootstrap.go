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

package app

import (
	"context"
	"fmt"
	"io"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"medreport-probe/pkg/config"
	"medreport-probe/pkg/log"
	"medreport-probe/pkg/metrics"
	"medreport-probe/pkg/tracing"
	"medreport-probe/pkg/utils"
)

// Bootstrap 统一初始化：供 demo 与 smoketest 复用（日志、追踪、退出时的指标导出）
type Bootstrap struct {
	Config *config.Config
	Logger *log.Logger
	tracer *sdktrace.TracerProvider
}

// NewBootstrap 根据配置创建 Bootstrap；未配置日志文件时写 stdout
func NewBootstrap(cfg *config.Config, stdout io.Writer) (*Bootstrap, error) {
	var (
		logger *log.Logger
		err    error
	)
	if cfg.Log.File == "" {
		logger = log.NewLoggerTo(stdout, &cfg.Log)
	} else {
		logger, err = log.NewLogger(&cfg.Log)
		if err != nil {
			return nil, fmt.Errorf("初始化日志failed: %w", err)
		}
	}

	b := &Bootstrap{Config: cfg, Logger: logger}

	tc := cfg.Monitoring.Tracing
	if tc.Enable && tc.ExportEndpoint != "" {
		b.tracer, err = tracing.InitTracer(tracing.OTelConfig{
			ServiceName:    utils.CoalesceString(tc.ServiceName, "medreport-probe"),
			ExportEndpoint: tc.ExportEndpoint,
			Insecure:       tc.Insecure,
		})
		if err != nil {
			logger.Close()
			return nil, fmt.Errorf("初始化 tracing failed: %w", err)
		}
	}
	return b, nil
}

// Shutdown 导出本次运行的指标、刷新 span、关闭日志文件；导出失败只记录警告
func (b *Bootstrap) Shutdown(ctx context.Context) {
	p := b.Config.Monitoring.Prometheus
	if err := metrics.Export(metrics.ExportConfig{Textfile: p.Textfile, Pushgateway: p.Pushgateway, Job: p.Job}); err != nil {
		b.Logger.Warn("metrics export failed", "error", err)
	}
	if b.tracer != nil {
		if err := b.tracer.Shutdown(ctx); err != nil {
			b.Logger.Warn("tracer shutdown failed", "error", err)
		}
	}
	_ = b.Logger.Close()
}
