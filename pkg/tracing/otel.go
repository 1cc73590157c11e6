// Copyright 2026 fanjia1024
// OpenTelemetry integration for distributed tracing

// Package tracing 封装 OpenTelemetry；未调用 InitTracer 时使用全局 no-op provider，span 不产生开销
package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "medreport-probe"

// OTelConfig OpenTelemetry 配置
type OTelConfig struct {
	ServiceName    string
	ExportEndpoint string
	Insecure       bool
}

// InitTracer 初始化 OpenTelemetry tracer
func InitTracer(config OTelConfig) (*sdktrace.TracerProvider, error) {
	ctx := context.Background()

	opts := []otlptracehttp.Option{
		otlptracehttp.WithEndpoint(config.ExportEndpoint),
	}
	if config.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}

	exporter, err := otlptrace.New(ctx, otlptracehttp.NewClient(opts...))
	if err != nil {
		return nil, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(config.ServiceName),
		),
	)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	return tp, nil
}

// StartScenarioSpan 开始演示场景 span（probe / basic / abnormal / smoke）
func StartScenarioSpan(ctx context.Context, scenario string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "scenario."+scenario,
		trace.WithAttributes(attribute.String("scenario.name", scenario)),
	)
}

// StartRequestSpan 开始对分析服务的单次 HTTP 请求 span
func StartRequestSpan(ctx context.Context, method, path, requestID string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "http.request",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("http.target", path),
			attribute.String("request.id", requestID),
		),
	)
}

// StartCheckSpan 开始冒烟测试单项 span
func StartCheckSpan(ctx context.Context, check string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "smoke.check",
		trace.WithAttributes(attribute.String("check.name", check)),
	)
}

// EndSpan 记录结果并结束 span；err 非空时标记为 Error
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
