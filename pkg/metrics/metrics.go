package metrics

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/prometheus/common/expfmt"
)

// 全局 Registry，供 demo / smoketest 注册与导出
var DefaultRegistry = prometheus.NewRegistry()

func init() {
	DefaultRegistry.MustRegister(
		RequestDuration, RequestTotal,
		ScenarioTotal,
		CheckDuration, CheckTotal,
	)
}

// RequestDuration 对分析服务单次请求耗时（秒）
var RequestDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "medprobe_request_duration_seconds",
		Help:    "对分析服务单次请求耗时（秒）",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"endpoint"},
)

// RequestTotal 请求总数（按端点与结果）
var RequestTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "medprobe_request_total",
		Help: "请求总数（按端点与结果）",
	},
	[]string{"endpoint", "code"}, // code: HTTP 状态码，或 conn_error | error
)

// ScenarioTotal 演示场景执行结果
var ScenarioTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "medprobe_scenario_total",
		Help: "演示场景执行结果",
	},
	[]string{"scenario", "result"}, // ok | failed
)

// CheckDuration 冒烟测试单项耗时（秒）
var CheckDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "medprobe_check_duration_seconds",
		Help:    "冒烟测试单项耗时（秒）",
		Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
	},
	[]string{"check"},
)

// CheckTotal 冒烟测试结果
var CheckTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "medprobe_check_total",
		Help: "冒烟测试结果",
	},
	[]string{"check", "status"}, // passed | failed
)

// WritePrometheus 将 Prometheus 文本格式写入 w
func WritePrometheus(w io.Writer) error {
	metrics, err := DefaultRegistry.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.FmtText)
	for _, mf := range metrics {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}

// ExportConfig 进程退出前的导出目标；均为空时不导出
type ExportConfig struct {
	Textfile    string // node_exporter textfile collector 目录下的 .prom 文件
	Pushgateway string // Pushgateway 地址
	Job         string
}

// Export 短进程退出前调用：写 textfile 和/或推送到 Pushgateway
func Export(cfg ExportConfig) error {
	if cfg.Textfile != "" {
		if err := prometheus.WriteToTextfile(cfg.Textfile, DefaultRegistry); err != nil {
			return fmt.Errorf("write textfile %s: %w", cfg.Textfile, err)
		}
	}
	if cfg.Pushgateway != "" {
		job := cfg.Job
		if job == "" {
			job = "medreport_probe"
		}
		if err := push.New(cfg.Pushgateway, job).Gatherer(DefaultRegistry).Push(); err != nil {
			return fmt.Errorf("push to %s: %w", cfg.Pushgateway, err)
		}
	}
	return nil
}
