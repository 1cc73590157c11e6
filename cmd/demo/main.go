package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"medreport-probe/internal/app"
	"medreport-probe/internal/workflow"
	"medreport-probe/pkg/config"
	"medreport-probe/pkg/metrics"
)

const version = "0.1.0"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: demo [-config path] [-metrics] <command> [args]")
	fmt.Fprintln(w, "  run                       - 完整演示（默认）：探测 → 基础场景 → 异常报告场景")
	fmt.Fprintln(w, "  probe                     - 仅探测各端点")
	fmt.Fprintln(w, "  analyze <file> [simple|detailed] - 分析本地报告（.txt/.md/.pdf）")
	fmt.Fprintln(w, "  status <flowId>           - 查询 flow 状态")
	fmt.Fprintln(w, "  health                    - 健康检查")
	fmt.Fprintln(w, "  config                    - 显示配置概要")
	fmt.Fprintln(w, "  version                   - 显示版本")
	fmt.Fprintln(w, "  -metrics                  - 结束前把本次运行的指标以 Prometheus 文本格式写到 stdout")
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("demo", flag.ContinueOnError)
	fs.SetOutput(stderr)
	cfgPath := fs.String("config", os.Getenv("MEDPROBE_CONFIG"), "配置文件路径")
	dumpMetrics := fs.Bool("metrics", false, "结束前输出 Prometheus 文本格式指标")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	rest := fs.Args()
	cmd := "run"
	if len(rest) > 0 {
		cmd, rest = rest[0], rest[1:]
	}

	switch cmd {
	case "version":
		fmt.Fprintf(stdout, "medreport-probe demo %s\n", version)
		return 0
	case "help":
		printUsage(stdout)
		return 0
	case "run", "probe", "analyze", "status", "health", "config":
	default:
		printUsage(stderr)
		return 1
	}

	cfg, err := config.LoadConfig(*cfgPath)
	if err != nil {
		fmt.Fprintf(stderr, "加载配置失败: %v\n", err)
		return 1
	}
	if cmd == "config" {
		printConfig(stdout, cfg)
		return 0
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, err := app.NewBootstrap(cfg, stdout)
	if err != nil {
		fmt.Fprintf(stderr, "初始化失败: %v\n", err)
		return 1
	}
	defer b.Shutdown(context.Background())
	if *dumpMetrics {
		defer func() {
			if err := metrics.WritePrometheus(stdout); err != nil {
				b.Logger.Warn("写出指标失败", "error", err)
			}
		}()
	}

	client := workflow.NewClient(cfg.Service)
	d := workflow.NewDemo(client, b.Logger, cfg)

	switch cmd {
	case "probe":
		report, err := d.ProbeEndpoints(ctx)
		if err != nil {
			d.ReportError(err)
			return 1
		}
		return exitCode(report.Analyze == workflow.ProbeOK)
	case "analyze":
		if len(rest) < 1 {
			fmt.Fprintln(stderr, "Usage: demo analyze <file> [simple|detailed]")
			return 1
		}
		levelArg := ""
		if len(rest) > 1 {
			levelArg = rest[1]
		}
		level, err := workflow.ParseExplanationLevel(levelArg)
		if err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
			return 1
		}
		ok, err := d.AnalyzeFile(ctx, rest[0], level)
		if err != nil {
			d.ReportError(err)
			return 1
		}
		return exitCode(ok)
	case "status":
		if len(rest) < 1 {
			fmt.Fprintln(stderr, "Usage: demo status <flowId>")
			return 1
		}
		ok, err := d.ShowStatus(ctx, rest[0])
		if err != nil {
			d.ReportError(err)
			return 1
		}
		return exitCode(ok)
	case "health":
		outcome, _ := d.Health(ctx)
		return exitCode(outcome == workflow.ProbeOK)
	}
	return runDemo(ctx, stdout, client, d, cfg)
}

// runDemo 连通性预检后执行完整演示
func runDemo(ctx context.Context, stdout io.Writer, client *workflow.Client, d *workflow.Demo, cfg *config.Config) int {
	fmt.Fprintln(stdout, "🩺 Portia Medical Report Analysis Demo")
	fmt.Fprintln(stdout, "=====================================")

	webUI := client.BaseURL() + cfg.Demo.WebUIPath
	if err := client.Ping(ctx, cfg.Service.Timeouts.Ping); err != nil {
		fmt.Fprintln(stdout, "❌ Cannot connect to development server.")
		fmt.Fprintln(stdout, "💡 Please start the development server first:")
		fmt.Fprintln(stdout, "   npm run dev")
		fmt.Fprintf(stdout, "   Then visit: %s\n", webUI)
		return 1
	}

	if !d.Run(ctx) {
		return 1
	}
	fmt.Fprintln(stdout, "🌐 You can also test the web interface at:")
	fmt.Fprintf(stdout, "   %s\n", webUI)
	return 0
}

func printConfig(w io.Writer, cfg *config.Config) {
	fmt.Fprintf(w, "service.base_url=%s\n", cfg.Service.BaseURL)
	fmt.Fprintf(w, "service.requests_per_minute=%g\n", cfg.Service.RequestsPerMinute)
	fmt.Fprintf(w, "service.timeouts.request=%s\n", cfg.Service.Timeouts.Request)
	fmt.Fprintf(w, "demo.contact_email=%s\n", cfg.Demo.ContactEmail)
	fmt.Fprintf(w, "demo.answers=%d overrides\n", len(cfg.Demo.Answers))
	fmt.Fprintf(w, "log.level=%s log.format=%s\n", cfg.Log.Level, cfg.Log.Format)
}

func exitCode(ok bool) int {
	if ok {
		return 0
	}
	return 1
}
