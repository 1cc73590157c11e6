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
	"medreport-probe/internal/smoke"
	"medreport-probe/pkg/config"
	"medreport-probe/pkg/redaction"
	"medreport-probe/pkg/tracing"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run 注入凭据 → 两项检查 → 写报告；两项均通过时返回 0
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("smoketest", flag.ContinueOnError)
	fs.SetOutput(stderr)
	cfgPath := fs.String("config", os.Getenv("MEDPROBE_CONFIG"), "配置文件路径")
	cliPath := fs.String("cli", "", "覆盖 smoke.cli_path")
	reportPath := fs.String("report", "", "覆盖 smoke.report_path")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	cfg, err := config.LoadConfig(*cfgPath)
	if err != nil {
		fmt.Fprintf(stderr, "加载配置失败: %v\n", err)
		return 1
	}
	if *cliPath != "" {
		cfg.Smoke.CLIPath = *cliPath
	}
	if *reportPath != "" {
		cfg.Smoke.ReportPath = *reportPath
	}
	mode, err := redaction.ParseMode(cfg.Smoke.Redaction.Mode)
	if err != nil {
		fmt.Fprintf(stderr, "加载配置失败: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, err := app.NewBootstrap(cfg, stdout)
	if err != nil {
		fmt.Fprintf(stderr, "初始化失败: %v\n", err)
		return 1
	}
	defer b.Shutdown(context.Background())
	logger := b.Logger

	logger.Info("🚀 Starting Portia SDK Integration Test")
	logger.Info("==================================================")

	redactor := redaction.New(mode).WithSalt(cfg.Smoke.Redaction.Salt)
	if value, err := smoke.InjectCredential(ctx, cfg.Smoke.Credential); err != nil {
		logger.Warn("⚠️ Credential not injected, the CLI will use its own environment", "env", cfg.Smoke.Credential.EnvVar, "error", err)
	} else if value != "" {
		redactor.Add(value)
		logger.Info("🔑 Credential exported", "env", cfg.Smoke.Credential.EnvVar)
	}

	ctx, span := tracing.StartScenarioSpan(ctx, "smoke")
	suite := smoke.NewSuite(smoke.NewRunner(cfg.Smoke.CLIPath), logger, cfg.Smoke).WithRedactor(redactor)
	report, err := suite.RunAll(ctx)
	tracing.EndSpan(span, err)
	if err != nil {
		logger.Error("❌ Failed to save test report", "error", err)
		return 1
	}

	if report.Passed() {
		logger.Info("✅ Portia integration test completed successfully!")
		logger.Info("You can now use enhanced medical report analysis in your application.")
		return 0
	}
	logger.Error("❌ Portia integration test failed.")
	logger.Info("Please check your environment and API key configuration.")
	return 1
}
