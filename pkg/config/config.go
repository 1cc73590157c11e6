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

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"medreport-probe/pkg/log"
)

// EnvPrefix 环境变量前缀，如 MEDPROBE_SERVICE_BASE_URL
const EnvPrefix = "MEDPROBE"

// DefaultConfigPath 未显式指定时尝试加载的配置文件（不存在则仅用默认值与环境变量）
const DefaultConfigPath = "configs/probe.yaml"

// Config 应用配置结构体
type Config struct {
	Service    ServiceConfig    `mapstructure:"service"`
	Demo       DemoConfig       `mapstructure:"demo"`
	Smoke      SmokeConfig      `mapstructure:"smoke"`
	Log        log.Config       `mapstructure:"log"`
	Monitoring MonitoringConfig `mapstructure:"monitoring"`
}

// ServiceConfig 被测分析服务
type ServiceConfig struct {
	BaseURL           string         `mapstructure:"base_url"`
	RequestsPerMinute float64        `mapstructure:"requests_per_minute"` // <=0 不限速
	Timeouts          TimeoutsConfig `mapstructure:"timeouts"`
}

// TimeoutsConfig 各类请求的等待上限
type TimeoutsConfig struct {
	Request      time.Duration `mapstructure:"request"`       // analyze / clarify / generate
	Health       time.Duration `mapstructure:"health"`        // health 探测
	ProbeAnalyze time.Duration `mapstructure:"probe_analyze"` // 端点探测中的 analyze
	Probe        time.Duration `mapstructure:"probe"`         // 端点探测中的 clarify / generate
	Ping         time.Duration `mapstructure:"ping"`          // 启动前连通性检查
}

// DemoConfig 演示流程
type DemoConfig struct {
	ContactEmail       string            `mapstructure:"contact_email"`
	PauseAfterBasic    time.Duration     `mapstructure:"pause_after_basic"`
	PauseAfterAbnormal time.Duration     `mapstructure:"pause_after_abnormal"`
	Answers            map[string]string `mapstructure:"answers"` // questionId -> 答案，覆盖/补充内置表
	WebUIPath          string            `mapstructure:"web_ui_path"`
}

// SmokeConfig SDK 冒烟测试
type SmokeConfig struct {
	CLIPath         string           `mapstructure:"cli_path"`
	ReportPath      string           `mapstructure:"report_path"`
	BasicTimeout    time.Duration    `mapstructure:"basic_timeout"`
	AnalysisTimeout time.Duration    `mapstructure:"analysis_timeout"`
	Credential      CredentialConfig `mapstructure:"credential"`
	Redaction       RedactionConfig  `mapstructure:"redaction"`
}

// RedactionConfig CLI 输出中凭据的脱敏方式
type RedactionConfig struct {
	Mode string `mapstructure:"mode"` // redact | hash
	Salt string `mapstructure:"salt"` // 仅 hash 使用，支持 ${VAR}
}

// CredentialConfig 注入子进程环境的凭据：从 Provider 中按 Key 读取，写入环境变量 EnvVar
type CredentialConfig struct {
	EnvVar   string      `mapstructure:"env_var"`
	Key      string      `mapstructure:"key"`
	Provider string      `mapstructure:"provider"` // env | memory | vault
	Value    string      `mapstructure:"value"`    // 仅 memory 使用，支持 ${VAR}
	Vault    VaultConfig `mapstructure:"vault"`
}

// VaultConfig Vault 连接配置
type VaultConfig struct {
	Address    string `mapstructure:"address"`
	Token      string `mapstructure:"token"`
	PathPrefix string `mapstructure:"path_prefix"`
}

// MonitoringConfig 监控配置
type MonitoringConfig struct {
	Prometheus PrometheusConfig `mapstructure:"prometheus"`
	Tracing    TracingConfig    `mapstructure:"tracing"`
}

// PrometheusConfig 短进程指标导出：写 textfile 和/或推送 Pushgateway
type PrometheusConfig struct {
	Textfile    string `mapstructure:"textfile"`
	Pushgateway string `mapstructure:"pushgateway"`
	Job         string `mapstructure:"job"`
}

// TracingConfig 链路追踪配置（OpenTelemetry）
type TracingConfig struct {
	Enable         bool   `mapstructure:"enable"`
	ServiceName    string `mapstructure:"service_name"`
	ExportEndpoint string `mapstructure:"export_endpoint"`
	Insecure       bool   `mapstructure:"insecure"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("service.base_url", "http://localhost:9002")
	v.SetDefault("service.requests_per_minute", 0)
	v.SetDefault("service.timeouts.request", "30s")
	v.SetDefault("service.timeouts.health", "10s")
	v.SetDefault("service.timeouts.probe_analyze", "20s")
	v.SetDefault("service.timeouts.probe", "10s")
	v.SetDefault("service.timeouts.ping", "5s")

	v.SetDefault("demo.contact_email", "demo@example.com")
	v.SetDefault("demo.pause_after_basic", "2s")
	v.SetDefault("demo.pause_after_abnormal", "1s")
	v.SetDefault("demo.web_ui_path", "/portia-medical-reports")

	v.SetDefault("smoke.cli_path", "portia-cli")
	v.SetDefault("smoke.report_path", "portia_test_report.json")
	v.SetDefault("smoke.basic_timeout", "30s")
	v.SetDefault("smoke.analysis_timeout", "60s")
	v.SetDefault("smoke.credential.env_var", "OPENAI_API_KEY")
	v.SetDefault("smoke.credential.key", "PORTIA_CLI_API_KEY")
	v.SetDefault("smoke.credential.provider", "env")
	v.SetDefault("smoke.credential.value", "")
	v.SetDefault("smoke.credential.vault.address", "")
	v.SetDefault("smoke.credential.vault.token", "")
	v.SetDefault("smoke.credential.vault.path_prefix", "secret")
	v.SetDefault("smoke.redaction.mode", "redact")
	v.SetDefault("smoke.redaction.salt", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.file", "")

	// AutomaticEnv 只覆盖已知 key，空默认值让这些 key 也能从环境变量读取
	v.SetDefault("monitoring.prometheus.textfile", "")
	v.SetDefault("monitoring.prometheus.pushgateway", "")
	v.SetDefault("monitoring.prometheus.job", "medreport_probe")
	v.SetDefault("monitoring.tracing.enable", false)
	v.SetDefault("monitoring.tracing.service_name", "medreport-probe")
	v.SetDefault("monitoring.tracing.export_endpoint", "")
	v.SetDefault("monitoring.tracing.insecure", false)
}

// LoadConfig 加载配置：默认值 < 配置文件 < 环境变量。configPath 为空时尝试 DefaultConfigPath，不存在不报错
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := configPath != ""
	if !explicit {
		configPath = DefaultConfigPath
	}
	if _, err := os.Stat(configPath); err == nil || explicit {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("无法读取配置文件: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("无法解析配置文件: %w", err)
	}

	replaceEnvVars(&config)
	return &config, nil
}

// replaceEnvVars 替换配置中 ${VAR} 形式的凭据引用
func replaceEnvVars(config *Config) {
	config.Smoke.Credential.Value = expandRef(config.Smoke.Credential.Value)
	config.Smoke.Credential.Vault.Token = expandRef(config.Smoke.Credential.Vault.Token)
	config.Smoke.Redaction.Salt = expandRef(config.Smoke.Redaction.Salt)
}

func expandRef(s string) string {
	if !strings.HasPrefix(s, "$") {
		return s
	}
	envVar := strings.TrimPrefix(strings.TrimSuffix(s, "}"), "${")
	envVar = strings.TrimPrefix(envVar, "$")
	return os.Getenv(envVar)
}
