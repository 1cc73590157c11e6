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

// Package smoke 对外部 agent CLI 做冒烟测试：两条固定提示词，结果写入 JSON 报告
package smoke

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// Result 一次 CLI 调用的结果；Err 非空表示未能启动、超时或被取消
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
	Err      error
}

// OK 进程正常退出且退出码为 0
func (r Result) OK() bool {
	return r.Err == nil && r.ExitCode == 0
}

// Runner 以 `<cli> run <prompt>` 形式调用 CLI，子进程继承本进程环境
type Runner struct {
	CLIPath string
}

// NewRunner 创建 Runner
func NewRunner(cliPath string) *Runner {
	return &Runner{CLIPath: cliPath}
}

// Run 执行一次调用，timeout 到期即终止子进程。失败通过 Result 返回，不返回 error
func (r *Runner) Run(ctx context.Context, prompt string, timeout time.Duration) Result {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, r.CLIPath, "run", prompt)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// 子进程派生的后代可能持有输出管道，超时后最多再等 WaitDelay
	cmd.WaitDelay = 2 * time.Second

	start := time.Now()
	err := cmd.Run()
	res := Result{
		ExitCode: -1,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}
	if cmd.ProcessState != nil {
		res.ExitCode = cmd.ProcessState.ExitCode()
	}

	var exitErr *exec.ExitError
	switch {
	case ctx.Err() != nil:
		res.Err = fmt.Errorf("%s run: %w", r.CLIPath, ctx.Err())
	case errors.As(err, &exitErr):
		// 非零退出码由 ExitCode 表达
	case err != nil:
		res.Err = fmt.Errorf("%s run: %w", r.CLIPath, err)
	}
	return res
}

// Preflight 检查 CLI 是否可执行
func (r *Runner) Preflight() (string, error) {
	return exec.LookPath(r.CLIPath)
}
