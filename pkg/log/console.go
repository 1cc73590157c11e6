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

package log

import (
	"io"
	"log/slog"

	"github.com/charmbracelet/lipgloss"
	charmlog "github.com/charmbracelet/log"
)

// ConsoleTimeFormat 终端格式的时间戳
const ConsoleTimeFormat = "[15:04:05]"

// newConsoleHandler 面向终端阅读的单行输出：
//
//	[15:04:05] INFO: message key=value
//
// charmbracelet/log 的 *Logger 实现了 slog.Handler；分组渲染为消息前缀。
func newConsoleHandler(w io.Writer, level slog.Level) slog.Handler {
	l := charmlog.NewWithOptions(w, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      ConsoleTimeFormat,
		Level:           charmlog.Level(level),
	})
	l.SetStyles(consoleStyles())
	return l
}

// consoleStyles 级别写全称并带冒号（默认是截断的 INFO/WARN/ERRO）
func consoleStyles() *charmlog.Styles {
	st := charmlog.DefaultStyles()
	st.Levels = map[charmlog.Level]lipgloss.Style{
		charmlog.DebugLevel: lipgloss.NewStyle().SetString("DEBUG:").Faint(true),
		charmlog.InfoLevel:  lipgloss.NewStyle().SetString("INFO:").Bold(true),
		charmlog.WarnLevel:  lipgloss.NewStyle().SetString("WARN:").Bold(true).Foreground(lipgloss.Color("192")),
		charmlog.ErrorLevel: lipgloss.NewStyle().SetString("ERROR:").Bold(true).Foreground(lipgloss.Color("204")),
		charmlog.FatalLevel: lipgloss.NewStyle().SetString("FATAL:").Bold(true).Foreground(lipgloss.Color("134")),
	}
	return st
}
