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

// Package redaction 在输出前抹去已知的敏感值（如注入给子进程的凭据）
package redaction

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	perrors "medreport-probe/pkg/errors"
)

// Mode 脱敏模式
type Mode string

const (
	ModeRedact Mode = "redact" // 替换为 "***REDACTED***"
	ModeHash   Mode = "hash"   // 替换为 SHA256 前缀，便于比对同一值而不泄露
)

// ParseMode 解析配置中的模式名，空串视为 ModeRedact
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeRedact:
		return ModeRedact, nil
	case ModeHash:
		return ModeHash, nil
	}
	return "", perrors.Wrapf(perrors.ErrInvalidArg, "redaction mode %q (want redact|hash)", s)
}

// Placeholder ModeRedact 使用的替换文本
const Placeholder = "***REDACTED***"

// minSecretLen 过短的值不登记，避免把普通文本误伤
const minSecretLen = 4

// Redactor 持有一组敏感值；零值可用，不做任何替换
type Redactor struct {
	mode    Mode
	salt    string
	secrets []string
}

// New 创建 Redactor，空值与过短的值被忽略
func New(mode Mode, secrets ...string) *Redactor {
	r := &Redactor{mode: mode}
	for _, s := range secrets {
		r.Add(s)
	}
	return r
}

// WithSalt 设置 hash 模式的 salt
func (r *Redactor) WithSalt(salt string) *Redactor {
	r.salt = salt
	return r
}

// Add 登记一个敏感值
func (r *Redactor) Add(secret string) {
	if len(secret) < minSecretLen {
		return
	}
	for _, s := range r.secrets {
		if s == secret {
			return
		}
	}
	r.secrets = append(r.secrets, secret)
}

// String 返回抹去所有已登记值后的文本
func (r *Redactor) String(s string) string {
	if r == nil {
		return s
	}
	for _, secret := range r.secrets {
		if strings.Contains(s, secret) {
			s = strings.ReplaceAll(s, secret, r.replacement(secret))
		}
	}
	return s
}

func (r *Redactor) replacement(secret string) string {
	if r.mode == ModeHash {
		h := sha256.New()
		h.Write([]byte(secret))
		if r.salt != "" {
			h.Write([]byte(r.salt))
		}
		return "hash:" + hex.EncodeToString(h.Sum(nil))[:12]
	}
	return Placeholder
}
