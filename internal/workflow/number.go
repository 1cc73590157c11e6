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

package workflow

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// MissingValue 数值缺失或无法解析时的展示文本
const MissingValue = "n/a"

// Number 服务端返回的可选数值。服务把 LLM 解析结果原样转发，
// 同一字段可能是数字、数字字符串、null 或任意文本；
// 能解析为数字时 Valid 为 true，其余情况视为缺失，不让单个字段拖垮整个响应。
type Number struct {
	Value float64
	Valid bool
}

// Num 构造一个有效数值
func Num(v float64) Number {
	return Number{Value: v, Valid: true}
}

func (n *Number) UnmarshalJSON(data []byte) error {
	*n = Number{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		data = []byte(strings.TrimSpace(s))
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return nil
	}
	*n = Num(v)
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// String 有效时按最短形式输出，缺失时输出 MissingValue
func (n Number) String() string {
	if !n.Valid {
		return MissingValue
	}
	return formatNumber(n.Value)
}
