package workflow

import (
	"strings"

	"medreport-probe/pkg/utils"
)

// DefaultAnswerFallback 既无预置答案也无选项时使用的答案
const DefaultAnswerFallback = "Yes"

// DefaultAnswers 演示用的预置答案（questionId -> answer）
func DefaultAnswers() map[string]string {
	return map[string]string{
		"gender-clarification": "Male",
		"explanation-level":    "Simple language (easy to understand)",
		"data-quality":         "Yes, proceed with available data",
		"output-preferences":   "View on screen only",
	}
}

// MergeAnswers 以 overrides 覆盖/补充 base，返回新表，不修改入参。
// 键统一小写：viper 读取 map 时已把键转为小写，问题 ID 因此按大小写不敏感匹配
func MergeAnswers(base, overrides map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(overrides))
	for k, v := range base {
		out[strings.ToLower(k)] = v
	}
	for k, v := range overrides {
		out[strings.ToLower(k)] = v
	}
	return out
}

// SelectAnswer 预置表命中则用表中答案，否则取第一个选项，再否则 "Yes"
func SelectAnswer(q Clarification, table map[string]string) string {
	if a, ok := table[q.ID]; ok {
		return a
	}
	if a, ok := table[strings.ToLower(q.ID)]; ok {
		return a
	}
	return utils.FirstOr(q.Options, DefaultAnswerFallback)
}
