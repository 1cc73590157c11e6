// Package utils 通用小工具，不依赖 internal
package utils

import "time"

// CoalesceString 返回第一个非空字符串
func CoalesceString(ss ...string) string {
	for _, s := range ss {
		if s != "" {
			return s
		}
	}
	return ""
}

// FirstOr 返回 items 的第一个元素；items 为空时返回 fallback
func FirstOr[T any](items []T, fallback T) T {
	if len(items) == 0 {
		return fallback
	}
	return items[0]
}

// DefaultDuration 若 d <= 0 则返回 defaultVal
func DefaultDuration(d, defaultVal time.Duration) time.Duration {
	if d <= 0 {
		return defaultVal
	}
	return d
}
