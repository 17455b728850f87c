package service

import (
	"fmt"
	"regexp"
	"strings"
)

// monthPattern 只校验格式；2025-13 这类不存在的月份可以通过，只是查不到数据
var monthPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

// CrimeQuery /api/crimes 的查询参数
type CrimeQuery struct {
	StartMonth string
	EndMonth   string
	Area       string
	Category   string
}

// AggregateQuery /api/charts/filtered 的查询参数
type AggregateQuery struct {
	StartMonth string
	EndMonth   string
	Areas      []string
	Categories []string
}

func validateMonths(start, end string) error {
	if start != "" && !monthPattern.MatchString(start) {
		return fmt.Errorf("%w: start_month must be YYYY-MM, got %q", ErrInvalidInput, start)
	}
	if end != "" && !monthPattern.MatchString(end) {
		return fmt.Errorf("%w: end_month must be YYYY-MM, got %q", ErrInvalidInput, end)
	}
	return nil
}

// SplitList 解析逗号分隔的多值参数，去除空白并丢弃空项
func SplitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
