package util

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const (
	maxDescriptionLen = 100
	maxCategoryLen    = 64
)

var maxAmount = decimal.NewFromInt(10_000_000)

const (
	layoutLocalDateTime = "2006-01-02T15:04:05" // 2025-12-03T00:00:00
	layoutDate          = "2006-01-02"          // 2025-12-03

	// 纯日期落在当地中午，换到 ±11 小时内的时区仍是同一天
	dateOnlyHour = 12
)

// ValidateAmount 验证金额（必须为正数且不超过上限）
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return NewValidationError("amount", fmt.Sprintf("must be positive, got %s", amount.String()))
	}
	if amount.GreaterThanOrEqual(maxAmount) {
		return NewValidationError("amount", fmt.Sprintf("too large, got %s", amount.String()))
	}
	// 数据库列是 decimal(14,2)，多出的小数位会被悄悄舍入
	if !amount.Equal(amount.Round(2)) {
		return NewValidationError("amount", fmt.Sprintf("at most 2 decimal places, got %s", amount.String()))
	}
	return nil
}

// ValidateDescription 1-100 个字符（去掉首尾空白后）
func ValidateDescription(desc string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(desc))
	if n == 0 {
		return NewValidationError("description", "is empty")
	}
	if n > maxDescriptionLen {
		return NewValidationError("description", fmt.Sprintf("too long, max %d characters", maxDescriptionLen))
	}
	return nil
}

// ValidateCategory 只校验非空和长度，不校验是否属于固定分类
func ValidateCategory(category string) error {
	category = strings.TrimSpace(category)
	if category == "" {
		return NewValidationError("category", "is empty")
	}
	if utf8.RuneCountInString(category) > maxCategoryLen {
		return NewValidationError("category", fmt.Sprintf("too long, max %d characters", maxCategoryLen))
	}
	return nil
}

// ValidateType 只接受 income / expense
func ValidateType(t string) error {
	if t != "income" && t != "expense" {
		return NewValidationError("type", "must be income or expense")
	}
	return nil
}

// ParseDate 解析 ISO 8601 日期。带时区的按原时区；不带时区的按 loc 解释；
// 纯日期取 loc 当天中午
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, NewValidationError("date", "is empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(layoutLocalDateTime, s, loc); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(layoutDate, s, loc); err == nil {
		return t.Add(dateOnlyHour * time.Hour), nil
	}
	return time.Time{}, NewValidationError("date", fmt.Sprintf("invalid date %q, expected ISO 8601", s))
}

// FormatAmount 金额保留两位小数
func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}
