package table

import (
	"strconv"
	"strings"
	"time"
)

// 缺失值标记，统一折叠为 nil
var absentMarkers = map[string]struct{}{
	"":     {},
	"nan":  {},
	"null": {},
	"none": {},
	"n/a":  {},
	"na":   {},
	"#n/a": {},
}

// 常见时间格式，命中后统一输出 RFC 3339 文本
var timeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02",
	"2006/01/02",
	"2006/1/2",
	"01-02-06",
	"1/2/06 15:04",
}

// NormalizeValue 把单元格原始文本归一化为表值
// 规则：缺失标记 → nil；数值文本 → float64；布尔文本 → bool；
// 时间文本 → RFC 3339 字符串；其余原样保留
func NormalizeValue(raw string) any {
	s := strings.TrimSpace(raw)
	if _, ok := absentMarkers[strings.ToLower(s)]; ok {
		return nil
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}

	switch strings.ToLower(s) {
	case "true":
		return true
	case "false":
		return false
	}

	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(time.RFC3339)
		}
	}

	return s
}

// FormatValue 表值序列化为单元格文本（NormalizeValue 的逆向）
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case string:
		return x
	default:
		return ""
	}
}
