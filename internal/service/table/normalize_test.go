package table

import "testing"

func TestNormalizeValue(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want any
	}{
		{"空串为缺失", "", nil},
		{"nan为缺失", "NaN", nil},
		{"null为缺失", "null", nil},
		{"na为缺失", "N/A", nil},
		{"整数转数值", "42", float64(42)},
		{"小数转数值", "3.5", 3.5},
		{"负数转数值", "-7", float64(-7)},
		{"布尔true", "true", true},
		{"布尔false", "FALSE", false},
		{"日期归一化", "2025-03-01", "2025-03-01T00:00:00Z"},
		{"日期时间归一化", "2025-03-01 08:30:00", "2025-03-01T08:30:00Z"},
		{"普通文本保留", "checkout latency spike", "checkout latency spike"},
		{"首尾空白剔除", "  G1  ", "G1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeValue(tt.raw); got != tt.want {
				t.Fatalf("NormalizeValue(%q)=%v (%T), want %v (%T)", tt.raw, got, got, tt.want, tt.want)
			}
		})
	}
}

func TestFormatValueRoundTrip(t *testing.T) {
	tests := []struct {
		value any
		want  string
	}{
		{nil, ""},
		{float64(42), "42"},
		{3.5, "3.5"},
		{true, "true"},
		{"P1", "P1"},
	}

	for _, tt := range tests {
		if got := FormatValue(tt.value); got != tt.want {
			t.Fatalf("FormatValue(%v)=%q, want %q", tt.value, got, tt.want)
		}
	}
}
