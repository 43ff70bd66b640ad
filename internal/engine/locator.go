package engine

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Locator 文件定位符：显式路径或月份名二选一
type Locator struct {
	Path  string `json:"path,omitempty"`
	Month string `json:"month,omitempty"`
}

// 月份名 → 文件名前缀
var monthNames = map[string]string{
	"january": "january", "february": "february", "march": "march",
	"april": "april", "may": "may", "june": "june",
	"july": "july", "august": "august", "september": "september",
	"october": "october", "november": "november", "december": "december",
}

// MonthOrder 月份文件名前缀的自然顺序（月份列表接口用）
var MonthOrder = []string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
}

// 允许的表格扩展名
var allowedExtensions = map[string]struct{}{
	".csv": {}, ".xlsx": {}, ".xls": {}, ".xlsm": {},
}

// Resolve 把定位符解析为明细/汇总文件路径对
// 月份定位映射为 {month}_data.csv / {month}_summary.csv；
// 显式路径按 _data 词干推导汇总伙伴文件
func (l Locator) Resolve(dataDir string) (detailPath, summaryPath string, err error) {
	switch {
	case l.Month != "" && l.Path != "":
		return "", "", Errorf(KindValidationFailure, "locator must carry either month or path, not both")
	case l.Month != "":
		name, ok := monthNames[strings.ToLower(strings.TrimSpace(l.Month))]
		if !ok {
			return "", "", Errorf(KindValidationFailure, "unrecognized month name %q", l.Month)
		}
		detailPath = filepath.Join(dataDir, name+"_data.csv")
		summaryPath = filepath.Join(dataDir, name+"_summary.csv")
		return detailPath, summaryPath, nil
	case l.Path != "":
		ext := strings.ToLower(filepath.Ext(l.Path))
		if _, ok := allowedExtensions[ext]; !ok {
			return "", "", Errorf(KindValidationFailure, "file must be a tabular file (.csv/.xlsx/.xls/.xlsm), got %q", filepath.Base(l.Path))
		}
		return l.Path, summaryPartner(l.Path), nil
	default:
		return "", "", Errorf(KindValidationFailure, "locator is empty")
	}
}

// summaryPartner 推导明细文件的汇总伙伴路径
// 词干以 _data 结尾时替换为 _summary，否则追加 _summary
func summaryPartner(detailPath string) string {
	ext := filepath.Ext(detailPath)
	stem := strings.TrimSuffix(detailPath, ext)
	if strings.HasSuffix(stem, "_data") {
		return strings.TrimSuffix(stem, "_data") + "_summary" + ext
	}
	return fmt.Sprintf("%s_summary%s", stem, ext)
}
