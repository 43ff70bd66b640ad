package engine

import (
	"strings"

	"reviewdesk/internal/model"
)

// resolveIntent 把更新意图解析到明细表中唯一的一行，返回行下标
// 下标寻址要求落在 [0, len) 内；业务键寻址要求恰好命中一行，
// 零命中与多命中都是错误——静默取首行会让两条业务行在编辑下坍缩，
// 进而污染汇总对账
func (e *Engine) resolveIntent(tbl *model.Table, intent *model.UpdateIntent) (int, error) {
	if !intent.ByKey() {
		idx := *intent.RowIndex
		if idx < 0 || idx >= len(tbl.Rows) {
			return 0, Errorf(KindOutOfRange, "row index %d out of range [0, %d]", idx, len(tbl.Rows)-1)
		}
		return idx, nil
	}

	groupCol, ok := tbl.ColumnName(e.schema.GroupColumn)
	if !ok {
		return 0, Errorf(KindSchemaViolation, "detail table missing key column %q", e.schema.GroupColumn)
	}
	patternCol, ok := tbl.ColumnName(e.schema.PatternColumn)
	if !ok {
		return 0, Errorf(KindSchemaViolation, "detail table missing key column %q", e.schema.PatternColumn)
	}

	found := -1
	count := 0
	for i, row := range tbl.Rows {
		if keyEqual(row[groupCol], intent.GroupID) && keyEqual(row[patternCol], intent.Pattern) {
			if found < 0 {
				found = i
			}
			count++
		}
	}

	switch {
	case count == 0:
		return 0, Errorf(KindNotFound, "no row matches key (group_id=%q, pattern=%q)", intent.GroupID, intent.Pattern)
	case count > 1:
		return 0, Errorf(KindAmbiguous, "key (group_id=%q, pattern=%q) matches %d rows", intent.GroupID, intent.Pattern, count)
	}
	return found, nil
}

// keyEqual 键值比较：大小写不敏感，数值键按文本折叠比较
func keyEqual(cell any, want string) bool {
	return strings.EqualFold(strings.TrimSpace(cellText(cell)), strings.TrimSpace(want))
}
