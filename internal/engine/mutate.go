package engine

import (
	"log"
	"strconv"
	"strings"

	"reviewdesk/internal/model"
)

// skipColumns 意图中只做寻址/标注、从不写入明细表的列
func (e *Engine) skipColumns() map[string]struct{} {
	return map[string]struct{}{
		strings.ToLower(e.schema.GroupColumn):   {},
		strings.ToLower(e.schema.PatternColumn): {},
		strings.ToLower(e.schema.ClusterColumn): {},
		strings.ToLower(e.schema.CountColumn):   {},
	}
}

// validateValues 干跑阶段校验意图的列值
// 未知列直接判 SchemaViolation：表结构漂移必须被拒绝，而不是悄悄拓宽表；
// 严格模式下数值转换失败也在此拦截，保证不动任何行就中止整批
func (e *Engine) validateValues(tbl *model.Table, intent *model.UpdateIntent) error {
	skip := e.skipColumns()
	for col, v := range intent.Values {
		if _, ok := skip[strings.ToLower(col)]; ok {
			continue
		}
		actual, ok := tbl.ColumnName(col)
		if !ok {
			return Errorf(KindSchemaViolation, "column %q does not exist in the detail table", col)
		}
		if e.strict {
			if _, failed := coerceValue(tbl, actual, v); failed {
				return Errorf(KindCoercionFailure, "value %v is not numeric for column %q", v, actual)
			}
		}
	}
	return nil
}

// applyValues 把意图的列值写入已匹配的行（就地修改表快照）
// 目标列为数值列而新值不是数值时尽力转换；转换失败原样写入并记录日志
// （宽容回退会在数值列里留下错配类型，严格模式见 validateValues）
func (e *Engine) applyValues(tbl *model.Table, rowIdx int, intent *model.UpdateIntent) {
	skip := e.skipColumns()
	row := tbl.Rows[rowIdx]

	for col, v := range intent.Values {
		if _, ok := skip[strings.ToLower(col)]; ok {
			continue
		}
		actual, ok := tbl.ColumnName(col)
		if !ok {
			continue
		}

		coerced, failed := coerceValue(tbl, actual, v)
		if failed {
			log.Printf("coercion failed: column=%s value=%v, writing original value", actual, v)
			row[actual] = v
			continue
		}
		row[actual] = coerced
	}
}

// coerceValue 按目标列类型做尽力数值转换，返回结果与是否失败
// 非数值列不转换，照写原值
func coerceValue(tbl *model.Table, col string, v any) (any, bool) {
	if !tbl.ColumnIsNumeric(col) {
		return v, false
	}
	switch x := v.(type) {
	case nil:
		return nil, false
	case float64:
		return x, false
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return v, true
		}
		return f, false
	default:
		return v, true
	}
}
