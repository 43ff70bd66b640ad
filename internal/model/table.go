package model

import "strings"

// Row 一行数据：列名 → 值
// 值类型为 string / float64 / bool / nil（nil 表示缺失）
type Row map[string]any

// Table 内存中的表格快照
// 列顺序由 Columns 决定，所有行共享同一列集合
type Table struct {
	Columns []string
	Rows    []Row
}

// ColumnIndex 按列名查找列下标（大小写不敏感）
// 未找到返回 -1
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if strings.EqualFold(c, name) {
			return i
		}
	}
	return -1
}

// ColumnName 按列名返回表内实际列名（大小写不敏感匹配）
func (t *Table) ColumnName(name string) (string, bool) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return "", false
	}
	return t.Columns[idx], true
}

// HasColumn 判断列是否存在（大小写不敏感）
func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// Clone 深拷贝表格（快照只读，读取方各自持有副本）
func (t *Table) Clone() *Table {
	if t == nil {
		return nil
	}
	out := &Table{
		Columns: make([]string, len(t.Columns)),
		Rows:    make([]Row, len(t.Rows)),
	}
	copy(out.Columns, t.Columns)
	for i, r := range t.Rows {
		nr := make(Row, len(r))
		for k, v := range r {
			nr[k] = v
		}
		out.Rows[i] = nr
	}
	return out
}

// ColumnIsNumeric 判断某列的已有非缺失值是否全部为数值
// 全列缺失视为非数值列
func (t *Table) ColumnIsNumeric(name string) bool {
	col, ok := t.ColumnName(name)
	if !ok {
		return false
	}
	seen := false
	for _, r := range t.Rows {
		v := r[col]
		if v == nil {
			continue
		}
		if _, ok := v.(float64); !ok {
			return false
		}
		seen = true
	}
	return seen
}
