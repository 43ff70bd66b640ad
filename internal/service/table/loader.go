// Package table 负责表格文件的解析与序列化
// 支持 xlsx/xls/xlsm（excelize）与 csv（标准库）两类来源
package table

import (
	"fmt"
	"path/filepath"
	"strings"

	"reviewdesk/internal/model"
)

// Format 表格文件格式
type Format string

const (
	FormatCSV   Format = "csv"
	FormatExcel Format = "excel"
)

// DetectFormat 按扩展名识别文件格式
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx", ".xls", ".xlsm":
		return FormatExcel, nil
	default:
		return "", fmt.Errorf("unsupported file extension: %s", filepath.Ext(path))
	}
}

// LoadFile 解析表格文件为内存快照
// 首行视为列名；短行按 nil 补齐，保证所有行共享列集合
func LoadFile(path string) (*model.Table, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	var records [][]string
	switch format {
	case FormatCSV:
		records, err = readCSV(path)
	case FormatExcel:
		records, err = readExcel(path)
	}
	if err != nil {
		return nil, err
	}

	return buildTable(records)
}

// buildTable 把原始文本矩阵组装为 Table
func buildTable(records [][]string) (*model.Table, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("empty table: header row missing")
	}

	columns := make([]string, len(records[0]))
	for i, c := range records[0] {
		columns[i] = strings.TrimSpace(c)
	}

	tbl := &model.Table{
		Columns: columns,
		Rows:    make([]model.Row, 0, len(records)-1),
	}

	for _, rec := range records[1:] {
		row := make(model.Row, len(columns))
		for i, col := range columns {
			if i < len(rec) {
				row[col] = NormalizeValue(rec[i])
			} else {
				row[col] = nil
			}
		}
		tbl.Rows = append(tbl.Rows, row)
	}

	return tbl, nil
}

// Marshal 把表格序列化为指定格式的字节串
func Marshal(tbl *model.Table, format Format) ([]byte, error) {
	switch format {
	case FormatCSV:
		return marshalCSV(tbl)
	case FormatExcel:
		return marshalExcel(tbl)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}
