package table

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"

	"reviewdesk/internal/model"
)

// readCSV 读取 csv 文件为文本矩阵
func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	// 行内列数不强制一致，交由 buildTable 补齐
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv %s: %w", path, err)
	}
	return records, nil
}

// marshalCSV 表格序列化为 csv 字节串
func marshalCSV(tbl *model.Table) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(tbl.Columns); err != nil {
		return nil, err
	}

	rec := make([]string, len(tbl.Columns))
	for _, row := range tbl.Rows {
		for i, col := range tbl.Columns {
			rec[i] = FormatValue(row[col])
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
