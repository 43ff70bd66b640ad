package engine

import (
	"strings"

	"reviewdesk/internal/model"
)

// 汇总表状态字样
const (
	statusPartiallyReviewed = "Partially Reviewed"
	statusReviewed          = "Reviewed"
)

// clusterDelta 单个簇的累计量
type clusterDelta struct {
	name string // 首次出现时的原始大小写，新建汇总行时使用
	qty  float64
}

// deltaSet 簇名（折叠大小写）→ 累计量
type deltaSet map[string]*clusterDelta

// accumulate 累加一条意图的簇增量
// 仅当新决策值等于哨兵（"No Change"，大小写不敏感）时参与聚合，
// 其余决策是纯行级编辑，不影响汇总
func (e *Engine) accumulate(deltas deltaSet, tbl *model.Table, rowIdx int, intent *model.UpdateIntent) {
	decisionCol, ok := tbl.ColumnName(e.schema.DecisionColumn)
	if !ok {
		return
	}
	decision, ok := intent.Values[decisionCol]
	if !ok {
		// 意图可能用不同大小写写列名
		for k, v := range intent.Values {
			if strings.EqualFold(k, decisionCol) {
				decision = v
				ok = true
				break
			}
		}
	}
	if !ok || !strings.EqualFold(strings.TrimSpace(cellText(decision)), e.sentinel) {
		return
	}

	cluster := strings.TrimSpace(intent.Cluster)
	if cluster == "" {
		// 意图未携带簇名时回落到行内 cluster 列
		if col, ok := tbl.ColumnName(e.schema.ClusterColumn); ok {
			cluster = strings.TrimSpace(cellText(tbl.Rows[rowIdx][col]))
		}
	}
	if cluster == "" {
		return
	}

	qty := e.unitCount(tbl, rowIdx, intent)

	key := strings.ToLower(cluster)
	d, ok := deltas[key]
	if !ok {
		d = &clusterDelta{name: cluster}
		deltas[key] = d
	}
	d.qty += qty
}

// unitCount 该意图对应的移动量
// 优先取意图自带的 unitCount，其次取行内工单数列，兜底为 1
func (e *Engine) unitCount(tbl *model.Table, rowIdx int, intent *model.UpdateIntent) float64 {
	if intent.UnitCount != nil {
		return *intent.UnitCount
	}
	if col, ok := tbl.ColumnName(e.schema.CountColumn); ok {
		if f, ok := toFloat(tbl.Rows[rowIdx][col]); ok {
			return f
		}
	}
	return 1
}

// reconcile 把累计增量套用到汇总表
// 每移动 Q 个单位到"无变化"：increase −= Q，decrease += Q，
// scope 列若存在则 += Q；簇不存在则追加新行。
// increase 允许越过零变负，这是领域规则的已知不对称
func (e *Engine) reconcile(summary *model.Table, deltas deltaSet) error {
	clusterCol, ok := summary.ColumnName(e.schema.SummaryCluster)
	if !ok {
		return Errorf(KindSchemaViolation, "summary table missing column %q", e.schema.SummaryCluster)
	}
	incCol, ok := summary.ColumnName(e.schema.SummaryIncrease)
	if !ok {
		return Errorf(KindSchemaViolation, "summary table missing column %q", e.schema.SummaryIncrease)
	}
	decCol, ok := summary.ColumnName(e.schema.SummaryDecrease)
	if !ok {
		return Errorf(KindSchemaViolation, "summary table missing column %q", e.schema.SummaryDecrease)
	}
	statusCol, ok := summary.ColumnName(e.schema.SummaryStatus)
	if !ok {
		return Errorf(KindSchemaViolation, "summary table missing column %q", e.schema.SummaryStatus)
	}
	scopeCol, hasScope := summary.ColumnName(e.schema.SummaryScope)

	for key, d := range deltas {
		row := findClusterRow(summary, clusterCol, key)
		if row == nil {
			row = make(model.Row, len(summary.Columns))
			for _, c := range summary.Columns {
				row[c] = nil
			}
			row[clusterCol] = d.name
			row[incCol] = 0.0
			row[decCol] = 0.0
			if hasScope {
				row[scopeCol] = 0.0
			}
			summary.Rows = append(summary.Rows, row)
		}

		inc, _ := toFloat(row[incCol])
		dec, _ := toFloat(row[decCol])

		inc -= d.qty
		dec += d.qty
		row[incCol] = inc
		row[decCol] = dec

		if hasScope {
			scope, _ := toFloat(row[scopeCol])
			row[scopeCol] = scope + d.qty
		}

		row[statusCol] = deriveStatus(inc)
	}
	return nil
}

// findClusterRow 按折叠大小写的簇名定位汇总行
func findClusterRow(summary *model.Table, clusterCol, foldedName string) model.Row {
	for _, row := range summary.Rows {
		if strings.ToLower(strings.TrimSpace(cellText(row[clusterCol]))) == foldedName {
			return row
		}
	}
	return nil
}

// deriveStatus 由剩余待增数推导状态
func deriveStatus(increase float64) string {
	if increase > 0 {
		return statusPartiallyReviewed
	}
	return statusReviewed
}
