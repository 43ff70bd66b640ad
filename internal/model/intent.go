package model

// UpdateIntent 一条行级更新意图
// 寻址方式二选一：复合业务键 (GroupID, Pattern) 或行下标 RowIndex
type UpdateIntent struct {
	GroupID  string         `json:"groupId"`
	Pattern  string         `json:"pattern"`
	RowIndex *int           `json:"rowIndex,omitempty"`
	Values   map[string]any `json:"values"`

	// 聚合元数据：不写入明细表，仅用于汇总表增量
	Cluster   string   `json:"cluster,omitempty"`
	UnitCount *float64 `json:"unitCount,omitempty"`
}

// ByKey 是否按复合业务键寻址
func (i *UpdateIntent) ByKey() bool {
	return i.RowIndex == nil
}

// UpdateResult 一批更新的执行结果
type UpdateResult struct {
	BatchID       string             `json:"batchId"`
	UpdatedRows   int                `json:"updatedRows"`
	ClusterDeltas map[string]float64 `json:"clusterDeltas"`
	DetailPath    string             `json:"detailPath"`
	SummaryPath   string             `json:"summaryPath,omitempty"`
}
