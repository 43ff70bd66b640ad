// Package engine 实现表格缓存与对账引擎
// 一次更新请求按 Validating→Matching→Mutating→Reconciling→Persisting
// 推进，任一阶段失败整批作废；失败的请求不可续跑，重试从头读取
// 当前文件状态
package engine

import (
	"os"

	"github.com/google/uuid"

	"reviewdesk/internal/cache"
	"reviewdesk/internal/config"
	"reviewdesk/internal/journal"
	"reviewdesk/internal/model"
	"reviewdesk/internal/persist"
)

// Engine 缓存与对账引擎
// 对传输层不可知：输入定位符与意图列表，输出类型化结果或结构化错误
type Engine struct {
	cache     *cache.Cache
	persister *persist.Persister
	journal   *journal.Journal // 可为 nil（测试或无簿记场景）
	locks     *pathLocks

	schema   config.SchemaConfig
	sentinel string
	strict   bool
	dataDir  string
}

// New 创建引擎
func New(cfg *config.AppConfig, dataDir string, c *cache.Cache, p *persist.Persister, j *journal.Journal) *Engine {
	return &Engine{
		cache:     c,
		persister: p,
		journal:   j,
		locks:     newPathLocks(),
		schema:    cfg.Schema,
		sentinel:  cfg.Review.DecisionSentinel,
		strict:    cfg.Review.StrictCoercion,
		dataDir:   dataDir,
	}
}

// DataDir 引擎的数据目录
func (e *Engine) DataDir() string {
	return e.dataDir
}

// Rows 返回定位符对应明细表的当前行
// 快照为每请求副本，调用方修改不会串扰其他请求
func (e *Engine) Rows(loc Locator) (*model.Table, error) {
	detailPath, _, err := loc.Resolve(e.dataDir)
	if err != nil {
		return nil, err
	}

	tbl, err := e.cache.Get(detailPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, Errorf(KindNotFound, "file %q not found", detailPath)
		}
		return nil, WrapIO("load "+detailPath, err)
	}
	return tbl, nil
}

// Update 执行一批更新意图
// 干跑解析全部意图之后才开始改动任何行；
// 明细/汇总文件对上的锁贯穿匹配到落盘全程
func (e *Engine) Update(loc Locator, intents []model.UpdateIntent) (*model.UpdateResult, error) {
	// Validating
	detailPath, summaryPath, err := loc.Resolve(e.dataDir)
	if err != nil {
		return nil, err
	}
	if len(intents) == 0 {
		return nil, Errorf(KindValidationFailure, "update batch is empty")
	}

	unlock := e.locks.acquire(detailPath)
	defer unlock()

	detail, err := e.cache.Get(detailPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, Errorf(KindNotFound, "file %q not found", detailPath)
		}
		return nil, WrapIO("load "+detailPath, err)
	}

	// Matching：干跑解析，全部意图可定位且列值合法才继续
	refs := make([]int, len(intents))
	for i := range intents {
		idx, err := e.resolveIntent(detail, &intents[i])
		if err != nil {
			return nil, err
		}
		if err := e.validateValues(detail, &intents[i]); err != nil {
			return nil, err
		}
		refs[i] = idx
	}

	// Mutating + 聚合累计
	deltas := make(deltaSet)
	for i := range intents {
		e.applyValues(detail, refs[i], &intents[i])
		e.accumulate(deltas, detail, refs[i], &intents[i])
	}

	// Reconciling：只有出现簇增量时才触碰汇总表
	var summary *model.Table
	if len(deltas) > 0 {
		summary, err = e.cache.Get(summaryPath)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, Errorf(KindNotFound, "summary file %q not found", summaryPath)
			}
			return nil, WrapIO("load "+summaryPath, err)
		}
		if err := e.reconcile(summary, deltas); err != nil {
			return nil, err
		}
	}

	// Persisting
	batchID := uuid.New().String()
	if e.journal != nil {
		sp := ""
		if summary != nil {
			sp = summaryPath
		}
		if err := e.journal.Begin(batchID, detailPath, sp); err != nil {
			return nil, WrapIO("journal begin", err)
		}
	}

	var afterDetail func() error
	if e.journal != nil {
		afterDetail = func() error {
			return e.journal.MarkDetailDone(batchID)
		}
	}

	if err := e.persister.Commit(detail, detailPath, summary, summaryPath, afterDetail); err != nil {
		// 流水账停留在 pending / detail_done，供重启后巡检悬挂的写入
		return nil, WrapIO("commit batch "+batchID, err)
	}

	if e.journal != nil {
		if err := e.journal.Commit(batchID); err != nil {
			return nil, WrapIO("journal commit", err)
		}
	}

	result := &model.UpdateResult{
		BatchID:       batchID,
		UpdatedRows:   len(intents),
		ClusterDeltas: make(map[string]float64, len(deltas)),
		DetailPath:    detailPath,
	}
	if summary != nil {
		result.SummaryPath = summaryPath
	}
	for _, d := range deltas {
		result.ClusterDeltas[d.name] = d.qty
	}
	return result, nil
}
