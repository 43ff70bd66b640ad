// Package persist 负责把内存表快照写回磁盘
// 先写临时文件再改名落位，任何时刻磁盘上不存在半成品文件
package persist

import (
	"bytes"
	"fmt"

	"github.com/natefinch/atomic"

	"reviewdesk/internal/model"
	"reviewdesk/internal/service/table"
)

// Invalidator 写盘成功后驱逐缓存条目
type Invalidator interface {
	Invalidate(path string)
}

// Persister 表格落盘器
type Persister struct {
	cache Invalidator
}

// New 创建落盘器
func New(cache Invalidator) *Persister {
	return &Persister{cache: cache}
}

// Commit 提交明细表与（可选的）汇总表
// 固定顺序：先明细后汇总；每个文件写成功后立即驱逐其缓存条目。
// 写失败即中止且不驱逐——宁可缓存短暂过期，也不能丢掉"写了一半"的痕迹。
// afterDetail 在明细落位之后、汇总写入之前回调（流水账记录点），可为 nil
func (p *Persister) Commit(detail *model.Table, detailPath string, summary *model.Table, summaryPath string, afterDetail func() error) error {
	if err := p.writeTable(detail, detailPath); err != nil {
		return fmt.Errorf("persist detail %s: %w", detailPath, err)
	}
	p.cache.Invalidate(detailPath)

	if afterDetail != nil {
		if err := afterDetail(); err != nil {
			return err
		}
	}

	if summary == nil {
		return nil
	}

	if err := p.writeTable(summary, summaryPath); err != nil {
		return fmt.Errorf("persist summary %s: %w", summaryPath, err)
	}
	p.cache.Invalidate(summaryPath)
	return nil
}

// writeTable 序列化并原子落盘
func (p *Persister) writeTable(tbl *model.Table, path string) error {
	format, err := table.DetectFormat(path)
	if err != nil {
		return err
	}

	data, err := table.Marshal(tbl, format)
	if err != nil {
		return err
	}

	return atomic.WriteFile(path, bytes.NewReader(data))
}
