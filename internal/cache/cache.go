// Package cache 提供按文件路径键控的表格快照缓存
// 以文件修改时间判定失效，写入成功后由调用方显式驱逐
package cache

import (
	"os"
	"sync"
	"time"

	"reviewdesk/internal/model"
)

// LoadFunc 解析指定路径的表格文件
type LoadFunc func(path string) (*model.Table, error)

type entry struct {
	table    *model.Table
	modTime  time.Time
	loadedAt time.Time
}

// Cache 进程级表格缓存
// 单把互斥锁覆盖 检查-加载-存储 全过程，避免并发重复加载
type Cache struct {
	mu      sync.Mutex
	entries map[string]*entry
	load    LoadFunc
	now     func() time.Time
}

// Option 缓存可选配置
type Option func(*Cache)

// WithClock 注入时钟（测试用）
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// New 创建缓存实例
func New(load LoadFunc, opts ...Option) *Cache {
	c := &Cache{
		entries: make(map[string]*entry),
		load:    load,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get 返回路径对应的表格快照
// 命中且文件未变化时不触发解析；文件修改时间前移则重载并替换
// 返回值为深拷贝，调用方可安全修改
func (c *Cache) Get(path string) (*model.Table, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	info, err := os.Stat(path)
	if err != nil {
		// 文件消失时顺带清掉旧条目
		delete(c.entries, path)
		return nil, err
	}

	if e, ok := c.entries[path]; ok && !info.ModTime().After(e.modTime) {
		return e.table.Clone(), nil
	}

	tbl, err := c.load(path)
	if err != nil {
		// 加载失败不得残留半成品条目
		delete(c.entries, path)
		return nil, err
	}

	c.entries[path] = &entry{
		table:    tbl,
		modTime:  info.ModTime(),
		loadedAt: c.now(),
	}
	return tbl.Clone(), nil
}

// Invalidate 无条件移除条目
// 每次写盘成功后调用，保证下一次读取不落在过期快照上
func (c *Cache) Invalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, path)
}

// Len 当前条目数（状态接口用）
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
