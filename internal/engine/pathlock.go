package engine

import "sync"

// pathLocks 按路径键控的互斥锁注册表
// 同一明细/汇总文件对上的更新必须全程串行（Matching→Persisting），
// 否则两个请求会基于同一份旧汇总基数各自套增量，造成丢失更新
type pathLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newPathLocks() *pathLocks {
	return &pathLocks{locks: make(map[string]*sync.Mutex)}
}

// acquire 锁定路径并返回解锁函数
func (p *pathLocks) acquire(path string) func() {
	p.mu.Lock()
	l, ok := p.locks[path]
	if !ok {
		l = &sync.Mutex{}
		p.locks[path] = l
	}
	p.mu.Unlock()

	l.Lock()
	return l.Unlock
}
