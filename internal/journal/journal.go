// Package journal 提供更新批次的预写流水账
// 每批更新在写盘前登记为 pending，明细落位后推进为 detail_done，
// 两个文件都落位后标记 committed。崩溃在明细与汇总之间发生时，
// 重启后能从 pending 记录判断哪个文件悬而未决。
// 流水账只是簿记，记录系统仍然是平面文件本身。
package journal

import (
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaFS embed.FS

// 批次状态
const (
	StatePending    = "pending"
	StateDetailDone = "detail_done"
	StateCommitted  = "committed"
	StateFailed     = "failed"
)

// Entry 一条流水账记录
type Entry struct {
	BatchID     string
	DetailPath  string
	SummaryPath string
	State       string
	CreatedAt   time.Time
}

// Journal SQLite 预写流水账
type Journal struct {
	db *sql.DB
}

// Open 打开（必要时创建）流水账数据库
func Open(dbPath string) (*Journal, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping journal database: %w", err)
	}

	// SQLite 建议单连接
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	j := &Journal{db: db}
	if err := j.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize journal schema: %w", err)
	}
	return j, nil
}

// initSchema 初始化表结构
func (j *Journal) initSchema() error {
	schemaSQL, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("failed to read schema.sql: %w", err)
	}
	if _, err := j.db.Exec(string(schemaSQL)); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	return nil
}

// Begin 登记一个待写批次
func (j *Journal) Begin(batchID, detailPath, summaryPath string) error {
	_, err := j.db.Exec(
		`INSERT INTO update_batches (batch_id, detail_path, summary_path, state, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		batchID, detailPath, summaryPath, StatePending, time.Now().UTC(),
	)
	return err
}

// MarkDetailDone 明细文件已落位
func (j *Journal) MarkDetailDone(batchID string) error {
	return j.setState(batchID, StateDetailDone)
}

// Commit 批次完成
func (j *Journal) Commit(batchID string) error {
	return j.setState(batchID, StateCommitted)
}

// Fail 批次失败（保留现场供排查）
func (j *Journal) Fail(batchID string) error {
	return j.setState(batchID, StateFailed)
}

func (j *Journal) setState(batchID, state string) error {
	res, err := j.db.Exec(`UPDATE update_batches SET state = ? WHERE batch_id = ?`, state, batchID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("unknown batch %s", batchID)
	}
	return nil
}

// Pending 列出未完成的批次（启动时巡检用）
func (j *Journal) Pending() ([]Entry, error) {
	rows, err := j.db.Query(
		`SELECT batch_id, detail_path, summary_path, state, created_at
		 FROM update_batches
		 WHERE state IN (?, ?)
		 ORDER BY created_at, batch_id`,
		StatePending, StateDetailDone,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.BatchID, &e.DetailPath, &e.SummaryPath, &e.State, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Close 关闭数据库连接
func (j *Journal) Close() error {
	return j.db.Close()
}
