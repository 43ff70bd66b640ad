package server

import (
	"log"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"reviewdesk/internal/api"
	"reviewdesk/internal/cache"
	"reviewdesk/internal/config"
	"reviewdesk/internal/engine"
	"reviewdesk/internal/journal"
	"reviewdesk/internal/persist"
	"reviewdesk/internal/service/table"
)

// Server HTTP 服务器
type Server struct {
	router  *gin.Engine
	engine  *engine.Engine
	journal *journal.Journal
	api     *api.Handler
}

// NewServer 创建服务器
func NewServer(cfg *config.AppConfig) *Server {
	devMode := cfg.Server.DevMode
	if !devMode {
		gin.SetMode(gin.ReleaseMode)
	}

	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		dataDir = cfg.Data.DataDir
	}

	// 初始化流水账
	jnl, err := journal.Open(filepath.Join(dataDir, "reviewdesk.db"))
	if err != nil {
		log.Fatalf("Failed to initialize journal: %v", err)
	}

	// 启动巡检：提示上次进程退出时悬挂的写入批次
	if pending, err := jnl.Pending(); err == nil && len(pending) > 0 {
		for _, p := range pending {
			log.Printf("pending update batch %s (state=%s, detail=%s)", p.BatchID, p.State, p.DetailPath)
		}
	}

	tableCache := cache.New(table.LoadFile)
	persister := persist.New(tableCache)
	eng := engine.New(cfg, dataDir, tableCache, persister, jnl)

	s := &Server{
		router:  gin.Default(),
		engine:  eng,
		journal: jnl,
		api:     api.NewHandler(eng),
	}

	s.setupRoutes(devMode)

	return s
}

// setupRoutes 设置路由
func (s *Server) setupRoutes(devMode bool) {
	// CORS
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, PUT, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	// API 路由
	apiGroup := s.router.Group("/api")
	{
		s.api.RegisterRoutes(apiGroup)
	}

	if devMode {
		// 开发模式：代理到前端开发服务器
		s.router.NoRoute(func(c *gin.Context) {
			c.Redirect(http.StatusTemporaryRedirect, "http://localhost:5173"+c.Request.URL.Path)
		})
	} else {
		// 生产模式：前端独立部署，根路径仅提示 API 入口
		s.router.NoRoute(func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"service": "reviewdesk", "api": "/api"})
		})
	}
}

// Run 启动服务器
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Close 释放服务器持有的资源
func (s *Server) Close() error {
	return s.journal.Close()
}
