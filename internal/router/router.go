package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/user/trendscope/internal/handler"
	"github.com/user/trendscope/internal/middleware"
)

// RegisterRoutes 注册所有路由
func RegisterRoutes(r *gin.Engine, h *handler.Handler) {
	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	// ==================== 看板（公开）====================
	api.GET("/dashboard", h.DashboardOverview)

	// ==================== 线程（需要身份）====================
	threads := api.Group("/threads")
	threads.Use(middleware.RequireAuth(h.Config.AppSecret))
	{
		threads.POST("", h.CreateThread)
		threads.GET("/user/:user_id", h.ListUserThreads)
		threads.GET("/metadata/:thread_id", h.ThreadMetadata)
		threads.PUT("/rename/:thread_id", h.RenameThread)
		threads.DELETE("/:thread_id", h.DeleteThread)
		threads.GET("/similar", h.SimilarThreads)

		threads.GET("/statistics/:thread_id", h.Statistics)
		threads.POST("/statistics/:thread_id", h.RefreshStatistics)

		threads.GET("/snapshot/:thread_id", h.ListSnapshots)
		threads.POST("/snapshot/:thread_id", h.TakeSnapshot)
		threads.GET("/snapshot/:thread_id/:snapshot_id", h.SnapshotData)
	}

	// ==================== 快照与策略（需要身份）====================
	snapshots := api.Group("/snapshots")
	snapshots.Use(middleware.RequireAuth(h.Config.AppSecret))
	{
		snapshots.DELETE("/:snapshot_id", h.DeleteSnapshot)
		snapshots.GET("/:snapshot_id/strategies", h.ListStrategies)
		snapshots.POST("/:snapshot_id/strategies", h.SaveStrategy)
	}
}
