package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/user/trendscope/internal/utils"
)

// DashboardOverview 全站统计看板
func (h *Handler) DashboardOverview(c *gin.Context) {
	overview, err := h.Dashboard.GetOverview()
	if err != nil {
		utils.ServerError(c, "获取看板数据失败")
		return
	}
	utils.Success(c, overview)
}
