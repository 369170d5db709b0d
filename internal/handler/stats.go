package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/user/trendscope/internal/model"
	"github.com/user/trendscope/internal/utils"
)

// Statistics 获取线程最新的排名汇总，没有 processed 时自动从 raw 重算
func (h *Handler) Statistics(c *gin.Context) {
	thread, ok := h.loadThread(c)
	if !ok {
		return
	}

	rec, err := h.Stats.Statistics(thread.ID)
	if err != nil {
		utils.ServerError(c, "获取统计数据失败")
		return
	}
	if rec == nil {
		utils.NotFound(c, "线程尚无数据")
		return
	}
	utils.Success(c, formatRecord(rec))
}

// RefreshStatistics 手动触发一轮抓取和重算
func (h *Handler) RefreshStatistics(c *gin.Context) {
	thread, ok := h.loadThread(c)
	if !ok {
		return
	}

	rec, err := h.Stats.Refresh(thread)
	if err != nil {
		utils.ServerError(c, "刷新数据失败")
		return
	}
	utils.SuccessWithMessage(c, "数据已刷新", formatRecord(rec))
}

// ListSnapshots 获取线程的快照列表
func (h *Handler) ListSnapshots(c *gin.Context) {
	thread, ok := h.loadThread(c)
	if !ok {
		return
	}

	snapshots, err := h.Repos.Snapshot.ListByThread(thread.ID)
	if err != nil {
		utils.ServerError(c, "获取快照列表失败")
		return
	}
	utils.Success(c, snapshots)
}

// TakeSnapshotRequest 创建快照请求，名称缺省用线程名
type TakeSnapshotRequest struct {
	Name string `json:"name"`
}

// TakeSnapshot 创建快照并冻结当前汇总
func (h *Handler) TakeSnapshot(c *gin.Context) {
	thread, ok := h.loadThread(c)
	if !ok {
		return
	}

	var req TakeSnapshotRequest
	// body 可以为空
	_ = c.ShouldBindJSON(&req)

	snapshot, err := h.Stats.TakeSnapshot(thread, req.Name)
	if err != nil {
		utils.ServerError(c, "创建快照失败")
		return
	}
	utils.SuccessWithMessage(c, "快照已创建", snapshot)
}

// SnapshotData 读取快照冻结的汇总数据
func (h *Handler) SnapshotData(c *gin.Context) {
	thread, ok := h.loadThread(c)
	if !ok {
		return
	}
	snapshotID, err := strconv.Atoi(c.Param("snapshot_id"))
	if err != nil {
		utils.BadRequest(c, "无效的快照 ID")
		return
	}

	rec, err := h.Repos.Dataset.GetSnapshotData(thread.ID, snapshotID)
	if err != nil {
		utils.ServerError(c, "获取快照数据失败")
		return
	}
	if rec == nil {
		utils.NotFound(c, "快照数据不存在")
		return
	}

	utils.Success(c, gin.H{
		"thread_id":    rec.ThreadID,
		"snapshot_id":  rec.SnapshotID,
		"created_date": rec.CreatedDate,
		"data":         formatColumns(rec.Data),
	})
}

// DeleteSnapshot 删除快照，冻结数据与策略由外键级联清除
func (h *Handler) DeleteSnapshot(c *gin.Context) {
	snapshotID, err := strconv.Atoi(c.Param("snapshot_id"))
	if err != nil {
		utils.BadRequest(c, "无效的快照 ID")
		return
	}

	deleted, err := h.Repos.Snapshot.Delete(snapshotID)
	if err != nil {
		utils.ServerError(c, "删除快照失败")
		return
	}
	if !deleted {
		utils.NotFound(c, "快照不存在")
		return
	}
	utils.SuccessWithMessage(c, "快照已删除", nil)
}

// ListStrategies 获取快照下的策略记录
func (h *Handler) ListStrategies(c *gin.Context) {
	snapshotID, err := strconv.Atoi(c.Param("snapshot_id"))
	if err != nil {
		utils.BadRequest(c, "无效的快照 ID")
		return
	}

	snapshot, err := h.Repos.Snapshot.FindByID(snapshotID)
	if err != nil {
		utils.ServerError(c, "查询快照失败")
		return
	}
	if snapshot == nil {
		utils.NotFound(c, "快照不存在")
		return
	}

	strategies, err := h.Repos.Strategy.ListBySnapshot(snapshot.ThreadID, snapshot.ID)
	if err != nil {
		utils.ServerError(c, "获取策略失败")
		return
	}
	utils.Success(c, strategies)
}

// SaveStrategy 保存上游生成方产出的策略记录
func (h *Handler) SaveStrategy(c *gin.Context) {
	snapshotID, err := strconv.Atoi(c.Param("snapshot_id"))
	if err != nil {
		utils.BadRequest(c, "无效的快照 ID")
		return
	}

	snapshot, err := h.Repos.Snapshot.FindByID(snapshotID)
	if err != nil {
		utils.ServerError(c, "查询快照失败")
		return
	}
	if snapshot == nil {
		utils.NotFound(c, "快照不存在")
		return
	}

	var strategy model.Strategy
	if err := c.ShouldBindJSON(&strategy); err != nil {
		utils.BadRequest(c, "参数错误: "+err.Error())
		return
	}
	strategy.ThreadID = snapshot.ThreadID
	strategy.SnapshotID = snapshot.ID

	if err := h.Repos.Strategy.Insert(&strategy); err != nil {
		utils.ServerError(c, "保存策略失败")
		return
	}
	utils.SuccessWithMessage(c, "策略已保存", nil)
}

// formatRecord 把 processed 记录整理成响应结构
func formatRecord(rec *model.ProcessedRecord) gin.H {
	return gin.H{
		"id":           rec.ID,
		"thread_id":    rec.ThreadID,
		"created_date": rec.CreatedDate,
		"queries":      rec.Queries,
		"data":         formatColumns(rec.Data),
	}
}

// formatColumns 六类 JSON 列原样透出，无数据的类保持 null
func formatColumns(cols model.DatasetColumns) gin.H {
	return gin.H{
		"region_breakdown":   cols.RegionBreakdown,
		"region_interest":    cols.RegionInterest,
		"interest_over_time": cols.InterestOverTime,
		"related_queries":    cols.RelatedQueries,
		"video_results":      cols.VideoResults,
		"shopping_results":   cols.ShoppingResults,
	}
}
