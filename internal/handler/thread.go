package handler

import (
	"log"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pgvector/pgvector-go"
	"github.com/user/trendscope/internal/middleware"
	"github.com/user/trendscope/internal/model"
	"github.com/user/trendscope/internal/utils"
)

// CreateThreadRequest 创建线程请求
type CreateThreadRequest struct {
	Name     string   `json:"name" binding:"required"`
	Query    string   `json:"query" binding:"required"`
	Country  string   `json:"country" binding:"omitempty,country"`
	Keywords []string `json:"keywords" binding:"required,min=1,max=5"`
}

// CreateThread 创建线程并完成首轮抓取。
// 抓取或落库失败时补偿删除刚建的线程，不留半初始化状态。
func (h *Handler) CreateThread(c *gin.Context) {
	var req CreateThreadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	userID := middleware.GetUserID(c)
	if userID == 0 {
		utils.Unauthorized(c, "未登录")
		return
	}

	thread := &model.Thread{
		UserID:   userID,
		Name:     req.Name,
		Query:    req.Query,
		Country:  req.Country,
		Keywords: req.Keywords,
	}

	// 查询向量用于相似线程搜索，生成失败不阻塞创建
	if emb, err := utils.GenerateEmbedding(req.Query); err != nil {
		log.Printf("[Threads] 生成查询向量失败: %v", err)
	} else {
		v := pgvector.NewVector(emb)
		thread.QueryEmbedding = &v
	}

	if err := h.Repos.Thread.Create(thread); err != nil {
		utils.ServerError(c, "创建线程失败")
		return
	}

	rec, err := h.Stats.Refresh(thread)
	if err != nil {
		log.Printf("[Threads] 首轮抓取失败，补偿删除线程 thread_id=%d: %v", thread.ID, err)
		if _, derr := h.Repos.Thread.Delete(thread.ID); derr != nil {
			log.Printf("[Threads] 补偿删除线程失败 thread_id=%d: %v", thread.ID, derr)
		}
		utils.ServerError(c, "初始化线程数据失败")
		return
	}

	utils.SuccessWithMessage(c, "线程创建成功", gin.H{
		"thread":     thread,
		"statistics": formatRecord(rec),
	})
}

// ListUserThreads 获取用户的线程列表
func (h *Handler) ListUserThreads(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("user_id"))
	if err != nil {
		utils.BadRequest(c, "无效的用户 ID")
		return
	}

	threads, err := h.Repos.Thread.ListByUser(userID)
	if err != nil {
		utils.ServerError(c, "获取线程列表失败")
		return
	}
	utils.Success(c, threads)
}

// ThreadMetadata 获取线程元数据
func (h *Handler) ThreadMetadata(c *gin.Context) {
	thread, ok := h.loadThread(c)
	if !ok {
		return
	}
	utils.Success(c, thread)
}

// RenameThreadRequest 重命名请求
type RenameThreadRequest struct {
	Name string `json:"name" binding:"required"`
}

// RenameThread 重命名线程
func (h *Handler) RenameThread(c *gin.Context) {
	threadID, err := strconv.Atoi(c.Param("thread_id"))
	if err != nil {
		utils.BadRequest(c, "无效的线程 ID")
		return
	}

	var req RenameThreadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	renamed, err := h.Repos.Thread.Rename(threadID, req.Name)
	if err != nil {
		utils.ServerError(c, "重命名失败")
		return
	}
	if !renamed {
		utils.NotFound(c, "线程不存在")
		return
	}
	utils.Success(c, gin.H{"id": threadID, "name": req.Name})
}

// DeleteThread 删除线程及其全部派生数据
func (h *Handler) DeleteThread(c *gin.Context) {
	threadID, err := strconv.Atoi(c.Param("thread_id"))
	if err != nil {
		utils.BadRequest(c, "无效的线程 ID")
		return
	}

	deleted, err := h.Repos.Thread.Delete(threadID)
	if err != nil {
		utils.ServerError(c, "删除线程失败")
		return
	}
	if !deleted {
		utils.NotFound(c, "线程不存在")
		return
	}

	h.Stats.Invalidate(threadID)
	utils.SuccessWithMessage(c, "线程已删除", nil)
}

// SimilarThreads 按查询文本搜索相似线程
func (h *Handler) SimilarThreads(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		utils.BadRequest(c, "缺少 query 参数")
		return
	}

	emb, err := utils.GenerateEmbedding(query)
	if err != nil {
		utils.ServerError(c, "生成查询向量失败")
		return
	}

	threads, err := h.Repos.Thread.FindSimilar(pgvector.NewVector(emb), 5)
	if err != nil {
		utils.ServerError(c, "搜索相似线程失败")
		return
	}
	utils.Success(c, threads)
}

// loadThread 读取路径里的线程并校验存在性
func (h *Handler) loadThread(c *gin.Context) (*model.Thread, bool) {
	threadID, err := strconv.Atoi(c.Param("thread_id"))
	if err != nil {
		utils.BadRequest(c, "无效的线程 ID")
		return nil, false
	}

	thread, err := h.Repos.Thread.FindByID(threadID)
	if err != nil {
		utils.ServerError(c, "查询线程失败")
		return nil, false
	}
	if thread == nil {
		utils.NotFound(c, "线程不存在")
		return nil, false
	}
	return thread, true
}
