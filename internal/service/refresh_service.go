package service

import (
	"log"
	"time"

	"github.com/user/trendscope/internal/repository"
)

// RefreshService 定时刷新服务，每天为所有线程重新抓取一轮数据
type RefreshService struct {
	repos *repository.Repositories
	stats *StatsService
}

// NewRefreshService 创建定时刷新服务
func NewRefreshService(repos *repository.Repositories, stats *StatsService) *RefreshService {
	return &RefreshService{repos: repos, stats: stats}
}

// Start 启动定时刷新任务
func (s *RefreshService) Start() {
	ticker := time.NewTicker(24 * time.Hour)

	go func() {
		for range ticker.C {
			s.runRefresh()
		}
	}()
}

func (s *RefreshService) runRefresh() {
	log.Println("[RefreshService] 开始定时刷新全部线程...")

	threads, err := s.repos.Thread.All()
	if err != nil {
		log.Printf("[RefreshService] 获取线程列表失败: %v", err)
		return
	}

	var failed int
	for _, thread := range threads {
		if _, err := s.stats.Refresh(thread); err != nil {
			// 单个线程失败不中断整轮刷新
			log.Printf("[RefreshService] 刷新失败 thread_id=%d: %v", thread.ID, err)
			failed++
		}
	}

	log.Printf("[RefreshService] 刷新完成，共 %d 个线程，失败 %d 个", len(threads), failed)
}
