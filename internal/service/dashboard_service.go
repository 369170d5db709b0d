package service

import (
	"log"
	"time"

	"github.com/user/trendscope/internal/model"
	"github.com/user/trendscope/internal/repository"
)

// DashboardService 每天汇总一次全站统计写入 dashboard 表
type DashboardService struct {
	repos *repository.Repositories
}

// NewDashboardService 创建汇总服务
func NewDashboardService(repos *repository.Repositories) *DashboardService {
	return &DashboardService{repos: repos}
}

// Start 启动定时汇总任务
func (s *DashboardService) Start() {
	ticker := time.NewTicker(24 * time.Hour)

	// 启动时先跑一次
	go s.runAggregation()

	go func() {
		for range ticker.C {
			s.runAggregation()
		}
	}()
}

func (s *DashboardService) runAggregation() {
	entry, err := s.repos.Dashboard.Counts()
	if err != nil {
		log.Printf("[DashboardService] 汇总统计失败: %v", err)
		return
	}
	if err := s.repos.Dashboard.Insert(entry); err != nil {
		log.Printf("[DashboardService] 写入汇总失败: %v", err)
		return
	}
	log.Printf("[DashboardService] 已写入每日汇总 threads=%d users=%d strategies=%d statistics=%d",
		entry.TotalThreads, entry.TotalUsers, entry.TotalStrategies, entry.TotalStatistics)
}

// Overview 当前统计与日环比，供看板接口使用
type Overview struct {
	Totals    *model.DashboardEntry `json:"totals"`
	Deltas    map[string]int        `json:"deltas"`
	Countries []*model.CountryCount `json:"countries"`
}

// GetOverview 实时汇总当前统计，并与昨日对比
func (s *DashboardService) GetOverview() (*Overview, error) {
	totals, err := s.repos.Dashboard.Counts()
	if err != nil {
		return nil, err
	}

	deltas := map[string]int{}
	if prev, err := s.repos.Dashboard.Previous(); err == nil && prev != nil {
		deltas["threads"] = totals.TotalThreads - prev.TotalThreads
		deltas["users"] = totals.TotalUsers - prev.TotalUsers
		deltas["strategies"] = totals.TotalStrategies - prev.TotalStrategies
		deltas["statistics"] = totals.TotalStatistics - prev.TotalStatistics
	}

	countries, err := s.repos.Dashboard.CountryDistribution()
	if err != nil {
		return nil, err
	}

	return &Overview{Totals: totals, Deltas: deltas, Countries: countries}, nil
}
