package repository

import (
	"errors"
	"time"

	"github.com/user/trendscope/internal/model"
	"gorm.io/gorm"
)

type DashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

// Counts 汇总全站统计量。统计数按 processed_data 中非 null 的类目列计数，
// 用户数按线程归属去重统计（用户表由外部系统持有）。
func (r *DashboardRepository) Counts() (*model.DashboardEntry, error) {
	var e model.DashboardEntry
	err := r.db.Raw(`
		SELECT
			(SELECT COUNT(id) FROM threads),
			(SELECT COUNT(DISTINCT user_id) FROM threads),
			(SELECT COUNT(*) FROM strategy_snapshots),
			(SELECT COALESCE(SUM(
				(region_breakdown::text != 'null')::int +
				(region_interest::text != 'null')::int +
				(interest_over_time::text != 'null')::int +
				(related_queries::text != 'null')::int +
				(video_results::text != 'null')::int +
				(shopping_results::text != 'null')::int
			), 0) FROM processed_data)
	`).Row().Scan(&e.TotalThreads, &e.TotalUsers, &e.TotalStrategies, &e.TotalStatistics)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Insert 写入一条每日汇总
func (r *DashboardRepository) Insert(e *model.DashboardEntry) error {
	e.CreatedAt = time.Now()
	return r.db.Exec(`
		INSERT INTO dashboard (total_threads, total_users, total_strategies, total_statistics, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, e.TotalThreads, e.TotalUsers, e.TotalStrategies, e.TotalStatistics, e.CreatedAt).Error
}

// Previous 取前一天的汇总，用于计算日环比，没有则返回 nil
func (r *DashboardRepository) Previous() (*model.DashboardEntry, error) {
	var e model.DashboardEntry
	err := r.db.Raw(`
		SELECT id, total_threads, total_users, total_strategies, total_statistics, created_at
		FROM dashboard
		WHERE created_at::date = CURRENT_DATE - 1
		ORDER BY created_at ASC
		LIMIT 1
	`).Row().Scan(&e.ID, &e.TotalThreads, &e.TotalUsers, &e.TotalStrategies,
		&e.TotalStatistics, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || err.Error() == "sql: no rows in result set" {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

// CountryDistribution 各国家的线程数分布
func (r *DashboardRepository) CountryDistribution() ([]*model.CountryCount, error) {
	rows, err := r.db.Raw(`
		SELECT country, COUNT(*) AS count
		FROM threads
		GROUP BY country
		ORDER BY count DESC
	`).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := []*model.CountryCount{}
	for rows.Next() {
		var c model.CountryCount
		if err := rows.Scan(&c.Country, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, &c)
	}
	return counts, rows.Err()
}
