package repository

import (
	"time"

	"github.com/user/trendscope/internal/model"
	"gorm.io/gorm"
)

type StrategyRepository struct {
	db *gorm.DB
}

func NewStrategyRepository(db *gorm.DB) *StrategyRepository {
	return &StrategyRepository{db: db}
}

// Insert 保存一条策略记录，内容由上游生成方提供
func (r *StrategyRepository) Insert(s *model.Strategy) error {
	s.CreatedAt = time.Now()
	return r.db.Exec(`
		INSERT INTO strategy_snapshots (thread_id, snapshot_id, target_audience,
			marketing_strategies, trend_summary, brand_name, brand_description,
			brand_slogan, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, s.ThreadID, s.SnapshotID, blob(s.TargetAudience), blob(s.MarketingStrategies),
		s.TrendSummary, s.BrandName, s.BrandDescription, s.BrandSlogan, s.CreatedAt).Error
}

// ListBySnapshot 获取快照下的策略记录
func (r *StrategyRepository) ListBySnapshot(threadID, snapshotID int) ([]*model.Strategy, error) {
	rows, err := r.db.Raw(`
		SELECT thread_id, snapshot_id, target_audience, marketing_strategies,
			trend_summary, brand_name, brand_description, brand_slogan, created_at
		FROM strategy_snapshots
		WHERE thread_id = $1 AND snapshot_id = $2
	`, threadID, snapshotID).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	strategies := []*model.Strategy{}
	for rows.Next() {
		var s model.Strategy
		if err := rows.Scan(&s.ThreadID, &s.SnapshotID, &s.TargetAudience,
			&s.MarketingStrategies, &s.TrendSummary, &s.BrandName,
			&s.BrandDescription, &s.BrandSlogan, &s.CreatedAt); err != nil {
			return nil, err
		}
		strategies = append(strategies, &s)
	}
	return strategies, rows.Err()
}
