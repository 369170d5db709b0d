package repository

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/user/trendscope/internal/model"
	"gorm.io/gorm"
)

// DatasetRepository 管理 raw / processed / 快照 三代数据。
// raw 和 processed 只追加不更新，读取永远取最新一条。
type DatasetRepository struct {
	db *gorm.DB
}

func NewDatasetRepository(db *gorm.DB) *DatasetRepository {
	return &DatasetRepository{db: db}
}

// InsertRaw 追加一条 raw 记录，不删除历史行
func (r *DatasetRepository) InsertRaw(rec *model.RawRecord) error {
	queries, err := json.Marshal(rec.Queries)
	if err != nil {
		return err
	}
	rec.CreatedDate = time.Now()
	return r.db.Exec(`
		INSERT INTO raw_data (thread_id, created_date, queries,
			region_breakdown, region_interest, interest_over_time,
			related_queries, video_results, shopping_results)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, rec.ThreadID, rec.CreatedDate, queries,
		blob(rec.Data.RegionBreakdown), blob(rec.Data.RegionInterest),
		blob(rec.Data.InterestOverTime), blob(rec.Data.RelatedQueries),
		blob(rec.Data.VideoResults), blob(rec.Data.ShoppingResults)).Error
}

// LatestRaw 取线程最近一次抓取的 raw 记录，没有则返回 nil
func (r *DatasetRepository) LatestRaw(threadID int) (*model.RawRecord, error) {
	var rec model.RawRecord
	var queries []byte
	err := r.db.Raw(`
		SELECT id, thread_id, created_date, queries,
			region_breakdown, region_interest, interest_over_time,
			related_queries, video_results, shopping_results
		FROM raw_data
		WHERE thread_id = $1
		ORDER BY created_date DESC
		LIMIT 1
	`, threadID).Row().Scan(
		&rec.ID, &rec.ThreadID, &rec.CreatedDate, &queries,
		&rec.Data.RegionBreakdown, &rec.Data.RegionInterest,
		&rec.Data.InterestOverTime, &rec.Data.RelatedQueries,
		&rec.Data.VideoResults, &rec.Data.ShoppingResults,
	)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || err.Error() == "sql: no rows in result set" {
			return nil, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(queries, &rec.Queries); err != nil {
		return nil, err
	}
	return &rec, nil
}

// InsertProcessed 追加一条 processed 记录
func (r *DatasetRepository) InsertProcessed(rec *model.ProcessedRecord) error {
	queries, err := json.Marshal(rec.Queries)
	if err != nil {
		return err
	}
	rec.CreatedDate = time.Now()
	return r.db.Exec(`
		INSERT INTO processed_data (thread_id, created_date, queries,
			region_breakdown, region_interest, interest_over_time,
			related_queries, video_results, shopping_results)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, rec.ThreadID, rec.CreatedDate, queries,
		blob(rec.Data.RegionBreakdown), blob(rec.Data.RegionInterest),
		blob(rec.Data.InterestOverTime), blob(rec.Data.RelatedQueries),
		blob(rec.Data.VideoResults), blob(rec.Data.ShoppingResults)).Error
}

// LatestProcessed 取线程最新的 processed 记录，没有则返回 nil，
// 调用方应回退到 raw 数据重新计算
func (r *DatasetRepository) LatestProcessed(threadID int) (*model.ProcessedRecord, error) {
	var rec model.ProcessedRecord
	var queries []byte
	err := r.db.Raw(`
		SELECT id, thread_id, created_date, queries,
			region_breakdown, region_interest, interest_over_time,
			related_queries, video_results, shopping_results
		FROM processed_data
		WHERE thread_id = $1
		ORDER BY created_date DESC
		LIMIT 1
	`, threadID).Row().Scan(
		&rec.ID, &rec.ThreadID, &rec.CreatedDate, &queries,
		&rec.Data.RegionBreakdown, &rec.Data.RegionInterest,
		&rec.Data.InterestOverTime, &rec.Data.RelatedQueries,
		&rec.Data.VideoResults, &rec.Data.ShoppingResults,
	)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || err.Error() == "sql: no rows in result set" {
			return nil, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(queries, &rec.Queries); err != nil {
		return nil, err
	}
	return &rec, nil
}

// InsertSnapshotData 冻结当前汇总到快照下，只写一次，没有更新路径
func (r *DatasetRepository) InsertSnapshotData(rec *model.SnapshotRecord) error {
	rec.CreatedDate = time.Now()
	return r.db.Exec(`
		INSERT INTO statistic_snapshots (thread_id, snapshot_id, created_date,
			region_breakdown, region_interest, interest_over_time,
			related_queries, video_results, shopping_results)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, rec.ThreadID, rec.SnapshotID, rec.CreatedDate,
		blob(rec.Data.RegionBreakdown), blob(rec.Data.RegionInterest),
		blob(rec.Data.InterestOverTime), blob(rec.Data.RelatedQueries),
		blob(rec.Data.VideoResults), blob(rec.Data.ShoppingResults)).Error
}

// GetSnapshotData 读取快照冻结的数据，不存在返回 nil
func (r *DatasetRepository) GetSnapshotData(threadID, snapshotID int) (*model.SnapshotRecord, error) {
	var rec model.SnapshotRecord
	err := r.db.Raw(`
		SELECT thread_id, snapshot_id, created_date,
			region_breakdown, region_interest, interest_over_time,
			related_queries, video_results, shopping_results
		FROM statistic_snapshots
		WHERE thread_id = $1 AND snapshot_id = $2
	`, threadID, snapshotID).Row().Scan(
		&rec.ThreadID, &rec.SnapshotID, &rec.CreatedDate,
		&rec.Data.RegionBreakdown, &rec.Data.RegionInterest,
		&rec.Data.InterestOverTime, &rec.Data.RelatedQueries,
		&rec.Data.VideoResults, &rec.Data.ShoppingResults,
	)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || err.Error() == "sql: no rows in result set" {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}
