package model

import (
	"encoding/json"
	"time"

	"github.com/pgvector/pgvector-go"
)

// Thread 研究会话，一次用户查询对应一条，独占其下所有数据
type Thread struct {
	ID             int              `json:"id" db:"id"`
	UserID         int              `json:"user_id" db:"user_id"`
	Name           string           `json:"name" db:"name"`
	Query          string           `json:"query" db:"query"`
	Country        string           `json:"country" db:"country"`
	Keywords       []string         `json:"keywords" db:"keywords"`
	QueryEmbedding *pgvector.Vector `json:"-" db:"query_embedding" gorm:"type:vector(768)"`
	CreatedAt      time.Time        `json:"created_at" db:"created_at"`
}

// DatasetColumns 六类数据各占一个 JSON 列；无数据的类存字面量 null
type DatasetColumns struct {
	RegionBreakdown  json.RawMessage `json:"region_breakdown" db:"region_breakdown"`
	RegionInterest   json.RawMessage `json:"region_interest" db:"region_interest"`
	InterestOverTime json.RawMessage `json:"interest_over_time" db:"interest_over_time"`
	RelatedQueries   json.RawMessage `json:"related_queries" db:"related_queries"`
	VideoResults     json.RawMessage `json:"video_results" db:"video_results"`
	ShoppingResults  json.RawMessage `json:"shopping_results" db:"shopping_results"`
}

// RawRecord raw_data 表一行，保存一次抓取的归一化结果
type RawRecord struct {
	ID          int            `json:"id" db:"id"`
	ThreadID    int            `json:"thread_id" db:"thread_id"`
	CreatedDate time.Time      `json:"created_date" db:"created_date"`
	Queries     []string       `json:"queries" db:"queries"`
	Data        DatasetColumns `json:"data"`
}

// ProcessedRecord processed_data 表一行，保存由 raw 推导出的排名汇总
type ProcessedRecord struct {
	ID          int            `json:"id" db:"id"`
	ThreadID    int            `json:"thread_id" db:"thread_id"`
	CreatedDate time.Time      `json:"created_date" db:"created_date"`
	Queries     []string       `json:"queries" db:"queries"`
	Data        DatasetColumns `json:"data"`
}

// Snapshot 线程的命名检查点，创建后不可变
type Snapshot struct {
	ID            int       `json:"id" db:"id"`
	ThreadID      int       `json:"thread_id" db:"thread_id"`
	Name          string    `json:"name" db:"name"`
	TimestampFrom time.Time `json:"timestamp_from" db:"timestamp_from"`
	TimestampTo   time.Time `json:"timestamp_to" db:"timestamp_to"`
}

// SnapshotRecord statistic_snapshots 表一行，快照时冻结的汇总数据
type SnapshotRecord struct {
	ThreadID    int            `json:"thread_id" db:"thread_id"`
	SnapshotID  int            `json:"snapshot_id" db:"snapshot_id"`
	CreatedDate time.Time      `json:"created_date" db:"created_date"`
	Data        DatasetColumns `json:"data"`
}

// Strategy 挂在快照下的策略记录，内容由上游生成方提供
type Strategy struct {
	ThreadID            int             `json:"thread_id" db:"thread_id"`
	SnapshotID          int             `json:"snapshot_id" db:"snapshot_id"`
	TargetAudience      json.RawMessage `json:"target_audience" db:"target_audience"`
	MarketingStrategies json.RawMessage `json:"marketing_strategies" db:"marketing_strategies"`
	TrendSummary        string          `json:"trend_summary" db:"trend_summary"`
	BrandName           string          `json:"brand_name" db:"brand_name"`
	BrandDescription    string          `json:"brand_description" db:"brand_description"`
	BrandSlogan         string          `json:"brand_slogan" db:"brand_slogan"`
	CreatedAt           time.Time       `json:"created_at" db:"created_at"`
}

// DashboardEntry 每日汇总的全站统计
type DashboardEntry struct {
	ID              int       `json:"id" db:"id"`
	TotalThreads    int       `json:"total_threads" db:"total_threads"`
	TotalUsers      int       `json:"total_users" db:"total_users"`
	TotalStrategies int       `json:"total_strategies" db:"total_strategies"`
	TotalStatistics int       `json:"total_statistics" db:"total_statistics"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// CountryCount 各国家的线程数分布
type CountryCount struct {
	Country string `json:"country" db:"country"`
	Count   int    `json:"count" db:"count"`
}
