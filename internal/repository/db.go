package repository

import (
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB 初始化数据库连接并建表
func InitDB(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("无法连接数据库: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// 测试连接
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库 ping 失败: %w", err)
	}

	// 设置连接池
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := migrate(db); err != nil {
		return nil, fmt.Errorf("建表失败: %w", err)
	}

	return db, nil
}

// migrate 执行建表语句，外键一律级联删除，保证线程删除时清掉全部派生数据
func migrate(db *gorm.DB) error {
	// 向量扩展可能未安装，失败时相似搜索不可用，其余功能不受影响
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS vector`).Error; err != nil {
		log.Printf("[DB] 创建 vector 扩展失败（相似线程搜索将不可用）: %v", err)
	}

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS threads (
			id SERIAL PRIMARY KEY,
			user_id INT NOT NULL,
			name VARCHAR(255) NOT NULL,
			query TEXT DEFAULT NULL,
			country VARCHAR(64) NOT NULL DEFAULT '',
			keywords TEXT[] DEFAULT NULL,
			query_embedding vector(768),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS raw_data (
			id SERIAL PRIMARY KEY,
			thread_id INT NOT NULL REFERENCES threads(id) ON DELETE CASCADE,
			created_date TIMESTAMPTZ NOT NULL,
			queries JSONB NOT NULL,
			region_breakdown JSONB,
			region_interest JSONB,
			interest_over_time JSONB,
			related_queries JSONB,
			video_results JSONB,
			shopping_results JSONB
		)`,
		`CREATE INDEX IF NOT EXISTS idx_raw_data_thread_created ON raw_data (thread_id, created_date DESC)`,
		`CREATE TABLE IF NOT EXISTS processed_data (
			id SERIAL PRIMARY KEY,
			thread_id INT NOT NULL REFERENCES threads(id) ON DELETE CASCADE,
			created_date TIMESTAMPTZ NOT NULL,
			queries JSONB NOT NULL,
			region_breakdown JSONB,
			region_interest JSONB,
			interest_over_time JSONB,
			related_queries JSONB,
			video_results JSONB,
			shopping_results JSONB
		)`,
		`CREATE INDEX IF NOT EXISTS idx_processed_data_thread_created ON processed_data (thread_id, created_date DESC)`,
		`CREATE TABLE IF NOT EXISTS thread_snapshots (
			id SERIAL PRIMARY KEY,
			thread_id INT NOT NULL REFERENCES threads(id) ON DELETE CASCADE,
			name VARCHAR(255) NOT NULL,
			timestamp_from DATE NOT NULL DEFAULT CURRENT_DATE,
			timestamp_to DATE NOT NULL DEFAULT CURRENT_DATE
		)`,
		`CREATE TABLE IF NOT EXISTS statistic_snapshots (
			thread_id INT NOT NULL REFERENCES threads(id) ON DELETE CASCADE,
			snapshot_id INT PRIMARY KEY REFERENCES thread_snapshots(id) ON DELETE CASCADE,
			created_date TIMESTAMPTZ NOT NULL,
			region_breakdown JSONB,
			region_interest JSONB,
			interest_over_time JSONB,
			related_queries JSONB,
			video_results JSONB,
			shopping_results JSONB
		)`,
		`CREATE TABLE IF NOT EXISTS strategy_snapshots (
			thread_id INT NOT NULL REFERENCES threads(id) ON DELETE CASCADE,
			snapshot_id INT NOT NULL REFERENCES thread_snapshots(id) ON DELETE CASCADE,
			target_audience JSONB,
			marketing_strategies JSONB,
			trend_summary TEXT NOT NULL DEFAULT '',
			brand_name VARCHAR(255) NOT NULL DEFAULT '',
			brand_description TEXT NOT NULL DEFAULT '',
			brand_slogan TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS dashboard (
			id SERIAL PRIMARY KEY,
			total_threads INT NOT NULL DEFAULT 0,
			total_users INT NOT NULL DEFAULT 0,
			total_strategies INT NOT NULL DEFAULT 0,
			total_statistics INT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}

	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

// Repositories 仓库集合
type Repositories struct {
	DB        *gorm.DB
	Thread    *ThreadRepository
	Dataset   *DatasetRepository
	Snapshot  *SnapshotRepository
	Strategy  *StrategyRepository
	Dashboard *DashboardRepository
}

// NewRepositories 创建仓库集合
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		DB:        db,
		Thread:    NewThreadRepository(db),
		Dataset:   NewDatasetRepository(db),
		Snapshot:  NewSnapshotRepository(db),
		Strategy:  NewStrategyRepository(db),
		Dashboard: NewDashboardRepository(db),
	}
}
