package repository

import (
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
	"github.com/user/trendscope/internal/model"
	"gorm.io/gorm"
)

type ThreadRepository struct {
	db *gorm.DB
}

func NewThreadRepository(db *gorm.DB) *ThreadRepository {
	return &ThreadRepository{db: db}
}

// Create 创建线程，回填 ID 与创建时间
func (r *ThreadRepository) Create(t *model.Thread) error {
	t.CreatedAt = time.Now()
	return r.db.Raw(`
		INSERT INTO threads (user_id, name, query, country, keywords, query_embedding, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, t.UserID, t.Name, t.Query, t.Country, pq.Array(t.Keywords), t.QueryEmbedding, t.CreatedAt).
		Row().Scan(&t.ID)
}

// FindByID 根据 ID 查找线程，不存在返回 nil
func (r *ThreadRepository) FindByID(id int) (*model.Thread, error) {
	var t model.Thread
	err := r.db.Raw(`
		SELECT id, user_id, name, query, country, keywords, created_at
		FROM threads
		WHERE id = $1
	`, id).Row().Scan(
		&t.ID, &t.UserID, &t.Name, &t.Query, &t.Country,
		pq.Array(&t.Keywords), &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || err.Error() == "sql: no rows in result set" {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

// ListByUser 获取用户的全部线程
func (r *ThreadRepository) ListByUser(userID int) ([]*model.Thread, error) {
	rows, err := r.db.Raw(`
		SELECT id, user_id, name, query, country, keywords, created_at
		FROM threads
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	threads := []*model.Thread{}
	for rows.Next() {
		var t model.Thread
		if err := rows.Scan(&t.ID, &t.UserID, &t.Name, &t.Query, &t.Country,
			pq.Array(&t.Keywords), &t.CreatedAt); err != nil {
			return nil, err
		}
		threads = append(threads, &t)
	}
	return threads, rows.Err()
}

// All 获取全部线程（定时刷新用）
func (r *ThreadRepository) All() ([]*model.Thread, error) {
	rows, err := r.db.Raw(`
		SELECT id, user_id, name, query, country, keywords, created_at
		FROM threads
		ORDER BY id
	`).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	threads := []*model.Thread{}
	for rows.Next() {
		var t model.Thread
		if err := rows.Scan(&t.ID, &t.UserID, &t.Name, &t.Query, &t.Country,
			pq.Array(&t.Keywords), &t.CreatedAt); err != nil {
			return nil, err
		}
		threads = append(threads, &t)
	}
	return threads, rows.Err()
}

// Rename 更新线程名称，线程不存在时返回 false
func (r *ThreadRepository) Rename(id int, name string) (bool, error) {
	result := r.db.Exec(`UPDATE threads SET name = $1 WHERE id = $2`, name, id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Delete 删除线程，raw/processed/快照数据由外键级联清除
func (r *ThreadRepository) Delete(id int) (bool, error) {
	result := r.db.Exec(`DELETE FROM threads WHERE id = $1`, id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// FindSimilar 按查询向量的余弦距离搜索最相近的线程
func (r *ThreadRepository) FindSimilar(embedding pgvector.Vector, limit int) ([]*model.Thread, error) {
	rows, err := r.db.Raw(`
		SELECT id, user_id, name, query, country, keywords, created_at
		FROM threads
		WHERE query_embedding IS NOT NULL
		ORDER BY query_embedding <=> $1
		LIMIT $2
	`, embedding, limit).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	threads := []*model.Thread{}
	for rows.Next() {
		var t model.Thread
		if err := rows.Scan(&t.ID, &t.UserID, &t.Name, &t.Query, &t.Country,
			pq.Array(&t.Keywords), &t.CreatedAt); err != nil {
			return nil, err
		}
		threads = append(threads, &t)
	}
	return threads, rows.Err()
}
