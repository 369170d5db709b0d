package repository

import (
	"errors"
	"time"

	"github.com/user/trendscope/internal/model"
	"gorm.io/gorm"
)

type SnapshotRepository struct {
	db *gorm.DB
}

func NewSnapshotRepository(db *gorm.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Create 创建快照，有效期从线程创建日起算，到快照当天为止
func (r *SnapshotRepository) Create(threadID int, name string, from time.Time) (*model.Snapshot, error) {
	var s model.Snapshot
	err := r.db.Raw(`
		INSERT INTO thread_snapshots (thread_id, name, timestamp_from, timestamp_to)
		VALUES ($1, $2, $3, CURRENT_DATE)
		RETURNING id, thread_id, name, timestamp_from, timestamp_to
	`, threadID, name, from).Row().Scan(
		&s.ID, &s.ThreadID, &s.Name, &s.TimestampFrom, &s.TimestampTo,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// FindByID 根据 ID 查找快照，不存在返回 nil
func (r *SnapshotRepository) FindByID(id int) (*model.Snapshot, error) {
	var s model.Snapshot
	err := r.db.Raw(`
		SELECT id, thread_id, name, timestamp_from, timestamp_to
		FROM thread_snapshots
		WHERE id = $1
	`, id).Row().Scan(&s.ID, &s.ThreadID, &s.Name, &s.TimestampFrom, &s.TimestampTo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || err.Error() == "sql: no rows in result set" {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// ListByThread 获取线程的全部快照
func (r *SnapshotRepository) ListByThread(threadID int) ([]*model.Snapshot, error) {
	rows, err := r.db.Raw(`
		SELECT id, thread_id, name, timestamp_from, timestamp_to
		FROM thread_snapshots
		WHERE thread_id = $1
		ORDER BY id
	`, threadID).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snapshots := []*model.Snapshot{}
	for rows.Next() {
		var s model.Snapshot
		if err := rows.Scan(&s.ID, &s.ThreadID, &s.Name, &s.TimestampFrom, &s.TimestampTo); err != nil {
			return nil, err
		}
		snapshots = append(snapshots, &s)
	}
	return snapshots, rows.Err()
}

// Delete 删除快照，冻结数据与策略记录由外键级联清除
func (r *SnapshotRepository) Delete(id int) (bool, error) {
	result := r.db.Exec(`DELETE FROM thread_snapshots WHERE id = $1`, id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
