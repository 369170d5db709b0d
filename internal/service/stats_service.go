package service

import (
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/user/trendscope/internal/model"
	"github.com/user/trendscope/internal/repository"
	"github.com/user/trendscope/internal/trends"
	"github.com/user/trendscope/internal/utils"
	"golang.org/x/sync/singleflight"
)

// StatsService 数据生命周期的编排：抓取 → 归一化 → 存 raw → 排名 → 存 processed。
// 同一线程的并发刷新用 singleflight 合并，避免重复抓取和对"最新一条"的写竞争。
type StatsService struct {
	repos *repository.Repositories
	serp  *SerpClient
	sf    singleflight.Group
	cache *utils.LRUCache[*model.ProcessedRecord]
}

// NewStatsService 创建统计服务
func NewStatsService(repos *repository.Repositories, serp *SerpClient) *StatsService {
	return &StatsService{
		repos: repos,
		serp:  serp,
		cache: utils.NewLRUCache[*model.ProcessedRecord](512, time.Hour),
	}
}

// Refresh 为线程抓取一轮新数据并完成 raw/processed 两次落库。
// 两次写都是独立追加，processed 写失败不回收已写入的 raw 行。
func (s *StatsService) Refresh(thread *model.Thread) (*model.ProcessedRecord, error) {
	key := strconv.Itoa(thread.ID)
	val, err, _ := s.sf.Do(key, func() (interface{}, error) {
		return s.refreshInternal(thread)
	})
	if err != nil {
		return nil, err
	}
	return val.(*model.ProcessedRecord), nil
}

func (s *StatsService) refreshInternal(thread *model.Thread) (*model.ProcessedRecord, error) {
	log.Printf("[Stats] 刷新线程数据 thread_id=%d keywords=%v", thread.ID, thread.Keywords)

	raw := s.serp.FetchAll(thread.Keywords, thread.Country)

	rawCols, err := repository.EncodeRaw(raw)
	if err != nil {
		return nil, fmt.Errorf("序列化 raw 数据失败: %w", err)
	}
	rawRec := &model.RawRecord{
		ThreadID: thread.ID,
		Queries:  thread.Keywords,
		Data:     rawCols,
	}
	if err := s.repos.Dataset.InsertRaw(rawRec); err != nil {
		return nil, fmt.Errorf("写入 raw 数据失败: %w", err)
	}

	return s.processAndStore(thread.ID, thread.Keywords, raw)
}

// processAndStore 对归一化行表排名并追加 processed 记录
func (s *StatsService) processAndStore(threadID int, keywords []string, raw *trends.RawDataset) (*model.ProcessedRecord, error) {
	processed := trends.NewProcessor(keywords).Process(raw)

	cols, err := repository.EncodeProcessed(processed)
	if err != nil {
		return nil, fmt.Errorf("序列化 processed 数据失败: %w", err)
	}
	rec := &model.ProcessedRecord{
		ThreadID: threadID,
		Queries:  keywords,
		Data:     cols,
	}
	if err := s.repos.Dataset.InsertProcessed(rec); err != nil {
		return nil, fmt.Errorf("写入 processed 数据失败: %w", err)
	}

	s.cache.Set(strconv.Itoa(threadID), rec)
	return rec, nil
}

// Statistics 取线程最新的排名汇总。
// processed 只是 raw 的可推导缓存：没有 processed 时回退到最新 raw 重新计算并落库，
// 连 raw 也没有时返回 nil。
func (s *StatsService) Statistics(threadID int) (*model.ProcessedRecord, error) {
	key := strconv.Itoa(threadID)
	if rec, ok := s.cache.Get(key); ok {
		return rec, nil
	}

	rec, err := s.repos.Dataset.LatestProcessed(threadID)
	if err != nil {
		return nil, err
	}
	if rec != nil {
		s.cache.Set(key, rec)
		return rec, nil
	}

	// 回退：用最近一次 raw 重新计算
	rawRec, err := s.repos.Dataset.LatestRaw(threadID)
	if err != nil {
		return nil, err
	}
	if rawRec == nil {
		return nil, nil
	}
	raw, err := repository.DecodeRaw(rawRec.Data)
	if err != nil {
		return nil, fmt.Errorf("解析 raw 数据失败: %w", err)
	}
	log.Printf("[Stats] 线程无 processed 数据，从 raw 重新计算 thread_id=%d", threadID)
	return s.processAndStore(threadID, rawRec.Queries, raw)
}

// TakeSnapshot 创建快照并冻结当前汇总数据。
// 快照行和冻结数据是两次独立写入，冻结失败时补偿删除刚建的快照行。
func (s *StatsService) TakeSnapshot(thread *model.Thread, name string) (*model.Snapshot, error) {
	if name == "" {
		name = thread.Name
	}

	rec, err := s.Statistics(thread.ID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("线程 %d 没有可冻结的数据", thread.ID)
	}

	snapshot, err := s.repos.Snapshot.Create(thread.ID, name, thread.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("创建快照失败: %w", err)
	}

	if err := s.repos.Dataset.InsertSnapshotData(&model.SnapshotRecord{
		ThreadID:   thread.ID,
		SnapshotID: snapshot.ID,
		Data:       rec.Data,
	}); err != nil {
		// 补偿删除，避免留下没有数据的空快照
		if _, derr := s.repos.Snapshot.Delete(snapshot.ID); derr != nil {
			log.Printf("[Stats] 补偿删除快照失败 snapshot_id=%d: %v", snapshot.ID, derr)
		}
		return nil, fmt.Errorf("冻结快照数据失败: %w", err)
	}

	return snapshot, nil
}

// Invalidate 线程删除后清掉缓存里的汇总
func (s *StatsService) Invalidate(threadID int) {
	s.cache.Delete(strconv.Itoa(threadID))
}
