package repository

import (
	"encoding/json"

	"github.com/user/trendscope/internal/model"
	"github.com/user/trendscope/internal/trends"
)

// 存储边界的序列化：核心只和行表结构打交道，
// 到库列的 JSON 在这里统一转换。无数据的类写入字面量 null。

// EncodeRaw 把归一化行表编码为六个 JSON 列
func EncodeRaw(raw *trends.RawDataset) (model.DatasetColumns, error) {
	cols := model.DatasetColumns{}
	for _, item := range []struct {
		dst *json.RawMessage
		src interface{}
	}{
		{&cols.RegionBreakdown, raw.RegionBreakdown},
		{&cols.RegionInterest, raw.RegionInterest},
		{&cols.InterestOverTime, raw.Timeline},
		{&cols.RelatedQueries, raw.RelatedQueries},
		{&cols.VideoResults, raw.Videos},
		{&cols.ShoppingResults, raw.Shopping},
	} {
		b, err := json.Marshal(item.src)
		if err != nil {
			return cols, err
		}
		*item.dst = b
	}
	return cols, nil
}

// DecodeRaw 从库列还原归一化行表，null 列还原为空表
func DecodeRaw(cols model.DatasetColumns) (*trends.RawDataset, error) {
	raw := &trends.RawDataset{}
	for _, item := range []struct {
		src json.RawMessage
		dst interface{}
	}{
		{cols.RegionBreakdown, &raw.RegionBreakdown},
		{cols.RegionInterest, &raw.RegionInterest},
		{cols.InterestOverTime, &raw.Timeline},
		{cols.RelatedQueries, &raw.RelatedQueries},
		{cols.VideoResults, &raw.Videos},
		{cols.ShoppingResults, &raw.Shopping},
	} {
		if len(item.src) == 0 {
			continue
		}
		if err := json.Unmarshal(item.src, item.dst); err != nil {
			return nil, err
		}
	}
	return raw, nil
}

// EncodeProcessed 把排名汇总编码为六个 JSON 列，nil 类自然落成 null
func EncodeProcessed(p *trends.ProcessedDataset) (model.DatasetColumns, error) {
	cols := model.DatasetColumns{}
	for _, item := range []struct {
		dst *json.RawMessage
		src interface{}
	}{
		{&cols.RegionBreakdown, p.TopRegions},
		{&cols.RegionInterest, p.TopCountries},
		{&cols.InterestOverTime, p.Timeline},
		{&cols.RelatedQueries, p.RisingQueries},
		{&cols.VideoResults, p.TopVideos},
		{&cols.ShoppingResults, p.TopProducts},
	} {
		b, err := json.Marshal(item.src)
		if err != nil {
			return cols, err
		}
		*item.dst = b
	}
	return cols, nil
}

// blob 保证空列以 JSON null 落库而不是 SQL NULL
func blob(b json.RawMessage) []byte {
	if len(b) == 0 {
		return []byte("null")
	}
	return b
}
