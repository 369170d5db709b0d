package trends

import (
	"encoding/json"
	"strconv"
)

// 归一化层：把各个数据源返回的原始 JSON 整理成固定结构的行表。
// 每类数据独立处理，payload 缺失、为空或格式异常时一律降级为空表，
// 保证单类数据出错不影响其余五类。

type breakdownPayload struct {
	Regions []struct {
		Location string `json:"location"`
		Values   []struct {
			Query          string  `json:"query"`
			ExtractedValue float64 `json:"extracted_value"`
		} `json:"values"`
	} `json:"compared_breakdown_by_region"`
}

// NormalizeRegionBreakdown 整理多关键词地区对比数据，每个 地区×关键词 一行
func NormalizeRegionBreakdown(payload []byte) []BreakdownRow {
	var data breakdownPayload
	if len(payload) == 0 || json.Unmarshal(payload, &data) != nil {
		return []BreakdownRow{}
	}

	rows := []BreakdownRow{}
	for _, region := range data.Regions {
		for _, v := range region.Values {
			rows = append(rows, BreakdownRow{
				Location:       region.Location,
				Query:          v.Query,
				ExtractedValue: v.ExtractedValue,
			})
		}
	}
	return rows
}

type interestPayload struct {
	Regions []struct {
		Location       string  `json:"location"`
		ExtractedValue float64 `json:"extracted_value"`
	} `json:"interest_by_region"`
}

// NormalizeRegionInterest 整理单一关键词的地区热度数据
func NormalizeRegionInterest(payload []byte) []InterestRow {
	var data interestPayload
	if len(payload) == 0 || json.Unmarshal(payload, &data) != nil {
		return []InterestRow{}
	}

	rows := []InterestRow{}
	for _, region := range data.Regions {
		rows = append(rows, InterestRow{
			Location:       region.Location,
			ExtractedValue: region.ExtractedValue,
		})
	}
	return rows
}

type timelinePayload struct {
	InterestOverTime struct {
		TimelineData []struct {
			Date      string      `json:"date"`
			Timestamp json.Number `json:"timestamp"`
			Values    []struct {
				Query          string  `json:"query"`
				ExtractedValue float64 `json:"extracted_value"`
			} `json:"values"`
		} `json:"timeline_data"`
	} `json:"interest_over_time"`
}

// NormalizeTimeline 整理时间序列数据，每个时间桶一行，按关键词动态取列
func NormalizeTimeline(payload []byte) []TimelineRow {
	var data timelinePayload
	if len(payload) == 0 || json.Unmarshal(payload, &data) != nil {
		return []TimelineRow{}
	}

	rows := []TimelineRow{}
	for _, period := range data.InterestOverTime.TimelineData {
		// timestamp 部分数据源返回字符串形式的秒数
		ts, _ := strconv.ParseInt(period.Timestamp.String(), 10, 64)
		row := TimelineRow{
			Date:      period.Date,
			Timestamp: ts,
			Values:    make(map[string]float64, len(period.Values)),
		}
		for _, v := range period.Values {
			row.Values[v.Query] = v.ExtractedValue
		}
		rows = append(rows, row)
	}
	return rows
}

type relatedPayload struct {
	RelatedQueries struct {
		Rising []relatedEntry `json:"rising"`
		Top    []relatedEntry `json:"top"`
	} `json:"related_queries"`
}

type relatedEntry struct {
	Query          string  `json:"query"`
	ExtractedValue float64 `json:"extracted_value"`
}

// NormalizeRelatedQueries 整理相关搜索词，rising 与 top 两组合并后打上类型标记
func NormalizeRelatedQueries(payload []byte) []RelatedQueryRow {
	var data relatedPayload
	if len(payload) == 0 || json.Unmarshal(payload, &data) != nil {
		return []RelatedQueryRow{}
	}

	rows := []RelatedQueryRow{}
	for _, entry := range data.RelatedQueries.Rising {
		rows = append(rows, RelatedQueryRow{Query: entry.Query, ExtractedValue: entry.ExtractedValue, Type: "rising"})
	}
	for _, entry := range data.RelatedQueries.Top {
		rows = append(rows, RelatedQueryRow{Query: entry.Query, ExtractedValue: entry.ExtractedValue, Type: "top"})
	}
	return rows
}

type videoPayload struct {
	VideoResults []struct {
		Title         string `json:"title"`
		Views         int64  `json:"views"`
		PublishedDate string `json:"published_date"`
		Description   string `json:"description"`
	} `json:"video_results"`
}

// NormalizeVideos 整理视频搜索结果
func NormalizeVideos(payload []byte) []VideoRow {
	var data videoPayload
	if len(payload) == 0 || json.Unmarshal(payload, &data) != nil {
		return []VideoRow{}
	}

	rows := []VideoRow{}
	for _, video := range data.VideoResults {
		rows = append(rows, VideoRow{
			Title:         video.Title,
			Views:         video.Views,
			PublishedDate: video.PublishedDate,
			Description:   video.Description,
		})
	}
	return rows
}

type shoppingPayload struct {
	ShoppingResults []struct {
		Title   string  `json:"title"`
		Price   string  `json:"price"`
		Rating  float64 `json:"rating"`
		Reviews int64   `json:"reviews"`
		Source  string  `json:"source"`
	} `json:"shopping_results"`
}

// NormalizeShopping 整理购物搜索结果
func NormalizeShopping(payload []byte) []ShoppingRow {
	var data shoppingPayload
	if len(payload) == 0 || json.Unmarshal(payload, &data) != nil {
		return []ShoppingRow{}
	}

	rows := []ShoppingRow{}
	for _, product := range data.ShoppingResults {
		rows = append(rows, ShoppingRow{
			Title:   product.Title,
			Price:   product.Price,
			Rating:  product.Rating,
			Reviews: product.Reviews,
			Source:  product.Source,
		})
	}
	return rows
}
