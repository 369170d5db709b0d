package trends

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Processor 把归一化后的行表压缩成各类排名汇总。
// 关键词列表中第一个为主关键词，地区和视频的排序以它为准。
type Processor struct {
	keywords []string
	primary  string
}

// NewProcessor 创建处理器，keywords 不能为空
func NewProcessor(keywords []string) *Processor {
	p := &Processor{keywords: keywords}
	if len(keywords) > 0 {
		p.primary = keywords[0]
	}
	return p
}

// Process 依次处理六类数据，输入相同则输出相同（可重复计算）
func (p *Processor) Process(raw *RawDataset) *ProcessedDataset {
	return &ProcessedDataset{
		Queries:       p.keywords,
		TopRegions:    p.TopRegions(raw.RegionBreakdown),
		TopCountries:  p.TopCountries(raw.RegionInterest),
		Timeline:      p.InterestTimeline(raw.Timeline),
		RisingQueries: p.RisingQueries(raw.RelatedQueries),
		TopVideos:     p.TopVideos(raw.Videos),
		TopProducts:   p.TopProducts(raw.Shopping),
	}
}

// TopRegions 按主关键词降序取前 7 个地区，并追加一行 World，
// 其每个关键词列的值为全部地区（而非仅前 7）该列之和。
// 输入为空表时返回 nil，表示无数据而非零热度。
func (p *Processor) TopRegions(rows []BreakdownRow) []RankedRegion {
	if len(rows) == 0 {
		return nil
	}

	// 长表转宽表，保持地区首次出现的顺序
	index := make(map[string]int)
	wide := []RankedRegion{}
	for _, row := range rows {
		i, ok := index[row.Location]
		if !ok {
			i = len(wide)
			index[row.Location] = i
			wide = append(wide, RankedRegion{Location: row.Location, Values: map[string]float64{}})
		}
		wide[i].Values[row.Query] = row.ExtractedValue
	}

	// World 行在截断前先对全部地区求和，只保留当前关键词列
	world := RankedRegion{Location: "World", Values: map[string]float64{}}
	for _, kw := range p.keywords {
		var sum float64
		for _, region := range wide {
			sum += region.Values[kw]
		}
		world.Values[kw] = sum
	}

	sort.SliceStable(wide, func(i, j int) bool {
		return wide[i].Values[p.primary] > wide[j].Values[p.primary]
	})
	if len(wide) > 7 {
		wide = wide[:7]
	}

	// 输出行只保留当前关键词列，避免上次抓取遗留的旧列混入
	out := make([]RankedRegion, 0, len(wide)+1)
	for _, region := range wide {
		values := make(map[string]float64, len(p.keywords))
		for _, kw := range p.keywords {
			values[kw] = region.Values[kw]
		}
		out = append(out, RankedRegion{Location: region.Location, Values: values})
	}
	return append(out, world)
}

// TopCountries 按总热度取前 10 个国家，同分时保持输入顺序
func (p *Processor) TopCountries(rows []InterestRow) []CountryInterest {
	if len(rows) == 0 {
		return nil
	}

	out := make([]CountryInterest, 0, len(rows))
	for _, row := range rows {
		out = append(out, CountryInterest{Location: row.Location, TotalInterest: row.ExtractedValue})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalInterest > out[j].TotalInterest
	})
	if len(out) > 10 {
		out = out[:10]
	}
	return out
}

// InterestTimeline 把时间戳格式化为标准日期串并按此重建索引，
// 只输出当前关键词的列，旧关键词列不外泄
func (p *Processor) InterestTimeline(rows []TimelineRow) []TimelinePoint {
	if len(rows) == 0 {
		return nil
	}

	out := make([]TimelinePoint, 0, len(rows))
	for _, row := range rows {
		values := make(map[string]float64, len(p.keywords))
		for _, kw := range p.keywords {
			values[kw] = row.Values[kw]
		}
		out = append(out, TimelinePoint{
			Date:   time.Unix(row.Timestamp, 0).UTC().Format("2006-01-02 15:04:05"),
			Values: values,
		})
	}
	return out
}

// RisingQueries 只保留 rising 类型，按值降序取前 10，top 类型全部丢弃
func (p *Processor) RisingQueries(rows []RelatedQueryRow) []RankedQuery {
	if len(rows) == 0 {
		return nil
	}

	out := []RankedQuery{}
	for _, row := range rows {
		if row.Type == "rising" {
			out = append(out, RankedQuery{Query: row.Query, ExtractedValue: row.ExtractedValue})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ExtractedValue > out[j].ExtractedValue
	})
	if len(out) > 10 {
		out = out[:10]
	}
	return out
}

// TopVideos 过滤超过 12 个月的视频后按趋势分取前 10。
// 趋势分以播放量起步，标题每命中一个关键词（忽略大小写）再加一次播放量。
func (p *Processor) TopVideos(rows []VideoRow) []RankedVideo {
	if len(rows) == 0 {
		return nil
	}

	out := []RankedVideo{}
	for _, video := range rows {
		if tooOld(video.PublishedDate) {
			continue
		}
		score := video.Views
		title := strings.ToLower(video.Title)
		for _, kw := range p.keywords {
			if kw != "" && strings.Contains(title, strings.ToLower(kw)) {
				score += video.Views
			}
		}
		out = append(out, RankedVideo{
			Title:         video.Title,
			PublishedDate: video.PublishedDate,
			Views:         video.Views,
			TrendScore:    score,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TrendScore > out[j].TrendScore
	})
	if len(out) > 10 {
		out = out[:10]
	}
	return out
}

// tooOld 判断发布时间串是否表示超过 12 个月。
// 只匹配 "N months" 且 N > 12 这一种形式，按年或周表述的一概保留，
// 这是刻意收窄的过滤条件，不是通用日期解析。
func tooOld(publishedDate string) bool {
	parts := strings.Fields(publishedDate)
	if len(parts) < 2 {
		return false
	}
	n, err := strconv.Atoi(parts[0])
	if err != nil {
		return false
	}
	return n > 12 && strings.Contains(strings.ToLower(publishedDate), "months")
}

// TopProducts 按趋势分取前 10 个商品。
// 评分和评论数齐全时 TrendScore = Rating * (1 + ln(1 + Reviews))，
// 对评论数做对数衰减，避免上万条评论的商品线性碾压几百条的；
// 任一字段缺失则记 0 分。
func (p *Processor) TopProducts(rows []ShoppingRow) []RankedProduct {
	if len(rows) == 0 {
		return nil
	}

	out := make([]RankedProduct, 0, len(rows))
	for _, product := range rows {
		var score float64
		if product.Rating != 0 && product.Reviews != 0 {
			score = product.Rating * (1 + math.Log1p(float64(product.Reviews)))
		}
		out = append(out, RankedProduct{
			Title:      product.Title,
			Price:      product.Price,
			Rating:     product.Rating,
			Reviews:    product.Reviews,
			Source:     product.Source,
			TrendScore: score,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TrendScore > out[j].TrendScore
	})
	if len(out) > 10 {
		out = out[:10]
	}
	return out
}
