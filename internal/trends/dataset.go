package trends

// BreakdownRow 地区对比表的一行（一个 地区×关键词 组合）
type BreakdownRow struct {
	Location       string  `json:"location"`
	Query          string  `json:"query"`
	ExtractedValue float64 `json:"extracted_value"`
}

// InterestRow 单一关键词的地区热度
type InterestRow struct {
	Location       string  `json:"location"`
	ExtractedValue float64 `json:"extracted_value"`
}

// TimelineRow 时间序列的一个时间桶，Values 按关键词动态取列
type TimelineRow struct {
	Date      string             `json:"date"`
	Timestamp int64              `json:"timestamp"`
	Values    map[string]float64 `json:"values"`
}

// RelatedQueryRow 相关搜索词，Type 为 rising 或 top
type RelatedQueryRow struct {
	Query          string  `json:"query"`
	ExtractedValue float64 `json:"extracted_value"`
	Type           string  `json:"type"`
}

// VideoRow 视频搜索结果
type VideoRow struct {
	Title         string `json:"title"`
	Views         int64  `json:"views"`
	PublishedDate string `json:"published_date"`
	Description   string `json:"description"`
}

// ShoppingRow 购物搜索结果
type ShoppingRow struct {
	Title   string  `json:"title"`
	Price   string  `json:"price"`
	Rating  float64 `json:"rating"`
	Reviews int64   `json:"reviews"`
	Source  string  `json:"source"`
}

// RawDataset 一次抓取得到的六类规整表。
// 空切片表示"有数据但为零条"，由归一化阶段产生；排名阶段把空表视为无数据。
type RawDataset struct {
	RegionBreakdown []BreakdownRow    `json:"region_breakdown"`
	RegionInterest  []InterestRow     `json:"region_interest"`
	Timeline        []TimelineRow     `json:"timeline"`
	RelatedQueries  []RelatedQueryRow `json:"related_queries"`
	Videos          []VideoRow        `json:"videos"`
	Shopping        []ShoppingRow     `json:"shopping"`
}

// RankedRegion 排名后的地区行，Values 只保留当前关键词列
type RankedRegion struct {
	Location string             `json:"location"`
	Values   map[string]float64 `json:"values"`
}

// CountryInterest 按总热度排名的国家
type CountryInterest struct {
	Location      string  `json:"location"`
	TotalInterest float64 `json:"total_interest"`
}

// TimelinePoint 重新索引后的时间点
type TimelinePoint struct {
	Date   string             `json:"date"`
	Values map[string]float64 `json:"values"`
}

// RankedQuery 上升搜索词
type RankedQuery struct {
	Query          string  `json:"query"`
	ExtractedValue float64 `json:"extracted_value"`
}

// RankedVideo 按趋势分排名的视频
type RankedVideo struct {
	Title         string `json:"title"`
	PublishedDate string `json:"published_date"`
	Views         int64  `json:"views"`
	TrendScore    int64  `json:"trend_score"`
}

// RankedProduct 按趋势分排名的商品
type RankedProduct struct {
	Title      string  `json:"title"`
	Price      string  `json:"price"`
	Rating     float64 `json:"rating"`
	Reviews    int64   `json:"reviews"`
	Source     string  `json:"source"`
	TrendScore float64 `json:"trend_score"`
}

// ProcessedDataset 六类数据的排名汇总。
// nil 切片表示该类无数据（入库时序列化为 null），与"有数据但筛选后为空"区分。
type ProcessedDataset struct {
	Queries       []string          `json:"queries"`
	TopRegions    []RankedRegion    `json:"top_regions"`
	TopCountries  []CountryInterest `json:"top_countries"`
	Timeline      []TimelinePoint   `json:"timeline"`
	RisingQueries []RankedQuery     `json:"rising_queries"`
	TopVideos     []RankedVideo     `json:"top_videos"`
	TopProducts   []RankedProduct   `json:"top_products"`
}
