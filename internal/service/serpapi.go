package service

import (
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/user/trendscope/internal/config"
	"github.com/user/trendscope/internal/trends"
	"github.com/user/trendscope/internal/utils"
)

// SerpClient 趋势数据抓取客户端，一次刷新调六类接口。
// 不做重试，上游失败直接报给调用方。
type SerpClient struct {
	client  *utils.HTTPClient
	apiKey  string
	baseURL string
}

// NewSerpClient 创建抓取客户端
func NewSerpClient(cfg *config.Config) *SerpClient {
	return &SerpClient{
		client:  utils.NewHTTPClient(30 * time.Second),
		apiKey:  cfg.SerpAPIKey,
		baseURL: cfg.SerpAPIBaseURL,
	}
}

// FetchAll 抓取六类数据并归一化。
// 地区对比和时间序列用全部关键词，其余只查主关键词。
// 单类失败降级为空表，不阻塞其余类目。
func (s *SerpClient) FetchAll(keywords []string, country string) *trends.RawDataset {
	joined := strings.Join(keywords, ",")
	primary := ""
	if len(keywords) > 0 {
		primary = keywords[0]
	}

	return &trends.RawDataset{
		RegionBreakdown: trends.NormalizeRegionBreakdown(
			s.fetch("google_trends", url.Values{"q": {joined}, "data_type": {"GEO_MAP"}, "region": {"COUNTRY"}})),
		RegionInterest: trends.NormalizeRegionInterest(
			s.fetch("google_trends", url.Values{"q": {primary}, "data_type": {"GEO_MAP_0"}, "geo": {country}})),
		Timeline: trends.NormalizeTimeline(
			s.fetch("google_trends", url.Values{"q": {joined}, "data_type": {"TIMESERIES"}, "geo": {country}})),
		RelatedQueries: trends.NormalizeRelatedQueries(
			s.fetch("google_trends", url.Values{"q": {primary}, "data_type": {"RELATED_QUERIES"}})),
		Videos: trends.NormalizeVideos(
			s.fetch("youtube", url.Values{"search_query": {primary}, "gl": {country}})),
		Shopping: trends.NormalizeShopping(
			s.fetch("google_shopping", url.Values{"q": {primary}, "gl": {country}})),
	}
}

// fetch 调一次 SerpAPI，响应短期缓存，抓取失败返回 nil 交归一化层降级
func (s *SerpClient) fetch(engine string, params url.Values) []byte {
	params.Set("engine", engine)
	cacheKey := fmt.Sprintf("serp:%s:%s", engine, params.Encode())
	if cached, ok := utils.CacheGet(cacheKey); ok {
		return cached.([]byte)
	}

	params.Set("api_key", s.apiKey)
	body, err := s.client.Get(s.baseURL, params)
	if err != nil {
		log.Printf("[SerpAPI] 抓取失败 engine=%s: %v", engine, err)
		return nil
	}

	utils.CacheSet(cacheKey, body, 5*time.Minute)
	return body
}
