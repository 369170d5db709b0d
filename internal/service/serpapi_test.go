package service

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/user/trendscope/internal/config"
	"github.com/user/trendscope/internal/utils"
)

func newTestSerpClient(t *testing.T, handler http.HandlerFunc) (*SerpClient, *httptest.Server) {
	t.Helper()
	utils.InitCache()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewSerpClient(&config.Config{
		SerpAPIKey:     "test-key",
		SerpAPIBaseURL: server.URL,
	}), server
}

func TestFetchAllNormalizesEachCategory(t *testing.T) {
	responses := map[string]string{
		"GEO_MAP":         `{"compared_breakdown_by_region": [{"location": "Japan", "values": [{"query": "matcha", "extracted_value": 80}]}]}`,
		"GEO_MAP_0":       `{"interest_by_region": [{"location": "Japan", "extracted_value": 95}]}`,
		"TIMESERIES":      `{"interest_over_time": {"timeline_data": [{"date": "w1", "timestamp": "1735689600", "values": [{"query": "matcha", "extracted_value": 42}]}]}}`,
		"RELATED_QUERIES": `{"related_queries": {"rising": [{"query": "matcha latte", "extracted_value": 150}]}}`,
	}

	client, _ := newTestSerpClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("api_key") != "test-key" {
			t.Errorf("missing api_key in request %s", r.URL.RawQuery)
		}
		switch r.URL.Query().Get("engine") {
		case "google_trends":
			w.Write([]byte(responses[r.URL.Query().Get("data_type")]))
		case "youtube":
			w.Write([]byte(`{"video_results": [{"title": "matcha howto", "views": 1200, "published_date": "2 weeks ago"}]}`))
		case "google_shopping":
			w.Write([]byte(`{"shopping_results": [{"title": "matcha set", "price": "$24", "rating": 4.7, "reviews": 812}]}`))
		default:
			t.Errorf("unexpected engine %q", r.URL.Query().Get("engine"))
		}
	})

	raw := client.FetchAll([]string{"matcha", "green tea"}, "JP")

	if len(raw.RegionBreakdown) != 1 || raw.RegionBreakdown[0].Location != "Japan" {
		t.Fatalf("region breakdown not normalized: %+v", raw.RegionBreakdown)
	}
	if len(raw.RegionInterest) != 1 || raw.RegionInterest[0].ExtractedValue != 95 {
		t.Fatalf("region interest not normalized: %+v", raw.RegionInterest)
	}
	if len(raw.Timeline) != 1 || raw.Timeline[0].Timestamp != 1735689600 {
		t.Fatalf("timeline not normalized: %+v", raw.Timeline)
	}
	if len(raw.RelatedQueries) != 1 || raw.RelatedQueries[0].Type != "rising" {
		t.Fatalf("related queries not normalized: %+v", raw.RelatedQueries)
	}
	if len(raw.Videos) != 1 || raw.Videos[0].Views != 1200 {
		t.Fatalf("videos not normalized: %+v", raw.Videos)
	}
	if len(raw.Shopping) != 1 || raw.Shopping[0].Reviews != 812 {
		t.Fatalf("shopping not normalized: %+v", raw.Shopping)
	}
}

func TestFetchAllDegradesPerCategory(t *testing.T) {
	client, _ := newTestSerpClient(t, func(w http.ResponseWriter, r *http.Request) {
		// youtube 挂掉，其余类目正常返回空对象
		if r.URL.Query().Get("engine") == "youtube" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{}`))
	})

	raw := client.FetchAll([]string{"matcha"}, "")

	if raw == nil {
		t.Fatalf("partial failure should still yield a dataset")
	}
	if raw.Videos == nil || len(raw.Videos) != 0 {
		t.Fatalf("failed category should degrade to empty table, got %v", raw.Videos)
	}
	if raw.RegionBreakdown == nil {
		t.Fatalf("healthy categories should not degrade to nil")
	}
}

func TestFetchCachesResponses(t *testing.T) {
	var hits int64
	client, _ := newTestSerpClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		w.Write([]byte(`{}`))
	})

	client.FetchAll([]string{"matcha"}, "JP")
	first := atomic.LoadInt64(&hits)
	if first != 6 {
		t.Fatalf("expected 6 upstream calls on first fetch, got %d", first)
	}

	client.FetchAll([]string{"matcha"}, "JP")
	if got := atomic.LoadInt64(&hits); got != first {
		t.Fatalf("second fetch should be served from cache, upstream calls went %d -> %d", first, got)
	}
}
