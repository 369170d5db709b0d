package trends

import (
	"reflect"
	"testing"
)

func TestNormalizeRegionBreakdown(t *testing.T) {
	t.Parallel()

	payload := []byte(`{
		"compared_breakdown_by_region": [
			{"location": "Japan", "values": [
				{"query": "matcha", "extracted_value": 80},
				{"query": "green tea", "extracted_value": 30}
			]},
			{"location": "Vietnam", "values": [
				{"query": "matcha", "extracted_value": 60}
			]}
		]
	}`)

	want := []BreakdownRow{
		{Location: "Japan", Query: "matcha", ExtractedValue: 80},
		{Location: "Japan", Query: "green tea", ExtractedValue: 30},
		{Location: "Vietnam", Query: "matcha", ExtractedValue: 60},
	}
	got := NormalizeRegionBreakdown(payload)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("want %+v, got %+v", want, got)
	}
}

func TestNormalizeRegionInterest(t *testing.T) {
	t.Parallel()

	payload := []byte(`{
		"interest_by_region": [
			{"location": "Kenya", "extracted_value": 95},
			{"location": "Peru"}
		]
	}`)

	want := []InterestRow{
		{Location: "Kenya", ExtractedValue: 95},
		{Location: "Peru", ExtractedValue: 0},
	}
	got := NormalizeRegionInterest(payload)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("want %+v, got %+v", want, got)
	}
}

func TestNormalizeTimeline(t *testing.T) {
	t.Parallel()

	// timestamp 既可能是数字也可能是字符串
	payload := []byte(`{
		"interest_over_time": {
			"timeline_data": [
				{"date": "Jan 1 – 7, 2025", "timestamp": "1735689600", "values": [
					{"query": "matcha", "extracted_value": 42}
				]},
				{"date": "Jan 8 – 14, 2025", "timestamp": 1736294400, "values": [
					{"query": "matcha", "extracted_value": 47},
					{"query": "green tea", "extracted_value": 12}
				]}
			]
		}
	}`)

	got := NormalizeTimeline(payload)
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
	if got[0].Timestamp != 1735689600 {
		t.Fatalf("string timestamp not parsed: %d", got[0].Timestamp)
	}
	if got[1].Timestamp != 1736294400 {
		t.Fatalf("numeric timestamp not parsed: %d", got[1].Timestamp)
	}
	if got[1].Values["green tea"] != 12 {
		t.Fatalf("values map incomplete: %v", got[1].Values)
	}
}

func TestNormalizeRelatedQueriesTagsType(t *testing.T) {
	t.Parallel()

	payload := []byte(`{
		"related_queries": {
			"rising": [{"query": "matcha latte", "extracted_value": 150}],
			"top": [{"query": "matcha powder", "extracted_value": 100}]
		}
	}`)

	want := []RelatedQueryRow{
		{Query: "matcha latte", ExtractedValue: 150, Type: "rising"},
		{Query: "matcha powder", ExtractedValue: 100, Type: "top"},
	}
	got := NormalizeRelatedQueries(payload)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("want %+v, got %+v", want, got)
	}
}

func TestNormalizeVideos(t *testing.T) {
	t.Parallel()

	payload := []byte(`{
		"video_results": [
			{"title": "whisking basics", "views": 12000, "published_date": "3 weeks ago", "description": "howto"},
			{"title": "no stats"}
		]
	}`)

	want := []VideoRow{
		{Title: "whisking basics", Views: 12000, PublishedDate: "3 weeks ago", Description: "howto"},
		{Title: "no stats"},
	}
	got := NormalizeVideos(payload)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("want %+v, got %+v", want, got)
	}
}

func TestNormalizeShopping(t *testing.T) {
	t.Parallel()

	payload := []byte(`{
		"shopping_results": [
			{"title": "ceremonial matcha", "price": "$24.00", "rating": 4.7, "reviews": 812, "source": "store"},
			{"title": "no rating yet", "price": "$9.99"}
		]
	}`)

	want := []ShoppingRow{
		{Title: "ceremonial matcha", Price: "$24.00", Rating: 4.7, Reviews: 812, Source: "store"},
		{Title: "no rating yet", Price: "$9.99"},
	}
	got := NormalizeShopping(payload)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("want %+v, got %+v", want, got)
	}
}

func TestNormalizeDegradesToEmpty(t *testing.T) {
	t.Parallel()

	// 缺失或损坏的 payload 降级为空表而不是报错
	for _, payload := range [][]byte{nil, {}, []byte(`not json`), []byte(`{"compared_breakdown_by_region": "wrong type"}`)} {
		if got := NormalizeRegionBreakdown(payload); got == nil || len(got) != 0 {
			t.Fatalf("payload %q: want empty table, got %v", payload, got)
		}
	}
	if got := NormalizeRegionInterest([]byte(`{`)); got == nil || len(got) != 0 {
		t.Fatalf("want empty interest table, got %v", got)
	}
	if got := NormalizeTimeline(nil); got == nil || len(got) != 0 {
		t.Fatalf("want empty timeline table, got %v", got)
	}
	if got := NormalizeRelatedQueries([]byte(`[]`)); got == nil || len(got) != 0 {
		t.Fatalf("want empty related table, got %v", got)
	}
	if got := NormalizeVideos([]byte(`{}`)); got == nil || len(got) != 0 {
		t.Fatalf("want empty video table, got %v", got)
	}
	if got := NormalizeShopping([]byte(`null`)); got == nil || len(got) != 0 {
		t.Fatalf("want empty shopping table, got %v", got)
	}
}
