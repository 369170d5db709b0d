package trends

import (
	"bytes"
	"encoding/json"
	"math"
	"testing"
)

func breakdownFixture() []BreakdownRow {
	locations := []string{"Vietnam", "India", "Japan", "Brazil", "Kenya", "Peru", "Chile", "Norway", "Malta"}
	rows := []BreakdownRow{}
	for i, loc := range locations {
		rows = append(rows, BreakdownRow{Location: loc, Query: "matcha", ExtractedValue: float64(10 * (i + 1))})
		rows = append(rows, BreakdownRow{Location: loc, Query: "green tea", ExtractedValue: float64(5 * (i + 1))})
	}
	return rows
}

func TestTopRegionsWorldSum(t *testing.T) {
	t.Parallel()

	p := NewProcessor([]string{"matcha", "green tea"})
	out := p.TopRegions(breakdownFixture())

	if len(out) != 8 {
		t.Fatalf("expected top 7 plus World, got %d rows", len(out))
	}

	world := out[len(out)-1]
	if world.Location != "World" {
		t.Fatalf("last row should be World, got %q", world.Location)
	}

	// World sums over all 9 locations, not just the retained 7
	wantMatcha := 0.0
	wantGreenTea := 0.0
	for i := 1; i <= 9; i++ {
		wantMatcha += float64(10 * i)
		wantGreenTea += float64(5 * i)
	}
	if world.Values["matcha"] != wantMatcha {
		t.Fatalf("World matcha sum: want %v, got %v", wantMatcha, world.Values["matcha"])
	}
	if world.Values["green tea"] != wantGreenTea {
		t.Fatalf("World green tea sum: want %v, got %v", wantGreenTea, world.Values["green tea"])
	}

	// sorted by primary keyword, descending
	for i := 0; i < 6; i++ {
		if out[i].Values["matcha"] < out[i+1].Values["matcha"] {
			t.Fatalf("rows not sorted by primary keyword at index %d", i)
		}
	}
}

func TestTopRegionsDropsStaleKeywordColumns(t *testing.T) {
	t.Parallel()

	rows := []BreakdownRow{
		{Location: "Japan", Query: "matcha", ExtractedValue: 80},
		{Location: "Japan", Query: "oolong", ExtractedValue: 40}, // keyword from a previous fetch
	}
	out := NewProcessor([]string{"matcha"}).TopRegions(rows)
	if len(out) != 2 {
		t.Fatalf("expected Japan plus World, got %d rows", len(out))
	}
	if _, ok := out[0].Values["oolong"]; ok {
		t.Fatalf("stale keyword column leaked into ranked output")
	}
}

func TestTopCountriesBoundAndOrder(t *testing.T) {
	t.Parallel()

	rows := []InterestRow{}
	for i := 0; i < 15; i++ {
		rows = append(rows, InterestRow{Location: string(rune('A' + i)), ExtractedValue: float64(i)})
	}
	out := NewProcessor([]string{"matcha"}).TopCountries(rows)

	if len(out) != 10 {
		t.Fatalf("expected 10 countries, got %d", len(out))
	}
	for i := 0; i < len(out)-1; i++ {
		if out[i].TotalInterest < out[i+1].TotalInterest {
			t.Fatalf("countries not sorted non-increasing at index %d", i)
		}
	}
}

func TestTopCountriesStableTies(t *testing.T) {
	t.Parallel()

	rows := []InterestRow{
		{Location: "Japan", ExtractedValue: 50},
		{Location: "Vietnam", ExtractedValue: 50},
		{Location: "Kenya", ExtractedValue: 50},
	}
	out := NewProcessor([]string{"matcha"}).TopCountries(rows)
	want := []string{"Japan", "Vietnam", "Kenya"}
	for i, loc := range want {
		if out[i].Location != loc {
			t.Fatalf("tie order broken: want %v, got index %d = %s", want, i, out[i].Location)
		}
	}
}

func TestInterestTimeline(t *testing.T) {
	t.Parallel()

	rows := []TimelineRow{
		{Date: "Jan 1 – 7, 2025", Timestamp: 1735689600, Values: map[string]float64{"matcha": 42, "oolong": 7}},
	}
	out := NewProcessor([]string{"matcha"}).InterestTimeline(rows)

	if len(out) != 1 {
		t.Fatalf("expected 1 point, got %d", len(out))
	}
	if out[0].Date != "2025-01-01 00:00:00" {
		t.Fatalf("timestamp not reformatted: got %q", out[0].Date)
	}
	if out[0].Values["matcha"] != 42 {
		t.Fatalf("active keyword value missing: %v", out[0].Values)
	}
	if _, ok := out[0].Values["oolong"]; ok {
		t.Fatalf("stale keyword column leaked into timeline")
	}
}

func TestRisingQueriesExcludesTop(t *testing.T) {
	t.Parallel()

	rows := []RelatedQueryRow{
		{Query: "A", ExtractedValue: 50, Type: "rising"},
		{Query: "B", ExtractedValue: 90, Type: "rising"},
		{Query: "C", ExtractedValue: 999, Type: "top"},
	}
	out := NewProcessor([]string{"matcha"}).RisingQueries(rows)

	want := []RankedQuery{
		{Query: "B", ExtractedValue: 90},
		{Query: "A", ExtractedValue: 50},
	}
	if len(out) != len(want) {
		t.Fatalf("expected %d queries, got %d", len(want), len(out))
	}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("index %d: want %+v, got %+v", i, want[i], out[i])
		}
	}
}

func TestRisingQueriesBound(t *testing.T) {
	t.Parallel()

	rows := []RelatedQueryRow{}
	for i := 0; i < 13; i++ {
		rows = append(rows, RelatedQueryRow{Query: "q", ExtractedValue: float64(i), Type: "rising"})
	}
	out := NewProcessor([]string{"matcha"}).RisingQueries(rows)
	if len(out) != 10 {
		t.Fatalf("expected 10 rising queries, got %d", len(out))
	}
}

func TestTopVideosAgeFilter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		published string
		kept      bool
	}{
		{"13 months ago", false},
		{"12 months ago", true},
		{"2 years ago", true},
		{"3 weeks ago", true},
		{"14 Months ago", false},
		{"Streamed 5 days ago", true},
	}

	for _, tt := range tests {
		rows := []VideoRow{{Title: "clip", Views: 100, PublishedDate: tt.published}}
		out := NewProcessor([]string{"matcha"}).TopVideos(rows)
		if kept := len(out) == 1; kept != tt.kept {
			t.Fatalf("published %q: kept=%v, want %v", tt.published, kept, tt.kept)
		}
	}
}

func TestTopVideosKeywordBoost(t *testing.T) {
	t.Parallel()

	rows := []VideoRow{
		{Title: "Matcha and GREEN TEA review", Views: 100, PublishedDate: "1 month ago"},
		{Title: "unrelated video", Views: 250, PublishedDate: "1 month ago"},
	}
	out := NewProcessor([]string{"matcha", "green tea"}).TopVideos(rows)

	// two keyword matches: 100 * (1 + 2) = 300, beats plain 250
	if out[0].Title != "Matcha and GREEN TEA review" {
		t.Fatalf("keyword-boosted video should rank first, got %q", out[0].Title)
	}
	if out[0].TrendScore != 300 {
		t.Fatalf("trend score: want 300, got %d", out[0].TrendScore)
	}
	if out[1].TrendScore != 250 {
		t.Fatalf("unmatched video score: want 250, got %d", out[1].TrendScore)
	}
}

func TestTopProductsScore(t *testing.T) {
	t.Parallel()

	p := NewProcessor([]string{"matcha"})

	score := func(rating float64, reviews int64) float64 {
		out := p.TopProducts([]ShoppingRow{{Title: "x", Rating: rating, Reviews: reviews}})
		return out[0].TrendScore
	}

	want := 4.5 * (1 + math.Log1p(200))
	if got := score(4.5, 200); math.Abs(got-want) > 1e-9 {
		t.Fatalf("score(4.5, 200): want %v, got %v", want, got)
	}

	// strictly increasing in rating for fixed reviews
	if !(score(4.0, 100) < score(4.5, 100)) {
		t.Fatalf("score not increasing in rating")
	}

	// increasing but concave in reviews for fixed rating
	s100, s200, s300 := score(4.0, 100), score(4.0, 200), score(4.0, 300)
	if !(s100 < s200 && s200 < s300) {
		t.Fatalf("score not increasing in reviews")
	}
	if !(s300-s200 < s200-s100) {
		t.Fatalf("review influence not concave: deltas %v vs %v", s300-s200, s200-s100)
	}

	// missing rating or reviews scores exactly 0
	if got := score(0, 500); got != 0 {
		t.Fatalf("zero rating should score 0, got %v", got)
	}
	if got := score(4.5, 0); got != 0 {
		t.Fatalf("missing reviews should score 0, got %v", got)
	}
}

func TestEmptyInputYieldsAbsent(t *testing.T) {
	t.Parallel()

	p := NewProcessor([]string{"matcha"})
	out := p.Process(&RawDataset{})

	if out.TopRegions != nil {
		t.Fatalf("empty breakdown should be absent, got %v", out.TopRegions)
	}
	if out.TopCountries != nil {
		t.Fatalf("empty interest should be absent, got %v", out.TopCountries)
	}
	if out.Timeline != nil {
		t.Fatalf("empty timeline should be absent, got %v", out.Timeline)
	}
	if out.RisingQueries != nil {
		t.Fatalf("empty related queries should be absent, got %v", out.RisingQueries)
	}
	if out.TopVideos != nil {
		t.Fatalf("empty videos should be absent, got %v", out.TopVideos)
	}
	if out.TopProducts != nil {
		t.Fatalf("empty shopping should be absent, got %v", out.TopProducts)
	}
}

func TestProcessDeterministic(t *testing.T) {
	t.Parallel()

	raw := &RawDataset{
		RegionBreakdown: breakdownFixture(),
		RegionInterest: []InterestRow{
			{Location: "Japan", ExtractedValue: 90},
			{Location: "Vietnam", ExtractedValue: 70},
		},
		Timeline: []TimelineRow{
			{Date: "w1", Timestamp: 1735689600, Values: map[string]float64{"matcha": 10, "green tea": 4}},
			{Date: "w2", Timestamp: 1736294400, Values: map[string]float64{"matcha": 12, "green tea": 6}},
		},
		RelatedQueries: []RelatedQueryRow{
			{Query: "matcha latte", ExtractedValue: 120, Type: "rising"},
			{Query: "matcha powder", ExtractedValue: 80, Type: "top"},
		},
		Videos: []VideoRow{
			{Title: "matcha whisking", Views: 4000, PublishedDate: "2 months ago"},
		},
		Shopping: []ShoppingRow{
			{Title: "ceremonial matcha", Price: "$24", Rating: 4.7, Reviews: 812, Source: "store"},
		},
	}

	p := NewProcessor([]string{"matcha", "green tea"})
	first, err := json.Marshal(p.Process(raw))
	if err != nil {
		t.Fatalf("marshal first pass: %v", err)
	}
	second, err := json.Marshal(p.Process(raw))
	if err != nil {
		t.Fatalf("marshal second pass: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatalf("reprocessing the same raw input produced different output")
	}
}
