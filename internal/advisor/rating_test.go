package advisor

import (
	"context"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MaximilianIsing/SNAPwise-NYC/internal/model"
	"github.com/MaximilianIsing/SNAPwise-NYC/pkg/anthropic"
)

// concurrentFakeClient is safe for the parallel calls RateStores makes.
type concurrentFakeClient struct {
	mu    sync.Mutex
	reply string
	err   error
	calls int
}

func (f *concurrentFakeClient) CreateMessage(_ context.Context, _ anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return &anthropic.MessageResponse{
		Content: []anthropic.ContentBlock{{Type: "text", Text: f.reply}},
	}, nil
}

func TestRateStores(t *testing.T) {
	client := &concurrentFakeClient{reply: `{"score": 7, "reason": "good produce section"}`}
	records := []model.StoreRecord{
		{Name: "Union Market"},
		{Name: "Corner Deli"},
	}

	rated := RateStores(context.Background(), client, "test-model", records, RatingOptions{})
	assert.Equal(t, 2, rated)

	for _, rec := range records {
		require.NotNil(t, rec.HealthScore)
		assert.Equal(t, 7, *rec.HealthScore)
		assert.Equal(t, "good produce section", rec.HealthReason)
	}
}

func TestRateStores_SkipsAlreadyRated(t *testing.T) {
	client := &concurrentFakeClient{reply: `{"score": 7, "reason": "fine"}`}
	existing := 3
	records := []model.StoreRecord{
		{Name: "Already Rated", HealthScore: &existing},
		{Name: "Unrated"},
	}

	rated := RateStores(context.Background(), client, "test-model", records, RatingOptions{})
	assert.Equal(t, 1, rated)
	assert.Equal(t, 1, client.calls)
	assert.Equal(t, 3, *records[0].HealthScore, "existing scores are untouched")
}

func TestRateStores_MaxStores(t *testing.T) {
	client := &concurrentFakeClient{reply: `{"score": 7, "reason": "fine"}`}
	records := []model.StoreRecord{{Name: "a"}, {Name: "b"}, {Name: "c"}}

	rated := RateStores(context.Background(), client, "test-model", records, RatingOptions{MaxStores: 2})
	assert.Equal(t, 2, rated)
	assert.Equal(t, 2, client.calls)
}

func TestRateStores_HealthyBonus(t *testing.T) {
	client := &concurrentFakeClient{reply: `{"score": 6, "reason": "fine"}`}
	records := []model.StoreRecord{
		{Name: "Farm Stand", IsHealthyStore: true},
	}

	RateStores(context.Background(), client, "test-model", records, RatingOptions{HealthyBonus: 3})
	require.NotNil(t, records[0].HealthScore)
	assert.Equal(t, 9, *records[0].HealthScore)
}

func TestRateStores_BonusClampsAtTen(t *testing.T) {
	client := &concurrentFakeClient{reply: `{"score": 9, "reason": "fine"}`}
	records := []model.StoreRecord{
		{Name: "Farm Stand", IsHealthyStore: true},
	}

	RateStores(context.Background(), client, "test-model", records, RatingOptions{HealthyBonus: 3})
	assert.Equal(t, 10, *records[0].HealthScore)
}

func TestRateStores_FailureFallsBack(t *testing.T) {
	client := &concurrentFakeClient{err: eris.New("api down")}
	records := []model.StoreRecord{{Name: "Union Market"}}

	rated := RateStores(context.Background(), client, "test-model", records, RatingOptions{})
	assert.Equal(t, 1, rated)
	require.NotNil(t, records[0].HealthScore)
	assert.Equal(t, ratingFallbackScore, *records[0].HealthScore)
	assert.Equal(t, "AI rating unavailable", records[0].HealthReason)
}

func TestRateStores_TruncatesLongReason(t *testing.T) {
	long := strings.Repeat("x", 500)
	client := &concurrentFakeClient{reply: `{"score": 7, "reason": "` + long + `"}`}
	records := []model.StoreRecord{{Name: "Union Market"}}

	RateStores(context.Background(), client, "test-model", records, RatingOptions{})
	assert.Len(t, records[0].HealthReason, maxReasonLen)
}

func TestTruncateReason_MultibyteBoundary(t *testing.T) {
	// The leading ASCII byte shifts the three-byte runes off the 240-byte
	// mark, so a naive byte slice would cut mid-rune.
	long := "a" + strings.Repeat("日本語", 200)
	got := truncateReason(long)

	assert.True(t, utf8.ValidString(got))
	assert.LessOrEqual(t, len(got), maxReasonLen)
	assert.True(t, strings.HasPrefix(long, got))

	short := "crisp produce"
	assert.Equal(t, short, truncateReason(short))
}

func TestParseVerdict(t *testing.T) {
	v, ok := parseVerdict(`{"score": 8, "reason": "lots of produce"}`)
	require.True(t, ok)
	assert.Equal(t, 8.0, v.Score)
	assert.Equal(t, "lots of produce", v.Reason)
}

func TestParseVerdict_EmbeddedJSON(t *testing.T) {
	v, ok := parseVerdict("Here is my rating:\n```{\"score\": 4, \"reason\": \"mostly packaged goods\"}```")
	require.True(t, ok)
	assert.Equal(t, 4.0, v.Score)
}

func TestParseVerdict_Garbage(t *testing.T) {
	_, ok := parseVerdict("I'd give it a solid seven out of ten.")
	assert.False(t, ok)

	_, ok = parseVerdict(`{"reason": "no score field"}`)
	assert.False(t, ok)
}
