package advisor

import (
	"context"
	"encoding/json"
	"regexp"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/MaximilianIsing/SNAPwise-NYC/internal/model"
	"github.com/MaximilianIsing/SNAPwise-NYC/internal/resilience"
	"github.com/MaximilianIsing/SNAPwise-NYC/pkg/anthropic"
)

const ratingSystemPrompt = "You are rating food retail locations on a 1-10 healthiness scale for nutrition-" +
	"conscious SNAP users. " +
	"Consider: general menu health; " +
	"Consider: presence of fresh produce/whole foods vs ultra-processed; " +
	"Consider: price of the foods at that retailer, economical vs expensive; " +
	"Consider: store type (grocery > super store > convenience > restaurant meals); " +
	"name signals are important. Be conservative; 10 = excellent access to healthy foods, " +
	"1 = very poor. Output strict JSON: {\"score\": <integer 1-10>, \"reason\": \"short reason\"}."

const (
	ratingFallbackScore = 5
	maxReasonLen        = 240
)

// RatingOptions configures a rating batch.
type RatingOptions struct {
	Concurrency  int // parallel Claude calls, default 4
	HealthyBonus int // added to the raw score for flagged healthy stores
	MaxStores    int // 0 = rate everything unrated
}

// ratingPayload is the store summary sent to the model.
type ratingPayload struct {
	Name      string `json:"name"`
	Address   string `json:"address"`
	City      string `json:"city"`
	Zip       string `json:"zip"`
	County    string `json:"county"`
	StoreType string `json:"storeType"`
}

// ratingVerdict is the strict-JSON answer expected from the model.
type ratingVerdict struct {
	Score  float64 `json:"score"`
	Reason string  `json:"reason"`
}

// jsonObject pulls the first {...} out of a reply that wrapped its JSON in prose.
var jsonObject = regexp.MustCompile(`\{[\s\S]*\}`)

// RateStores assigns a health score and reason to every record that does not
// already carry one, mutating the given slice in place. Individual failures
// fall back to a neutral score and never abort the batch. Returns the number
// of records rated.
func RateStores(ctx context.Context, client anthropic.Client, aiModel string, records []model.StoreRecord, opts RatingOptions) int {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}

	var todo []int
	for i := range records {
		if records[i].HealthScore != nil {
			continue
		}
		todo = append(todo, i)
		if opts.MaxStores > 0 && len(todo) >= opts.MaxStores {
			break
		}
	}

	eg, gCtx := errgroup.WithContext(ctx)
	eg.SetLimit(opts.Concurrency)

	for _, i := range todo {
		eg.Go(func() error {
			rec := &records[i]
			score, reason := rateOne(gCtx, client, aiModel, rec, opts.HealthyBonus)
			rec.HealthScore = &score
			rec.HealthReason = reason
			return nil
		})
	}
	_ = eg.Wait()

	zap.L().Info("rating batch complete",
		zap.String("model", aiModel),
		zap.Int("rated", len(todo)),
	)
	return len(todo)
}

func rateOne(ctx context.Context, client anthropic.Client, aiModel string, rec *model.StoreRecord, bonus int) (int, string) {
	payload, _ := json.Marshal(ratingPayload{
		Name:      rec.Name,
		Address:   rec.Address,
		City:      rec.City,
		Zip:       rec.Zip,
		County:    rec.County,
		StoreType: rec.StoreType,
	})

	resp, err := resilience.DoVal(ctx, resilience.RetryConfig{}, func(ctx context.Context) (*anthropic.MessageResponse, error) {
		return client.CreateMessage(ctx, anthropic.MessageRequest{
			Model:     aiModel,
			MaxTokens: 256,
			System:    ratingSystemPrompt,
			Messages:  []anthropic.Message{{Role: "user", Content: "Rate this store: " + string(payload)}},
		})
	})
	if err != nil {
		zap.L().Warn("rating call failed",
			zap.String("store", rec.Name),
			zap.Error(err),
		)
		return ratingFallbackScore, "AI rating unavailable"
	}

	verdict, ok := parseVerdict(resp.Text())
	if !ok {
		return ratingFallbackScore, "No AI reason provided"
	}

	score := int(verdict.Score + 0.5)
	if rec.IsHealthyStore {
		score += bonus
	}
	if score < 1 {
		score = 1
	}
	if score > 10 {
		score = 10
	}

	return score, truncateReason(verdict.Reason)
}

// truncateReason caps the reason at maxReasonLen bytes without splitting a
// multi-byte rune at the cut point.
func truncateReason(reason string) string {
	if len(reason) <= maxReasonLen {
		return reason
	}
	cut := maxReasonLen
	for cut > 0 && !utf8.RuneStart(reason[cut]) {
		cut--
	}
	return reason[:cut]
}

func parseVerdict(text string) (ratingVerdict, bool) {
	var v ratingVerdict
	if err := json.Unmarshal([]byte(text), &v); err == nil && v.Score > 0 {
		return v, true
	}
	if m := jsonObject.FindString(text); m != "" {
		if err := json.Unmarshal([]byte(m), &v); err == nil && v.Score > 0 {
			return v, true
		}
	}
	return ratingVerdict{}, false
}
