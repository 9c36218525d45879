package main

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/MaximilianIsing/SNAPwise-NYC/internal/advisor"
	"github.com/MaximilianIsing/SNAPwise-NYC/internal/dataset"
	"github.com/MaximilianIsing/SNAPwise-NYC/internal/geo"
	"github.com/MaximilianIsing/SNAPwise-NYC/internal/model"
	"github.com/MaximilianIsing/SNAPwise-NYC/internal/resolver"
	"github.com/MaximilianIsing/SNAPwise-NYC/pkg/anthropic"
	"github.com/MaximilianIsing/SNAPwise-NYC/pkg/geonames"
	"github.com/MaximilianIsing/SNAPwise-NYC/pkg/nominatim"
)

// appEnv bundles the shared state commands operate on: the loaded store
// collection, the centroid index built from it, and the ZIP resolver.
type appEnv struct {
	Records    []model.StoreRecord
	Stats      dataset.LoadStats
	Collection *geo.Collection
	Centroids  *geo.CentroidIndex
	Resolver   *resolver.Resolver
	Advisor    *advisor.Advisor

	// Query defaults from config, applied when a request omits the params.
	DefaultRadius float64
	DefaultLimit  int
}

// initApp loads the dataset and wires the core components. A dataset load
// failure is fatal: the caller must not start serving.
func initApp(ctx context.Context) (*appEnv, error) {
	records, stats, err := dataset.Load(ctx, cfg.Dataset.Path)
	if err != nil {
		return nil, err
	}

	collection := geo.NewCollection(records)
	centroids := geo.BuildCentroids(records)
	zap.L().Info("indexes built",
		zap.Int("stores", collection.Len()),
		zap.Int("zip_centroids", centroids.Len()),
	)

	nom := nominatim.NewClient(
		nominatim.WithBaseURL(cfg.Nominatim.BaseURL),
		nominatim.WithUserAgent(cfg.Nominatim.UserAgent),
		nominatim.WithRateLimit(cfg.Nominatim.RateLimit),
		nominatim.WithHTTPClient(httpClient(cfg.Nominatim.TimeoutSecs)),
	)
	gn := geonames.NewClient(cfg.GeoNames.Username,
		geonames.WithBaseURL(cfg.GeoNames.BaseURL),
		geonames.WithHTTPClient(httpClient(cfg.GeoNames.TimeoutSecs)),
	)

	env := &appEnv{
		Records:       records,
		Stats:         stats,
		Collection:    collection,
		Centroids:     centroids,
		Resolver:      resolver.NewDefault(centroids, nom, gn),
		DefaultRadius: cfg.Query.DefaultRadiusMeters,
		DefaultLimit:  cfg.Query.DefaultLimit,
	}

	if cfg.Anthropic.Key != "" {
		client := anthropic.NewClient(cfg.Anthropic.Key)
		env.Advisor = advisor.New(client, cfg.Anthropic.Model, cfg.Anthropic.MaxTokens)
	}

	return env, nil
}

func httpClient(timeoutSecs int) *http.Client {
	if timeoutSecs <= 0 {
		timeoutSecs = 10
	}
	return &http.Client{Timeout: time.Duration(timeoutSecs) * time.Second}
}
