package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
)

var ErrUnknownLayer = errors.New("unknown layer")

// layerFiles maps public layer names to the GeoJSON files the ingestion
// scripts write into the data directory.
var layerFiles = map[string]string{
	"fires":        "nasa-firms.json",
	"earthquakes":  "usgs-earthquakes.json",
	"weather":      "openweather.json",
	"emissions":    "carbon-monitor.json",
	"noaa-alerts":  "noaa-alerts.json",
	"nasa-eonet":   "nasa-eonet.json",
	"air-quality":  "air-quality.json",
	"volcanoes":    "volcanoes.json",
	"solar-flares": "solar-flares.json",
}

// LayerService serves pre-generated GeoJSON layer files with Redis caching.
type LayerService struct {
	dataDir string
	cache   *CacheService
}

func NewLayerService(dataDir string, cache *CacheService) *LayerService {
	return &LayerService{dataDir: dataDir, cache: cache}
}

// Fetch returns the GeoJSON body for a named layer. Unknown layers return
// ErrUnknownLayer; a known layer whose file is missing returns an empty
// FeatureCollection so map clients degrade gracefully.
func (s *LayerService) Fetch(ctx context.Context, layer string) ([]byte, error) {
	fileName, ok := layerFiles[layer]
	if !ok {
		return nil, ErrUnknownLayer
	}

	if s.cache != nil {
		if data, err := s.cache.GetLayer(ctx, layer); err == nil && data != nil {
			return data, nil
		}
	}

	body, err := os.ReadFile(filepath.Join(s.dataDir, fileName))
	if err != nil {
		if os.IsNotExist(err) {
			return emptyFeatureCollection(layer), nil
		}
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetLayer(ctx, layer, body); err != nil {
			log.Printf("cache: set layer error: %v", err)
		}
	}

	return body, nil
}

func emptyFeatureCollection(layer string) []byte {
	return fmt.Appendf(nil, `{"type":"FeatureCollection","metadata":{"source":%q,"last_updated":%q,"total_features":0,"dataMode":"empty"},"features":[]}`,
		layer, time.Now().UTC().Format(time.RFC3339))
}
