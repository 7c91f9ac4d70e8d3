// Package config loads service settings from the environment.
//
// Values come from FLOORPLAN_* variables. The CLI loads a .env file into the
// environment first, so either source works.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ironsheep/floorplan-sandbox/internal/detection"
	"github.com/ironsheep/floorplan-sandbox/internal/segment"
)

// Segmenter kinds.
const (
	SegmenterMock    = "mock"
	SegmenterRemote  = "remote"
	SegmenterOCR     = "ocr"
	SegmenterRegions = "regions"
)

// Config holds service settings.
type Config struct {
	Addr string

	// Segmenter selects the detector behind analysis: "mock" runs only the
	// deterministic mock, "remote" calls SegmentURL, "ocr" uses Tesseract
	// and "regions" finds wall-enclosed areas locally.
	Segmenter      string
	SegmentURL     string
	SegmentToken   string
	SegmentTimeout time.Duration

	OCRLanguage string

	// WallThreshold is the luminance below which the regions segmenter
	// treats a pixel as wall.
	WallThreshold int

	OverlayMaxWidth int

	// MaxSessions caps the HTTP session store; the least recently updated
	// session is evicted when full. Zero means unbounded.
	MaxSessions int

	LogLevel slog.Level
}

// Load reads the configuration from environment variables and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		Addr:         getEnv("FLOORPLAN_ADDR", ":8888"),
		Segmenter:    strings.ToLower(getEnv("FLOORPLAN_SEGMENTER", SegmenterMock)),
		SegmentURL:   getEnv("FLOORPLAN_SEGMENT_URL", ""),
		SegmentToken: getEnv("FLOORPLAN_SEGMENT_TOKEN", ""),
		OCRLanguage:  getEnv("FLOORPLAN_OCR_LANGUAGE", "eng"),
	}

	var err error
	if cfg.SegmentTimeout, err = time.ParseDuration(getEnv("FLOORPLAN_SEGMENT_TIMEOUT", "30s")); err != nil {
		return nil, fmt.Errorf("FLOORPLAN_SEGMENT_TIMEOUT: %w", err)
	}
	if cfg.OverlayMaxWidth, err = strconv.Atoi(getEnv("FLOORPLAN_OVERLAY_MAX_WIDTH", "1600")); err != nil {
		return nil, fmt.Errorf("FLOORPLAN_OVERLAY_MAX_WIDTH: %w", err)
	}
	if cfg.MaxSessions, err = strconv.Atoi(getEnv("FLOORPLAN_MAX_SESSIONS", "1000")); err != nil {
		return nil, fmt.Errorf("FLOORPLAN_MAX_SESSIONS: %w", err)
	}
	if cfg.WallThreshold, err = strconv.Atoi(getEnv("FLOORPLAN_WALL_THRESHOLD", "128")); err != nil {
		return nil, fmt.Errorf("FLOORPLAN_WALL_THRESHOLD: %w", err)
	}
	if cfg.LogLevel, err = ParseLevel(getEnv("FLOORPLAN_LOG_LEVEL", "info")); err != nil {
		return nil, fmt.Errorf("FLOORPLAN_LOG_LEVEL: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks that the settings are usable together.
func (c *Config) Validate() error {
	switch c.Segmenter {
	case SegmenterMock, SegmenterOCR:
	case SegmenterRegions:
		if c.WallThreshold < 1 || c.WallThreshold > 255 {
			return fmt.Errorf("wall threshold must be in 1..255, got %d", c.WallThreshold)
		}
	case SegmenterRemote:
		if c.SegmentURL == "" {
			return fmt.Errorf("FLOORPLAN_SEGMENT_URL is required when FLOORPLAN_SEGMENTER=remote")
		}
	default:
		return fmt.Errorf("unknown segmenter %q (want mock, remote, ocr or regions)", c.Segmenter)
	}
	if c.SegmentTimeout <= 0 {
		return fmt.Errorf("segment timeout must be positive, got %s", c.SegmentTimeout)
	}
	if c.MaxSessions < 0 {
		return fmt.Errorf("max sessions must be zero or positive, got %d", c.MaxSessions)
	}
	if c.OverlayMaxWidth < 1 {
		return fmt.Errorf("overlay max width must be positive, got %d", c.OverlayMaxWidth)
	}
	return nil
}

// NewSegmenter builds the configured segmenter. The mock kind returns nil,
// which makes analysis use the mock detector for every page.
func (c *Config) NewSegmenter() (segment.Segmenter, error) {
	switch c.Segmenter {
	case SegmenterRemote:
		return segment.NewHTTPClient(c.SegmentURL, c.SegmentToken, c.SegmentTimeout), nil
	case SegmenterOCR:
		opts := segment.DefaultOCROptions()
		opts.Language = c.OCRLanguage
		return segment.NewOCRSegmenter(opts)
	case SegmenterRegions:
		opts := detection.DefaultOptions()
		opts.WallThreshold = uint8(c.WallThreshold)
		return segment.NewRegionSegmenter(opts), nil
	default:
		return nil, nil
	}
}

// NewLogger returns a text logger writing to w at the configured level.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: c.LogLevel}))
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, err
	}
	return level, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
