// Package analysis runs room detection over the pages of a floorplan.
//
// Pages are processed one at a time. Each page goes to the configured
// Segmenter; every returned segment is reduced to a detection by the mask
// extractor, and a page that ends up with no usable detection (no
// segmenter, a failed call, an undecodable thumbnail, or only empty and
// malformed masks) falls back to the deterministic mock detector. A failure
// on one page never affects another.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ironsheep/floorplan-sandbox/internal/imaging"
	"github.com/ironsheep/floorplan-sandbox/internal/mask"
	"github.com/ironsheep/floorplan-sandbox/internal/mock"
	"github.com/ironsheep/floorplan-sandbox/internal/rooms"
	"github.com/ironsheep/floorplan-sandbox/internal/segment"
)

// ErrInvalidRequest is wrapped by every validation failure.
var ErrInvalidRequest = errors.New("invalid analysis request")

// Source records which detector produced a page's rooms.
type Source string

const (
	SourceModel Source = "model"
	SourceMock  Source = "mock"
)

// Page is one selected page of the uploaded document.
type Page struct {
	ID        string `json:"id"`
	Index     int    `json:"index"`
	Thumbnail string `json:"thumbnail"` // data URL
}

// Request asks for room detection on a set of pages.
type Request struct {
	Pages           []Page                 `json:"pages"`
	Classification  string                 `json:"classification"`
	CustomRoomTypes []rooms.TypeDefinition `json:"customRoomTypes"`
}

// Response maps page IDs to their detected rooms.
type Response struct {
	Rooms   map[string][]rooms.Detection `json:"rooms"`
	Sources map[string]Source            `json:"sources"`
}

// Service runs analyses. A nil segmenter means every page uses the mock.
type Service struct {
	segmenter segment.Segmenter
	logger    *slog.Logger
}

// NewService creates a service. logger may be nil.
func NewService(segmenter segment.Segmenter, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		segmenter: segmenter,
		logger:    logger,
	}
}

// Validate checks a request without doing any detection work and returns
// the parsed classification and normalized custom types.
func Validate(req Request) (rooms.ConstructionType, []rooms.TypeDefinition, error) {
	classification, err := rooms.ParseConstructionType(req.Classification)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if len(req.Pages) == 0 {
		return "", nil, fmt.Errorf("%w: no pages selected", ErrInvalidRequest)
	}

	seen := make(map[string]bool, len(req.Pages))
	for i, p := range req.Pages {
		if p.ID == "" {
			return "", nil, fmt.Errorf("%w: page %d has no id", ErrInvalidRequest, i)
		}
		if seen[p.ID] {
			return "", nil, fmt.Errorf("%w: duplicate page id %q", ErrInvalidRequest, p.ID)
		}
		seen[p.ID] = true
		if p.Index < 0 {
			return "", nil, fmt.Errorf("%w: page %q has negative index %d", ErrInvalidRequest, p.ID, p.Index)
		}
	}

	custom, err := rooms.ValidateCustomTypes(req.CustomRoomTypes)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return classification, rooms.DedupeTypes(custom), nil
}

// Analyze validates req and detects rooms on each page in order.
//
// Only validation errors and context cancellation are returned; per-page
// detector failures are logged and answered by the mock.
func (s *Service) Analyze(ctx context.Context, req Request) (*Response, error) {
	classification, custom, err := Validate(req)
	if err != nil {
		return nil, err
	}

	resp := &Response{
		Rooms:   make(map[string][]rooms.Detection, len(req.Pages)),
		Sources: make(map[string]Source, len(req.Pages)),
	}
	for _, p := range req.Pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		dets, source := s.analyzePage(ctx, p, classification, custom)
		resp.Rooms[p.ID] = dets
		resp.Sources[p.ID] = source
	}
	return resp, nil
}

func (s *Service) analyzePage(ctx context.Context, p Page, classification rooms.ConstructionType, custom []rooms.TypeDefinition) ([]rooms.Detection, Source) {
	log := s.logger.With("page_id", p.ID, "page_index", p.Index)

	if s.segmenter != nil {
		dets, err := s.segmentPage(ctx, p, custom, log)
		if err != nil {
			log.Warn("Segmentation failed, using mock detector", "error", err)
		} else if len(dets) == 0 {
			log.Info("No usable segments, using mock detector")
		} else {
			log.Debug("Page analyzed by model", "rooms", len(dets))
			return dets, SourceModel
		}
	}

	return mock.Analyze(p.Index, classification, custom), SourceMock
}

func (s *Service) segmentPage(ctx context.Context, p Page, custom []rooms.TypeDefinition, log *slog.Logger) ([]rooms.Detection, error) {
	image, _, err := imaging.DecodeDataURL(p.Thumbnail)
	if err != nil {
		return nil, fmt.Errorf("thumbnail: %w", err)
	}

	segments, err := s.segmenter.Segment(ctx, image)
	if err != nil {
		return nil, err
	}

	dets := make([]rooms.Detection, 0, len(segments))
	for i, seg := range segments {
		d, ok, err := mask.Extract(seg.Mask, seg.Label, seg.Score, p.Index, i, custom)
		if err != nil {
			log.Warn("Skipping segment with malformed mask", "ordinal", i, "label", seg.Label, "error", err)
			continue
		}
		if !ok {
			log.Debug("Skipping empty mask", "ordinal", i, "label", seg.Label)
			continue
		}
		dets = append(dets, d)
	}
	return dets, nil
}
