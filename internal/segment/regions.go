package segment

import (
	"context"

	"github.com/ironsheep/floorplan-sandbox/internal/detection"
	"github.com/ironsheep/floorplan-sandbox/internal/imaging"
)

// RegionLabel is the label given to every wall-bounded region. The finder
// cannot tell room types apart, so these become custom "Room" detections.
const RegionLabel = "room"

// RegionSegmenter finds rooms as floor areas enclosed by walls, with no
// model or network access.
type RegionSegmenter struct {
	opts detection.Options
}

// NewRegionSegmenter returns a segmenter using opts. Zero fields take the
// detection defaults.
func NewRegionSegmenter(opts detection.Options) *RegionSegmenter {
	return &RegionSegmenter{opts: opts}
}

// Segment decodes the page and emits one mask per enclosed region, scored
// by how rectangular the region is.
func (s *RegionSegmenter) Segment(ctx context.Context, data []byte) ([]Segment, error) {
	img, _, err := imaging.Decode(data)
	if err != nil {
		return nil, err
	}

	regions := detection.FindRegions(img, s.opts)
	segments := make([]Segment, 0, len(regions))
	for _, r := range regions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		mask, err := imaging.EncodePNG(r.Mask)
		if err != nil {
			return nil, err
		}
		segments = append(segments, Segment{
			Label: RegionLabel,
			Score: r.Fill,
			Mask:  mask,
		})
	}
	return segments, nil
}
