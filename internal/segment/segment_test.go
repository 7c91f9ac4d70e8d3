package segment

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ironsheep/floorplan-sandbox/internal/detection"
	"github.com/ironsheep/floorplan-sandbox/internal/mask"
)

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	img.SetNRGBA(1, 1, color.NRGBA{A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestHTTPClient_Segment(t *testing.T) {
	page := testPNG(t, 8, 8)
	maskPNG := testPNG(t, 8, 8)

	var gotAuth, gotType string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method: got %s, want POST", r.Method)
		}
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]map[string]interface{}{
			{"label": "kitchen", "score": 0.91, "mask": base64.StdEncoding.EncodeToString(maskPNG)},
			{"label": "hall", "score": 0.4, "mask": "data:image/png;base64," + base64.StdEncoding.EncodeToString(maskPNG)},
			{"label": "wall", "score": 0.7, "mask": "%%%"},
		})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "secret", 5*time.Second)
	segs, err := c.Segment(context.Background(), page)
	if err != nil {
		t.Fatalf("Segment failed: %v", err)
	}

	if gotAuth != "Bearer secret" {
		t.Errorf("Authorization: got %q", gotAuth)
	}
	if gotType != "image/png" {
		t.Errorf("Content-Type: got %q", gotType)
	}
	if !bytes.Equal(gotBody, page) {
		t.Error("request body is not the page image")
	}

	if len(segs) != 3 {
		t.Fatalf("got %d segments, want 3", len(segs))
	}
	if segs[0].Label != "kitchen" || segs[0].Score != 0.91 || !bytes.Equal(segs[0].Mask, maskPNG) {
		t.Errorf("segment 0: %+v", segs[0])
	}
	if !bytes.Equal(segs[1].Mask, maskPNG) {
		t.Error("data URL mask not decoded")
	}
	if segs[2].Mask != nil {
		t.Error("invalid mask should be left empty")
	}
	if _, _, err := mask.Extract(segs[2].Mask, segs[2].Label, segs[2].Score, 0, 2, nil); !errors.Is(err, mask.ErrDecode) {
		t.Errorf("empty mask should fail extraction with ErrDecode, got %v", err)
	}
}

func TestHTTPClient_NoToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h := r.Header.Get("Authorization"); h != "" {
			t.Errorf("unexpected Authorization header %q", h)
		}
		_, _ = w.Write([]byte("[]"))
	}))
	defer srv.Close()

	segs, err := NewHTTPClient(srv.URL, "", time.Second).Segment(context.Background(), []byte("x"))
	if err != nil {
		t.Fatalf("Segment failed: %v", err)
	}
	if len(segs) != 0 {
		t.Errorf("got %d segments, want 0", len(segs))
	}
}

func TestHTTPClient_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    string
	}{
		{
			"server error",
			func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "model loading", http.StatusServiceUnavailable)
			},
			"status 503",
		},
		{
			"bad json",
			func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("{not json"))
			},
			"decode response",
		},
		{
			"object instead of array",
			func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"error":"quota"}`))
			},
			"decode response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := NewHTTPClient(srv.URL, "", time.Second).Segment(context.Background(), []byte("x"))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should contain %q", err, tt.want)
			}
		})
	}
}

func TestHTTPClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	if _, err := NewHTTPClient(url, "", time.Second).Segment(context.Background(), []byte("x")); err == nil {
		t.Fatal("expected error for closed server")
	}
}

func TestHTTPClient_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("[]"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewHTTPClient(srv.URL, "", time.Second).Segment(ctx, []byte("x")); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestSegmenterFunc(t *testing.T) {
	var s Segmenter = SegmenterFunc(func(ctx context.Context, image []byte) ([]Segment, error) {
		return []Segment{{Label: string(image)}}, nil
	})
	segs, err := s.Segment(context.Background(), []byte("bath"))
	if err != nil || len(segs) != 1 || segs[0].Label != "bath" {
		t.Errorf("got %+v, %v", segs, err)
	}
}

func TestSegmentsFromText(t *testing.T) {
	boxes := []TextBox{
		{Text: "KITCHEN", Confidence: 0.9, Box: image.Rect(40, 40, 60, 50)},
		{Text: "SCALE 1:100", Confidence: 0.95, Box: image.Rect(0, 0, 30, 5)},
		{Text: "BEDROOM", Confidence: 0.2, Box: image.Rect(10, 70, 30, 80)},
		{Text: "  ", Confidence: 0.9, Box: image.Rect(0, 0, 1, 1)},
	}

	segs, err := segmentsFromText(boxes, 100, 100, OCROptions{Padding: 0.5, MinConfidence: 0.5})
	if err != nil {
		t.Fatalf("segmentsFromText failed: %v", err)
	}
	if len(segs) != 1 {
		t.Fatalf("got %d segments, want 1", len(segs))
	}
	if segs[0].Label != "KITCHEN" || segs[0].Score != 0.9 {
		t.Errorf("segment: %+v", segs[0])
	}

	d, ok, err := mask.Extract(segs[0].Mask, segs[0].Label, segs[0].Score, 0, 0, nil)
	if err != nil || !ok {
		t.Fatalf("Extract: ok=%v err=%v", ok, err)
	}
	// 20x10 box grown by 10px each side: (30,30)-(70,60)
	if d.Boundary.X != 0.3 || d.Boundary.Y != 0.3 || d.Boundary.Width != 0.4 || d.Boundary.Height != 0.3 {
		t.Errorf("boundary: %+v", d.Boundary)
	}
}

func TestLabelMask_Clipped(t *testing.T) {
	data, err := labelMask(50, 50, image.Rect(45, 45, 50, 50), 2)
	if err != nil {
		t.Fatal(err)
	}
	b, ok := mask.OpaqueBounds(mustDecode(t, data))
	if !ok {
		t.Fatal("mask is empty")
	}
	if b != (mask.Bounds{MinX: 35, MinY: 35, MaxX: 49, MaxY: 49}) {
		t.Errorf("got %+v", b)
	}
}

func mustDecode(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	return img
}

func TestRegionSegmenter(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 50))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	black := func(r image.Rectangle) {
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				img.Set(x, y, color.Black)
			}
		}
	}
	// Two rooms side by side, walls 2px thick.
	black(image.Rect(0, 0, 100, 2))
	black(image.Rect(0, 48, 100, 50))
	black(image.Rect(0, 0, 2, 50))
	black(image.Rect(98, 0, 100, 50))
	black(image.Rect(49, 0, 51, 50))

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}

	seg := NewRegionSegmenter(detection.Options{WallDilation: -1})
	segs, err := seg.Segment(context.Background(), buf.Bytes())
	if err != nil {
		t.Fatalf("Segment failed: %v", err)
	}
	if len(segs) != 2 {
		t.Fatalf("got %d segments, want 2", len(segs))
	}

	for i, s := range segs {
		if s.Label != RegionLabel {
			t.Errorf("segment %d label = %q", i, s.Label)
		}
		if s.Score != 1.0 {
			t.Errorf("segment %d score = %v, want 1.0 for a rectangle", i, s.Score)
		}
		d, ok, err := mask.Extract(s.Mask, s.Label, s.Score, 0, i, nil)
		if err != nil || !ok {
			t.Fatalf("segment %d mask unusable: ok=%v err=%v", i, ok, err)
		}
		if d.Boundary.Y != 0.04 || d.Boundary.Height != 0.92 {
			t.Errorf("segment %d boundary = %+v", i, d.Boundary)
		}
	}
}

func TestRegionSegmenter_BadImage(t *testing.T) {
	if _, err := NewRegionSegmenter(detection.Options{}).Segment(context.Background(), []byte("junk")); err == nil {
		t.Error("expected decode error")
	}
}
