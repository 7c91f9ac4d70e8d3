package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/ironsheep/floorplan-sandbox/internal/analysis"
	"github.com/ironsheep/floorplan-sandbox/internal/imaging"
	"github.com/ironsheep/floorplan-sandbox/internal/mask"
	"github.com/ironsheep/floorplan-sandbox/internal/mock"
	"github.com/ironsheep/floorplan-sandbox/internal/rooms"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "rooms_mock_analyze").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}
	if len(params.Arguments) == 0 {
		params.Arguments = json.RawMessage("{}")
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		s.logger.Warn("Tool execution failed", "tool", params.Name, "error", err)
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Detection
	case "rooms_mock_analyze":
		return s.handleMockAnalyze(args)
	case "rooms_extract_boundary":
		return s.handleExtractBoundary(args)
	case "rooms_analyze":
		return s.handleAnalyze(ctx, args)

	// Taxonomy
	case "rooms_color":
		return s.handleColor(args)
	case "rooms_types":
		return s.handleTypes(args)

	// Export
	case "rooms_render_overlay":
		return s.handleRenderOverlay(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Detection Handlers ===

type mockAnalyzeArgs struct {
	PageIndex       int                    `json:"page_index"`
	Classification  string                 `json:"classification"`
	CustomRoomTypes []rooms.TypeDefinition `json:"custom_room_types"`
}

type roomsResult struct {
	Rooms []rooms.Detection `json:"rooms"`
}

func (s *Server) handleMockAnalyze(args json.RawMessage) (interface{}, error) {
	var a mockAnalyzeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.PageIndex < 0 {
		return nil, fmt.Errorf("page_index must be >= 0, got %d", a.PageIndex)
	}
	classification, err := rooms.ParseConstructionType(a.Classification)
	if err != nil {
		return nil, err
	}
	custom, err := rooms.ValidateCustomTypes(a.CustomRoomTypes)
	if err != nil {
		return nil, err
	}
	return roomsResult{Rooms: mock.Analyze(a.PageIndex, classification, custom)}, nil
}

type extractBoundaryArgs struct {
	MaskPath        string                 `json:"mask_path"`
	Mask            string                 `json:"mask"`
	Label           string                 `json:"label"`
	Score           float64                `json:"score"`
	PageIndex       int                    `json:"page_index"`
	Ordinal         int                    `json:"ordinal"`
	CustomRoomTypes []rooms.TypeDefinition `json:"custom_room_types"`
}

type extractBoundaryResult struct {
	Found bool             `json:"found"`
	Room  *rooms.Detection `json:"room,omitempty"`
}

func (s *Server) handleExtractBoundary(args json.RawMessage) (interface{}, error) {
	var a extractBoundaryArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	custom, err := rooms.ValidateCustomTypes(a.CustomRoomTypes)
	if err != nil {
		return nil, err
	}

	var data []byte
	switch {
	case a.MaskPath != "":
		if data, err = os.ReadFile(a.MaskPath); err != nil {
			return nil, fmt.Errorf("failed to read mask: %w", err)
		}
	case a.Mask != "":
		if data, _, err = imaging.DecodeDataURL(a.Mask); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("one of mask_path or mask is required")
	}

	d, ok, err := mask.Extract(data, a.Label, a.Score, a.PageIndex, a.Ordinal, custom)
	if err != nil {
		return nil, err
	}
	if !ok {
		return extractBoundaryResult{Found: false}, nil
	}
	return extractBoundaryResult{Found: true, Room: &d}, nil
}

type analyzePage struct {
	ID        string `json:"id"`
	Index     int    `json:"index"`
	Thumbnail string `json:"thumbnail"`
	Path      string `json:"path"`
}

type analyzeArgs struct {
	Classification  string                 `json:"classification"`
	Pages           []analyzePage          `json:"pages"`
	CustomRoomTypes []rooms.TypeDefinition `json:"custom_room_types"`
}

func (s *Server) handleAnalyze(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a analyzeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	req := analysis.Request{
		Classification:  a.Classification,
		CustomRoomTypes: a.CustomRoomTypes,
		Pages:           make([]analysis.Page, len(a.Pages)),
	}
	for i, p := range a.Pages {
		thumb := p.Thumbnail
		if thumb == "" && p.Path != "" {
			data, err := os.ReadFile(p.Path)
			if err != nil {
				return nil, fmt.Errorf("page %q: failed to read image: %w", p.ID, err)
			}
			thumb = "data:" + http.DetectContentType(data) + ";base64," + base64.StdEncoding.EncodeToString(data)
		}
		req.Pages[i] = analysis.Page{ID: p.ID, Index: p.Index, Thumbnail: thumb}
	}

	return s.analyzer.Analyze(ctx, req)
}

// === Taxonomy Handlers ===

type colorArgs struct {
	Type            string                 `json:"type"`
	CustomRoomTypes []rooms.TypeDefinition `json:"custom_room_types"`
}

type colorResult struct {
	Type   string `json:"type"`
	Color  string `json:"color"`
	IsBase bool   `json:"is_base"`
}

func (s *Server) handleColor(args json.RawMessage) (interface{}, error) {
	var a colorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	custom, err := rooms.ValidateCustomTypes(a.CustomRoomTypes)
	if err != nil {
		return nil, err
	}
	return colorResult{
		Type:   a.Type,
		Color:  rooms.ColorFor(a.Type, custom),
		IsBase: rooms.IsBaseType(a.Type),
	}, nil
}

type typesArgs struct {
	CustomRoomTypes []rooms.TypeDefinition `json:"custom_room_types"`
	Dedupe          bool                   `json:"dedupe"`
}

type typesResult struct {
	RoomTypes []rooms.TypeDefinition `json:"room_types"`
}

func (s *Server) handleTypes(args json.RawMessage) (interface{}, error) {
	var a typesArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	custom, err := rooms.ValidateCustomTypes(a.CustomRoomTypes)
	if err != nil {
		return nil, err
	}
	all := rooms.AllTypes(custom)
	if a.Dedupe {
		all = rooms.DedupeTypes(all)
	}
	return typesResult{RoomTypes: all}, nil
}

// === Export Handlers ===

type renderOverlayArgs struct {
	Path       string            `json:"path"`
	Rooms      []rooms.Detection `json:"rooms"`
	MaxWidth   int               `json:"max_width"`
	OutputPath string            `json:"output_path"`
}

type renderOverlayResult struct {
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Rooms      int    `json:"rooms"`
	OutputPath string `json:"output_path,omitempty"`
	Image      string `json:"image,omitempty"`
}

func (s *Server) handleRenderOverlay(args json.RawMessage) (interface{}, error) {
	var a renderOverlayArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(a.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	page, _, err := imaging.Decode(data)
	if err != nil {
		return nil, err
	}

	for i := range a.Rooms {
		if a.Rooms[i].Color == "" {
			a.Rooms[i].Color = rooms.ColorFor(a.Rooms[i].Type, nil)
		}
	}

	opts := s.overlay
	if a.MaxWidth > 0 {
		opts.MaxWidth = a.MaxWidth
	}
	out := imaging.RenderOverlay(page, a.Rooms, opts)
	result := renderOverlayResult{
		Width:  out.Bounds().Dx(),
		Height: out.Bounds().Dy(),
		Rooms:  len(a.Rooms),
	}

	if a.OutputPath != "" {
		encoded, err := imaging.EncodePNG(out)
		if err != nil {
			return nil, err
		}
		if err := os.WriteFile(a.OutputPath, encoded, 0o644); err != nil {
			return nil, fmt.Errorf("failed to write overlay: %w", err)
		}
		result.OutputPath = a.OutputPath
		return result, nil
	}

	if result.Image, err = imaging.EncodeDataURL(out); err != nil {
		return nil, err
	}
	return result, nil
}
