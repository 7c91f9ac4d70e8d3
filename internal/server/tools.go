package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

var customRoomTypesSchema = map[string]interface{}{
	"type":        "array",
	"description": "Optional caller-defined room types, appended after the base palette",
	"items": map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"label": map[string]interface{}{"type": "string"},
			"color": map[string]interface{}{"type": "string", "description": "Hex color, #RGB or #RRGGBB"},
		},
		"required": []string{"label", "color"},
	},
}

var classificationSchema = map[string]interface{}{
	"type":        "string",
	"enum":        []string{"residential", "commercial"},
	"description": "Construction type; biases mock confidences",
}

var boundarySchema = map[string]interface{}{
	"type":        "object",
	"description": "Box as fractions of page width and height",
	"properties": map[string]interface{}{
		"x":      map[string]interface{}{"type": "number"},
		"y":      map[string]interface{}{"type": "number"},
		"width":  map[string]interface{}{"type": "number"},
		"height": map[string]interface{}{"type": "number"},
	},
	"required": []string{"x", "y", "width", "height"},
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Detection
		{
			Name:        "rooms_mock_analyze",
			Description: "Run the deterministic mock room detector for one page. The same page index, classification and custom types always yield the same rooms.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"page_index": map[string]interface{}{
						"type":        "integer",
						"description": "Zero-based page index; seeds the generator",
					},
					"classification":    classificationSchema,
					"custom_room_types": customRoomTypesSchema,
				},
				"required": []string{"page_index", "classification"},
			},
		},
		{
			Name:        "rooms_extract_boundary",
			Description: "Convert a segmentation mask into a room detection. The boundary is the bounding box of all non-transparent mask pixels, normalized to the mask size.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"mask_path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to a mask image file",
					},
					"mask": map[string]interface{}{
						"type":        "string",
						"description": "Mask image as base64 or a data URL (used when mask_path is not set)",
					},
					"label": map[string]interface{}{
						"type":        "string",
						"description": "Free-text label from the segmentation model",
					},
					"score": map[string]interface{}{
						"type":        "number",
						"description": "Model score; clamped to [0.10, 0.99]",
					},
					"page_index": map[string]interface{}{
						"type":        "integer",
						"description": "Page index used in the detection ID",
					},
					"ordinal": map[string]interface{}{
						"type":        "integer",
						"description": "Segment position used in the detection ID",
					},
					"custom_room_types": customRoomTypesSchema,
				},
				"required": []string{"label", "score"},
			},
		},
		{
			Name:        "rooms_analyze",
			Description: "Detect rooms on several pages using the configured segmenter, falling back to the mock detector per page when segmentation yields nothing usable.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"classification": classificationSchema,
					"pages": map[string]interface{}{
						"type": "array",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"id":        map[string]interface{}{"type": "string"},
								"index":     map[string]interface{}{"type": "integer"},
								"thumbnail": map[string]interface{}{"type": "string", "description": "Page image as a data URL"},
								"path":      map[string]interface{}{"type": "string", "description": "Page image file, used when thumbnail is not set"},
							},
							"required": []string{"id", "index"},
						},
					},
					"custom_room_types": customRoomTypesSchema,
				},
				"required": []string{"classification", "pages"},
			},
		},

		// Taxonomy
		{
			Name:        "rooms_color",
			Description: "Look up the display color for a room type key: base palette first, then custom types, else neutral gray.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"type": map[string]interface{}{
						"type":        "string",
						"description": "Room type key, e.g. \"Kitchen\"",
					},
					"custom_room_types": customRoomTypesSchema,
				},
				"required": []string{"type"},
			},
		},
		{
			Name:        "rooms_types",
			Description: "List the base room types with their colors, followed by any custom types.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"custom_room_types": customRoomTypesSchema,
					"dedupe": map[string]interface{}{
						"type":        "boolean",
						"description": "Drop later entries whose label repeats an earlier one. Default false",
						"default":     false,
					},
				},
			},
		},

		// Export
		{
			Name:        "rooms_render_overlay",
			Description: "Draw room boundaries over a page image and return it as a base64 PNG data URL, or write it to output_path.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the page image file",
					},
					"rooms": map[string]interface{}{
						"type": "array",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"id":       map[string]interface{}{"type": "string"},
								"label":    map[string]interface{}{"type": "string"},
								"type":     map[string]interface{}{"type": "string"},
								"color":    map[string]interface{}{"type": "string"},
								"boundary": boundarySchema,
							},
							"required": []string{"boundary"},
						},
					},
					"max_width": map[string]interface{}{
						"type":        "integer",
						"description": "Scale wider pages down to this width. Defaults to the server setting",
					},
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional file to write the PNG to instead of returning it inline",
					},
				},
				"required": []string{"path", "rooms"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
