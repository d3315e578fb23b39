package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file, or azblob://container/blob",
	}
}

func roiProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"description": "Region of interest containing one near-vertical edge (x2, y2 exclusive). Defaults to the whole image.",
		"properties": map[string]interface{}{
			"x1": map[string]interface{}{"type": "integer"},
			"y1": map[string]interface{}{"type": "integer"},
			"x2": map[string]interface{}{"type": "integer"},
			"y2": map[string]interface{}{"type": "integer"},
		},
		"required": []string{"x1", "y1", "x2", "y2"},
	}
}

func luminanceProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"enum":        []string{"luma", "bt601", "lightness", "red"},
		"description": "How color pixels are reduced to intensity (default from server config, normally luma)",
	}
}

// mtfProperties are the inputs shared by mtf_compute and mtf_readout.
func mtfProperties() map[string]interface{} {
	return map[string]interface{}{
		"path":      pathProperty(),
		"roi":       roiProperty(),
		"luminance": luminanceProperty(),
		"pixel_pitch_um": map[string]interface{}{
			"type":        "number",
			"description": "Sensor pixel pitch in micrometres (default from server config)",
		},
		"binning_factor": map[string]interface{}{
			"type":        "integer",
			"description": "ESF oversampling factor, 1 to 64 (default: 4)",
			"default":     4,
			"minimum":     1,
			"maximum":     64,
		},
		"contrast_thresholds": map[string]interface{}{
			"type":        "array",
			"items":       map[string]interface{}{"type": "number"},
			"description": "MTF levels in (0, 1) at which to report frequencies (default: [0.1, 0.5])",
		},
		"readout_frequencies": map[string]interface{}{
			"type":        "array",
			"items":       map[string]interface{}{"type": "number"},
			"description": "Spatial frequencies in lp/mm at which to interpolate the MTF",
		},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	computeProps := mtfProperties()
	computeProps["include_profiles"] = map[string]interface{}{
		"type":        "boolean",
		"description": "Include the oversampled ESF and windowed PSF in the result (default: false)",
		"default":     false,
	}

	return []Tool{
		// Image Information
		{
			Name:        "image_load",
			Description: "Load an image and return its dimensions, format, bit depth and size.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_crop_roi",
			Description: "Crop a region of interest and return it as base64-encoded PNG, to check what a measurement ROI contains.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"x1": map[string]interface{}{
						"type":        "integer",
						"description": "Left edge X coordinate (0-based)",
					},
					"y1": map[string]interface{}{
						"type":        "integer",
						"description": "Top edge Y coordinate (0-based)",
					},
					"x2": map[string]interface{}{
						"type":        "integer",
						"description": "Right edge X coordinate (exclusive)",
					},
					"y2": map[string]interface{}{
						"type":        "integer",
						"description": "Bottom edge Y coordinate (exclusive)",
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Nearest-neighbour scale factor for the preview (default: 1.0)",
						"default":     1.0,
					},
				},
				"required": []string{"path", "x1", "y1", "x2", "y2"},
			},
		},

		// Edge Operations
		{
			Name:        "edge_find",
			Description: "Search an image for near-vertical straight edges and suggest a measurement ROI around each.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":      pathProperty(),
					"roi":       roiProperty(),
					"luminance": luminanceProperty(),
					"min_length": map[string]interface{}{
						"type":        "integer",
						"description": "Shortest edge to report, in pixels (default: 20)",
						"default":     20,
					},
					"max_tilt_degrees": map[string]interface{}{
						"type":        "number",
						"description": "Largest angle from vertical to search (default: 20)",
						"default":     20,
					},
					"threshold_low": map[string]interface{}{
						"type":        "number",
						"description": "Canny low threshold in intensity units (default: 20)",
						"default":     20,
					},
					"threshold_high": map[string]interface{}{
						"type":        "number",
						"description": "Canny high threshold in intensity units (default: 50)",
						"default":     50,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "edge_fit",
			Description: "Run the contrast check and two-pass sub-pixel edge fit on an ROI. Returns slope, intercept, angle and diagnostics.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":      pathProperty(),
					"roi":       roiProperty(),
					"luminance": luminanceProperty(),
				},
				"required": []string{"path"},
			},
		},

		// MTF Measurement
		{
			Name:        "mtf_compute",
			Description: "Measure the MTF of a slanted edge (ISO 12233 style). Returns the MTF curve, frequency axis, edge fit, sampling efficiency, readouts and diagnostics.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": computeProps,
				"required":   []string{"path"},
			},
		},
		{
			Name:        "mtf_readout",
			Description: "Measure the MTF of a slanted edge and return only the readouts at the requested frequencies plus the sampling efficiency summary.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": mtfProperties(),
				"required":   []string{"path"},
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
