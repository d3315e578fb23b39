package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/edge-mtf-mcp/internal/detection"
	"github.com/ironsheep/edge-mtf-mcp/internal/imaging"
	"github.com/ironsheep/edge-mtf-mcp/internal/sfr"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "mtf_compute").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// paramError marks a failure caused by malformed or missing tool arguments.
type paramError struct {
	err error
}

func (e *paramError) Error() string { return e.err.Error() }
func (e *paramError) Unwrap() error { return e.err }

func invalidParams(format string, args ...interface{}) error {
	return &paramError{err: fmt.Errorf(format, args...)}
}

// decodeArgs unmarshals tool arguments, treating an absent object as empty.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 || string(args) == "null" {
		args = json.RawMessage("{}")
	}
	if err := json.Unmarshal(args, v); err != nil {
		return &paramError{err: err}
	}
	return nil
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Argument errors return code -32602. Other tool failures return -32000 with
// the error text in data, plus the failure kind for measurement errors.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	start := time.Now()
	result, err := s.executeTool(params.Name, params.Arguments)

	entry := s.log.WithFields(logrus.Fields{
		"tool":        params.Name,
		"duration_ms": time.Since(start).Milliseconds(),
	})
	if err != nil {
		entry.WithError(err).Warn("tool call failed")
		return s.toolError(req.ID, err)
	}
	entry.Info("tool call")

	return s.toolResult(req.ID, params.Name, result)
}

// toolResult wraps a tool result in MCP text content. A result that cannot
// be encoded (e.g. a NaN in a measurement) is logged and reported as -32603.
func (s *Server) toolResult(id interface{}, tool string, result interface{}) *MCPResponse {
	text, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		s.log.WithError(err).WithField("tool", tool).Error("failed to encode tool result")
		return s.errorResponse(id, -32603, "Internal error", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": string(text),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies configured defaults for optional parameters
//  3. Loads images from cache as needed
//  4. Calls the appropriate imaging/detection/sfr function
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)
	case "image_crop_roi":
		return s.handleImageCropROI(args)

	// Edge Operations
	case "edge_find":
		return s.handleEdgeFind(args)
	case "edge_fit":
		return s.handleEdgeFit(args)

	// MTF Measurement
	case "mtf_compute":
		return s.handleMTFCompute(args)
	case "mtf_readout":
		return s.handleMTFReadout(args)

	default:
		return nil, invalidParams("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message string, data interface{}) *MCPResponse {
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

// toolError maps a tool failure to a JSON-RPC error.
func (s *Server) toolError(id interface{}, err error) *MCPResponse {
	var pe *paramError
	if errors.As(err, &pe) {
		return s.errorResponse(id, -32602, "Invalid params", err.Error())
	}
	if kind := sfr.KindOf(err); kind != "" {
		return s.errorResponse(id, -32000, "Tool execution failed", map[string]interface{}{
			"error": err.Error(),
			"kind":  kind,
		})
	}
	return s.errorResponse(id, -32000, "Tool execution failed", err.Error())
}

// === Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (a imageLoadArgs) validate() error {
	if a.Path == "" {
		return invalidParams("path is required")
	}
	return nil
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := a.validate(); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := a.validate(); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

type imageCropROIArgs struct {
	Path  string  `json:"path"`
	X1    int     `json:"x1"`
	Y1    int     `json:"y1"`
	X2    int     `json:"x2"`
	Y2    int     `json:"y2"`
	Scale float64 `json:"scale"`
}

func (s *Server) handleImageCropROI(args json.RawMessage) (interface{}, error) {
	var a imageCropROIArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, invalidParams("path is required")
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.CropPNG(img, imaging.Region{X1: a.X1, Y1: a.Y1, X2: a.X2, Y2: a.Y2}, a.Scale)
}

// === Edge Handlers ===

// roiArgs selects the grayscale measurement region shared by edge and MTF tools.
type roiArgs struct {
	Path      string          `json:"path"`
	ROI       *imaging.Region `json:"roi,omitempty"`
	Luminance string          `json:"luminance,omitempty"`
}

// grayROI loads the image, crops the ROI and reduces it to one channel.
func (s *Server) grayROI(a roiArgs) (*sfr.GrayscaleImage, error) {
	if a.Path == "" {
		return nil, invalidParams("path is required")
	}
	lum := a.Luminance
	if lum == "" {
		lum = s.cfg.Measurement.Luminance
	}
	mode, err := imaging.ParseLuminance(lum)
	if err != nil {
		return nil, &paramError{err: err}
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	roi, err := imaging.CropROI(img, a.ROI)
	if err != nil {
		return nil, &paramError{err: err}
	}
	return imaging.ToGrayscale(roi, mode)
}

type edgeFindArgs struct {
	roiArgs
	MinLength      int     `json:"min_length"`
	MaxTiltDegrees float64 `json:"max_tilt_degrees"`
	ThresholdLow   float64 `json:"threshold_low"`
	ThresholdHigh  float64 `json:"threshold_high"`
}

func (s *Server) handleEdgeFind(args json.RawMessage) (interface{}, error) {
	var a edgeFindArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	gray, err := s.grayROI(a.roiArgs)
	if err != nil {
		return nil, err
	}

	opts := detection.DefaultFindOptions()
	if a.MinLength != 0 {
		opts.MinLength = a.MinLength
	}
	if a.MaxTiltDegrees != 0 {
		opts.MaxTiltDegrees = a.MaxTiltDegrees
	}
	if a.ThresholdLow != 0 {
		opts.ThresholdLow = a.ThresholdLow
	}
	if a.ThresholdHigh != 0 {
		opts.ThresholdHigh = a.ThresholdHigh
	}

	res, err := detection.FindSlantedEdges(gray, opts)
	if err != nil {
		return nil, &paramError{err: err}
	}
	// Suggested ROIs are relative to the searched region; report them in
	// image coordinates.
	if a.ROI != nil {
		for i := range res.Edges {
			e := &res.Edges[i]
			e.Start.X += a.ROI.X1
			e.Start.Y += a.ROI.Y1
			e.End.X += a.ROI.X1
			e.End.Y += a.ROI.Y1
			e.ROI.X1 += a.ROI.X1
			e.ROI.X2 += a.ROI.X1
			e.ROI.Y1 += a.ROI.Y1
			e.ROI.Y2 += a.ROI.Y1
		}
	}
	return res, nil
}

func (s *Server) handleEdgeFit(args json.RawMessage) (interface{}, error) {
	var a roiArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	gray, err := s.grayROI(a)
	if err != nil {
		return nil, err
	}
	return sfr.LocateEdge(gray)
}

// === MTF Handlers ===

type mtfArgs struct {
	roiArgs
	PixelPitchUM       float64   `json:"pixel_pitch_um"`
	BinningFactor      int       `json:"binning_factor"`
	ContrastThresholds []float64 `json:"contrast_thresholds"`
	ReadoutFrequencies []float64 `json:"readout_frequencies"`
	IncludeProfiles    bool      `json:"include_profiles"`
}

// measure runs the full pipeline with configured defaults filled in.
func (s *Server) measure(args json.RawMessage) (*sfr.Result, *mtfArgs, error) {
	var a mtfArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, nil, err
	}
	m := s.cfg.Measurement
	if a.PixelPitchUM == 0 {
		a.PixelPitchUM = m.PixelPitchUM
	}
	if a.BinningFactor == 0 {
		a.BinningFactor = m.BinningFactor
	}
	if len(a.ContrastThresholds) == 0 {
		a.ContrastThresholds = m.ContrastThresholds
	}
	if a.ReadoutFrequencies == nil {
		a.ReadoutFrequencies = m.ReadoutFrequencies
	}
	for _, f := range a.ReadoutFrequencies {
		if f < 0 {
			return nil, nil, invalidParams("readout frequency must be >= 0 (got %v)", f)
		}
	}

	gray, err := s.grayROI(a.roiArgs)
	if err != nil {
		return nil, nil, err
	}

	res, err := sfr.Calculate(gray, sfr.Options{
		SamplingIntervalMM: a.PixelPitchUM / 1000,
		BinningFactor:      a.BinningFactor,
		ContrastThresholds: a.ContrastThresholds,
		ReadoutFrequencies: a.ReadoutFrequencies,
		Logger:             s.log.WithField("path", a.Path),
	})
	if err != nil {
		return nil, nil, err
	}
	return res, &a, nil
}

func (s *Server) handleMTFCompute(args json.RawMessage) (interface{}, error) {
	res, a, err := s.measure(args)
	if err != nil {
		return nil, err
	}
	if !a.IncludeProfiles {
		res.ESF = nil
		res.PSF = nil
	}
	return res, nil
}

// MTFReadoutResult is the compact summary returned by mtf_readout.
type MTFReadoutResult struct {
	Readouts             []sfr.Readout   `json:"readouts"`
	EfficiencyPercent    float64         `json:"efficiency_percent"`
	ContrastThresholds   []float64       `json:"contrast_thresholds"`
	ThresholdFrequencies []float64       `json:"threshold_frequencies"`
	NyquistFrequency     float64         `json:"nyquist_frequency"`
	EdgeAngleDegrees     float64         `json:"edge_angle_degrees"`
	Diagnostics          sfr.Diagnostics `json:"diagnostics"`
}

func (s *Server) handleMTFReadout(args json.RawMessage) (interface{}, error) {
	res, a, err := s.measure(args)
	if err != nil {
		return nil, err
	}
	return &MTFReadoutResult{
		Readouts:             res.Readouts,
		EfficiencyPercent:    res.EfficiencyPercent(),
		ContrastThresholds:   a.ContrastThresholds,
		ThresholdFrequencies: res.SamplingEfficiency.ThresholdFrequencies,
		NyquistFrequency:     res.NyquistFrequency,
		EdgeAngleDegrees:     res.EdgeAngle(),
		Diagnostics:          res.Diagnostics,
	}, nil
}
