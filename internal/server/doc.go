// Package server implements the MCP (Model Context Protocol) server for
// slanted-edge MTF measurement.
//
// The server speaks JSON-RPC 2.0 and exposes edge location and SFR/MTF
// calculation as tools, so an MCP client can measure lens and sensor
// sharpness from test chart photographs.
//
// # Protocol
//
// By default the server communicates over stdio:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// NewHTTPHandler serves the same methods over HTTP (POST /mcp), with a
// GET /health liveness check.
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Image Information:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//   - image_crop_roi: Preview a measurement region as PNG
//
// Edge Operations:
//   - edge_find: Locate near-vertical edges and suggest ROIs
//   - edge_fit: Contrast check and sub-pixel edge fit for one ROI
//
// MTF Measurement:
//   - mtf_compute: Full MTF curve, sampling efficiency and readouts
//   - mtf_readout: MTF at chosen frequencies plus the efficiency summary
//
// Images are addressed by file path or, when Azure credentials are
// configured, by azblob://container/blob.
//
// # Image Caching
//
// Decoded images are cached by path and reused across tool calls for the
// lifetime of the server process.
//
// # Error Handling
//
// Malformed or missing arguments return code -32602. Tool failures return
// -32000; when the measurement itself fails, data carries both the error
// text and its kind (invalid_input, degenerate_edge, threshold_not_reached).
//
// # Usage
//
//	cfg, err := config.Load(path)
//	...
//	srv, err := server.New(cfg, log)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
