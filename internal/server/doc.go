// Package server implements the MCP (Model Context Protocol) server for the
// floorplan room tools.
//
// This package provides a JSON-RPC 2.0 server that exposes room detection,
// mask extraction, taxonomy lookup and overlay rendering through the MCP
// protocol, so an assistant can digitize a floorplan page by page.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Detection:
//   - rooms_mock_analyze: Deterministic mock rooms for one page
//   - rooms_extract_boundary: Mask image to room detection
//   - rooms_analyze: Multi-page analysis with per-page mock fallback
//
// Taxonomy:
//   - rooms_color: Display color for a type key
//   - rooms_types: Base and custom room types
//
// Export:
//   - rooms_render_overlay: Room outlines drawn over a page image
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// Unparseable request lines are answered with -32700 and a null id.
//
// # Usage
//
//	srv := server.New(analyzer, imaging.DefaultOverlayOptions(), logger)
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server
