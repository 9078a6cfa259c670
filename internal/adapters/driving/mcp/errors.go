// Package mcp provides an MCP (Model Context Protocol) server adapter for
// ragchat. It lets AI assistants search the wiki corpus and request
// grounded answers over stdio or HTTP.
package mcp

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")
