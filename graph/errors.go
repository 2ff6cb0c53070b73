package graph

import "errors"

// Topology errors surface at the command/service boundary; tool state
// machines catch and log them, leaving state unchanged.
var (
	ErrInvalidTopology = errors.New("invalid topology")
	ErrNodeNotFound    = errors.New("node not found")
	ErrWallNotFound    = errors.New("wall not found")
)
