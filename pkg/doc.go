// Package pkg provides the core libraries for Roomforge floor-plan generation.
//
// # Overview
//
// Roomforge turns a description of a house into a 2D floor-plan layout:
// rooms placed on a rectangular lot so that adjacency, connectivity and
// privacy constraints hold. The pkg directory is organized into four main
// areas:
//
//  1. [program] - Room program normalization (raw input → validated spec)
//  2. [core] - Domain logic (grid geometry, placement, validation, repair)
//  3. [render] - Output formats (SVG, PNG, DOT, JSON)
//  4. [pipeline] - Orchestration (normalize → generate → render)
//
// # Architecture
//
// The typical data flow through Roomforge:
//
//	Free-form text or structured program
//	         ↓
//	    [extract] / [program] (normalize into a spec)
//	         ↓
//	    [core/place] (zone-by-zone placement on the grid)
//	         ↓
//	    [core/validate] + [core/repair] (check and fix constraints)
//	         ↓
//	    [render] (SVG/PNG/DOT/JSON output)
//
// # Main Packages
//
// ## Core Domain Logic
//
// [program] - Parses and normalizes room programs: applies per-type defaults,
// scales rooms down proportionally when the lot is tight, and rejects
// programs whose minimum areas cannot fit.
//
// [core/grid] - Cell-based occupancy grid over the lot. Tracks which room
// owns each cell and answers overlap and adjacency queries.
//
// [core/place] - Greedy placement engine. Generates anchor-flush candidate
// positions and scores them against adjacency, zoning and exterior-wall
// preferences.
//
// [core/validate] - Post-placement constraint checks: required adjacencies,
// reachability from the entrance, and bathroom privacy distance.
//
// [core/repair] - Bounded repair loop that relocates violating rooms, with
// optional simulated annealing when local moves are not enough.
//
// ## Input
//
// [extract] - Keyword extraction of lot size, room counts and feature
// positions from free-form English descriptions.
//
// ## Visualization
//
// [render] - Renders layouts to SVG and PNG floor plans, Graphviz DOT
// constraint graphs, and canonical JSON.
//
// ## Serialization
//
// [layout] - The layout document type shared by the pipeline, the HTTP API
// and the stores, with JSON and BSON tags.
//
// ## Infrastructure
//
// [pipeline] - Complete generation pipeline (normalize → generate → render)
// used by CLI and API. Ensures consistent behavior across all entry points.
//
// [cache] - Content-addressed caching of pipeline stages with file, Redis
// and null backends plus TTL classes per artifact kind.
//
// [store] - Layout persistence behind a small interface with in-memory and
// MongoDB implementations.
//
// [observability] - Pluggable hooks for pipeline, cache and HTTP events.
//
// [errors] - Structured error codes shared by CLI and API.
package pkg
