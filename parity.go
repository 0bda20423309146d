// Package parity checks content parity between a legacy source site and the
// target site it is being migrated to. It crawls both sites into route-level
// inventories, matches equivalent pages, scores content similarity per pair
// and regenerates a normalized content artifact for every page that is
// missing or materially different on the target.
//
// This package contains domain types, interfaces and the small pure functions
// shared across the pipeline, following Ben Johnson's Standard Package Layout.
// Implementations live in subdirectories named after their primary dependency
// (e.g., rod/, goquery/, sqlite/) or the pipeline stage they own (crawl/,
// match/, diff/, regen/, report/).
package parity
