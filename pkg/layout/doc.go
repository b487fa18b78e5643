// Package layout defines the closed set of group layout strategies: stacked,
// paired, inline and responsive (column counts per compact/medium/wide tier).
// Descriptors carry parameters only; renderers read them directly or through
// the flattened Hints map.
package layout
