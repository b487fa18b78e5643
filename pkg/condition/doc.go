// Package condition models visibility conditions as a closed expression tree
// (Leaf, And, Or) plus a Predicate escape hatch for caller logic, and
// evaluates them against a snapshot of form values.
//
// Structural trees are validated up front with Check; the schema builder in
// pkg/model calls it for every showWhen so malformed trees never reach
// evaluation. Predicates are fail-open: an error or panic inside caller code
// makes the condition hold and is reported as a Diagnostic instead of
// propagating to the renderer.
//
// Rule strings (`role == "admin" && !archived`) compile to the same trees via
// Parse, and Decode/Encode convert between trees and JSON/YAML documents.
package condition
