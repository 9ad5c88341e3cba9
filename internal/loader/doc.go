// Package loader reads query graph documents from disk.
//
// JSON and YAML files go straight to the qgraph decoders. CUE files are
// evaluated, checked against the embedded #QGraph schema, and converted
// in field order, so a CUE query may use references, defaults and
// comprehensions while still producing a deterministic graph.
//
// Every failure is a *LoadError carrying a stable code, the file path and,
// for CUE, the source position.
package loader
