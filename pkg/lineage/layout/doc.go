// Package layout computes deterministic hierarchical positions for lineage
// graphs, including graphs that fall apart into several disconnected
// sub-graphs (the common case after filtering).
//
// The algorithm runs in three stages:
//
//  1. Partition the node set into connected components over the undirected
//     closure of the edge set (BFS, every node visited exactly once).
//  2. Per component, assign a horizontal rank to every node by
//     longest-path-from-source distance, then order nodes inside each rank
//     to reduce edge crossings (barycenter sweeps followed by adjacent-swap
//     refinement driven by a Fenwick-tree crossing counter).
//  3. Stack components vertically: each component's Y positions are offset
//     by the running maximum Y of all previously placed components plus a
//     fixed gap, so components never overlap.
//
// Every tie-break derives from input order — there is no randomness, so
// laying out the same node/edge set twice yields identical coordinates.
package layout
