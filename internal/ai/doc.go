// Package ai is the heuristic opponent. For each turn it generates every
// move it considers, scores each with difficulty weighted heuristics and
// picks the best, or occasionally one of the next best.
package ai
