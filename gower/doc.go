// Package gower computes pairwise Gower dissimilarity over mixed-type
// records.
//
// Gower's coefficient (1971) unifies heterogeneous attribute kinds into one
// value in [0,1]: nominal attributes contribute a binary mismatch, numeric
// and ordinal attributes contribute the range-normalized absolute
// difference, and per-pair attribute weights drop to zero when either side
// is missing. The result is a symmetric matrix with zero diagonal.
//
// Building the matrix is O(N²·A) for N records and A attributes and is the
// dominant cost of the pipeline. Rows are computed in parallel blocks; each
// cell depends only on its own record pair, so blocks never contend.
package gower
