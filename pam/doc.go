// Package pam partitions records around medoids (PAM) over a precomputed
// dissimilarity matrix, and scores candidate cluster counts by average
// silhouette width.
//
// PAM needs only pairwise dissimilarities, never vector arithmetic, which is
// what makes it usable on Gower distances over mixed attribute types: every
// cluster representative is an actual record. The algorithm is a greedy
// BUILD phase followed by a best-improvement SWAP phase; with the fixed
// lowest-index tie break both phases are fully deterministic, and the total
// assignment cost never increases across swap passes.
package pam
