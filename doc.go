// Package gowergo clusters mixed-type tabular records around medoids.
//
// The pipeline takes a cleaned account table, normalizes a declared set of
// categorical, ordinal and numeric attributes, computes a Gower
// dissimilarity matrix, partitions it around medoids (PAM), scores
// candidate cluster counts by average silhouette width, and joins the
// result back onto the source table as per-cluster rates and cross-tabs.
// Everything is batch, in-memory and deterministic.
//
// # Quick Start
//
//	sch, _ := schema.New(
//	    schema.Attribute{Name: "product_group", Kind: schema.KindNominal, Levels: []string{"basic", "premium"}},
//	    schema.Attribute{Name: "payment_method", Kind: schema.KindNominal},
//	    schema.Attribute{Name: "monthly_price", Kind: schema.KindNumeric},
//	)
//
//	p, _ := gowergo.Mixed(sch).
//	    KeyColumn("account_id").
//	    Parallelism(4).
//	    Build()
//
//	recs, _ := p.Normalize(table)
//	m, _ := p.Matrix(ctx, recs)
//
//	widths, _ := p.ScanK(ctx, m, 2, 8)   // pick k from silhouette widths
//	res, _ := p.Cluster(ctx, m, 4)
//
//	rep, _ := p.Report(res, recs, table, report.RateSpec{
//	    Name: "cancel_rate", Column: "status",
//	    Numerator: "Cancelled", Denominator: "Active",
//	})
//
// # Components
//
//   - dataset: immutable tables, CSV ingestion, pure cleaning stages
//   - schema: attribute schema and normalizer (missing markers, level sets)
//   - gower: block-parallel mixed-type dissimilarity matrix
//   - pam: deterministic build+swap medoid partitioning, silhouette scan
//   - tsne: seeded 2D projection of the matrix, for plotting only
//   - report: per-cluster sizes, NaN-tolerant named rates, cross-tabs
//   - snapshot + blobstore: one self-describing compressed snapshot of the
//     cleaned table (local FS, memory, MinIO or S3)
//
// The dissimilarity matrix is the one shared resource: read-only after
// construction, safe to hand to the partitioner, the k scan and the
// projector concurrently.
package gowergo
