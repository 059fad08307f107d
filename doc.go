// Package vexplore extracts uniform record collections from on-disk vector
// databases of unknown sub-format.
//
// Point it at a path and receive (id, vector, text, source, metadata) records
// regardless of which storage engine produced the data: a bare similarity
// index, an index paired with a serialized docstore, or an embedded
// collection database - each with their historical metadata conventions.
//
// # Quick Start
//
//	ctx := context.Background()
//	ds, err := vexplore.Extract(ctx, "/data/my_index.faiss",
//	    vexplore.WithMaxRecords(500),
//	    vexplore.WithLogger(vexplore.NewTextLogger(slog.LevelInfo)),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, rec := range ds.Vectors {
//	    fmt.Println(rec.ID, rec.Source, len(rec.Vector))
//	}
//
// Forced-family entry points skip detection:
//
//	ds, err := vexplore.ExtractFAISS(ctx, "/data/langchain_store")
//	ds, err := vexplore.ExtractChroma(ctx, "/data/chroma_db")
//
// # Degradation policy
//
// Extraction prefers a complete, partially-empty dataset over failure. Index
// kinds without vector reconstruction yield zero-filled placeholder vectors;
// an unreadable sidecar yields empty metadata; a missing document in a
// docstore chain degrades only that record. Fatal errors are limited to a
// missing path, an unrecognized layout, a missing engine dependency and a
// store that opened but could not be decoded.
//
// Extraction is read-only: stores are never written, and no similarity
// search is performed.
package vexplore
