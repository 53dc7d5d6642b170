// Package docgraph builds document graphs from a tree of linked markdown files.
//
// Construction happens in two passes over a [fsys.FS]:
//
//  1. [BuildIndex] scans the whole tree and records, for every link target,
//     the set of documents linking to it. This reverse index is what makes
//     backlinks discoverable during traversal.
//  2. [Builder.Build] runs a breadth-first search outward from a focus
//     document, following outgoing links and backlinks alike, bounded by a
//     maximum depth and a maximum number of loaded documents.
//
// Both passes share a [ParseCache]. An entry is reused only while the file's
// modification time is unchanged, so repeated builds (for example from a file
// watcher) re-read only what changed.
//
// # Failure Semantics
//
// Only an unreadable root is an error. An unreadable focus document produces
// an empty [Result]; unreadable subdirectories and documents are logged and
// skipped so a single bad file never aborts a build.
//
// # External Links
//
// External links are always aggregated by domain, even when a caller does not
// display them. [Result.External] carries the aggregate so visibility can be
// toggled without another traversal; [Result.WithExternal] merges it in.
package docgraph
