// Package audit checks that every translated category path exists in the
// remote tree.
//
// The check walks each translation target level by level and reports the
// first missing level, together with hints where a node of the same name
// exists elsewhere. It also lists source paths with no translation, catalog
// paths absent from the dictionary, and duplicate remote paths. Fix creates
// the missing remote paths.
//
// # Endpoints
//
//	GET  /audit          run the check (query: prefix)
//	POST /audit/fix      create missing paths (query: prefix, dry_run)
package audit
