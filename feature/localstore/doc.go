// Package localstore applies category rules to the local JSON files that
// carry category paths.
//
// # Files
//
//   - Translation dictionary: source path to translated path. Moved keys leave
//     an alias behind (old key pointing at the new key) so lookups by the old
//     path keep working.
//   - Catalog: list of {id, name, parentId, path, level}. A rewritten path
//     also updates name and level.
//   - Grouped products: group key to product list. Group keys and each
//     product's embedded category are rewritten; colliding groups merge.
//   - Product list: optional flat list with the same embedded category.
//
// A missing or unreadable file is skipped with a warning. Files are replaced
// whole through a temp file and rename, so a crash never leaves a partial
// write. Members the stores do not model are written back unchanged and in
// their original order.
package localstore
