// Package remote provides access to the remote hierarchical category service.
//
// The Client interface is the only way the reconciliation engine touches the
// remote tree. The WooCommerce implementation centralizes transport concerns:
// basic auth, paging, one retry policy (resty) and request pacing (ratelimit),
// so callers never retry on their own.
//
// # Operations
//
//   - FetchAll: every category of the store.
//   - Create / SetParent / Rename / Delete: tree mutations.
//   - ListProductsByCategory / SetProductCategories: product assignments.
//
// Clients that can rename and reparent in one request also implement Relocator.
//
// # Usage
//
//	client, err := remote.NewWooClient(cfg, logger)
//	categories, err := client.FetchAll(ctx)
package remote
