// Package middleware groups the HTTP middleware of the API server.
//
//   - rayid: assigns every request an id, stored in the "ray_id" local and
//     echoed in the X-Ray-ID header.
//   - auth: API key check on X-API-Key or a Bearer token.
//   - requestlog: structured request logging tagged with the ray id.
//
// Register rayid first so the others can log with it.
package middleware
