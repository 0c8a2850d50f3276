// Package storage keeps pre-write snapshots of the local category files in
// S3-compatible object storage.
//
// The Client interface wraps the subset of the MinIO Go client the archive
// needs, so tests can use core/storage/mocks. Archive lays snapshots out as
// <prefix>/<run id>/<file name> and can prune all but the newest runs.
//
// # Usage
//
//	client, err := storage.NewClient(cfg)
//	archive := storage.NewArchive(client, cfg.Bucket, cfg.Prefix)
//	err = archive.Archive(ctx, runID, "category_translation.json", previous)
package storage
