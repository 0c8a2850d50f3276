package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
)

// Snapshot describes one archived file.
type Snapshot struct {
	Key          string    `json:"key"`
	RunID        string    `json:"run_id"`
	Name         string    `json:"name"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

// Archive stores copies of local files keyed by run.
type Archive struct {
	client Client
	bucket string
	prefix string
}

// NewArchive creates an archive in bucket under prefix.
func NewArchive(client Client, bucket, prefix string) *Archive {
	return &Archive{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}
}

// EnsureBucket creates the bucket when it does not exist yet.
func (a *Archive) EnsureBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", a.bucket, err)
	}
	if exists {
		return nil
	}
	if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", a.bucket, err)
	}
	return nil
}

// Key returns the object key of a file archived in a run.
func (a *Archive) Key(runID, name string) string {
	return path.Join(a.prefix, runID, path.Base(name))
}

// Archive uploads data as the snapshot of name for the run.
func (a *Archive) Archive(ctx context.Context, runID, name string, data []byte) error {
	key := a.Key(runID, name)
	_, err := a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("failed to archive %s: %w", key, err)
	}
	return nil
}

// Fetch downloads a snapshot.
func (a *Archive) Fetch(ctx context.Context, runID, name string) ([]byte, error) {
	key := a.Key(runID, name)
	reader, err := a.client.GetObject(ctx, a.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, nil
}

// List returns the snapshots of a run, or of every run when runID is empty,
// newest first.
func (a *Archive) List(ctx context.Context, runID string) ([]Snapshot, error) {
	prefix := a.prefix + "/"
	if a.prefix == "" {
		prefix = ""
	}
	if runID != "" {
		prefix += runID + "/"
	}

	var snaps []Snapshot
	for obj := range a.client.ListObjects(ctx, a.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list snapshots: %w", obj.Err)
		}
		run, name := a.split(obj.Key)
		if run == "" {
			continue
		}
		snaps = append(snaps, Snapshot{
			Key:          obj.Key,
			RunID:        run,
			Name:         name,
			Size:         obj.Size,
			LastModified: obj.LastModified,
		})
	}

	sort.SliceStable(snaps, func(i, j int) bool {
		return snaps[i].LastModified.After(snaps[j].LastModified)
	})
	return snaps, nil
}

// Prune removes every snapshot that does not belong to the keep newest runs
// and returns how many objects were removed.
func (a *Archive) Prune(ctx context.Context, keep int) (int, error) {
	if keep <= 0 {
		return 0, nil
	}

	snaps, err := a.List(ctx, "")
	if err != nil {
		return 0, err
	}

	kept := make(map[string]bool)
	var doomed []Snapshot
	for _, s := range snaps {
		if kept[s.RunID] {
			continue
		}
		if len(kept) < keep {
			kept[s.RunID] = true
			continue
		}
		doomed = append(doomed, s)
	}
	if len(doomed) == 0 {
		return 0, nil
	}

	objectsCh := make(chan minio.ObjectInfo, len(doomed))
	for _, s := range doomed {
		objectsCh <- minio.ObjectInfo{Key: s.Key}
	}
	close(objectsCh)

	removed := len(doomed)
	var firstErr error
	for rerr := range a.client.RemoveObjects(ctx, a.bucket, objectsCh, minio.RemoveObjectsOptions{}) {
		removed--
		if firstErr == nil {
			firstErr = fmt.Errorf("failed to remove %s: %w", rerr.ObjectName, rerr.Err)
		}
	}
	return removed, firstErr
}

func (a *Archive) split(key string) (runID, name string) {
	rest := key
	if a.prefix != "" {
		rest = strings.TrimPrefix(key, a.prefix+"/")
	}
	runID, name, ok := strings.Cut(rest, "/")
	if !ok {
		return "", ""
	}
	return runID, name
}
