// Package backup takes periodic snapshots of the analytics database,
// keeps a bounded number of local copies, and optionally offloads them
// to S3-compatible storage.
package backup

import (
	"context"
	"time"
)

// Config controls snapshot cadence, local retention, and the optional
// remote target.
type Config struct {
	Enabled   bool
	Interval  time.Duration
	LocalDir  string
	KeepLast  int
	BucketURL string

	S3Endpoint     string
	S3Region       string
	S3AccessKey    string
	S3SecretKey    string
	S3SessionToken string
	S3UseSSL       bool
}

// Snapshotter is what the manager needs from the store.
type Snapshotter interface {
	DBPath() string
	SnapshotTo(dstPath string) error
}

// Uploader sends one snapshot file to remote storage.
type Uploader interface {
	UploadFile(ctx context.Context, localPath string) error
}
