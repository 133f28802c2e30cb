package app

import (
	"log"

	"c4analytics/internal/gateway/config"
	"c4analytics/internal/gateway/repository/snapshot"
)

// initSnapshotStore picks the snapshot backend: S3/minio when configured,
// otherwise in-memory. A broken S3 configuration degrades to memory with
// a log line rather than refusing to start; snapshots are an archive, not
// a dependency of the dashboard itself.
func initSnapshotStore(cfg *config.Config) snapshot.Store {
	if !cfg.Snapshot.Enabled {
		return snapshot.NewMemoryStore()
	}
	s3Store, err := snapshot.NewS3Store(snapshot.S3Config{
		Endpoint:  cfg.Snapshot.Endpoint,
		Region:    cfg.Snapshot.Region,
		AccessKey: cfg.Snapshot.AccessKey,
		SecretKey: cfg.Snapshot.SecretKey,
		Bucket:    cfg.Snapshot.Bucket,
		UseSSL:    cfg.Snapshot.UseSSL,
	})
	if err != nil {
		log.Printf("snapshot store: falling back to memory (%v)", err)
		return snapshot.NewMemoryStore()
	}
	log.Printf("snapshot store: s3 bucket=%s endpoint=%s", cfg.Snapshot.Bucket, cfg.Snapshot.Endpoint)
	return s3Store
}
