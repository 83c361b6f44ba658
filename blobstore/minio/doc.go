// Package minio provides a BlobStore backed by the MinIO client, for MinIO
// and other S3-compatible services (Ceph, SeaweedFS, Garage).
//
// # Basic Usage
//
//	store, err := minio.New("localhost:9000", "models",
//	    minio.WithCredentials("minioadmin", "minioadmin"),
//	    minio.WithPrefix("tower/"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	doc, err := vimgo.Open(ctx, store, "tower.vim")
//
// An existing *minio.Client can be wrapped with NewStore.
package minio
