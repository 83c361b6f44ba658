// Package s3 provides an Amazon S3 implementation of blobstore.BlobStore.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("models/"),
//	    s3.WithRegion("eu-central-1"),
//	)
//
//	doc, err := vimgo.Open(ctx, store, "tower.vim")
//
// # Features
//
//   - Range reads, so documents can be opened without downloading them
//   - Multipart streaming uploads through the SDK upload manager
//   - CRC32C integrity checksums on writes
//   - Automatic pagination for listing
package s3
