// Package s3 provides an Amazon S3 bucket adapter for package vfs/object.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("bench/"),
//	    s3.WithRegion("us-east-1"),
//	)
//
//	fsys := object.New(store)
//
// # Features
//
//   - Streaming uploads through the multipart upload manager
//   - Server-side copy for rename
//   - Automatic pagination for listing
//   - Custom endpoints and path-style addressing for S3-compatible services
package s3
