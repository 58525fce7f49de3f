// Package storage holds question media (diagram images and other
// attachments referenced by Question.ImageKey).
package storage

import "io"

type BlobStore interface {
	Put(key string, r io.Reader) (string, error) // returns canonical key
	Get(key string) (io.ReadCloser, error)
	Delete(key string) error
}
