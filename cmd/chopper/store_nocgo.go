//go:build !cgo

package main

import (
	"fmt"

	"github.com/arborist-dev/chopper/internal/graphstore"
)

func openFileStore(path string) (graphstore.Store, error) {
	return nil, fmt.Errorf("--store %q requires a CGO build (kuzu file store is unavailable without cgo)", path)
}
