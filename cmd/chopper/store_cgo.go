//go:build cgo

package main

import "github.com/arborist-dev/chopper/internal/graphstore"

func openFileStore(path string) (graphstore.Store, error) {
	return graphstore.NewKuzuFileStore(path)
}
