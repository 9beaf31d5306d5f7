//go:build !cgo

package main

import "fmt"

func runContext(_ []string) error {
	return fmt.Errorf("chopper context requires a CGO build (kuzu file store is unavailable without cgo)")
}
