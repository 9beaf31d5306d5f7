package main

import (
	"fmt"
	"strings"

	"github.com/arborist-dev/chopper/internal/config"
)

// resolvedConfig merges chopper.yml (if present under --project-root) with
// the CLI flags. A flag whose value differs from its default wins; a flag
// left at (or explicitly set to) its default value is overridden by the
// file's setting when the file has one.
type resolvedConfig struct {
	cliFlags
}

func resolveConfig(flags cliFlags) (*resolvedConfig, error) {
	fileCfg, err := config.Load(flags.ProjectRoot)
	if err != nil {
		return nil, fmt.Errorf("load chopper.yml: %w", err)
	}

	rc := &resolvedConfig{cliFlags: flags}

	if rc.Bound == 0 && fileCfg.Bound != 0 {
		rc.Bound = fileCfg.Bound
	}
	if rc.PenaltyProfile == "default" && fileCfg.PenaltyProfile != "" {
		rc.PenaltyProfile = fileCfg.PenaltyProfile
	}
	if rc.IsolateKinds == "" && len(fileCfg.IsolateKinds) > 0 {
		rc.IsolateKinds = strings.Join(fileCfg.IsolateKinds, ",")
	}
	if rc.StorePath == "" && fileCfg.StorePath != "" {
		rc.StorePath = fileCfg.StorePath
	}
	if rc.Format == "json" && fileCfg.ExportFormat != "" {
		rc.Format = fileCfg.ExportFormat
	}
	if !rc.Verbose && fileCfg.Verbose {
		rc.Verbose = true
	}

	return rc, nil
}
