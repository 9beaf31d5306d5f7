package main

import (
	"flag"
	"fmt"
	"os"
)

// cliFlags holds the command line flags parsed from os.Args.
type cliFlags struct {
	ProjectRoot    string
	Input          string
	Output         string
	Format         string
	Bound          int
	PenaltyProfile string
	IsolateKinds   string
	StorePath      string
	Verbose        bool
	ServeMCP       bool
	MCPAddr        string
	Version        bool
}

// version is set by the linker at build time.
var version = "dev"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) > 0 && args[0] == "context" {
		return runContext(args[1:])
	}

	var flags cliFlags

	fs := flag.NewFlagSet("chopper", flag.ContinueOnError)
	fs.StringVar(&flags.ProjectRoot, "project-root", ".", "path to the target project (chopper.yml is read from here)")
	fs.StringVar(&flags.Input, "input", "", "path to a vil wire-format program JSON file to chop")
	fs.StringVar(&flags.Output, "output", "", "output file path; defaults to stdout")
	fs.StringVar(&flags.Format, "format", "json", "export format: json or mermaid")
	fs.IntVar(&flags.Bound, "bound", 0, "maximum number of sub-programs to return; 0 means unbounded")
	fs.StringVar(&flags.PenaltyProfile, "penalty", "default", "penalty profile: default or strict")
	fs.StringVar(&flags.IsolateKinds, "isolate", "", "comma-separated member kinds to isolate (Method,Function,Predicate); default all three")
	fs.StringVar(&flags.StorePath, "store", "", "kuzu file-store path for graph persistence; empty means in-memory")
	fs.BoolVar(&flags.Verbose, "verbose", false, "enable verbose output")
	fs.BoolVar(&flags.ServeMCP, "serve-mcp", false, "run as an MCP server exposing chop_program/get_graph_stats/export_result")
	fs.StringVar(&flags.MCPAddr, "mcp-addr", ":8733", "listen address for --serve-mcp")
	fs.BoolVar(&flags.Version, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if flags.Version {
		fmt.Println(version)
		return nil
	}

	cfg, err := resolveConfig(flags)
	if err != nil {
		return err
	}

	if flags.ServeMCP {
		return runServe(cfg)
	}

	return runChop(cfg)
}
