package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/octoweave/weave/internal/config"
	"github.com/octoweave/weave/internal/engine"
	"github.com/octoweave/weave/internal/weavelog"
)

var version = "0.1.0"

// Run flags
var (
	includePaths []string
	defineFlags  []string
	cacheDir     string
	noCache      bool
	excludeFile  string
	lineMarkers  bool
	maxDepth     int
	configPath   string
	verbose      bool
)

func main() {
	os.Exit(run())
}

func run() int {
	rootCmd := newRootCmd(os.Stdout, os.Stderr)
	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "weave [file]",
		Short: "weave expands directive-annotated source templates",
		Long: `weave interprets @include/@set/@if/@macro/@error directives and
{{ expr }} interpolations, resolving includes from the local
filesystem, HTTP(S), and GitHub shorthand references through a
read-through file cache.`,
		Version:       version,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return doRun(cmd, args[0], out, errOut)
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", ".weave.yaml", "Path to project config file")
	rootCmd.PersistentFlags().StringVarP(&cacheDir, "cache-dir", "", ".weave-cache", "Directory for the read-through include cache")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.Flags().StringArrayVarP(&includePaths, "include-path", "I", nil, "Add directory (or glob) to the include search path")
	rootCmd.Flags().StringArrayVarP(&defineFlags, "define", "D", nil, "Define a variable (NAME=VALUE)")
	rootCmd.Flags().BoolVar(&noCache, "no-cache", false, "Disable the read-through include cache")
	rootCmd.Flags().StringVar(&excludeFile, "exclude-file", "", "Manifest of regexp patterns excluded from caching")
	rootCmd.Flags().BoolVar(&lineMarkers, "line-markers", false, "Emit #line markers in the output")
	rootCmd.Flags().IntVar(&maxDepth, "max-depth", 0, "Override the maximum execution depth (0 = default)")

	rootCmd.AddCommand(newCacheCmd(out, errOut))
	return rootCmd
}

func newCacheCmd(out, errOut io.Writer) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or manage the include cache",
	}
	cacheCmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove every entry from the include cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := buildOptions(cmd)
			if err != nil {
				return err
			}
			eng, err := engine.New(*opts)
			if err != nil {
				return err
			}
			if err := eng.ClearCache(); err != nil {
				fmt.Fprintf(errOut, "weave: failed to clear cache: %v\n", err)
				return err
			}
			fmt.Fprintln(out, "weave: cache cleared")
			return nil
		},
	})
	return cacheCmd
}

// buildOptions merges .weave.yaml with CLI flags, an explicitly-passed
// flag winning over the config file regardless of its default value.
func buildOptions(cmd *cobra.Command) (*engine.Options, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	paths := includePaths
	if len(paths) == 0 {
		paths = cfg.IncludePaths
	}
	expanded, err := config.ExpandIncludePaths(paths)
	if err != nil {
		return nil, err
	}

	defines := map[string]string{}
	for k, v := range cfg.Define {
		defines[k] = v
	}
	for _, d := range defineFlags {
		if idx := strings.Index(d, "="); idx >= 0 {
			defines[d[:idx]] = d[idx+1:]
		} else {
			defines[d] = ""
		}
	}

	dir := cacheDir
	if !cmd.Flags().Changed("cache-dir") && cfg.CacheDir != "" {
		dir = cfg.CacheDir
	}
	excl := excludeFile
	if excl == "" {
		excl = cfg.ExcludeFile
	}
	depth := maxDepth
	if !cmd.Flags().Changed("max-depth") && cfg.MaxDepth != 0 {
		depth = cfg.MaxDepth
	}
	markers := lineMarkers
	if !cmd.Flags().Changed("line-markers") && cfg.LineMarkers {
		markers = true
	}

	return &engine.Options{
		CacheDir:            dir,
		NoCache:             noCache,
		ExcludeFile:         excl,
		IncludePaths:        expanded,
		Define:              defines,
		GenerateLineControl: markers,
		MaxDepth:            depth,
		Logger:              weavelog.New(verbose),
	}, nil
}

func doRun(cmd *cobra.Command, filename string, out, errOut io.Writer) error {
	opts, err := buildOptions(cmd)
	if err != nil {
		return err
	}
	eng, err := engine.New(*opts)
	if err != nil {
		return err
	}
	result, err := eng.Run(filename)
	if err != nil {
		fmt.Fprintf(errOut, "weave: %v\n", err)
		return err
	}
	fmt.Fprint(out, result)
	return nil
}
