// Package engine is the convenience facade that wires together
// config, the FileCache, the IncludeResolver, and the Execution VM into
// the single entry point cmd/weave drives.
package engine

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/octoweave/weave/internal/cache"
	"github.com/octoweave/weave/internal/config"
	"github.com/octoweave/weave/internal/exclusion"
	"github.com/octoweave/weave/internal/resolver"
	"github.com/octoweave/weave/internal/vm"
)

// Options collects everything a Run needs, after CLI flags and
// .weave.yaml have already been merged by the caller.
type Options struct {
	CacheDir            string
	NoCache             bool
	ExcludeFile         string
	IncludePaths        []string
	Define              map[string]string
	GenerateLineControl bool
	MaxDepth            int
	Logger              vm.Logger
}

// Engine owns the assembled resolver and VM for one CLI invocation.
type Engine struct {
	resolver *resolver.Resolver
	vm       *vm.VM
	defines  vm.Context
}

// New assembles an Engine from opts. The first include path, if any, is
// used as the FileReader's base directory for includes that are not
// found relative to the working directory -- mirroring a single -I
// flag's role in a conventional preprocessor invocation. Later include
// paths are not consulted.
func New(opts Options) (*Engine, error) {
	var excl *exclusion.Matcher
	if opts.ExcludeFile != "" {
		f, err := os.Open(opts.ExcludeFile)
		if err != nil {
			return nil, fmt.Errorf("opening exclude file %s: %w", opts.ExcludeFile, err)
		}
		defer f.Close()
		excl, err = exclusion.Load(f)
		if err != nil {
			return nil, fmt.Errorf("loading exclude file %s: %w", opts.ExcludeFile, err)
		}
	}

	baseDir := ""
	if len(opts.IncludePaths) > 0 {
		baseDir = opts.IncludePaths[0]
	}

	fc := cache.New(opts.CacheDir, excl)
	res := resolver.New(fc, &resolver.FileReader{BaseDir: baseDir}, resolver.NewHTTPReader())
	res.UseCache = !opts.NoCache

	machine := vm.New(res, vm.Options{
		MaxDepth:            opts.MaxDepth,
		GenerateLineControl: opts.GenerateLineControl,
		Logger:              opts.Logger,
	})

	defines := vm.Context{}
	for k, v := range opts.Define {
		defines[k] = v
	}

	return &Engine{resolver: res, vm: machine, defines: defines}, nil
}

// Run executes the file at path and returns its output.
func (e *Engine) Run(path string) (string, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return e.vm.Execute(filepath.ToSlash(path), string(source), e.defines)
}

// RunSource executes source as if it had been read from file, without
// touching disk -- used by tests and by any future stdin mode.
func (e *Engine) RunSource(file, source string) (string, error) {
	return e.vm.Execute(file, source, e.defines)
}

// ClearCache removes the FileCache's directory, for the `weave cache
// clear` subcommand.
func (e *Engine) ClearCache() error {
	return e.resolver.Cache.Clear()
}

// LoadConfig loads .weave.yaml at path, tolerating its absence.
func LoadConfig(path string) (*config.Config, error) {
	return config.Load(path)
}

// DefaultMaxDepth re-exports vm.MaxExecutionDepth so the CLI layer need
// not import package vm directly just to print a default flag value.
const DefaultMaxDepth = vm.MaxExecutionDepth
