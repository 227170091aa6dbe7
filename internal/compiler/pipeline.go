// Package compiler implements the compilation pipeline: it canonicalizes
// and hashes the compiler input, short-circuits through the cache when an
// identical input was compiled before, invokes the version-pinned
// compiler otherwise, and normalizes the output into artifact bundles.
package compiler

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"cosmossdk.io/log"

	"github.com/altuslabsxyz/solbuild/internal/ast"
	"github.com/altuslabsxyz/solbuild/internal/cache"
	"github.com/altuslabsxyz/solbuild/internal/invariants"
	"github.com/altuslabsxyz/solbuild/internal/solcjson"
)

// Invoker runs one compilation with a pinned compiler version.
type Invoker interface {
	Invoke(ctx context.Context, versionString string, input []byte) ([]byte, error)
}

// Analyzer builds a contract index from compiler output.
type Analyzer interface {
	Analyze(out *solcjson.Output) (*ast.Index, error)
}

// Extractor derives invariants from an analyzed index.
type Extractor interface {
	Extract(index *ast.Index) ([]invariants.Invariant, error)
}

// Pipeline wires the cache, the compiler toolchain and the analysis
// stages together. All collaborators are injected so embedders can swap
// the cache backend or stub the compiler.
type Pipeline struct {
	store     cache.Store
	invoker   Invoker
	analyzer  Analyzer
	extractor Extractor
	logger    log.Logger
	force     bool
}

// Option configures optional pipeline collaborators.
type Option func(*Pipeline)

// WithLogger sets the pipeline logger.
func WithLogger(logger log.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithAnalyzer replaces the default AST analyzer.
func WithAnalyzer(analyzer Analyzer) Option {
	return func(p *Pipeline) {
		p.analyzer = analyzer
	}
}

// WithExtractor replaces the default invariant extractor.
func WithExtractor(extractor Extractor) Option {
	return func(p *Pipeline) {
		p.extractor = extractor
	}
}

// WithForce makes the pipeline recompile even when a cached output
// exists. The fresh output still replaces the cache entry.
func WithForce(force bool) Option {
	return func(p *Pipeline) {
		p.force = force
	}
}

// New creates a pipeline over the given cache store and invoker.
func New(store cache.Store, invoker Invoker, opts ...Option) *Pipeline {
	p := &Pipeline{
		store:   store,
		invoker: invoker,
		logger:  log.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.analyzer == nil {
		p.analyzer = ast.NewAnalyzer(p.logger)
	}
	if p.extractor == nil {
		p.extractor = invariants.NewExtractor(p.logger)
	}
	return p
}

// runInfo records how a compilation was satisfied.
type runInfo struct {
	key    string
	cached bool
}

// run executes one deduplicated compilation and returns the output
// document. The input is augmented with the mandatory output selection
// before hashing, so the cache key covers exactly what the compiler
// received. The per-key lock serializes concurrent compilations of the
// same input: the loser of the race finds the winner's output in the
// cache instead of compiling again.
func (p *Pipeline) run(ctx context.Context, args *CompilerArgs) (*solcjson.Output, *runInfo, error) {
	if args == nil || args.Input == nil {
		return nil, nil, fmt.Errorf("compiler input is required")
	}
	if err := args.Input.Validate(); err != nil {
		return nil, nil, err
	}
	args.Input.Settings = EnsureOutputSelection(args.Input.Settings)

	encoded, err := args.Input.Encode()
	if err != nil {
		return nil, nil, err
	}
	key := cache.Digest(encoded)

	unlock, err := p.store.Lock(key)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to lock cache entry: %w", err)
	}
	defer func() {
		if err := unlock(); err != nil {
			p.logger.Debug("Failed to release cache lock", "key", key[:12], "error", err)
		}
	}()

	if p.force {
		p.logger.Debug("Cache bypassed, recompiling", "key", key[:12])
	} else if p.store.Has(cache.KindOutput, key) {
		if out := p.readCached(key); out != nil {
			p.logger.Info("Using cached compilation", "key", key[:12])
			return out, &runInfo{key: key, cached: true}, nil
		}
	}

	p.logger.Info("Compiling sources", "count", len(args.Input.Sources), "solc", displayVersion(args.Version))
	raw, err := p.invoker.Invoke(ctx, args.Version, encoded)
	if err != nil {
		return nil, nil, err
	}

	out, err := solcjson.ParseOutput(raw)
	if err != nil {
		return nil, nil, err
	}
	if fatal := out.FatalDiagnostics(); len(fatal) > 0 {
		return nil, nil, &DiagnosticError{Diagnostics: fatal}
	}
	p.logDiagnostics(out)

	// Cache write failures degrade to an uncached result.
	if err := p.store.Write(cache.KindInput, key, encoded); err != nil {
		p.logger.Warn("Failed to cache compiler input", "error", err)
	}
	if err := p.store.Write(cache.KindOutput, key, raw); err != nil {
		p.logger.Warn("Failed to cache compiler output", "error", err)
	}

	return out, &runInfo{key: key}, nil
}

// readCached loads and parses a cached output, returning nil when the
// entry is unreadable so the pipeline recompiles instead of failing.
func (p *Pipeline) readCached(key string) *solcjson.Output {
	data, err := p.store.Read(cache.KindOutput, key)
	if err != nil {
		p.logger.Warn("Failed to read cached output, recompiling", "key", key[:12], "error", err)
		return nil
	}
	out, err := solcjson.ParseOutput(data)
	if err != nil {
		p.logger.Warn("Cached output is corrupt, recompiling", "key", key[:12], "error", err)
		return nil
	}
	return out
}

// CompileContract compiles the input and returns the artifact bundle of
// one contract, searched by name across every compiled source file. A
// name defined in several files is an error rather than a silent pick;
// a qualified "path/File.sol:Name" target disambiguates.
func (p *Pipeline) CompileContract(ctx context.Context, args *CompilerArgs, contract string) (*ContractResult, error) {
	out, info, err := p.run(ctx, args)
	if err != nil {
		return nil, err
	}
	return p.buildContractResult(args, info, out, contract)
}

// CompileAll compiles the input and returns the artifact bundle of
// every contract matched by the filter. A nil filter includes all
// contracts.
func (p *Pipeline) CompileAll(ctx context.Context, args *CompilerArgs, filter Filter) (*ProjectResult, error) {
	out, info, err := p.run(ctx, args)
	if err != nil {
		return nil, err
	}
	return p.buildProjectResult(args, info, out, filter)
}

// findContract locates a contract across all source files. The target
// is a bare name, or a qualified "path/File.sol:Name" when the same
// name is defined in more than one file.
func findContract(out *solcjson.Output, target string) (string, string, solcjson.Contract, error) {
	if file, name, ok := strings.Cut(target, ":"); ok {
		c, found := out.Contracts[file][name]
		if !found {
			return "", "", solcjson.Contract{}, &ContractNotFoundError{
				Contract:  target,
				Available: availableContracts(out),
			}
		}
		return file, name, c, nil
	}

	var files []string
	for file, contracts := range out.Contracts {
		if _, ok := contracts[target]; ok {
			files = append(files, file)
		}
	}
	sort.Strings(files)

	switch len(files) {
	case 0:
		return "", "", solcjson.Contract{}, &ContractNotFoundError{
			Contract:  target,
			Available: availableContracts(out),
		}
	case 1:
		return files[0], target, out.Contracts[files[0]][target], nil
	default:
		return "", "", solcjson.Contract{}, &AmbiguousContractError{
			Contract: target,
			Files:    files,
		}
	}
}

// availableContracts lists every contract name in the output, sorted.
func availableContracts(out *solcjson.Output) []string {
	seen := make(map[string]bool)
	var names []string
	for _, contracts := range out.Contracts {
		for name := range contracts {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}

// logDiagnostics reports the non-fatal compiler messages.
func (p *Pipeline) logDiagnostics(out *solcjson.Output) {
	for _, d := range out.Errors {
		switch d.Severity {
		case solcjson.SeverityWarning:
			p.logger.Warn("Compiler warning", "diagnostic", d.Format())
		default:
			p.logger.Debug("Compiler diagnostic", "severity", d.Severity, "diagnostic", d.Format())
		}
	}
}

func displayVersion(version string) string {
	if version == "" {
		return "(current)"
	}
	return version
}
