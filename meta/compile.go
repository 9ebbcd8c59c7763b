package meta

import (
	"github.com/coregx/ecmaregex/literal"
	"github.com/coregx/ecmaregex/nfa"
	"github.com/coregx/ecmaregex/prefilter"
	"github.com/coregx/ecmaregex/syntax"
)

// Compile compiles a pattern under flags into an executable Engine using
// DefaultConfig.
//
// Steps:
//  1. Parse pattern (ECMAScript syntax, Annex B forms unless flags has u)
//  2. Compile to a backtracking Program
//  3. Extract literal prefixes
//  4. Build prefilter (if good literals exist)
//
// Returns an error if:
//   - Pattern syntax is invalid (*syntax.Error)
//   - Pattern nests too deeply or compiles too large (*syntax.Error)
//   - Configuration is invalid (*ConfigError)
//
// Example:
//
//	engine, err := meta.Compile(`(foo|bar)\d+`, 0)
//	if err != nil {
//	    log.Fatal(err)
//	}
func Compile(pattern string, flags syntax.Flags) (*Engine, error) {
	return CompileWithConfig(pattern, flags, DefaultConfig())
}

// CompileWithConfig compiles a pattern with custom configuration.
//
// Example:
//
//	config := meta.DefaultConfig()
//	config.EnablePrefilter = false
//	engine, err := meta.CompileWithConfig("hello", syntax.FlagGlobal, config)
func CompileWithConfig(pattern string, flags syntax.Flags, config Config) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	re, err := syntax.Parse(pattern, flags, config.MaxRecursionDepth)
	if err != nil {
		return nil, err
	}

	return CompileRegexp(re, config)
}

// CompileRegexp compiles an already parsed pattern.
func CompileRegexp(re *syntax.Regexp, config Config) (*Engine, error) {
	prog, err := nfa.NewCompiler(config.compilerConfig()).CompileRegexp(re)
	if err != nil {
		return nil, err
	}

	bt := nfa.NewBacktracker(prog)
	pf := buildPrefilter(re, prog, config)
	if pf != nil {
		bt = bt.WithCandidates(pf)
	}

	return &Engine{
		prog:      prog,
		bt:        bt,
		prefilter: pf,
		config:    config,
		statePool: newSearchStatePool(prog),
	}, nil
}

// buildPrefilter extracts literal prefixes and builds a prefilter for them.
// Sticky and start-anchored programs never skip positions, so they get none.
func buildPrefilter(re *syntax.Regexp, prog *nfa.Program, config Config) prefilter.Prefilter {
	if !config.EnablePrefilter || prog.Sticky() || prog.Anchored {
		return nil
	}
	extractor := literal.New(literal.ExtractorConfig{
		MaxLiterals:   config.MaxLiterals,
		MaxLiteralLen: literal.DefaultConfig().MaxLiteralLen,
		MaxClassSize:  literal.DefaultConfig().MaxClassSize,
	})
	return prefilter.NewBuilder(extractor.ExtractPrefixes(re)).Build()
}
