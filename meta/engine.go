package meta

import (
	"errors"
	"sync/atomic"

	"github.com/coregx/rationl/automaton"
	"github.com/coregx/rationl/dfa"
	"github.com/coregx/rationl/literal"
	"github.com/coregx/rationl/nfa"
	"github.com/coregx/rationl/prefilter"
)

// Engine is a compiled pattern together with the strategy chosen to search
// with it.
//
// Thread safety: the automaton, search DFA and prefilter are immutable after
// compilation. Per-search mutable state comes from a sync.Pool, so the
// search methods may be called from multiple goroutines concurrently.
//
// Example:
//
//	engine, err := meta.Compile(`(foo|bar)\d+`)
//	if err != nil {
//	    return err
//	}
//	match := engine.Find([]byte("test foo123 end"))
//	if match != nil {
//	    println(match.String()) // "foo123"
//	}
type Engine struct {
	// stats MUST be first for 8-byte alignment of its atomics on 32-bit
	// platforms.
	stats Stats

	pattern   string
	numGroups int
	names     []string

	automaton     *automaton.Automaton
	deterministic bool
	sim           *nfa.Simulator
	searchDFA     *dfa.SearchDFA
	prefilter     prefilter.Prefilter
	strategy      Strategy
	config        Config

	statePool *searchStatePool
}

// Stats tracks execution statistics for performance analysis.
type Stats struct {
	// Searches counts calls that scan a subject (Find, Search, Replace, ...).
	Searches uint64

	// NFASearches counts searches that ran the automaton at every position.
	NFASearches uint64

	// SearchDFASearches counts searches run by the search DFA.
	SearchDFASearches uint64

	// PrefilterSearches counts searches driven by the prefilter.
	PrefilterSearches uint64

	// PrefilterCandidates counts candidate positions the prefilter proposed.
	PrefilterCandidates uint64

	// PrefilterSkipped counts subject bytes skipped between candidates.
	PrefilterSkipped uint64

	// PrefilterAbandoned counts searches in which the prefilter was retired
	// for proposing too many false candidates.
	PrefilterAbandoned uint64
}

// Compile compiles pattern with DefaultConfig.
func Compile(pattern string) (*Engine, error) {
	return CompileWithConfig(pattern, DefaultConfig())
}

// CompileWithConfig compiles pattern with config.
//
// A syntax error or an over-deep pattern is returned as *nfa.CompileError;
// an invalid config as *ConfigError.
func CompileWithConfig(pattern string, config Config) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	compiler := nfa.NewCompiler(nfa.CompilerConfig{
		DotNewline:        config.DotNewline,
		FoldCase:          config.FoldCase,
		MaxRecursionDepth: config.MaxRecursionDepth,
	})
	re, err := compiler.Parse(pattern)
	if err != nil {
		return nil, err
	}
	raw, err := compiler.CompileNode(re.Root)
	if err != nil {
		var cerr *nfa.CompileError
		if errors.As(err, &cerr) {
			cerr.Pattern = pattern
			return nil, cerr
		}
		return nil, &nfa.CompileError{Pattern: pattern, Err: err}
	}

	a, deterministic := buildAutomaton(raw, config)
	e := &Engine{
		pattern:       pattern,
		numGroups:     re.NumGroups,
		names:         re.Names,
		automaton:     a,
		deterministic: deterministic,
		sim:           nfa.NewSimulator(a),
		strategy:      UseNFA,
		config:        config,
	}

	extractor := literal.New(literal.ExtractorConfig{
		MaxLiterals:   config.MaxLiterals,
		MaxLiteralLen: literal.DefaultConfig().MaxLiteralLen,
		MaxClassSize:  literal.DefaultConfig().MaxClassSize,
	})
	prefixes := extractor.ExtractPrefixes(re.Root)

	switch {
	case config.EnableSearchDFA && singleLiteral(prefixes):
		e.searchDFA = dfa.BuildSearchDFA(a)
		e.strategy = UseSearchDFA
	case config.EnablePrefilter:
		pf := prefilter.NewBuilder(prefixes).Build()
		if pf == nil {
			if table, nullable := firstByteTable(a); !nullable {
				pf = prefilter.NewByteTable(table)
			}
		}
		if pf != nil {
			e.prefilter = pf
			e.strategy = UsePrefilter
		}
	}

	e.statePool = newSearchStatePool(e.sim, e.prefilter)
	return e, nil
}

// buildAutomaton turns a Thompson NFA into the automaton searches run on:
// epsilon-free, then deterministic and minimal when the state limit allows,
// then pruned. It reports whether the result is deterministic.
func buildAutomaton(raw *automaton.Automaton, config Config) (*automaton.Automaton, bool) {
	a := nfa.EliminateEpsilon(raw)
	deterministic := false
	if config.EnableDFA {
		// Over the limit: keep simulating the epsilon-free NFA.
		if d, err := dfa.DeterminizeLimit(a, config.MaxDFAStates); err == nil {
			a, deterministic = d, true
			if config.Minimize {
				if m, err := dfa.MinimizeLimit(a, config.MaxDFAStates); err == nil {
					a = m
				}
			}
		}
	}
	if config.Prune {
		a = dfa.Prune(a)
	}
	return a, deterministic
}

// Strategy returns the execution strategy selected for this engine.
func (e *Engine) Strategy() Strategy {
	return e.strategy
}

// String returns the source pattern.
func (e *Engine) String() string {
	return e.pattern
}

// Config returns the configuration the engine was compiled with.
func (e *Engine) Config() Config {
	return e.config
}

// Automaton returns the automaton searches run on. It must not be modified.
func (e *Engine) Automaton() *automaton.Automaton {
	return e.automaton
}

// IsDeterministic reports whether subset construction succeeded within
// MaxDFAStates. When false the engine simulates the epsilon-free NFA.
func (e *Engine) IsDeterministic() bool {
	return e.deterministic
}

// Prefilter returns the prefilter, or nil when the strategy uses none.
func (e *Engine) Prefilter() prefilter.Prefilter {
	return e.prefilter
}

// NumGroups returns the number of capturing groups in the pattern.
func (e *Engine) NumGroups() int {
	return e.numGroups
}

// SubexpNames returns the names of the capturing groups, indexed by group
// id. Names[0] and unnamed groups are "".
func (e *Engine) SubexpNames() []string {
	return e.names
}

// Stats returns a snapshot of the execution statistics.
func (e *Engine) Stats() Stats {
	return Stats{
		Searches:            atomic.LoadUint64(&e.stats.Searches),
		NFASearches:         atomic.LoadUint64(&e.stats.NFASearches),
		SearchDFASearches:   atomic.LoadUint64(&e.stats.SearchDFASearches),
		PrefilterSearches:   atomic.LoadUint64(&e.stats.PrefilterSearches),
		PrefilterCandidates: atomic.LoadUint64(&e.stats.PrefilterCandidates),
		PrefilterSkipped:    atomic.LoadUint64(&e.stats.PrefilterSkipped),
		PrefilterAbandoned:  atomic.LoadUint64(&e.stats.PrefilterAbandoned),
	}
}

// ResetStats resets execution statistics to zero.
func (e *Engine) ResetStats() {
	atomic.StoreUint64(&e.stats.Searches, 0)
	atomic.StoreUint64(&e.stats.NFASearches, 0)
	atomic.StoreUint64(&e.stats.SearchDFASearches, 0)
	atomic.StoreUint64(&e.stats.PrefilterSearches, 0)
	atomic.StoreUint64(&e.stats.PrefilterCandidates, 0)
	atomic.StoreUint64(&e.stats.PrefilterSkipped, 0)
	atomic.StoreUint64(&e.stats.PrefilterAbandoned, 0)
}
