//  Copyright (c) 2023 Uber Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package analyze drives the six semantic-analysis phases plus the
// supplemented reachability pass over a batch of compilation units,
// against a standard-library-seeded global context. It plays the role
// the teacher's analyzer package plays for a two-diff comparison: a
// small struct holding the analyzer's configuration, a Run method that
// drives every stage in order, and a tri-state result (accept / reject
// / internal failure) in place of the teacher's approve/reject/failure
// triage.
package analyze

import (
	"github.com/joos1w/semcheck/cst"
	"github.com/joos1w/semcheck/diagnostic"
	"github.com/joos1w/semcheck/disambig"
	"github.com/joos1w/semcheck/env"
	"github.com/joos1w/semcheck/hierarchy"
	"github.com/joos1w/semcheck/reachability"
	"github.com/joos1w/semcheck/stdlib"
	"github.com/joos1w/semcheck/typecheck"
	"github.com/joos1w/semcheck/typelink"
	"github.com/joos1w/semcheck/weed"
)

// Result codes (not process exit codes: the CLI exits 0, 42 and 1
// for these three outcomes), mirroring the teacher analyzer's
// Approve/Reject/Failure triage: Accept means every phase passed,
// Reject means a compilation unit failed a semantic check, Failure
// means the pipeline itself could not run (a bad stdlib, an I/O
// error reading input — never a property of the source under test).
const (
	Accept  = 0
	Reject  = 1
	Failure = -1
)

// Pipeline holds the analyzer's standing configuration: the immutable
// base environment built once from the standard library, and whether
// the reachability pass runs.
type Pipeline struct {
	// ReachabilityOn toggles the supplemented unreachable-statement /
	// missing-return pass that runs after type checking. Defaults to
	// true; spec.md names no such phase, so this exists purely as an
	// escape hatch for comparing against a reference that doesn't do it.
	ReachabilityOn bool

	base *env.GlobalContext
}

// New builds a Pipeline with its standard-library base context parsed
// and checked once, from the embedded stub sources.
func New() (*Pipeline, error) {
	units, err := stdlib.Load()
	if err != nil {
		return nil, err
	}
	return newFrom(units)
}

// NewWithStdlibDir is New, but loads the standard library from an
// operator-supplied directory instead of the embedded stubs.
func NewWithStdlibDir(root string) (*Pipeline, error) {
	units, err := stdlib.LoadDir(root)
	if err != nil {
		return nil, err
	}
	return newFrom(units)
}

func newFrom(stdlibUnits []*cst.CompilationUnit) (*Pipeline, error) {
	base := env.NewGlobalContext()
	for _, u := range stdlibUnits {
		if err := weed.Check(u); err != nil {
			return nil, err
		}
		if err := env.Build(base, u); err != nil {
			return nil, err
		}
	}
	if err := typelink.Link(base); err != nil {
		return nil, err
	}
	if err := env.ResolveMemberTypes(base); err != nil {
		return nil, err
	}
	if err := hierarchy.Check(base); err != nil {
		return nil, err
	}
	return &Pipeline{ReachabilityOn: true, base: base}, nil
}

// Run drives phases 1 through 6, plus reachability, over units against
// a fresh clone of the pipeline's standard-library base context. It
// returns the first diagnostic.Error encountered, or nil if every unit
// is accepted. Each call gets its own clone (spec §9's "standard-
// library preloading" note), so the types of one Run never leak into
// the next. The clone shares the standard-library symbols, which each
// Run re-links in place, so Run calls on the same Pipeline are not safe
// to make concurrently.
func (p *Pipeline) Run(units []*cst.CompilationUnit) error {
	for _, u := range units {
		if err := weed.Check(u); err != nil {
			return err
		}
	}

	g := p.base.Clone()
	for _, u := range units {
		if err := env.Build(g, u); err != nil {
			return err
		}
	}

	if err := typelink.Link(g); err != nil {
		return err
	}
	if err := env.ResolveMemberTypes(g); err != nil {
		return err
	}
	if err := hierarchy.Check(g); err != nil {
		return err
	}

	table, err := disambig.Run(g)
	if err != nil {
		return err
	}
	if err := typecheck.Run(g, table); err != nil {
		return err
	}

	if p.ReachabilityOn {
		if err := reachability.Check(g); err != nil {
			return err
		}
	}
	return nil
}

// Check runs units through the pipeline and reports the result as an
// Accept/Reject/Failure code alongside the underlying error, if any.
// Only a diagnostic.Error maps to Reject; anything else (a malformed
// stdlib, an unexpected panic-free internal bug) maps to Failure, since
// it reflects a problem with the analyzer itself rather than the
// program it was asked to check.
func (p *Pipeline) Check(units []*cst.CompilationUnit) (int, error) {
	err := p.Run(units)
	if err == nil {
		return Accept, nil
	}
	if diagnostic.IsSemantic(err) {
		return Reject, err
	}
	return Failure, err
}
