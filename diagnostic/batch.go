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

package diagnostic

import (
	"fmt"

	"go.uber.org/multierr"
)

// Outcome is the result of analyzing one test directory or file list, as
// the CLI's "run" subcommand tabulates across many independent targets
// (spec §6).
type Outcome struct {
	Target   string
	Accepted bool
	Err      error
}

// Batch aggregates outcomes across many independent analysis runs so the
// CLI can report every mismatch in one pass instead of stopping at the
// first one, using go.uber.org/multierr the same way the teacher's CLI
// driver aggregates per-file diff-parsing failures.
type Batch struct {
	outcomes []Outcome
}

// Add records one target's outcome.
func (b *Batch) Add(o Outcome) {
	b.outcomes = append(b.outcomes, o)
}

// Outcomes returns every recorded outcome in insertion order.
func (b *Batch) Outcomes() []Outcome {
	return append([]Outcome(nil), b.outcomes...)
}

// MismatchError aggregates every outcome whose Accepted value disagrees
// with expected, as returned by expectAccept(target). It returns nil if
// every outcome matched its expectation.
func (b *Batch) MismatchError(expectAccept func(target string) bool) error {
	var err error
	for _, o := range b.outcomes {
		want := expectAccept(o.Target)
		if o.Accepted != want {
			err = multierr.Append(err, fmt.Errorf("%s: expected accept=%v, got accept=%v (%v)", o.Target, want, o.Accepted, o.Err))
		}
	}
	return err
}
