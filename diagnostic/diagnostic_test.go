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
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joos1w/semcheck/cst"
)

func TestNewProducesPositionLessMessage(t *testing.T) {
	err := New("bad thing: %d", 42)
	require.EqualError(t, err, "bad thing: 42")
	require.True(t, IsSemantic(err))
}

func TestAtIncludesLineAndColumn(t *testing.T) {
	err := At(cst.Position{Line: 3, Column: 7}, "unexpected %s", "token")
	require.EqualError(t, err, "unexpected token (line 3, column 7)")
	require.True(t, IsSemantic(err))
}

func TestIsSemanticRejectsPlainError(t *testing.T) {
	require.False(t, IsSemantic(errors.New("plumbing failure")))
}

func TestBatchMismatchErrorOnlyReportsDisagreements(t *testing.T) {
	var b Batch
	b.Add(Outcome{Target: "Good", Accepted: true})
	b.Add(Outcome{Target: "Bad", Accepted: false, Err: New("rejected")})

	err := b.MismatchError(func(target string) bool { return true })
	require.Error(t, err)
	require.Contains(t, err.Error(), "Bad: expected accept=true, got accept=false")
	require.NotContains(t, err.Error(), "Good:")
}

func TestBatchMismatchErrorNilWhenEverythingMatches(t *testing.T) {
	var b Batch
	b.Add(Outcome{Target: "Good", Accepted: true})
	b.Add(Outcome{Target: "Bad", Accepted: false, Err: New("rejected")})

	err := b.MismatchError(func(target string) bool { return target != "Bad" })
	require.NoError(t, err)
}

func TestBatchOutcomesReturnsACopy(t *testing.T) {
	var b Batch
	b.Add(Outcome{Target: "A", Accepted: true})
	out := b.Outcomes()
	out[0].Target = "mutated"
	require.Equal(t, "A", b.Outcomes()[0].Target)
}
