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

package analyze

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joos1w/semcheck/cst"
	"github.com/joos1w/semcheck/diagnostic"
	"github.com/joos1w/semcheck/parse"
)

func parseAll(t *testing.T, sources map[string]string) []*cst.CompilationUnit {
	t.Helper()
	var units []*cst.CompilationUnit
	for name, src := range sources {
		u, err := parse.File(name, []byte(src))
		require.NoError(t, err)
		units = append(units, u)
	}
	return units
}

func TestAcceptsWellFormedProgram(t *testing.T) {
	p, err := New()
	require.NoError(t, err)

	units := parseAll(t, map[string]string{
		"Hello": `public class Hello {
    public int value;

    public Hello(int v) {
        this.value = v;
    }

    public int compute(int x) {
        int y;
        y = x + this.value;
        if (y > 0) {
            return y;
        } else {
            return 0 - y;
        }
    }
}
`,
	})

	code, err := p.Check(units)
	require.NoError(t, err)
	require.Equal(t, Accept, code)
}

func TestRejectsMissingReturnViaReachability(t *testing.T) {
	p, err := New()
	require.NoError(t, err)

	units := parseAll(t, map[string]string{
		"Bad": `public class Bad {
    public Bad() {}

    public int bad(int x) {
        if (x > 0) {
            return x;
        }
    }
}
`,
	})

	code, err := p.Check(units)
	require.Error(t, err)
	require.Equal(t, Reject, code)
	require.True(t, diagnostic.IsSemantic(err))
}

func TestReachabilityOnOffToggle(t *testing.T) {
	p, err := New()
	require.NoError(t, err)
	p.ReachabilityOn = false

	units := parseAll(t, map[string]string{
		"Bad": `public class Bad {
    public Bad() {}

    public int bad(int x) {
        if (x > 0) {
            return x;
        }
    }
}
`,
	})

	// With reachability disabled, typecheck alone does not notice the
	// missing return on the false branch.
	require.NoError(t, p.Run(units))
}

func TestUndeclaredTypeIsRejected(t *testing.T) {
	p, err := New()
	require.NoError(t, err)

	units := parseAll(t, map[string]string{
		"Bad": `public class Bad {
    public Bad() {}

    public NoSuchType field;
}
`,
	})

	code, err := p.Check(units)
	require.Error(t, err)
	require.Equal(t, Reject, code)
}

func TestPipelineRunIsIndependentAcrossInvocations(t *testing.T) {
	p, err := New()
	require.NoError(t, err)

	units := parseAll(t, map[string]string{
		"A": `public class A {
    public A() {}
}
`,
	})
	require.NoError(t, p.Run(units))
	// Running the same class name again against a fresh clone must not
	// fail with "duplicate type declaration" — each Run gets its own
	// clone of the standard-library base context.
	require.NoError(t, p.Run(units))
}
