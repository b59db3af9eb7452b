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

// Package diagnostic defines the single semantic-error kind the analyzer
// raises, plus a batch-result aggregator used by the CLI driver.
package diagnostic

import (
	"errors"
	"fmt"

	"github.com/joos1w/semcheck/cst"
)

// Error is the one semantic error kind the analyzer ever raises (spec §7).
// It carries a human-readable message and, where available, a source
// position. There is no recovery: the phase that raises it aborts
// immediately.
type Error struct {
	Message string
	Pos     *cst.Position
}

// New creates a position-less semantic error.
func New(format string, args ...any) error {
	return &Error{Message: fmt.Sprintf(format, args...)}
}

// At creates a semantic error carrying a source position.
func At(pos cst.Position, format string, args ...any) error {
	p := pos
	return &Error{Message: fmt.Sprintf(format, args...), Pos: &p}
}

func (e *Error) Error() string {
	if e.Pos == nil {
		return e.Message
	}
	return fmt.Sprintf("%s (line %d, column %d)", e.Message, e.Pos.Line, e.Pos.Column)
}

// IsSemantic reports whether err is (or wraps) a *diagnostic.Error, as
// opposed to an internal plumbing failure (malformed tree, I/O error).
func IsSemantic(err error) bool {
	var e *Error
	return errors.As(err, &e)
}
