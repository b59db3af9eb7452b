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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsEmptyManifest(t *testing.T) {
	m, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.Equal(t, Unspecified, m.OutcomeFor("anything"))
	require.False(t, m.Skipped("anything"))
}

func TestLoadAndOutcomeFor(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.yaml")
	content := "expect:\n  Je_weird_but_valid: accept\n  LooksFine_but_rejected: reject\nskip:\n  - WipFeature\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	m, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, Accept, m.OutcomeFor("Je_weird_but_valid"))
	require.Equal(t, Reject, m.OutcomeFor("LooksFine_but_rejected"))
	require.Equal(t, Unspecified, m.OutcomeFor("NoOverride"))
	require.True(t, m.Skipped("WipFeature"))
	require.False(t, m.Skipped("Je_weird_but_valid"))
}

func TestNilManifestIsSafe(t *testing.T) {
	var m *Manifest
	require.Equal(t, Unspecified, m.OutcomeFor("x"))
	require.False(t, m.Skipped("x"))
}
