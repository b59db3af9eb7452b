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

package main

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joos1w/semcheck/config"
	"github.com/joos1w/semcheck/diagnostic"
)

func newRunCmd() *cobra.Command {
	var manifestPath string
	var stdlibDir string

	cmd := &cobra.Command{
		Use:   "run <dir>...",
		Short: "Analyze one or more test directories and check against expected outcomes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, dirs []string) error {
			return runTestDirs(dirs, manifestPath, stdlibDir)
		},
	}
	cmd.Flags().StringVar(&manifestPath, "manifest", "", "path to a manifest.yaml overriding the Je-prefix convention")
	cmd.Flags().StringVar(&stdlibDir, "stdlib", "", "directory of .java sources to use instead of the embedded standard library")
	return cmd
}

func runTestDirs(dirs []string, manifestPath, stdlibDir string) error {
	pipeline, err := newPipeline(stdlibDir)
	if err != nil {
		log.Fatalf("building analyzer: %v", err)
	}

	var manifest *config.Manifest
	if manifestPath != "" {
		manifest, err = config.Load(manifestPath)
		if err != nil {
			log.Fatalf("loading manifest: %v", err)
		}
	}

	var batch diagnostic.Batch
	for _, dir := range dirs {
		name := filepath.Base(dir)
		if manifest.Skipped(name) {
			continue
		}

		paths, err := javaFilesIn(dir)
		if err != nil {
			log.Fatalf("%v", err)
		}
		if len(paths) == 0 {
			log.Printf("%s: no .java files found, skipping", dir)
			continue
		}

		units, err := loadFiles(paths)
		if err != nil {
			batch.Add(diagnostic.Outcome{Target: name, Accepted: false, Err: err})
			continue
		}

		runErr := pipeline.Run(units)
		batch.Add(diagnostic.Outcome{Target: name, Accepted: runErr == nil, Err: runErr})
	}

	expectAccept := func(target string) bool {
		switch manifest.OutcomeFor(target) {
		case config.Accept:
			return true
		case config.Reject:
			return false
		}
		return !strings.HasPrefix(firstFileBaseName(dirs, target), "Je")
	}

	if err := batch.MismatchError(expectAccept); err != nil {
		log.Println(err)
		os.Exit(exitSemErr)
	}
	log.Printf("%d test directories passed", len(batch.Outcomes()))
	return nil
}

// firstFileBaseName returns the base name (no extension) of the
// alphabetically-first .java file in the directory among dirs whose
// base name matches target, or "" if it can't be determined.
func firstFileBaseName(dirs []string, target string) string {
	for _, dir := range dirs {
		if filepath.Base(dir) != target {
			continue
		}
		paths, err := javaFilesIn(dir)
		if err != nil || len(paths) == 0 {
			return ""
		}
		base := filepath.Base(paths[0])
		return strings.TrimSuffix(base, ".java")
	}
	return ""
}
