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

	"github.com/spf13/cobra"

	"github.com/joos1w/semcheck/diagnostic"
)

func newCheckCmd() *cobra.Command {
	var stdlibDir string

	cmd := &cobra.Command{
		Use:   "check <file.java>...",
		Short: "Analyze an explicit list of source files as one compilation",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, paths []string) {
			pipeline, err := newPipeline(stdlibDir)
			if err != nil {
				log.Fatalf("building analyzer: %v", err)
			}

			units, err := loadFiles(paths)
			if err != nil {
				log.Fatalf("%v", err)
			}

			if err := pipeline.Run(units); err != nil {
				if diagnostic.IsSemantic(err) {
					log.Println(err)
					os.Exit(exitSemErr)
				}
				log.Fatalf("%v", err)
			}
		},
	}
	cmd.Flags().StringVar(&stdlibDir, "stdlib", "", "directory of .java sources to use instead of the embedded standard library")
	return cmd
}
