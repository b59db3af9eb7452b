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

// Command joosc is the CLI driver for the analyzer: a cobra root
// command with three subcommands (spec §6), matching the teacher's own
// cobra-root-plus-subcommands shape but without its color/emoji
// flourishes, since the core packages stay silent and this boundary
// logs plainly via the standard library.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
)

// Exit codes, per spec §6: 0 on every target accepted, 42 on any
// semantic-error rejection, nonzero on an internal failure.
const (
	exitAccept  = 0
	exitSemErr  = 42
	exitFailure = 1
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("joosc: ")

	root := &cobra.Command{
		Use:   "joosc",
		Short: "Joos 1W semantic analyzer",
	}
	root.AddCommand(newRunCmd(), newCheckCmd(), newTreeCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitFailure)
	}
}
