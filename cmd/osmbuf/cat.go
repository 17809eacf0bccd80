// Copyright 2025 the original author or authors.
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
	"errors"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"m4o.io/osmbuf"
	"m4o.io/osmbuf/cmd/osmbuf/cli"
)

var (
	withSize bool
	catOut   *os.File
)

func init() {
	RootCmd.AddCommand(catCmd)
	catCmd.Flags().BoolVarP(&withSize, "with-size", "s", false, "annotate each record with its padded byte size")
	catCmd.Flags().VarP(cli.NewWriterValue(os.Stdout, &catOut), "output", "o", "write the dump to a file instead of stdout")
}

var catCmd = &cobra.Command{
	Use:   "cat [FILE]",
	Short: "Dump the entities of an OSM file as text",
	Long:  "Dump the entities of an OSM file as indented text, one line per field.",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var path string
		if len(args) == 1 {
			path = args[0]
		}

		reader, closeIn, err := openReader(path, false)
		if err != nil {
			log.Fatal(err)
		}

		var opts []osmbuf.DumpOption
		if withSize {
			opts = append(opts, osmbuf.WithItemSizes())
		}

		dump := osmbuf.NewDump(catOut, opts...)

		for {
			buf, err := reader.Read()
			if errors.Is(err, io.EOF) {
				break
			}

			if err != nil {
				log.Fatal(err)
			}

			for item := range buf.Items() {
				if err := dump.Apply(item); err != nil {
					log.Fatal(err)
				}
			}
		}

		if err := closeIn(); err != nil {
			log.Fatal(err)
		}

		if catOut != os.Stdout {
			if err := catOut.Close(); err != nil {
				log.Fatal(err)
			}
		}
	},
}
