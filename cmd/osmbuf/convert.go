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
	"fmt"
	"log"
	"os"
	"time"

	humanize "github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"m4o.io/osmbuf/codec"
	"m4o.io/osmbuf/pipeline"
)

var (
	generator  string
	noProgress bool
)

func init() {
	RootCmd.AddCommand(convertCmd)
	convertCmd.Flags().StringVarP(&generator, "generator", "g", "", "override the generator recorded in the output")
	convertCmd.Flags().BoolVar(&noProgress, "no-progress", false, "suppress the progress bar")
}

var convertCmd = &cobra.Command{
	Use:   "convert [INFILE [OUTFILE]]",
	Short: "Convert OSM data between file encodings",
	Long: "Convert OSM data between file encodings. The filename suffixes select " +
		"the serialization format and compression framing; stdin and stdout " +
		"carry plain XML.",
	Args: cobra.MaximumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		var inPath, outPath string

		if len(args) > 0 {
			inPath = args[0]
		}

		if len(args) > 1 {
			outPath = args[1]
		}

		reader, closeIn, err := openReader(inPath, !noProgress && inPath != "")
		if err != nil {
			log.Fatal(err)
		}

		writer, finalize, err := openWriter(outPath)
		if err != nil {
			log.Fatal(err)
		}

		src := reader
		if generator != "" {
			src = generatorOverride{Reader: reader, generator: generator}
		}

		start := time.Now()

		stats, err := pipeline.Convert(cmd.Context(), src, writer)
		if err != nil {
			log.Fatal(err)
		}

		if err := finalize(); err != nil {
			log.Fatal(err)
		}

		if err := closeIn(); err != nil {
			log.Fatal(err)
		}

		fmt.Fprintf(os.Stderr, "converted %s nodes, %s ways, %s relations in %s\n",
			humanize.Comma(int64(stats.Nodes)),
			humanize.Comma(int64(stats.Ways)),
			humanize.Comma(int64(stats.Relations)),
			time.Since(start).Round(time.Millisecond))
	},
}

// generatorOverride replaces the generator announced by the source.
type generatorOverride struct {
	codec.Reader

	generator string
}

func (g generatorOverride) Metadata() codec.Metadata {
	md := g.Reader.Metadata()
	md.Generator = g.generator

	return md
}
