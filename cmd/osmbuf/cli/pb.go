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

// Package cli holds shared plumbing for the osmbuf commands.
package cli

import (
	"fmt"
	"io"
	"os"

	pb "gopkg.in/cheggaaa/pb.v1"
)

// progressReader is an io.ReadCloser with an associated progress bar on
// stderr. Closing it closes the delegate and clears the progress line.
type progressReader struct {
	r   io.ReadCloser
	bar *pb.ProgressBar
}

// WrapInputFile tracks reads from f against the file's total size with a
// progress bar. Stdin has no size and is returned unwrapped.
func WrapInputFile(f *os.File) (io.ReadCloser, error) {
	if f == os.Stdin {
		return os.Stdin, nil
	}

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}

	bar := pb.New(int(fi.Size())).SetUnits(pb.U_BYTES_DEC).SetWidth(79)
	bar.Output = os.Stderr
	bar.Start()

	return progressReader{
		r:   bar.NewProxyReader(f),
		bar: bar,
	}, nil
}

func (p progressReader) Read(b []byte) (int, error) {
	return p.r.Read(b)
}

// Close closes the delegate and clears the terminal line the bar used.
func (p progressReader) Close() error {
	// make sure newline is not printed by Finish()
	p.bar.Output = nil
	p.bar.NotPrint = true

	p.bar.Finish()

	fmt.Fprintf(os.Stderr, "\033[2K\r")

	return p.r.Close()
}
