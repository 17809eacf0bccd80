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

package osmbuf_test

import (
	"log"
	"os"
	"time"

	"m4o.io/osmbuf"
	"m4o.io/osmbuf/memory"
)

// Example builds a way into a buffer and renders every committed record
// through the dispatch mechanism.
func Example() {
	buf := memory.NewBuffer()

	wb, err := osmbuf.NewWayBuilder(buf)
	if err != nil {
		log.Fatal(err)
	}

	wb.SetID(100)
	wb.SetVersion(3)
	wb.SetTimestamp(time.Date(2013, 1, 1, 12, 0, 0, 0, time.UTC))

	if err := wb.SetUser("fred"); err != nil {
		log.Fatal(err)
	}

	tags, err := wb.Tags()
	if err != nil {
		log.Fatal(err)
	}

	if err := tags.Add("highway", "residential"); err != nil {
		log.Fatal(err)
	}

	nodes, err := wb.Nodes()
	if err != nil {
		log.Fatal(err)
	}

	for _, ref := range []int64{1001, 1002} {
		if err := nodes.Add(ref); err != nil {
			log.Fatal(err)
		}
	}

	if _, err := wb.Commit(); err != nil {
		log.Fatal(err)
	}

	dump := osmbuf.NewDump(os.Stdout)

	for item := range buf.Items() {
		if err := dump.Apply(item); err != nil {
			log.Fatal(err)
		}
	}

	// Output:
	// WAY:
	//   id=100
	//   version=3
	//   uid=0
	//   user=|fred|
	//   changeset=0
	//   timestamp=2013-01-01T12:00:00Z
	//   visible=yes
	//   TAGS:
	//     k=|highway| v=|residential|
	//   NODES:
	//     ref=1001
	//     ref=1002
}
