// Copyright 2025 OpenFabric Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
)

// CtxMap carries the context for sample generation.
type CtxMap map[string]string

// WriteSample writes all sample config blocks in order of appearance, with
// indentation and table headers, to dst. It panics if writing fails.
func WriteSample(dst io.Writer, path Path, ctx CtxMap, samplers ...Sampler) {
	var buf bytes.Buffer
	for _, sampler := range samplers {
		buf.Reset()
		if ts, ok := sampler.(TableSampler); ok {
			p := path.Extend(ts.ConfigName())
			WriteString(dst, fmt.Sprintf("\n[%s]", strings.Join(p, ".")))
			ts.Sample(&buf, p, ctx)
			writeIndented(dst, &buf)
			continue
		}
		sampler.Sample(&buf, path, ctx)
		if _, err := io.Copy(dst, &buf); err != nil {
			panic(fmt.Sprintf("writing sample: %s", err))
		}
	}
}

// WriteString writes the string to dst. It panics if writing fails.
func WriteString(dst io.Writer, s string) {
	if _, err := dst.Write([]byte(s)); err != nil {
		panic(fmt.Sprintf("writing sample string: %s", err))
	}
}

func writeIndented(dst io.Writer, src io.Reader) {
	scanner := bufio.NewScanner(src)
	for scanner.Scan() {
		if len(scanner.Text()) > 0 {
			fmt.Fprintf(dst, "    %s\n", scanner.Text())
		} else {
			fmt.Fprintln(dst)
		}
	}
}
