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

package util

import (
	"regexp"
	"strconv"
	"time"

	"github.com/openfabric/fabric/pkg/private/serrors"
)

const (
	day  = 24 * time.Hour
	week = 7 * day
	year = 365 * day
)

var durationRegexp = regexp.MustCompile(`^(\d+)(ns|us|µs|ms|s|m|h|d|w|y)$`)

var unitMap = map[string]time.Duration{
	"ns": time.Nanosecond,
	"us": time.Microsecond,
	"µs": time.Microsecond,
	"ms": time.Millisecond,
	"s":  time.Second,
	"m":  time.Minute,
	"h":  time.Hour,
	"d":  day,
	"w":  week,
	"y":  year,
}

// ParseDuration parses a duration string. In addition to the standard Go
// duration format, single-unit integer values with day (d), week (w) and
// year (y) suffixes are supported.
func ParseDuration(s string) (time.Duration, error) {
	match := durationRegexp.FindStringSubmatch(s)
	if match == nil {
		d, err := time.ParseDuration(s)
		if err != nil {
			return 0, serrors.New("invalid duration", "value", s)
		}
		return d, nil
	}
	n, err := strconv.ParseInt(match[1], 10, 64)
	if err != nil {
		return 0, serrors.Wrap("invalid duration value", err, "value", s)
	}
	return time.Duration(n) * unitMap[match[2]], nil
}

// FmtDuration formats the duration as the largest whole unit that represents
// it exactly, extending the standard units with days, weeks and years.
func FmtDuration(d time.Duration) string {
	for _, u := range []struct {
		suffix string
		dur    time.Duration
	}{
		{"y", year}, {"w", week}, {"d", day},
		{"h", time.Hour}, {"m", time.Minute}, {"s", time.Second},
		{"ms", time.Millisecond}, {"us", time.Microsecond},
	} {
		if d >= u.dur && d%u.dur == 0 {
			return strconv.FormatInt(int64(d/u.dur), 10) + u.suffix
		}
	}
	if d == 0 {
		return "0s"
	}
	return strconv.FormatInt(int64(d), 10) + "ns"
}
