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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDuration(t *testing.T) {
	tests := map[string]struct {
		input     string
		expected  time.Duration
		assertErr assert.ErrorAssertionFunc
	}{
		"seconds":        {"30s", 30 * time.Second, assert.NoError},
		"milliseconds":   {"250ms", 250 * time.Millisecond, assert.NoError},
		"days":           {"2d", 48 * time.Hour, assert.NoError},
		"weeks":          {"1w", 7 * 24 * time.Hour, assert.NoError},
		"years":          {"1y", 365 * 24 * time.Hour, assert.NoError},
		"go compound":    {"1m30s", 90 * time.Second, assert.NoError},
		"missing unit":   {"30", 0, assert.Error},
		"unknown unit":   {"30parsec", 0, assert.Error},
		"empty":          {"", 0, assert.Error},
		"negative plain": {"-5s", -5 * time.Second, assert.NoError},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			d, err := ParseDuration(test.input)
			test.assertErr(t, err)
			if err == nil {
				assert.Equal(t, test.expected, d)
			}
		})
	}
}

func TestFmtDuration(t *testing.T) {
	tests := map[string]struct {
		input    time.Duration
		expected string
	}{
		"zero":           {0, "0s"},
		"seconds":        {30 * time.Second, "30s"},
		"minutes":        {5 * time.Minute, "5m"},
		"day":            {24 * time.Hour, "1d"},
		"week":           {7 * 24 * time.Hour, "1w"},
		"non-whole unit": {90 * time.Second, "90s"},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.expected, FmtDuration(test.input))
		})
	}
}

func TestDurWrapRoundTrip(t *testing.T) {
	var d DurWrap
	assert.NoError(t, d.UnmarshalText([]byte("90s")))
	assert.Equal(t, 90*time.Second, d.Duration)
	text, err := d.MarshalText()
	assert.NoError(t, err)
	assert.Equal(t, "90s", string(text))
}
