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

package hosts_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openfabric/fabric/control/hosts"
	"github.com/openfabric/fabric/pkg/metrics"
	"github.com/openfabric/fabric/pkg/private/xtest"
)

func TestLearnFirstWriterWins(t *testing.T) {
	table := hosts.NewTable(hosts.Metrics{})
	mac := xtest.MustParseMAC("02:00:00:00:00:01")

	require.True(t, table.Learn(mac, 1, 3))
	assert.False(t, table.Learn(mac, 2, 7), "second writer must not win")

	entry, ok := table.Lookup(mac)
	require.True(t, ok)
	assert.EqualValues(t, 1, entry.DPID)
	assert.EqualValues(t, 3, entry.Port)
	assert.False(t, entry.Seen.IsZero())
}

func TestLearnCopiesAddress(t *testing.T) {
	table := hosts.NewTable(hosts.Metrics{})
	mac := xtest.MustParseMAC("02:00:00:00:00:01")
	require.True(t, table.Learn(mac, 1, 3))

	// The caller may reuse its frame buffer after Learn returns.
	mac[5] = 0xff
	entry, ok := table.Lookup(xtest.MustParseMAC("02:00:00:00:00:01"))
	require.True(t, ok)
	assert.Equal(t, xtest.MustParseMAC("02:00:00:00:00:01"), entry.MAC)
}

func TestLearnEmpty(t *testing.T) {
	table := hosts.NewTable(hosts.Metrics{})
	assert.False(t, table.Learn(nil, 1, 1))
	assert.Zero(t, table.Len())
}

func TestForget(t *testing.T) {
	entries := metrics.NewTestGauge()
	table := hosts.NewTable(hosts.Metrics{Entries: entries})
	table.Learn(xtest.MustParseMAC("02:00:00:00:00:01"), 1, 1)
	table.Learn(xtest.MustParseMAC("02:00:00:00:00:02"), 1, 2)
	table.Learn(xtest.MustParseMAC("02:00:00:00:00:03"), 2, 1)
	require.Equal(t, 3, table.Len())
	assert.Equal(t, 3.0, metrics.GaugeValue(entries))

	assert.Equal(t, 2, table.Forget(1))
	assert.Equal(t, 1, table.Len())
	assert.Equal(t, 1.0, metrics.GaugeValue(entries))

	_, ok := table.Lookup(xtest.MustParseMAC("02:00:00:00:00:01"))
	assert.False(t, ok)
	_, ok = table.Lookup(xtest.MustParseMAC("02:00:00:00:00:03"))
	assert.True(t, ok)

	assert.Zero(t, table.Forget(7))
}

func TestAllSorted(t *testing.T) {
	table := hosts.NewTable(hosts.Metrics{})
	table.Learn(xtest.MustParseMAC("02:00:00:00:00:03"), 3, 1)
	table.Learn(xtest.MustParseMAC("02:00:00:00:00:01"), 1, 1)
	table.Learn(xtest.MustParseMAC("02:00:00:00:00:02"), 2, 1)

	all := table.All()
	require.Len(t, all, 3)
	for i, want := range []string{
		"02:00:00:00:00:01",
		"02:00:00:00:00:02",
		"02:00:00:00:00:03",
	} {
		assert.Equal(t, want, all[i].MAC.String())
	}
}
