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

package control

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openfabric/fabric/control/hosts"
	"github.com/openfabric/fabric/control/topology"
	"github.com/openfabric/fabric/pkg/addr"
	"github.com/openfabric/fabric/pkg/private/xtest"
)

func TestTopologyStatusPage(t *testing.T) {
	store := topology.New()
	left := xtest.MustParseDPID("00:00:00:00:00:00:00:2a")
	right := xtest.MustParseDPID("00:00:00:00:00:00:00:2b")
	store.SwitchUp(left, []uint32{1, 2})
	store.SwitchUp(right, []uint32{7})
	store.LinkUp(left, right, 2)

	rec := httptest.NewRecorder()
	page := topologyStatusPage(store)
	page.Handler(rec, httptest.NewRequest(http.MethodGet, "/topology", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var rep struct {
		Switches []struct {
			DPID  addr.DPID `json:"dpid"`
			Ports []uint32  `json:"ports"`
		} `json:"switches"`
		Links []struct {
			From addr.DPID `json:"from"`
			To   addr.DPID `json:"to"`
			Port uint32    `json:"port"`
		} `json:"links"`
		Hash uint64 `json:"hash"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rep))
	require.Len(t, rep.Switches, 2)
	assert.Equal(t, left, rep.Switches[0].DPID)
	assert.Equal(t, []uint32{1, 2}, rep.Switches[0].Ports)
	assert.Equal(t, right, rep.Switches[1].DPID)
	require.Len(t, rep.Links, 1)
	assert.Equal(t, left, rep.Links[0].From)
	assert.Equal(t, right, rep.Links[0].To)
	assert.Equal(t, uint32(2), rep.Links[0].Port)
	assert.Equal(t, store.Snapshot().Hash(), rep.Hash)

	// The identifiers render in the canonical 16 digit form.
	assert.Contains(t, rec.Body.String(), `"000000000000002a"`)
}

func TestHostsStatusPage(t *testing.T) {
	table := hosts.NewTable(hosts.Metrics{})
	mac := xtest.MustParseMAC("02:00:00:00:be:ef")
	require.True(t, table.Learn(mac, xtest.MustParseDPID("0x2a"), 7))

	rec := httptest.NewRecorder()
	page := hostsStatusPage(table)
	page.Handler(rec, httptest.NewRequest(http.MethodGet, "/hosts", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var rep []struct {
		MAC  string    `json:"mac"`
		DPID addr.DPID `json:"dpid"`
		Port uint32    `json:"port"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rep))
	require.Len(t, rep, 1)
	assert.Equal(t, "02:00:00:00:be:ef", rep[0].MAC)
	assert.Equal(t, addr.DPID(0x2a), rep[0].DPID)
	assert.Equal(t, uint32(7), rep[0].Port)
}

func TestHostsStatusPageEmpty(t *testing.T) {
	rec := httptest.NewRecorder()
	page := hostsStatusPage(hosts.NewTable(hosts.Metrics{}))
	page.Handler(rec, httptest.NewRequest(http.MethodGet, "/hosts", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	// An empty table renders as an empty list, not null.
	assert.JSONEq(t, "[]", rec.Body.String())
}
