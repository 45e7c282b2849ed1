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

package routing

import (
	"github.com/openfabric/fabric/pkg/private/serrors"
)

var (
	// ErrNoRoute indicates that no path exists between two switches that
	// are both part of the routed snapshot.
	ErrNoRoute = serrors.New("routing: no route")
	// ErrDisconnected indicates that a switch is not part of the routed
	// snapshot, or that no snapshot has been routed yet.
	ErrDisconnected = serrors.New("routing: not in routed topology")
	// ErrComputationFailed indicates that the path computation did not
	// produce a usable result. The previous routing state stays in effect.
	ErrComputationFailed = serrors.New("routing: computation failed")
)
