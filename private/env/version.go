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

package env

import (
	"fmt"
	"runtime"

	"github.com/openfabric/fabric/pkg/log"
)

// Version is the version of the binary. It is set at build time.
var Version = "dev"

// VersionInfo returns a multi-line version description of the binary.
func VersionInfo() string {
	return fmt.Sprintf(
		"  fabric version: %s\n  go version:     %s (%s/%s)\n",
		Version,
		runtime.Version(),
		runtime.GOOS,
		runtime.GOARCH,
	)
}

// LogAppStarted announces the service in the log. Applications should call it
// as soon as logging is initialized.
func LogAppStarted(svcType, elemID string) {
	log.Info("Service started", "type", svcType, "id", elemID, "version", Version)
}

// LogAppStopped announces the shutdown of the service in the log.
func LogAppStopped(svcType, elemID string) {
	log.Info("Service stopped", "type", svcType, "id", elemID)
}
