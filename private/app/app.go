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

// Package app provides helpers for the controller application binaries.
package app

import (
	"sync"

	"github.com/openfabric/fabric/pkg/private/serrors"
)

// Cleanup collects cleanup callbacks that should run when the application
// shuts down. The zero value is ready to use.
type Cleanup struct {
	mtx   sync.Mutex
	tasks []func() error
}

// Add appends a cleanup task. Tasks run in the order they were added.
func (c *Cleanup) Add(task func() error) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	c.tasks = append(c.tasks, task)
}

// Do runs all cleanup tasks. All tasks run even if some fail, and the
// errors are collected in the returned error.
func (c *Cleanup) Do() error {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	var errs serrors.List
	for _, task := range c.tasks {
		if err := task(); err != nil {
			errs = append(errs, err)
		}
	}
	return errs.ToError()
}
