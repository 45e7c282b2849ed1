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

// Package worker contains helpers for long-running goroutines with orderly
// shutdown.
package worker

import (
	"context"
	"sync"

	"github.com/openfabric/fabric/pkg/private/serrors"
)

// Base embeds run/close state management into objects that execute as
// long-running goroutines. The zero value is ready for use.
type Base struct {
	mu sync.Mutex
	// doneChan is closed once the worker is shut down.
	doneChan chan struct{}
	// runFinishedChan is closed once the run function has returned.
	runFinishedChan chan struct{}
	started         bool
	closed          bool
}

func (wb *Base) init() {
	if wb.doneChan == nil {
		wb.doneChan = make(chan struct{})
		wb.runFinishedChan = make(chan struct{})
	}
}

// RunWrapper guards the run of a worker. The setup function is executed
// first; if it succeeds, the run function is invoked. A worker runs at most
// once; calling RunWrapper again returns an error. If the worker was closed
// before the run, RunWrapper returns nil without invoking anything. Both
// functions may be nil.
func (wb *Base) RunWrapper(ctx context.Context, setup, run func(context.Context) error) error {
	wb.mu.Lock()
	wb.init()
	if wb.started {
		wb.mu.Unlock()
		return serrors.New("worker already started")
	}
	wb.started = true
	if wb.closed {
		wb.mu.Unlock()
		close(wb.runFinishedChan)
		return nil
	}
	wb.mu.Unlock()

	defer close(wb.runFinishedChan)
	if setup != nil {
		if err := setup(ctx); err != nil {
			return err
		}
	}
	if run == nil {
		return nil
	}
	return run(ctx)
}

// CloseWrapper shuts the worker down. If a run is in progress, CloseWrapper
// blocks until it has returned, then invokes the close function. Closing a
// worker that never ran is valid and prevents any future run. CloseWrapper is
// idempotent; only the first call invokes the close function.
func (wb *Base) CloseWrapper(ctx context.Context, closeF func(context.Context) error) error {
	wb.mu.Lock()
	wb.init()
	if wb.closed {
		wb.mu.Unlock()
		return nil
	}
	wb.closed = true
	close(wb.doneChan)
	started := wb.started
	wb.mu.Unlock()

	if started {
		<-wb.runFinishedChan
	}
	if closeF != nil {
		return closeF(ctx)
	}
	return nil
}

// GetDoneChan returns a channel that is closed once the worker is shut down.
// Run functions select on it to learn when to return.
func (wb *Base) GetDoneChan() <-chan struct{} {
	wb.mu.Lock()
	defer wb.mu.Unlock()
	wb.init()
	return wb.doneChan
}
