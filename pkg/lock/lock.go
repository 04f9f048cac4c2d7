/*
Copyright 2026 The llmkind Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package lock implements the per-cluster lock preventing concurrent lifecycle operations
package lock

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/llmkind/llmkind/pkg/state"
)

// RetryInterval is the interval between consecutive attempts to acquire a lock
const RetryInterval = 200 * time.Millisecond

// Lock is an exclusive lock on a cluster
type Lock struct {
	fl *flock.Flock
}

// Path returns the lock file path for a cluster, under the llmkind state directory
func Path(provider, name string) (string, error) {
	dir, err := state.EnsureDir("locks")
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fmt.Sprintf("%s-%s.lock", provider, name)), nil
}

// Acquire takes the lock for a cluster, waiting until it is available or ctx is done
func Acquire(ctx context.Context, provider, name string) (*Lock, error) {
	path, err := Path(provider, name)
	if err != nil {
		return nil, err
	}
	return AcquireFile(ctx, path)
}

// AcquireFile takes an exclusive lock on the given file
func AcquireFile(ctx context.Context, path string) (*Lock, error) {
	fl := flock.New(path)

	log.Debugf("Acquiring lock %s", path)
	locked, err := fl.TryLockContext(ctx, RetryInterval)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to acquire lock %s", path)
	}
	if !locked {
		if ctx.Err() != nil {
			return nil, errors.Wrapf(ctx.Err(), "failed to acquire lock %s", path)
		}
		return nil, errors.Errorf("failed to acquire lock %s", path)
	}
	return &Lock{fl: fl}, nil
}

// Release releases the lock. The lock file is left on disk, so a concurrent
// holder of a lock on the same path is never invalidated.
func (l *Lock) Release() {
	if l == nil || l.fl == nil {
		return
	}
	if err := l.fl.Close(); err != nil {
		log.Debugf("failed to release lock %s: %v", l.fl.Path(), err)
	}
}
