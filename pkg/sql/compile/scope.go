// Copyright 2021 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package compile

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/matrixorigin/colflow/pkg/common/moerr"
	"github.com/matrixorigin/colflow/pkg/logutil"
	"github.com/matrixorigin/colflow/pkg/vm"
)

// Run pulls the root of the scope until it stops.
func (s *Scope) Run() error {
	start := time.Now()
	err := vm.Run(s.Root, s.Proc, s.fn)
	fields := []zap.Field{
		zap.String("query", s.Proc.QueryId()),
		zap.String("magic", s.Magic.String()),
		zap.Duration("cost", time.Since(start)),
	}
	if me, ok := err.(*moerr.Error); ok {
		fields = append(fields, zap.String("error", me.Display()))
	} else {
		fields = append(fields, zap.Error(err))
	}
	logutil.Debug("scope finished", fields...)
	return err
}

// Run runs every scope on its own task and waits for all of them. The first
// failure cancels the query. The error returned is that failure, never an
// interruption it caused in another scope.
//
// Consumers wait for their producers, so every scope must hold a worker at
// the same time.
func (c *Compile) Run() error {
	if len(c.scopes) == 0 {
		return nil
	}
	if len(c.scopes) > c.workers {
		return moerr.NewBadConfig(c.proc.Ctx, "query needs %d workers, only %d allowed", len(c.scopes), c.workers)
	}

	pool, err := ants.NewPool(len(c.scopes))
	if err != nil {
		return moerr.ConvertGoError(c.proc.Ctx, err)
	}
	defer pool.Release()
	defer func() {
		for _, s := range c.scopes {
			s.Proc.Cancel()
		}
	}()

	var (
		g     errgroup.Group
		mu    sync.Mutex
		cause error
	)
	fail := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if cause == nil || (isInterrupted(cause) && !isInterrupted(err)) {
			cause = err
		}
		c.proc.Cancel()
	}

	for _, s := range c.scopes {
		s := s
		errCh := make(chan error, 1)
		if err := pool.Submit(func() {
			errCh <- s.Run()
		}); err != nil {
			fail(moerr.ConvertGoError(c.proc.Ctx, err))
			break
		}
		g.Go(func() error {
			if err := <-errCh; err != nil {
				fail(err)
				return err
			}
			return nil
		})
	}
	_ = g.Wait()
	return cause
}

func isInterrupted(err error) bool {
	return moerr.IsMoErrCode(err, moerr.ErrQueryInterrupted) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}
