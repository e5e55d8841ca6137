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

package process

import (
	"context"

	"github.com/matrixorigin/colflow/pkg/config"
	"github.com/matrixorigin/colflow/pkg/container/batch"
)

// New creates a new Process.
func New(ctx context.Context, lim Limitation) *Process {
	proc := &Process{Lim: lim}
	proc.Ctx, proc.Cancel = context.WithCancel(ctx)
	return proc
}

// NewFromProc creates a process for another pipeline of the same query. It
// is cancelled with its parent.
func NewFromProc(p *Process) *Process {
	proc := New(p.Ctx, p.Lim)
	proc.Id = p.Id
	return proc
}

// NewLimitation derives pipeline limits from the exec configuration.
func NewLimitation(cfg config.ExecParameters) Limitation {
	return Limitation{
		BatchRows:     cfg.BatchRows,
		ChannelBuffer: cfg.ChannelBuffer,
	}
}

func (proc *Process) QueryId() string {
	return proc.Id
}

func (proc *Process) SetQueryId(id string) {
	proc.Id = id
}

func (proc *Process) GetLim() Limitation {
	return proc.Lim
}

// NewWaitRegister creates a channel endpoint whose context is derived from
// the process context.
func (proc *Process) NewWaitRegister() *WaitRegister {
	size := proc.Lim.ChannelBuffer
	if size < 0 {
		size = 0
	}
	ctx, cancel := context.WithCancel(proc.Ctx)
	return &WaitRegister{
		Ctx:    ctx,
		Cancel: cancel,
		Ch:     make(chan *batch.Batch, size),
	}
}

// CleanChannel drops the batches still buffered in the channel.
func (wreg *WaitRegister) CleanChannel() {
	for {
		select {
		case _, ok := <-wreg.Ch:
			if !ok {
				return
			}
		default:
			return
		}
	}
}
