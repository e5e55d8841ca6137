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

package dispatch

import (
	"context"
	"strings"

	"github.com/matrixorigin/colflow/pkg/common/moerr"
	"github.com/matrixorigin/colflow/pkg/container/batch"
	"github.com/matrixorigin/colflow/pkg/pb/plan"
	"github.com/matrixorigin/colflow/pkg/vm/process"
)

// NewExchange creates the sender and the receivers of an exchange. Single
// exchanges have exactly one receiver, the others have info.Count.
func NewExchange(proc *process.Process, info *plan.ExchangeInfo) (*Sender, []*Receiver, error) {
	if info == nil {
		return nil, nil, moerr.NewBadConfig(proc.Ctx, "exchange without descriptor")
	}

	s := &Sender{
		mode:  info.Mode,
		label: strings.ToLower(info.Mode.String()),
	}
	n := int(info.Count)
	switch info.Mode {
	case plan.ExchangeInfo_SINGLE:
		n = 1
		s.sendFunc = sendToSingleFunc
	case plan.ExchangeInfo_BROADCAST:
		s.sendFunc = sendToAllFunc
	case plan.ExchangeInfo_HASH:
		if len(info.HashColumns) == 0 {
			return nil, nil, moerr.NewBadConfig(proc.Ctx, "hash exchange without hash columns")
		}
		for _, col := range info.HashColumns {
			if col < 0 {
				return nil, nil, moerr.NewBadConfig(proc.Ctx, "hash exchange on column %d", col)
			}
		}
		s.hashCols = info.HashColumns
		s.sendFunc = sendByHashFunc
	case plan.ExchangeInfo_ROUND_ROBIN:
		s.sendFunc = sendToAnyFunc
	default:
		return nil, nil, moerr.NewBadConfig(proc.Ctx, "unknown exchange mode %d", info.Mode)
	}
	if n == 0 {
		return nil, nil, moerr.NewBadConfig(proc.Ctx, "%s exchange without receivers", s.label)
	}

	s.regs = make([]*process.WaitRegister, n)
	rs := make([]*Receiver, n)
	for i := range s.regs {
		s.regs[i] = proc.NewWaitRegister()
		rs[i] = &Receiver{idx: i, reg: s.regs[i]}
	}
	return s, rs, nil
}

// IsReceiverGone reports whether err says a receiver of the exchange was
// closed before the sender was done.
func IsReceiverGone(err error) bool {
	return moerr.IsMoErrCode(err, moerr.ErrStreamClosed)
}

func (s *Sender) Mode() plan.ExchangeInfo_DistributionMode {
	return s.mode
}

func (s *Sender) ReceiverCount() int {
	return len(s.regs)
}

// Send routes bat to the receivers of the exchange. It blocks while a target
// channel is full, and fails with a receiver gone error if a target receiver
// is closed.
func (s *Sender) Send(ctx context.Context, bat *batch.Batch) error {
	if s.closed {
		return moerr.NewInvalidState(ctx, "send on a closed exchange")
	}
	if bat == nil {
		return nil
	}
	return s.sendFunc(ctx, s, bat)
}

// Close ends the stream of every receiver. Batches already sent can still be
// received.
func (s *Sender) Close() {
	s.closeOnce.Do(func() {
		s.closed = true
		for _, reg := range s.regs {
			close(reg.Ch)
		}
	})
}

func (r *Receiver) Index() int {
	return r.idx
}

// Recv returns the next batch of the stream. It returns nil without error
// once the sender closed the stream and every batch was received.
func (r *Receiver) Recv(ctx context.Context) (*batch.Batch, error) {
	if r.closed {
		return nil, moerr.NewInvalidState(ctx, "receive on a closed receiver")
	}
	select {
	case bat, ok := <-r.reg.Ch:
		if !ok {
			return nil, nil
		}
		return bat, nil
	case <-ctx.Done():
		return nil, moerr.ConvertGoError(ctx, ctx.Err())
	}
}

// Chan exposes the channel of the receiver to callers that wait on several
// receivers at once. A closed channel is the end of the stream.
func (r *Receiver) Chan() <-chan *batch.Batch {
	return r.reg.Ch
}

// Close drops the receiver, the batches still buffered for it are
// discarded and later sends to it fail.
func (r *Receiver) Close() {
	r.closeOnce.Do(func() {
		r.closed = true
		r.reg.Cancel()
		r.reg.CleanChannel()
	})
}
