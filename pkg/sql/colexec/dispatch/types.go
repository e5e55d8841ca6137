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
	"sync"

	"github.com/matrixorigin/colflow/pkg/container/batch"
	"github.com/matrixorigin/colflow/pkg/pb/plan"
	"github.com/matrixorigin/colflow/pkg/vm"
	"github.com/matrixorigin/colflow/pkg/vm/process"
)

const argName = "dispatch"

var _ vm.Operator = new(Argument)

// Sender routes the batches of one producer to the receivers of an
// exchange. A sender is owned by a single goroutine, only Close may be
// called concurrently with itself.
type Sender struct {
	mode plan.ExchangeInfo_DistributionMode
	// label is the metric label of mode.
	label string

	regs []*process.WaitRegister
	// hashCols are the columns a hash exchange routes on.
	hashCols []int32
	// sendTo is the next receiver of a round robin exchange.
	sendTo int

	sendFunc func(ctx context.Context, s *Sender, bat *batch.Batch) error

	closeOnce sync.Once
	closed    bool
}

// Receiver is the consuming end of one channel of an exchange.
type Receiver struct {
	idx int
	reg *process.WaitRegister

	closeOnce sync.Once
	closed    bool
}

type container struct {
	// stopped is set once the child is exhausted or every receiver is gone.
	stopped bool
}

// Argument pulls its child and sends every batch through an exchange.
type Argument struct {
	ctr *container

	Sender *Sender

	vm.OperatorBase
}

func (arg *Argument) GetOperatorBase() *vm.OperatorBase {
	return &arg.OperatorBase
}

func (arg Argument) TypeName() string {
	return argName
}

func NewArgument() *Argument {
	return &Argument{}
}

func (arg *Argument) WithSender(s *Sender) *Argument {
	arg.Sender = s
	return arg
}

func (arg *Argument) Free(proc *process.Process, pipelineFailed bool, err error) {
	vm.FreeChildren(arg, proc, pipelineFailed, err)
	if arg.Sender != nil {
		arg.Sender.Close()
	}
	arg.ctr = nil
}
