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

package mergeorder

import (
	"github.com/matrixorigin/colflow/pkg/compare"
	"github.com/matrixorigin/colflow/pkg/container/batch"
	"github.com/matrixorigin/colflow/pkg/container/types"
	"github.com/matrixorigin/colflow/pkg/container/vector"
	"github.com/matrixorigin/colflow/pkg/pb/plan"
	"github.com/matrixorigin/colflow/pkg/sql/colexec"
	"github.com/matrixorigin/colflow/pkg/vm"
	"github.com/matrixorigin/colflow/pkg/vm/process"
)

const argName = "merge_order"

var _ vm.Operator = new(Argument)

// defaultWindowSize is used when neither the argument nor the process limits
// the rows of an output batch.
var defaultWindowSize = process.DefaultBatchSize

const (
	receiving = iota
	merging
	end
)

// Argument drains its child, sorts every input batch and merges the sorted
// batches into output batches of at most WindowSize rows.
type Argument struct {
	ctr *container

	OrderBySpecs []*plan.OrderBySpec
	// WindowSize caps the rows of an output batch, 0 means the process limit.
	WindowSize int

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

func (arg *Argument) WithOrderBySpecs(specs []*plan.OrderBySpec) *Argument {
	arg.OrderBySpecs = specs
	return arg
}

func (arg *Argument) WithWindowSize(n int) *Argument {
	arg.WindowSize = n
	return arg
}

type container struct {
	// operator status
	state int

	keys []colexec.OrderKey
	cmp  *compare.RowComparator

	window int
	// remaining is the number of visible rows not merged yet.
	remaining int

	// attrs and typs of the output, taken from the first input batch.
	attrs []string
	typs  []types.Type

	// batchList is the data structure to store the all the received batches
	batchList []*batch.Batch
	// orderCols[i] are the evaluated order columns of batchList[i].
	orderCols [][]*vector.Vector
	// sels[i] is the sorted permutation of the rows of batchList[i].
	sels [][]int64
	// cursors[i] is the position in sels[i] of the next row to merge.
	cursors []int

	heap *mergeHeap
}

func (arg *Argument) Free(proc *process.Process, pipelineFailed bool, err error) {
	vm.FreeChildren(arg, proc, pipelineFailed, err)
	if ctr := arg.ctr; ctr != nil {
		colexec.FreeOrderKeys(ctr.keys)
		ctr.keys = nil
		ctr.batchList = nil
		ctr.orderCols = nil
		ctr.sels = nil
		ctr.cursors = nil
		ctr.heap = nil
		arg.ctr = nil
	}
}
