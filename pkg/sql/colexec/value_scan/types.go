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

package value_scan

import (
	"github.com/matrixorigin/colflow/pkg/container/batch"
	"github.com/matrixorigin/colflow/pkg/vm"
	"github.com/matrixorigin/colflow/pkg/vm/process"
)

const argName = "value_scan"

var _ vm.Operator = new(Argument)

type container struct {
	idx int
}

// Argument returns a fixed list of in-memory batches.
type Argument struct {
	ctr *container

	Batchs []*batch.Batch
	// Sch is the declared schema, the schema of the first batch if empty.
	Sch vm.Schema

	vm.OperatorBase
}

func (arg *Argument) GetOperatorBase() *vm.OperatorBase {
	return &arg.OperatorBase
}

func (arg Argument) TypeName() string {
	return argName
}

func NewArgument(bats ...*batch.Batch) *Argument {
	return &Argument{Batchs: bats}
}

func (arg *Argument) WithSchema(sch vm.Schema) *Argument {
	arg.Sch = sch
	return arg
}

func (arg *Argument) Free(proc *process.Process, pipelineFailed bool, err error) {
	vm.FreeChildren(arg, proc, pipelineFailed, err)
	arg.ctr = nil
}
