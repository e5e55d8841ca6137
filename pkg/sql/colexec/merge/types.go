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

package merge

import (
	"reflect"

	"github.com/matrixorigin/colflow/pkg/sql/colexec/dispatch"
	"github.com/matrixorigin/colflow/pkg/vm"
	"github.com/matrixorigin/colflow/pkg/vm/process"
)

const argName = "merge"

var _ vm.Operator = new(Argument)

type container struct {
	// listeners[0] waits on the process context, listeners[i] on the
	// receiver alive[i-1].
	listeners []reflect.SelectCase
	alive     []*dispatch.Receiver
}

// Argument returns the batches of several exchange receivers in arrival
// order, and stops once every receiver reached the end of its stream.
type Argument struct {
	ctr *container

	Receivers []*dispatch.Receiver
	// Sch is the schema of the batches sent by the producers.
	Sch vm.Schema

	vm.OperatorBase
}

func (arg *Argument) GetOperatorBase() *vm.OperatorBase {
	return &arg.OperatorBase
}

func (arg Argument) TypeName() string {
	return argName
}

func NewArgument(rs ...*dispatch.Receiver) *Argument {
	return &Argument{Receivers: rs}
}

func (arg *Argument) WithSchema(sch vm.Schema) *Argument {
	arg.Sch = sch
	return arg
}

func (arg *Argument) Free(proc *process.Process, pipelineFailed bool, err error) {
	vm.FreeChildren(arg, proc, pipelineFailed, err)
	for _, r := range arg.Receivers {
		r.Close()
	}
	arg.ctr = nil
}
