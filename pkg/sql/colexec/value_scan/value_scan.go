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
	"bytes"
	"fmt"

	"github.com/matrixorigin/colflow/pkg/vm"
	"github.com/matrixorigin/colflow/pkg/vm/process"
)

func (arg *Argument) String(buf *bytes.Buffer) {
	buf.WriteString(argName)
	buf.WriteString(fmt.Sprintf(": values(%d batches)", len(arg.Batchs)))
}

func (arg *Argument) OpType() vm.OpType {
	return vm.ValueScan
}

func (arg *Argument) Schema() vm.Schema {
	if arg.Sch.Len() > 0 || len(arg.Batchs) == 0 {
		return arg.Sch
	}
	bat := arg.Batchs[0]
	return vm.Schema{Attrs: bat.Attrs, Types: bat.Types()}
}

func (arg *Argument) Prepare(proc *process.Process) error {
	arg.ctr = new(container)
	return nil
}

func (arg *Argument) Call(proc *process.Process) (vm.CallResult, error) {
	if err, isCancel := vm.CancelCheck(proc); isCancel {
		return vm.CancelResult, err
	}

	result := vm.NewCallResult()
	if arg.ctr.idx >= len(arg.Batchs) {
		result.Status = vm.ExecStop
		return result, nil
	}
	result.Batch = arg.Batchs[arg.ctr.idx]
	arg.ctr.idx++
	return result, nil
}
