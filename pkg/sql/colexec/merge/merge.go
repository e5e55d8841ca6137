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
	"bytes"
	"fmt"
	"reflect"

	"github.com/matrixorigin/colflow/pkg/common/moerr"
	"github.com/matrixorigin/colflow/pkg/container/batch"
	"github.com/matrixorigin/colflow/pkg/logutil"
	"github.com/matrixorigin/colflow/pkg/vm"
	"github.com/matrixorigin/colflow/pkg/vm/process"
)

func (arg *Argument) String(buf *bytes.Buffer) {
	buf.WriteString(argName)
	buf.WriteString(fmt.Sprintf(": union all of %d receivers", len(arg.Receivers)))
}

func (arg *Argument) OpType() vm.OpType {
	return vm.Merge
}

func (arg *Argument) Schema() vm.Schema {
	return arg.Sch
}

func (arg *Argument) Prepare(proc *process.Process) error {
	if err := vm.PrepareChildren(arg, proc); err != nil {
		return err
	}
	arg.ctr = new(container)
	ctr := arg.ctr
	ctr.alive = append(ctr.alive, arg.Receivers...)
	ctr.listeners = make([]reflect.SelectCase, len(ctr.alive)+1)
	ctr.listeners[0] = reflect.SelectCase{Dir: reflect.SelectRecv, Chan: reflect.ValueOf(proc.Ctx.Done())}
	for i, r := range ctr.alive {
		ctr.listeners[i+1] = reflect.SelectCase{
			Dir:  reflect.SelectRecv,
			Chan: reflect.ValueOf(r.Chan()),
		}
	}
	return nil
}

func (arg *Argument) Call(proc *process.Process) (vm.CallResult, error) {
	if err, isCancel := vm.CancelCheck(proc); isCancel {
		return vm.CancelResult, err
	}

	ctr := arg.ctr
	result := vm.NewCallResult()
	for {
		if len(ctr.alive) == 0 {
			result.Status = vm.ExecStop
			return result, nil
		}

		chosen, value, ok := reflect.Select(ctr.listeners)
		// chosen == 0 means the process context is done
		if chosen == 0 {
			logutil.Debugf("process context done during merge receive")
			return vm.CancelResult, moerr.ConvertGoError(proc.Ctx, proc.Ctx.Err())
		}
		if !ok {
			ctr.removeChosen(chosen)
			continue
		}

		bat := value.Interface().(*batch.Batch)
		if bat == nil || bat.RowCount() == 0 {
			continue
		}
		result.Batch = bat
		return result, nil
	}
}

func (ctr *container) removeChosen(idx int) {
	ctr.listeners = append(ctr.listeners[:idx], ctr.listeners[idx+1:]...)
	ctr.alive = append(ctr.alive[:idx-1], ctr.alive[idx:]...)
}
