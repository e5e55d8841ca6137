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
	"bytes"
	"fmt"

	"go.uber.org/zap"

	"github.com/matrixorigin/colflow/pkg/common/moerr"
	"github.com/matrixorigin/colflow/pkg/logutil"
	"github.com/matrixorigin/colflow/pkg/vm"
	"github.com/matrixorigin/colflow/pkg/vm/process"
)

func (arg *Argument) String(buf *bytes.Buffer) {
	buf.WriteString(argName)
	if arg.Sender == nil {
		buf.WriteString(": dispatch()")
		return
	}
	buf.WriteString(fmt.Sprintf(": dispatch(%s to %d receivers)", arg.Sender.label, len(arg.Sender.regs)))
}

func (arg *Argument) OpType() vm.OpType {
	return vm.Dispatch
}

func (arg *Argument) Schema() vm.Schema {
	if arg.NumChildren() == 0 {
		return vm.Schema{}
	}
	return arg.GetChildren(0).Schema()
}

func (arg *Argument) Prepare(proc *process.Process) error {
	if arg.Sender == nil {
		return moerr.NewInternalError(proc.Ctx, "dispatch without exchange")
	}
	if err := vm.PrepareChildren(arg, proc); err != nil {
		return err
	}
	arg.ctr = new(container)
	return nil
}

// Call pulls one batch from the child and sends it. The stream is closed
// once the child is exhausted. A receiver gone stops the operator without
// error since nobody needs the rest of the data.
func (arg *Argument) Call(proc *process.Process) (vm.CallResult, error) {
	if err, isCancel := vm.CancelCheck(proc); isCancel {
		return vm.CancelResult, err
	}

	result := vm.NewCallResult()
	if arg.ctr.stopped {
		result.Status = vm.ExecStop
		return result, nil
	}

	for {
		childResult, err := arg.GetChildren(0).Call(proc)
		if err != nil {
			// the stream is left open, Free closes it.
			arg.ctr.stopped = true
			return result, err
		}
		if childResult.Status == vm.ExecStop {
			arg.ctr.stopped = true
			arg.Sender.Close()
			result.Status = vm.ExecStop
			return result, nil
		}

		bat := childResult.Batch
		if bat == nil || bat.RowCount() == 0 {
			continue
		}
		if err := arg.Sender.Send(proc.Ctx, bat); err != nil {
			if IsReceiverGone(err) {
				logutil.Debug("exchange receiver gone, stop dispatch",
					zap.String("query", proc.QueryId()),
					zap.String("mode", arg.Sender.label))
				arg.ctr.stopped = true
				arg.Sender.Close()
				result.Status = vm.ExecStop
				return result, nil
			}
			arg.ctr.stopped = true
			return result, err
		}
		result.Batch = bat
		return result, nil
	}
}
