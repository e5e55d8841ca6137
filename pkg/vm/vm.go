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

package vm

import (
	"bytes"

	"github.com/matrixorigin/colflow/pkg/common/moerr"
	"github.com/matrixorigin/colflow/pkg/container/batch"
	"github.com/matrixorigin/colflow/pkg/vm/process"
)

// String renders the operator tree rooted at op, children first.
func String(op Operator, buf *bytes.Buffer) {
	for i, child := range op.GetOperatorBase().Children {
		if i > 0 {
			buf.WriteString(", ")
		}
		String(child, buf)
		buf.WriteString(" -> ")
	}
	op.String(buf)
}

// PrepareChildren is called by an operator's Prepare to forward it down the tree.
func PrepareChildren(op Operator, proc *process.Process) error {
	for _, child := range op.GetOperatorBase().Children {
		if err := child.Prepare(proc); err != nil {
			return err
		}
	}
	return nil
}

// FreeChildren is called by an operator's Free to forward it down the tree.
func FreeChildren(op Operator, proc *process.Process, pipelineFailed bool, err error) {
	for _, child := range op.GetOperatorBase().Children {
		child.Free(proc, pipelineFailed, err)
	}
}

// Run prepares the tree rooted at op and pulls it until it stops, passing every
// non empty batch to fn. A panic of an operator is turned into an error.
func Run(op Operator, proc *process.Process, fn func(*batch.Batch) error) (err error) {
	defer func() {
		if e := recover(); e != nil {
			err = moerr.ConvertPanicError(proc.Ctx, e)
		}
		op.Free(proc, err != nil, err)
	}()

	if err = op.Prepare(proc); err != nil {
		return err
	}
	for {
		result, err := op.Call(proc)
		if err != nil {
			return err
		}
		if result.Status == ExecStop {
			return nil
		}
		if result.Batch == nil || result.Batch.RowCount() == 0 {
			continue
		}
		if fn != nil {
			if err = fn(result.Batch); err != nil {
				return err
			}
		}
	}
}
