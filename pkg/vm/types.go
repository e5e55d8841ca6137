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
	"github.com/matrixorigin/colflow/pkg/container/types"
	"github.com/matrixorigin/colflow/pkg/vm/process"
)

type OpType int

const (
	ValueScan OpType = iota
	MergeOrder
	Merge
	Dispatch
)

var opTypeName = [...]string{
	ValueScan:  "value_scan",
	MergeOrder: "merge_order",
	Merge:      "merge",
	Dispatch:   "dispatch",
}

func (t OpType) String() string {
	if t < 0 || int(t) >= len(opTypeName) {
		return "unknown"
	}
	return opTypeName[t]
}

//go:generate mockgen -source=types.go -destination=mock_vm/types_mock.go -package=mock_vm Operator

type Operator interface {
	// Free release all the memory held by an operator and its children.
	// pipelineFailed marks the process status of the pipeline when the method is called.
	Free(proc *process.Process, pipelineFailed bool, err error)

	// String returns the string representation of an operator.
	String(buf *bytes.Buffer)

	//Prepare prepares an operator and its children for execution.
	Prepare(proc *process.Process) error

	//Call calls an operator.
	Call(proc *process.Process) (CallResult, error)

	// Schema describes the batches returned by Call.
	Schema() Schema

	OpType() OpType

	// OperatorBase methods
	AppendChild(child Operator)
	GetOperatorBase() *OperatorBase
}

// Schema is the column layout of the batches an operator produces.
type Schema struct {
	Attrs []string
	Types []types.Type
}

func (s Schema) Len() int {
	return len(s.Types)
}

type OperatorBase struct {
	Children []Operator
}

func (o *OperatorBase) NumChildren() int {
	return len(o.Children)
}

func (o *OperatorBase) AppendChild(child Operator) {
	o.Children = append(o.Children, child)
}

func (o *OperatorBase) GetChildren(idx int) Operator {
	return o.Children[idx]
}

var CancelResult = CallResult{
	Status: ExecStop,
}

// CancelCheck reports whether the query of proc was cancelled, the error is
// always a query interrupted error.
func CancelCheck(proc *process.Process) (error, bool) {
	select {
	case <-proc.Ctx.Done():
		return moerr.ConvertGoError(proc.Ctx, proc.Ctx.Err()), true
	default:
		return nil, false
	}
}

type ExecStatus int

const (
	// ExecStop the operator is exhausted, every later call stops as well.
	ExecStop ExecStatus = iota
	// ExecNext the result carries the next batch.
	ExecNext
)

type CallResult struct {
	Status ExecStatus
	Batch  *batch.Batch
}

func NewCallResult() CallResult {
	return CallResult{
		Status: ExecNext,
	}
}
