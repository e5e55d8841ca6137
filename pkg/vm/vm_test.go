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

package vm_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/colflow/pkg/common/moerr"
	"github.com/matrixorigin/colflow/pkg/container/batch"
	"github.com/matrixorigin/colflow/pkg/container/types"
	"github.com/matrixorigin/colflow/pkg/testutil"
	"github.com/matrixorigin/colflow/pkg/vm"
	"github.com/matrixorigin/colflow/pkg/vm/process"
)

// fakeOp returns bats then stops, failing or panicking on demand.
type fakeOp struct {
	name        string
	bats        []*batch.Batch
	prepareErr  error
	callErr     error
	panicOnCall bool

	prepared bool
	freed    bool
	failed   bool

	vm.OperatorBase
}

func (op *fakeOp) Free(proc *process.Process, pipelineFailed bool, err error) {
	vm.FreeChildren(op, proc, pipelineFailed, err)
	op.freed = true
	op.failed = pipelineFailed
}

func (op *fakeOp) String(buf *bytes.Buffer) {
	buf.WriteString(op.name)
}

func (op *fakeOp) Prepare(proc *process.Process) error {
	if err := vm.PrepareChildren(op, proc); err != nil {
		return err
	}
	op.prepared = true
	return op.prepareErr
}

func (op *fakeOp) Call(proc *process.Process) (vm.CallResult, error) {
	if err, isCancel := vm.CancelCheck(proc); isCancel {
		return vm.CancelResult, err
	}
	if op.panicOnCall {
		panic("boom")
	}
	if op.callErr != nil {
		return vm.CancelResult, op.callErr
	}
	result := vm.NewCallResult()
	if len(op.bats) == 0 {
		result.Status = vm.ExecStop
		return result, nil
	}
	result.Batch = op.bats[0]
	op.bats = op.bats[1:]
	return result, nil
}

func (op *fakeOp) Schema() vm.Schema {
	return vm.Schema{}
}

func (op *fakeOp) OpType() vm.OpType {
	return vm.ValueScan
}

func (op *fakeOp) GetOperatorBase() *vm.OperatorBase {
	return &op.OperatorBase
}

func TestRun(t *testing.T) {
	proc := testutil.NewProcess()
	bat := testutil.NewBatch([]types.Type{types.T_int64.ToType()}, false, 3)
	child := &fakeOp{name: "child"}
	op := &fakeOp{name: "root", bats: []*batch.Batch{bat, nil, batch.EmptyBatch, bat}}
	op.AppendChild(child)

	var got []*batch.Batch
	require.NoError(t, vm.Run(op, proc, func(b *batch.Batch) error {
		got = append(got, b)
		return nil
	}))
	require.Equal(t, []*batch.Batch{bat, bat}, got)
	require.True(t, child.prepared)
	require.True(t, child.freed)
	require.False(t, op.failed)
}

func TestRunErrors(t *testing.T) {
	proc := testutil.NewProcess()

	stop := errors.New("stop")
	op := &fakeOp{bats: []*batch.Batch{testutil.NewBatch([]types.Type{types.T_int64.ToType()}, false, 1)}}
	require.Equal(t, stop, vm.Run(op, proc, func(*batch.Batch) error { return stop }))
	require.True(t, op.freed)
	require.True(t, op.failed)

	child := &fakeOp{prepareErr: stop}
	op = &fakeOp{}
	op.AppendChild(child)
	require.Equal(t, stop, vm.Run(op, proc, nil))
	require.False(t, op.prepared)
	require.True(t, child.freed)

	op = &fakeOp{callErr: stop}
	require.Equal(t, stop, vm.Run(op, proc, nil))

	op = &fakeOp{panicOnCall: true}
	err := vm.Run(op, proc, nil)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInternal))
	require.True(t, op.failed)
}

func TestCancelCheck(t *testing.T) {
	proc := process.New(context.Background(), process.Limitation{})
	err, isCancel := vm.CancelCheck(proc)
	require.NoError(t, err)
	require.False(t, isCancel)

	proc.Cancel()
	err, isCancel = vm.CancelCheck(proc)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrQueryInterrupted))
	require.True(t, isCancel)

	op := &fakeOp{bats: []*batch.Batch{batch.EmptyBatch}}
	require.True(t, moerr.IsMoErrCode(vm.Run(op, proc, nil), moerr.ErrQueryInterrupted))
}

func TestString(t *testing.T) {
	a, b := &fakeOp{name: "a"}, &fakeOp{name: "b"}
	root := &fakeOp{name: "root"}
	root.AppendChild(a)
	root.AppendChild(b)
	buf := new(bytes.Buffer)
	vm.String(root, buf)
	require.Equal(t, "a -> , b -> root", buf.String())

	require.Equal(t, "merge_order", vm.MergeOrder.String())
	require.Equal(t, "unknown", vm.OpType(42).String())
	require.Equal(t, 2, vm.Schema{Types: []types.Type{types.T_int64.ToType(), types.T_bool.ToType()}}.Len())
}
