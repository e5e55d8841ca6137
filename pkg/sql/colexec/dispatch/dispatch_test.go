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
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/lni/goutils/leaktest"
	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/colflow/pkg/common/moerr"
	"github.com/matrixorigin/colflow/pkg/container/batch"
	"github.com/matrixorigin/colflow/pkg/container/types"
	"github.com/matrixorigin/colflow/pkg/pb/plan"
	"github.com/matrixorigin/colflow/pkg/sql/colexec/value_scan"
	"github.com/matrixorigin/colflow/pkg/testutil"
	"github.com/matrixorigin/colflow/pkg/vm"
	"github.com/matrixorigin/colflow/pkg/vm/mock_vm"
	"github.com/matrixorigin/colflow/pkg/vm/process"
)

func newExchange(t *testing.T, proc *process.Process, mode plan.ExchangeInfo_DistributionMode, n uint32, hashCols ...int32) (*Sender, []*Receiver) {
	s, rs, err := NewExchange(proc, &plan.ExchangeInfo{Mode: mode, Count: n, HashColumns: hashCols})
	require.NoError(t, err)
	return s, rs
}

// drain receives until the end of the stream.
func drain(t *testing.T, r *Receiver) []*batch.Batch {
	var bats []*batch.Batch
	for {
		bat, err := r.Recv(context.Background())
		require.NoError(t, err)
		if bat == nil {
			return bats
		}
		bats = append(bats, bat)
	}
}

// drainAll drains every receiver on its own goroutine.
func drainAll(t *testing.T, rs []*Receiver) ([][]*batch.Batch, func()) {
	got := make([][]*batch.Batch, len(rs))
	var wg sync.WaitGroup
	for i, r := range rs {
		wg.Add(1)
		go func(i int, r *Receiver) {
			defer wg.Done()
			got[i] = drain(t, r)
		}(i, r)
	}
	return got, wg.Wait
}

func TestNewExchange(t *testing.T) {
	proc := testutil.NewProcess()

	s, rs := newExchange(t, proc, plan.ExchangeInfo_SINGLE, 5)
	require.Equal(t, 1, s.ReceiverCount())
	require.Len(t, rs, 1)
	require.Equal(t, plan.ExchangeInfo_SINGLE, s.Mode())

	s, rs = newExchange(t, proc, plan.ExchangeInfo_BROADCAST, 3)
	require.Equal(t, 3, s.ReceiverCount())
	for i, r := range rs {
		require.Equal(t, i, r.Index())
	}

	bad := []*plan.ExchangeInfo{
		nil,
		{Mode: plan.ExchangeInfo_BROADCAST},
		{Mode: plan.ExchangeInfo_ROUND_ROBIN},
		{Mode: plan.ExchangeInfo_HASH, Count: 2},
		{Mode: plan.ExchangeInfo_HASH, Count: 2, HashColumns: []int32{-1}},
		{Mode: plan.ExchangeInfo_HASH, HashColumns: []int32{0}},
		{Mode: plan.ExchangeInfo_DistributionMode(42), Count: 2},
	}
	for _, info := range bad {
		_, _, err := NewExchange(proc, info)
		require.Error(t, err)
		require.True(t, moerr.IsMoErrCode(err, moerr.ErrBadConfig), "%v", info)
	}
}

func TestBroadcast(t *testing.T) {
	defer leaktest.AfterTest(t)()
	proc := testutil.NewProcess()
	s, rs := newExchange(t, proc, plan.ExchangeInfo_BROADCAST, 3)

	got, wait := drainAll(t, rs)
	bat := testutil.NewBatch([]types.Type{types.T_int64.ToType()}, false, 10)
	require.NoError(t, s.Send(proc.Ctx, bat))
	s.Close()
	wait()

	for _, bats := range got {
		require.Len(t, bats, 1)
		require.Same(t, bat, bats[0])
		require.Equal(t, 10, bats[0].RowCount())
	}
}

// recvTimeout receives with a short deadline, a receiver with nothing to read
// gets an interrupted error and not the end of the stream.
func recvTimeout(r *Receiver) (*batch.Batch, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	return r.Recv(ctx)
}

func TestBroadcastEndOnlyAfterClose(t *testing.T) {
	defer leaktest.AfterTest(t)()
	proc := testutil.NewProcess()
	s, rs := newExchange(t, proc, plan.ExchangeInfo_BROADCAST, 2)

	bat := testutil.NewBatch([]types.Type{types.T_int64.ToType()}, false, 2)
	require.NoError(t, s.Send(proc.Ctx, bat))
	for _, r := range rs {
		got, err := r.Recv(context.Background())
		require.NoError(t, err)
		require.Same(t, bat, got)

		got, err = recvTimeout(r)
		require.Nil(t, got)
		require.True(t, moerr.IsMoErrCode(err, moerr.ErrQueryInterrupted))
	}

	s.Close()
	for _, r := range rs {
		got, err := r.Recv(context.Background())
		require.NoError(t, err)
		require.Nil(t, got)
	}
}

func TestFIFO(t *testing.T) {
	defer leaktest.AfterTest(t)()
	proc := testutil.NewProcess()
	s, rs := newExchange(t, proc, plan.ExchangeInfo_SINGLE, 0)

	sent := make([]*batch.Batch, 20)
	for i := range sent {
		sent[i] = testutil.NewBatch([]types.Type{types.T_int32.ToType()}, true, i+1)
	}
	errCh := make(chan error, 1)
	go func() {
		defer s.Close()
		for _, bat := range sent {
			if err := s.Send(proc.Ctx, bat); err != nil {
				errCh <- err
				return
			}
		}
		errCh <- nil
	}()

	got := drain(t, rs[0])
	require.NoError(t, <-errCh)
	require.Equal(t, len(sent), len(got))
	for i := range sent {
		require.Same(t, sent[i], got[i])
	}
}

func TestHashPartition(t *testing.T) {
	defer leaktest.AfterTest(t)()
	proc := testutil.NewProcess()
	s, rs := newExchange(t, proc, plan.ExchangeInfo_HASH, 3, 0)

	keys := make([]int64, 60)
	for i := range keys {
		keys[i] = int64(i % 7)
	}
	names := make([]string, 60)
	for i := range names {
		names[i] = string(rune('a' + i%26))
	}
	bat := testutil.NewBatchWithVectors(
		testutil.NewInt64Vector(keys, 3, 10),
		testutil.NewStringVector(names),
	)
	var visible []uint32
	for i := uint32(0); i < 60; i++ {
		if i%5 != 4 {
			visible = append(visible, i)
		}
	}
	bat = testutil.WithVisibility(bat, visible...)

	got, wait := drainAll(t, rs)
	require.NoError(t, s.Send(proc.Ctx, bat))
	s.Close()
	wait()

	owner := make(map[any]int)
	var rows [][]any
	for i, bats := range got {
		for _, part := range bats {
			require.Equal(t, []string{"a", "b"}, part.Attrs)
			require.Equal(t, part.RowCount(), part.VisibleCount())
		}
		for _, row := range testutil.VisibleRows(bats...) {
			if j, ok := owner[row[0]]; ok {
				require.Equal(t, j, i, "key %v routed to two receivers", row[0])
			}
			owner[row[0]] = i
			rows = append(rows, row)
		}
	}

	want := testutil.VisibleRows(bat)
	require.Len(t, rows, len(visible))
	sortRows(want)
	sortRows(rows)
	require.Equal(t, want, rows)
}

func sortRows(rows [][]any) {
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		ka, kb := int64(-1), int64(-1)
		if a[0] != nil {
			ka = a[0].(int64)
		}
		if b[0] != nil {
			kb = b[0].(int64)
		}
		if ka != kb {
			return ka < kb
		}
		return a[1].(string) < b[1].(string)
	})
}

func TestHashColumnOutOfRange(t *testing.T) {
	proc := testutil.NewProcess()
	s, rs := newExchange(t, proc, plan.ExchangeInfo_HASH, 2, 3)
	defer func() {
		s.Close()
		for _, r := range rs {
			r.Close()
		}
	}()
	bat := testutil.NewBatch([]types.Type{types.T_int64.ToType()}, false, 4)
	err := s.Send(proc.Ctx, bat)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidInput))
}

func TestRoundRobin(t *testing.T) {
	defer leaktest.AfterTest(t)()
	proc := testutil.NewProcess()
	s, rs := newExchange(t, proc, plan.ExchangeInfo_ROUND_ROBIN, 3)

	got, wait := drainAll(t, rs)
	sent := make([]*batch.Batch, 7)
	for i := range sent {
		sent[i] = testutil.NewBatch([]types.Type{types.T_int64.ToType()}, false, 2)
		require.NoError(t, s.Send(proc.Ctx, sent[i]))
	}
	s.Close()
	wait()

	require.Equal(t, []*batch.Batch{sent[0], sent[3], sent[6]}, got[0])
	require.Equal(t, []*batch.Batch{sent[1], sent[4]}, got[1])
	require.Equal(t, []*batch.Batch{sent[2], sent[5]}, got[2])
}

func TestReceiverGone(t *testing.T) {
	defer leaktest.AfterTest(t)()
	proc := testutil.NewProcess()
	s, rs := newExchange(t, proc, plan.ExchangeInfo_BROADCAST, 2)
	bat := testutil.NewBatch([]types.Type{types.T_int64.ToType()}, false, 3)

	require.NoError(t, s.Send(proc.Ctx, bat))
	rs[1].Close()
	rs[1].Close()
	err := s.Send(proc.Ctx, bat)
	require.Error(t, err)
	require.True(t, IsReceiverGone(err))

	_, err = rs[1].Recv(context.Background())
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidState))

	s.Close()
	got := drain(t, rs[0])
	require.NotEmpty(t, got)
	require.Same(t, bat, got[0])
}

func TestBlockedSendReleasedByClose(t *testing.T) {
	defer leaktest.AfterTest(t)()
	proc := process.New(context.Background(), process.Limitation{})
	s, rs := newExchange(t, proc, plan.ExchangeInfo_SINGLE, 1)
	bat := testutil.NewBatch([]types.Type{types.T_int64.ToType()}, false, 3)

	errCh := make(chan error, 1)
	go func() {
		for {
			if err := s.Send(proc.Ctx, bat); err != nil {
				errCh <- err
				return
			}
		}
	}()
	time.Sleep(10 * time.Millisecond)
	rs[0].Close()
	err := <-errCh
	require.True(t, IsReceiverGone(err))
	s.Close()
}

func TestRecvCancel(t *testing.T) {
	defer leaktest.AfterTest(t)()
	proc := testutil.NewProcess()
	s, rs := newExchange(t, proc, plan.ExchangeInfo_SINGLE, 1)
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := rs[0].Recv(ctx)
		errCh <- err
	}()
	cancel()
	err := <-errCh
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrQueryInterrupted))
}

func TestSendAfterClose(t *testing.T) {
	proc := testutil.NewProcess()
	s, rs := newExchange(t, proc, plan.ExchangeInfo_SINGLE, 1)
	s.Close()
	s.Close()

	bat, err := rs[0].Recv(context.Background())
	require.NoError(t, err)
	require.Nil(t, bat)

	err = s.Send(proc.Ctx, testutil.NewBatch([]types.Type{types.T_int64.ToType()}, false, 1))
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidState))
}

func TestDispatch(t *testing.T) {
	defer leaktest.AfterTest(t)()
	proc := testutil.NewProcess()
	s, rs := newExchange(t, proc, plan.ExchangeInfo_BROADCAST, 2)

	bats := []*batch.Batch{
		testutil.NewBatch([]types.Type{types.T_int64.ToType()}, false, 3),
		batch.EmptyBatch,
		testutil.NewBatch([]types.Type{types.T_int64.ToType()}, false, 5),
	}
	arg := NewArgument().WithSender(s)
	arg.AppendChild(value_scan.NewArgument(bats...))

	buf := new(bytes.Buffer)
	arg.String(buf)
	require.Equal(t, "dispatch: dispatch(broadcast to 2 receivers)", buf.String())
	require.Equal(t, vm.Dispatch, arg.OpType())
	require.Equal(t, []string{"a"}, arg.Schema().Attrs)

	got, wait := drainAll(t, rs)
	require.NoError(t, vm.Run(arg, proc, nil))
	wait()

	for _, received := range got {
		require.Equal(t, []*batch.Batch{bats[0], bats[2]}, received)
	}
}

func TestDispatchReceiverGone(t *testing.T) {
	defer leaktest.AfterTest(t)()
	proc := testutil.NewProcess()
	s, rs := newExchange(t, proc, plan.ExchangeInfo_SINGLE, 1)
	rs[0].Close()

	arg := NewArgument().WithSender(s)
	arg.AppendChild(value_scan.NewArgument(
		testutil.NewBatch([]types.Type{types.T_int64.ToType()}, false, 3),
		testutil.NewBatch([]types.Type{types.T_int64.ToType()}, false, 3),
	))
	require.NoError(t, arg.Prepare(proc))
	result, err := arg.Call(proc)
	require.NoError(t, err)
	require.Equal(t, vm.ExecStop, result.Status)

	result, err = arg.Call(proc)
	require.NoError(t, err)
	require.Equal(t, vm.ExecStop, result.Status)
	arg.Free(proc, false, nil)
}

func TestDispatchChildError(t *testing.T) {
	defer leaktest.AfterTest(t)()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	proc := testutil.NewProcess()
	s, rs := newExchange(t, proc, plan.ExchangeInfo_SINGLE, 1)
	bat := testutil.NewBatch([]types.Type{types.T_int64.ToType()}, false, 3)
	childErr := moerr.NewInvalidInput(proc.Ctx, "bad row")

	child := mock_vm.NewMockOperator(ctrl)
	gomock.InOrder(
		child.EXPECT().Prepare(proc).Return(nil),
		child.EXPECT().Call(proc).Return(vm.CallResult{Status: vm.ExecNext, Batch: bat}, nil),
		child.EXPECT().Call(proc).Return(vm.CancelResult, childErr),
		child.EXPECT().Free(proc, true, childErr),
	)

	arg := NewArgument().WithSender(s)
	arg.AppendChild(child)
	require.NoError(t, arg.Prepare(proc))

	result, err := arg.Call(proc)
	require.NoError(t, err)
	require.Same(t, bat, result.Batch)

	_, err = arg.Call(proc)
	require.Same(t, childErr, err)
	// the child is not pulled again
	result, err = arg.Call(proc)
	require.NoError(t, err)
	require.Equal(t, vm.ExecStop, result.Status)

	got, err := rs[0].Recv(context.Background())
	require.NoError(t, err)
	require.Same(t, bat, got)

	// the failure does not end the stream cleanly
	got, err = recvTimeout(rs[0])
	require.Nil(t, got)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrQueryInterrupted))

	arg.Free(proc, true, childErr)
	got, err = rs[0].Recv(context.Background())
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestDispatchWithoutSender(t *testing.T) {
	proc := testutil.NewProcess()
	arg := NewArgument()
	arg.AppendChild(value_scan.NewArgument())
	err := arg.Prepare(proc)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInternal))
}
