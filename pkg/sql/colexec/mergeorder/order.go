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
	"bytes"
	"container/heap"
	"time"

	"go.uber.org/zap"
	"golang.org/x/exp/slices"

	"github.com/matrixorigin/colflow/pkg/common/moerr"
	"github.com/matrixorigin/colflow/pkg/container/batch"
	"github.com/matrixorigin/colflow/pkg/container/vector"
	"github.com/matrixorigin/colflow/pkg/logutil"
	"github.com/matrixorigin/colflow/pkg/sql/colexec"
	v2 "github.com/matrixorigin/colflow/pkg/util/metric/v2"
	"github.com/matrixorigin/colflow/pkg/vm"
	"github.com/matrixorigin/colflow/pkg/vm/process"
)

func (arg *Argument) String(buf *bytes.Buffer) {
	buf.WriteString(argName)
	buf.WriteString(": mergeorder([")
	for i, f := range arg.OrderBySpecs {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(f.Describe())
	}
	buf.WriteString("])")
}

func (arg *Argument) OpType() vm.OpType {
	return vm.MergeOrder
}

// Schema is the schema of the child, sorting keeps the columns as they are.
func (arg *Argument) Schema() vm.Schema {
	if arg.NumChildren() == 0 {
		return vm.Schema{}
	}
	return arg.GetChildren(0).Schema()
}

func (arg *Argument) Prepare(proc *process.Process) error {
	if err := vm.PrepareChildren(arg, proc); err != nil {
		return err
	}
	if arg.ctr != nil {
		colexec.FreeOrderKeys(arg.ctr.keys)
	}
	arg.ctr = new(container)
	ctr := arg.ctr
	keys, err := colexec.NewOrderKeys(proc, arg.OrderBySpecs)
	if err != nil {
		return err
	}
	ctr.keys = keys
	ctr.cmp = colexec.NewRowComparator(keys)
	ctr.window = arg.windowSize(proc)
	ctr.state = receiving
	return nil
}

func (arg *Argument) windowSize(proc *process.Process) int {
	if arg.WindowSize > 0 {
		return arg.WindowSize
	}
	if proc.Lim.BatchRows > 0 {
		return int(proc.Lim.BatchRows)
	}
	return defaultWindowSize
}

func (arg *Argument) Call(proc *process.Process) (vm.CallResult, error) {
	if err, isCancel := vm.CancelCheck(proc); isCancel {
		return vm.CancelResult, err
	}

	ctr := arg.ctr
	result := vm.NewCallResult()
	for {
		switch ctr.state {
		case receiving:
			if err := ctr.build(arg, proc); err != nil {
				ctr.state = end
				return result, err
			}
			ctr.initHeap()
			ctr.state = merging

		case merging:
			bat, err := ctr.pickAndSend(proc)
			if err != nil {
				ctr.state = end
				return result, err
			}
			if bat == nil {
				ctr.state = end
				continue
			}
			result.Batch = bat
			return result, nil

		default:
			result.Status = vm.ExecStop
			return result, nil
		}
	}
}

// build drains the child and sorts every batch it returns.
func (ctr *container) build(arg *Argument, proc *process.Process) error {
	start := time.Now()
	rows := 0
	for {
		result, err := arg.GetChildren(0).Call(proc)
		if err != nil {
			return err
		}
		if result.Status == vm.ExecStop {
			break
		}
		bat := result.Batch
		if bat == nil || bat.RowCount() == 0 || bat.VisibleCount() == 0 {
			continue
		}
		if err := ctr.appendBatch(proc, bat); err != nil {
			return err
		}
		rows += bat.VisibleCount()
	}
	ctr.remaining = rows
	v2.SortMergeMaterializeDurationHistogram.Observe(time.Since(start).Seconds())
	logutil.Debug("merge order input materialized",
		zap.Int("batches", len(ctr.batchList)),
		zap.Int("rows", rows),
		zap.Duration("cost", time.Since(start)))
	return nil
}

func (ctr *container) appendBatch(proc *process.Process, bat *batch.Batch) error {
	if ctr.typs == nil {
		ctr.attrs = bat.Attrs
		ctr.typs = bat.Types()
	} else if len(bat.Vecs) != len(ctr.typs) {
		return moerr.NewInternalError(proc.Ctx, "merge order input has %d columns, expected %d", len(bat.Vecs), len(ctr.typs))
	}

	cols, err := colexec.EvalOrderKeys(proc, ctr.keys, bat)
	if err != nil {
		return err
	}

	sels := make([]int64, bat.RowCount())
	for i := range sels {
		sels[i] = int64(i)
	}
	slices.SortStableFunc(sels, func(a, b int64) bool {
		return ctr.cmp.Compare(cols, cols, a, b) < 0
	})

	ctr.batchList = append(ctr.batchList, bat)
	ctr.orderCols = append(ctr.orderCols, cols)
	ctr.sels = append(ctr.sels, sels)
	ctr.cursors = append(ctr.cursors, 0)
	v2.SortMergeInputBatchesCounter.Inc()
	return nil
}

func (ctr *container) compare(a, b candidate) int {
	return ctr.cmp.Compare(ctr.orderCols[a.batIdx], ctr.orderCols[b.batIdx], a.row, b.row)
}

func (ctr *container) initHeap() {
	ctr.heap = newMergeHeap(len(ctr.batchList), ctr.compare)
	for i := range ctr.batchList {
		ctr.pushNext(i)
	}
}

// pushNext pushes the next visible row of batch i in sorted order, if any.
func (ctr *container) pushNext(i int) {
	bat, sels := ctr.batchList[i], ctr.sels[i]
	for ctr.cursors[i] < len(sels) {
		row := sels[ctr.cursors[i]]
		ctr.cursors[i]++
		if bat.IsVisible(int(row)) {
			heap.Push(ctr.heap, candidate{batIdx: i, row: row})
			return
		}
	}
}

// pickAndSend merges up to window rows into a new batch. It returns nil once
// every row has been merged.
func (ctr *container) pickAndSend(proc *process.Process) (*batch.Batch, error) {
	if ctr.heap.Len() == 0 {
		return nil, nil
	}

	n := ctr.window
	if n > ctr.remaining {
		n = ctr.remaining
	}
	vecs := make([]*vector.Vector, len(ctr.typs))
	for i, typ := range ctr.typs {
		vecs[i] = vector.NewVecWithCapacity(typ, n)
	}

	rows := 0
	for rows < ctr.window && ctr.heap.Len() > 0 {
		c := heap.Pop(ctr.heap).(candidate)
		src := ctr.batchList[c.batIdx]
		for i, vec := range vecs {
			if err := vec.UnionOne(src.Vecs[i], c.row); err != nil {
				return nil, err
			}
		}
		rows++
		ctr.pushNext(c.batIdx)
	}
	ctr.remaining -= rows

	bat, err := batch.NewWithVectors(ctr.attrs, vecs)
	if err != nil {
		return nil, err
	}
	v2.SortMergeOutputBatchesCounter.Inc()
	v2.SortMergeRowsCounter.Add(float64(rows))
	return bat, nil
}
