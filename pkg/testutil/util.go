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

package testutil

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/RoaringBitmap/roaring"

	"github.com/matrixorigin/colflow/pkg/container/batch"
	"github.com/matrixorigin/colflow/pkg/container/types"
	"github.com/matrixorigin/colflow/pkg/container/vector"
	"github.com/matrixorigin/colflow/pkg/vm/process"
)

func NewProcess() *process.Process {
	return process.New(context.Background(), process.Limitation{
		BatchRows:     1 << 20,
		ChannelBuffer: 4,
	})
}

var NewProc = NewProcess

// NewFixedVector builds a vector of oid from vs, rows listed in nullRows are NULL.
func NewFixedVector[T types.Fixed](oid types.T, vs []T, nullRows ...uint64) *vector.Vector {
	vec := vector.NewVec(oid.ToType())
	isNulls := make([]bool, len(vs))
	for _, row := range nullRows {
		isNulls[row] = true
	}
	if err := vector.AppendFixedList(vec, vs, isNulls); err != nil {
		panic(err)
	}
	return vec
}

func NewInt64Vector(vs []int64, nullRows ...uint64) *vector.Vector {
	return NewFixedVector(types.T_int64, vs, nullRows...)
}

func NewInt32Vector(vs []int32, nullRows ...uint64) *vector.Vector {
	return NewFixedVector(types.T_int32, vs, nullRows...)
}

func NewFloat64Vector(vs []float64, nullRows ...uint64) *vector.Vector {
	return NewFixedVector(types.T_float64, vs, nullRows...)
}

func NewStringVector(vs []string, nullRows ...uint64) *vector.Vector {
	vec := vector.NewVec(types.T_varchar.ToType())
	isNulls := make([]bool, len(vs))
	for _, row := range nullRows {
		isNulls[row] = true
	}
	if err := vector.AppendStringList(vec, vs, isNulls); err != nil {
		panic(err)
	}
	return vec
}

// NewBatchWithVectors builds a batch with attributes a, b, c ... over vs.
func NewBatchWithVectors(vs ...*vector.Vector) *batch.Batch {
	attrs := make([]string, len(vs))
	for i := range attrs {
		attrs[i] = string(rune('a' + i))
	}
	bat, err := batch.NewWithVectors(attrs, vs)
	if err != nil {
		panic(err)
	}
	return bat
}

// WithVisibility sets the visible rows of bat.
func WithVisibility(bat *batch.Batch, rows ...uint32) *batch.Batch {
	if err := bat.SetVisibility(roaring.BitmapOf(rows...)); err != nil {
		panic(err)
	}
	return bat
}

// NewBatch builds a batch of n rows. Values are the row numbers unless
// random is set.
func NewBatch(ts []types.Type, random bool, n int) *batch.Batch {
	vecs := make([]*vector.Vector, len(ts))
	for i, typ := range ts {
		vecs[i] = NewVector(n, typ, random)
	}
	return NewBatchWithVectors(vecs...)
}

func NewVector(n int, typ types.Type, random bool) *vector.Vector {
	vals := make([]int64, n)
	for i := range vals {
		vals[i] = int64(i)
		if random {
			vals[i] = rand.Int63n(int64(n) + 1)
		}
	}
	switch typ.Oid {
	case types.T_bool:
		return NewFixedVector(typ.Oid, convert(vals, func(v int64) bool { return v%2 == 1 }))
	case types.T_int8:
		return NewFixedVector(typ.Oid, convert(vals, func(v int64) int8 { return int8(v) }))
	case types.T_int16:
		return NewFixedVector(typ.Oid, convert(vals, func(v int64) int16 { return int16(v) }))
	case types.T_int32:
		return NewFixedVector(typ.Oid, convert(vals, func(v int64) int32 { return int32(v) }))
	case types.T_int64:
		return NewFixedVector(typ.Oid, vals)
	case types.T_uint8:
		return NewFixedVector(typ.Oid, convert(vals, func(v int64) uint8 { return uint8(v) }))
	case types.T_uint16:
		return NewFixedVector(typ.Oid, convert(vals, func(v int64) uint16 { return uint16(v) }))
	case types.T_uint32:
		return NewFixedVector(typ.Oid, convert(vals, func(v int64) uint32 { return uint32(v) }))
	case types.T_uint64:
		return NewFixedVector(typ.Oid, convert(vals, func(v int64) uint64 { return uint64(v) }))
	case types.T_float32:
		return NewFixedVector(typ.Oid, convert(vals, func(v int64) float32 { return float32(v) }))
	case types.T_float64:
		return NewFixedVector(typ.Oid, convert(vals, func(v int64) float64 { return float64(v) }))
	case types.T_varchar:
		return NewStringVector(convert(vals, func(v int64) string { return fmt.Sprintf("%08d", v) }))
	}
	panic(fmt.Sprintf("unexpected type %s", typ))
}

func convert[T any](vals []int64, fn func(int64) T) []T {
	rs := make([]T, len(vals))
	for i, v := range vals {
		rs[i] = fn(v)
	}
	return rs
}

// VisibleRows returns the visible rows of bats in order, one []any per row,
// NULL as nil.
func VisibleRows(bats ...*batch.Batch) [][]any {
	var rows [][]any
	for _, bat := range bats {
		for i := 0; i < bat.RowCount(); i++ {
			if !bat.IsVisible(i) {
				continue
			}
			row := make([]any, len(bat.Vecs))
			for j, vec := range bat.Vecs {
				if v, ok := vec.GetValue(i); ok {
					row[j] = v
				}
			}
			rows = append(rows, row)
		}
	}
	return rows
}
