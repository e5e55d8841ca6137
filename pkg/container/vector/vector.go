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

package vector

import (
	"fmt"

	"github.com/matrixorigin/colflow/pkg/common/moerr"
	"github.com/matrixorigin/colflow/pkg/container/nulls"
	"github.com/matrixorigin/colflow/pkg/container/types"
)

// Vector represent a column
type Vector struct {
	// type represent the type of column
	typ types.Type
	nsp *nulls.Nulls // nulls list

	// col is a []T for fixed length types and a []string for varchar.
	col any

	length int
}

func NewVec(typ types.Type) *Vector {
	return NewVecWithCapacity(typ, 0)
}

func NewVecWithCapacity(typ types.Type, capacity int) *Vector {
	return &Vector{
		typ: typ,
		nsp: &nulls.Nulls{},
		col: makeCol(typ.Oid, capacity),
	}
}

func makeCol(oid types.T, capacity int) any {
	switch oid {
	case types.T_bool:
		return make([]bool, 0, capacity)
	case types.T_int8:
		return make([]int8, 0, capacity)
	case types.T_int16:
		return make([]int16, 0, capacity)
	case types.T_int32:
		return make([]int32, 0, capacity)
	case types.T_int64:
		return make([]int64, 0, capacity)
	case types.T_uint8:
		return make([]uint8, 0, capacity)
	case types.T_uint16:
		return make([]uint16, 0, capacity)
	case types.T_uint32:
		return make([]uint32, 0, capacity)
	case types.T_uint64:
		return make([]uint64, 0, capacity)
	case types.T_float32:
		return make([]float32, 0, capacity)
	case types.T_float64:
		return make([]float64, 0, capacity)
	case types.T_varchar:
		return make([]string, 0, capacity)
	}
	panic(moerr.NewInternalErrorNoCtx("unsupported vector type %s", oid))
}

func (v *Vector) Length() int {
	return v.length
}

func (v *Vector) GetType() *types.Type {
	return &v.typ
}

func (v *Vector) IsNull(i uint64) bool {
	return nulls.Contains(v.nsp, i)
}

func (v *Vector) HasNull() bool {
	return nulls.Any(v.nsp)
}

// GetValue returns the value at row i, and false if it is NULL.
func (v *Vector) GetValue(i int) (any, bool) {
	if v.IsNull(uint64(i)) {
		return nil, false
	}
	switch col := v.col.(type) {
	case []bool:
		return col[i], true
	case []int8:
		return col[i], true
	case []int16:
		return col[i], true
	case []int32:
		return col[i], true
	case []int64:
		return col[i], true
	case []uint8:
		return col[i], true
	case []uint16:
		return col[i], true
	case []uint32:
		return col[i], true
	case []uint64:
		return col[i], true
	case []float32:
		return col[i], true
	case []float64:
		return col[i], true
	case []string:
		return col[i], true
	}
	panic(moerr.NewInternalErrorNoCtx("unsupported vector type %s", v.typ))
}

func (v *Vector) GetStringAt(i int) string {
	return v.col.([]string)[i]
}

// MustFixedCol returns the backing slice of a fixed length vector. It panics
// if T does not match the vector type.
func MustFixedCol[T types.Fixed](v *Vector) []T {
	return v.col.([]T)
}

func MustStrCol(v *Vector) []string {
	return v.col.([]string)
}

func GetFixedAt[T types.Fixed](v *Vector, idx int) T {
	return v.col.([]T)[idx]
}

// AppendFixed appends one value, or a NULL if isNull is set.
func AppendFixed[T types.Fixed](v *Vector, val T, isNull bool) error {
	col, ok := v.col.([]T)
	if !ok {
		return moerr.NewInternalErrorNoCtx("append %T to vector of type %s", val, v.typ)
	}
	appendTo(v, col, val, isNull)
	return nil
}

func AppendFixedList[T types.Fixed](v *Vector, vals []T, isNulls []bool) error {
	for i, val := range vals {
		isNull := len(isNulls) > 0 && isNulls[i]
		if err := AppendFixed(v, val, isNull); err != nil {
			return err
		}
	}
	return nil
}

func AppendString(v *Vector, val string, isNull bool) error {
	col, ok := v.col.([]string)
	if !ok {
		return moerr.NewInternalErrorNoCtx("append string to vector of type %s", v.typ)
	}
	appendTo(v, col, val, isNull)
	return nil
}

func AppendStringList(v *Vector, vals []string, isNulls []bool) error {
	for i, val := range vals {
		isNull := len(isNulls) > 0 && isNulls[i]
		if err := AppendString(v, val, isNull); err != nil {
			return err
		}
	}
	return nil
}

func appendTo[T any](v *Vector, col []T, val T, isNull bool) {
	if isNull {
		var zero T
		val = zero
		nulls.Add(v.nsp, uint64(v.length))
	}
	v.col = append(col, val)
	v.length++
}

// UnionOne appends row sel of w to v. Both vectors must hold the same type,
// a mismatch is an internal error.
func (v *Vector) UnionOne(w *Vector, sel int64) error {
	isNull := w.IsNull(uint64(sel))
	switch src := w.col.(type) {
	case []bool:
		return unionOne(v, w, src, sel, isNull)
	case []int8:
		return unionOne(v, w, src, sel, isNull)
	case []int16:
		return unionOne(v, w, src, sel, isNull)
	case []int32:
		return unionOne(v, w, src, sel, isNull)
	case []int64:
		return unionOne(v, w, src, sel, isNull)
	case []uint8:
		return unionOne(v, w, src, sel, isNull)
	case []uint16:
		return unionOne(v, w, src, sel, isNull)
	case []uint32:
		return unionOne(v, w, src, sel, isNull)
	case []uint64:
		return unionOne(v, w, src, sel, isNull)
	case []float32:
		return unionOne(v, w, src, sel, isNull)
	case []float64:
		return unionOne(v, w, src, sel, isNull)
	case []string:
		return unionOne(v, w, src, sel, isNull)
	}
	return moerr.NewInternalErrorNoCtx("unsupported vector type %s", w.typ)
}

func unionOne[T any](v, w *Vector, src []T, sel int64, isNull bool) error {
	dst, ok := v.col.([]T)
	if !ok || v.typ.Oid != w.typ.Oid {
		return moerr.NewInternalErrorNoCtx("unmatched vector types %s and %s", v.typ, w.typ)
	}
	appendTo(v, dst, src[sel], isNull)
	return nil
}

// Union appends the rows sels of w to v.
func (v *Vector) Union(w *Vector, sels []int64) error {
	for _, sel := range sels {
		if err := v.UnionOne(w, sel); err != nil {
			return err
		}
	}
	return nil
}

func (v *Vector) String() string {
	if !v.HasNull() {
		return fmt.Sprintf("%v", v.col)
	}
	return fmt.Sprintf("%v-%s", v.col, nulls.String(v.nsp))
}
