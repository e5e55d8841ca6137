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

package compare

import (
	"math"
	"strings"

	"golang.org/x/exp/constraints"

	"github.com/matrixorigin/colflow/pkg/common/moerr"
	"github.com/matrixorigin/colflow/pkg/container/types"
	"github.com/matrixorigin/colflow/pkg/container/vector"
)

// New returns the comparator of typ. NULL is placed first unless nullsLast is
// set, independently of desc. Callers wanting NULL to behave as the smallest
// value pass nullsLast = desc.
func New(typ types.Type, desc, nullsLast bool) Compare {
	switch typ.Oid {
	case types.T_bool:
		return newCompare(desc, nullsLast, vector.MustFixedCol[bool], boolCompare)
	case types.T_int8:
		return newCompare(desc, nullsLast, vector.MustFixedCol[int8], orderedCompare[int8])
	case types.T_int16:
		return newCompare(desc, nullsLast, vector.MustFixedCol[int16], orderedCompare[int16])
	case types.T_int32:
		return newCompare(desc, nullsLast, vector.MustFixedCol[int32], orderedCompare[int32])
	case types.T_int64:
		return newCompare(desc, nullsLast, vector.MustFixedCol[int64], orderedCompare[int64])
	case types.T_uint8:
		return newCompare(desc, nullsLast, vector.MustFixedCol[uint8], orderedCompare[uint8])
	case types.T_uint16:
		return newCompare(desc, nullsLast, vector.MustFixedCol[uint16], orderedCompare[uint16])
	case types.T_uint32:
		return newCompare(desc, nullsLast, vector.MustFixedCol[uint32], orderedCompare[uint32])
	case types.T_uint64:
		return newCompare(desc, nullsLast, vector.MustFixedCol[uint64], orderedCompare[uint64])
	case types.T_float32:
		return newCompare(desc, nullsLast, vector.MustFixedCol[float32], floatCompare[float32])
	case types.T_float64:
		return newCompare(desc, nullsLast, vector.MustFixedCol[float64], floatCompare[float64])
	case types.T_varchar:
		return newCompare(desc, nullsLast, vector.MustStrCol, strings.Compare)
	}
	panic(moerr.NewInternalErrorNoCtx("compare of type %s is not supported", typ))
}

func newCompare[T any](desc, nullsLast bool, col func(*vector.Vector) []T, cmp func(T, T) int) *compare[T] {
	return &compare[T]{
		desc:      desc,
		nullsLast: nullsLast,
		col:       col,
		cmp:       cmp,
	}
}

func (c *compare[T]) Desc() bool {
	return c.desc
}

func (c *compare[T]) Compare(a, b *vector.Vector, i, j int64) int {
	aNull, bNull := a.IsNull(uint64(i)), b.IsNull(uint64(j))
	if aNull || bNull {
		return nullsCompare(aNull, bNull, c.nullsLast)
	}
	r := c.cmp(c.col(a)[i], c.col(b)[j])
	if c.desc {
		return -r
	}
	return r
}

// nullsCompare orders a NULL against a value or another NULL.
func nullsCompare(aNull, bNull, nullsLast bool) int {
	switch {
	case aNull && bNull:
		return 0
	case aNull == nullsLast:
		return 1
	default:
		return -1
	}
}

func orderedCompare[T constraints.Ordered](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// floatCompare places NaN before every other number.
func floatCompare[T constraints.Float](a, b T) int {
	aNaN, bNaN := math.IsNaN(float64(a)), math.IsNaN(float64(b))
	switch {
	case aNaN && bNaN:
		return 0
	case aNaN:
		return -1
	case bNaN:
		return 1
	}
	return orderedCompare(a, b)
}

func boolCompare(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	}
	return 1
}
