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

package colexec

import (
	"bytes"

	"github.com/matrixorigin/colflow/pkg/common/moerr"
	"github.com/matrixorigin/colflow/pkg/compare"
	"github.com/matrixorigin/colflow/pkg/container/batch"
	"github.com/matrixorigin/colflow/pkg/container/vector"
	"github.com/matrixorigin/colflow/pkg/pb/plan"
	"github.com/matrixorigin/colflow/pkg/vm/process"
)

// OrderKey is one bound key of an ORDER BY list.
type OrderKey struct {
	Executor  ExpressionExecutor
	Desc      bool
	NullsLast bool
}

// NewOrderKeys binds the order by list. Without an explicit NULLS FIRST or
// NULLS LAST, NULL sorts as the smallest value.
func NewOrderKeys(proc *process.Process, specs []*plan.OrderBySpec) ([]OrderKey, error) {
	if len(specs) == 0 {
		return nil, moerr.NewInvalidInput(proc.Ctx, "empty order by list")
	}
	keys := make([]OrderKey, len(specs))
	for i, f := range specs {
		executor, err := NewExpressionExecutor(proc, f.GetExpr())
		if err != nil {
			FreeOrderKeys(keys[:i])
			return nil, err
		}
		keys[i].Executor = executor
		keys[i].Desc = f.GetFlag()&plan.OrderBySpec_DESC != 0
		if f.GetFlag()&plan.OrderBySpec_NULLS_FIRST != 0 {
			keys[i].NullsLast = false
		} else if f.GetFlag()&plan.OrderBySpec_NULLS_LAST != 0 {
			keys[i].NullsLast = true
		} else {
			keys[i].NullsLast = keys[i].Desc
		}
	}
	return keys, nil
}

func FreeOrderKeys(keys []OrderKey) {
	for i := range keys {
		if keys[i].Executor != nil {
			keys[i].Executor.Free()
		}
	}
}

// NewRowComparator builds the comparator of keys.
func NewRowComparator(keys []OrderKey) *compare.RowComparator {
	cmps := make([]compare.Compare, len(keys))
	for i, key := range keys {
		cmps[i] = compare.New(key.Executor.Typ(), key.Desc, key.NullsLast)
	}
	return compare.NewRowComparator(cmps)
}

// EvalOrderKeys evaluates every key over bat.
func EvalOrderKeys(proc *process.Process, keys []OrderKey, bat *batch.Batch) ([]*vector.Vector, error) {
	vecs := make([]*vector.Vector, len(keys))
	for i, key := range keys {
		vec, err := key.Executor.Eval(proc, []*batch.Batch{bat})
		if err != nil {
			return nil, err
		}
		if vec.Length() != bat.RowCount() {
			return nil, moerr.NewInternalError(proc.Ctx, "order key %d has %d rows, batch has %d", i, vec.Length(), bat.RowCount())
		}
		vecs[i] = vec
	}
	return vecs, nil
}

func (key OrderKey) String() string {
	var buf bytes.Buffer

	if s, ok := key.Executor.(interface{ String() string }); ok {
		buf.WriteString(s.String())
	}
	if key.Desc {
		buf.WriteString(" DESC")
	}
	if key.NullsLast != key.Desc {
		if key.NullsLast {
			buf.WriteString(" NULLS LAST")
		} else {
			buf.WriteString(" NULLS FIRST")
		}
	}
	return buf.String()
}
