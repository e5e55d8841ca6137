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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/colflow/pkg/common/moerr"
	"github.com/matrixorigin/colflow/pkg/container/types"
	"github.com/matrixorigin/colflow/pkg/pb/plan"
	"github.com/matrixorigin/colflow/pkg/testutil"
)

var int64Id = int32(types.T_int64)

func TestNewOrderKeys(t *testing.T) {
	proc := testutil.NewProcess()
	keys, err := NewOrderKeys(proc, []*plan.OrderBySpec{
		plan.NewOrderBySpec(plan.NewColumnExpr(0, "a", int64Id), plan.OrderBySpec_ASC),
		plan.NewOrderBySpec(plan.NewColumnExpr(1, "b", int64Id), plan.OrderBySpec_DESC),
		plan.NewOrderBySpec(plan.NewColumnExpr(2, "c", int64Id), plan.OrderBySpec_NULLS_LAST),
		plan.NewOrderBySpec(plan.NewColumnExpr(3, "", int64Id), plan.OrderBySpec_DESC|plan.OrderBySpec_NULLS_FIRST),
	})
	require.NoError(t, err)
	defer FreeOrderKeys(keys)

	require.Len(t, keys, 4)
	require.Equal(t, []bool{false, true, false, true}, []bool{keys[0].Desc, keys[1].Desc, keys[2].Desc, keys[3].Desc})
	require.Equal(t, []bool{false, true, true, false}, []bool{keys[0].NullsLast, keys[1].NullsLast, keys[2].NullsLast, keys[3].NullsLast})
	require.Equal(t, "a", keys[0].String())
	require.Equal(t, "b DESC", keys[1].String())
	require.Equal(t, "c NULLS LAST", keys[2].String())
	require.Equal(t, "#3 DESC NULLS FIRST", keys[3].String())
}

func TestNewOrderKeysErrors(t *testing.T) {
	proc := testutil.NewProcess()

	_, err := NewOrderKeys(proc, nil)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidInput))

	_, err = NewOrderKeys(proc, []*plan.OrderBySpec{{Flag: plan.OrderBySpec_ASC}})
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrNotSupported))

	_, err = NewOrderKeys(proc, []*plan.OrderBySpec{
		plan.NewOrderBySpec(&plan.Expr{Typ: &plan.Type{Id: int64Id}}, plan.OrderBySpec_ASC),
	})
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrNotSupported))

	_, err = NewOrderKeys(proc, []*plan.OrderBySpec{
		plan.NewOrderBySpec(plan.NewColumnExpr(0, "a", 999), plan.OrderBySpec_ASC),
	})
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrNotSupported))

	_, err = NewOrderKeys(proc, []*plan.OrderBySpec{
		plan.NewOrderBySpec(plan.NewColumnExpr(-1, "a", int64Id), plan.OrderBySpec_ASC),
	})
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidInput))
}

func TestEvalOrderKeys(t *testing.T) {
	proc := testutil.NewProcess()
	bat := testutil.NewBatchWithVectors(
		testutil.NewInt64Vector([]int64{3, 1, 2}),
		testutil.NewStringVector([]string{"x", "y", "z"}),
	)

	keys, err := NewOrderKeys(proc, []*plan.OrderBySpec{
		plan.NewOrderBySpec(plan.NewColumnExpr(1, "b", int32(types.T_varchar)), plan.OrderBySpec_DESC),
		plan.NewOrderBySpec(plan.NewColumnExpr(0, "a", int64Id), plan.OrderBySpec_ASC),
	})
	require.NoError(t, err)
	vecs, err := EvalOrderKeys(proc, keys, bat)
	require.NoError(t, err)
	require.Same(t, bat.Vecs[1], vecs[0])
	require.Same(t, bat.Vecs[0], vecs[1])

	cmp := NewRowComparator(keys)
	// "z" > "y" under DESC comes first
	require.Less(t, cmp.Compare(vecs, vecs, 2, 1), 0)

	// declared type does not match the column
	keys, err = NewOrderKeys(proc, []*plan.OrderBySpec{
		plan.NewOrderBySpec(plan.NewColumnExpr(1, "b", int64Id), plan.OrderBySpec_ASC),
	})
	require.NoError(t, err)
	_, err = EvalOrderKeys(proc, keys, bat)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInternal))

	// column out of range
	keys, err = NewOrderKeys(proc, []*plan.OrderBySpec{
		plan.NewOrderBySpec(plan.NewColumnExpr(5, "f", int64Id), plan.OrderBySpec_ASC),
	})
	require.NoError(t, err)
	_, err = EvalOrderKeys(proc, keys, bat)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInternal))
}
