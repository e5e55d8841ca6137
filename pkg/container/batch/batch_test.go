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

package batch

import (
	"testing"

	"github.com/RoaringBitmap/roaring"
	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/colflow/pkg/common/moerr"
	"github.com/matrixorigin/colflow/pkg/container/types"
	"github.com/matrixorigin/colflow/pkg/container/vector"
)

func newTestBatch(t *testing.T) *Batch {
	a := vector.NewVec(types.T_int64.ToType())
	require.NoError(t, vector.AppendFixedList(a, []int64{1, 2, 3}, nil))
	b := vector.NewVec(types.T_varchar.ToType())
	require.NoError(t, vector.AppendStringList(b, []string{"x", "y", "z"}, []bool{false, true, false}))
	bat, err := NewWithVectors([]string{"a", "b"}, []*vector.Vector{a, b})
	require.NoError(t, err)
	return bat
}

func TestNewWithVectors(t *testing.T) {
	bat := newTestBatch(t)
	require.Equal(t, 3, bat.RowCount())
	require.Equal(t, 2, bat.VectorCount())
	require.Equal(t, []types.Type{types.T_int64.ToType(), types.T_varchar.ToType()}, bat.Types())

	short := vector.NewVec(types.T_int64.ToType())
	require.NoError(t, vector.AppendFixed(short, int64(1), false))
	_, err := NewWithVectors([]string{"a", "b"}, []*vector.Vector{bat.GetVector(0), short})
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrSizeNotMatch))
}

func TestVisibility(t *testing.T) {
	bat := newTestBatch(t)
	require.Nil(t, bat.Visibility())
	require.Equal(t, 3, bat.VisibleCount())
	for i := 0; i < 3; i++ {
		require.True(t, bat.IsVisible(i))
	}

	require.NoError(t, bat.SetVisibility(roaring.BitmapOf(0, 2)))
	require.Equal(t, 2, bat.VisibleCount())
	require.True(t, bat.IsVisible(0))
	require.False(t, bat.IsVisible(1))
	require.True(t, bat.IsVisible(2))

	// an empty mask hides every row
	require.NoError(t, bat.SetVisibility(roaring.New()))
	require.Equal(t, 0, bat.VisibleCount())
	require.False(t, bat.IsVisible(0))

	err := bat.SetVisibility(roaring.BitmapOf(1, 3))
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidInput))
	require.Equal(t, 0, bat.VisibleCount())
}

func TestEmptyBatch(t *testing.T) {
	require.Equal(t, 0, EmptyBatch.RowCount())
	require.True(t, EmptyBatch.IsEmpty())
	require.False(t, newTestBatch(t).IsEmpty())
}

func TestBatchString(t *testing.T) {
	bat := newTestBatch(t)
	require.NoError(t, bat.SetVisibility(roaring.BitmapOf(1)))
	require.Equal(t, "a(0)\n\t[1 2 3]\nb(1)\n\t[x  z]-[1]\nvisible [1]\n", bat.String())
}
