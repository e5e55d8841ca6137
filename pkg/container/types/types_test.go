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

package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTypeLen(t *testing.T) {
	require.Equal(t, 1, T_bool.TypeLen())
	require.Equal(t, 2, T_int16.TypeLen())
	require.Equal(t, 4, T_float32.TypeLen())
	require.Equal(t, 8, T_uint64.TypeLen())
	require.Equal(t, 0, T_varchar.TypeLen())
}

func TestValid(t *testing.T) {
	require.True(t, T_int32.Valid())
	require.True(t, T_varchar.Valid())
	require.False(t, T_any.Valid())
	require.False(t, T(99).Valid())
}

func TestTypeString(t *testing.T) {
	require.Equal(t, "INT", T_int32.ToType().String())
	require.Equal(t, "VARCHAR", T_varchar.String())
	require.Equal(t, "unexpected type: 99", T(99).String())
	require.True(t, T_varchar.ToType().IsString())
	require.False(t, T_varchar.ToType().IsFixedLen())
	require.True(t, T_int8.ToType().Eq(Type{Oid: T_int8}))
}
