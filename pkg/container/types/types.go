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
	"fmt"
)

type T uint8

const (
	// any family
	T_any T = 0

	// bool family
	T_bool T = 10

	// numeric/integer family
	T_int8   T = 20
	T_int16  T = 21
	T_int32  T = 22
	T_int64  T = 23
	T_uint8  T = 25
	T_uint16 T = 26
	T_uint32 T = 27
	T_uint64 T = 28

	// numeric/float family
	T_float32 T = 30
	T_float64 T = 31

	// string family
	T_varchar T = 61
)

type Type struct {
	Oid T

	// Nullable is only a hint carried from the plan; vectors always track
	// nulls.
	Nullable bool
}

// Fixed is the set of go types stored in fixed length vectors.
type Fixed interface {
	bool | int8 | int16 | int32 | int64 | uint8 | uint16 | uint32 | uint64 | float32 | float64
}

func New(oid T) Type {
	return Type{Oid: oid, Nullable: true}
}

func (t T) ToType() Type {
	return New(t)
}

func (t Type) String() string {
	return t.Oid.String()
}

func (t Type) Eq(b Type) bool {
	return t.Oid == b.Oid
}

func (t Type) IsString() bool {
	return t.Oid == T_varchar
}

func (t Type) IsFixedLen() bool {
	return t.Oid != T_varchar && t.Oid != T_any
}

// TypeSize returns the width in bytes of one element of a fixed length type,
// and 0 for variable length ones.
func (t Type) TypeSize() int {
	return t.Oid.TypeLen()
}

// Valid reports whether oid names one of the supported column types.
func (t T) Valid() bool {
	switch t {
	case T_bool, T_int8, T_int16, T_int32, T_int64,
		T_uint8, T_uint16, T_uint32, T_uint64,
		T_float32, T_float64, T_varchar:
		return true
	}
	return false
}

func (t T) TypeLen() int {
	switch t {
	case T_bool, T_int8, T_uint8:
		return 1
	case T_int16, T_uint16:
		return 2
	case T_int32, T_uint32, T_float32:
		return 4
	case T_int64, T_uint64, T_float64:
		return 8
	}
	return 0
}

func (t T) String() string {
	switch t {
	case T_any:
		return "ANY"
	case T_bool:
		return "BOOL"
	case T_int8:
		return "TINYINT"
	case T_int16:
		return "SMALLINT"
	case T_int32:
		return "INT"
	case T_int64:
		return "BIGINT"
	case T_uint8:
		return "TINYINT UNSIGNED"
	case T_uint16:
		return "SMALLINT UNSIGNED"
	case T_uint32:
		return "INT UNSIGNED"
	case T_uint64:
		return "BIGINT UNSIGNED"
	case T_float32:
		return "FLOAT"
	case T_float64:
		return "DOUBLE"
	case T_varchar:
		return "VARCHAR"
	}
	return fmt.Sprintf("unexpected type: %d", t)
}
