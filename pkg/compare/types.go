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
	"github.com/matrixorigin/colflow/pkg/container/vector"
)

// Compare compares row i of vector a with row j of vector b and returns a
// negative number, zero or a positive number. Both vectors hold the type the
// comparator was built for.
type Compare interface {
	Compare(a, b *vector.Vector, i, j int64) int
	// Desc reports whether the order is descending.
	Desc() bool
}

type compare[T any] struct {
	desc      bool
	nullsLast bool
	col       func(*vector.Vector) []T
	cmp       func(T, T) int
}
