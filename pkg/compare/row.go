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

// RowComparator orders rows by a sequence of keys. Each side of a comparison
// is given as the evaluated key columns of its batch, one vector per key.
type RowComparator struct {
	cmps []Compare
}

func NewRowComparator(cmps []Compare) *RowComparator {
	return &RowComparator{cmps: cmps}
}

func (rc *RowComparator) KeyCount() int {
	return len(rc.cmps)
}

// Compare compares row i of the key columns a with row j of the key columns b.
// Keys are compared in order, the first non zero result decides.
func (rc *RowComparator) Compare(a, b []*vector.Vector, i, j int64) int {
	for k, cmp := range rc.cmps {
		if r := cmp.Compare(a[k], b[k], i, j); r != 0 {
			return r
		}
	}
	return 0
}
