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
	"github.com/RoaringBitmap/roaring"

	"github.com/matrixorigin/colflow/pkg/container/vector"
)

// Batch represents a part of a relationship
// including a list of attributes, columns and an optional visibility mask
//
//	(Attrs) - list of attributes
//	(Vecs)  - columns
//	(vis)   - rows that participate, nil means every row does
//
// A batch is never modified once it has been handed to another operator or
// sent through an exchange, so it can be shared by reference.
type Batch struct {
	// Attrs column name list
	Attrs []string
	// Vecs col data
	Vecs []*vector.Vector

	rowCount int
	vis      *roaring.Bitmap
}

// EmptyBatch carries no rows but does not end the stream.
var EmptyBatch = &Batch{rowCount: 0}
