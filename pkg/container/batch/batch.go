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
	"bytes"
	"fmt"

	"github.com/RoaringBitmap/roaring"

	"github.com/matrixorigin/colflow/pkg/common/moerr"
	"github.com/matrixorigin/colflow/pkg/container/types"
	"github.com/matrixorigin/colflow/pkg/container/vector"
)

// NewWithVectors builds a batch over vecs, the row count is taken from the
// first vector and every vector must have the same length.
func NewWithVectors(attrs []string, vecs []*vector.Vector) (*Batch, error) {
	bat := &Batch{Attrs: attrs, Vecs: vecs}
	if len(vecs) > 0 {
		bat.rowCount = vecs[0].Length()
	}
	for i, vec := range vecs {
		if vec.Length() != bat.rowCount {
			return nil, moerr.NewSizeNotMatch(moerr.Context(), fmt.Sprintf("vector %d has %d rows, want %d", i, vec.Length(), bat.rowCount))
		}
	}
	return bat, nil
}

func (bat *Batch) RowCount() int {
	return bat.rowCount
}

func (bat *Batch) VectorCount() int {
	return len(bat.Vecs)
}

func (bat *Batch) GetVector(pos int32) *vector.Vector {
	return bat.Vecs[pos]
}

func (bat *Batch) Types() []types.Type {
	typs := make([]types.Type, len(bat.Vecs))
	for i, vec := range bat.Vecs {
		typs[i] = *vec.GetType()
	}
	return typs
}

// SetVisibility installs the visibility mask. Every row named by vis must
// exist in the batch.
func (bat *Batch) SetVisibility(vis *roaring.Bitmap) error {
	if vis != nil && !vis.IsEmpty() && int(vis.Maximum()) >= bat.rowCount {
		return moerr.NewInvalidInputNoCtx("visibility row %d out of range, batch has %d rows", vis.Maximum(), bat.rowCount)
	}
	bat.vis = vis
	return nil
}

// Visibility returns the visibility mask, nil if every row is visible.
func (bat *Batch) Visibility() *roaring.Bitmap {
	return bat.vis
}

func (bat *Batch) IsVisible(row int) bool {
	if bat.vis == nil {
		return true
	}
	return bat.vis.Contains(uint32(row))
}

func (bat *Batch) VisibleCount() int {
	if bat.vis == nil {
		return bat.rowCount
	}
	return int(bat.vis.GetCardinality())
}

func (bat *Batch) IsEmpty() bool {
	return bat.rowCount == 0 && len(bat.Vecs) == 0
}

func (bat *Batch) String() string {
	var buf bytes.Buffer

	for i, vec := range bat.Vecs {
		if i < len(bat.Attrs) {
			buf.WriteString(fmt.Sprintf("%s(%d)\n", bat.Attrs[i], i))
		} else {
			buf.WriteString(fmt.Sprintf("%d\n", i))
		}
		buf.WriteString(fmt.Sprintf("\t%s\n", vec))
	}
	if bat.vis != nil {
		buf.WriteString(fmt.Sprintf("visible %v\n", bat.vis.ToArray()))
	}
	return buf.String()
}
