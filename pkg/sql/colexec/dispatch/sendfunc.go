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

package dispatch

import (
	"context"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/matrixorigin/colflow/pkg/common/moerr"
	"github.com/matrixorigin/colflow/pkg/container/batch"
	"github.com/matrixorigin/colflow/pkg/container/vector"
	v2 "github.com/matrixorigin/colflow/pkg/util/metric/v2"
	"github.com/matrixorigin/colflow/pkg/vm/process"
)

// common sender: send to all receivers
func sendToAllFunc(ctx context.Context, s *Sender, bat *batch.Batch) error {
	for _, reg := range s.regs {
		if err := s.sendToReg(ctx, reg, bat); err != nil {
			return err
		}
	}
	return nil
}

// common sender: send to the next receiver in turn
func sendToAnyFunc(ctx context.Context, s *Sender, bat *batch.Batch) error {
	reg := s.regs[s.sendTo]
	s.sendTo = (s.sendTo + 1) % len(s.regs)
	return s.sendToReg(ctx, reg, bat)
}

func sendToSingleFunc(ctx context.Context, s *Sender, bat *batch.Batch) error {
	return s.sendToReg(ctx, s.regs[0], bat)
}

// sendByHashFunc splits the visible rows of bat by the hash of the hash
// columns. Receivers without rows get nothing.
func sendByHashFunc(ctx context.Context, s *Sender, bat *batch.Batch) error {
	for _, col := range s.hashCols {
		if int(col) >= bat.VectorCount() {
			return moerr.NewInvalidInput(ctx, "hash column %d out of range of %d columns", col, bat.VectorCount())
		}
	}

	n := uint64(len(s.regs))
	sels := make([][]int64, n)
	var key []byte
	for row := 0; row < bat.RowCount(); row++ {
		if !bat.IsVisible(row) {
			continue
		}
		key = key[:0]
		for _, col := range s.hashCols {
			key = appendHashKey(key, bat.Vecs[col], row)
		}
		i := xxhash.Sum64(key) % n
		sels[i] = append(sels[i], int64(row))
	}

	for i, rows := range sels {
		if len(rows) == 0 {
			continue
		}
		part, err := shuffleBatch(bat, rows)
		if err != nil {
			return err
		}
		if err := s.sendToReg(ctx, s.regs[i], part); err != nil {
			return err
		}
	}
	return nil
}

func (s *Sender) sendToReg(ctx context.Context, reg *process.WaitRegister, bat *batch.Batch) error {
	if err := ctx.Err(); err != nil {
		return moerr.ConvertGoError(ctx, err)
	}
	if reg.Ctx.Err() != nil {
		return s.receiverGone(ctx)
	}

	select {
	case <-ctx.Done():
		return moerr.ConvertGoError(ctx, ctx.Err())
	case <-reg.Ctx.Done():
		return s.receiverGone(ctx)
	case reg.Ch <- bat:
		v2.ExchangeSendCounter.WithLabelValues(s.label).Inc()
		return nil
	}
}

func (s *Sender) receiverGone(ctx context.Context) error {
	v2.ExchangeReceiverGoneCounter.WithLabelValues(s.label).Inc()
	return moerr.NewStreamClosed(ctx)
}

// shuffleBatch copies the rows sels of bat into a new batch.
func shuffleBatch(bat *batch.Batch, sels []int64) (*batch.Batch, error) {
	vecs := make([]*vector.Vector, len(bat.Vecs))
	for i, src := range bat.Vecs {
		vecs[i] = vector.NewVecWithCapacity(*src.GetType(), len(sels))
		if err := vecs[i].Union(src, sels); err != nil {
			return nil, err
		}
	}
	return batch.NewWithVectors(bat.Attrs, vecs)
}

// appendHashKey appends the encoding of one value to key. NULL gets its
// own tag so that it never collides with a value.
func appendHashKey(key []byte, vec *vector.Vector, row int) []byte {
	val, ok := vec.GetValue(row)
	if !ok {
		return append(key, 0)
	}
	key = append(key, 1)
	switch v := val.(type) {
	case bool:
		if v {
			return append(key, 1)
		}
		return append(key, 0)
	case int8:
		return append(key, byte(v))
	case int16:
		return appendUint(key, uint64(v), 2)
	case int32:
		return appendUint(key, uint64(v), 4)
	case int64:
		return appendUint(key, uint64(v), 8)
	case uint8:
		return append(key, v)
	case uint16:
		return appendUint(key, uint64(v), 2)
	case uint32:
		return appendUint(key, uint64(v), 4)
	case uint64:
		return appendUint(key, v, 8)
	case float32:
		return appendUint(key, uint64(math.Float32bits(v)), 4)
	case float64:
		return appendUint(key, math.Float64bits(v), 8)
	case string:
		key = appendUint(key, uint64(len(v)), 4)
		return append(key, v...)
	}
	return key
}

func appendUint(key []byte, v uint64, size int) []byte {
	for i := 0; i < size; i++ {
		key = append(key, byte(v>>(8*i)))
	}
	return key
}
