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

package process

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/colflow/pkg/config"
	"github.com/matrixorigin/colflow/pkg/container/batch"
)

func TestNewFromProc(t *testing.T) {
	parent := New(context.Background(), Limitation{BatchRows: 10, ChannelBuffer: 2})
	parent.SetQueryId("q1")
	child := NewFromProc(parent)
	require.Equal(t, "q1", child.QueryId())
	require.Equal(t, parent.GetLim(), child.GetLim())

	parent.Cancel()
	<-child.Ctx.Done()
	require.ErrorIs(t, child.Ctx.Err(), context.Canceled)
}

func TestNewLimitation(t *testing.T) {
	lim := NewLimitation(config.ExecParameters{BatchRows: 100, ChannelBuffer: 4, Workers: 3})
	require.Equal(t, Limitation{BatchRows: 100, ChannelBuffer: 4}, lim)
}

func TestWaitRegister(t *testing.T) {
	proc := New(context.Background(), Limitation{ChannelBuffer: 2})
	reg := proc.NewWaitRegister()
	require.Equal(t, 2, cap(reg.Ch))

	reg.Ch <- batch.EmptyBatch
	reg.Ch <- batch.EmptyBatch
	reg.CleanChannel()
	require.Equal(t, 0, len(reg.Ch))

	close(reg.Ch)
	reg.CleanChannel()

	reg.Cancel()
	require.Error(t, reg.Ctx.Err())
	require.NoError(t, proc.Ctx.Err())
}
