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

	"github.com/matrixorigin/colflow/pkg/container/batch"
)

const DefaultBatchSize = 8192

// WaitRegister is one endpoint of a pipeline channel. Ch is closed by the
// sending side at end of stream. Ctx is cancelled once the receiving side is
// gone.
type WaitRegister struct {
	Ctx    context.Context
	Cancel context.CancelFunc
	Ch     chan *batch.Batch
}

// Limitation specifies the resource limitation of a pipeline.
type Limitation struct {
	// BatchRows max rows for batch
	BatchRows int64
	// ChannelBuffer number of batches buffered by a pipeline channel
	ChannelBuffer int
}

// Process contains context used in query execution
// one or more pipeline will be generated for one query,
// and one pipeline has one process instance.
type Process struct {
	// Id, query id.
	Id  string
	Lim Limitation

	Ctx    context.Context
	Cancel context.CancelFunc
}
