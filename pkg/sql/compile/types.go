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

package compile

import (
	"github.com/matrixorigin/colflow/pkg/container/batch"
	"github.com/matrixorigin/colflow/pkg/sql/colexec/dispatch"
	"github.com/matrixorigin/colflow/pkg/vm"
	"github.com/matrixorigin/colflow/pkg/vm/process"
)

type magicType int

const (
	// Dispatch scopes send their output through an exchange.
	Dispatch magicType = iota
	// Output scopes hand their output to a callback.
	Output
)

func (m magicType) String() string {
	switch m {
	case Dispatch:
		return "dispatch"
	case Output:
		return "output"
	}
	return "unknown"
}

// Scope is one pipeline of a query, an operator tree pulled by its own task.
type Scope struct {
	Magic magicType
	Root  vm.Operator
	Proc  *process.Process

	// fn consumes the batches of an Output scope.
	fn func(*batch.Batch) error
}

// Exchange is the receiving side of a Dispatch scope.
type Exchange struct {
	Receivers []*dispatch.Receiver
	// Schema of the batches sent through the exchange.
	Schema vm.Schema
}

// Compile builds the scopes of one query and runs them.
type Compile struct {
	proc    *process.Process
	workers int

	// sources are the in-memory relations value scans read, by name.
	sources map[string][]*batch.Batch
	scopes  []*Scope
}
