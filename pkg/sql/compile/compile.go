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
	"bytes"
	"fmt"

	"github.com/matrixorigin/colflow/pkg/common/moerr"
	"github.com/matrixorigin/colflow/pkg/container/batch"
	"github.com/matrixorigin/colflow/pkg/pb/plan"
	"github.com/matrixorigin/colflow/pkg/sql/colexec/dispatch"
	"github.com/matrixorigin/colflow/pkg/sql/colexec/merge"
	"github.com/matrixorigin/colflow/pkg/sql/colexec/mergeorder"
	"github.com/matrixorigin/colflow/pkg/sql/colexec/value_scan"
	"github.com/matrixorigin/colflow/pkg/vm"
	"github.com/matrixorigin/colflow/pkg/vm/process"
)

// New creates a compile for the query of proc. Run executes at most workers
// scopes at the same time.
func New(proc *process.Process, workers int) *Compile {
	return &Compile{
		proc:    proc,
		workers: workers,
		sources: make(map[string][]*batch.Batch),
	}
}

// AddSource registers the batches a VALUE_SCAN node of source name returns.
func (c *Compile) AddSource(name string, bats ...*batch.Batch) {
	c.sources[name] = bats
}

func (c *Compile) Scopes() []*Scope {
	return c.scopes
}

// AddProducer compiles node into a scope that sends its output through a new
// exchange described by info, and returns the receiving side.
func (c *Compile) AddProducer(node *plan.PlanNode, info *plan.ExchangeInfo) (*Exchange, error) {
	proc := c.newScopeProc(Dispatch)
	op, err := c.compilePlanNode(proc, node, nil)
	if err != nil {
		return nil, err
	}
	sender, rs, err := dispatch.NewExchange(proc, info)
	if err != nil {
		return nil, err
	}
	root := dispatch.NewArgument().WithSender(sender)
	root.AppendChild(op)
	c.scopes = append(c.scopes, &Scope{
		Magic: Dispatch,
		Root:  root,
		Proc:  proc,
	})
	return &Exchange{Receivers: rs, Schema: op.Schema()}, nil
}

// AddConsumer compiles node into a scope whose MERGE leaf reads from in, and
// hands every batch of its output to fn. fn is called from the task running
// the scope.
func (c *Compile) AddConsumer(node *plan.PlanNode, in *Exchange, fn func(*batch.Batch) error) error {
	proc := c.newScopeProc(Output)
	op, err := c.compilePlanNode(proc, node, in)
	if err != nil {
		return err
	}
	c.scopes = append(c.scopes, &Scope{
		Magic: Output,
		Root:  op,
		Proc:  proc,
		fn:    fn,
	})
	return nil
}

// newScopeProc derives the process of the next scope. Errors raised under it
// carry the scope as detail.
func (c *Compile) newScopeProc(magic magicType) *process.Process {
	proc := process.NewFromProc(c.proc)
	proc.Ctx = moerr.AttachDetail(proc.Ctx, fmt.Sprintf("%s scope %d", magic, len(c.scopes)))
	return proc
}

func (c *Compile) compilePlanNode(proc *process.Process, node *plan.PlanNode, in *Exchange) (vm.Operator, error) {
	if node == nil {
		return nil, moerr.NewBadConfig(proc.Ctx, "nil plan node")
	}
	switch node.GetNodeType() {
	case plan.PlanNode_VALUE_SCAN:
		if len(node.GetChildren()) != 0 {
			return nil, moerr.NewBadConfig(proc.Ctx, "value scan can't have children")
		}
		var body plan.ValueScanNode
		if err := plan.DecodeBody(node, &body); err != nil {
			return nil, moerr.NewBadConfig(proc.Ctx, "parse value scan node: %v", err)
		}
		bats, ok := c.sources[body.GetSource()]
		if !ok {
			return nil, moerr.NewBadConfig(proc.Ctx, "unknown source '%s'", body.GetSource())
		}
		return value_scan.NewArgument(bats...), nil

	case plan.PlanNode_ORDER_BY:
		if len(node.GetChildren()) != 1 {
			return nil, moerr.NewBadConfig(proc.Ctx, "order by must have one child, got %d", len(node.GetChildren()))
		}
		child, err := c.compilePlanNode(proc, node.GetChildren()[0], in)
		if err != nil {
			return nil, err
		}
		return mergeorder.NewArgumentFromPlan(proc, node, child)

	case plan.PlanNode_MERGE:
		if in == nil || len(in.Receivers) == 0 {
			return nil, moerr.NewBadConfig(proc.Ctx, "merge without exchange")
		}
		return merge.NewArgument(in.Receivers...).WithSchema(in.Schema), nil
	}
	return nil, moerr.NewNotSupported(proc.Ctx, "plan node %s", node.GetNodeType())
}

// Split returns one exchange per receiver of e, for consumers reading a
// single partition.
func (e *Exchange) Split() []*Exchange {
	es := make([]*Exchange, len(e.Receivers))
	for i, r := range e.Receivers {
		es[i] = &Exchange{Receivers: []*dispatch.Receiver{r}, Schema: e.Schema}
	}
	return es
}

func (c *Compile) String() string {
	buf := new(bytes.Buffer)
	for i, s := range c.scopes {
		buf.WriteString(fmt.Sprintf("scope %d (%s):\n", i, s.Magic))
		vm.String(s.Root, buf)
		buf.WriteString("\n")
	}
	return buf.String()
}
