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

package mergeorder

import (
	"github.com/matrixorigin/colflow/pkg/common/moerr"
	"github.com/matrixorigin/colflow/pkg/pb/plan"
	"github.com/matrixorigin/colflow/pkg/sql/colexec"
	"github.com/matrixorigin/colflow/pkg/vm"
	"github.com/matrixorigin/colflow/pkg/vm/process"
)

// NewArgumentFromPlan builds a merge order over child from an ORDER_BY plan
// node. A node that cannot be executed is reported as a bad configuration.
func NewArgumentFromPlan(proc *process.Process, node *plan.PlanNode, child vm.Operator) (*Argument, error) {
	if child == nil {
		return nil, moerr.NewBadConfig(proc.Ctx, "merge order without child")
	}
	if node.GetNodeType() != plan.PlanNode_ORDER_BY {
		return nil, moerr.NewBadConfig(proc.Ctx, "merge order built from %s node", node.GetNodeType())
	}
	if n := len(node.GetChildren()); n != 1 {
		return nil, moerr.NewBadConfig(proc.Ctx, "order by must have one child, got %d", n)
	}
	var body plan.OrderByNode
	if err := plan.DecodeBody(node, &body); err != nil {
		return nil, moerr.NewBadConfig(proc.Ctx, "parse order by node: %v", err)
	}
	if len(body.GetOrderBy()) == 0 {
		return nil, moerr.NewBadConfig(proc.Ctx, "order by node without order by list")
	}
	// bind once so that a bad key fails here and not on the first pull
	keys, err := colexec.NewOrderKeys(proc, body.GetOrderBy())
	if err != nil {
		return nil, moerr.NewBadConfig(proc.Ctx, "order by list: %v", err)
	}
	colexec.FreeOrderKeys(keys)

	arg := NewArgument().WithOrderBySpecs(body.GetOrderBy())
	arg.AppendChild(child)
	return arg, nil
}
