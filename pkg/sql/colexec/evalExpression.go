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

package colexec

import (
	"strconv"

	"github.com/matrixorigin/colflow/pkg/common/moerr"
	"github.com/matrixorigin/colflow/pkg/container/batch"
	"github.com/matrixorigin/colflow/pkg/container/types"
	"github.com/matrixorigin/colflow/pkg/container/vector"
	"github.com/matrixorigin/colflow/pkg/pb/plan"
	"github.com/matrixorigin/colflow/pkg/vm/process"
)

type ExpressionExecutor interface {
	// Eval returns the result column of the expression over batches. The
	// result may share memory with the input and must not be modified.
	Eval(proc *process.Process, batches []*batch.Batch) (*vector.Vector, error)

	// Free should release all memory of executor.
	// it will be called after query has done.
	Free()

	// Typ is the declared result type.
	Typ() types.Type
}

// NewExpressionExecutor builds the executor of planExpr. Only column
// references are supported, anything else is reported as not supported.
func NewExpressionExecutor(proc *process.Process, planExpr *plan.Expr) (ExpressionExecutor, error) {
	if planExpr == nil {
		return nil, moerr.NewNotSupported(proc.Ctx, "empty expression")
	}
	col := planExpr.GetCol()
	if col == nil {
		return nil, moerr.NewNotSupported(proc.Ctx, "expression %s", planExpr)
	}
	if col.ColPos < 0 {
		return nil, moerr.NewInvalidInput(proc.Ctx, "column position %d", col.ColPos)
	}
	typ := types.New(types.T(planExpr.GetTyp().GetId()))
	if !typ.Oid.Valid() {
		return nil, moerr.NewNotSupported(proc.Ctx, "column %s of type %d", col.GetName(), planExpr.GetTyp().GetId())
	}
	return &ColumnExpressionExecutor{
		relIndex: int(col.RelPos),
		colIndex: int(col.ColPos),
		name:     col.GetName(),
		typ:      typ,
	}, nil
}

type ColumnExpressionExecutor struct {
	relIndex int
	colIndex int
	name     string
	// result type.
	typ types.Type
}

func (expr *ColumnExpressionExecutor) Eval(proc *process.Process, batches []*batch.Batch) (*vector.Vector, error) {
	relIndex := expr.relIndex
	if len(batches) == 1 {
		relIndex = 0
	}

	// a wrong index means the expression does not fit the input data.
	if len(batches) <= relIndex || len(batches[relIndex].Vecs) <= expr.colIndex {
		return nil, moerr.NewInternalError(proc.Ctx, "unexpected input batch for column expression %s", expr)
	}

	vec := batches[relIndex].Vecs[expr.colIndex]
	if vec.GetType().Oid != expr.typ.Oid {
		return nil, moerr.NewInternalError(proc.Ctx, "column %s is %s, expected %s", expr, vec.GetType(), expr.typ)
	}
	return vec, nil
}

func (expr *ColumnExpressionExecutor) Free() {
	// Nothing should do.
}

func (expr *ColumnExpressionExecutor) Typ() types.Type {
	return expr.typ
}

func (expr *ColumnExpressionExecutor) String() string {
	if expr.name != "" {
		return expr.name
	}
	return "#" + strconv.Itoa(expr.colIndex)
}
