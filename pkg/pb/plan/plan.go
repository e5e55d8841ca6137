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

package plan

import (
	"fmt"

	proto "github.com/gogo/protobuf/proto"
)

func (m *PlanNode) MarshalBinary() ([]byte, error) {
	return proto.Marshal(m)
}

func (m *PlanNode) UnmarshalBinary(data []byte) error {
	return proto.Unmarshal(data, m)
}

func (m *ExchangeInfo) MarshalBinary() ([]byte, error) {
	return proto.Marshal(m)
}

func (m *ExchangeInfo) UnmarshalBinary(data []byte) error {
	return proto.Unmarshal(data, m)
}

// NewColumnExpr references column pos of the input batch.
func NewColumnExpr(pos int32, name string, typ int32) *Expr {
	return &Expr{
		Typ: &Type{Id: typ},
		Col: &ColRef{ColPos: pos, Name: name},
	}
}

func NewOrderBySpec(expr *Expr, flag OrderBySpec_OrderByFlag) *OrderBySpec {
	return &OrderBySpec{Expr: expr, Flag: flag}
}

// NewNode builds a plan node whose body is the encoding of body.
func NewNode(typ PlanNode_PlanNodeType, body proto.Message, children ...*PlanNode) (*PlanNode, error) {
	node := &PlanNode{NodeType: typ, Children: children}
	if body != nil {
		data, err := proto.Marshal(body)
		if err != nil {
			return nil, err
		}
		node.Body = data
	}
	return node, nil
}

func NewOrderByNode(child *PlanNode, specs ...*OrderBySpec) (*PlanNode, error) {
	return NewNode(PlanNode_ORDER_BY, &OrderByNode{OrderBy: specs}, child)
}

func NewValueScanNode(source string) (*PlanNode, error) {
	return NewNode(PlanNode_VALUE_SCAN, &ValueScanNode{Source: source})
}

func NewMergeNode() *PlanNode {
	return &PlanNode{NodeType: PlanNode_MERGE}
}

// DecodeBody decodes the body of node into msg.
func DecodeBody(node *PlanNode, msg proto.Message) error {
	return proto.Unmarshal(node.GetBody(), msg)
}

// Describe renders an order by spec the way it reads in SQL, e.g. "b DESC NULLS LAST".
func (m *OrderBySpec) Describe() string {
	s := "?"
	if col := m.GetExpr().GetCol(); col != nil {
		if col.Name != "" {
			s = col.Name
		} else {
			s = fmt.Sprintf("#%d", col.ColPos)
		}
	}
	if m.GetFlag()&OrderBySpec_DESC != 0 {
		s += " DESC"
	}
	if m.GetFlag()&OrderBySpec_NULLS_FIRST != 0 {
		s += " NULLS FIRST"
	} else if m.GetFlag()&OrderBySpec_NULLS_LAST != 0 {
		s += " NULLS LAST"
	}
	return s
}
