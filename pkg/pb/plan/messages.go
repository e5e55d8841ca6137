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
	proto "github.com/gogo/protobuf/proto"
)

// Plan descriptors are encoded with the reflection based gogo marshaler, every
// exported field carries its wire tag.

type PlanNode_PlanNodeType int32

const (
	PlanNode_UNKNOWN    PlanNode_PlanNodeType = 0
	PlanNode_VALUE_SCAN PlanNode_PlanNodeType = 1
	PlanNode_ORDER_BY   PlanNode_PlanNodeType = 2
	// PlanNode_MERGE reads the batches of one exchange receiver.
	PlanNode_MERGE PlanNode_PlanNodeType = 3
)

var PlanNode_PlanNodeType_name = map[int32]string{
	0: "UNKNOWN",
	1: "VALUE_SCAN",
	2: "ORDER_BY",
	3: "MERGE",
}

var PlanNode_PlanNodeType_value = map[string]int32{
	"UNKNOWN":    0,
	"VALUE_SCAN": 1,
	"ORDER_BY":   2,
	"MERGE":      3,
}

func (x PlanNode_PlanNodeType) String() string {
	return proto.EnumName(PlanNode_PlanNodeType_name, int32(x))
}

type OrderBySpec_OrderByFlag int32

const (
	OrderBySpec_INTERNAL    OrderBySpec_OrderByFlag = 0
	OrderBySpec_ASC         OrderBySpec_OrderByFlag = 1
	OrderBySpec_DESC        OrderBySpec_OrderByFlag = 2
	OrderBySpec_NULLS_FIRST OrderBySpec_OrderByFlag = 4
	OrderBySpec_NULLS_LAST  OrderBySpec_OrderByFlag = 8
)

var OrderBySpec_OrderByFlag_name = map[int32]string{
	0: "INTERNAL",
	1: "ASC",
	2: "DESC",
	4: "NULLS_FIRST",
	8: "NULLS_LAST",
}

func (x OrderBySpec_OrderByFlag) String() string {
	return proto.EnumName(OrderBySpec_OrderByFlag_name, int32(x))
}

type ExchangeInfo_DistributionMode int32

const (
	ExchangeInfo_SINGLE      ExchangeInfo_DistributionMode = 0
	ExchangeInfo_BROADCAST   ExchangeInfo_DistributionMode = 1
	ExchangeInfo_HASH        ExchangeInfo_DistributionMode = 2
	ExchangeInfo_ROUND_ROBIN ExchangeInfo_DistributionMode = 3
)

var ExchangeInfo_DistributionMode_name = map[int32]string{
	0: "SINGLE",
	1: "BROADCAST",
	2: "HASH",
	3: "ROUND_ROBIN",
}

var ExchangeInfo_DistributionMode_value = map[string]int32{
	"SINGLE":      0,
	"BROADCAST":   1,
	"HASH":        2,
	"ROUND_ROBIN": 3,
}

func (x ExchangeInfo_DistributionMode) String() string {
	return proto.EnumName(ExchangeInfo_DistributionMode_name, int32(x))
}

// PlanNode is one node of an operator tree. Body holds the encoded node
// specific message, for example an OrderByNode.
type PlanNode struct {
	NodeType PlanNode_PlanNodeType `protobuf:"varint,1,opt,name=node_type,json=nodeType,proto3" json:"node_type,omitempty"`
	Children []*PlanNode           `protobuf:"bytes,2,rep,name=children,proto3" json:"children,omitempty"`
	Body     []byte                `protobuf:"bytes,3,opt,name=body,proto3" json:"body,omitempty"`
}

func (m *PlanNode) Reset()         { *m = PlanNode{} }
func (m *PlanNode) String() string { return proto.CompactTextString(m) }
func (*PlanNode) ProtoMessage()    {}

func (m *PlanNode) GetNodeType() PlanNode_PlanNodeType {
	if m != nil {
		return m.NodeType
	}
	return PlanNode_UNKNOWN
}

func (m *PlanNode) GetChildren() []*PlanNode {
	if m != nil {
		return m.Children
	}
	return nil
}

func (m *PlanNode) GetBody() []byte {
	if m != nil {
		return m.Body
	}
	return nil
}

type Type struct {
	Id          int32 `protobuf:"varint,1,opt,name=id,proto3" json:"id,omitempty"`
	NotNullable bool  `protobuf:"varint,2,opt,name=not_nullable,json=notNullable,proto3" json:"not_nullable,omitempty"`
}

func (m *Type) Reset()         { *m = Type{} }
func (m *Type) String() string { return proto.CompactTextString(m) }
func (*Type) ProtoMessage()    {}

func (m *Type) GetId() int32 {
	if m != nil {
		return m.Id
	}
	return 0
}

type ColRef struct {
	RelPos int32  `protobuf:"varint,1,opt,name=rel_pos,json=relPos,proto3" json:"rel_pos,omitempty"`
	ColPos int32  `protobuf:"varint,2,opt,name=col_pos,json=colPos,proto3" json:"col_pos,omitempty"`
	Name   string `protobuf:"bytes,3,opt,name=name,proto3" json:"name,omitempty"`
}

func (m *ColRef) Reset()         { *m = ColRef{} }
func (m *ColRef) String() string { return proto.CompactTextString(m) }
func (*ColRef) ProtoMessage()    {}

func (m *ColRef) GetColPos() int32 {
	if m != nil {
		return m.ColPos
	}
	return 0
}

func (m *ColRef) GetName() string {
	if m != nil {
		return m.Name
	}
	return ""
}

// Expr is an expression over the columns of a batch. Only column references
// are evaluated by this engine.
type Expr struct {
	Typ *Type   `protobuf:"bytes,1,opt,name=typ,proto3" json:"typ,omitempty"`
	Col *ColRef `protobuf:"bytes,2,opt,name=col,proto3" json:"col,omitempty"`
}

func (m *Expr) Reset()         { *m = Expr{} }
func (m *Expr) String() string { return proto.CompactTextString(m) }
func (*Expr) ProtoMessage()    {}

func (m *Expr) GetTyp() *Type {
	if m != nil {
		return m.Typ
	}
	return nil
}

func (m *Expr) GetCol() *ColRef {
	if m != nil {
		return m.Col
	}
	return nil
}

type OrderBySpec struct {
	Expr *Expr                   `protobuf:"bytes,1,opt,name=expr,proto3" json:"expr,omitempty"`
	Flag OrderBySpec_OrderByFlag `protobuf:"varint,2,opt,name=flag,proto3" json:"flag,omitempty"`
}

func (m *OrderBySpec) Reset()         { *m = OrderBySpec{} }
func (m *OrderBySpec) String() string { return proto.CompactTextString(m) }
func (*OrderBySpec) ProtoMessage()    {}

func (m *OrderBySpec) GetExpr() *Expr {
	if m != nil {
		return m.Expr
	}
	return nil
}

func (m *OrderBySpec) GetFlag() OrderBySpec_OrderByFlag {
	if m != nil {
		return m.Flag
	}
	return OrderBySpec_INTERNAL
}

type OrderByNode struct {
	OrderBy []*OrderBySpec `protobuf:"bytes,1,rep,name=order_by,json=orderBy,proto3" json:"order_by,omitempty"`
}

func (m *OrderByNode) Reset()         { *m = OrderByNode{} }
func (m *OrderByNode) String() string { return proto.CompactTextString(m) }
func (*OrderByNode) ProtoMessage()    {}

func (m *OrderByNode) GetOrderBy() []*OrderBySpec {
	if m != nil {
		return m.OrderBy
	}
	return nil
}

// ValueScanNode names a set of in-memory batches registered with the compiler.
type ValueScanNode struct {
	Source string `protobuf:"bytes,1,opt,name=source,proto3" json:"source,omitempty"`
}

func (m *ValueScanNode) Reset()         { *m = ValueScanNode{} }
func (m *ValueScanNode) String() string { return proto.CompactTextString(m) }
func (*ValueScanNode) ProtoMessage()    {}

func (m *ValueScanNode) GetSource() string {
	if m != nil {
		return m.Source
	}
	return ""
}

type ExchangeInfo struct {
	Mode ExchangeInfo_DistributionMode `protobuf:"varint,1,opt,name=mode,proto3" json:"mode,omitempty"`
	// Count is the number of receivers, ignored by SINGLE.
	Count       uint32  `protobuf:"varint,2,opt,name=count,proto3" json:"count,omitempty"`
	HashColumns []int32 `protobuf:"varint,3,rep,packed,name=hash_columns,json=hashColumns,proto3" json:"hash_columns,omitempty"`
}

func (m *ExchangeInfo) Reset()         { *m = ExchangeInfo{} }
func (m *ExchangeInfo) String() string { return proto.CompactTextString(m) }
func (*ExchangeInfo) ProtoMessage()    {}

func (m *ExchangeInfo) GetMode() ExchangeInfo_DistributionMode {
	if m != nil {
		return m.Mode
	}
	return ExchangeInfo_SINGLE
}

func (m *ExchangeInfo) GetCount() uint32 {
	if m != nil {
		return m.Count
	}
	return 0
}

func (m *ExchangeInfo) GetHashColumns() []int32 {
	if m != nil {
		return m.HashColumns
	}
	return nil
}
