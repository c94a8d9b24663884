// Package kmodel holds the shared vocabulary of a block pipeline: schemas,
// columns, ports, blocks, connections, pipelines, join configuration and
// execution results.
//
// # Pipelines
//
// A Pipeline is a directed graph of Blocks. Every Block has a BlockType tag
// and a BlockConfig payload whose concrete type matches the tag:
//
//	p := &kmodel.Pipeline{
//	    ID: "p1",
//	    Blocks: []kmodel.Block{
//	        {ID: "orders", Type: kmodel.BlockTypeSource, Outputs: []kmodel.Port{{ID: "out"}}},
//	        {ID: "depts", Type: kmodel.BlockTypeSource, Outputs: []kmodel.Port{{ID: "out"}}},
//	        {
//	            ID:     "joined",
//	            Type:   kmodel.BlockTypeJoin,
//	            Inputs: []kmodel.Port{{ID: "left"}, {ID: "right"}},
//	            Config: kmodel.JoinConfig{
//	                JoinType: kmodel.JoinTypeInner,
//	                Keys:     []kmodel.JoinKey{{LeftKey: "dept", RightKey: "dept"}},
//	            },
//	        },
//	    },
//	    Connections: []kmodel.Connection{
//	        {ID: "c1", SourceBlockID: "orders", SourcePortID: "out", TargetBlockID: "joined", TargetPortID: "left"},
//	        {ID: "c2", SourceBlockID: "depts", SourcePortID: "out", TargetBlockID: "joined", TargetPortID: "right"},
//	    },
//	}
//
// BlockConfig is sealed: only the payload types of this package implement it,
// so a type switch over it can be checked for exhaustiveness.
//
// # Rows
//
// A Row maps column names to values. A nil value and an absent key are both
// treated as null.
//
// Types in this package carry no behavior beyond lookups. Pipelines are
// read-only for the duration of a run; ExecutionResults are never mutated
// after creation.
package kmodel
