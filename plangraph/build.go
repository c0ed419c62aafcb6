package plangraph

import (
	"fmt"

	"github.com/edmallia/MongoDBExplainViz/explainplan"
)

// FromDocument decodes doc and builds its graph. Nothing is built when decoding fails.
func FromDocument(doc explainplan.Document, opts ...explainplan.DecodeOption) (*Graph, error) {
	plan, err := explainplan.Decode(doc, opts...)
	if err != nil {
		return nil, err
	}
	return Build(plan), nil
}

// Build walks plan once and returns the graph anchored to a root sentinel with ID 1.
func Build(plan explainplan.Plan) *Graph {
	b := &builder{asm: NewAssembler()}
	root := b.asm.NewNode(Label{}, RootStyle)

	switch p := plan.(type) {
	case *explainplan.FindPlan:
		b.visitStats(p.Root, root)
	case *explainplan.AggregatePlan:
		b.visitExecution(p.Execution, root)
	case *explainplan.ShardedAggregatePlan:
		b.visitShardedAggregate(p, root)
	}
	return b.asm.Graph()
}

type builder struct {
	asm *Assembler
}

func (b *builder) visitShardedAggregate(plan *explainplan.ShardedAggregatePlan, root int) {
	anchor := root
	if plan.MergeType != nil {
		anchor = b.asm.NewNode(Label{Title: "mergeType: " + *plan.MergeType}, BoxStyle)
		b.asm.AddEdge(anchor, root, "")
	}

	for _, shard := range plan.Shards {
		shardID := b.asm.NewNode(Label{Title: shard.Name}, ShardStyle)
		b.asm.AddEdge(shardID, anchor, "")
		b.visitExecution(shard.Execution, shardID)
	}
}

// visitExecution returns the last node it created, or parent if it created none.
func (b *builder) visitExecution(execution explainplan.Execution, parent int) int {
	switch e := execution.(type) {
	case explainplan.Pipeline:
		return b.visitPipeline(e, parent)
	case *explainplan.StatsNode:
		return b.visitStats(e, parent)
	default:
		return parent
	}
}

// visitStats adds node and its subtree below parent and returns the last node created.
func (b *builder) visitStats(node *explainplan.StatsNode, parent int) int {
	id := b.asm.NewNode(labelOf(node.Stage, node.Counters), BoxStyle, WithTooltip(node.Tooltip))
	b.asm.AddEdge(id, parent, nReturnedLabel(*node.Counters.NReturned))

	last := id
	switch input := node.Input.(type) {
	case *explainplan.SingleInput:
		last = b.visitStats(input.Stage, id)
	case *explainplan.MultiInput:
		for _, stage := range input.Stages {
			last = b.visitStats(stage, id)
		}
	case *explainplan.ShardedInput:
		for _, shard := range input.Shards {
			shardID := b.asm.NewNode(Label{Title: shard.Name}, ShardStyle)
			b.asm.AddEdge(shardID, id, nReturnedLabel(shard.NReturned))
			last = b.visitStats(shard.Root, shardID)
		}
	}
	return last
}

// visitPipeline walks stages from the last declared to the first, so each
// stage points to the one declared after it and the last stage points to parent.
func (b *builder) visitPipeline(stages explainplan.Pipeline, parent int) int {
	for i := len(stages) - 1; i >= 0; i-- {
		parent = b.visitPipelineStage(stages[i], parent)
	}
	return parent
}

func (b *builder) visitPipelineStage(stage *explainplan.PipelineStage, parent int) int {
	b.asm.OpenCluster(stage.Operator)
	defer b.asm.CloseCluster()

	id := b.asm.NewNode(labelOf(stage.Operator, stage.Counters), BoxStyle, WithTooltip(stage.Tooltip))
	b.asm.AddEdge(id, parent, "")

	if stage.Stats == nil {
		return id
	}
	return b.visitStats(stage.Stats, id)
}

func labelOf(title string, c explainplan.Counters) Label {
	return BuildLabel(title, c.NReturned, c.DocsExamined, c.KeysExamined, c.IndexName)
}

func nReturnedLabel(v string) string {
	return fmt.Sprintf("nReturned: %s", v)
}
