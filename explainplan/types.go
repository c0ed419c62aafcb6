package explainplan

// Plan is the decoded form of an explain document. It is one of
// *FindPlan, *AggregatePlan or *ShardedAggregatePlan.
type Plan interface {
	plan()
}

type FindPlan struct {
	Sharded bool
	Root    *StatsNode
}

// AggregatePlan is an unsharded aggregation.
// Execution is nil when the document carries neither stages nor executionStats.
type AggregatePlan struct {
	Execution Execution
}

type ShardedAggregatePlan struct {
	// MergeType is nil when the document has no mergeType field.
	MergeType *string
	Shards    []*ShardPart
}

// ShardPart is the part of a sharded aggregation executed by one shard.
type ShardPart struct {
	Name      string
	Execution Execution
}

func (*FindPlan) plan()             {}
func (*AggregatePlan) plan()        {}
func (*ShardedAggregatePlan) plan() {}

// Execution is either a Pipeline or a *StatsNode.
type Execution interface {
	execution()
}

// Pipeline lists aggregation stages in declaration order.
type Pipeline []*PipelineStage

func (Pipeline) execution()   {}
func (*StatsNode) execution() {}

type PipelineStage struct {
	// Operator is the stage's "$"-prefixed key, e.g. "$group".
	Operator string
	Counters Counters
	// Stats is the stage's own execution stats tree, or nil.
	Stats   *StatsNode
	Tooltip string
}

// Counters holds the optional per-stage fields shown in node labels,
// already formatted. A nil field was absent from the document.
type Counters struct {
	NReturned    *string
	DocsExamined *string
	KeysExamined *string
	IndexName    *string
}

// StatsNode is one stage of an execution stats tree.
// Counters.NReturned is always set.
type StatsNode struct {
	Stage    string
	Counters Counters
	// Input is nil for a leaf.
	Input   Input
	Tooltip string
}

// Input is one of *SingleInput, *MultiInput or *ShardedInput.
type Input interface {
	input()
}

type SingleInput struct {
	Stage *StatsNode
}

// MultiInput is a fan-in: every stage feeds the same parent, in document order.
type MultiInput struct {
	Stages []*StatsNode
}

// ShardedInput is a per-shard fan-out, in document order.
type ShardedInput struct {
	Shards []*ShardStats
}

type ShardStats struct {
	Name      string
	NReturned string
	Root      *StatsNode
}

func (*SingleInput) input()  {}
func (*MultiInput) input()   {}
func (*ShardedInput) input() {}
