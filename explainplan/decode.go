package explainplan

import (
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/samber/lo"
)

// DefaultMaxDepth bounds the nesting of stats trees accepted by Decode.
const DefaultMaxDepth = 128

// stats tree keys holding child stages; they are left out of tooltips.
var statsChildKeys = []string{"inputStage", "inputStages", "shards"}

type DecodeOption func(*decoder)

// WithMaxDepth sets the nesting bound. Documents nested deeper fail with ErrTooDeep.
// Non-positive values keep DefaultMaxDepth.
func WithMaxDepth(depth int) DecodeOption {
	return func(d *decoder) {
		if depth > 0 {
			d.maxDepth = depth
		}
	}
}

type decoder struct {
	maxDepth int
}

// Decode classifies doc and decodes it into a typed Plan.
// Any structural problem aborts the whole decode.
func Decode(doc Document, opts ...DecodeOption) (Plan, error) {
	d := &decoder{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(d)
	}

	command, sharded := Classify(doc)
	switch {
	case command == CommandFind:
		root, err := d.executionStats(doc, "", 0)
		if err != nil {
			return nil, err
		}
		return &FindPlan{Sharded: sharded, Root: root}, nil
	case command == CommandAggregate && sharded:
		return d.shardedAggregate(doc)
	case command == CommandAggregate:
		execution, err := d.execution(doc, "", 0)
		if err != nil {
			return nil, err
		}
		return &AggregatePlan{Execution: execution}, nil
	default:
		return nil, &StructuralError{Err: unsupportedCommandError(doc)}
	}
}

func unsupportedCommandError(doc Document) error {
	if v, ok := doc.Get("command"); ok {
		command, isDocument := asDocument(v)
		if !isDocument {
			return fmt.Errorf("%w: command must be an object, but: %T", ErrUnsupportedCommand, v)
		}
		return fmt.Errorf("%w: command has keys %v", ErrUnsupportedCommand, command.Keys())
	}
	return fmt.Errorf("%w: no command, splitPipeline or shards field", ErrUnsupportedCommand)
}

func (d *decoder) shardedAggregate(doc Document) (*ShardedAggregatePlan, error) {
	shards, err := requireDocument(doc, "shards", "")
	if err != nil {
		return nil, err
	}

	plan := &ShardedAggregatePlan{MergeType: optionalScalar(doc, "mergeType")}
	for _, name := range shards.Keys() {
		shard, err := requireDocument(shards, name, "shards")
		if err != nil {
			return nil, err
		}

		execution, err := d.execution(shard, joinPath("shards", name), 1)
		if err != nil {
			return nil, err
		}
		plan.Shards = append(plan.Shards, &ShardPart{Name: name, Execution: execution})
	}
	return plan, nil
}

// execution decodes the stages list of doc if present, else its execution stats.
// It returns nil if doc has neither.
func (d *decoder) execution(doc Document, path string, depth int) (Execution, error) {
	switch {
	case doc.Has("stages"):
		list, err := requireList(doc, "stages", path)
		if err != nil {
			return nil, err
		}
		return d.pipeline(list, joinPath(path, "stages"), depth)
	case doc.Has("executionStats"):
		return d.executionStats(doc, path, depth)
	default:
		return nil, nil
	}
}

func (d *decoder) executionStats(doc Document, path string, depth int) (*StatsNode, error) {
	stats, err := requireDocument(doc, "executionStats", path)
	if err != nil {
		return nil, err
	}

	statsPath := joinPath(path, "executionStats")
	stages, err := requireDocument(stats, "executionStages", statsPath)
	if err != nil {
		return nil, err
	}
	return d.stats(stages, joinPath(statsPath, "executionStages"), depth)
}

func (d *decoder) stats(node Document, path string, depth int) (*StatsNode, error) {
	if depth >= d.maxDepth {
		return nil, structuralErrorf(path, "%w (%d)", ErrTooDeep, d.maxDepth)
	}

	stage, err := requireScalar(node, "stage", path)
	if err != nil {
		return nil, err
	}

	nReturned, err := requireScalar(node, "nReturned", path)
	if err != nil {
		return nil, err
	}

	tooltip, err := tooltipOf(node.Without(statsChildKeys...))
	if err != nil {
		return nil, err
	}

	result := &StatsNode{
		Stage:    stage,
		Counters: countersOf(node),
		Tooltip:  tooltip,
	}
	result.Counters.NReturned = &nReturned

	switch {
	case node.Has("inputStage"):
		child, err := requireDocument(node, "inputStage", path)
		if err != nil {
			return nil, err
		}

		childNode, err := d.stats(child, joinPath(path, "inputStage"), depth+1)
		if err != nil {
			return nil, err
		}
		result.Input = &SingleInput{Stage: childNode}
	case node.Has("inputStages"):
		children, err := requireDocumentList(node, "inputStages", path)
		if err != nil {
			return nil, err
		}

		input := &MultiInput{}
		for i, child := range children {
			childNode, err := d.stats(child, indexPath(joinPath(path, "inputStages"), i), depth+1)
			if err != nil {
				return nil, err
			}
			input.Stages = append(input.Stages, childNode)
		}
		result.Input = input
	case node.Has("shards"):
		shards, err := requireDocumentList(node, "shards", path)
		if err != nil {
			return nil, err
		}

		input := &ShardedInput{}
		for i, shard := range shards {
			shardStats, err := d.shardStats(shard, indexPath(joinPath(path, "shards"), i), depth+1)
			if err != nil {
				return nil, err
			}
			input.Shards = append(input.Shards, shardStats)
		}
		result.Input = input
	}
	return result, nil
}

func (d *decoder) shardStats(shard Document, path string, depth int) (*ShardStats, error) {
	name, err := requireScalar(shard, "shardName", path)
	if err != nil {
		return nil, err
	}

	nReturned, err := requireScalar(shard, "nReturned", path)
	if err != nil {
		return nil, err
	}

	stages, err := requireDocument(shard, "executionStages", path)
	if err != nil {
		return nil, err
	}

	root, err := d.stats(stages, joinPath(path, "executionStages"), depth+1)
	if err != nil {
		return nil, err
	}
	return &ShardStats{Name: name, NReturned: nReturned, Root: root}, nil
}

func (d *decoder) pipeline(list []interface{}, path string, depth int) (Pipeline, error) {
	pipeline := make(Pipeline, 0, len(list))
	for i, v := range list {
		stagePath := indexPath(path, i)
		stage, ok := asDocument(v)
		if !ok {
			return nil, structuralErrorf(stagePath, "%w: pipeline stage must be an object, but: %T", ErrInvalidDocument, v)
		}

		pipelineStage, err := d.pipelineStage(stage, stagePath, depth)
		if err != nil {
			return nil, err
		}
		pipeline = append(pipeline, pipelineStage)
	}
	return pipeline, nil
}

func (d *decoder) pipelineStage(stage Document, path string, depth int) (*PipelineStage, error) {
	operators := lo.Filter(stage.Keys(), func(key string, _ int) bool {
		return strings.HasPrefix(key, "$")
	})
	if len(operators) != 1 {
		return nil, structuralErrorf(path, "%w: must have exactly one operator key, but: %v", ErrAmbiguousStage, operators)
	}

	operator := operators[0]

	// Operators such as $limit have a scalar payload.
	payload, isDocument := stage.Document(operator)

	// Since MongoDB 4.4 the counters are siblings of the operator key.
	stageCounters, payloadCounters := countersOf(stage), countersOf(payload)
	result := &PipelineStage{
		Operator: operator,
		Counters: Counters{
			NReturned:    firstPresent(stageCounters.NReturned, payloadCounters.NReturned),
			DocsExamined: firstPresent(stageCounters.DocsExamined, payloadCounters.DocsExamined),
			KeysExamined: firstPresent(stageCounters.KeysExamined, payloadCounters.KeysExamined),
			IndexName:    firstPresent(stageCounters.IndexName, payloadCounters.IndexName),
		},
	}

	if payload.Has("executionStats") {
		root, err := d.executionStats(payload, joinPath(path, operator), depth+1)
		if err != nil {
			return nil, err
		}
		result.Stats = root
	}

	tooltipSource := stage
	if isDocument {
		tooltipSource = stage.With(operator, payload.Without("executionStats").items)
	}

	tooltip, err := tooltipOf(tooltipSource)
	if err != nil {
		return nil, err
	}
	result.Tooltip = tooltip
	return result, nil
}

func countersOf(doc Document) Counters {
	return Counters{
		NReturned:    optionalScalar(doc, "nReturned"),
		DocsExamined: optionalScalar(doc, "docsExamined"),
		KeysExamined: optionalScalar(doc, "keysExamined"),
		IndexName:    optionalScalar(doc, "indexName"),
	}
}

func firstPresent(values ...*string) *string {
	v, _ := lo.Coalesce(values...)
	return v
}

func tooltipOf(doc Document) (string, error) {
	b, err := yaml.Marshal(doc.items)
	if err != nil {
		return "", fmt.Errorf("failed to marshal tooltip: %w", err)
	}
	return string(b), nil
}

func optionalScalar(doc Document, key string) *string {
	v, ok := doc.Get(key)
	if !ok {
		return nil
	}
	return lo.ToPtr(FormatValue(v))
}

func requireScalar(doc Document, key, path string) (string, error) {
	v, ok := doc.Get(key)
	if !ok {
		return "", structuralErrorf(path, "%w: %q", ErrMissingField, key)
	}
	if !isScalar(v) {
		return "", structuralErrorf(joinPath(path, key), "%w: must be a scalar, but: %T", ErrInvalidDocument, v)
	}
	return FormatValue(v), nil
}

func requireDocument(doc Document, key, path string) (Document, error) {
	v, ok := doc.Get(key)
	if !ok {
		return Document{}, structuralErrorf(path, "%w: %q", ErrMissingField, key)
	}

	sub, ok := asDocument(v)
	if !ok {
		return Document{}, structuralErrorf(joinPath(path, key), "%w: must be an object, but: %T", ErrInvalidDocument, v)
	}
	return sub, nil
}

func requireList(doc Document, key, path string) ([]interface{}, error) {
	v, ok := doc.Get(key)
	if !ok {
		return nil, structuralErrorf(path, "%w: %q", ErrMissingField, key)
	}

	list, ok := v.([]interface{})
	if !ok {
		return nil, structuralErrorf(joinPath(path, key), "%w: must be an array, but: %T", ErrInvalidDocument, v)
	}
	return list, nil
}

func requireDocumentList(doc Document, key, path string) ([]Document, error) {
	list, err := requireList(doc, key, path)
	if err != nil {
		return nil, err
	}

	listPath := joinPath(path, key)
	result := make([]Document, 0, len(list))
	for i, v := range list {
		elem, ok := asDocument(v)
		if !ok {
			return nil, structuralErrorf(indexPath(listPath, i), "%w: must be an object, but: %T", ErrInvalidDocument, v)
		}
		result = append(result, elem)
	}
	return result, nil
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func indexPath(path string, i int) string {
	return fmt.Sprintf("%s[%d]", path, i)
}
