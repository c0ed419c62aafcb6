package explainplan

type Command int

const (
	CommandUnknown Command = iota
	CommandFind
	CommandAggregate
)

func (c Command) String() string {
	switch c {
	case CommandFind:
		return "find"
	case CommandAggregate:
		return "aggregate"
	default:
		return "unknown"
	}
}

// Classify determines the command kind of the explained operation and whether it ran sharded.
//
// Documents with a command field are classified by the command; the
// sharded flag comes from the winning plan for find and from the top level
// for aggregate. Documents without one are classified by their top-level
// splitPipeline and shards keys.
func Classify(doc Document) (Command, bool) {
	if command, ok := doc.Get("command"); ok {
		commandDoc, _ := asDocument(command)
		switch {
		case commandDoc.Has("find"):
			queryPlanner, _ := doc.Document("queryPlanner")
			winningPlan, _ := queryPlanner.Document("winningPlan")
			return CommandFind, winningPlan.Has("shards")
		case commandDoc.Has("aggregate"):
			return CommandAggregate, doc.Has("shards")
		default:
			return CommandUnknown, false
		}
	}

	sharded := doc.Has("shards")
	if doc.Has("splitPipeline") {
		return CommandAggregate, sharded
	}
	return CommandUnknown, sharded
}
