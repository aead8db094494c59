package stream

import "github.com/n0madic/go-codexclient/internal/types"

// EventKind tags a ResponseEvent.
type EventKind int

const (
	EventCreated EventKind = iota + 1
	EventOutputItemDone
	EventCompleted
	EventOutputTextDelta
	EventReasoningSummaryDelta
	EventReasoningContentDelta
	EventReasoningSummaryPartAdded
)

func (k EventKind) String() string {
	switch k {
	case EventCreated:
		return "created"
	case EventOutputItemDone:
		return "output_item_done"
	case EventCompleted:
		return "completed"
	case EventOutputTextDelta:
		return "output_text_delta"
	case EventReasoningSummaryDelta:
		return "reasoning_summary_delta"
	case EventReasoningContentDelta:
		return "reasoning_content_delta"
	case EventReasoningSummaryPartAdded:
		return "reasoning_summary_part_added"
	}
	return "unknown"
}

// ResponseEvent is one incremental event of a model turn. Kind determines which
// payload fields are set.
type ResponseEvent struct {
	Kind EventKind

	// Item is set for EventOutputItemDone.
	Item types.ResponseItem
	// ResponseID and TokenUsage are set for EventCompleted. TokenUsage may be nil.
	ResponseID string
	TokenUsage *types.TokenUsage
	// Delta is set for the three delta kinds.
	Delta string
}

// Terminal reports whether no event may follow this one.
func (e ResponseEvent) Terminal() bool {
	return e.Kind == EventCompleted
}

func NewCreated() ResponseEvent {
	return ResponseEvent{Kind: EventCreated}
}

func NewOutputItemDone(item types.ResponseItem) ResponseEvent {
	return ResponseEvent{Kind: EventOutputItemDone, Item: item}
}

func NewCompleted(responseID string, usage *types.TokenUsage) ResponseEvent {
	return ResponseEvent{Kind: EventCompleted, ResponseID: responseID, TokenUsage: usage}
}

func NewOutputTextDelta(delta string) ResponseEvent {
	return ResponseEvent{Kind: EventOutputTextDelta, Delta: delta}
}

func NewReasoningSummaryDelta(delta string) ResponseEvent {
	return ResponseEvent{Kind: EventReasoningSummaryDelta, Delta: delta}
}

func NewReasoningContentDelta(delta string) ResponseEvent {
	return ResponseEvent{Kind: EventReasoningContentDelta, Delta: delta}
}

func NewReasoningSummaryPartAdded() ResponseEvent {
	return ResponseEvent{Kind: EventReasoningSummaryPartAdded}
}
