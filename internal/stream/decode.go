package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/n0madic/go-codexclient/internal/types"
)

// Upstream SSE event types.
const (
	etCreated          = "response.created"
	etCompleted        = "response.completed"
	etFailed           = "response.failed"
	etItemDone         = "response.output_item.done"
	etTextDelta        = "response.output_text.delta"
	etSummaryDelta     = "response.reasoning_summary_text.delta"
	etReasoningDelta   = "response.reasoning_text.delta"
	etSummaryPartAdded = "response.reasoning_summary_part.added"
	etError            = "error"
)

// Decode reads upstream SSE from body and pushes the translated events into tx until
// response.completed, a failure, or the consumer going away. The sender is always
// closed on return. The returned error explains why decoding stopped; it is nil
// after a successful response.completed.
func Decode(ctx context.Context, body io.Reader, tx *Sender) error {
	defer tx.Close()

	reader := NewReader(body)
	for {
		evt, err := reader.Next()
		if err == io.EOF {
			return failWith(ctx, tx, ErrStreamIncomplete)
		}
		if err != nil {
			return failWith(ctx, tx, fmt.Errorf("read upstream stream: %w", err))
		}

		ev, ok, err := translate(evt)
		if err != nil {
			return failWith(ctx, tx, err)
		}
		if !ok {
			continue
		}
		if err := tx.Send(ctx, ev); err != nil {
			return err
		}
		if ev.Terminal() {
			return nil
		}
	}
}

func failWith(ctx context.Context, tx *Sender, cause error) error {
	if err := tx.Fail(ctx, cause); err != nil {
		return err
	}
	return cause
}

// translate maps one raw SSE event to a ResponseEvent. ok is false for event types
// that carry nothing for the consumer.
func translate(evt *Event) (ResponseEvent, bool, error) {
	switch evt.Type {
	case etCreated:
		return NewCreated(), true, nil

	case etItemDone:
		raw := evt.Get("item")
		if !raw.IsObject() {
			return ResponseEvent{}, false, nil
		}
		var item types.ResponseItem
		if err := json.Unmarshal([]byte(raw.Raw), &item); err != nil {
			return ResponseEvent{}, false, fmt.Errorf("decode output item: %w", err)
		}
		return NewOutputItemDone(item), true, nil

	case etTextDelta:
		return NewOutputTextDelta(evt.Get("delta").String()), true, nil

	case etSummaryDelta:
		return NewReasoningSummaryDelta(evt.Get("delta").String()), true, nil

	case etReasoningDelta:
		return NewReasoningContentDelta(evt.Get("delta").String()), true, nil

	case etSummaryPartAdded:
		return NewReasoningSummaryPartAdded(), true, nil

	case etCompleted:
		resp := evt.Get("response")
		return NewCompleted(resp.Get("id").String(), TokenUsageFromResponse(resp)), true, nil

	case etFailed:
		errObj := evt.Get("response.error")
		return ResponseEvent{}, false, &ResponseError{
			Type:    etFailed,
			Code:    errObj.Get("code").String(),
			Message: strings.TrimSpace(errObj.Get("message").String()),
		}

	case etError:
		msg := evt.Get("message").String()
		if msg == "" {
			msg = evt.Get("error.message").String()
		}
		return ResponseEvent{}, false, &ResponseError{
			Type:    etError,
			Code:    evt.Get("code").String(),
			Message: strings.TrimSpace(msg),
		}
	}
	return ResponseEvent{}, false, nil
}
