package stream

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"
)

func collect(t *testing.T, rs *ResponseStream) ([]ResponseEvent, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	var events []ResponseEvent
	for {
		ev, err := rs.Next(ctx)
		if err == io.EOF {
			return events, nil
		}
		if err != nil {
			return events, err
		}
		events = append(events, ev)
	}
}

func TestDecodeMapsEventTypes(t *testing.T) {
	body := `data: {"type":"response.created","response":{"id":"resp_1"}}

data: {"type":"response.in_progress"}

data: {"type":"response.reasoning_summary_part.added","summary_index":0}

data: {"type":"response.reasoning_summary_text.delta","delta":"Thinking"}

data: {"type":"response.reasoning_text.delta","delta":"raw"}

data: {"type":"response.output_text.delta","delta":"Hi"}

data: {"type":"response.output_item.done","item":{"type":"message","role":"assistant","content":[{"type":"output_text","text":"Hi"}]}}

data: {"type":"response.output_item.done","item":{"type":"function_call","name":"shell","call_id":"call_1","arguments":"{\"command\":[\"ls\"]}"}}

data: {"type":"response.completed","response":{"id":"resp_1","usage":{"input_tokens":10,"input_tokens_details":{"cached_tokens":4},"output_tokens":5,"output_tokens_details":{"reasoning_tokens":2},"total_tokens":15}}}

data: {"type":"response.output_text.delta","delta":"ignored after completion"}

`
	rs, tx := New(2)
	done := make(chan error, 1)
	go func() { done <- Decode(context.Background(), strings.NewReader(body), tx) }()

	events, err := collect(t, rs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if derr := <-done; derr != nil {
		t.Fatalf("Decode returned %v", derr)
	}

	wantKinds := []EventKind{
		EventCreated,
		EventReasoningSummaryPartAdded,
		EventReasoningSummaryDelta,
		EventReasoningContentDelta,
		EventOutputTextDelta,
		EventOutputItemDone,
		EventOutputItemDone,
		EventCompleted,
	}
	if len(events) != len(wantKinds) {
		t.Fatalf("got %d events, want %d: %+v", len(events), len(wantKinds), events)
	}
	for i, k := range wantKinds {
		if events[i].Kind != k {
			t.Errorf("event %d: kind %v, want %v", i, events[i].Kind, k)
		}
	}

	if events[2].Delta != "Thinking" || events[3].Delta != "raw" || events[4].Delta != "Hi" {
		t.Errorf("unexpected deltas: %q %q %q", events[2].Delta, events[3].Delta, events[4].Delta)
	}
	if msg := events[5].Item; msg.Role != "assistant" || msg.Text() != "Hi" {
		t.Errorf("unexpected message item: %+v", msg)
	}
	if call := events[6].Item; call.Type != "function_call" || call.CallID != "call_1" || call.Arguments != `{"command":["ls"]}` {
		t.Errorf("unexpected function call item: %+v", call)
	}

	completed := events[7]
	if completed.ResponseID != "resp_1" {
		t.Errorf("ResponseID = %q", completed.ResponseID)
	}
	u := completed.TokenUsage
	if u == nil {
		t.Fatal("expected token usage")
	}
	if u.InputTokens != 10 || u.CachedInputTokens != 4 || u.OutputTokens != 5 || u.ReasoningOutputTokens != 2 || u.TotalTokens != 15 {
		t.Errorf("unexpected usage: %+v", u)
	}
}

func TestDecodeCompletedWithoutUsage(t *testing.T) {
	body := "data: {\"type\":\"response.completed\",\"response\":{\"id\":\"r\",\"usage\":{\"input_tokens\":3,\"output_tokens\":4}}}\n\n"
	rs, tx := New(1)
	go Decode(context.Background(), strings.NewReader(body), tx)

	events, err := collect(t, rs)
	if err != nil || len(events) != 1 {
		t.Fatalf("events=%v err=%v", events, err)
	}
	if u := events[0].TokenUsage; u == nil || u.TotalTokens != 7 {
		t.Errorf("total should fall back to input+output, got %+v", u)
	}

	rs, tx = New(1)
	go Decode(context.Background(), strings.NewReader(`data: {"type":"response.completed","response":{"id":"r"}}`+"\n"), tx)
	events, err = collect(t, rs)
	if err != nil || len(events) != 1 {
		t.Fatalf("events=%v err=%v", events, err)
	}
	if events[0].TokenUsage != nil {
		t.Errorf("expected nil usage, got %+v", events[0].TokenUsage)
	}
}

func TestDecodeIncompleteStream(t *testing.T) {
	body := "data: {\"type\":\"response.output_text.delta\",\"delta\":\"partial\"}\n\n"
	rs, tx := New(4)
	done := make(chan error, 1)
	go func() { done <- Decode(context.Background(), strings.NewReader(body), tx) }()

	events, err := collect(t, rs)
	if !errors.Is(err, ErrStreamIncomplete) {
		t.Fatalf("expected ErrStreamIncomplete, got %v", err)
	}
	if len(events) != 1 || events[0].Delta != "partial" {
		t.Errorf("events before failure must be delivered: %+v", events)
	}
	if derr := <-done; !errors.Is(derr, ErrStreamIncomplete) {
		t.Errorf("Decode returned %v", derr)
	}
}

func TestDecodeDoneMarkerWithoutCompleted(t *testing.T) {
	rs, tx := New(1)
	go Decode(context.Background(), strings.NewReader("data: [DONE]\n\n"), tx)
	if _, err := collect(t, rs); !errors.Is(err, ErrStreamIncomplete) {
		t.Fatalf("expected ErrStreamIncomplete, got %v", err)
	}
}

func TestDecodeResponseFailed(t *testing.T) {
	body := `data: {"type":"response.created"}

data: {"type":"response.failed","response":{"error":{"code":"rate_limit_exceeded","message":"Slow down"}}}

`
	rs, tx := New(4)
	go Decode(context.Background(), strings.NewReader(body), tx)

	events, err := collect(t, rs)
	var respErr *ResponseError
	if !errors.As(err, &respErr) {
		t.Fatalf("expected *ResponseError, got %v", err)
	}
	if respErr.Code != "rate_limit_exceeded" || respErr.Message != "Slow down" {
		t.Errorf("unexpected error fields: %+v", respErr)
	}
	if !strings.Contains(respErr.Error(), "Slow down") {
		t.Errorf("Error() = %q", respErr.Error())
	}
	if len(events) != 1 || events[0].Kind != EventCreated {
		t.Errorf("unexpected events: %+v", events)
	}
}

func TestDecodeErrorEvent(t *testing.T) {
	body := "data: {\"type\":\"error\",\"code\":\"server_error\",\"message\":\"oops\"}\n\n"
	rs, tx := New(1)
	go Decode(context.Background(), strings.NewReader(body), tx)

	_, err := collect(t, rs)
	var respErr *ResponseError
	if !errors.As(err, &respErr) || respErr.Message != "oops" || respErr.Type != "error" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDecodeStopsWhenConsumerLeaves(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 100; i++ {
		sb.WriteString("data: {\"type\":\"response.output_text.delta\",\"delta\":\"x\"}\n\n")
	}
	rs, tx := New(1)
	done := make(chan error, 1)
	go func() { done <- Decode(context.Background(), strings.NewReader(sb.String()), tx) }()

	if _, err := rs.Next(context.Background()); err != nil {
		t.Fatalf("first event: %v", err)
	}
	rs.Close()

	select {
	case err := <-done:
		if !errors.Is(err, ErrConsumerGone) {
			t.Fatalf("expected ErrConsumerGone, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("decoder blocked after consumer left")
	}
}
