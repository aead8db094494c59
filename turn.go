package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/n0madic/go-codexclient/internal/advisor"
	"github.com/n0madic/go-codexclient/internal/stream"
	"github.com/n0madic/go-codexclient/internal/tools"
	"github.com/n0madic/go-codexclient/internal/types"
)

// readInput builds the conversation input from a JSON file, the positional
// arguments, or stdin, in that order of preference.
func readInput(path string, args []string, stdin io.Reader) ([]types.ResponseItem, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return types.ParseInput(json.RawMessage(data))
	}

	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" && stdin != nil {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, err
		}
		text = strings.TrimSpace(string(data))
	}
	if text == "" {
		return nil, errors.New("empty prompt; pass text as arguments, on stdin, or with -input")
	}
	return []types.ResponseItem{types.UserMessage(text)}, nil
}

// turnPrinter renders the events of one turn. In live mode text deltas are
// printed as they arrive; otherwise the final assistant messages are printed
// once the turn completes.
type turnPrinter struct {
	stdout        io.Writer
	stderr        io.Writer
	live          bool
	showReasoning bool

	printedDelta bool
	messages     []string
}

func (p *turnPrinter) consume(ctx context.Context, rs *stream.ResponseStream) error {
	for ev, err := range rs.All(ctx) {
		if err != nil {
			return err
		}
		p.handle(ev)
	}
	return nil
}

func (p *turnPrinter) handle(ev stream.ResponseEvent) {
	switch ev.Kind {
	case stream.EventOutputTextDelta:
		if p.live {
			fmt.Fprint(p.stdout, ev.Delta)
			p.printedDelta = true
		}
	case stream.EventReasoningSummaryDelta:
		if p.showReasoning {
			fmt.Fprint(p.stderr, ev.Delta)
		}
	case stream.EventReasoningSummaryPartAdded:
		if p.showReasoning {
			fmt.Fprintln(p.stderr)
		}
	case stream.EventOutputItemDone:
		p.handleItem(&ev.Item)
	case stream.EventCompleted:
		p.finish(ev)
	}
}

func (p *turnPrinter) handleItem(item *types.ResponseItem) {
	switch item.Type {
	case types.ItemTypeMessage:
		if item.Role == "assistant" {
			p.messages = append(p.messages, item.Text())
		}
	case types.ItemTypeFunctionCall:
		fmt.Fprintf(p.stderr, "tool call %s(%s)\n", item.Name, item.Arguments)
		if item.Name == tools.ShellName {
			p.adviseShell(item.Arguments)
		}
	case types.ItemTypeCustomToolCall:
		fmt.Fprintf(p.stderr, "tool call %s\n%s\n", item.Name, item.Input)
	}
}

// adviseShell prints an advisory for a shell tool call whose arguments carry
// a command array.
func (p *turnPrinter) adviseShell(arguments string) {
	var command []string
	for _, v := range gjson.Get(arguments, "command").Array() {
		command = append(command, v.String())
	}
	if advice, ok := advisor.Advise(command); ok {
		fmt.Fprintf(p.stderr, "warning: %s\n", advice)
	}
}

func (p *turnPrinter) finish(ev stream.ResponseEvent) {
	if p.live {
		if p.printedDelta {
			fmt.Fprintln(p.stdout)
		}
	} else {
		for _, m := range p.messages {
			fmt.Fprintln(p.stdout, m)
		}
	}
	if u := ev.TokenUsage; u != nil {
		fmt.Fprintf(p.stderr, "[%s] tokens: input=%d (cached %d) output=%d (reasoning %d) total=%d\n",
			ev.ResponseID, u.InputTokens, u.CachedInputTokens, u.OutputTokens, u.ReasoningOutputTokens, u.TotalTokens)
	}
}
