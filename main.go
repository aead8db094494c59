package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/n0madic/go-codexclient/internal/advisor"
	"github.com/n0madic/go-codexclient/internal/auth"
	"github.com/n0madic/go-codexclient/internal/config"
	"github.com/n0madic/go-codexclient/internal/models"
	"github.com/n0madic/go-codexclient/internal/pipeline"
	"github.com/n0madic/go-codexclient/internal/session"
	"github.com/n0madic/go-codexclient/internal/upstream"
)

const commands = "Commands: request, stream, advise, models"

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: go-codexclient <command> [flags]")
		fmt.Fprintln(os.Stderr, commands)
		os.Exit(1)
	}

	switch os.Args[1] {
	case "request":
		os.Exit(cmdTurn("request", false))
	case "stream":
		os.Exit(cmdTurn("stream", true))
	case "advise":
		os.Exit(cmdAdvise())
	case "models":
		os.Exit(cmdModels())
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		fmt.Fprintln(os.Stderr, commands)
		os.Exit(1)
	}
}

func cmdTurn(name string, live bool) int {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	cfg := config.DefaultFromEnv()

	fs.StringVar(&cfg.Model, "model", cfg.Model, "Model name (an effort suffix like -high is honoured)")
	fs.StringVar(&cfg.ReasoningEffort, "reasoning-effort", cfg.ReasoningEffort, "Reasoning effort level (minimal|low|medium|high|xhigh)")
	fs.StringVar(&cfg.ReasoningSummary, "reasoning-summary", cfg.ReasoningSummary, "Reasoning summary (auto|concise|detailed|none)")
	fs.StringVar(&cfg.ResponsesURL, "base-url", cfg.ResponsesURL, "Responses endpoint URL")
	fs.StringVar(&cfg.InstructionsFile, "instructions-file", cfg.InstructionsFile, "File whose contents replace the built-in instructions")
	fs.StringVar(&cfg.UserInstructions, "user-instructions", cfg.UserInstructions, "Extra user instructions prepended to the conversation")
	fs.BoolVar(&cfg.Store, "store", cfg.Store, "Ask the upstream to store the response")
	fs.IntVar(&cfg.StreamBuffer, "buffer", cfg.StreamBuffer, "Event queue capacity")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "Enable verbose logging")
	inputFile := fs.String("input", "", "JSON file with the conversation input (string or array of items)")
	sessionID := fs.String("session", "", "Prompt cache key to reuse across invocations")
	withTools := fs.Bool("tools", false, "Offer the built-in shell and apply_patch tools")
	showReasoning := fs.Bool("show-reasoning", false, "Print reasoning summaries to stderr")
	fs.Parse(os.Args[2:])

	if err := cfg.LoadInstructions(); err != nil {
		slog.Error("failed to load instructions", "error", err)
		return 1
	}
	resolveCredentials(cfg)

	input, err := readInput(*inputFile, fs.Args(), os.Stdin)
	if err != nil {
		slog.Error("failed to read input", "error", err)
		return 1
	}

	client := upstream.NewClient(cfg)
	p := &pipeline.Pipeline{
		Config:    cfg,
		Upstream:  client,
		Sessions:  session.NewCache(0),
		SessionID: *sessionID,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rs, err := p.Execute(ctx, p.NewPrompt(input, *withTools))
	if err != nil {
		var upErr *upstream.UpstreamError
		if errors.As(err, &upErr) {
			slog.Error("upstream rejected the request", "status", upErr.StatusCode, "error", upErr)
		} else {
			slog.Error("request failed", "error", err)
		}
		return 1
	}
	defer rs.Close()

	out := &turnPrinter{
		stdout:        os.Stdout,
		stderr:        os.Stderr,
		live:          live,
		showReasoning: *showReasoning,
	}
	if err := out.consume(ctx, rs); err != nil {
		slog.Error("stream failed", "error", err)
		return 1
	}
	return 0
}

func resolveCredentials(cfg *config.Config) {
	if cfg.AccessToken != "" {
		return
	}
	creds, err := auth.Load()
	if err != nil {
		if cfg.Verbose {
			slog.Info("auth.file", "error", err)
		}
		return
	}
	cfg.AccessToken = creds.AccessToken
	if cfg.AccountID == "" {
		cfg.AccountID = creds.AccountID
	}
}

func cmdAdvise() int {
	fs := flag.NewFlagSet("advise", flag.ExitOnError)
	strict := fs.Bool("strict", false, "Exit with status 2 when an advisory is produced")
	fs.Parse(os.Args[2:])

	advice, ok := advisor.Advise(fs.Args())
	if !ok {
		fmt.Println("no advisory")
		return 0
	}
	fmt.Println(advice)
	if *strict {
		return 2
	}
	return 0
}

func cmdModels() int {
	fs := flag.NewFlagSet("models", flag.ExitOnError)
	variants := fs.Bool("variants", false, "Include effort-level variants")
	fs.Parse(os.Args[2:])

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "MODEL\tFAMILY\tREASONING\tAPPLY_PATCH_GUIDANCE\tEFFORTS")
	for _, id := range models.ModelCatalog(*variants) {
		family, _ := models.FindFamily(models.NormalizeModelName(id, ""))
		fmt.Fprintf(tw, "%s\t%s\t%t\t%t\t%s\n",
			id,
			family.Family,
			family.SupportsReasoningSummaries,
			family.NeedsSpecialApplyPatchInstructions,
			effortList(id),
		)
	}
	if err := tw.Flush(); err != nil {
		slog.Error("failed to write model list", "error", err)
		return 1
	}
	return 0
}

func effortList(model string) string {
	allowed := models.AllowedEfforts(models.NormalizeModelName(model, ""))
	var out []string
	for _, e := range []string{"minimal", "low", "medium", "high", "xhigh"} {
		if allowed[e] {
			out = append(out, e)
		}
	}
	return strings.Join(out, ",")
}
