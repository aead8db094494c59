package config

import (
	"fmt"
	"net/http"
	"os"
	"runtime"
	"strings"
)

const (
	// CodexDefaultOriginator is the originator the Codex backend expects.
	CodexDefaultOriginator = "codex_cli_rs"
	// CodexClientVersion is reported in the version header and User-Agent.
	CodexClientVersion    = "0.104.0"
	originatorOverrideEnv = "CODEX_INTERNAL_ORIGINATOR_OVERRIDE"
)

// CodexOriginator returns the originator header value.
func CodexOriginator() string {
	if candidate := strings.TrimSpace(os.Getenv(originatorOverrideEnv)); isValidHeaderValue(candidate) {
		return candidate
	}
	return CodexDefaultOriginator
}

// ApplyCodexDefaultHeaders sets User-Agent, originator, version and the optional
// OpenAI organization and project headers.
func ApplyCodexDefaultHeaders(headers http.Header) {
	if headers == nil {
		return
	}
	headers.Set("User-Agent", CodexUserAgent())
	headers.Set("originator", CodexOriginator())
	headers.Set("version", CodexClientVersion)

	if org := strings.TrimSpace(os.Getenv("OPENAI_ORGANIZATION")); org != "" {
		headers.Set("OpenAI-Organization", org)
	}
	if project := strings.TrimSpace(os.Getenv("OPENAI_PROJECT")); project != "" {
		headers.Set("OpenAI-Project", project)
	}
}

// CodexUserAgent builds "<originator>/<version> (<os>; <arch>) <terminal>".
func CodexUserAgent() string {
	ua := fmt.Sprintf("%s/%s (%s; %s) %s",
		CodexOriginator(),
		CodexClientVersion,
		osName(),
		archName(),
		terminalToken(),
	)
	if isValidHeaderValue(ua) {
		return ua
	}
	return CodexDefaultOriginator + "/" + CodexClientVersion
}

func osName() string {
	switch runtime.GOOS {
	case "darwin":
		return "Mac OS"
	case "linux":
		return "Linux"
	case "windows":
		return "Windows"
	default:
		return runtime.GOOS
	}
}

func archName() string {
	if runtime.GOARCH == "amd64" {
		return "x86_64"
	}
	return runtime.GOARCH
}

func terminalToken() string {
	if program := strings.TrimSpace(os.Getenv("TERM_PROGRAM")); program != "" {
		if version := strings.TrimSpace(os.Getenv("TERM_PROGRAM_VERSION")); version != "" {
			return sanitizeToken(program + "/" + version)
		}
		return sanitizeToken(program)
	}
	if term := strings.TrimSpace(os.Getenv("TERM")); term != "" {
		return sanitizeToken(term)
	}
	return "unknown"
}

func sanitizeToken(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= 'a' && r <= 'z') ||
			(r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') ||
			r == '-' || r == '_' || r == '.' || r == '/' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

func isValidHeaderValue(s string) bool {
	if strings.TrimSpace(s) == "" {
		return false
	}
	for _, r := range s {
		if r < ' ' || r == 0x7f {
			return false
		}
	}
	return true
}
