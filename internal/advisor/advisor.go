// Package advisor surfaces short, non-blocking warnings for risky shell commands.
package advisor

import (
	"regexp"
	"strings"
)

var pipeToShellRegex = regexp.MustCompile(`(?i)(curl|wget)[^\n|]*\|\s*(sh|bash)`)

// sensitiveMarkers are path fragments of credential and key material.
var sensitiveMarkers = []string{
	".ssh",
	".gnupg",
	"wallet.dat",
	"keystore",
	"metamask",
	"ledger",
	"solana",
	"ethereum",
	"secp256k1",
	"id_rsa",
	"id_ed25519",
	"api_key",
	"private_key",
	"mnemonic",
}

const (
	advicePipeToShell     = "detected a curl/wget pipeline into a shell; this is dangerous because it executes remote code blindly"
	adviceRemoveRecursive = "detected a potentially destructive rm -rf; double-check paths before continuing"
	adviceWorldWritable   = "detected chmod 777; avoid world-writable permissions"
	adviceRawWrite        = "detected dd to a device/file; verify target to avoid data loss"
	adviceSensitivePaths  = "access to sensitive keys/wallet paths detected; ensure you trust the command"
	adviceScriptPipe      = "detected a curl/wget pipeline into a shell inside bash -lc"
	adviceScriptRemove    = "detected potentially destructive rm -rf inside bash -lc"
)

// Advise inspects argv tokens and returns an advisory for the first risky pattern
// found. It reports false when nothing matches or command is empty.
//
// Only the pipe-to-shell check ignores case; every other check is a literal,
// case-sensitive substring match.
func Advise(command []string) (string, bool) {
	if len(command) == 0 {
		return "", false
	}

	cmd0 := command[0]
	if cmd0 == "bash" && len(command) > 2 && command[1] == "-lc" {
		script := command[2]
		if pipeToShellRegex.MatchString(script) {
			return adviceScriptPipe, true
		}
		if strings.Contains(script, "rm -rf") {
			return adviceScriptRemove, true
		}
	}

	joined := strings.Join(command, " ")
	switch {
	case pipeToShellRegex.MatchString(joined):
		return advicePipeToShell, true
	case cmd0 == "rm" && strings.Contains(joined, "-rf"):
		return adviceRemoveRecursive, true
	case cmd0 == "chmod" && strings.Contains(joined, "777"):
		return adviceWorldWritable, true
	case cmd0 == "dd" && (strings.Contains(joined, "/dev/") || strings.Contains(joined, "of=")):
		return adviceRawWrite, true
	case touchesSensitivePaths(joined):
		return adviceSensitivePaths, true
	}
	return "", false
}

func touchesSensitivePaths(s string) bool {
	for _, m := range sensitiveMarkers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
