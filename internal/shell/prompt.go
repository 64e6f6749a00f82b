package shell

import (
	"bufio"
	"io"
	"strings"
)

// PromptConfirm returns a Confirm that writes the prompt to out and accepts
// "y" or "yes" read from in. Anything else, including EOF, cancels.
func PromptConfirm(in io.Reader, out io.Writer) Confirm {
	reader := bufio.NewReader(in)
	return func(title, message string) bool {
		RenderConfirm(out)
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true
		}
		return false
	}
}

// AlwaysConfirm approves every removal.
func AlwaysConfirm(string, string) bool { return true }
