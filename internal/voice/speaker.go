package voice

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
)

// CommandSpeaker speaks through a platform TTS command line tool: `say` on
// macOS, `espeak` elsewhere. The process is killed when the context is
// cancelled, which is how cue cancellation interrupts audio mid-utterance.
type CommandSpeaker struct {
	command string
	args    []string
}

// NewCommandSpeaker picks the platform TTS binary. It returns an error when
// no known binary is on PATH, so callers can fall back to silent operation.
func NewCommandSpeaker() (*CommandSpeaker, error) {
	candidates := [][]string{
		{"say"},
		{"espeak", "-s", "150"},
		{"espeak-ng", "-s", "150"},
	}
	if runtime.GOOS != "darwin" {
		candidates = candidates[1:]
	}

	for _, c := range candidates {
		if _, err := exec.LookPath(c[0]); err == nil {
			return &CommandSpeaker{command: c[0], args: c[1:]}, nil
		}
	}

	return nil, fmt.Errorf("no text-to-speech binary found on PATH")
}

// Speak runs the TTS command with the text as its final argument.
func (c *CommandSpeaker) Speak(ctx context.Context, text string) error {
	args := append(append([]string{}, c.args...), text)
	cmd := exec.CommandContext(ctx, c.command, args...)
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("speak: %w", err)
	}
	return nil
}

// Close is a no-op; each utterance owns its own process.
func (c *CommandSpeaker) Close() error {
	return nil
}
