package setup

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"vibe-dj/internal/output"
)

var mpvBinary = "mpv"

// Check verifies the playback dependency is installed.
func Check() error {
	if _, err := exec.LookPath(mpvBinary); err != nil {
		return fmt.Errorf("mpv not found in PATH")
	}
	return nil
}

// Run reports on the local environment: playback binary and configured keys.
func Run(out *output.Output) error {
	path, err := exec.LookPath(mpvBinary)
	if err != nil {
		PrintInstructions(out)
		return fmt.Errorf("mpv not found in PATH")
	}
	out.Success("mpv found: " + path)

	raw, err := exec.Command(mpvBinary, "--version").Output()
	if err == nil {
		if line, _, ok := strings.Cut(string(raw), "\n"); ok {
			out.Info(out.Gray(strings.TrimSpace(line)))
		}
	}

	for _, env := range []string{"OPENAI_API_KEY", "ANTHROPIC_API_KEY", "GOOGLE_API_KEY", "YOUTUBE_API_KEY"} {
		if os.Getenv(env) != "" {
			out.Info("  " + env + ": " + out.Green("set"))
		} else {
			out.Info("  " + env + ": " + out.Gray("unset"))
		}
	}
	return nil
}

func PrintInstructions(out *output.Output) {
	out.Error("Could not find mpv")
	out.Print("Playback requires the mpv media player on PATH.")
	out.Print("Install it with your package manager, for example:")
	out.Print("  brew install mpv")
	out.Print("  apt install mpv")
	out.Print("Then run `vibedj --setup` to verify the environment.")
}
