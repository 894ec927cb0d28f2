package engines

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/readaloud/readaloud/internal/tts"
)

// DependencyStatus describes one external program or file an engine uses.
type DependencyStatus struct {
	Name         string `yaml:"name"`
	Engine       string `yaml:"engine"`
	Installed    bool   `yaml:"installed"`
	Version      string `yaml:"version,omitempty"`
	Path         string `yaml:"path,omitempty"`
	Instructions string `yaml:"instructions,omitempty"`
}

// CheckDependencies inspects the host for everything the configured
// engines and the MP3 encoder rely on.
func CheckDependencies(ctx context.Context, cfg tts.Config) []DependencyStatus {
	r := NewRunner()

	var out []DependencyStatus
	out = append(out, checkBinary(ctx, r, "ffmpeg", "", "-version", ffmpegInstructions()))

	for _, name := range cfg.Engines {
		switch name {
		case tts.EngineSystem:
			s := DependencyStatus{Name: "espeak-ng", Engine: name, Instructions: systemInstructions()}
			for _, bin := range systemVoices {
				if bin == "say" && runtime.GOOS != "darwin" {
					continue
				}
				if st := checkBinary(ctx, r, bin, name, "--version", ""); st.Installed {
					s = st
					break
				}
			}
			out = append(out, s)
		case tts.EngineGTTS:
			out = append(out, checkBinary(ctx, r, "gtts-cli", name, "--version",
				"Install with pip:\n    pip install gtts\n    Or: pipx install gtts"))
		case tts.EnginePiper:
			out = append(out, checkBinary(ctx, r, cfg.Piper.Binary, name, "--version",
				"Download from: https://github.com/rhasspy/piper/releases\n    Extract and add to PATH"))
			out = append(out, checkModel(cfg.Piper.Model))
		}
	}
	return out
}

func checkBinary(ctx context.Context, r *Runner, bin, engine, versionFlag, instructions string) DependencyStatus {
	status := DependencyStatus{Name: bin, Engine: engine}
	path, err := exec.LookPath(bin)
	if err != nil {
		status.Instructions = instructions
		return status
	}
	status.Installed = true
	status.Path = path
	if versionFlag != "" {
		status.Version = r.Version(ctx, path, versionFlag)
	}
	return status
}

func checkModel(model string) DependencyStatus {
	status := DependencyStatus{Name: "piper model", Engine: tts.EnginePiper}
	if model != "" {
		if _, err := os.Stat(model); err == nil {
			status.Installed = true
			status.Path = model
			return status
		}
	}
	status.Instructions = "Download models from: https://github.com/rhasspy/piper/blob/master/VOICES.md\n" +
		"    Then set tts.piper.model to the .onnx file"
	return status
}

// Report renders statuses for the terminal.
func Report(statuses []DependencyStatus) string {
	var report strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39")).
		MarginBottom(1)
	installedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	missingStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

	report.WriteString(titleStyle.Render("Dependency Check"))
	report.WriteString("\n\n")

	for _, s := range statuses {
		label := s.Name
		if s.Engine != "" {
			label = fmt.Sprintf("%s (%s)", s.Name, s.Engine)
		}
		if s.Installed {
			report.WriteString(installedStyle.Render("  ✓ " + label + ": "))
			report.WriteString(strings.TrimSpace(s.Path + " " + s.Version))
			report.WriteString("\n")
			continue
		}
		report.WriteString(missingStyle.Render("  ○ " + label + ": "))
		report.WriteString("Not installed\n")
		if s.Instructions != "" {
			fmt.Fprintf(&report, "    %s\n", s.Instructions)
		}
	}
	return report.String()
}

func ffmpegInstructions() string {
	switch runtime.GOOS {
	case "darwin":
		return "Install with: brew install ffmpeg"
	case "linux":
		distro := detectLinuxDistro()
		switch distro {
		case "debian", "ubuntu":
			return "Install with: sudo apt-get install ffmpeg"
		case "fedora", "rhel":
			return "Install with: sudo dnf install ffmpeg"
		case "arch":
			return "Install with: sudo pacman -S ffmpeg"
		}
		return "Install with your package manager: ffmpeg"
	case "windows":
		return "Download from: https://ffmpeg.org/download.html\n    Extract and add to PATH"
	default:
		return "Install ffmpeg from: https://ffmpeg.org/download.html"
	}
}

func systemInstructions() string {
	switch runtime.GOOS {
	case "darwin":
		return "The say command ships with macOS; or: brew install espeak-ng"
	case "linux":
		switch detectLinuxDistro() {
		case "debian", "ubuntu":
			return "Install with: sudo apt-get install espeak-ng"
		case "fedora", "rhel":
			return "Install with: sudo dnf install espeak-ng"
		case "arch":
			return "Install with: sudo pacman -S espeak-ng"
		}
		return "Install espeak-ng with your package manager"
	default:
		return "Download from: https://github.com/espeak-ng/espeak-ng/releases"
	}
}

func detectLinuxDistro() string {
	data, err := os.ReadFile("/etc/os-release")
	if err != nil {
		return "unknown"
	}
	content := strings.ToLower(string(data))
	for _, d := range []string{"ubuntu", "debian", "fedora", "arch"} {
		if strings.Contains(content, d) {
			return d
		}
	}
	if strings.Contains(content, "rhel") || strings.Contains(content, "centos") {
		return "rhel"
	}
	return "unknown"
}
