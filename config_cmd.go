package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/charmbracelet/x/editor"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultConfig = `# Directory for converted audio
output:
  dir: "."

tts:
  # Engines tried in order; the first that passes its self-test is used
  # for every conversion. Known: system, gtts, edge, openai, piper
  engines: [system, gtts, edge, openai, piper]
  # Preferred output: mp3 (needs ffmpeg, falls back to wav) or wav
  format: "mp3"
  # Chunks synthesized at once
  workers: 1

  # Connectivity check for network engines
  probe:
    url: "https://www.google.com"
    timeout: "5s"

  # espeak-ng / espeak / say
  system:
    voice: ""
    rate: 0

  # Google Translate TTS through gtts-cli
  gtts:
    language: "en"
    slow: false
    requests_per_minute: 50

  # Microsoft Edge read-aloud
  edge:
    voice: "en-US-AriaNeural"
    # Speaking rate such as "+10%" or "-20%"
    rate: ""
    requests_per_minute: 50

  # OpenAI speech; the key is read from OPENAI_API_KEY
  openai:
    model: "tts-1"
    voice: "alloy"
    # base_url: "https://api.openai.com/v1"
    requests_per_minute: 50

  # Piper neural voice
  piper:
    binary: "piper"
    model: ""
    # model: "~/.local/share/piper-voices/en_US-lessac-medium.onnx"
    speaker: ""

  # Cache of synthesized chunks
  cache:
    enabled: true
    dir: ""
    max_size: 100
`

var configCmd = &cobra.Command{
	Use:     "config",
	Hidden:  false,
	Short:   "Edit the readaloud config file",
	Long:    paragraph(fmt.Sprintf("\n%s the readaloud config file. We’ll use EDITOR to determine which editor to use. If the config file doesn't exist, it will be created.", keyword("Edit"))),
	Example: paragraph("readaloud config\nreadaloud config --config path/to/config.yml"),
	Args:    cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		if err := ensureConfigFile(); err != nil {
			return err
		}

		c, err := editor.Cmd("readaloud", configFile)
		if err != nil {
			return fmt.Errorf("unable to set config file: %w", err)
		}
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		if err := c.Run(); err != nil {
			return fmt.Errorf("unable to run command: %w", err)
		}

		fmt.Println("Wrote config file to:", configFile)
		return nil
	},
}

func ensureConfigFile() error {
	if configFile == "" {
		configFile = viper.GetViper().ConfigFileUsed()
		if err := os.MkdirAll(filepath.Dir(configFile), 0o755); err != nil { //nolint:gosec
			return fmt.Errorf("could not write configuration file: %w", err)
		}
	}

	if ext := path.Ext(configFile); ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("'%s' is not a supported configuration type: use '%s' or '%s'", ext, ".yaml", ".yml")
	}

	if _, err := os.Stat(configFile); errors.Is(err, fs.ErrNotExist) {
		// File doesn't exist yet, create all necessary directories and
		// write the default config file
		if err := os.MkdirAll(filepath.Dir(configFile), 0o700); err != nil {
			return fmt.Errorf("unable create directory: %w", err)
		}

		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("unable to create config file: %w", err)
		}
		defer func() { _ = f.Close() }()

		if _, err := f.WriteString(defaultConfig); err != nil {
			return fmt.Errorf("unable to write config file: %w", err)
		}
	} else if err != nil { // some other error occurred
		return fmt.Errorf("unable to stat config file: %w", err)
	}
	return nil
}
