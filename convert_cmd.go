package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/muesli/reflow/truncate"
	"github.com/readaloud/readaloud/internal/audio"
	"github.com/readaloud/readaloud/internal/extract"
	"github.com/readaloud/readaloud/internal/tts"
	"github.com/readaloud/readaloud/ui"
	"github.com/readaloud/readaloud/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

const previewChars = 1000

var (
	convertFormat     string
	convertOutput     string
	convertEngine     string
	convertPlay       bool
	convertNoProgress bool

	convertCmd = &cobra.Command{
		Use:   "convert FILE|-",
		Short: "Convert a document to speech",
		Long: paragraph(fmt.Sprintf("\n%s the text of a document into a single audio file. "+
			"Supported inputs are %s. Use - to read plain text from stdin.",
			keyword("Convert"), keyword(".txt, .md and .docx"))),
		Example: paragraph("readaloud convert notes.md\nreadaloud convert -f wav -o speech.wav report.docx\ncat story.txt | readaloud convert -"),
		Args:    cobra.ExactArgs(1),
		RunE:    runConvert,
	}
)

func runConvert(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	text, title, err := readInput(args[0], cmd.InOrStdin())
	if err != nil {
		return err
	}

	format, err := audio.ParseFormat(viper.GetString("tts.format"))
	if err != nil {
		return err //nolint:wrapcheck
	}
	switch {
	case cmd.Flags().Changed("format"):
		if format, err = audio.ParseFormat(convertFormat); err != nil {
			return err //nolint:wrapcheck
		}
	case audio.FormatFromPath(convertOutput) != "":
		format = audio.FormatFromPath(convertOutput)
	}
	dest := outputFor(args[0], format)

	a, err := newApp(convertEngine)
	if err != nil {
		return err
	}
	defer a.Close() //nolint:errcheck

	stderr := cmd.ErrOrStderr()
	fmt.Fprintf(stderr, "%s %s\n%s\n\n", titleStyle.Render(title),
		subtle(fmt.Sprintf("(%s characters)", humanize.Comma(int64(len(text))))),
		truncate.StringWithTail(text, previewChars, "…"))

	var res tts.Result
	if isTerminal(cmd.OutOrStdout()) && !convertNoProgress && !a.env.NoProgress {
		res, err = convertWithProgress(ctx, a, text, dest, format, title, cmd.OutOrStdout())
	} else {
		res, err = a.orchestrator(nil).Convert(ctx, text, dest, format)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", tts.Code(err), err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s, %s, %d chunks via %s)\n",
		keyword("Wrote"), res.Path, res.Format, humanize.Bytes(uint64(res.Size)), //nolint:gosec
		res.Chunks, res.Backend)
	if res.Format != format {
		fmt.Fprintf(stderr, "%s could not encode %s, wrote %s instead\n", subtle("note:"), format, res.Format)
	}

	if convertPlay {
		if a.env.NoAudio {
			log.Info("Playback disabled by READALOUD_NO_AUDIO")
			return nil
		}
		if err := audio.Play(ctx, res.Path); err != nil {
			return fmt.Errorf("unable to play audio: %w", err)
		}
	}
	return nil
}

// convertWithProgress runs the conversion while a bubbletea program renders
// its events. Quitting the program cancels the conversion.
func convertWithProgress(ctx context.Context, a *app, text, dest string, format audio.Format, title string, out io.Writer) (tts.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := ui.NewProgram(title, out)
	type outcome struct {
		res tts.Result
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := a.orchestrator(ui.Observer(p)).Convert(ctx, text, dest, format)
		done <- outcome{res, err}
	}()

	if _, err := p.Run(); err != nil {
		log.Warn("Progress display failed", "error", err)
	}
	cancel()

	o := <-done
	return o.res, o.err
}

// readInput returns the text to convert and a title for display.
func readInput(arg string, stdin io.Reader) (string, string, error) {
	if arg == "-" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", "", fmt.Errorf("unable to read from stdin: %w", err)
		}
		text, err := extract.Bytes("stdin.txt", b)
		return text, "stdin", err //nolint:wrapcheck
	}

	path := utils.ExpandPath(arg)
	text, err := extract.Text(path)
	if err != nil {
		return "", "", err //nolint:wrapcheck
	}
	return text, filepath.Base(path), nil
}

// outputFor picks the destination for src: --output when given, otherwise
// the document name in output.dir. Stdin gets a unique name.
func outputFor(src string, format audio.Format) string {
	if convertOutput != "" {
		out := utils.ExpandPath(convertOutput)
		if audio.FormatFromPath(out) == "" {
			out += format.Ext()
		}
		return out
	}
	if src == "-" {
		src = "speech-" + uuid.NewString()[:8]
	}
	return utils.OutputPath(viper.GetString("output.dir"), src, format.Ext())
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd())) //nolint:gosec
}

func init() {
	convertCmd.Flags().StringVarP(&convertFormat, "format", "f", "", "output format: mp3 or wav (default from config)")
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "output file (default <output.dir>/<name>.<format>)")
	convertCmd.Flags().StringVarP(&convertEngine, "engine", "e", "", "use only this engine")
	convertCmd.Flags().BoolVar(&convertPlay, "play", false, "play the result when done")
	convertCmd.Flags().BoolVar(&convertNoProgress, "no-progress", false, "do not show the progress display")
}
