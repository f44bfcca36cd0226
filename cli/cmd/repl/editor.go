package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/magiconair/properties"

	"github.com/ardnew/aprop/loader"
	"github.com/ardnew/aprop/log"
	"github.com/ardnew/aprop/props"
)

const defaultEditor = "vi"

// editOverridesCommand implements [tea.ExecCommand] for the
// edit-decode-retry loop over the override properties. It writes the current
// overrides to a temp file, opens the user's editor, and decodes the result.
// On a decode error the user is prompted to re-edit; declining exits the
// program.
type editOverridesCommand struct {
	current *props.Properties
	result  *props.Properties
	ctxFunc func() context.Context
	logger  log.Logger
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

// SetStdin sets the stdin reader for the command.
func (c *editOverridesCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editOverridesCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editOverridesCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit-decode-retry loop. An emptied file cancels the edit
// and leaves result nil.
func (c *editOverridesCommand) Run() error {
	ctx := c.ctxFunc()

	dec, err := loader.PropertiesDecoder(loader.EncodingUTF8)
	if err != nil {
		return err
	}

	content := encodeOverrides(c.current)

	f, err := os.CreateTemp(os.TempDir(), "aprop-repl-*.properties")
	if err != nil {
		return err
	}

	tmpPath := f.Name()

	defer os.Remove(tmpPath)

	if err := f.Chmod(0o600); err != nil {
		f.Close()

		return err
	}

	f.Close()

	for {
		if err := os.WriteFile(tmpPath, []byte(content), 0o600); err != nil {
			return err
		}

		data, err := runEditor(ctx, c.stdin, c.stdout, c.stderr, tmpPath)
		if err != nil {
			return err
		}

		if strings.TrimSpace(string(data)) == "" {
			return nil
		}

		p, decodeErr := dec.Decode(data)
		c.logger.TraceContext(ctx, "editor decode attempt",
			slog.Int("content_length", len(data)),
			slog.Bool("success", decodeErr == nil),
		)

		if decodeErr == nil {
			c.result = p

			return nil
		}

		fmt.Fprintf(c.stderr, "\nDecode error: %s\n", decodeErr)
		fmt.Fprintf(c.stdout, "Re-edit? [Y/n] ")

		scanner := bufio.NewScanner(c.stdin)
		if !scanner.Scan() {
			return ErrEditDeclined
		}

		switch strings.TrimSpace(strings.ToLower(scanner.Text())) {
		case "n", "no":
			return ErrEditDeclined
		}

		content = string(data)
	}
}

// encodeOverrides renders p as .properties text with a short explanation.
func encodeOverrides(p *props.Properties) string {
	out := properties.NewProperties()
	out.DisableExpansion = true

	for k, v := range p.All() {
		_, _, _ = out.Set(k, v)
	}

	var b strings.Builder

	b.WriteString("# Override properties take precedence over every location.\n")
	b.WriteString("# Clear the file to cancel.\n")

	if out.Len() == 0 {
		b.WriteString("#\n# key = value\n")
	}

	_, _ = out.Write(&b, properties.UTF8)

	return b.String()
}

// runEditor launches the user's editor on the given file path and returns the
// edited content.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	path string,
) ([]byte, error) {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = defaultEditor
	}

	cmd := exec.CommandContext(ctx, editor, path)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		return nil, err
	}

	return os.ReadFile(path)
}
