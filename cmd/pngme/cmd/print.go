package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/javi11/pngme/internal/commands"
)

// previewColumnOffset is roughly the width of the columns before the preview.
const previewColumnOffset = 48

func init() {
	printCmd := &cobra.Command{
		Use:   "print <file>...",
		Short: "List the chunks of one or more files",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runPrint,
	}

	printCmd.Flags().String("format", "", "output format: text or json (default from config)")
	printCmd.Flags().Int("preview", -1, "payload preview width, 0 for full payloads (default from config or terminal width)")

	rootCmd.AddCommand(printCmd)
}

func runPrint(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	if format == "" {
		format = cfg.GetPrintFormat()
	}
	if format != "text" && format != "json" {
		return fmt.Errorf("unknown format %q: must be text or json", format)
	}

	width, _ := cmd.Flags().GetInt("preview")
	if width < 0 {
		width = previewWidth(format)
	}

	reports, err := service.Print(cmd.Context(), commands.PrintRequest{
		Paths:        args,
		PreviewWidth: width,
	})

	out := cmd.OutOrStdout()
	if format == "json" {
		if encErr := writeJSON(out, reports); encErr != nil {
			return encErr
		}
	} else if writeErr := writeText(out, reports); writeErr != nil {
		return writeErr
	}

	return err
}

// previewWidth picks the configured width, or fits previews to the
// terminal when stdout is one.
func previewWidth(format string) int {
	if cfg.Print.Preview > 0 || format == "json" {
		return cfg.Print.Preview
	}

	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}

	cols, _, err := term.GetSize(fd)
	if err != nil || cols <= previewColumnOffset {
		return 0
	}
	return cols - previewColumnOffset
}

func writeJSON(w io.Writer, reports []commands.FileReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(reports)
}

func writeText(w io.Writer, reports []commands.FileReport) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	for i, r := range reports {
		if i > 0 {
			fmt.Fprintln(tw)
		}

		if r.Err() != nil {
			fmt.Fprintf(tw, "%s: %s\n", r.Path, r.Error)
			continue
		}

		fmt.Fprintf(tw, "%s: %d chunks\n", r.Path, len(r.Chunks))
		fmt.Fprintln(tw, "#\tTYPE\tLENGTH\tCRC\tFLAGS\tDATA")
		for _, c := range r.Chunks {
			fmt.Fprintf(tw, "%d\t%s\t%d\t%08x\t%s\t%s\n", c.Index, c.Type, c.Length, c.CRC, flags(c), c.Preview)
		}
	}

	return tw.Flush()
}

// flags renders the type flags as four letters: Critical/ancillary,
// Public/private, Reserved ok/invalid, Safe/unsafe to copy.
func flags(c commands.ChunkReport) string {
	b := []byte("apRu")
	if c.Critical {
		b[0] = 'C'
	}
	if c.Public {
		b[1] = 'P'
	}
	if !c.Valid {
		b[2] = 'x'
	}
	if c.SafeToCopy {
		b[3] = 'S'
	}
	return string(b)
}
