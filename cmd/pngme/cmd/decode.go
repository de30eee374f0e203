package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javi11/pngme/internal/commands"
)

func init() {
	decodeCmd := &cobra.Command{
		Use:   "decode <file> <chunk-type>",
		Short: "Print the message stored in a chunk",
		Args:  cobra.ExactArgs(2),
		RunE:  runDecode,
	}

	decodeCmd.Flags().Bool("compressed", false, "inflate a zlib compressed message")

	rootCmd.AddCommand(decodeCmd)
}

func runDecode(cmd *cobra.Command, args []string) error {
	compressed, _ := cmd.Flags().GetBool("compressed")

	msg, err := service.Decode(cmd.Context(), commands.DecodeRequest{
		Path:       args[0],
		ChunkType:  args[1],
		Compressed: compressed,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Chunk with type %s found: %s\n", args[1], msg)
	return nil
}
