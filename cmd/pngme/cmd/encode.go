package cmd

import (
	"github.com/spf13/cobra"

	"github.com/javi11/pngme/internal/commands"
)

func init() {
	encodeCmd := &cobra.Command{
		Use:   "encode <file> <chunk-type> <message> [output]",
		Short: "Store a message in a new chunk",
		Long: `Append a chunk of the given 4-letter type holding the message.
The file is rewritten in place unless an output path is given.`,
		Args: cobra.RangeArgs(3, 4),
		RunE: runEncode,
	}

	encodeCmd.Flags().Bool("compress", false, "store the message as a zlib stream")

	rootCmd.AddCommand(encodeCmd)
}

func runEncode(cmd *cobra.Command, args []string) error {
	compress, _ := cmd.Flags().GetBool("compress")

	req := commands.EncodeRequest{
		Path:      args[0],
		ChunkType: args[1],
		Message:   args[2],
		Compress:  compress,
	}
	if len(args) == 4 {
		req.Output = args[3]
	}

	_, err := service.Encode(cmd.Context(), req)
	return err
}
