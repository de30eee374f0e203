package cmd

import (
	"github.com/spf13/cobra"

	"github.com/javi11/pngme/internal/commands"
)

func init() {
	removeCmd := &cobra.Command{
		Use:   "remove <file> <chunk-type> [output]",
		Short: "Remove the first chunk of a type",
		Args:  cobra.RangeArgs(2, 3),
		RunE:  runRemove,
	}

	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	req := commands.RemoveRequest{
		Path:      args[0],
		ChunkType: args[1],
	}
	if len(args) == 3 {
		req.Output = args[2]
	}

	_, err := service.Remove(cmd.Context(), req)
	return err
}
