package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/WendelHime/mktorrent/internal/decoder"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:          "inspect <file.torrent>",
	Short:        "Print the name, info hash and file list of a torrent",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		torrent, err := decoder.NewDecoder(newLogger()).Decode(f)
		if err != nil {
			return err
		}

		meta := torrent.Metainfo
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintf(w, "name\t%s\n", meta.Info.Name)
		fmt.Fprintf(w, "info hash\t%s\n", torrent.InfoHash.Hex())
		fmt.Fprintf(w, "announce\t%s\n", meta.Announce)
		fmt.Fprintf(w, "size\t%d\n", meta.Info.TotalLength())
		fmt.Fprintf(w, "piece length\t%d\n", meta.Info.PieceLength)
		fmt.Fprintf(w, "pieces\t%d\n", meta.Info.PieceCount())
		for _, p := range torrent.Paths() {
			fmt.Fprintf(w, "file\t%s\n", p)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
