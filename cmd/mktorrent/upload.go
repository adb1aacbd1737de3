package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/WendelHime/mktorrent/internal/config"
	"github.com/WendelHime/mktorrent/internal/publish"
	"github.com/spf13/cobra"
)

var (
	title       string
	authors     string
	description string
	category    string
	tags        string
	urlList     string
	envFile     string
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file-or-directory>",
	Short: "Create a .torrent and submit it to the publishing endpoint",
	Long: `Creates the torrent like the root command does and posts it, base64
encoded, together with its metadata. Credentials are read from the
` + config.APIKeyEnv + ` environment variable (uid=<uid>&pass=<pass>),
which may also be set in a .env file.`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		creds, err := publish.ParseAPIKey(config.APIKey(envFile))
		if err != nil {
			return err
		}
		cat, err := publish.ParseCategory(category)
		if err != nil {
			return err
		}

		result, err := createTorrent(ctx, cmd, args[0])
		if err != nil {
			return err
		}

		settings, err := config.Load(configPath)
		if err != nil {
			return err
		}

		torrentName := result.Metainfo.Info.Name
		if cmd.Flags().Changed("title") {
			torrentName = title
		}

		page, err := publish.NewClient(settings.UploadURL, newLogger()).Upload(ctx, publish.Request{
			Torrent:     result.Torrent,
			Name:        torrentName,
			Authors:     authors,
			Description: description,
			Category:    cat,
			Tags:        tags,
			URLList:     urlList,
			Credentials: creds,
		})
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), string(page))
		return nil
	},
}

func init() {
	uploadCmd.Flags().StringVar(&title, "title", "", "name shown on the publishing site (default: torrent name)")
	uploadCmd.Flags().StringVar(&authors, "authors", "", "authors of the data")
	uploadCmd.Flags().StringVar(&description, "description", "", "description of the data")
	uploadCmd.Flags().StringVar(&category, "category", "dataset", "dataset or paper")
	uploadCmd.Flags().StringVar(&tags, "tags", "", "comma separated tags")
	uploadCmd.Flags().StringVar(&urlList, "urllist", "", "backup URLs of the data")
	uploadCmd.Flags().StringVar(&envFile, "env-file", ".env", "file with credentials")
}
