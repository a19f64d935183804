// Package cmd implements the command-line interface for goflix.
package cmd

import (
	"fmt"
	"path"
	"strings"

	"github.com/goflix/goflix/catalog"
	"github.com/goflix/goflix/tui"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(playCmd)
	playCmd.Flags().StringP("title", "t", "", "Play a catalog title by id or name, or name the given url")
}

// playCmd opens the player screen directly.
var playCmd = &cobra.Command{
	Use:   "play [url]",
	Short: "Open the player for a url or a catalog title",
	Long: `Open the player for a url or a catalog title.
Without arguments the configured default media is played.`,
	Example: `  goflix play https://example.com/video.mp4
  goflix play --title sintel`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name := lo.Must(cmd.Flags().GetString("title"))

		title, err := resolveTitle(args, name)
		handleErr(err)

		CheckDependencies()
		handleErr(tui.Run(&tui.Options{Play: mo.Some(title)}))
	},
}

// resolveTitle builds the title to play from the command line.
func resolveTitle(args []string, name string) (catalog.Title, error) {
	if len(args) == 1 {
		url := strings.TrimSpace(args[0])
		return catalog.Title{
			ID:       url,
			Title:    lo.Ternary(name != "", name, path.Base(url)),
			VideoURL: url,
		}, nil
	}

	if name == "" {
		return catalog.Title{Title: "Default media"}, nil
	}

	c, err := catalog.Load()
	if err != nil {
		return catalog.Title{}, err
	}

	if title, ok := c.Find(name).Get(); ok {
		return title, nil
	}

	title, ok := lo.Find(c.Titles(), func(t catalog.Title) bool {
		return strings.EqualFold(t.Title, name)
	})
	if !ok {
		return catalog.Title{}, fmt.Errorf("no title %q in the catalog", name)
	}
	return title, nil
}
