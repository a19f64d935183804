// Package cmd implements the command-line interface for goflix.
package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/AlecAivazis/survey/v2"
	"github.com/goflix/goflix/catalog"
	"github.com/goflix/goflix/color"
	"github.com/goflix/goflix/filesystem"
	"github.com/goflix/goflix/icon"
	"github.com/goflix/goflix/style"
	"github.com/goflix/goflix/util"
	"github.com/goflix/goflix/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(catalogCmd)
}

// catalogCmd groups the commands inspecting the media catalog.
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect and manage the media catalog",
}

func init() {
	catalogCmd.AddCommand(catalogListCmd)
	catalogListCmd.Flags().StringP("category", "c", "", "List only the titles of this category")
	_ = catalogListCmd.RegisterFlagCompletionFunc("category", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		c, err := catalog.Load()
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		return c.Names(), cobra.ShellCompDirectiveNoFileComp
	})
}

// catalogListCmd prints the categories and their titles.
var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog categories and titles",
	Run: func(cmd *cobra.Command, args []string) {
		c, err := catalog.Load()
		handleErr(err)

		categories := c.Categories
		if name := lo.Must(cmd.Flags().GetString("category")); name != "" {
			category, ok := c.Category(name).Get()
			if !ok {
				handleErr(fmt.Errorf("unknown category %s", style.Fg(color.Red)(name)))
			}
			categories = []catalog.Category{category}
		}

		width := 80
		if w, _, err := util.TerminalSize(); err == nil {
			width = w
		}
		truncate := style.Truncate(util.Max(width-4, 10))

		for i, category := range categories {
			cmd.Printf("%s %s %s\n",
				icon.Get(icon.Category),
				style.New().Bold(true).Foreground(style.AccentColor).Render(category.Name),
				style.Faint(util.Quantify(len(category.Titles), "title", "titles")),
			)
			for _, title := range category.Titles {
				cmd.Println(truncate(fmt.Sprintf("  %s %s", style.Fg(color.Yellow)(title.ID), title.Title)))
			}

			if i < len(categories)-1 {
				cmd.Println()
			}
		}
	},
}

func init() {
	catalogCmd.AddCommand(catalogSearchCmd)
	catalogSearchCmd.Flags().BoolP("json", "j", false, "Format the output as a JSON string")
}

// catalogSearchCmd runs the title search used by the search screen.
var catalogSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search catalog titles by name",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		c, err := catalog.Load()
		handleErr(err)

		matches := c.Search(args[0])

		if lo.Must(cmd.Flags().GetBool("json")) {
			titles := lo.Map(matches, func(m catalog.Match, _ int) catalog.Title {
				return m.Title
			})
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(titles))
			return
		}

		if len(matches) == 0 {
			cmd.Printf("%s no titles found\n", icon.Get(icon.Search))
			if suggestions := c.Suggest(args[0], 3); len(suggestions) > 0 {
				cmd.Printf("did you mean %s?\n", style.Fg(color.Yellow)(suggestions[0]))
			}
			return
		}

		for _, m := range matches {
			cmd.Printf("%s %s %s\n", style.Fg(color.Yellow)(m.Title.ID), m.Title.Title, style.Faint(m.Category))
		}
	},
}

func init() {
	catalogCmd.AddCommand(catalogSchemaCmd)
}

// catalogSchemaCmd prints the JSON schema of catalog files.
var catalogSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of the catalog file",
	Run: func(cmd *cobra.Command, args []string) {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		handleErr(encoder.Encode(catalog.Schema()))
	},
}

func init() {
	catalogCmd.AddCommand(catalogInitCmd)
	catalogInitCmd.Flags().BoolP("force", "f", false, "Overwrite an existing catalog file without asking")
}

// catalogInitCmd writes the built-in catalog where it will be read from, so it can be edited.
var catalogInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the built-in catalog to the catalog path for editing",
	Run: func(cmd *cobra.Command, args []string) {
		var (
			force = lo.Must(cmd.Flags().GetBool("force"))
			path  = where.Catalog()
		)

		_, err := filesystem.API().Stat(path)
		switch {
		case err == nil && !force:
			var overwrite bool
			handleErr(survey.AskOne(&survey.Confirm{
				Message: fmt.Sprintf("%s already exists. Overwrite?", path),
				Default: false,
			}, &overwrite))
			if !overwrite {
				return
			}
		case err != nil && !errors.Is(err, fs.ErrNotExist):
			handleErr(err)
		}

		erase := util.PrintErasable(fmt.Sprintf("%s Writing catalog...", icon.Get(icon.Progress)))
		err = filesystem.API().MkdirAll(filepath.Dir(path), 0o755)
		if err == nil {
			err = filesystem.API().WriteFile(path, catalog.DefaultJSON(), 0o644)
		}
		erase()
		handleErr(err)

		cmd.Printf(
			"%s wrote catalog to %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			path,
		)
	},
}
