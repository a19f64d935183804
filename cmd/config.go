// Package cmd implements the command-line interface for goflix.
package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/goflix/goflix/color"
	"github.com/goflix/goflix/config"
	"github.com/goflix/goflix/constant"
	"github.com/goflix/goflix/filesystem"
	"github.com/goflix/goflix/icon"
	"github.com/goflix/goflix/key"
	"github.com/goflix/goflix/style"
	"github.com/goflix/goflix/util"
	"github.com/goflix/goflix/where"
	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// configFile is where goflix keeps its settings.
func configFile() string {
	return filepath.Join(where.Config(), constant.App+".toml")
}

// lookupField returns the registered field for name, suggesting the closest key otherwise.
func lookupField(name string) (config.Field, error) {
	if field, ok := config.Default[name]; ok {
		return field, nil
	}

	closest := lo.MinBy(lo.Keys(config.Default), func(a, b string) bool {
		return levenshtein.Distance(name, a) < levenshtein.Distance(name, b)
	})
	return config.Field{}, fmt.Errorf(
		"unknown key %s, did you mean %s?",
		style.Fg(color.Red)(name),
		style.Fg(color.Yellow)(closest),
	)
}

// keyFrom takes the key from the first argument, falling back to --key.
func keyFrom(cmd *cobra.Command, args []string) (config.Field, error) {
	name := lo.Must(cmd.Flags().GetString("key"))
	if len(args) > 0 {
		name = args[0]
	}
	if name == "" {
		return config.Field{}, errors.New("key is required as an argument or --key flag")
	}
	return lookupField(name)
}

// oneOf lists the accepted values of enumerated keys.
var oneOf = map[string][]string{
	key.PlayerEngine: {constant.EngineMPV},
	key.IconsVariant: icon.AvailableVariants(),
}

// parseValue converts raw command line values into the type of field's default and checks
// the ranges the player depends on.
func parseValue(field config.Field, raw []string) (any, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%s needs a value", field.Key)
	}

	switch field.Value.(type) {
	case []string:
		return raw, nil
	case bool:
		b, err := strconv.ParseBool(raw[0])
		if err != nil {
			return nil, fmt.Errorf("%s expects true or false, got %q", field.Key, raw[0])
		}
		return b, nil
	case int:
		n, err := strconv.Atoi(raw[0])
		if err != nil {
			return nil, fmt.Errorf("%s expects a whole number, got %q", field.Key, raw[0])
		}

		switch field.Key {
		case key.PlayerInitialVolume:
			if n < 0 || n > 100 {
				return nil, fmt.Errorf("%s must be between 0 and 100", field.Key)
			}
		case key.PlayerControlsDwell, key.PlayerCommandTimeout, key.PlayerSeekStep:
			if n <= 0 {
				return nil, fmt.Errorf("%s must be positive", field.Key)
			}
		case key.TUIItemSpacing:
			if n < 0 {
				return nil, fmt.Errorf("%s must not be negative", field.Key)
			}
		}
		return n, nil
	}

	value := raw[0]
	if options, ok := oneOf[field.Key]; ok && !lo.Contains(options, value) {
		return nil, fmt.Errorf("%s must be one of: %s", field.Key, strings.Join(options, ", "))
	}
	if field.Key == key.LogsLevel {
		if _, err := logrus.ParseLevel(value); err != nil {
			return nil, err
		}
	}
	return value, nil
}

// persist writes the in-memory settings, creating the config file on first use.
func persist() error {
	err := viper.WriteConfig()
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		return viper.SafeWriteConfig()
	}
	return err
}

// sections groups fields by the part of their key before the first dot, sections sorted by name.
func sections(fields []config.Field) [][]config.Field {
	sort.Slice(fields, func(i, j int) bool {
		return fields[i].Key < fields[j].Key
	})

	grouped := lo.GroupBy(fields, func(f config.Field) string {
		section, _, _ := strings.Cut(f.Key, ".")
		return section
	})
	names := lo.Keys(grouped)
	sort.Strings(names)

	return lo.Map(names, func(name string, _ int) []config.Field {
		return grouped[name]
	})
}

func completionConfigKeys(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return lo.Keys(config.Default), cobra.ShellCompDirectiveNoFileComp
}

func success(format string, a ...any) {
	fmt.Printf("%s %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), fmt.Sprintf(format, a...))
}

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and change player, catalog and interface settings",
}

func init() {
	configCmd.AddCommand(configInfoCmd)
	configInfoCmd.Flags().StringSliceP("key", "k", []string{}, "Only describe these keys")
	configInfoCmd.Flags().BoolP("json", "j", false, "Print the fields as JSON")
	_ = configInfoCmd.RegisterFlagCompletionFunc("key", completionConfigKeys)

	configInfoCmd.SetOut(os.Stdout)
}

// configInfoCmd describes settings section by section: player, comments, catalog and so on.
var configInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Describe settings with their current and default values",
	Run: func(cmd *cobra.Command, args []string) {
		fields := lo.Values(config.Default)

		if names := lo.Must(cmd.Flags().GetStringSlice("key")); len(names) > 0 {
			fields = lo.Map(names, func(name string, _ int) config.Field {
				field, err := lookupField(name)
				handleErr(err)
				return field
			})
		}

		grouped := sections(fields)

		if lo.Must(cmd.Flags().GetBool("json")) {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			lo.Must0(encoder.Encode(lo.Flatten(grouped)))
			return
		}

		header := style.New().Bold(true).Foreground(color.HiPurple).Render
		for i, section := range grouped {
			name, _, _ := strings.Cut(section[0].Key, ".")
			cmd.Println(header("[" + name + "]"))

			for j := range section {
				cmd.Println(section[j].Pretty())
				if j < len(section)-1 {
					cmd.Println()
				}
			}

			if i < len(grouped)-1 {
				cmd.Println()
			}
		}
	},
}

func init() {
	configCmd.AddCommand(configSetCmd)
	configSetCmd.Flags().StringP("key", "k", "", "Key to change")
	configSetCmd.Flags().StringSliceP("value", "v", []string{}, "New value")
	_ = configSetCmd.RegisterFlagCompletionFunc("key", completionConfigKeys)
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change a setting",
	Example: "  goflix config set player.initial_volume 60\n" +
		"  goflix config set player.default_media https://example.com/trailer.mp4",
	Args:              cobra.MaximumNArgs(2),
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		field, err := keyFrom(cmd, args)
		handleErr(err)

		raw := lo.Must(cmd.Flags().GetStringSlice("value"))
		if len(args) > 1 {
			raw = args[1:]
		}

		value, err := parseValue(field, raw)
		handleErr(err)

		viper.Set(field.Key, value)
		handleErr(persist())

		success("set %s to %s",
			style.Fg(color.Purple)(field.Key),
			style.Fg(color.Yellow)(fmt.Sprint(value)),
		)
	},
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configGetCmd.Flags().StringP("key", "k", "", "Key to print")
	_ = configGetCmd.RegisterFlagCompletionFunc("key", completionConfigKeys)
}

var configGetCmd = &cobra.Command{
	Use:               "get [key]",
	Short:             "Print the value a setting currently resolves to",
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		field, err := keyFrom(cmd, args)
		handleErr(err)

		fmt.Println(viper.Get(field.Key))
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configInitCmd.Flags().BoolP("force", "f", false, "Replace an existing config file")
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write every setting, defaults included, to the config file",
	Run: func(cmd *cobra.Command, args []string) {
		path := configFile()

		if lo.Must(cmd.Flags().GetBool("force")) {
			exists, err := filesystem.API().Exists(path)
			handleErr(err)
			if exists {
				handleErr(filesystem.API().Remove(path))
			}
		}

		handleErr(viper.SafeWriteConfig())
		success("wrote config to %s", path)
	},
}

func init() {
	configCmd.AddCommand(configDeleteCmd)
}

var configDeleteCmd = &cobra.Command{
	Use:     "delete",
	Short:   "Remove the config file so that defaults and environment apply",
	Aliases: []string{"remove"},
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(util.Delete(configFile()))
		success("deleted config")
	},
}

func init() {
	configCmd.AddCommand(configResetCmd)

	configResetCmd.Flags().StringP("key", "k", "", "Key to restore")
	configResetCmd.Flags().BoolP("all", "a", false, "Restore every key")
	configResetCmd.MarkFlagsMutuallyExclusive("key", "all")
	_ = configResetCmd.RegisterFlagCompletionFunc("key", completionConfigKeys)
}

var configResetCmd = &cobra.Command{
	Use:               "reset [key]",
	Short:             "Restore settings to their defaults",
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("all")) {
			for name, field := range config.Default {
				viper.Set(name, field.Value)
			}
			handleErr(persist())
			success("reset all settings")
			return
		}

		field, err := keyFrom(cmd, args)
		handleErr(err)

		viper.Set(field.Key, field.Value)
		handleErr(persist())

		success("reset %s to %s",
			style.Fg(color.Purple)(field.Key),
			style.Fg(color.Yellow)(fmt.Sprint(field.Value)),
		)
	},
}
