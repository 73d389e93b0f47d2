package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v2"

	"dashsync/internal/config"
	"dashsync/internal/utils"
)

func copyCommand() *cli.Command {
	return &cli.Command{
		Name:      "copy",
		Usage:     "copy text to the clipboard",
		ArgsUsage: "[text]",
		Description: `Copies the arguments (or stdin when none are given) using OSC 52 on an
attached terminal, otherwise the detected copy command.`,
		Flags: []cli.Flag{clipboardCommandFlag()},
		Action: func(ctx *cli.Context) error {
			text := strings.Join(ctx.Args().Slice(), " ")
			if ctx.NArg() == 0 {
				data, err := io.ReadAll(ctx.App.Reader)
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				text = strings.TrimRight(string(data), "\r\n")
			}
			if text == "" {
				return cli.Exit("nothing to copy", 2)
			}
			cfg := config.Default()
			cfg.ClipboardCommand = ctx.StringSlice("clipboard-command")
			logger := utils.NewLogger("-", "warn")
			defer logger.Close()
			if err := newClipboard(cfg, logger).Copy(ctx.Context, text); err != nil {
				return cli.Exit(fmt.Sprintf("copy failed: %v", err), 1)
			}
			fmt.Fprintln(ctx.App.ErrWriter, "Copied to clipboard")
			return nil
		},
	}
}
