package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/quocvuong92/nimbuscode/internal/api"
	"github.com/quocvuong92/nimbuscode/internal/config"
	"github.com/quocvuong92/nimbuscode/internal/display"
	clierrors "github.com/quocvuong92/nimbuscode/internal/errors"
	"github.com/quocvuong92/nimbuscode/internal/history"
	"github.com/quocvuong92/nimbuscode/internal/logging"
	"github.com/quocvuong92/nimbuscode/internal/prompt"
)

const renderFallbackWidth = 80

// Dispatch runs one request end to end and returns the process exit code.
// Any error is printed to stderr as a single line.
func (app *App) Dispatch(ctx context.Context, req prompt.CommandRequest) int {
	if ctx == nil {
		ctx = context.Background()
	}
	err := app.dispatch(ctx, req)
	if err != nil {
		app.logger.Debug("command failed", logging.Fields{
			"command": req.Subcommand.String(),
			"error":   err.Error(),
		})
		display.ShowError(app.stderr, err.Error())
	}
	return clierrors.ExitCode(err)
}

func (app *App) dispatch(ctx context.Context, req prompt.CommandRequest) error {
	if err := prompt.Validate(req); err != nil {
		return err
	}
	if !req.Subcommand.RequiresAPIKey() {
		return app.runConfig(req)
	}

	cfg, err := app.resolveConfig(req)
	if err != nil {
		return err
	}

	switch req.Subcommand {
	case prompt.SubcommandModels:
		return app.runModels(ctx, cfg)
	case prompt.SubcommandInteractive:
		return app.runInteractive(ctx, cfg)
	}

	messages, err := prompt.Build(req)
	if err != nil {
		return err
	}

	client, err := app.newClient(cfg, app.logger)
	if err != nil {
		return err
	}

	app.logger.Debug("sending request", logging.Fields{
		"command": req.Subcommand.String(),
		"model":   cfg.Model,
	})
	reply, err := app.complete(ctx, client, messages, cfg.Model)
	if err != nil {
		return err
	}
	return app.emit(req, cfg, reply)
}

// resolveConfig merges flag, environment and file settings for one request
func (app *App) resolveConfig(req prompt.CommandRequest) (*config.Config, error) {
	fc := app.fileConfig()

	cfg := config.NewConfig()
	cfg.Verbose = app.cfg.Verbose
	cfg.Render = app.cfg.Render
	cfg.Copy = app.cfg.Copy
	cfg.APIKey = config.ResolveAPIKey(req.Flag(prompt.FlagAPIKey), fc)
	cfg.Model = req.Flag(prompt.FlagModel)
	cfg.ApplyFileConfig(fc)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// complete performs one API call, showing a spinner on an interactive stderr
func (app *App) complete(ctx context.Context, client api.AIClient, messages []history.Message, model string) (string, error) {
	sp := display.NewSpinner("Thinking...", app.stderrFile())
	sp.Start()
	reply, err := client.Complete(ctx, messages, model)
	sp.Stop()
	return reply, err
}

func (app *App) runModels(ctx context.Context, cfg *config.Config) error {
	client, err := app.newClient(cfg, app.logger)
	if err != nil {
		return err
	}

	sp := display.NewSpinner("Fetching models...", app.stderrFile())
	sp.Start()
	models, err := client.ListModels(ctx)
	sp.Stop()
	if err != nil {
		return err
	}

	display.ShowModels(app.stdout, models, cfg.Model)
	return nil
}

// emit prints the reply, or writes it to the --save path, then extracts
// code blocks and copies it to the clipboard when requested
func (app *App) emit(req prompt.CommandRequest, cfg *config.Config, reply string) error {
	if path := req.Flag(prompt.FlagSave); path != "" {
		content := reply
		if req.Subcommand == prompt.SubcommandGenerate || req.Subcommand == prompt.SubcommandImprove {
			content = display.FirstCodeBlock(reply)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return clierrors.NewFilesystemError(path, err)
		}
		display.ShowSuccess(app.stderr, fmt.Sprintf("Saved to %s", path))
	} else {
		app.showReply(cfg, reply)
	}

	if extract, _ := strconv.ParseBool(req.Flag(prompt.FlagExtract)); extract {
		if err := app.extractCodeBlocks(reply); err != nil {
			return err
		}
	}

	if cfg.Copy {
		if err := display.CopyToClipboard(reply); err != nil {
			app.logger.Warn("clipboard copy failed", logging.Fields{"error": err.Error()})
			display.ShowInfo(app.stderr, fmt.Sprintf("Could not copy to clipboard: %v", err))
		} else {
			display.ShowSuccess(app.stderr, "Copied to clipboard")
		}
	}
	return nil
}

// extractCodeBlocks writes every fenced block of reply to code_block_<N>.txt
func (app *App) extractCodeBlocks(reply string) error {
	blocks := display.ExtractCodeBlocks(reply)
	if len(blocks) == 0 {
		display.ShowInfo(app.stderr, "No code blocks found in the response")
		return nil
	}
	for i, block := range blocks {
		path := filepath.Join(app.workDir, fmt.Sprintf("code_block_%d.txt", i+1))
		if err := os.WriteFile(path, []byte(block.Code), 0644); err != nil {
			return clierrors.NewFilesystemError(path, err)
		}
		display.ShowSuccess(app.stderr, fmt.Sprintf("Code block saved to %s", path))
	}
	return nil
}

// showReply prints a reply, rendered as markdown when --render is set
func (app *App) showReply(cfg *config.Config, reply string) {
	if !cfg.Render {
		display.ShowContent(app.stdout, reply)
		return
	}

	width := display.TerminalWidth(app.stdoutFile(), renderFallbackWidth)
	out, err := display.RenderMarkdown(reply, "", width)
	if err != nil {
		app.logger.Warn("markdown rendering failed", logging.Fields{"error": err.Error()})
		display.ShowContent(app.stdout, reply)
		return
	}
	fmt.Fprint(app.stdout, out)
}
