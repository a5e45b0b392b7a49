package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/quocvuong92/nimbuscode/internal/prompt"
)

type flagDef struct {
	shorthand string
	usage     string
	boolean   bool
}

var flagDefs = map[string]flagDef{
	prompt.FlagAPIKey:   {"k", "OpenRouter API key (overrides OPENROUTER_API_KEY and the config file)", false},
	prompt.FlagModel:    {"m", "Model ID (default: configured default_model)", false},
	prompt.FlagLanguage: {"l", "Programming language (default: python)", false},
	prompt.FlagSave:     {"", "Write the response to this file instead of printing it", false},
	prompt.FlagProvider: {"p", "Cloud provider: aws, azure or gcp (default: aws)", false},
	prompt.FlagPlatform: {"p", "Mobile platform: ios, android or cross (default: cross)", false},
	prompt.FlagFile:     {"f", "Include this file as context", false},
	prompt.FlagSystem:   {"s", "Replace the default system prompt", false},
	prompt.FlagExtract:  {"e", "Write each code block of the response to code_block_<N>.txt", true},
}

type promptCmdDef struct {
	sub     prompt.Subcommand
	use     string
	short   string
	example string
	flags   []string
}

var promptCmdDefs = []promptCmdDef{
	{
		sub:     prompt.SubcommandAsk,
		use:     "ask <question>",
		short:   "Ask a coding question",
		example: `  nimbuscode ask "How do I reverse a slice in Go?"` + "\n" + `  nimbuscode ask --file main.go "Why does this deadlock?"` + "\n" + `  nimbuscode ask -e "Write a Dockerfile and a compose file for a Flask app"`,
		flags:   []string{prompt.FlagFile, prompt.FlagSystem, prompt.FlagSave, prompt.FlagExtract},
	},
	{
		sub:     prompt.SubcommandGenerate,
		use:     "generate <description>",
		short:   "Generate code from a description",
		example: `  nimbuscode generate --language rust "parse a CSV file"`,
		flags:   []string{prompt.FlagLanguage, prompt.FlagSave},
	},
	{
		sub:     prompt.SubcommandImprove,
		use:     "improve <file>",
		short:   "Refactor and optimize a source file",
		example: `  nimbuscode improve app.py --save app_improved.py`,
		flags:   []string{prompt.FlagSave},
	},
	{
		sub:     prompt.SubcommandExplain,
		use:     "explain <file>",
		short:   "Explain a source file step by step",
		example: `  nimbuscode explain handler.go`,
	},
	{
		sub:     prompt.SubcommandCloud,
		use:     "cloud <description>",
		short:   "Get cloud deployment guidance",
		example: `  nimbuscode cloud --provider azure "host a Node.js API with a Postgres database"`,
		flags:   []string{prompt.FlagProvider, prompt.FlagSave},
	},
	{
		sub:     prompt.SubcommandMobile,
		use:     "mobile <description>",
		short:   "Get mobile app development guidance",
		example: `  nimbuscode mobile --platform android "offline-first notes app"`,
		flags:   []string{prompt.FlagPlatform, prompt.FlagSave},
	},
}

// newPromptCmds builds one command per prompt-producing subcommand
func (app *App) newPromptCmds() []*cobra.Command {
	cmds := make([]*cobra.Command, 0, len(promptCmdDefs))
	for _, def := range promptCmdDefs {
		flags := append([]string{prompt.FlagModel, prompt.FlagAPIKey}, def.flags...)
		cmd := app.newDispatchCmd(def.sub, def.use, def.short, flags...)
		cmd.Example = def.example
		cmds = append(cmds, cmd)
	}
	return cmds
}

func (app *App) newInteractiveCmd() *cobra.Command {
	cmd := app.newDispatchCmd(prompt.SubcommandInteractive, "interactive",
		"Start an interactive chat session", prompt.FlagModel, prompt.FlagAPIKey)
	cmd.Aliases = []string{"chat"}
	cmd.Args = cobra.NoArgs
	return cmd
}

func (app *App) newModelsCmd() *cobra.Command {
	cmd := app.newDispatchCmd(prompt.SubcommandModels, "models",
		"List the free models available on OpenRouter", prompt.FlagAPIKey)
	cmd.Args = cobra.NoArgs
	return cmd
}

// newDispatchCmd creates a command whose flags and positional
// arguments become a CommandRequest for Dispatch
func (app *App) newDispatchCmd(sub prompt.Subcommand, use, short string, flagNames ...string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := prompt.NewCommandRequest(sub, args, changedFlags(cmd.LocalFlags()))
			app.exitCode = app.Dispatch(cmd.Context(), req)
			return nil
		},
	}
	for _, name := range flagNames {
		def := flagDefs[name]
		if def.boolean {
			cmd.Flags().BoolP(name, def.shorthand, false, def.usage)
			continue
		}
		cmd.Flags().StringP(name, def.shorthand, "", def.usage)
	}
	return cmd
}

// changedFlags collects the local flags the user actually set
func changedFlags(fs *pflag.FlagSet) map[string]string {
	flags := make(map[string]string)
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Changed {
			flags[f.Name] = f.Value.String()
		}
	})
	return flags
}
