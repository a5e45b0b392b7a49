// Package prompt turns a parsed CLI invocation into the messages sent to
// the model. Each subcommand has its own Template type; Build selects one
// with a switch over the typed Subcommand.
package prompt

import (
	"fmt"
	"strings"

	clierrors "github.com/quocvuong92/nimbuscode/internal/errors"
)

// Subcommand identifies a CLI subcommand
type Subcommand int

const (
	SubcommandUnknown Subcommand = iota
	SubcommandConfig
	SubcommandAsk
	SubcommandGenerate
	SubcommandImprove
	SubcommandExplain
	SubcommandCloud
	SubcommandMobile
	SubcommandInteractive
	SubcommandModels
)

var subcommandNames = map[Subcommand]string{
	SubcommandConfig:      "config",
	SubcommandAsk:         "ask",
	SubcommandGenerate:    "generate",
	SubcommandImprove:     "improve",
	SubcommandExplain:     "explain",
	SubcommandCloud:       "cloud",
	SubcommandMobile:      "mobile",
	SubcommandInteractive: "interactive",
	SubcommandModels:      "models",
}

func (s Subcommand) String() string {
	if name, ok := subcommandNames[s]; ok {
		return name
	}
	return "unknown"
}

// RequiresArgument reports whether the subcommand needs free text
func (s Subcommand) RequiresArgument() bool {
	switch s {
	case SubcommandAsk, SubcommandGenerate, SubcommandImprove, SubcommandExplain, SubcommandCloud, SubcommandMobile:
		return true
	}
	return false
}

// RequiresAPIKey reports whether the subcommand talks to the provider
func (s Subcommand) RequiresAPIKey() bool {
	return s != SubcommandConfig && s != SubcommandUnknown
}

// argumentName is used in error messages for missing arguments
func (s Subcommand) argumentName() string {
	switch s {
	case SubcommandAsk:
		return "question"
	case SubcommandImprove, SubcommandExplain:
		return "file"
	default:
		return "description"
	}
}

// Flag names shared by the CLI and the builder
const (
	FlagAPIKey      = "api-key"
	FlagModel       = "model"
	FlagLanguage    = "language"
	FlagSave        = "save"
	FlagProvider    = "provider"
	FlagPlatform    = "platform"
	FlagFile        = "file"
	FlagSystem      = "system"
	FlagExtract     = "extract"
	FlagMaxTokens   = "max-tokens"
	FlagTemperature = "temperature"
	FlagShow        = "show"
)

// CommandRequest is one parsed CLI invocation
type CommandRequest struct {
	Subcommand Subcommand
	Text       string
	Flags      map[string]string
}

// NewCommandRequest joins positional args with spaces, dropping empty flags
func NewCommandRequest(sub Subcommand, args []string, flags map[string]string) CommandRequest {
	clean := make(map[string]string, len(flags))
	for k, v := range flags {
		if v != "" {
			clean[k] = v
		}
	}
	return CommandRequest{
		Subcommand: sub,
		Text:       strings.TrimSpace(strings.Join(args, " ")),
		Flags:      clean,
	}
}

// Flag returns a flag value or the empty string
func (r CommandRequest) Flag(name string) string {
	if r.Flags == nil {
		return ""
	}
	return r.Flags[name]
}

// Validate checks the request's arguments without touching the filesystem
func Validate(req CommandRequest) error {
	if req.Subcommand == SubcommandUnknown {
		return clierrors.NewInputError("unknown command", nil)
	}
	if req.Subcommand.RequiresArgument() && req.Text == "" {
		return clierrors.NewInputError(fmt.Sprintf("%s requires a %s argument", req.Subcommand, req.Subcommand.argumentName()), nil)
	}
	switch req.Subcommand {
	case SubcommandCloud:
		if _, err := cloudProvider(req.Flag(FlagProvider)); err != nil {
			return err
		}
	case SubcommandMobile:
		if _, err := mobilePlatform(req.Flag(FlagPlatform)); err != nil {
			return err
		}
	}
	return nil
}
