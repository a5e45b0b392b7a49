package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	goprompt "github.com/elk-language/go-prompt"
	istrings "github.com/elk-language/go-prompt/strings"
	"github.com/google/uuid"

	"github.com/quocvuong92/nimbuscode/internal/api"
	"github.com/quocvuong92/nimbuscode/internal/config"
	"github.com/quocvuong92/nimbuscode/internal/constants"
	"github.com/quocvuong92/nimbuscode/internal/display"
	"github.com/quocvuong92/nimbuscode/internal/history"
	"github.com/quocvuong92/nimbuscode/internal/logging"
	"github.com/quocvuong92/nimbuscode/internal/prompt"
)

// maxLineSize bounds a single line read from piped input
const maxLineSize = 1024 * 1024

// InteractiveSession holds the state for an interactive chat session.
// The conversation lives only as long as the session.
type InteractiveSession struct {
	app          *App
	client       api.AIClient
	cfg          *config.Config
	conversation *history.Conversation
	model        string
	id           string
	exitFlag     bool
	inputBuffer  []string // Buffer for multiline input
	logger       *logging.Logger
}

func newInteractiveSession(app *App, client api.AIClient, cfg *config.Config) *InteractiveSession {
	id := uuid.New().String()
	return &InteractiveSession{
		app:          app,
		client:       client,
		cfg:          cfg,
		conversation: history.NewConversation(prompt.InteractiveSystemPrompt),
		model:        cfg.Model,
		id:           id,
		logger:       app.logger.With(logging.Fields{"session": id}),
	}
}

// runInteractive starts the chat loop. A terminal gets a go-prompt REPL
// with slash command completion; anything else is read line by line.
func (app *App) runInteractive(ctx context.Context, cfg *config.Config) error {
	client, err := app.newClient(cfg, app.logger)
	if err != nil {
		return err
	}

	session := newInteractiveSession(app, client, cfg)
	session.logger.Debug("interactive session started", logging.Fields{"model": session.model})
	display.ShowBanner(app.stdout, session.model, session.id)

	if app.stdinIsTerminal() {
		session.runPrompt(ctx)
	} else if err := session.runLines(ctx, app.stdin); err != nil {
		return err
	}

	session.logger.Debug("interactive session ended", logging.Fields{"turns": session.conversation.Turns()})
	return nil
}

// runPrompt reads input with go-prompt until the session ends
func (s *InteractiveSession) runPrompt(ctx context.Context) {
	p := goprompt.New(
		func(input string) { s.handleInput(ctx, input) },
		goprompt.WithCompleter(s.completer),
		goprompt.WithPrefix("> "),
		goprompt.WithTitle(constants.AppTitle),
		goprompt.WithPrefixTextColor(goprompt.Green),
		goprompt.WithSuggestionBGColor(goprompt.DarkBlue),
		goprompt.WithSuggestionTextColor(goprompt.White),
		goprompt.WithSelectedSuggestionBGColor(goprompt.Cyan),
		goprompt.WithSelectedSuggestionTextColor(goprompt.Black),
		goprompt.WithDescriptionBGColor(goprompt.DarkBlue),
		goprompt.WithDescriptionTextColor(goprompt.LightGray),
		goprompt.WithSelectedDescriptionBGColor(goprompt.Cyan),
		goprompt.WithSelectedDescriptionTextColor(goprompt.Black),
		goprompt.WithExitChecker(func(in string, breakline bool) bool {
			return s.exitFlag
		}),
		goprompt.WithKeyBind(goprompt.KeyBind{
			Key: goprompt.ControlC,
			Fn: func(p *goprompt.Prompt) bool {
				fmt.Fprintln(s.app.stdout, "\nGoodbye!")
				s.exitFlag = true
				return false
			},
		}),
		goprompt.WithKeyBind(goprompt.KeyBind{
			Key: goprompt.ControlD,
			Fn: func(p *goprompt.Prompt) bool {
				if p.Buffer().Text() == "" {
					fmt.Fprintln(s.app.stdout, "Goodbye!")
					s.exitFlag = true
				}
				return false
			},
		}),
	)
	p.Run()
}

// runLines reads one input per line from r until EOF or an exit keyword
func (s *InteractiveSession) runLines(ctx context.Context, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	fmt.Fprint(s.app.stdout, "> ")
	for !s.exitFlag && scanner.Scan() {
		s.handleInput(ctx, scanner.Text())
		if !s.exitFlag && len(s.inputBuffer) == 0 {
			fmt.Fprint(s.app.stdout, "> ")
		}
	}
	if !s.exitFlag {
		fmt.Fprintln(s.app.stdout)
	}
	return scanner.Err()
}

// completer suggests slash commands, and free model IDs after /model
func (s *InteractiveSession) completer(d goprompt.Document) ([]goprompt.Suggest, istrings.RuneNumber, istrings.RuneNumber) {
	text := d.TextBeforeCursor()
	endIndex := d.CurrentRuneIndex()
	w := d.GetWordBeforeCursor()
	startIndex := endIndex - istrings.RuneCountInString(w)

	if !strings.HasPrefix(text, "/") {
		return []goprompt.Suggest{}, startIndex, endIndex
	}

	if strings.HasPrefix(strings.ToLower(text), "/model ") {
		suggestions := []goprompt.Suggest{{Text: s.model, Description: "(current)"}}
		if s.model != config.DefaultModel {
			suggestions = append(suggestions, goprompt.Suggest{Text: config.DefaultModel, Description: "(default)"})
		}
		return goprompt.FilterHasPrefix(suggestions, w, true), startIndex, endIndex
	}

	suggestions := make([]goprompt.Suggest, 0, len(slashCommands))
	for _, c := range slashCommands {
		suggestions = append(suggestions, goprompt.Suggest{Text: c.name, Description: c.description})
	}
	return goprompt.FilterHasPrefix(suggestions, w, true), startIndex, endIndex
}

// handleInput processes one line: continuation, exit keywords, slash
// commands, then chat turns
func (s *InteractiveSession) handleInput(ctx context.Context, input string) {
	if s.exitFlag {
		return
	}

	// Handle multiline input with backslash continuation
	if strings.HasSuffix(input, "\\") {
		s.inputBuffer = append(s.inputBuffer, strings.TrimSuffix(input, "\\"))
		fmt.Fprint(s.app.stdout, "... ")
		return
	}
	if len(s.inputBuffer) > 0 {
		s.inputBuffer = append(s.inputBuffer, input)
		input = strings.Join(s.inputBuffer, "\n")
		s.inputBuffer = nil
	}

	input = strings.TrimSpace(input)
	if input == "" {
		return
	}

	if isExitKeyword(input) {
		fmt.Fprintln(s.app.stdout, "Goodbye!")
		s.exitFlag = true
		return
	}

	if strings.HasPrefix(input, "/") {
		if s.handleCommand(ctx, input) {
			s.exitFlag = true
		}
		return
	}

	s.processTurn(ctx, input)
}

// processTurn sends the whole conversation plus input. A failed call
// leaves the user message in place so the next turn can retry.
func (s *InteractiveSession) processTurn(ctx context.Context, input string) {
	if err := s.conversation.Append(history.UserMessage(input)); err != nil {
		display.ShowError(s.app.stderr, err.Error())
		return
	}

	reply, err := s.app.complete(ctx, s.client, s.conversation.Messages(), s.model)
	if err != nil {
		s.logger.Debug("turn failed", logging.Fields{"error": err.Error()})
		display.ShowError(s.app.stderr, err.Error())
		return
	}

	if err := s.conversation.Append(history.AssistantMessage(reply)); err != nil {
		display.ShowError(s.app.stderr, err.Error())
		return
	}
	fmt.Fprintln(s.app.stdout)
	s.app.showReply(s.cfg, reply)
	fmt.Fprintln(s.app.stdout)
}

func isExitKeyword(input string) bool {
	input = strings.ToLower(strings.TrimSpace(input))
	for _, kw := range constants.ExitKeywords {
		if input == kw {
			return true
		}
	}
	return false
}
