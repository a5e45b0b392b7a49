package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/quocvuong92/nimbuscode/internal/display"
	"github.com/quocvuong92/nimbuscode/internal/logging"
)

type slashCommand struct {
	name        string
	usage       string
	description string
}

var slashCommands = []slashCommand{
	{"/model", "/model [id]", "Show or switch the model"},
	{"/models", "/models", "List free models"},
	{"/clear", "/clear, /c", "Clear conversation history"},
	{"/help", "/help, /h", "Show this help"},
	{"/exit", "/exit, /quit, /q", "Exit interactive mode"},
}

// handleCommand processes slash commands in interactive mode.
// Returns true if the session should exit, false otherwise.
func (s *InteractiveSession) handleCommand(ctx context.Context, input string) bool {
	parts := strings.Fields(input)
	cmd := strings.ToLower(parts[0])

	switch cmd {
	case "/exit", "/quit", "/q":
		fmt.Fprintln(s.app.stdout, "Goodbye!")
		return true

	case "/clear", "/c":
		s.conversation.Reset()
		s.logger.Debug("conversation cleared")
		fmt.Fprintln(s.app.stdout, "Conversation cleared.")

	case "/help", "/h":
		s.showHelp()

	case "/model":
		s.handleModelCommand(parts[1:])

	case "/models":
		s.handleModelsCommand(ctx)

	default:
		fmt.Fprintf(s.app.stdout, "Unknown command: %s\n", cmd)
		fmt.Fprintln(s.app.stdout, "Type /help for available commands")
	}

	return false
}

func (s *InteractiveSession) showHelp() {
	fmt.Fprintln(s.app.stdout, "\nCommands:")
	for _, c := range slashCommands {
		fmt.Fprintf(s.app.stdout, "  %-24s %s\n", c.usage, c.description)
	}
	fmt.Fprintf(s.app.stdout, "  %-24s %s\n", "exit, quit, q", "Exit interactive mode")
	fmt.Fprintf(s.app.stdout, "  %-24s %s\n", "line ending in \\", "Continue input on the next line")
	fmt.Fprintln(s.app.stdout)
}

// handleModelCommand shows the current model or switches to a new one.
// The conversation is kept across a switch.
func (s *InteractiveSession) handleModelCommand(args []string) {
	if len(args) == 0 {
		fmt.Fprintf(s.app.stdout, "Current model: %s\n", s.model)
		return
	}
	old := s.model
	s.model = args[0]
	s.logger.Debug("model switched", logging.Fields{"from": old, "to": s.model})
	fmt.Fprintf(s.app.stdout, "Switched model: %s -> %s\n", old, s.model)
}

func (s *InteractiveSession) handleModelsCommand(ctx context.Context) {
	models, err := s.client.ListModels(ctx)
	if err != nil {
		display.ShowError(s.app.stderr, err.Error())
		return
	}
	display.ShowModels(s.app.stdout, models, s.model)
}
