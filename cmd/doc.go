// Package cmd implements the nimbuscode command line.
//
// # Architecture
//
//   - root.go: Execute entry point, App struct, cobra root command and global flags
//   - commands.go: ask, generate, improve, explain, cloud, mobile, interactive and models commands
//   - config_cmd.go: the config command (store and show settings)
//   - dispatch.go: Dispatch, which runs one CommandRequest and maps errors to exit codes
//   - interactive.go: InteractiveSession REPL (go-prompt on a terminal, line reader otherwise)
//   - slash_commands.go: /help, /clear, /model, /models and /exit handlers
//
// # Request Flow
//
// Every command turns its arguments and changed flags into a
// prompt.CommandRequest and hands it to App.Dispatch:
//
//	validate -> resolve config and API key -> build prompt -> one API call -> print or save
//
// Errors are printed to stderr as one line. The exit code is 0 on success,
// 2 for filesystem failures and 1 for everything else.
//
// # Usage
//
//	func main() {
//	    cmd.Execute()
//	}
package cmd
