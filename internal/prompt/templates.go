package prompt

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/quocvuong92/nimbuscode/internal/constants"
	clierrors "github.com/quocvuong92/nimbuscode/internal/errors"
	"github.com/quocvuong92/nimbuscode/internal/history"
)

// Template produces the system and user content for one subcommand
type Template interface {
	System() string
	User() string
}

// Ensure every template implements Template
var (
	_ Template = AskTemplate{}
	_ Template = GenerateTemplate{}
	_ Template = ImproveTemplate{}
	_ Template = ExplainTemplate{}
	_ Template = CloudTemplate{}
	_ Template = MobileTemplate{}
)

// InteractiveSystemPrompt seeds every interactive session
const InteractiveSystemPrompt = `You are NimbusCode, an expert programming assistant in an interactive session.
Give helpful, concise answers to the user's coding questions.
Use the earlier turns of the conversation as context and refer back to them when relevant.`

const askSystemPrompt = `You are NimbusCode, an expert programming assistant. Help the user write high-quality,
efficient and secure code. Give clear, concise explanations with code examples.
Point out best practices, performance and security considerations, and suggest improvements
to the user's code or approach when appropriate.`

// AskTemplate is a general coding question, optionally with a file as context
type AskTemplate struct {
	Question       string
	SystemOverride string
	ContextPath    string
	Context        string
}

func (t AskTemplate) System() string {
	if t.SystemOverride != "" {
		return t.SystemOverride
	}
	return askSystemPrompt
}

func (t AskTemplate) User() string {
	if t.ContextPath == "" {
		return t.Question
	}
	return fmt.Sprintf("File content (%s):\n%s\n\nQuestion: %s",
		filepath.Base(t.ContextPath), fence(t.ContextPath, t.Context), t.Question)
}

// GenerateTemplate asks for code only, in a target language
type GenerateTemplate struct {
	Language    string
	Description string
}

func (t GenerateTemplate) System() string {
	return fmt.Sprintf(`You are NimbusCode, an expert %[1]s developer. Generate high-quality, efficient and secure %[1]s code
for the user's description. Respond with code only, in a single %[1]s code block.
Put any explanation in code comments, not in prose outside the block.`, t.Language)
}

func (t GenerateTemplate) User() string {
	return t.Description
}

// ImproveTemplate asks for a refactored and optimized version of a file
type ImproveTemplate struct {
	Path string
	Code string
}

func (t ImproveTemplate) System() string {
	return `You are NimbusCode, an expert code reviewer and optimizer. Refactor and optimize the provided code,
focusing on readability, performance, security and error handling.
Return the complete improved code in one code block in the same language as the original,
then briefly list the changes you made.`
}

func (t ImproveTemplate) User() string {
	return fence(t.Path, t.Code)
}

// ExplainTemplate asks for a step-by-step explanation of a file
type ExplainTemplate struct {
	Path string
	Code string
}

func (t ExplainTemplate) System() string {
	return `You are NimbusCode, an expert code analyst. Explain the provided code step by step:
its overall purpose, the key components, how they work together, and any potential issues.
Break down complex parts and use small examples where they help.`
}

func (t ExplainTemplate) User() string {
	return fence(t.Path, t.Code)
}

// CloudTemplate asks for deployment guidance for one cloud provider
type CloudTemplate struct {
	Provider    string
	Description string
}

var cloudProviderNames = map[string]string{
	"aws":   "Amazon Web Services (AWS)",
	"azure": "Microsoft Azure",
	"gcp":   "Google Cloud Platform (GCP)",
}

func (t CloudTemplate) System() string {
	return fmt.Sprintf(`You are NimbusCode, an expert in cloud architecture and deployment on %s.
Give practical deployment guidance: required resources and services, infrastructure as code where applicable,
deployment steps, security considerations and cost optimization tips.`, cloudProviderNames[t.Provider])
}

func (t CloudTemplate) User() string {
	return t.Description
}

// MobileTemplate asks for app guidance on one mobile platform
type MobileTemplate struct {
	Platform    string
	Description string
}

var mobilePlatformNames = map[string]string{
	"ios":     "iOS (Swift/SwiftUI)",
	"android": "Android (Kotlin)",
	"cross":   "cross-platform (React Native/Flutter)",
}

func (t MobileTemplate) System() string {
	return fmt.Sprintf(`You are NimbusCode, an expert in %s mobile app development.
Give practical guidance covering app architecture, key components and screens, implementation details,
best practices and performance considerations.`, mobilePlatformNames[t.Platform])
}

func (t MobileTemplate) User() string {
	return t.Description
}

func cloudProvider(value string) (string, error) {
	p := strings.ToLower(strings.TrimSpace(value))
	if p == "" {
		p = constants.DefaultProvider
	}
	if _, ok := cloudProviderNames[p]; !ok {
		return "", clierrors.NewInputError(fmt.Sprintf("unknown provider %q (use aws, azure or gcp)", value), nil)
	}
	return p, nil
}

func mobilePlatform(value string) (string, error) {
	p := strings.ToLower(strings.TrimSpace(value))
	if p == "" {
		p = constants.DefaultPlatform
	}
	if _, ok := mobilePlatformNames[p]; !ok {
		return "", clierrors.NewInputError(fmt.Sprintf("unknown platform %q (use ios, android or cross)", value), nil)
	}
	return p, nil
}

// TemplateFor selects and fills the template for req, reading any input files
func TemplateFor(req CommandRequest) (Template, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}

	switch req.Subcommand {
	case SubcommandAsk:
		t := AskTemplate{Question: req.Text, SystemOverride: req.Flag(FlagSystem)}
		if path := req.Flag(FlagFile); path != "" {
			content, err := readSource(path)
			if err != nil {
				return nil, err
			}
			t.ContextPath, t.Context = path, content
		}
		return t, nil

	case SubcommandGenerate:
		lang := strings.TrimSpace(req.Flag(FlagLanguage))
		if lang == "" {
			lang = constants.DefaultLanguage
		}
		return GenerateTemplate{Language: lang, Description: req.Text}, nil

	case SubcommandImprove:
		code, err := readSource(req.Text)
		if err != nil {
			return nil, err
		}
		return ImproveTemplate{Path: req.Text, Code: code}, nil

	case SubcommandExplain:
		code, err := readSource(req.Text)
		if err != nil {
			return nil, err
		}
		return ExplainTemplate{Path: req.Text, Code: code}, nil

	case SubcommandCloud:
		p, err := cloudProvider(req.Flag(FlagProvider))
		if err != nil {
			return nil, err
		}
		return CloudTemplate{Provider: p, Description: req.Text}, nil

	case SubcommandMobile:
		p, err := mobilePlatform(req.Flag(FlagPlatform))
		if err != nil {
			return nil, err
		}
		return MobileTemplate{Platform: p, Description: req.Text}, nil

	default:
		return nil, clierrors.NewInputError(fmt.Sprintf("%s does not build a prompt", req.Subcommand), nil)
	}
}

// Build returns the system and user messages for req
func Build(req CommandRequest) ([]history.Message, error) {
	t, err := TemplateFor(req)
	if err != nil {
		return nil, err
	}
	return []history.Message{
		history.SystemMessage(t.System()),
		history.UserMessage(t.User()),
	}, nil
}

func readSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", clierrors.NewInputError(fmt.Sprintf("cannot read %s", path), err)
	}
	return string(data), nil
}

var fenceLanguages = map[string]string{
	".go":    "go",
	".py":    "python",
	".js":    "javascript",
	".ts":    "typescript",
	".rs":    "rust",
	".java":  "java",
	".kt":    "kotlin",
	".swift": "swift",
	".rb":    "ruby",
	".c":     "c",
	".h":     "c",
	".cpp":   "cpp",
	".cs":    "csharp",
	".sh":    "bash",
	".sql":   "sql",
	".yaml":  "yaml",
	".yml":   "yaml",
	".json":  "json",
}

// fence wraps code in a markdown block tagged with the language guessed from
// path. The fence is longer than any backtick run inside code.
func fence(path, code string) string {
	lang := fenceLanguages[strings.ToLower(filepath.Ext(path))]
	marker := strings.Repeat("`", max(3, longestBacktickRun(code)+1))
	return fmt.Sprintf("%s%s\n%s\n%s", marker, lang, strings.TrimRight(code, "\n"), marker)
}

func longestBacktickRun(s string) int {
	longest, run := 0, 0
	for _, r := range s {
		if r != '`' {
			run = 0
			continue
		}
		run++
		longest = max(longest, run)
	}
	return longest
}
