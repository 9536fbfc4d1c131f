package review

import (
	"fmt"
	"strings"

	"github.com/sevigo/mr-warden/internal/core"
	"github.com/sevigo/mr-warden/internal/llm"
)

// Assembler turns the gathered review context into the model prompt. It does
// no I/O, and identical inputs give byte-identical output.
type Assembler struct {
	prompts  *llm.PromptManager
	provider llm.ModelProvider
}

func NewAssembler(prompts *llm.PromptManager, provider llm.ModelProvider) *Assembler {
	if provider == "" {
		provider = llm.DefaultProvider
	}
	return &Assembler{prompts: prompts, provider: provider}
}

type reviewPromptData struct {
	Repo             string
	Title            string
	Description      string
	Commits          string
	Changes          string
	FilePathsContext string
	AllChanges       string
}

// Assemble renders the review prompt from the repository snapshot, the change
// set (metadata, diffs and commits), and the touched files' contents.
func (a *Assembler) Assemble(snapshot *core.FileContents, cs *core.ChangeSet, changedFiles *core.FileContents) (string, error) {
	data := reviewPromptData{
		Repo:             formatFiles(snapshot),
		Title:            cs.Title,
		Description:      cs.Description,
		Commits:          formatCommits(cs.Commits),
		Changes:          formatChanges(cs.Changes),
		FilePathsContext: formatFiles(changedFiles),
		AllChanges:       string(cs.Raw),
	}

	prompt, err := a.prompts.Render(llm.CodeReviewPrompt, a.provider, data)
	if err != nil {
		return "", fmt.Errorf("failed to render review prompt: %w", err)
	}
	return prompt, nil
}

// Persona returns the system string that accompanies the prompt.
func (a *Assembler) Persona() (string, error) {
	return a.prompts.Persona(a.provider)
}

func formatFiles(files *core.FileContents) string {
	if files == nil || files.Len() == 0 {
		return "(no files)"
	}
	var sb strings.Builder
	files.Each(func(path, content string) {
		fmt.Fprintf(&sb, "--- %s ---\n%s\n", path, strings.TrimRight(content, "\n"))
	})
	return strings.TrimRight(sb.String(), "\n")
}

func formatCommits(commits []core.Commit) string {
	if len(commits) == 0 {
		return "(no commits)"
	}
	var sb strings.Builder
	for _, c := range commits {
		fmt.Fprintf(&sb, "\n- Commit title: %s\n  Commit description: %s", c.Title, strings.TrimSpace(c.Message))
	}
	return sb.String()
}

func formatChanges(changes []core.Change) string {
	if len(changes) == 0 {
		return "(no changes)"
	}
	var sb strings.Builder
	for i, c := range changes {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "%s -> %s%s\n%s", c.OldPath, c.NewPath, changeFlags(c), strings.TrimRight(c.Diff, "\n"))
	}
	return sb.String()
}

func changeFlags(c core.Change) string {
	var flags []string
	if c.NewFile {
		flags = append(flags, "new")
	}
	if c.RenamedFile {
		flags = append(flags, "renamed")
	}
	if c.DeletedFile {
		flags = append(flags, "deleted")
	}
	if len(flags) == 0 {
		return ""
	}
	return " (" + strings.Join(flags, ", ") + ")"
}
