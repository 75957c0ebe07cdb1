package domain

// ExecCommand represents an external command to be executed.
// It carries command information between layers without exposing os/exec.
type ExecCommand struct {
	Program string
	Dir     string
	Args    []string
}

// NewCommand creates an ExecCommand running program with args in dir.
// An empty dir runs in the current directory.
func NewCommand(program string, args []string, dir string) *ExecCommand {
	return &ExecCommand{
		Program: program,
		Args:    args,
		Dir:     dir,
	}
}

// DefaultEditor is used when neither EDITOR nor VISUAL is set.
const DefaultEditor = "vim"

// ResolveEditor returns the user's preferred editor. It checks EDITOR,
// then VISUAL, and falls back to DefaultEditor.
func ResolveEditor(getenv func(string) string) string {
	if editor := getenv("EDITOR"); editor != "" {
		return editor
	}
	if editor := getenv("VISUAL"); editor != "" {
		return editor
	}
	return DefaultEditor
}
