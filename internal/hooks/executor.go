// Package hooks runs the post-clone hooks from the collection
// configuration.
package hooks

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/satococoa/repo-manage/internal/config"
	"github.com/satococoa/repo-manage/internal/errors"
)

// Executor runs hooks against freshly cloned checkouts.
type Executor struct {
	config *config.Config
	root   string
}

// NewExecutor creates a hook executor for the collection rooted at
// root.
func NewExecutor(cfg *config.Config, root string) *Executor {
	return &Executor{config: cfg, root: root}
}

// ExecutePostCloneHooks runs every configured post-clone hook against
// the checkout at repoPath, streaming hook output to w. Copy sources
// resolve relative to the collection root, copy targets and command
// working directories relative to the checkout.
func (e *Executor) ExecutePostCloneHooks(w io.Writer, repoPath string) error {
	if !e.config.HasPostCloneHooks() {
		return nil
	}

	for i := range e.config.Hooks.PostClone {
		hook := &e.config.Hooks.PostClone[i]
		switch hook.Type {
		case "copy":
			if err := e.executeCopyHook(w, hook, repoPath); err != nil {
				return errors.HookExecutionFailed("copy", err)
			}
		case "command":
			if err := e.executeCommandHook(w, hook, repoPath); err != nil {
				return errors.HookExecutionFailed("command", err)
			}
		default:
			return errors.HookExecutionFailed(hook.Type, fmt.Errorf("unknown hook type"))
		}
	}
	return nil
}

func (e *Executor) executeCopyHook(w io.Writer, hook *config.Hook, repoPath string) error {
	from := hook.From
	if !filepath.IsAbs(from) {
		from = filepath.Join(e.root, from)
	}
	to := hook.To
	if !filepath.IsAbs(to) {
		to = filepath.Join(repoPath, to)
	}

	fmt.Fprintf(w, "  Copying: %s -> %s\n", hook.From, hook.To)

	info, err := os.Stat(from)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return copyDir(from, to)
	}
	return copyFile(from, to)
}

func (e *Executor) executeCommandHook(w io.Writer, hook *config.Hook, repoPath string) error {
	shell, flag := "sh", "-c"
	if runtime.GOOS == "windows" {
		shell, flag = "cmd", "/c"
	}

	cmd := exec.Command(shell, flag, hook.Command) // #nosec G204 - hook commands come from the user's own config
	cmd.Dir = resolveWorkDir(hook.WorkDir, repoPath)

	env := os.Environ()
	for key, value := range hook.Env {
		env = append(env, fmt.Sprintf("%s=%s", key, value))
	}
	env = append(env,
		"REPO_MANAGE_REPO_PATH="+repoPath,
		"REPO_MANAGE_ROOT="+e.root,
	)
	cmd.Env = env

	fmt.Fprintf(w, "  Running: %s\n", hook.Command)
	cmd.Stdout = w
	cmd.Stderr = w
	return cmd.Run()
}

func resolveWorkDir(workDir, repoPath string) string {
	if workDir == "" {
		return repoPath
	}
	if filepath.IsAbs(workDir) {
		return workDir
	}
	return filepath.Join(repoPath, workDir)
}

func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dst, data, info.Mode().Perm())
}

func copyDir(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		return copyFile(path, target)
	})
}
