package framework

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

const (
	dirPerm  = 0755
	filePerm = 0600
)

// TestEnvironment builds the repo-manage binary once per test and runs
// it against throwaway collections under a temporary directory.
type TestEnvironment struct {
	t      *testing.T
	tmpDir string
	binary string
}

func NewTestEnvironment(t *testing.T) *TestEnvironment {
	t.Helper()

	env := &TestEnvironment{
		t:      t,
		tmpDir: t.TempDir(),
	}
	env.buildBinary()
	return env
}

func (e *TestEnvironment) buildBinary() {
	e.t.Helper()

	binary := filepath.Join(e.tmpDir, "repo-manage")
	if prebuilt := os.Getenv("REPO_MANAGE_E2E_BINARY"); prebuilt != "" {
		binary = prebuilt
		if _, err := os.Stat(binary); err != nil {
			e.t.Fatalf("Specified repo-manage binary not found: %s", binary)
		}
	} else {
		projectRoot := e.findProjectRoot()
		cmd := exec.Command("go", "build", "-o", binary, "./cmd/repo-manage")
		cmd.Dir = projectRoot
		if output, err := cmd.CombinedOutput(); err != nil {
			e.t.Fatalf("Failed to build repo-manage binary: %v\nOutput: %s", err, output)
		}
	}

	binary, err := filepath.Abs(filepath.Clean(binary))
	if err != nil {
		e.t.Fatalf("Failed to get absolute path for binary: %v", err)
	}
	e.binary = binary
}

func (e *TestEnvironment) findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		e.t.Fatalf("Failed to get working directory: %v", err)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			e.t.Fatal("Could not find project root (go.mod)")
		}
		dir = parent
	}
}

// Run runs repo-manage outside any collection.
func (e *TestEnvironment) Run(args ...string) (string, error) {
	cmd := exec.Command(e.binary, args...)
	cmd.Dir = e.tmpDir
	cmd.Env = append(os.Environ(), "HOME="+e.tmpDir)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

// CreateCollection creates an empty collection root under the test
// directory.
func (e *TestEnvironment) CreateCollection(name string) *Collection {
	e.t.Helper()

	path := filepath.Join(e.tmpDir, name)
	if err := os.MkdirAll(path, dirPerm); err != nil {
		e.t.Fatalf("Failed to create collection root: %v", err)
	}
	return &Collection{env: e, path: path}
}

func (e *TestEnvironment) TmpDir() string {
	return e.tmpDir
}

func (e *TestEnvironment) runInDir(dir, command string, args ...string) string {
	e.t.Helper()

	cmd := exec.Command(command, args...)
	cmd.Dir = dir
	output, err := cmd.CombinedOutput()
	if err != nil {
		e.t.Fatalf("Command failed in %s: %s %s\nOutput: %s\nError: %v",
			dir, command, strings.Join(args, " "), output, err)
	}
	return string(output)
}

func (e *TestEnvironment) writeFile(path, content string) {
	e.t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		e.t.Fatalf("Failed to create directory %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), filePerm); err != nil {
		e.t.Fatalf("Failed to write file %s: %v", path, err)
	}
}

// WriteFile writes content to an absolute path, creating parent
// directories as needed.
func (e *TestEnvironment) WriteFile(path, content string) {
	e.writeFile(path, content)
}

// Collection is one collection root holding checkouts.
type Collection struct {
	env  *TestEnvironment
	path string
}

// Run runs repo-manage with the collection as its working directory, so
// the default --root resolves here.
func (c *Collection) Run(args ...string) (string, error) {
	cmd := exec.Command(c.env.binary, args...)
	cmd.Dir = c.path
	cmd.Env = append(os.Environ(), "HOME="+c.env.tmpDir)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

// AddCheckout creates a real git repository with one commit under the
// collection root and returns its path.
func (c *Collection) AddCheckout(name string) string {
	c.env.t.Helper()

	path := filepath.Join(c.path, name)
	c.env.runInDir(c.path, "git", "init", name)
	c.env.runInDir(path, "git", "config", "user.name", "Test User")
	c.env.runInDir(path, "git", "config", "user.email", "test@example.com")

	c.env.writeFile(filepath.Join(path, "README.md"), "# "+name)
	c.env.runInDir(path, "git", "add", ".")
	c.env.runInDir(path, "git", "commit", "-m", "Initial commit")
	c.env.runInDir(path, "git", "branch", "-m", "main")

	return path
}

// AddPlainDir creates a directory that is not a git checkout.
func (c *Collection) AddPlainDir(name string) string {
	c.env.t.Helper()

	path := filepath.Join(c.path, name)
	if err := os.MkdirAll(path, dirPerm); err != nil {
		c.env.t.Fatalf("Failed to create directory: %v", err)
	}
	return path
}

// WriteConfig writes the collection configuration file.
func (c *Collection) WriteConfig(content string) {
	c.env.writeFile(filepath.Join(c.path, ".repo-manage.yml"), content)
}

func (c *Collection) Path() string {
	return c.path
}

func (c *Collection) HasFile(path string) bool {
	_, err := os.Stat(filepath.Join(c.path, path))
	return err == nil
}

func (c *Collection) ReadFile(path string) string {
	content, err := os.ReadFile(filepath.Join(c.path, path))
	if err != nil {
		c.env.t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
