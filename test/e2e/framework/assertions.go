package framework

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func AssertNoError(t *testing.T, err error) {
	t.Helper()
	assert.NoError(t, err)
}

func AssertError(t *testing.T, err error) {
	t.Helper()
	assert.Error(t, err)
}

func AssertOutputContains(t *testing.T, output, expected string) {
	t.Helper()
	assert.Contains(t, output, expected, "Expected output containing '%s', got: %s", expected, output)
}

func AssertOutputNotContains(t *testing.T, output, unexpected string) {
	t.Helper()
	assert.NotContains(t, output, unexpected, "Expected output without '%s', got: %s", unexpected, output)
}

func AssertMultipleStringsInOutput(t *testing.T, output string, expected []string) {
	t.Helper()
	for _, exp := range expected {
		assert.Contains(t, output, exp, "Expected output to contain '%s', got: %s", exp, output)
	}
}

// AssertHelpfulError checks that an error message carries guidance, not
// just a bare failure.
func AssertHelpfulError(t *testing.T, output string) {
	t.Helper()

	helpfulElements := []string{
		"Solutions:",
		"Solution:",
		"Usage:",
		"USAGE:",
		"•",
	}

	for _, element := range helpfulElements {
		if strings.Contains(output, element) {
			return
		}
	}
	t.Errorf("Error message does not appear to be helpful. Got: %s", output)
}

func AssertFileExists(t *testing.T, c *Collection, path string) {
	t.Helper()
	assert.True(t, c.HasFile(path), "Expected file '%s' to exist", path)
}

func AssertFileNotExists(t *testing.T, c *Collection, path string) {
	t.Helper()
	assert.False(t, c.HasFile(path), "Expected file '%s' not to exist", path)
}

func AssertFileContains(t *testing.T, c *Collection, path, content string) {
	t.Helper()
	assert.True(t, c.HasFile(path), "File '%s' does not exist", path)
	if c.HasFile(path) {
		fileContent := c.ReadFile(path)
		assert.Contains(t, fileContent, content, "Expected file '%s' to contain '%s', got: %s", path, content, fileContent)
	}
}
