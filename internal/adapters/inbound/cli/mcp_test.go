package cli_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMCPCommandExists(t *testing.T) {
	_, err := run(t, nil, "mcp", "--help")
	assert.NoError(t, err)
}

func TestMCPServeCommandExists(t *testing.T) {
	out, err := run(t, nil, "mcp", "serve", "--help")
	assert.NoError(t, err)
	assert.Contains(t, out, "stdio")
}
