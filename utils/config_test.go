package utils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statesink/statesink/utils"
	"github.com/statesink/statesink/utils/log"
)

func TestConfigParse(t *testing.T) {
	data := []byte(`
root_directory: /var/lib/checkpoints
inline_threshold: 64K
log_level: debug
`)
	var config utils.Config
	require.Nil(t, config.Parse(data))
	assert.Equal(t, "/var/lib/checkpoints", config.RootDirectory)
	assert.Equal(t, 64*1024, config.InlineThreshold)
	assert.Equal(t, log.DEBUG, config.LogLevel)
}

func TestConfigParseDefaults(t *testing.T) {
	data := []byte("root_directory: /var/lib/checkpoints\n")
	var config utils.Config
	require.Nil(t, config.Parse(data))
	assert.Equal(t, 0, config.InlineThreshold)
	assert.Equal(t, log.INFO, config.LogLevel)
}

func TestConfigParseMissingRoot(t *testing.T) {
	var config utils.Config
	err := config.Parse([]byte("log_level: info\n"))
	require.NotNil(t, err)
}

func TestConfigParseBadThreshold(t *testing.T) {
	var config utils.Config
	err := config.Parse([]byte("root_directory: /x\ninline_threshold: lots\n"))
	require.NotNil(t, err)
}

func TestConfigParseBadYAML(t *testing.T) {
	var config utils.Config
	err := config.Parse([]byte("\t: ["))
	require.NotNil(t, err)
}
