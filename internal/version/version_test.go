package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollectFillsUnknown(t *testing.T) {
	origVersion, origCommit := Version, GitCommit
	t.Cleanup(func() { Version, GitCommit = origVersion, origCommit })

	Version = "  "
	GitCommit = "abc123"
	info := Collect()
	assert.Equal(t, "dev", info.Version)
	assert.Equal(t, "abc123", info.GitCommit)
	assert.Equal(t, "unknown", info.BuildDate)
}

func TestColored(t *testing.T) {
	assert.Equal(t, "1.2.3-rc.1", Colored("1.2.3-rc.1", false))
	assert.Equal(t, "dev", Colored("dev", true))
	colored := Colored("0.1.0", true)
	assert.NotEqual(t, "0.1.0", colored)
	assert.Contains(t, colored, "\x1b[")
}
