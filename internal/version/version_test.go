package version

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func withMeta(t *testing.T, v, commit, dirty string) {
	t.Helper()
	oldV, oldC, oldD := Version, Commit, Dirty
	Version, Commit, Dirty = v, commit, dirty
	t.Cleanup(func() { Version, Commit, Dirty = oldV, oldC, oldD })
}

func TestString(t *testing.T) {
	withMeta(t, "", "", "")
	assert.Equal(t, "dev", String())

	withMeta(t, "", "abc123", "clean")
	assert.Equal(t, "dev-abc123", String())

	withMeta(t, "", "abc123", "dirty")
	assert.Equal(t, "dev-abc123*", String())

	withMeta(t, "v1.2.3", "abc123", "dirty")
	assert.Equal(t, "v1.2.3", String())
}

func TestCurrent(t *testing.T) {
	withMeta(t, "", "abc123", "dirty")
	info := Current()
	assert.Equal(t, "dev-abc123*", info.Version)
	assert.True(t, info.Dirty)
	assert.Equal(t, runtime.Version(), info.Go)
}
