package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRewardsFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rewards.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadRoleRewards(t *testing.T) {
	path := writeRewardsFile(t, `
[rewards]
1 = 100000000000000001
5 = 100000000000000005
10 = 100000000000000010
20 = 100000000000000020
40 = 100000000000000040
50 = 100000000000000050
`)

	rewards, err := LoadRoleRewards(path)
	require.NoError(t, err)
	assert.Len(t, rewards, 6)
	assert.Equal(t, int64(100000000000000005), rewards[5])
	assert.Equal(t, []int{1, 5, 10, 20, 40, 50}, MilestoneLevels(rewards))
}

func TestLoadRoleRewards_InvalidLevel(t *testing.T) {
	path := writeRewardsFile(t, `
[rewards]
zero = 12345
`)

	_, err := LoadRoleRewards(path)
	assert.ErrorContains(t, err, "invalid milestone level")
}

func TestLoadRoleRewards_InvalidRoleID(t *testing.T) {
	path := writeRewardsFile(t, `
[rewards]
5 = 0
`)

	_, err := LoadRoleRewards(path)
	assert.ErrorContains(t, err, "invalid role ID")
}

func TestLoadRoleRewards_MissingFile(t *testing.T) {
	_, err := LoadRoleRewards(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}
