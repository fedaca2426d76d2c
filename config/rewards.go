package config

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/BurntSushi/toml"
)

// rewardsFile is the on-disk shape of the role rewards config. TOML table
// keys are strings, so milestone levels are parsed after decoding.
type rewardsFile struct {
	Rewards map[string]int64 `toml:"rewards"`
}

// LoadRoleRewards reads the milestone-to-role mapping from a TOML file.
// Keys must be positive integer levels; values are Discord role IDs.
func LoadRoleRewards(path string) (map[int]int64, error) {
	var file rewardsFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, fmt.Errorf("failed to read role rewards file %s: %w", path, err)
	}

	rewards := make(map[int]int64, len(file.Rewards))
	for key, roleID := range file.Rewards {
		level, err := strconv.Atoi(key)
		if err != nil || level <= 0 {
			return nil, fmt.Errorf("invalid milestone level %q in %s", key, path)
		}
		if roleID <= 0 {
			return nil, fmt.Errorf("invalid role ID %d for level %d in %s", roleID, level, path)
		}
		rewards[level] = roleID
	}

	return rewards, nil
}

// MilestoneLevels returns the reward levels in ascending order.
func MilestoneLevels(rewards map[int]int64) []int {
	levels := make([]int, 0, len(rewards))
	for level := range rewards {
		levels = append(levels, level)
	}
	sort.Ints(levels)
	return levels
}
