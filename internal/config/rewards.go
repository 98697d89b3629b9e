package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"arisefit/internal/progression"
)

// LoadRewardPolicy reads the XP award table from a YAML file. An empty path
// returns the shipped defaults. Fields omitted from the file keep their
// default values, so a policy file only needs to list overrides.
func LoadRewardPolicy(path string) (progression.RewardPolicy, error) {
	policy := progression.DefaultRewardPolicy()
	if path == "" {
		return policy, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return policy, fmt.Errorf("failed to read reward policy: %w", err)
	}

	if err := yaml.Unmarshal(data, &policy); err != nil {
		return policy, fmt.Errorf("failed to parse reward policy: %w", err)
	}

	return policy, nil
}
