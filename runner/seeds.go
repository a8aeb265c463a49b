package runner

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SeedList is the batch input file: the videos and channels to attempt
// recovery for.
type SeedList struct {
	VideoIDs   []string `yaml:"video_ids"`
	ChannelIDs []string `yaml:"channel_ids"`
}

// LoadSeedList reads a YAML seed file.
func LoadSeedList(path string) (*SeedList, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var seeds SeedList
	if err := yaml.Unmarshal(data, &seeds); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}

	if len(seeds.VideoIDs) == 0 && len(seeds.ChannelIDs) == 0 {
		return nil, fmt.Errorf("seed file %s lists no videos or channels", path)
	}

	return &seeds, nil
}
