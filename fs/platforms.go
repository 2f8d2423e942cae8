package fs

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fwojciec/guidecrawl"
)

// LoadPlatforms reads a JSON array of platforms from path.
// Every platform is validated and names must be unique.
func LoadPlatforms(path string) ([]*guidecrawl.Platform, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var platforms []*guidecrawl.Platform
	if err := json.Unmarshal(data, &platforms); err != nil {
		return nil, guidecrawl.Errorf(guidecrawl.EINVALID, "parsing %s: %v", path, err)
	}
	if len(platforms) == 0 {
		return nil, guidecrawl.Errorf(guidecrawl.EINVALID, "%s lists no platforms", path)
	}

	seen := make(map[string]bool, len(platforms))
	for i, p := range platforms {
		if p == nil {
			return nil, guidecrawl.Errorf(guidecrawl.EINVALID, "%s: platform %d is null", path, i)
		}
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if seen[p.Name] {
			return nil, guidecrawl.Errorf(guidecrawl.EINVALID, "%s: duplicate platform %q", path, p.Name)
		}
		seen[p.Name] = true
	}
	return platforms, nil
}
