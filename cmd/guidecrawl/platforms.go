package main

import (
	"fmt"
	"slices"

	"github.com/fwojciec/guidecrawl"
	"github.com/fwojciec/guidecrawl/crawl"
	"github.com/fwojciec/guidecrawl/fs"
)

// Run executes the platforms command.
func (c *PlatformsCmd) Run(deps *Dependencies) error {
	platforms, err := loadPlatforms(c.Platforms, nil)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", guidecrawl.ErrorMessage(err))
		return err
	}

	for _, p := range platforms {
		mode := "static"
		if p.Rendered {
			mode = "rendered"
		}
		maxPages := p.MaxPages
		if maxPages <= 0 {
			maxPages = crawl.DefaultMaxPages
		}
		fmt.Fprintf(deps.Stdout, "%s  %s  %s  max=%d\n", p.Name, p.StartURL, mode, maxPages)
	}
	return nil
}

// loadPlatforms returns the platforms in path, or the built-in platforms
// when path is empty, restricted to the names in only when given.
func loadPlatforms(path string, only []string) ([]*guidecrawl.Platform, error) {
	platforms := guidecrawl.DefaultPlatforms()
	if path != "" {
		var err error
		if platforms, err = fs.LoadPlatforms(path); err != nil {
			return nil, err
		}
	}

	if len(only) == 0 {
		return platforms, nil
	}

	var selected []*guidecrawl.Platform
	for _, p := range platforms {
		if slices.Contains(only, p.Name) {
			selected = append(selected, p)
		}
	}
	for _, name := range only {
		if !slices.ContainsFunc(selected, func(p *guidecrawl.Platform) bool { return p.Name == name }) {
			return nil, guidecrawl.Errorf(guidecrawl.ENOTFOUND, "unknown platform %q", name)
		}
	}
	return selected, nil
}
