package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/titanous/json5"
)

// SiteBinding selects a site to crawl and how to fetch it. Name picks the
// extractor; when it is empty the extractor is matched by RootURL.
type SiteBinding struct {
	Name    string `json:"name"`
	RootURL string `json:"root_url"`
	// Mode is "static" or "rendered"; empty keeps the site's default.
	Mode        string `json:"mode"`
	MaxProducts int    `json:"max_products"`
}

func (b SiteBinding) Label() string {
	if b.Name != "" {
		return b.Name
	}
	return b.RootURL
}

type siteFile struct {
	Sites []SiteBinding `json:"sites"`
}

// LoadSiteBindings reads a JSON5 binding file such as
//
//	{
//	  sites: [
//	    {name: "fortune"},
//	    {name: "traderjoes", mode: "rendered", max_products: 20},
//	  ],
//	}
//
// A sibling <name>.local.<ext> file, when present, overrides fields of the
// bindings with the same name and appends bindings for new names.
func LoadSiteBindings(path string) ([]SiteBinding, error) {
	base, err := readSiteFile(path)
	if err != nil {
		return nil, err
	}

	ext := filepath.Ext(path)
	local, err := readSiteFile(strings.TrimSuffix(path, ext) + ".local" + ext)
	if errors.Is(err, os.ErrNotExist) {
		return base, nil
	}
	if err != nil {
		return nil, err
	}

	slog.Info("merging site bindings with local overrides", "file", path)
	for _, override := range local {
		i := indexOf(base, override.Label())
		if i < 0 {
			base = append(base, override)
			continue
		}
		if err := mergo.Merge(&base[i], override, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("merge binding %s: %w", override.Label(), err)
		}
	}
	return base, nil
}

// Bindings returns the configured site bindings: the binding file when one
// is set, else one default binding per name in Sites, else every name in
// known.
func (c *Config) Bindings(known []string) ([]SiteBinding, error) {
	if c.SitesFile != "" {
		return LoadSiteBindings(c.SitesFile)
	}
	names := c.Sites
	if len(names) == 0 {
		names = known
	}
	bindings := make([]SiteBinding, 0, len(names))
	for _, n := range names {
		bindings = append(bindings, SiteBinding{Name: strings.ToLower(n)})
	}
	return bindings, nil
}

func readSiteFile(path string) ([]SiteBinding, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f siteFile
	if err := json5.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	for i, b := range f.Sites {
		if b.Name == "" && b.RootURL == "" {
			return nil, fmt.Errorf("%s: site %d has neither name nor root_url", path, i+1)
		}
	}
	return f.Sites, nil
}

func indexOf(bindings []SiteBinding, label string) int {
	for i, b := range bindings {
		if b.Label() == label {
			return i
		}
	}
	return -1
}
