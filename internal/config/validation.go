package config

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"

	derrors "git.home.luguber.info/inful/docsite/internal/errors"
)

// Validate checks a fully merged configuration (file plus flags).
func (c *Config) Validate() error {
	if strings.TrimSpace(c.WebsiteDirectory) == "" {
		return derrors.ValidationFailed("website_directory", "is required")
	}
	if c.Concurrency < 0 {
		return derrors.ValidationFailed("concurrency", "must not be negative")
	}
	switch strings.ToLower(c.OnError) {
	case "", "continue", "abort":
	default:
		return derrors.ValidationFailed("on_error", fmt.Sprintf("unknown policy %q (want continue or abort)", c.OnError))
	}
	if c.LayoutRequired && c.Layout == "" {
		return derrors.ValidationFailed("layout", "layout_required is set but no layout is configured")
	}
	for _, p := range c.Exclude {
		if _, err := glob.Compile(p, '/'); err != nil {
			return derrors.ValidationFailed("exclude", fmt.Sprintf("invalid pattern %q: %v", p, err))
		}
	}
	for _, s := range c.Extensions {
		if strings.TrimSpace(s.Extension) == "" {
			return derrors.ValidationFailed("extensions", "empty extension")
		}
	}
	_, err := c.Extensions.Entries()
	return err
}
