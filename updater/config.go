// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package updater

import (
	"os"

	"github.com/zeebo/errs"
)

// Config describes the updaters applied after the image is set.
type Config struct {
	Template     string `help:"inline JSON metadata template applied to every token" default:""`
	TemplateFile string `help:"path to a JSON (with comments) metadata template, overrides the inline template" default:""`
	NamePrefix   string `help:"when set, name every token \"<prefix>#<id>\"" default:""`
	Edition      bool   `help:"store the public token ID in the edition field" default:"false"`
}

// Build returns the configured chain: the image URI first, then the naming
// updater, then the template, so the template may override both.
func (config Config) Build() (_ *Chain, err error) {
	data := []byte(config.Template)
	if config.TemplateFile != "" {
		data, err = os.ReadFile(config.TemplateFile)
		if err != nil {
			return nil, Error.Wrap(err)
		}
	}

	templated, err := ParseTemplate(data)
	if err != nil {
		return nil, err
	}

	updaters := []Updater{URI{}}
	if config.NamePrefix != "" || config.Edition {
		if config.NamePrefix == "" {
			return nil, Error.Wrap(errs.New("edition requires a name prefix"))
		}
		updaters = append(updaters, Naming{Prefix: config.NamePrefix, Edition: config.Edition})
	}
	updaters = append(updaters, templated)

	return NewChain(updaters...), nil
}
