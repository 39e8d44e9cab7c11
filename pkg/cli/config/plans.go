package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/pollwiz/pollwiz/pkg/domain/model"
	"github.com/pollwiz/pollwiz/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

// Plans holds CLI flags for the plan catalog
type Plans struct {
	path string
}

type planFile struct {
	Plans []planEntry `toml:"plan"`
}

type planEntry struct {
	ID       string `toml:"id"`
	MaxCount int    `toml:"max_count"`
}

// Flags returns CLI flags for plan catalog configuration
func (p *Plans) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "plans-file",
			Usage:       "Path to TOML plan catalog (built-in catalog is used when empty)",
			Category:    "Billing",
			Sources:     cli.EnvVars("POLLWIZ_PLANS_FILE"),
			Destination: &p.path,
		},
	}
}

// Configure loads the plan catalog, falling back to the built-in defaults
// when no file is given.
func (p *Plans) Configure() (model.PlanCatalog, error) {
	if p.path == "" {
		return model.DefaultPlanCatalog, nil
	}

	data, err := os.ReadFile(p.path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read plans file", goerr.V("path", p.path))
	}

	var file planFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, goerr.Wrap(err, "failed to parse plans file", goerr.V("path", p.path))
	}

	if len(file.Plans) == 0 {
		return nil, goerr.New("plans file defines no plans", goerr.V("path", p.path))
	}

	catalog := make(model.PlanCatalog, len(file.Plans))
	for _, entry := range file.Plans {
		if entry.ID == "" {
			return nil, goerr.New("plan entry without id", goerr.V("path", p.path))
		}
		if entry.MaxCount <= 0 {
			return nil, goerr.New("plan max_count must be positive",
				goerr.V("id", entry.ID),
				goerr.V("maxCount", entry.MaxCount),
			)
		}
		if _, ok := catalog[types.PlanID(entry.ID)]; ok {
			return nil, goerr.New("duplicate plan id", goerr.V("id", entry.ID))
		}
		catalog[types.PlanID(entry.ID)] = entry.MaxCount
	}

	return catalog, nil
}
