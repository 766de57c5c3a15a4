package cmd

import (
	"github.com/alecthomas/kong"
	"github.com/jimezsa/gdscrape/internal/models"
)

type CLI struct {
	Color   string `help:"Color output: auto, always, never." enum:"auto,always,never" default:"auto"`
	JSON    bool   `help:"JSON output to stdout; disables colors."`
	Plain   bool   `help:"TSV output to stdout; disables colors."`
	Verbose bool   `help:"Enable debug logging."`

	VersionFlag kong.VersionFlag `help:"Print version."`

	Version  VersionCmd `cmd:"" help:"Print version."`
	Config   ConfigCmd  `cmd:"" help:"Manage configuration."`
	Jobs     KindCmd    `cmd:"" help:"Scrape an employer's job listings."`
	Reviews  KindCmd    `cmd:"" help:"Scrape an employer's reviews."`
	Salaries KindCmd    `cmd:"" help:"Scrape an employer's salaries."`
	All      AllCmd     `cmd:"" help:"Scrape jobs, reviews and salaries together."`
	Locales  LocalesCmd `cmd:"" help:"List Glassdoor country sites."`
	Proxies  ProxiesCmd `cmd:"" help:"Proxy utilities."`
}

func NewCLI() *CLI {
	return &CLI{
		Jobs:     KindCmd{Kind: models.KindJobs},
		Reviews:  KindCmd{Kind: models.KindReviews},
		Salaries: KindCmd{Kind: models.KindSalaries},
	}
}
