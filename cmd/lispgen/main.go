package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/starfederation/lispobj"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

type cli struct {
	Dir     string `help:"Directory of the package to generate into." default:"."`
	Config  string `help:"TOML layout configuration; the native layout when empty." type:"existingfile" placeholder:"FILE"`
	Clean   bool   `help:"Remove a previously generated file instead of writing one."`
	Verbose int    `short:"v" type:"counter" help:"Increase log verbosity."`
}

func main() {
	var args cli
	kong.Parse(&args,
		kong.Name("lispgen"),
		kong.Description("Generate Go constants for a tagged word layout."),
		kong.UsageOnError(),
	)
	commonlog.Configure(args.Verbose, nil)
	log := commonlog.GetLogger("lispgen")

	absDir, err := filepath.Abs(args.Dir)
	if err != nil {
		fatal(err)
	}

	if args.Clean {
		removed, err := outputIn(absDir).remove()
		if err != nil {
			fatal(err)
		}
		if removed {
			log.Noticef("lispgen: removed %s", generatedFileName)
		} else {
			log.Noticef("lispgen: no changes")
		}
		return
	}

	cfg := lispobj.DefaultConfig()
	if args.Config != "" {
		if cfg, err = lispobj.LoadConfig(args.Config); err != nil {
			fatal(err)
		}
	}

	info, err := loadPackage(absDir)
	if err != nil {
		fatal(err)
	}
	src, err := generateLayout(info, cfg)
	if err != nil {
		fatal(err)
	}
	out := outputIn(info.Dir)
	changed, err := out.write(src)
	if err != nil {
		fatal(err)
	}
	if changed {
		log.Noticef("lispgen: wrote %s for %s", out.path, cfg)
	} else {
		log.Noticef("lispgen: no changes")
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "lispgen: %v\n", err)
	os.Exit(1)
}
