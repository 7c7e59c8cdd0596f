package main

import (
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/starfederation/lispobj"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

type globals struct {
	Config    string `help:"TOML layout configuration." type:"existingfile" placeholder:"FILE"`
	WordBytes int    `help:"Word size in bytes (4 or 8); overrides the configuration." placeholder:"N"`
	MSB       bool   `name:"msb" help:"Tags occupy the high-order bits of the word."`
	Verbose   int    `short:"v" type:"counter" help:"Increase log verbosity."`

	out io.Writer
}

// layout resolves the configuration file, then the flags, into a layout.
func (g *globals) layout() (*lispobj.Layout, error) {
	cfg := lispobj.DefaultConfig()
	if g.Config != "" {
		loaded, err := lispobj.LoadConfig(g.Config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if g.WordBytes != 0 {
		cfg.WordBytes = g.WordBytes
	}
	if g.MSB {
		cfg.LSBTag = false
	}
	return lispobj.NewLayout(cfg)
}

type cli struct {
	globals

	Layout   layoutCmd   `cmd:"" help:"Print the constants derived from the layout."`
	Classify classifyCmd `cmd:"" help:"Classify raw words."`
	Pack     packCmd     `cmd:"" help:"Encode integers as fixnum words."`
	Unpack   unpackCmd   `cmd:"" help:"Decode fixnum words."`
	Pvec     pvecCmd     `cmd:"" help:"Decode pseudovector size words."`
	Dump     dumpCmd     `cmd:"" help:"Convert a JSON array of words into a snapshot."`
	Inspect  inspectCmd  `cmd:"" help:"Classify the words of a snapshot."`
}

func kongOptions() []kong.Option {
	return []kong.Option{
		kong.Name("lispobj"),
		kong.Description("Inspect tagged Lisp object words."),
		kong.UsageOnError(),
	}
}

func main() {
	var args cli
	ctx := kong.Parse(&args, kongOptions()...)
	args.out = os.Stdout
	commonlog.Configure(args.Verbose, nil)
	ctx.FatalIfErrorf(ctx.Run(&args.globals))
}
