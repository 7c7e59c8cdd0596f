package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/starfederation/lispobj"
	"github.com/starfederation/lispobj/dump"
	"github.com/tliron/commonlog"
)

type layoutCmd struct{}

func (c *layoutCmd) Run(g *globals) error {
	l, err := g.layout()
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(g.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "config\t%s\n", l.Config())
	fmt.Fprintf(tw, "VALBITS\t%d\n", l.ValBits)
	fmt.Fprintf(tw, "INTTYPEBITS\t%d\n", l.IntTypeBits)
	fmt.Fprintf(tw, "FIXNUM_BITS\t%d\n", l.FixnumBits)
	fmt.Fprintf(tw, "VAL_MAX\t%#x\n", l.ValMax)
	fmt.Fprintf(tw, "VALMASK\t%#x\n", uint64(l.ValMask))
	fmt.Fprintf(tw, "INTMASK\t%#x\n", l.IntMask)
	fmt.Fprintf(tw, "MOST_POSITIVE_FIXNUM\t%d\n", l.MostPositiveFixnum)
	fmt.Fprintf(tw, "MOST_NEGATIVE_FIXNUM\t%d\n", l.MostNegativeFixnum)
	for t := lispobj.Type(0); t < lispobj.NumTypes; t++ {
		fmt.Fprintf(tw, "tag %s\t%d\n", t, l.Code(t))
	}
	return tw.Flush()
}

type classifyCmd struct {
	Words []string `arg:"" help:"Words in decimal or 0x-prefixed hexadecimal."`
}

func (c *classifyCmd) Run(g *globals) error {
	l, err := g.layout()
	if err != nil {
		return err
	}
	words := make([]lispobj.Object, 0, len(c.Words))
	for _, s := range c.Words {
		w, err := dump.ParseWord(l, s)
		if err != nil {
			return err
		}
		words = append(words, w)
	}
	return writeClassified(g, l, words)
}

func writeClassified(g *globals, l *lispobj.Layout, words []lispobj.Object) error {
	tw := tabwriter.NewWriter(g.out, 0, 4, 2, ' ', 0)
	for i := range words {
		w := &words[i]
		detail := ""
		if n, ok := l.Unpack(*w); ok {
			detail = strconv.FormatInt(n, 10)
		} else if *w == lispobj.Nil {
			detail = "nil"
		}
		fmt.Fprintf(tw, "%#x\t%s\t%s\n", uint64(*w), l.Debug(w), detail)
	}
	return tw.Flush()
}

type packCmd struct {
	Ints []int64 `arg:"" help:"Integers to encode."`
}

func (c *packCmd) Run(g *globals) error {
	l, err := g.layout()
	if err != nil {
		return err
	}
	for _, n := range c.Ints {
		w, err := l.PackChecked(n)
		if err != nil {
			return err
		}
		fmt.Fprintf(g.out, "%d\t%#x\t%s\n", n, uint64(w), l.TypeOf(w))
	}
	return nil
}

type unpackCmd struct {
	Words []string `arg:"" help:"Fixnum words in decimal or 0x-prefixed hexadecimal."`
}

func (c *unpackCmd) Run(g *globals) error {
	l, err := g.layout()
	if err != nil {
		return err
	}
	for _, s := range c.Words {
		w, err := dump.ParseWord(l, s)
		if err != nil {
			return err
		}
		n, ok := l.Unpack(w)
		if !ok {
			return fmt.Errorf("%s is not a fixnum (%s)", s, l.TypeOf(w))
		}
		fmt.Fprintf(g.out, "%#x\t%d\n", uint64(w), n)
	}
	return nil
}

type pvecCmd struct {
	Sizes []string `arg:"" help:"Vector header size words."`
}

func (c *pvecCmd) Run(g *globals) error {
	l, err := g.layout()
	if err != nil {
		return err
	}
	for _, s := range c.Sizes {
		size, err := strconv.ParseInt(strings.TrimSpace(s), 0, 64)
		if err != nil {
			return fmt.Errorf("size %q: %w", s, err)
		}
		if !l.IsPseudovector(size) {
			fmt.Fprintf(g.out, "%#x\tnormal-vector\tlength=%d\n", size, size)
			continue
		}
		h := lispobj.DecodePseudovector(size)
		fmt.Fprintf(g.out, "%#x\t%s\tcount=%d rest=%d\n", size, h.Type, h.Count, h.Rest)
	}
	return nil
}

type dumpCmd struct {
	Input string `arg:"" type:"existingfile" help:"JSON array of words."`
	Out   string `short:"o" required:"" help:"Snapshot file to write." placeholder:"FILE"`
}

func (c *dumpCmd) Run(g *globals) error {
	l, err := g.layout()
	if err != nil {
		return err
	}
	data, err := os.ReadFile(c.Input)
	if err != nil {
		return err
	}
	words, err := dump.ParseWords(l, data)
	if err != nil {
		return fmt.Errorf("%s: %w", c.Input, err)
	}
	snap := dump.NewSnapshot(l.Config(), words)
	enc, err := dump.Marshal(snap)
	if err != nil {
		return err
	}
	if err := os.WriteFile(c.Out, enc, 0o644); err != nil {
		return err
	}
	commonlog.GetLogger("lispobj.dump").Infof("wrote %d words to %s (checksum %#08x)", len(words), c.Out, snap.Checksum)
	return nil
}

type inspectCmd struct {
	Snapshot string `arg:"" type:"existingfile" help:"Snapshot written by dump."`
}

func (c *inspectCmd) Run(g *globals) error {
	data, err := os.ReadFile(c.Snapshot)
	if err != nil {
		return err
	}
	snap, err := dump.Unmarshal(data)
	if err != nil {
		return fmt.Errorf("%s: %w", c.Snapshot, err)
	}
	l, err := snap.Layout()
	if err != nil {
		return err
	}
	commonlog.GetLogger("lispobj.inspect").Debugf("snapshot %s: %d words, layout %s", c.Snapshot, len(snap.Words), l.Config())
	fmt.Fprintf(g.out, "layout\t%s\n", l.Config())
	return writeClassified(g, l, snap.Objects())
}
