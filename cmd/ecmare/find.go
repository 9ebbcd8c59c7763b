package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/coregx/ecmaregex"
)

func (a *app) findCmd() *cobra.Command {
	var start int
	cmd := &cobra.Command{
		Use:   "find LITERAL TEXT",
		Short: "Print the first match, or every match when LITERAL has the g flag",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			re, err := a.compile(args[0])
			if err != nil {
				return err
			}
			return a.find(re, args[1], start)
		},
	}
	cmd.Flags().IntVar(&start, "start", 0, "Byte offset to start searching from.")
	return cmd
}

func (a *app) find(re *ecmaregex.Regex, text string, start int) error {
	defer func() {
		st := re.Stats()
		a.log.Debug("search stats",
			zap.Uint64("searches", st.Searches),
			zap.Uint64("matches", st.Matches),
			zap.Uint64("steps", st.Steps))
	}()

	if !re.Flags().Has(ecmaregex.FlagGlobal) {
		m, err := re.FindAt(text, start)
		if err != nil {
			return err
		}
		if m == nil {
			fmt.Fprintln(a.out, "no match")
			return nil
		}
		printMatch(a.out, m, re.SubexpNames())
		return nil
	}

	if start != 0 {
		// A global search always starts over at 0.
		a.log.Warn("ignoring --start for a global literal", zap.Int("start", start))
	}
	n := 0
	it := re.FindIter(text)
	for it.Next() {
		printMatch(a.out, it.Match(), re.SubexpNames())
		n++
	}
	if err := it.Err(); err != nil {
		return err
	}
	if n == 0 {
		fmt.Fprintln(a.out, "no match")
	}
	a.log.Debug("global search done", zap.Int("matches", n))
	return nil
}

// printMatch writes a match and its groups:
//
//	match: [4,9) "hello"
//	  group 1 (word): [4,9) "hello"
//	  group 2: unset
func printMatch(w io.Writer, m *ecmaregex.Match, names []string) {
	fmt.Fprintf(w, "match: [%d,%d) %q\n", m.Start(), m.End(), m.String())
	for i := 1; i < m.GroupCount(); i++ {
		label := fmt.Sprintf("group %d", i)
		if i < len(names) && names[i] != "" {
			label += " (" + names[i] + ")"
		}
		idx := m.GroupIndex(i)
		if idx == nil {
			fmt.Fprintf(w, "  %s: unset\n", label)
			continue
		}
		g, _ := m.Group(i)
		fmt.Fprintf(w, "  %s: [%d,%d) %q\n", label, idx[0], idx[1], g)
	}
}
