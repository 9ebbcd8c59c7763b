package main

import (
	"fmt"
	"os"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/coregx/ecmaregex"
	"github.com/coregx/ecmaregex/cache"
)

// checkFile is the YAML layout read by the check command.
//
//	cases:
//	  - name: optional group
//	    literal: /(a)(b)?/
//	    text: a
//	    match: a
//	    groups: [a, ~]
//	  - literal: /(a+)+b/
//	    text: aaaaaaaaaaaaaaaaaaaaaaaaaaaaaa
//	    error: execution limit exceeded
type checkFile struct {
	Cases []checkCase `yaml:"cases"`
}

// checkCase is one expectation. A nil Match expects no match; a nil group
// expects an unset group. Error, when set, must be a substring of the
// compile or search error.
type checkCase struct {
	Name    string    `yaml:"name"`
	Literal string    `yaml:"literal"`
	Text    string    `yaml:"text"`
	Start   int       `yaml:"start"`
	Match   *string   `yaml:"match"`
	Groups  []*string `yaml:"groups"`
	Error   string    `yaml:"error"`
}

func (c *checkCase) label(i int) string {
	if c.Name != "" {
		return c.Name
	}
	return fmt.Sprintf("case %d (%s)", i+1, c.Literal)
}

func (a *app) checkCmd() *cobra.Command {
	var jobs int
	cmd := &cobra.Command{
		Use:   "check FILE",
		Short: "Run the expectations in a YAML case file",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return a.check(args[0], jobs)
		},
	}
	cmd.Flags().IntVar(&jobs, "jobs", runtime.GOMAXPROCS(0), "Cases evaluated concurrently.")
	return cmd
}

func loadCases(path string) ([]checkCase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading case file")
	}
	var file checkFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	return file.Cases, nil
}

func (a *app) check(path string, jobs int) error {
	cases, err := loadCases(path)
	if err != nil {
		return err
	}
	config, err := a.regexConfig()
	if err != nil {
		return err
	}
	cacheConfig := cache.DefaultConfig()
	cacheConfig.Compile = config
	regexes, err := cache.New(cacheConfig)
	if err != nil {
		return errors.Wrap(err, "creating regex cache")
	}
	defer regexes.Close()

	began := time.Now()
	failures := make([]string, len(cases))
	compiled := make([]*ecmaregex.Regex, len(cases))
	var g errgroup.Group
	g.SetLimit(max(jobs, 1))
	for i := range cases {
		g.Go(func() error {
			failures[i], compiled[i] = evaluate(regexes, &cases[i])
			return nil
		})
	}
	// Cases report failures through failures, never through g.
	_ = g.Wait()
	elapsed := time.Since(began)

	var textBytes uint64
	failed := 0
	for i, msg := range failures {
		textBytes += uint64(len(cases[i].Text))
		if msg == "" {
			continue
		}
		failed++
		fmt.Fprintf(a.out, "FAIL %s: %s\n", cases[i].label(i), msg)
	}
	fmt.Fprintf(a.out, "checked %s cases (%s of text) in %s: %s passed, %s failed\n",
		humanize.Comma(int64(len(cases))), humanize.Bytes(textBytes), elapsed.Round(time.Microsecond),
		humanize.Comma(int64(len(cases)-failed)), humanize.Comma(int64(failed)))

	// Cases sharing a literal share a Regex and its counters.
	var steps, limited uint64
	heap := 0
	seen := make(map[*ecmaregex.Regex]bool)
	for _, re := range compiled {
		if re == nil || seen[re] {
			continue
		}
		seen[re] = true
		st := re.Stats()
		steps += st.Steps
		limited += st.LimitExceeded
		heap += re.HeapBytes()
	}
	stats := regexes.Stats()
	a.log.Debug("check done",
		zap.Int("cases", len(cases)),
		zap.Int("failed", failed),
		zap.Int("regexes", len(seen)),
		zap.Uint64("steps", steps),
		zap.Uint64("limit_exceeded", limited),
		zap.String("heap", humanize.Bytes(uint64(heap))), //nolint:gosec // G115: heap sizes are never negative
		zap.Uint64("cache_hits", stats.Hits),
		zap.Uint64("cache_misses", stats.Misses))

	if failed > 0 {
		return errors.Errorf("%d of %d cases failed", failed, len(cases))
	}
	return nil
}

// evaluate runs one case and returns a failure message, or "" on success,
// with the regex it compiled, if any.
func evaluate(regexes *cache.Cache, c *checkCase) (string, *ecmaregex.Regex) {
	re, err := regexes.Literal(c.Literal)
	if err != nil {
		return expect(c, nil, err), nil
	}
	m, err := re.FindAt(c.Text, c.Start)
	return expect(c, m, err), re
}

// expect compares a search outcome with the case.
func expect(c *checkCase, m *ecmaregex.Match, err error) string {
	if c.Error != "" {
		if err == nil {
			return fmt.Sprintf("expected error containing %q, got none", c.Error)
		}
		if !strings.Contains(err.Error(), c.Error) {
			return fmt.Sprintf("expected error containing %q, got %q", c.Error, err.Error())
		}
		return ""
	}
	if err != nil {
		return "unexpected error: " + err.Error()
	}

	if c.Match == nil {
		if m != nil {
			return fmt.Sprintf("expected no match, got %q at %d", m.String(), m.Start())
		}
		return ""
	}
	if m == nil {
		return fmt.Sprintf("expected %q, got no match", *c.Match)
	}
	if m.String() != *c.Match {
		return fmt.Sprintf("expected %q, got %q", *c.Match, m.String())
	}
	if c.Groups == nil {
		return ""
	}

	got := make([]*string, 0, m.GroupCount()-1)
	for i := 1; i < m.GroupCount(); i++ {
		if s, ok := m.Group(i); ok {
			got = append(got, &s)
		} else {
			got = append(got, nil)
		}
	}
	if !slices.EqualFunc(got, c.Groups, func(x, y *string) bool {
		return (x == nil) == (y == nil) && (x == nil || *x == *y)
	}) {
		return fmt.Sprintf("expected groups %s, got %s", formatGroups(c.Groups), formatGroups(got))
	}
	return ""
}

func formatGroups(groups []*string) string {
	parts := make([]string, len(groups))
	for i, g := range groups {
		if g == nil {
			parts[i] = "unset"
		} else {
			parts[i] = fmt.Sprintf("%q", *g)
		}
	}
	return "[" + strings.Join(parts, " ") + "]"
}
