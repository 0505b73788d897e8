package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/Adithya-Monish-Kumar-K/textkit/internal/display"
	"github.com/Adithya-Monish-Kumar-K/textkit/internal/predicate"
	"github.com/Adithya-Monish-Kumar-K/textkit/internal/textfile"
	apperrors "github.com/Adithya-Monish-Kumar-K/textkit/pkg/errors"
	"github.com/spf13/cobra"
)

// usageArgs tags positional-argument errors as invalid arguments.
func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return apperrors.New(apperrors.ErrInvalidArgument, err.Error())
		}
		return nil
	}
}

func (a *app) showCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show FILE",
		Short: "Print the reader and analyzer summaries of a file",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: a.instrument("show", func(cmd *cobra.Command, args []string) error {
			r := a.newReader(args[0])
			text, err := a.content(r)
			if err != nil {
				return err
			}
			an := textfile.NewAnalyzerFromText(text, r.Path(), a.cfg.Analyzer.CaseSensitive, a.analyzerOptions()...)
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, r)
			fmt.Fprintln(out)
			fmt.Fprintln(out, an)
			return nil
		}),
	}
}

func (a *app) linesCommand() *cobra.Command {
	var number bool
	cmd := &cobra.Command{
		Use:   "lines FILE",
		Short: "Stream a file line by line",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: a.instrument("lines", func(cmd *cobra.Command, args []string) error {
			seq, err := a.newReader(args[0]).Lines()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			var n, bytes int
			for line, err := range seq {
				if err != nil {
					return err
				}
				n++
				bytes += len(line)
				if number {
					fmt.Fprintf(out, "%6d  %s\n", n, line)
				} else {
					fmt.Fprintln(out, line)
				}
			}
			a.metrics.FilesReadTotal.Inc()
			a.metrics.BytesAnalyzedTotal.Add(float64(bytes))
			return nil
		}),
	}
	cmd.Flags().BoolVarP(&number, "number", "n", false, "prefix each line with its line number")
	return cmd
}

func (a *app) chunksCommand() *cobra.Command {
	var size int
	cmd := &cobra.Command{
		Use:   "chunks FILE",
		Short: "Stream a file in fixed-size character chunks",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: a.instrument("chunks", func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("size") {
				size = a.cfg.Reader.ChunkSize
			}
			seq, err := a.newReader(args[0]).Chunks(size)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			var bytes int
			for chunk, err := range seq {
				if err != nil {
					return err
				}
				bytes += len(chunk)
				fmt.Fprintf(out, "Chunk: %q\n", chunk)
			}
			a.metrics.FilesReadTotal.Inc()
			a.metrics.BytesAnalyzedTotal.Add(float64(bytes))
			return nil
		}),
	}
	cmd.Flags().IntVarP(&size, "size", "s", textfile.DefaultChunkSize, "characters per chunk (default from config)")
	return cmd
}

func (a *app) countCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "count FILE...",
		Short: "Count words and lines",
		Args:  usageArgs(cobra.MinimumNArgs(1)),
		RunE: a.instrument("count", func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "FILE\tWORDS\tLINES")
			var totalWords, totalLines int
			for _, path := range args {
				r := a.newReader(path)
				if _, err := a.content(r); err != nil {
					return err
				}
				words, err := r.WordCount()
				if err != nil {
					return err
				}
				lines, err := r.AllLines()
				if err != nil {
					return err
				}
				totalWords += words
				totalLines += len(lines)
				fmt.Fprintf(tw, "%s\t%d\t%d\n", r.Filename(), words, len(lines))
			}
			if len(args) > 1 {
				fmt.Fprintf(tw, "total\t%d\t%d\n", totalWords, totalLines)
			}
			return tw.Flush()
		}),
	}
}

func (a *app) freqCommand() *cobra.Command {
	var (
		top     int
		asJSON  bool
		noCache bool
	)
	cmd := &cobra.Command{
		Use:   "freq FILE",
		Short: "List word frequencies, most frequent first",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: a.instrument("freq", func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("top") {
				top = a.cfg.Analyzer.TopWords
			}
			an := a.newAnalyzer(args[0])
			text, err := a.content(an)
			if err != nil {
				return err
			}

			freq, err := a.frequencies(cmd, an, text, noCache)
			if err != nil {
				return err
			}
			ranked := textfile.Rank(freq, top)

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(ranked)
			}
			for _, wc := range ranked {
				fmt.Fprintf(out, "  %s: %d\n", wc.Word, wc.Count)
			}
			return nil
		}),
	}
	cmd.Flags().IntVarP(&top, "top", "t", 0, "show only the N most frequent words; 0 shows all (default from config)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the listing as JSON")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "skip the Redis frequency cache")
	return cmd
}

// frequencies computes word frequencies, going through the Redis cache when
// one is configured and reachable.
func (a *app) frequencies(cmd *cobra.Command, an *textfile.Analyzer, text string, noCache bool) (textfile.Frequencies, error) {
	if noCache {
		return an.WordFrequencies()
	}
	cache, closeCache, err := a.connectCache(cmd.Context())
	if err != nil {
		a.logger.Warn("redis unavailable, frequency caching disabled", "error", err)
		return an.WordFrequencies()
	}
	defer closeCache()
	if cache == nil {
		return an.WordFrequencies()
	}
	freq, cached, err := cache.GetOrCompute(cmd.Context(), text, an.CaseSensitive(), an.WordFrequencies)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("word frequencies ready", "path", an.Path(), "cached", cached)
	return freq, nil
}

func (a *app) matchCommand() *cobra.Command {
	var countOnly bool
	cmd := &cobra.Command{
		Use:   "match PATTERN FILE",
		Short: "Print every regex match in a file",
		Args:  usageArgs(cobra.ExactArgs(2)),
		RunE: a.instrument("match", func(cmd *cobra.Command, args []string) error {
			an := a.newAnalyzer(args[1])
			if _, err := a.content(an); err != nil {
				return err
			}
			matches, err := an.FindMatches(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if countOnly {
				fmt.Fprintln(out, len(matches))
				return nil
			}
			for _, m := range matches {
				fmt.Fprintln(out, m)
			}
			return nil
		}),
	}
	cmd.Flags().BoolVarP(&countOnly, "count", "c", false, "print only the number of matches")
	return cmd
}

func (a *app) filterCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "filter EXPR FILE",
		Short: "Print the lines that satisfy a predicate expression",
		Long: `Print the lines of FILE for which EXPR holds.

EXPR combines tests with and/or/not (or &&, ||, !) and parentheses. Tests:
  contains "s"   icontains "s"   startswith "s"   endswith "s"
  matches "re"   imatches "re"   len OP N         empty   true   false
where OP is one of == != < <= > >=. For example:
  textkit filter 'icontains "test" and len > 10' notes.txt`,
		Args: usageArgs(cobra.ExactArgs(2)),
		RunE: a.instrument("filter", func(cmd *cobra.Command, args []string) error {
			keep, err := predicate.Compile(args[0])
			if err != nil {
				return err
			}
			an := a.newAnalyzer(args[1])
			if _, err := a.content(an); err != nil {
				return err
			}
			lines, err := an.FilterLines(keep)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, line := range lines {
				fmt.Fprintln(out, line)
			}
			return nil
		}),
	}
}

func (a *app) concatCommand() *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "concat FILE FILE",
		Short: "Concatenate two files",
		Args:  usageArgs(cobra.ExactArgs(2)),
		RunE: a.instrument("concat", func(cmd *cobra.Command, args []string) error {
			left, right := a.newReader(args[0]), a.newReader(args[1])
			for _, r := range []*textfile.Reader{left, right} {
				if _, err := a.content(r); err != nil {
					return err
				}
			}
			combined, err := left.Concatenate(right)
			if err != nil {
				return err
			}
			return a.emit(cmd.OutOrStdout(), combined, outPath, "Total words in concatenated file")
		}),
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write the result to this path instead of printing a summary")
	return cmd
}

func (a *app) mergeCommand() *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "merge FILE...",
		Short: "Merge files, trimming surrounding whitespace from each",
		Args:  usageArgs(cobra.MinimumNArgs(1)),
		RunE: a.instrument("merge", func(cmd *cobra.Command, args []string) error {
			sources := make([]textfile.Source, 0, len(args))
			for _, path := range args {
				r := a.newReader(path)
				if _, err := a.content(r); err != nil {
					return err
				}
				sources = append(sources, r)
			}
			merged, err := textfile.MergeFiles(sources, a.analyzerOptions()...)
			if err != nil {
				return err
			}
			return a.emit(cmd.OutOrStdout(), merged, outPath, "Total words in merged file")
		}),
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write the result to this path instead of printing a summary")
	return cmd
}

type derived interface {
	textfile.Source
	fmt.Stringer
	WordCount() (int, error)
}

// emit prints a summary of an in-memory result, or writes it to outPath.
func (a *app) emit(out io.Writer, res derived, outPath, label string) error {
	text, err := res.Content()
	if err != nil {
		return err
	}
	words, err := res.WordCount()
	if err != nil {
		return err
	}
	if outPath != "" {
		if err := os.WriteFile(outPath, []byte(text), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", outPath, err)
		}
		a.logger.Info("result written", "path", outPath, "bytes", len(text))
		fmt.Fprintf(out, "wrote %s (%d words)\n", outPath, words)
		return nil
	}
	fmt.Fprintln(out, res)
	fmt.Fprintf(out, "%s: %d\n", label, words)
	return nil
}

func (a *app) probeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "probe FILE...",
		Short: "Report whether files look like UTF-8 text",
		Args:  usageArgs(cobra.MinimumNArgs(1)),
		RunE: a.instrument("probe", func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			failed := 0
			for _, path := range args {
				if err := textfile.ProbeText(path); err != nil {
					failed++
					a.logger.Debug("probe rejected file", "path", path, "error", err)
					fmt.Fprintf(tw, "%s\t%s\n", path, display.Colorize("not text", display.Yellow))
					continue
				}
				fmt.Fprintf(tw, "%s\t%s\n", path, "text")
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			if failed > 0 {
				return apperrors.Newf(apperrors.ErrDecode, "%d of %d files are not text", failed, len(args))
			}
			return nil
		}),
	}
}

func (a *app) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the Redis word-frequency cache",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete every cached frequency result",
		Args:  usageArgs(cobra.NoArgs),
		RunE: a.instrument("cache-clear", func(cmd *cobra.Command, _ []string) error {
			if !a.cfg.Redis.Enabled {
				return apperrors.New(apperrors.ErrInvalidArgument, "redis cache is disabled; set redis.enabled or TK_REDIS_ENABLED")
			}
			cache, closeCache, err := a.connectCache(cmd.Context())
			if err != nil {
				return err
			}
			defer closeCache()
			deleted, err := cache.Invalidate(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d cached results\n", deleted)
			return nil
		}),
	})
	return cmd
}
