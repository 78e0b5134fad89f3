package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/abcnews/content-carousel/internal/carousel"
	"github.com/abcnews/content-carousel/internal/config"
	"github.com/abcnews/content-carousel/internal/track"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

const barWidth = 50

var defaultStatsNames = []string{
	"number-slides-seen",
	"percentage-slides-seen",
	"directional-navigation",
	"tried-to-click-hint",
	"swipe",
}

var (
	statsArticle  string
	statsCarousel int
	statsPreview  bool
	statsRatio    bool
	statsNames    []string
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Chart the behaviour counts recorded for one carousel",
	Long: `Reads the answers counted for carousel --carousel (1-based) of article
--article from the configured storage backend and prints a bar chart per
behaviour group, followed by the raw counts as JSON.`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().StringVarP(&statsArticle, "article", "a", "", "article id")
	statsCmd.Flags().IntVarP(&statsCarousel, "carousel", "c", 1, "carousel number within the article, starting at 1")
	statsCmd.Flags().BoolVarP(&statsPreview, "preview", "p", false, "read counts recorded on the preview tier")
	statsCmd.Flags().BoolVarP(&statsRatio, "ratio", "r", true, "label bars with their share of the total")
	statsCmd.Flags().StringSliceVar(&statsNames, "name", defaultStatsNames, "behaviour names to report")
	_ = statsCmd.MarkFlagRequired("article")
}

func runStats(cmd *cobra.Command, args []string) (err error) {
	if statsCarousel < 1 {
		return fmt.Errorf("carousel number must be at least 1, got %d", statsCarousel)
	}

	backend, err := openStorage()
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, backend.Close())
	}()

	opts := config.GetTrackConfig()
	opts.Preview = statsPreview
	registry := track.NewRegistry(backend, Logger, opts)
	question := registry.Question(carousel.CarouselID(statsArticle, statsCarousel-1))

	ctx := commandContext(cmd)
	out := cmd.OutOrStdout()
	all := make(map[string]map[string]int64, len(statsNames))
	for _, name := range statsNames {
		group := registry.Client(name).Group()
		counts, err := backend.Counts(ctx, group, question)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", name, err)
		}
		all[name] = counts
		if len(counts) == 0 {
			continue
		}
		title := fmt.Sprintf("%s on carousel %d in article %s", name, statsCarousel, statsArticle)
		if statsPreview {
			title += " (preview)"
		}
		renderChart(out, title, counts, statsRatio)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{
		"article":  statsArticle,
		"carousel": statsCarousel,
		"preview":  statsPreview,
		"question": question,
		"counts":   all,
	})
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	labelStyle = lipgloss.NewStyle().Align(lipgloss.Right)
	barStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
)

// sortedAnswers orders answers numerically when every answer is a number
// (slide counts, percentages), otherwise alphabetically.
func sortedAnswers(counts map[string]int64) []string {
	keys := make([]string, 0, len(counts))
	numeric := true
	for k := range counts {
		keys = append(keys, k)
		if _, err := strconv.ParseFloat(k, 64); err != nil {
			numeric = false
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if numeric {
			a, _ := strconv.ParseFloat(keys[i], 64)
			b, _ := strconv.ParseFloat(keys[j], 64)
			return a < b
		}
		return keys[i] < keys[j]
	})
	return keys
}

// renderChart writes a horizontal bar chart of counts, one bar per answer,
// scaled so the largest count fills barWidth cells.
func renderChart(w io.Writer, title string, counts map[string]int64, ratio bool) {
	keys := sortedAnswers(counts)

	var total, peak int64
	labelWidth := 0
	for _, k := range keys {
		total += counts[k]
		if counts[k] > peak {
			peak = counts[k]
		}
		labelWidth = max(labelWidth, lipgloss.Width(k))
	}

	lines := []string{titleStyle.Render(title)}
	for _, k := range keys {
		n := counts[k]
		cells := 0
		if peak > 0 {
			cells = int(math.Round(float64(n) / float64(peak) * barWidth))
		}
		value := strconv.FormatInt(n, 10)
		if ratio && total > 0 {
			value = fmt.Sprintf("%.1f%%", float64(n)/float64(total)*100)
		}
		lines = append(lines, fmt.Sprintf("%s │ %s %s",
			labelStyle.Width(labelWidth).Render(k),
			barStyle.Render(strings.Repeat("█", cells)),
			value,
		))
	}

	fmt.Fprintln(w, lipgloss.JoinVertical(lipgloss.Left, lines...))
	fmt.Fprintln(w)
}
