package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"cloudriddle/internal/app"
	"cloudriddle/internal/blob"
	"cloudriddle/internal/dto"
	"cloudriddle/internal/repository/sqlite"
	"cloudriddle/internal/service/ai"
	"cloudriddle/internal/service/catalog"
	"cloudriddle/internal/service/sensor"
)

func latestCmd() *cobra.Command {
	var prefix string
	var count int

	cmd := &cobra.Command{
		Use:   "latest",
		Short: "List the newest objects of a family",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := blob.ParsePrefix(prefix)
			if err != nil {
				return err
			}
			store, err := app.OpenStore(cfg)
			if err != nil {
				return err
			}

			names, err := catalog.NewSelector(store).SelectLatest(cmd.Context(), p, count)
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&prefix, "prefix", string(blob.PrefixPhoto), "object family (photo or sensor_data)")
	cmd.Flags().IntVar(&count, "count", 10, "number of objects")
	return cmd
}

func sensorsCmd() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "sensors",
		Short: "Print the latest sensor readings as a table",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := app.OpenStore(cfg)
			if err != nil {
				return err
			}

			names, err := catalog.NewSelector(store).SelectLatest(cmd.Context(), blob.PrefixSensorData, count)
			if err != nil {
				return err
			}
			table, err := sensor.NewBuilder(catalog.NewMaterializer(store)).Build(cmd.Context(), names)
			if err != nil {
				return err
			}
			writeTable(cmd.OutOrStdout(), table)
			return nil
		},
	}

	cmd.Flags().IntVar(&count, "count", 5, "number of readings")
	return cmd
}

func writeTable(w io.Writer, table *sensor.Table) {
	fmt.Fprintf(w, "%-20s", "time")
	for _, c := range table.Columns {
		fmt.Fprintf(w, "\t%s", c)
	}
	fmt.Fprintln(w)

	for _, row := range table.Rows {
		label := row.CapturedAt
		if label == "" {
			label = row.Name
		}
		fmt.Fprintf(w, "%-20s", label)
		for _, v := range row.Cells {
			if v.Valid {
				fmt.Fprintf(w, "\t%g", v.Number)
			} else {
				fmt.Fprint(w, "\t-")
			}
		}
		if row.Err != "" {
			fmt.Fprintf(w, "\t(%s)", row.Err)
		}
		fmt.Fprintln(w)
	}
}

func shotTimeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shot-time NAME...",
		Short: "Decode the capture time encoded in object names",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := 0
			for _, name := range args {
				ts, err := blob.DecodeCaptureTime(name)
				if err != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\terror: %v\n", name, err)
					failed++
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", name, ts)
			}
			if failed > 0 {
				return fmt.Errorf("%d name(s) could not be decoded", failed)
			}
			return nil
		},
	}
}

func extractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract",
		Short: "Parse a model answer read from stdin into ranked animals",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return err
			}
			writeResults(cmd.OutOrStdout(), ai.ExtractResults(string(text)))
			return nil
		},
	}
}

func writeResults(w io.Writer, results []ai.Similarity) {
	for i, r := range results {
		fmt.Fprintf(w, "%d. %s %s - %d%%\n", i+1, r.Label, ai.Emoji(r.Label), r.Confidence)
	}
}

func analyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze NAME",
		Short: "Ask the vision model what a cloud photo looks like",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := app.OpenStore(cfg)
			if err != nil {
				return err
			}
			analyzer, err := app.NewAnalyzer(cfg)
			if err != nil {
				return err
			}

			img, err := catalog.NewMaterializer(store).FetchImage(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Analyzing %s (%s, %dx%d)...\n", img.Name, img.Format, img.Width, img.Height)

			results, err := analyzer.Analyze(cmd.Context(), img)
			if err != nil {
				return err
			}
			writeResults(cmd.OutOrStdout(), results)
			return nil
		},
	}
}

func historyCmd() *cobra.Command {
	var label string
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded riddles",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := sqlite.New(cfg.DatabasePath)
			if err != nil {
				return err
			}
			defer db.Close()

			riddleRepo := sqlite.NewRiddleRepository(db)
			similarityRepo := sqlite.NewSimilarityRepository(db)

			riddles, err := riddleRepo.GetAll(&dto.RiddleFilters{Label: label, Limit: limit})
			if err != nil {
				return err
			}

			infos := make([]dto.RiddleInfo, 0, len(riddles))
			for _, r := range riddles {
				sims, err := similarityRepo.GetByRiddleID(r.ID)
				if err != nil {
					return err
				}
				info := dto.RiddleInfo{ID: r.ID, PhotoName: r.PhotoName, CapturedAt: r.CapturedAt, Guess: r.Guess, CreatedAt: r.CreatedAt}
				for _, s := range sims {
					info.Similarities = append(info.Similarities, dto.SimilarityView{
						Rank: s.Rank, Label: s.Label, Confidence: s.Confidence, Emoji: ai.Emoji(s.Label),
					})
				}
				infos = append(infos, info)
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(infos)
			}

			for _, info := range infos {
				labels := make([]string, 0, len(info.Similarities))
				for _, s := range info.Similarities {
					labels = append(labels, fmt.Sprintf("%s %d%%", s.Label, s.Confidence))
				}
				fmt.Fprintf(cmd.OutOrStdout(), "#%d\t%s\t%s\tguess=%q\t%s\n",
					info.ID, info.CreatedAt.Format("2006-01-02 15:04"), info.PhotoName, info.Guess, strings.Join(labels, ", "))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&label, "label", "", "only riddles with this answer")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of riddles")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}
