package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"CrimeStats/internal/config"
	"CrimeStats/internal/database"
	"CrimeStats/internal/normalize"
	"CrimeStats/internal/repository"
	"CrimeStats/internal/service"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func normalizeCmd(configDir *string) *cobra.Command {
	var (
		input  string
		outDir string
		load   bool
	)

	cmd := &cobra.Command{
		Use:   "normalize",
		Short: "Normalize a raw crime CSV into dimension and fact files",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfigFrom(*configDir)
			if err != nil {
				return err
			}
			logger := config.NewLogger(cfg.Log)

			ds, err := normalizeFile(input, columnsFrom(cfg.Normalize))
			if err != nil {
				return err
			}
			if err := normalize.WriteDataset(outDir, ds); err != nil {
				return fmt.Errorf("write %s: %w", outDir, err)
			}
			printStats(cmd.OutOrStdout(), outDir, ds.Stats())

			if !load {
				return nil
			}
			return loadDataset(cmd.Context(), cfg, logger, ds, input)
		},
	}

	cmd.Flags().StringVar(&input, "input", "", "Raw crime CSV file")
	cmd.Flags().StringVar(&outDir, "out", "", "Output directory for the normalized CSV files")
	cmd.Flags().BoolVar(&load, "load", false, "Also replace the database dataset with the result")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func loadCmd(configDir *string) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Replace the database dataset with previously normalized files",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfigFrom(*configDir)
			if err != nil {
				return err
			}
			logger := config.NewLogger(cfg.Log)

			ds, err := normalize.ReadDataset(dir)
			if err != nil {
				return fmt.Errorf("read %s: %w", dir, err)
			}
			printStats(cmd.OutOrStdout(), dir, ds.Stats())
			return loadDataset(cmd.Context(), cfg, logger, ds, dir)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Directory holding the normalized CSV files")
	_ = cmd.MarkFlagRequired("dir")
	return cmd
}

func columnsFrom(c config.NormalizeConfig) normalize.Columns {
	return normalize.Columns{
		Date:        c.DateColumn,
		Area:        c.AreaColumn,
		Description: c.DescriptionColumn,
		VictimAge:   c.VictimAgeColumn,
		VictimSex:   c.VictimSexColumn,
		Location:    c.LocationColumn,
	}
}

func normalizeFile(path string, cols normalize.Columns) (*normalize.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	incidents, err := normalize.ReadIncidents(f, cols)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	ds, err := normalize.Normalize(incidents)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

func loadDataset(ctx context.Context, cfg *config.Config, logger *logrus.Logger, ds *normalize.Dataset, source string) error {
	db, err := database.Open(cfg.Database, logger)
	if err != nil {
		return err
	}
	defer database.Close(db)

	_, err = service.NewLoadService(repository.NewDatasetRepository(db), logger).Load(ctx, ds, source)
	return err
}

func printStats(w io.Writer, where string, st normalize.Stats) {
	fmt.Fprintf(w, "%s: %d categories, %d months, %d areas, %d crimes\n",
		where, st.Categories, st.Months, st.Areas, st.Crimes)
}
