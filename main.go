// Command activity.report tidies zebrafish locomotor-activity recordings
// and renders per-genotype activity charts.
//
// It reads a genotype assignment file and an activity file (either the raw
// monitor export or the pre-processed wide export), normalises them into a
// tidy time-series table, resamples the table over light/dark-aligned
// windows, and writes a tidy CSV and/or HTML and PNG charts.
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/banshee-data/activity.report/internal/activity"
	"github.com/banshee-data/activity.report/internal/genotype"
	"github.com/banshee-data/activity.report/internal/summary"
	"github.com/banshee-data/activity.report/internal/version"
	"github.com/banshee-data/activity.report/internal/viz"
)

var (
	activityFile = flag.String("activity", "", "Activity data file (required)")
	gtypeFile    = flag.String("gtype", "", "Genotype assignment file (required unless -tidy)")
	outFile      = flag.String("out", "", "Output HTML chart file")
	tidyOut      = flag.String("tidy-out", "", "Output tidy CSV file")
	pngDir       = flag.String("png-dir", "", "Directory for static PNG charts")

	window    = flag.Int("window", 10, "Number of time points summed per resampling window")
	lightsOn  = flag.String("lightson", "9:00:00", "Time of day the lights come on")
	lightsOff = flag.String("lightsoff", "23:00:00", "Time of day the lights go off")
	startDay  = flag.Int("startday", 5, "Day in the fish's life the experiment began")

	tidyIn       = flag.Bool("tidy", false, "Activity file is an already-tidy CSV")
	preprocessed = flag.Bool("preprocessed", false, "Activity file is a pre-processed wide export")

	summaryFlag = flag.String("summary", "mean", "Summary overlay: mean, median, min, max, none, or a quantile in (0,1)")
	extraCols   = flag.String("extra", "", "Comma-separated extra raw columns to carry through (monitor format)")

	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}
	if *activityFile == "" {
		log.Fatal("-activity is required")
	}
	if *gtypeFile == "" && !*tidyIn {
		log.Fatal("-gtype is required unless -tidy is set")
	}
	if *tidyIn && *preprocessed {
		log.Fatal("-tidy and -preprocessed are mutually exclusive")
	}
	if *outFile == "" && *tidyOut == "" && *pngDir == "" {
		log.Fatal("nothing to do: set at least one of -out, -tidy-out, -png-dir")
	}

	stat, err := summary.Named(*summaryFlag)
	if err != nil {
		log.Fatalf("-summary: %v", err)
	}

	runID := uuid.NewString()
	log.Printf("run %s: loading %s", runID, *activityFile)

	table, err := load()
	if err != nil {
		log.Fatalf("load: %v", err)
	}
	log.Printf("run %s: %d observations, %d fish, %d genotypes",
		runID, table.Len(), len(table.FishIDs()), len(table.Genotypes()))

	resampled, err := activity.Resample(table, *window)
	if err != nil {
		log.Fatalf("resample (window %d): %v", *window, err)
	}

	if *tidyOut != "" {
		if err := activity.WriteFile(*tidyOut, resampled); err != nil {
			log.Fatalf("write tidy output: %v", err)
		}
		log.Printf("run %s: wrote %s (%d rows)", runID, *tidyOut, resampled.Len())
	}

	opts := viz.Options{
		Title:    "fish activity explorer",
		Subtitle: "run " + runID,
		Summary:  stat,
	}
	if *outFile != "" {
		if err := viz.WriteHTML(*outFile, resampled, opts); err != nil {
			log.Fatalf("write chart: %v", err)
		}
		log.Printf("run %s: wrote %s", runID, *outFile)
	}
	if *pngDir != "" {
		n, err := viz.WritePNGs(*pngDir, resampled, opts)
		if err != nil {
			log.Fatalf("write PNG charts: %v", err)
		}
		log.Printf("run %s: wrote %d charts to %s", runID, n, *pngDir)
	}
}

// load builds the tidy table from the selected input format.
func load() (*activity.Table, error) {
	if *tidyIn {
		return activity.ReadFile(*activityFile)
	}

	gt, err := genotype.Load(*gtypeFile)
	if err != nil {
		return nil, err
	}

	if *preprocessed {
		return activity.LoadPreprocessed(*activityFile, gt)
	}

	on, err := activity.ParseClockTime(*lightsOn)
	if err != nil {
		return nil, fmt.Errorf("-lightson: %w", err)
	}
	off, err := activity.ParseClockTime(*lightsOff)
	if err != nil {
		return nil, fmt.Errorf("-lightsoff: %w", err)
	}

	return activity.LoadMonitor(*activityFile, gt, activity.MonitorOptions{
		LightsOn:     on,
		LightsOff:    off,
		DayInTheLife: *startDay,
		ExtraColumns: splitColumns(*extraCols),
	})
}

// splitColumns parses the -extra flag's comma-separated column list.
func splitColumns(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, c := range strings.Split(s, ",") {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}
