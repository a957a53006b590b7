// Command powercurve-fit fits all power-curve strategies to the stored
// SCADA data for one station, prints a comparison table, and optionally
// exports the per-sample residuals to CSV.
package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	_ "github.com/lib/pq"

	"github.com/turbinewerks/windplant/internal/log"
	"github.com/turbinewerks/windplant/internal/storage/timescaledb"
	"github.com/turbinewerks/windplant/pkg/curvefit"
	"github.com/turbinewerks/windplant/pkg/powercurve"
)

// Observation is one correlated wind speed / power sample
type Observation struct {
	Time      time.Time
	WindSpeed float64
	Power     float64
}

// FitResult contains the comparison data for one strategy
type FitResult struct {
	Strategy  string
	Curve     powercurve.Curve
	Metrics   powercurve.Metrics
	BestByR2  bool
	Converged bool
}

func main() {
	var (
		dbHost  = flag.String("db-host", "localhost", "Database host")
		dbPort  = flag.Int("db-port", 5432, "Database port")
		dbUser  = flag.String("db-user", "postgres", "Database user")
		dbPass  = flag.String("db-pass", "", "Database password")
		dbName  = flag.String("db-name", "windplant", "Database name")
		station = flag.String("station", "", "Turbine station name")
		days    = flag.Int("days", 90, "Number of days of data to analyze")
		seed    = flag.Int64("seed", 42, "Random seed for the parametric fit")
		csvOut  = flag.String("csv", "", "Optional CSV output file path for residuals")
		store   = flag.Bool("store", false, "Store the best-scoring curve as an analysis run")
		debug   = flag.Bool("debug", false, "Turn on debugging output")
	)
	flag.Parse()

	if err := log.Init(*debug); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if *station == "" {
		fmt.Fprintln(os.Stderr, "Error: -station is required")
		os.Exit(1)
	}

	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		*dbHost, *dbPort, *dbUser, *dbPass, *dbName)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error connecting to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		fmt.Fprintf(os.Stderr, "Error pinging database: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Power Curve Fitting\n")
	fmt.Printf("===================\n\n")
	fmt.Printf("Configuration:\n")
	fmt.Printf("  Station: %s\n", *station)
	fmt.Printf("  Analysis Period: %d days\n\n", *days)

	obs := fetchObservations(db, *station, *days)
	if len(obs) < 10 {
		fmt.Fprintf(os.Stderr, "Error: Not enough data points (%d). Need at least 10.\n", len(obs))
		os.Exit(1)
	}
	fmt.Printf("Collected %d data points\n\n", len(obs))

	windspeed := make([]float64, len(obs))
	power := make([]float64, len(obs))
	for i, o := range obs {
		windspeed[i] = o.WindSpeed
		power[i] = o.Power
	}

	results := fitAllStrategies(windspeed, power, *seed)
	if len(results) == 0 {
		fmt.Fprintln(os.Stderr, "Error: every fitting strategy failed")
		os.Exit(1)
	}
	displayComparison(results)

	if *csvOut != "" {
		best := bestByR2(results)
		if err := exportCSV(*csvOut, obs, best.Curve); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing CSV: %v\n", err)
		} else {
			fmt.Printf("\nResiduals exported to: %s\n", *csvOut)
		}
	}

	if *store {
		best := bestByR2(results)
		run, err := storeBest(connStr, *station, best)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error storing analysis run: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Stored %s curve as analysis run %s\n", best.Strategy, run.ID)
	}
}

// storeBest records the winning curve through the storage backend so the
// serving layer can reload it without refitting.
func storeBest(connStr, station string, best FitResult) (*timescaledb.AnalysisRun, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	storage, err := timescaledb.New(ctx, connStr)
	if err != nil {
		return nil, err
	}
	return storage.StoreAnalysisRun(ctx, station, best.Curve, best.Metrics)
}

func fetchObservations(db *sql.DB, station string, days int) []Observation {
	query := `
		SELECT time, windspeed, power
		FROM scada
		WHERE stationname = $1
		  AND time >= NOW() - INTERVAL '1 day' * $2
		  AND windspeed IS NOT NULL
		  AND power IS NOT NULL
		ORDER BY time
	`

	rows, err := db.Query(query, station, days)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error querying data: %v\n", err)
		os.Exit(1)
	}
	defer rows.Close()

	var obs []Observation
	for rows.Next() {
		var o Observation
		if err := rows.Scan(&o.Time, &o.WindSpeed, &o.Power); err != nil {
			fmt.Fprintf(os.Stderr, "Error scanning row: %v\n", err)
			continue
		}
		obs = append(obs, o)
	}
	return obs
}

func fitAllStrategies(windspeed, power []float64, seed int64) []FitResult {
	var results []FitResult

	if curve, err := powercurve.FitIEC(windspeed, power, nil); err == nil {
		results = append(results, score("IEC binned", curve, windspeed, power, true))
	} else {
		fmt.Fprintf(os.Stderr, "IEC fit failed: %v\n", err)
	}

	opts := curvefit.DefaultOptions()
	opts.Seed = seed
	curve, err := powercurve.FitLogistic5(windspeed, power, opts)
	if err == nil || errors.Is(err, curvefit.ErrOptimizationFailure) {
		r := score("Logistic (5p)", curve, windspeed, power, err == nil)
		results = append(results, r)
	} else {
		fmt.Fprintf(os.Stderr, "Logistic fit failed: %v\n", err)
	}

	if curve, err := powercurve.FitAdditive(windspeed, power, 0); err == nil {
		results = append(results, score("Additive spline", curve, windspeed, power, true))
	} else {
		fmt.Fprintf(os.Stderr, "Additive fit failed: %v\n", err)
	}

	if len(results) == 0 {
		return nil
	}
	best := bestByR2(results)
	for i := range results {
		results[i].BestByR2 = results[i].Strategy == best.Strategy
	}
	return results
}

func score(strategy string, curve powercurve.Curve, windspeed, power []float64, converged bool) FitResult {
	m, err := powercurve.GoodnessOfFit(curve, windspeed, power)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error scoring %s: %v\n", strategy, err)
	}
	return FitResult{Strategy: strategy, Curve: curve, Metrics: m, Converged: converged}
}

func bestByR2(results []FitResult) FitResult {
	best := results[0]
	for _, r := range results {
		if r.Metrics.RSquared > best.Metrics.RSquared {
			best = r
		}
	}
	return best
}

func displayComparison(results []FitResult) {
	fmt.Printf("Strategy Comparison\n")
	fmt.Printf("===================\n\n")

	sorted := make([]FitResult, len(results))
	copy(sorted, results)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Metrics.RSquared > sorted[j].Metrics.RSquared
	})

	fmt.Printf("%-16s | %8s | %9s | %9s | %s\n", "Strategy", "R²", "RMSE(kW)", "MAE(kW)", "Notes")
	fmt.Printf("-----------------+----------+-----------+-----------+----------\n")
	for _, r := range sorted {
		notes := ""
		if r.BestByR2 {
			notes = "← BEST"
		}
		if !r.Converged {
			notes += " (no cost improvement)"
		}
		fmt.Printf("%-16s | %8.4f | %9.2f | %9.2f | %s\n",
			r.Strategy, r.Metrics.RSquared, r.Metrics.RootMeanSquaredError, r.Metrics.MeanAbsoluteError, notes)
	}
	fmt.Println()
}

func exportCSV(filename string, obs []Observation, curve powercurve.Curve) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"Time", "WindSpeed_ms", "Power_kW", "Predicted_kW", "Residual_kW"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, o := range obs {
		predicted := curve.EvaluateAt(o.WindSpeed)
		record := []string{
			o.Time.Format(time.RFC3339),
			fmt.Sprintf("%.2f", o.WindSpeed),
			fmt.Sprintf("%.2f", o.Power),
			fmt.Sprintf("%.2f", predicted),
			fmt.Sprintf("%.2f", o.Power-predicted),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	return nil
}
