// Command gap-analysis loads the EYA estimate and OA results from a
// configuration source and prints the AEP-difference waterfall.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/turbinewerks/windplant/pkg/config"
	"github.com/turbinewerks/windplant/pkg/gapanalysis"
)

func main() {
	cfgFile := flag.String("config", "config.yaml", "Path to configuration source")
	cfgBackend := flag.String("config-backend", "yaml", "Configuration backend type: 'yaml' or 'sqlite'")
	flag.Parse()

	provider, err := newProvider(*cfgFile, *cfgBackend)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer provider.Close()

	cfg, err := provider.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	if cfg.EYAEstimates == nil || cfg.OAResults == nil {
		fmt.Fprintln(os.Stderr, "Error: configuration must define both eya_estimates and oa_results")
		os.Exit(1)
	}

	eya, err := gapanalysis.EYAEstimateFromMap(cfg.EYAEstimates)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error in eya_estimates: %v\n", err)
		os.Exit(1)
	}
	oa, err := gapanalysis.OAResultsFromMap(cfg.OAResults)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error in oa_results: %v\n", err)
		os.Exit(1)
	}

	analysis, err := gapanalysis.New(eya, oa)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	analysis.PlantName = cfg.Plant.Name

	printWaterfall(analysis)
}

func newProvider(cfgFile, cfgBackend string) (config.ConfigProvider, error) {
	filename, _ := filepath.Abs(cfgFile)

	switch cfgBackend {
	case "yaml":
		return config.NewYAMLProvider(filename), nil
	case "sqlite":
		return config.NewSQLiteProvider(filename)
	default:
		return nil, fmt.Errorf("unsupported configuration backend: %s. Use 'yaml' or 'sqlite'", cfgBackend)
	}
}

func printWaterfall(a *gapanalysis.Analysis) {
	compiled := a.Compile()
	labels := gapanalysis.Labels()

	title := "EYA/OA Gap Analysis"
	if a.PlantName != "" {
		title = fmt.Sprintf("EYA/OA Gap Analysis: %s", a.PlantName)
	}
	fmt.Println(title)
	fmt.Println(strings.Repeat("=", len(title)))
	fmt.Println()

	fmt.Printf("%-22s | %12s | %12s\n", "Category", "GWh/yr", "Cumulative")
	fmt.Printf("-----------------------+--------------+-------------\n")
	cumulative := 0.0
	for i, label := range labels {
		cumulative += compiled[i]
		fmt.Printf("%-22s | %+12.3f | %12.3f\n", label, compiled[i], cumulative)
	}
	fmt.Println()
	fmt.Printf("OA AEP: %.3f GWh/yr (cumulative sum matches by construction)\n", a.OA().AEP)
	fmt.Printf("EYA AEP: %.3f GWh/yr, gap: %+.3f GWh/yr\n", a.EYA().AEP, a.OA().AEP-a.EYA().AEP)
}
