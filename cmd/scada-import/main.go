// Command scada-import bulk-loads turbine SCADA samples from a CSV file
// into the TimescaleDB storage backend through the storage engine channel.
//
// Expected CSV columns (header required):
//
//	time,stationname,windspeed,windspeedsd,winddir,power,temperature,pressure
//
// The time column is RFC 3339. Empty numeric cells are stored as NaN so the
// fitting strategies can exclude them downstream.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/turbinewerks/windplant/internal/log"
	"github.com/turbinewerks/windplant/internal/storage/timescaledb"
)

func main() {
	var (
		connString = flag.String("conn", "", "TimescaleDB connection string (postgres://...)")
		csvFile    = flag.String("file", "", "Path to SCADA CSV file")
		station    = flag.String("station", "", "Override station name for every row (optional)")
		debug      = flag.Bool("debug", false, "Turn on debugging output")
	)
	flag.Parse()

	if *connString == "" || *csvFile == "" {
		fmt.Fprintln(os.Stderr, "Error: -conn and -file are required")
		flag.Usage()
		os.Exit(1)
	}

	if err := log.Init(*debug); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	storage, err := timescaledb.New(ctx, *connString)
	if err != nil {
		log.Errorf("Failed to initialize storage: %v", err)
		os.Exit(1)
	}

	var wg sync.WaitGroup
	readingChan := storage.StartStorageEngine(ctx, &wg)

	count, err := importCSV(*csvFile, *station, readingChan)
	if err != nil {
		log.Errorf("Import failed after %d rows: %v", count, err)
		cancel()
		wg.Wait()
		os.Exit(1)
	}

	// Let the engine drain the channel before shutting it down.
	for len(readingChan) > 0 {
		time.Sleep(50 * time.Millisecond)
	}
	cancel()
	wg.Wait()

	log.Infof("imported %d SCADA readings from %s", count, *csvFile)
}

func importCSV(filename, stationOverride string, out chan<- timescaledb.ScadaReading) (int, error) {
	file, err := os.Open(filename)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("error reading CSV header: %w", err)
	}
	col, err := columnIndex(header)
	if err != nil {
		return 0, err
	}

	count := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return count, fmt.Errorf("error reading CSV row: %w", err)
		}

		reading, err := parseReading(record, col)
		if err != nil {
			return count, fmt.Errorf("row %d: %w", count+2, err)
		}
		if stationOverride != "" {
			reading.StationName = stationOverride
		}
		out <- reading
		count++
	}
	return count, nil
}

type columns struct {
	time, station, windspeed, windspeedsd, winddir, power, temperature, pressure int
}

func columnIndex(header []string) (columns, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}

	col := columns{}
	required := map[string]*int{
		"time":        &col.time,
		"stationname": &col.station,
		"windspeed":   &col.windspeed,
		"windspeedsd": &col.windspeedsd,
		"winddir":     &col.winddir,
		"power":       &col.power,
		"temperature": &col.temperature,
		"pressure":    &col.pressure,
	}
	for name, dst := range required {
		i, ok := index[name]
		if !ok {
			return col, fmt.Errorf("CSV is missing required column %q", name)
		}
		*dst = i
	}
	return col, nil
}

func parseReading(record []string, col columns) (timescaledb.ScadaReading, error) {
	var r timescaledb.ScadaReading

	t, err := time.Parse(time.RFC3339, record[col.time])
	if err != nil {
		return r, fmt.Errorf("bad time %q: %w", record[col.time], err)
	}

	r.Time = t.UTC()
	r.StationName = record[col.station]
	r.WindSpeed = parseFloat(record[col.windspeed])
	r.WindSpeedSD = parseFloat(record[col.windspeedsd])
	r.WindDir = parseFloat(record[col.winddir])
	r.Power = parseFloat(record[col.power])
	r.Temperature = parseFloat(record[col.temperature])
	r.Pressure = parseFloat(record[col.pressure])
	return r, nil
}

func parseFloat(s string) float64 {
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
