package config

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteProvider implements ConfigProvider for SQLite database configuration.
type SQLiteProvider struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteProvider creates a new SQLite configuration provider.
func NewSQLiteProvider(dbPath string) (*SQLiteProvider, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}
	return &SQLiteProvider{db: db, dbPath: dbPath}, nil
}

// LoadConfig loads the complete configuration from the SQLite database.
func (s *SQLiteProvider) LoadConfig() (*ConfigData, error) {
	config := &ConfigData{}

	plant, err := s.getPlant()
	if err != nil {
		return nil, fmt.Errorf("failed to load plant metadata: %w", err)
	}
	config.Plant = *plant

	if err := s.loadStorage(config); err != nil {
		return nil, fmt.Errorf("failed to load storage config: %w", err)
	}
	if err := s.loadRESTServer(config); err != nil {
		return nil, fmt.Errorf("failed to load REST server config: %w", err)
	}

	eya, err := s.getMapping("eya_estimates", eyaKeys)
	if err != nil {
		return nil, err
	}
	config.EYAEstimates = eya

	oa, err := s.getMapping("oa_results", oaKeys)
	if err != nil {
		return nil, err
	}
	config.OAResults = oa

	return config, nil
}

func (s *SQLiteProvider) getPlant() (*PlantData, error) {
	query := `
		SELECT name, latitude, longitude, capacity_mw, turbine_count
		FROM plant
		WHERE config_id = (SELECT id FROM configs WHERE name = 'default')
	`
	var plant PlantData
	var lat, lon, capacity sql.NullFloat64
	var turbines sql.NullInt64

	err := s.db.QueryRow(query).Scan(&plant.Name, &lat, &lon, &capacity, &turbines)
	if err != nil {
		return nil, fmt.Errorf("failed to query plant: %w", err)
	}
	if lat.Valid {
		plant.Latitude = lat.Float64
	}
	if lon.Valid {
		plant.Longitude = lon.Float64
	}
	if capacity.Valid {
		plant.CapacityMW = capacity.Float64
	}
	if turbines.Valid {
		plant.TurbineCount = int(turbines.Int64)
	}
	return &plant, nil
}

func (s *SQLiteProvider) loadStorage(config *ConfigData) error {
	query := `
		SELECT connection_string
		FROM storage_timescaledb
		WHERE config_id = (SELECT id FROM configs WHERE name = 'default')
	`
	var connStr string
	err := s.db.QueryRow(query).Scan(&connStr)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to query storage config: %w", err)
	}
	config.Storage.TimescaleDB = &TimescaleDBData{ConnectionString: connStr}
	return nil
}

func (s *SQLiteProvider) loadRESTServer(config *ConfigData) error {
	query := `
		SELECT listen_addr, port
		FROM rest_server
		WHERE config_id = (SELECT id FROM configs WHERE name = 'default')
	`
	var listenAddr sql.NullString
	var port int
	err := s.db.QueryRow(query).Scan(&listenAddr, &port)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to query REST server config: %w", err)
	}
	rest := &RESTServerData{Port: port}
	if listenAddr.Valid {
		rest.ListenAddr = listenAddr.String
	}
	config.RESTServer = rest
	return nil
}

// getMapping reads a key/value section, rejecting keys outside the allowed
// set for the section.
func (s *SQLiteProvider) getMapping(table string, allowed []string) (map[string]float64, error) {
	query := fmt.Sprintf(`
		SELECT key, value
		FROM %s
		WHERE config_id = (SELECT id FROM configs WHERE name = 'default')
	`, table)

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	m := make(map[string]float64)
	for rows.Next() {
		var key string
		var value float64
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", table, err)
		}
		m[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s rows: %w", table, err)
	}
	if len(m) == 0 {
		return nil, nil
	}
	if err := validateMappingKeys(table, m, allowed); err != nil {
		return nil, err
	}
	return m, nil
}

// IsReadOnly returns false; the SQLite backend supports writes.
func (s *SQLiteProvider) IsReadOnly() bool { return false }

// Close closes the database connection.
func (s *SQLiteProvider) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
