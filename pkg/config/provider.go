// Package config loads the analysis configuration: plant metadata, storage
// backends, the REST server, and the EYA estimate and OA result mappings
// consumed by the gap analysis. Two backends are provided, YAML files and
// SQLite databases. The config layer owns key validation for the EYA/OA
// mappings: unrecognized keys are rejected here, before the numeric core
// ever sees them.
package config

import "fmt"

// ConfigProvider defines the interface for configuration data sources.
type ConfigProvider interface {
	// LoadConfig loads the complete configuration.
	LoadConfig() (*ConfigData, error)

	// IsReadOnly reports whether the backend supports writes.
	IsReadOnly() bool
	Close() error
}

// ConfigData represents the complete configuration structure.
type ConfigData struct {
	Plant        PlantData          `json:"plant"`
	Storage      StorageData        `json:"storage,omitempty"`
	RESTServer   *RESTServerData    `json:"rest,omitempty"`
	EYAEstimates map[string]float64 `json:"eya_estimates,omitempty"`
	OAResults    map[string]float64 `json:"oa_results,omitempty"`
}

// PlantData holds wind plant metadata. It labels analysis output and scopes
// storage queries; it carries no algorithmic meaning.
type PlantData struct {
	Name         string  `json:"name"`
	Latitude     float64 `json:"latitude,omitempty"`
	Longitude    float64 `json:"longitude,omitempty"`
	CapacityMW   float64 `json:"capacity_mw,omitempty"`
	TurbineCount int     `json:"turbine_count,omitempty"`
}

// StorageData holds the configuration for storage backends.
type StorageData struct {
	TimescaleDB *TimescaleDBData `json:"timescaledb,omitempty"`
}

// TimescaleDBData holds the TimescaleDB connection configuration.
type TimescaleDBData struct {
	ConnectionString string `json:"connection_string"`
}

// RESTServerData holds the REST server configuration.
type RESTServerData struct {
	ListenAddr string `json:"listen_addr,omitempty"`
	Port       int    `json:"port"`
}

// The canonical keys for the EYA estimate and OA result mappings.
var (
	eyaKeys = []string{
		"aep", "gross_energy", "availability_losses", "electrical_losses",
		"turbine_losses", "blade_degradation_losses", "wake_losses",
	}
	oaKeys = []string{
		"aep", "availability_losses", "electrical_losses", "turbine_ideal_energy",
	}
)

// validateMappingKeys rejects keys outside the allowed set. Missing keys are
// tolerated here; the analysis core reports them when the bundle is built.
func validateMappingKeys(section string, m map[string]float64, allowed []string) error {
	for k := range m {
		found := false
		for _, a := range allowed {
			if k == a {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("config: unrecognized key %q in %s", k, section)
		}
	}
	return nil
}
