package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// YAMLProvider implements ConfigProvider for YAML configuration files.
type YAMLProvider struct {
	filename string
}

// NewYAMLProvider creates a new YAML configuration provider.
func NewYAMLProvider(filename string) *YAMLProvider {
	return &YAMLProvider{filename: filename}
}

// LoadConfig loads the complete configuration from the YAML file. Decoding
// is strict: unknown fields anywhere in the document are an error, so a
// misspelled EYA or OA key fails loudly instead of silently dropping a loss
// category.
func (y *YAMLProvider) LoadConfig() (*ConfigData, error) {
	cfgFile, err := os.ReadFile(y.filename)
	if err != nil {
		return nil, err
	}

	var yamlConfig struct {
		Plant struct {
			Name         string  `yaml:"name"`
			Latitude     float64 `yaml:"latitude"`
			Longitude    float64 `yaml:"longitude"`
			CapacityMW   float64 `yaml:"capacity_mw"`
			TurbineCount int     `yaml:"turbine_count"`
		} `yaml:"plant"`
		Storage struct {
			TimescaleDB *struct {
				ConnectionString string `yaml:"connection_string"`
			} `yaml:"timescaledb"`
		} `yaml:"storage,omitempty"`
		REST *struct {
			ListenAddr string `yaml:"listen_addr"`
			Port       int    `yaml:"port"`
		} `yaml:"rest,omitempty"`
		EYAEstimates map[string]float64 `yaml:"eya_estimates,omitempty"`
		OAResults    map[string]float64 `yaml:"oa_results,omitempty"`
	}

	if err := yaml.UnmarshalStrict(cfgFile, &yamlConfig); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", y.filename, err)
	}

	if err := validateMappingKeys("eya_estimates", yamlConfig.EYAEstimates, eyaKeys); err != nil {
		return nil, err
	}
	if err := validateMappingKeys("oa_results", yamlConfig.OAResults, oaKeys); err != nil {
		return nil, err
	}

	config := &ConfigData{
		Plant: PlantData{
			Name:         yamlConfig.Plant.Name,
			Latitude:     yamlConfig.Plant.Latitude,
			Longitude:    yamlConfig.Plant.Longitude,
			CapacityMW:   yamlConfig.Plant.CapacityMW,
			TurbineCount: yamlConfig.Plant.TurbineCount,
		},
		EYAEstimates: yamlConfig.EYAEstimates,
		OAResults:    yamlConfig.OAResults,
	}

	if yamlConfig.Storage.TimescaleDB != nil {
		config.Storage.TimescaleDB = &TimescaleDBData{
			ConnectionString: yamlConfig.Storage.TimescaleDB.ConnectionString,
		}
	}
	if yamlConfig.REST != nil {
		config.RESTServer = &RESTServerData{
			ListenAddr: yamlConfig.REST.ListenAddr,
			Port:       yamlConfig.REST.Port,
		}
	}

	return config, nil
}

// IsReadOnly returns true; YAML files are not written by this tool.
func (y *YAMLProvider) IsReadOnly() bool { return true }

// Close is a no-op for the YAML provider.
func (y *YAMLProvider) Close() error { return nil }
