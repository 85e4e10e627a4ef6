package config

import (
	"bytes"
	"fmt"
	"francoggm/donations-go-redis/internal/models"
	"os"

	"gopkg.in/yaml.v3"
)

// RegistrationTable lists the frequencies and providers registered at startup.
// An empty section means the built-in defaults are used.
type RegistrationTable struct {
	Frequencies []models.FrequencyDefinition `yaml:"frequencies"`
	Providers   []models.ProviderDefinition  `yaml:"providers"`
}

func LoadRegistrationTable(path string) (*RegistrationTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read registration table: %w", err)
	}

	return ParseRegistrationTable(data)
}

func ParseRegistrationTable(data []byte) (*RegistrationTable, error) {
	var table RegistrationTable

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&table); err != nil {
		return nil, fmt.Errorf("%w: failed to parse registration table: %v", models.ErrConfiguration, err)
	}

	return &table, nil
}
