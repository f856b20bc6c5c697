package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"vehicle-insurance-mlops/internal/core/domain"
)

// LoadSchema reads and validates the declarative column schema.
func LoadSchema(path string) (*domain.Schema, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema %s: %w", path, err)
	}
	return ParseSchema(b)
}

func ParseSchema(b []byte) (*domain.Schema, error) {
	var s domain.Schema
	if err := yaml.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidSchema, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}
