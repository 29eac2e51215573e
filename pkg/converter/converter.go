// pkg/converter/converter.go
package converter

import (
	"strings"

	"go.uber.org/zap"
)

// TypeConverter handles coercion of raw cell values into typed values
type TypeConverter struct {
	logger *zap.Logger
	// Configuration options
	config TypeConverterConfig
}

// TypeConverterConfig provides configuration options for value coercion
type TypeConverterConfig struct {
	// Cell texts treated as missing, compared case-insensitively after trimming
	NullValues []string
	// Whether to strip "," thousands separators before parsing numbers
	StripThousandsSeparator bool
}

// DefaultConfig returns the default configuration
func DefaultConfig() TypeConverterConfig {
	return TypeConverterConfig{
		NullValues:              []string{"", "null", "nil", "nan", "na", "n/a"},
		StripThousandsSeparator: false,
	}
}

// NewTypeConverter creates a new TypeConverter with default configuration
func NewTypeConverter(logger *zap.Logger) *TypeConverter {
	return NewTypeConverterWithConfig(logger, DefaultConfig())
}

// NewTypeConverterWithConfig creates a TypeConverter with custom configuration
func NewTypeConverterWithConfig(logger *zap.Logger, config TypeConverterConfig) *TypeConverter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TypeConverter{
		logger: logger,
		config: config,
	}
}

// IsNull reports whether a value should be treated as missing
func (c *TypeConverter) IsNull(value interface{}) bool {
	if value == nil {
		return true
	}
	s, ok := value.(string)
	if !ok {
		return false
	}
	s = strings.TrimSpace(s)
	for _, null := range c.config.NullValues {
		if strings.EqualFold(s, null) {
			return true
		}
	}
	return false
}

// Float coerces a value to a finite float64, honouring the configured null tokens
func (c *TypeConverter) Float(value interface{}) (float64, error) {
	if c.IsNull(value) {
		return 0, ErrNull
	}
	if s, ok := value.(string); ok && c.config.StripThousandsSeparator {
		value = strings.ReplaceAll(s, ",", "")
	}
	f, err := ToFloat(value)
	if err != nil {
		c.logger.Debug("Value coercion failed",
			zap.String("value", toString(value)),
			zap.Error(err))
	}
	return f, err
}
