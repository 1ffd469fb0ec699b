// Package container provides dependency injection for the coa-xml application.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"fmt"

	"fjacquet/coa-xml/internal/config"
	"fjacquet/coa-xml/internal/converter"
	"fjacquet/coa-xml/internal/logging"
	"fjacquet/coa-xml/internal/xmlutils"
)

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation - all fields are private and can only
// be accessed through getter methods.
type Container struct {
	logger    logging.Logger
	config    *config.Config
	converter *converter.Converter
}

// NewContainer creates and wires all application dependencies using a
// logger built from the configuration.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	return NewContainerWithLogger(cfg, config.ConfigureLoggingFromConfig(cfg))
}

// NewContainerWithLogger is NewContainer with an explicit logger, used by
// commands that redirect output and by tests.
func NewContainerWithLogger(cfg *config.Config, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	xmlutils.SetLogger(logger)

	conv := converter.New(converter.Options{
		Delimiter: cfg.Delimiter(),
		Sheet:     cfg.XLSX.Sheet,
		RootName:  cfg.Chart.RootName,
		RootType:  cfg.Chart.RootType,
	}, logger)

	logger.Debug("Container initialized successfully",
		logging.F(logging.FieldDelimiter, cfg.CSV.Delimiter),
		logging.F(logging.FieldSheet, cfg.XLSX.Sheet))

	return &Container{
		logger:    logger,
		config:    cfg,
		converter: conv,
	}, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetConverter returns the chart-of-accounts converter.
func (c *Container) GetConverter() *converter.Converter {
	return c.converter
}

// Close performs cleanup of container resources.
func (c *Container) Close() error {
	c.logger.Debug("Container closed")
	return nil
}
