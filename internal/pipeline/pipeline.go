// Package pipeline wires the default Go front-end, builders and plugins into a
// converter and runs a full conversion from CLI arguments to storage.
package pipeline

import (
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"reflectdoc/internal/config"
	"reflectdoc/internal/converter"
	"reflectdoc/internal/converter/nodes"
	"reflectdoc/internal/converter/typeconv"
	"reflectdoc/internal/frontend/golang"
	"reflectdoc/internal/plugins"
)

// NewDefaultConverter returns a converter with the Go loader, every node and
// type converter, and the default plugins.
func NewDefaultConverter(opts *config.Options, log *zap.SugaredLogger) (*converter.Converter, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	conv := converter.New(opts, golang.NewLoader(log), converter.WithLogger(log))

	var components []converter.Component
	components = append(components, nodes.Builders()...)
	components = append(components, typeconv.All()...)
	components = append(components, plugins.All()...)

	for _, comp := range components {
		if err := conv.AddComponent(comp); err != nil {
			return nil, errors.Wrapf(err, "failed to register %s", comp.Name())
		}
	}
	return conv, nil
}
