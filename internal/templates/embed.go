// Package templates holds files shipped inside the binary.
package templates

import (
	_ "embed"
)

//go:embed config.yaml
var configTemplate string

// ConfigTemplate returns the commented default config written by
// config:init.
func ConfigTemplate() string {
	return configTemplate
}
