package render

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bloom-dao/bloomgov/internal/domain/config"
	"github.com/bloom-dao/bloomgov/internal/usecase"
)

// ConfigRenderer renders config-related output
type ConfigRenderer struct {
	out io.Writer
}

// NewConfigRenderer creates a new config renderer
func NewConfigRenderer(out io.Writer) *ConfigRenderer {
	return &ConfigRenderer{out: out}
}

// getRelativePath returns the relative path from current directory
func getRelativePath(path string) string {
	cwd, err := os.Getwd()
	if err != nil {
		return path
	}
	relPath, err := filepath.Rel(cwd, path)
	if err != nil {
		return path
	}
	return relPath
}

// RenderConfig renders the local defaults and the settings in effect
func (r *ConfigRenderer) RenderConfig(result *usecase.ShowConfigResult) error {
	if !result.Exists {
		fmt.Fprintln(r.out, FormatWarning("No .bloomgov/config.local.json file found, using defaults"))
	} else {
		fmt.Fprintln(r.out, headerStyle.Sprint("Local config:"))
		for _, key := range config.ValidConfigKeys() {
			value := result.Config.Get(key)
			if value == "" {
				value = "(not set)"
			}
			field(r.out, string(key), value)
		}
		fmt.Fprintln(r.out)
	}

	if eff := result.Effective; eff != nil {
		fmt.Fprintln(r.out, headerStyle.Sprint("Effective settings:"))
		field(r.out, "From", addressStyle.Sprint(eff.From.Hex()))
		field(r.out, "Store", string(eff.Store))
		field(r.out, "Sponsored", formatBool(eff.Sponsored))
		gasPrice := "chain default"
		if eff.GasPrice != nil {
			gasPrice = FormatGwei(eff.GasPrice)
		}
		field(r.out, "Gas price", gasPrice)
		gasLimit := "chain default"
		if eff.GasLimit > 0 {
			gasLimit = fmt.Sprintf("%d", eff.GasLimit)
		}
		field(r.out, "Gas limit", gasLimit)
		fmt.Fprintln(r.out)
	}

	fmt.Fprintf(r.out, "Config source: %s\n", result.ConfigSource)
	fmt.Fprintf(r.out, "Config file:   %s\n", getRelativePath(result.ConfigPath))
	return nil
}

// RenderSet renders the result of setting a configuration value
func (r *ConfigRenderer) RenderSet(result *usecase.SetConfigResult) error {
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Set %s to: %s", result.Key, result.Value)))
	fmt.Fprintf(r.out, "Config saved to: %s\n", getRelativePath(result.ConfigPath))
	return nil
}

// RenderRemove renders the result of removing a configuration value
func (r *ConfigRenderer) RenderRemove(result *usecase.RemoveConfigResult) error {
	if result.RemovedValue == "" {
		fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("%s was not set", result.Key)))
	} else {
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Removed %s (was: %s)", result.Key, result.RemovedValue)))
	}
	fmt.Fprintf(r.out, "Config saved to: %s\n", getRelativePath(result.ConfigPath))
	return nil
}

func formatBool(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
