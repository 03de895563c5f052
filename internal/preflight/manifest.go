package preflight

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	deployerrors "github.com/Aman-CERP/deploycheck/internal/errors"
)

// DefaultManifestVersion is reported when the manifest declares no version.
const DefaultManifestVersion = "1.0.0"

// utf8BOM is tolerated at the start of the manifest, as node does.
var utf8BOM = []byte("\xef\xbb\xbf")

// Manifest is the subset of package.json the checker reports on.
// Fields are decoded leniently: only a document that is not a JSON object
// fails to load.
type Manifest struct {
	Name    string
	Version string
	// Dependencies is the number of declared dependencies, or -1 when the
	// manifest declares none.
	Dependencies int
}

// LoadManifest reads and parses a package.json style manifest.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, deployerrors.New(deployerrors.ErrCodeManifestRead,
			fmt.Sprintf("failed to read manifest: %v", err), err).WithDetail("path", path)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, deployerrors.New(deployerrors.ErrCodeManifestInvalid,
			fmt.Sprintf("failed to parse manifest: %v", err), err).WithDetail("path", path)
	}
	if fields == nil {
		return nil, deployerrors.New(deployerrors.ErrCodeManifestInvalid,
			"manifest must be a JSON object, got null", nil).WithDetail("path", path)
	}

	return &Manifest{
		Name:         scalarText(fields["name"]),
		Version:      scalarText(fields["version"]),
		Dependencies: entryCount(fields["dependencies"]),
	}, nil
}

// scalarText renders a JSON value for display. Strings are unquoted; null,
// false, 0 and "" yield "" so that defaults apply.
func scalarText(raw json.RawMessage) string {
	var v any
	if len(raw) == 0 || json.Unmarshal(raw, &v) != nil {
		return ""
	}
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		if !t {
			return ""
		}
	case float64:
		if t == 0 {
			return ""
		}
	}
	return string(bytes.TrimSpace(raw))
}

// entryCount counts object keys or array elements, and returns -1 for an
// absent or empty-valued field.
func entryCount(raw json.RawMessage) int {
	var v any
	if len(raw) == 0 || json.Unmarshal(raw, &v) != nil {
		return -1
	}
	switch t := v.(type) {
	case map[string]any:
		return len(t)
	case []any:
		return len(t)
	case string:
		if t == "" {
			return -1
		}
		return len([]rune(t))
	case nil:
		return -1
	case bool:
		if !t {
			return -1
		}
	case float64:
		if t == 0 {
			return -1
		}
	}
	return 0
}

// VersionOrDefault returns the declared version, or DefaultManifestVersion.
func (m *Manifest) VersionOrDefault() string {
	if m.Version == "" {
		return DefaultManifestVersion
	}
	return m.Version
}

// CheckManifest loads the dependency manifest. Load or parse failure is one
// failure; on success the name, version and dependency count are reported.
func (c *Checker) CheckManifest() []CheckResult {
	name := c.cfg.Manifest
	result := CheckResult{
		Name:     "manifest",
		Required: true,
	}

	m, err := LoadManifest(c.path(name))
	if err != nil {
		result.Status = StatusFail
		result.Message = fmt.Sprintf("Failed to load %s: %v", name, messageOf(err))
		result.Err = err
		return []CheckResult{result}
	}

	result.Status = StatusPass
	result.Message = name + " loaded successfully"

	results := []CheckResult{result}

	pkgName := m.Name
	if pkgName == "" {
		pkgName = "(not declared)"
	}
	results = append(results,
		CheckResult{Name: "manifest:name", Status: StatusPass, Message: "Package name: " + pkgName},
		CheckResult{Name: "manifest:version", Status: StatusPass, Message: "Version: " + m.VersionOrDefault()},
	)

	if m.Dependencies >= 0 {
		results = append(results, CheckResult{
			Name:    "manifest:dependencies",
			Status:  StatusPass,
			Message: fmt.Sprintf("%d dependencies declared", m.Dependencies),
		})
	}

	return results
}

// messageOf returns the human message of a DeployError, or err.Error().
func messageOf(err error) string {
	if de, ok := err.(*deployerrors.DeployError); ok {
		return de.Message
	}
	return err.Error()
}
