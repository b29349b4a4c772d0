package version

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// CheckSchemaCompatibility checks if the engine version can load a strategy
// file declaring the given schema version. Returns nil if compatible.
//
// Compatibility Rules:
//   - If either version is "main" (development build), the check is skipped
//   - Major versions must match exactly
//   - Minor and patch versions can differ (an older strategy file keeps
//     loading on a newer engine within the same major)
//
// Examples:
//   - Engine 1.2.0, Schema 1.0.0 -> OK
//   - Engine 2.0.0, Schema 1.0.0 -> ERROR (major differs)
//   - Engine main, Schema 1.0.0 -> OK (dev build, skip check)
func CheckSchemaCompatibility(engineVersion, schemaVersion string) error {
	// Strip 'v' prefix if present for consistency
	engineVersion = strings.TrimPrefix(engineVersion, "v")
	schemaVersion = strings.TrimPrefix(schemaVersion, "v")

	// Skip version check for "main" (development builds)
	if engineVersion == "main" || schemaVersion == "main" {
		return nil
	}

	engineSemver, err := semver.NewVersion(engineVersion)
	if err != nil {
		return fmt.Errorf("invalid engine version '%s': %w", engineVersion, err)
	}

	schemaSemver, err := semver.NewVersion(schemaVersion)
	if err != nil {
		return fmt.Errorf("invalid schema version '%s': %w", schemaVersion, err)
	}

	if engineSemver.Major() != schemaSemver.Major() {
		return fmt.Errorf("major version mismatch: engine is %d.x.x but strategy file declares schema %d.x.x",
			engineSemver.Major(), schemaSemver.Major())
	}

	return nil
}
