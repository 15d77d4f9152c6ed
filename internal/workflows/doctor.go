package workflows

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/PolarWolf314/keyward/internal/configs"
	kerrors "github.com/PolarWolf314/keyward/internal/errors"
)

// CheckStatus represents the result status of a health check.
type CheckStatus int

const (
	CheckPass CheckStatus = iota
	CheckWarning
	CheckError
)

// String returns a string representation of CheckStatus.
func (s CheckStatus) String() string {
	switch s {
	case CheckPass:
		return "pass"
	case CheckWarning:
		return "warning"
	case CheckError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalJSON implements json.Marshaler for CheckStatus.
func (s CheckStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// CheckResult holds the result of a single health check.
type CheckResult struct {
	Name       string      `json:"name"`
	Status     CheckStatus `json:"status"`
	Message    string      `json:"message"`
	Suggestion string      `json:"suggestion,omitempty"`
}

// DoctorResult holds the complete result of the doctor workflow.
type DoctorResult struct {
	Checks  []CheckResult `json:"checks"`
	Summary DoctorSummary `json:"summary"`
}

// DoctorSummary holds counts of checks by status.
type DoctorSummary struct {
	Passed   int `json:"passed"`
	Warnings int `json:"warnings"`
	Errors   int `json:"errors"`
}

// HasErrors reports whether any check failed.
func (r *DoctorResult) HasErrors() bool {
	return r.Summary.Errors > 0
}

// Doctor runs health checks on the installation:
//   - the config file parses and validates
//   - the key file exists and is private to the user
//   - the keystore can unseal the key file
//
// The unsealed key is wiped straight away and never enters the key
// manager's cache.
func Doctor(env *Env) *DoctorResult {
	checks := []func(*Env) CheckResult{
		checkConfig,
		checkKeyFileExists,
		checkKeyFilePermissions,
		checkKeyUnseals,
	}

	results := make([]CheckResult, 0, len(checks))
	for _, check := range checks {
		results = append(results, check(env))
	}

	return &DoctorResult{
		Checks:  results,
		Summary: calculateDoctorSummary(results),
	}
}

func checkConfig(env *Env) CheckResult {
	config, err := configs.LoadConfig(env.Settings)
	if err != nil {
		return CheckResult{
			Name:       "Configuration",
			Status:     CheckError,
			Message:    err.Error(),
			Suggestion: fmt.Sprintf("Fix or delete %s", env.Settings.ConfigPath()),
		}
	}
	if config.Installation.ID == "" {
		return CheckResult{
			Name:    "Configuration",
			Status:  CheckWarning,
			Message: "Config has no installation id",
		}
	}
	return CheckResult{
		Name:    "Configuration",
		Status:  CheckPass,
		Message: "Config is valid",
	}
}

func checkKeyFileExists(env *Env) CheckResult {
	exists, err := env.Provider.Keys().KeyFile().Exists()
	if err != nil {
		return CheckResult{
			Name:    "Master key file",
			Status:  CheckError,
			Message: err.Error(),
		}
	}
	if !exists {
		return CheckResult{
			Name:       "Master key file",
			Status:     CheckWarning,
			Message:    "No master key has been generated",
			Suggestion: "Run 'keyward init' to generate one",
		}
	}
	return CheckResult{
		Name:    "Master key file",
		Status:  CheckPass,
		Message: "Master key file exists",
	}
}

func checkKeyFilePermissions(env *Env) CheckResult {
	path := env.Provider.Keys().KeyFile().Path
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return CheckResult{
			Name:    "Master key permissions",
			Status:  CheckPass,
			Message: "Nothing to check",
		}
	}
	if err != nil {
		return CheckResult{
			Name:    "Master key permissions",
			Status:  CheckError,
			Message: err.Error(),
		}
	}

	if perm := info.Mode().Perm(); perm&0077 != 0 {
		return CheckResult{
			Name:       "Master key permissions",
			Status:     CheckWarning,
			Message:    fmt.Sprintf("Key file is accessible by others (%04o)", perm),
			Suggestion: fmt.Sprintf("Run 'chmod 600 %s'", path),
		}
	}
	return CheckResult{
		Name:    "Master key permissions",
		Status:  CheckPass,
		Message: "Key file is private",
	}
}

func checkKeyUnseals(env *Env) CheckResult {
	key, err := env.Provider.Keys().KeyFile().Load()
	switch {
	case errors.Is(err, kerrors.ErrKeyNotFound):
		return CheckResult{
			Name:    "Keystore",
			Status:  CheckPass,
			Message: "Nothing to unseal yet",
		}
	case errors.Is(err, kerrors.ErrWrappingKeyMissing):
		return CheckResult{
			Name:       "Keystore",
			Status:     CheckError,
			Message:    fmt.Sprintf("The %s keystore has no wrapping key for this key file", env.Backend),
			Suggestion: "Restore the keyring entry, or run 'keyward reset --yes' to start over",
		}
	case err != nil:
		return CheckResult{
			Name:    "Keystore",
			Status:  CheckError,
			Message: err.Error(),
		}
	}
	key.Clear()

	return CheckResult{
		Name:    "Keystore",
		Status:  CheckPass,
		Message: fmt.Sprintf("Master key unseals with the %s keystore", env.Backend),
	}
}

func calculateDoctorSummary(results []CheckResult) DoctorSummary {
	var summary DoctorSummary
	for _, r := range results {
		switch r.Status {
		case CheckPass:
			summary.Passed++
		case CheckWarning:
			summary.Warnings++
		case CheckError:
			summary.Errors++
		}
	}
	return summary
}
