package migration

import (
	"context"
	"encoding/json"
	"os"
	"regexp"
	"strings"
	"time"
)

// Legacy on-disk layout:
//
//	<legacy dir>/app.config                        global settings + dictionaries
//	<storage root>/<Surname_Name_YYYY-MM-DD>/      one folder per patient
//	    patient.config                             optional per-patient overrides
//	    <YYYY-MM-DD>/                              one folder per appointment
//	        appointment.config                     optional per-appointment data
//	        tests/*.json                           legacy test result files
const (
	legacySettingsFile    = "app.config"
	legacyPatientConfig   = "patient.config"
	legacyApptConfig      = "appointment.config"
	legacyTestsSubdir     = "tests"
	legacyDefaultPatients = "patients"
)

var legacyDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// legacySettings is the decoded shape of app.config. Every recognized key is
// explicit and optional; pointer fields distinguish "absent" from "empty",
// so absent keys never overwrite store defaults.
type legacySettings struct {
	Doctors          []string `json:"doctors"`
	Diagnoses        []string `json:"diagnoses"`
	Theme            *string  `json:"theme"`
	Language         *string  `json:"language"`
	PraatPath        *string  `json:"praatPath"`
	DocumentTemplate *string  `json:"documentTemplate"`
	ShownTabs        []string `json:"shownTabs"`
	StoragePaths     []string `json:"storagePaths"`
}

// legacyPatientConfigData is the decoded shape of patient.config. A missing
// or unreadable file decodes to the zero value; that is not an error, many
// legacy patients predate the config file.
type legacyPatientConfigData struct {
	Doctor      string `json:"doctor"`
	Diagnosis   string `json:"diagnosis"`
	PatientCard string `json:"patientCard"`
}

// legacyApptConfigData is the decoded shape of appointment.config. Pointer
// fields: only keys present in the file are merged into the store.
type legacyApptConfigData struct {
	Doctors   *[]string `json:"doctors"`
	Diagnosis *string   `json:"diagnosis"`
	Notes     *string   `json:"notes"`
}

// legacyTestRecord is the decoded shape of one tests/*.json file. A record
// with no testId carries no template reference and is skipped as noise.
type legacyTestRecord struct {
	TestID   *string         `json:"testId"`
	TestName *string         `json:"testName"`
	TestType *string         `json:"testType"`
	TestData json.RawMessage `json:"testData"`
	Progress json.RawMessage `json:"progress"`
}

// parsePatientFolder splits a legacy patient folder name into its
// (surname, name, birthdate) parts. Names not shaped as exactly three
// underscore-separated segments degrade to empty fields; the folder is
// still a valid patient keyed by its full name.
func parsePatientFolder(folderName string) (surname, name, birthdate string) {
	parts := strings.Split(folderName, "_")
	if len(parts) != 3 {
		return "", "", ""
	}
	return parts[0], parts[1], parts[2]
}

// isLegacyDateFolder reports whether a folder name is a strict ISO date.
// Anything else ("video", "audio", stray files) is silently skipped by the
// appointment walkers.
func isLegacyDateFolder(name string) bool {
	return legacyDatePattern.MatchString(name)
}

// fileReadTimeout bounds any single legacy file read so one wedged file
// (dead network share, failing disk) cannot stall the whole run.
const fileReadTimeout = 15 * time.Second

// readLegacyFile reads one file with a deadline.
func readLegacyFile(ctx context.Context, path string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, fileReadTimeout)
	defer cancel()

	type readResult struct {
		data []byte
		err  error
	}
	ch := make(chan readResult, 1)
	go func() {
		data, err := os.ReadFile(path)
		ch <- readResult{data: data, err: err}
	}()

	select {
	case r := <-ch:
		return r.data, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// decodeJSONFile reads and decodes one legacy JSON file into out. The
// returned bool reports whether the file existed and decoded; callers that
// treat a broken file as "use defaults" check only the bool.
func decodeJSONFile(ctx context.Context, path string, out any) (bool, error) {
	data, err := readLegacyFile(ctx, path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, err
	}
	return true, nil
}
