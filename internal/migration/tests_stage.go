package migration

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/openclinic/recordkeeper/internal/domain/appointment"
	"github.com/openclinic/recordkeeper/internal/domain/clinicaltest"
)

// migrateTests imports tests/*.json result files from every appointment
// folder. Template identity is the exact legacy testId: a file referencing
// an unknown id gets a template synthesized from its own fields, and a file
// with no testId at all carries no type information and is skipped without
// an error. The appointment link is nullable — a result can outlive its
// appointment record.
func (e *Engine) migrateTests(ctx context.Context, res *Result) error {
	for _, root := range e.storageRoots(ctx) {
		entries, err := os.ReadDir(root)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			e.recordError(res, fmt.Sprintf("storage root %s", root), err)
			continue
		}

		for _, entry := range entries {
			if cerr := ctx.Err(); cerr != nil {
				return cerr
			}
			if !entry.IsDir() {
				continue
			}
			e.migratePatientTests(ctx, root, entry.Name(), res)
		}
	}
	return nil
}

func (e *Engine) migratePatientTests(ctx context.Context, root, patientFolder string, res *Result) {
	p, err := e.patientSvc.GetByFolderPath(ctx, patientFolder)
	if err != nil {
		e.recordError(res, fmt.Sprintf("tests for %s", patientFolder), err)
		return
	}

	folderPath := filepath.Join(root, patientFolder)
	entries, err := os.ReadDir(folderPath)
	if err != nil {
		e.recordError(res, fmt.Sprintf("tests for %s", patientFolder), err)
		return
	}

	for _, entry := range entries {
		if !entry.IsDir() || !isLegacyDateFolder(entry.Name()) {
			continue
		}
		testsDir := filepath.Join(folderPath, entry.Name(), legacyTestsSubdir)
		files, err := os.ReadDir(testsDir)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			e.recordError(res, fmt.Sprintf("tests %s/%s", patientFolder, entry.Name()), err)
			continue
		}

		for _, f := range files {
			if f.IsDir() || !strings.HasSuffix(f.Name(), ".json") {
				continue
			}
			path := filepath.Join(testsDir, f.Name())
			if err := e.migrateTestFile(ctx, path, p.ID, entry.Name(), res); err != nil {
				e.recordError(res, fmt.Sprintf("test %s/%s/%s", patientFolder, entry.Name(), f.Name()), err)
			}
		}
	}
}

func (e *Engine) migrateTestFile(ctx context.Context, path string, patientID uuid.UUID, date string, res *Result) error {
	raw, err := readLegacyFile(ctx, path)
	if err != nil {
		return err
	}

	var rec legacyTestRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return err
	}

	// No template reference, no type information: legacy noise.
	if rec.TestID == nil || *rec.TestID == "" {
		return nil
	}

	name := clinicaltest.DefaultTemplateName
	if rec.TestName != nil && *rec.TestName != "" {
		name = *rec.TestName
	}
	testType := clinicaltest.DefaultTestType
	if rec.TestType != nil && *rec.TestType != "" {
		testType = *rec.TestType
	}

	tmpl, _, err := e.testSvc.GetOrCreateTemplateByID(ctx, *rec.TestID, &clinicaltest.CreateTemplateCommand{
		Name:         name,
		TestType:     testType,
		TemplateData: datatypes.JSON(rec.TestData),
	})
	if err != nil {
		return err
	}

	var appointmentID *uuid.UUID
	if a, aerr := e.apptSvc.GetByPatientAndDate(ctx, patientID, date); aerr == nil {
		appointmentID = &a.ID
	} else if !errors.Is(aerr, appointment.ErrAppointmentNotFound) {
		return aerr
	}

	blob := raw
	if len(rec.TestData) > 0 {
		progress := rec.Progress
		if len(progress) == 0 {
			progress = json.RawMessage("null")
		}
		encoded, merr := json.Marshal(map[string]json.RawMessage{
			"testData": rec.TestData,
			"progress": progress,
		})
		if merr != nil {
			return merr
		}
		blob = encoded
	}

	_, err = e.testSvc.RecordResult(ctx, &clinicaltest.CreateTestCommand{
		PatientID:      patientID,
		AppointmentID:  appointmentID,
		TestTemplateID: tmpl.ID,
		TestName:       name,
		TestType:       testType,
		TestData:       datatypes.JSON(blob),
	})
	if err != nil {
		return err
	}

	res.Stats.Tests++
	e.countEntity("test")
	return nil
}
