package migration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/openclinic/recordkeeper/internal/domain/patient"
)

// migratePatients walks every storage root and turns each immediate
// subdirectory into one patient. One broken folder never stops the stage;
// it is logged against the folder name and the walk continues.
func (e *Engine) migratePatients(ctx context.Context, res *Result) error {
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
			if err := e.migratePatientFolder(ctx, root, entry.Name(), res); err != nil {
				e.recordError(res, fmt.Sprintf("patient folder %s", entry.Name()), err)
				continue
			}
			res.Stats.Patients++
			e.countEntity("patient")
		}
	}
	return nil
}

func (e *Engine) migratePatientFolder(ctx context.Context, root, folderName string, res *Result) error {
	folderPath := filepath.Join(root, folderName)
	surname, name, birthdate := parsePatientFolder(folderName)

	// patient.config is optional and predates many folders; a missing file
	// means empty-string defaults. A present but malformed file is a
	// record error: it must not be silently swallowed.
	var pc legacyPatientConfigData
	if _, derr := decodeJSONFile(ctx, filepath.Join(folderPath, legacyPatientConfig), &pc); derr != nil {
		return fmt.Errorf("reading %s: %w", legacyPatientConfig, derr)
	}

	latestDate, err := latestAppointmentDate(folderPath)
	if err != nil {
		return err
	}

	doctorID, created, err := e.doctorSvc.GetOrCreate(ctx, pc.Doctor)
	if err != nil {
		return err
	}
	if created {
		res.Stats.Doctors++
		e.countEntity("doctor")
	}

	diagnosisID, created, err := e.diagnosisSvc.GetOrCreate(ctx, pc.Diagnosis)
	if err != nil {
		return err
	}
	if created {
		res.Stats.Diagnoses++
		e.countEntity("diagnosis")
	}

	p, _, err := e.patientSvc.UpsertByFolderPath(ctx, &patient.CreatePatientCommand{
		Surname:            surname,
		Name:               name,
		Birthdate:          birthdate,
		FolderPath:         folderName,
		PatientCardPath:    pc.PatientCard,
		PrimaryDoctorID:    doctorID,
		PrimaryDiagnosisID: diagnosisID,
	})
	if err != nil {
		return err
	}

	if latestDate != "" {
		created, aerr := e.apptSvc.CreateIfMissing(ctx, p.ID, latestDate, diagnosisID)
		if aerr != nil {
			return aerr
		}
		if created {
			res.Stats.Appointments++
			e.countEntity("appointment")
		}
	}

	e.log.Debug("patient folder migrated",
		zap.String("folder", folderName),
		zap.String("latest_date", latestDate),
	)
	return nil
}

// latestAppointmentDate returns the lexicographically greatest date-named
// subdirectory. ISO dates sort correctly as strings. Folders not matching
// the date pattern are ignored.
func latestAppointmentDate(folderPath string) (string, error) {
	entries, err := os.ReadDir(folderPath)
	if err != nil {
		return "", err
	}
	latest := ""
	for _, entry := range entries {
		if !entry.IsDir() || !isLegacyDateFolder(entry.Name()) {
			continue
		}
		if entry.Name() > latest {
			latest = entry.Name()
		}
	}
	return latest, nil
}
