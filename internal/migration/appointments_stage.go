package migration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/openclinic/recordkeeper/internal/domain/appointment"
)

// migrateAppointments walks every date-named subdirectory of every patient
// folder and merges its appointment.config into the store. The row may
// already exist — the patients stage creates one for the latest visit — so
// everything goes through the (patient, date) upsert. Errors are attributed
// to the (patient folder, appointment folder) pair and never stop the stage.
func (e *Engine) migrateAppointments(ctx context.Context, res *Result) error {
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
			e.migratePatientAppointments(ctx, root, entry.Name(), res)
		}
	}
	return nil
}

func (e *Engine) migratePatientAppointments(ctx context.Context, root, patientFolder string, res *Result) {
	p, err := e.patientSvc.GetByFolderPath(ctx, patientFolder)
	if err != nil {
		e.recordError(res, fmt.Sprintf("appointments for %s", patientFolder), err)
		return
	}

	folderPath := filepath.Join(root, patientFolder)
	entries, err := os.ReadDir(folderPath)
	if err != nil {
		e.recordError(res, fmt.Sprintf("appointments for %s", patientFolder), err)
		return
	}

	for _, entry := range entries {
		if !entry.IsDir() || !isLegacyDateFolder(entry.Name()) {
			continue
		}
		if err := e.migrateAppointmentFolder(ctx, folderPath, p.ID, entry.Name(), res); err != nil {
			e.recordError(res, fmt.Sprintf("appointment %s/%s", patientFolder, entry.Name()), err)
		}
	}
}

func (e *Engine) migrateAppointmentFolder(ctx context.Context, patientPath string, patientID uuid.UUID, date string, res *Result) error {
	// appointment.config is optional; absent keys are left untouched on an
	// existing row. A malformed file aborts just this appointment folder.
	var ac legacyApptConfigData
	if _, derr := decodeJSONFile(ctx, filepath.Join(patientPath, date, legacyApptConfig), &ac); derr != nil {
		return fmt.Errorf("reading %s: %w", legacyApptConfig, derr)
	}

	cmd := &appointment.UpdateAppointmentCommand{Notes: ac.Notes}

	if ac.Diagnosis != nil {
		diagnosisID, created, err := e.diagnosisSvc.GetOrCreate(ctx, *ac.Diagnosis)
		if err != nil {
			return err
		}
		if created {
			res.Stats.Diagnoses++
			e.countEntity("diagnosis")
		}
		cmd.SetDiagnosis = true
		cmd.DiagnosisID = diagnosisID
	}

	if ac.Doctors != nil {
		ids := make([]uuid.UUID, 0, len(*ac.Doctors))
		for _, name := range *ac.Doctors {
			id, created, err := e.doctorSvc.GetOrCreate(ctx, name)
			if err != nil {
				return err
			}
			if created {
				res.Stats.Doctors++
				e.countEntity("doctor")
			}
			if id != nil {
				ids = append(ids, *id)
			}
		}
		cmd.DoctorIDs = &ids
	}

	_, created, err := e.apptSvc.Upsert(ctx, patientID, date, cmd)
	if err != nil {
		return err
	}
	if created {
		res.Stats.Appointments++
		e.countEntity("appointment")
	}
	return nil
}
