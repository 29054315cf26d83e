package migration

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openclinic/recordkeeper/config"
	"github.com/openclinic/recordkeeper/internal/domain/appointment"
	"github.com/openclinic/recordkeeper/internal/domain/clinicaltest"
	"github.com/openclinic/recordkeeper/internal/domain/diagnosis"
	"github.com/openclinic/recordkeeper/internal/domain/doctor"
	"github.com/openclinic/recordkeeper/internal/domain/patient"
	"github.com/openclinic/recordkeeper/internal/domain/settings"
)

func TestRunMigratesFullLegacyTree(t *testing.T) {
	e, db, legacyDir := newTestEngine(t)
	ctx := context.Background()

	writeJSON(t, filepath.Join(legacyDir, "app.config"), map[string]any{
		"doctors":   []string{"House"},
		"diagnoses": []string{"Flu"},
		"theme":     "dark",
		"language":  "uk",
		"shownTabs": []string{"patients", "tests"},
	})

	folder := filepath.Join(legacyDir, "patients", "Ivanov_Petro_1980-05-01")
	writeJSON(t, filepath.Join(folder, "patient.config"), map[string]any{
		"doctor":      "House",
		"diagnosis":   "Flu",
		"patientCard": "card.pdf",
	})
	require.NoError(t, os.MkdirAll(filepath.Join(folder, "2023-12-01"), 0o755))
	writeJSON(t, filepath.Join(folder, "2024-01-15", "appointment.config"), map[string]any{
		"doctors":   []string{"House", "Wilson"},
		"diagnosis": "Flu",
		"notes":     "follow-up",
	})
	writeJSON(t, filepath.Join(folder, "2024-01-15", "tests", "phq9.json"), map[string]any{
		"testId":   "tpl-phq9",
		"testName": "PHQ-9",
		"testType": "questionnaire",
		"testData": map[string]any{"questions": []string{"q1", "q2"}},
		"progress": map[string]any{"answered": 1},
	})
	// A result file with no testId carries no template reference and must
	// be skipped without producing an error.
	writeJSON(t, filepath.Join(folder, "2024-01-15", "tests", "noise.json"), map[string]any{
		"result": 5,
	})

	res := e.Run(ctx)

	require.True(t, res.Success, "errors: %v", res.Errors)
	assert.Empty(t, res.Errors)
	assert.NotEmpty(t, res.BackupPath)
	assert.Equal(t, Stats{Doctors: 2, Diagnoses: 1, Patients: 1, Appointments: 2, Tests: 1}, res.Stats)

	// Settings: only keys present in the legacy file were written.
	settingsRepo := settings.NewRepository(db)
	theme, err := settingsRepo.Get(ctx, settings.KeyTheme)
	require.NoError(t, err)
	assert.Equal(t, "dark", theme)
	lang, err := settingsRepo.Get(ctx, settings.KeyLanguage)
	require.NoError(t, err)
	assert.Equal(t, "uk", lang)
	_, err = settingsRepo.Get(ctx, settings.KeyPraatPath)
	assert.ErrorIs(t, err, settings.ErrSettingNotFound)

	tabs, err := settingsRepo.ListTabs(ctx)
	require.NoError(t, err)
	require.Len(t, tabs, 2)
	assert.Equal(t, "patients", tabs[0].Key)
	assert.Equal(t, "tests", tabs[1].Key)

	// Patient identity comes from the folder name, enrichment from
	// patient.config.
	p, err := patient.NewRepository(db).GetByFolderPath(ctx, "Ivanov_Petro_1980-05-01")
	require.NoError(t, err)
	assert.Equal(t, "Ivanov", p.Surname)
	assert.Equal(t, "Petro", p.Name)
	assert.Equal(t, "1980-05-01", p.Birthdate)
	assert.Equal(t, "card.pdf", p.PatientCardPath)
	require.NotNil(t, p.PrimaryDoctorID)
	require.NotNil(t, p.PrimaryDiagnosisID)

	// Dictionaries were deduplicated: House is referenced four times but
	// stored once.
	doctors, err := doctor.NewRepository(db).List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, doctors, 2)
	diagnoses, err := diagnosis.NewRepository(db).List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, diagnoses, 1)

	apptRepo := appointment.NewRepository(db)
	a, err := apptRepo.GetByPatientAndDate(ctx, p.ID, "2024-01-15")
	require.NoError(t, err)
	assert.Equal(t, "follow-up", a.Notes)
	require.NotNil(t, a.DiagnosisID)
	assert.Equal(t, *p.PrimaryDiagnosisID, *a.DiagnosisID)
	ids, err := apptRepo.ListDoctorIDs(ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, ids, 2)

	// The bare date folder became an appointment with no diagnosis and no
	// doctors attached.
	bare, err := apptRepo.GetByPatientAndDate(ctx, p.ID, "2023-12-01")
	require.NoError(t, err)
	assert.Nil(t, bare.DiagnosisID)
	assert.Empty(t, bare.Notes)

	// Exactly one template (the noise file produced none), linked through
	// its legacy id verbatim.
	tmpl, err := clinicaltest.NewTemplateRepository(db).GetByID(ctx, "tpl-phq9")
	require.NoError(t, err)
	assert.Equal(t, "PHQ-9", tmpl.Name)

	tests, err := clinicaltest.NewTestRepository(db).ListByPatient(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, tests, 1)
	assert.Equal(t, "tpl-phq9", tests[0].TestTemplateID)
	require.NotNil(t, tests[0].AppointmentID)
	assert.Equal(t, a.ID, *tests[0].AppointmentID)

	var blob struct {
		TestData json.RawMessage `json:"testData"`
		Progress json.RawMessage `json:"progress"`
	}
	require.NoError(t, json.Unmarshal(tests[0].TestData, &blob))
	assert.JSONEq(t, `{"questions":["q1","q2"]}`, string(blob.TestData))
	assert.JSONEq(t, `{"answered":1}`, string(blob.Progress))

	// The populated store now gates re-detection.
	needs, err := e.NeedsMigration(ctx)
	require.NoError(t, err)
	assert.False(t, needs)
}

func TestRunSkipsBrokenPatientFolder(t *testing.T) {
	e, db, legacyDir := newTestEngine(t)
	ctx := context.Background()

	root := filepath.Join(legacyDir, "patients")
	writeJSON(t, filepath.Join(root, "Alpha_One_1990-01-01", "patient.config"), map[string]any{"doctor": "House"})
	writeFile(t, filepath.Join(root, "Bravo_Two_1991-02-02", "patient.config"), []byte("{not json"))
	writeJSON(t, filepath.Join(root, "Charlie_Three_1992-03-03", "patient.config"), map[string]any{"doctor": "House"})

	res := e.Run(ctx)

	require.True(t, res.Success)
	assert.Equal(t, 2, res.Stats.Patients)
	require.NotEmpty(t, res.Errors)
	found := false
	for _, msg := range res.Errors {
		if strings.Contains(msg, "Bravo_Two_1991-02-02") {
			found = true
		}
	}
	assert.True(t, found, "errors should name the broken folder: %v", res.Errors)

	count, err := patient.NewRepository(db).Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestRunSkipsBrokenAppointmentConfig(t *testing.T) {
	e, _, legacyDir := newTestEngine(t)
	ctx := context.Background()

	folder := filepath.Join(legacyDir, "patients", "Alpha_One_1990-01-01")
	writeFile(t, filepath.Join(folder, "2024-02-01", "appointment.config"), []byte("]["))
	writeJSON(t, filepath.Join(folder, "2024-03-01", "appointment.config"), map[string]any{"notes": "ok"})

	res := e.Run(ctx)

	require.True(t, res.Success)
	assert.Equal(t, 1, res.Stats.Patients)
	require.NotEmpty(t, res.Errors)
	assert.Contains(t, res.Errors[0], "2024-02-01")
}

func TestRunAbortsWhenBackupFails(t *testing.T) {
	db := newTestDB(t)
	cfg := config.DataConfig{
		LegacyDir: filepath.Join(t.TempDir(), "does-not-exist"),
	}
	e := newTestEngineWith(t, db, cfg)

	res := e.Run(context.Background())

	require.False(t, res.Success)
	assert.Contains(t, res.Message, "backup failed")
	assert.Empty(t, res.BackupPath)

	// Nothing was written to the store before the backup attempt.
	count, err := patient.NewRepository(db).Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRunDeduplicatesFolderAcrossRoots(t *testing.T) {
	db := newTestDB(t)
	legacyDir := filepath.Join(t.TempDir(), "legacy")
	require.NoError(t, os.MkdirAll(legacyDir, 0o755))
	rootA := t.TempDir()
	rootB := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(rootA, "Ivanov_Ivan_1990-01-01"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(rootB, "Ivanov_Ivan_1990-01-01"), 0o755))

	cfg := config.DataConfig{
		LegacyDir:    legacyDir,
		StorageRoots: []string{rootA, rootB},
		BackupDir:    t.TempDir(),
	}
	e := newTestEngineWith(t, db, cfg)

	res := e.Run(context.Background())

	require.True(t, res.Success, "errors: %v", res.Errors)
	assert.Empty(t, res.Errors)

	// Both occurrences processed, one row stored.
	count, err := patient.NewRepository(db).Count(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestRunReportsStageProgress(t *testing.T) {
	var got []Progress
	e, _, _ := newTestEngine(t, WithProgress(func(p Progress) {
		got = append(got, p)
	}))

	res := e.Run(context.Background())
	require.True(t, res.Success)

	require.Len(t, got, 5)
	wantPercent := []int{20, 40, 60, 80, 100}
	for i, p := range got {
		assert.Equal(t, i+1, p.Stage)
		assert.Equal(t, 5, p.Total)
		assert.Equal(t, wantPercent[i], p.Percent)
		assert.NotEmpty(t, p.Step)
	}
}

func TestRunReusesTemplateAcrossResultFiles(t *testing.T) {
	e, db, legacyDir := newTestEngine(t)
	ctx := context.Background()

	folder := filepath.Join(legacyDir, "patients", "Alpha_One_1990-01-01")
	writeJSON(t, filepath.Join(folder, "2024-01-01", "tests", "a.json"), map[string]any{
		"testId":   "tpl-1",
		"testName": "Voice Range",
		"testData": map[string]any{"n": 1},
	})
	writeJSON(t, filepath.Join(folder, "2024-02-01", "tests", "b.json"), map[string]any{
		"testId":   "tpl-1",
		"testName": "Voice Range (old)",
		"testData": map[string]any{"n": 2},
	})

	res := e.Run(ctx)
	require.True(t, res.Success, "errors: %v", res.Errors)
	assert.Equal(t, 2, res.Stats.Tests)

	// First file wins the template fields; the second reuses the row.
	templates, err := clinicaltest.NewTemplateRepository(db).List(ctx)
	require.NoError(t, err)
	require.Len(t, templates, 1)
	assert.Equal(t, "tpl-1", templates[0].ID)
	assert.Equal(t, "Voice Range", templates[0].Name)
	assert.Equal(t, clinicaltest.DefaultTestType, templates[0].TestType)
}
