package migration

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePatientFolder(t *testing.T) {
	cases := []struct {
		folder    string
		surname   string
		name      string
		birthdate string
	}{
		{"Ivanov_Petro_1980-05-01", "Ivanov", "Petro", "1980-05-01"},
		{"Ivanov_Petro", "", "", ""},
		{"Ivanov_Petro_Ivanovych_1980-05-01", "", "", ""},
		{"Ivanov", "", "", ""},
		{"", "", "", ""},
	}
	for _, tc := range cases {
		surname, name, birthdate := parsePatientFolder(tc.folder)
		assert.Equal(t, tc.surname, surname, tc.folder)
		assert.Equal(t, tc.name, name, tc.folder)
		assert.Equal(t, tc.birthdate, birthdate, tc.folder)
	}
}

func TestIsLegacyDateFolder(t *testing.T) {
	assert.True(t, isLegacyDateFolder("2024-01-15"))
	assert.True(t, isLegacyDateFolder("1980-12-31"))
	assert.False(t, isLegacyDateFolder("2024-1-15"))
	assert.False(t, isLegacyDateFolder("2024-01-15-extra"))
	assert.False(t, isLegacyDateFolder("video"))
	assert.False(t, isLegacyDateFolder("tests"))
	assert.False(t, isLegacyDateFolder(""))
}

func TestDecodeJSONFileMissing(t *testing.T) {
	ok, err := decodeJSONFile(context.Background(), filepath.Join(t.TempDir(), "nope.json"), &legacySettings{})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDecodeJSONFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))

	ok, err := decodeJSONFile(context.Background(), path, &legacySettings{})
	require.Error(t, err)
	assert.False(t, ok)
}

// Absent keys must decode to nil so they can be told apart from keys
// explicitly present with an empty value.
func TestDecodeAppointmentConfigAbsentKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "appointment.config")
	require.NoError(t, os.WriteFile(path, []byte(`{"notes":"short visit"}`), 0o644))

	var ac legacyApptConfigData
	ok, err := decodeJSONFile(context.Background(), path, &ac)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Nil(t, ac.Doctors)
	assert.Nil(t, ac.Diagnosis)
	require.NotNil(t, ac.Notes)
	assert.Equal(t, "short visit", *ac.Notes)
}

func TestDecodeAppointmentConfigEmptyDoctorList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "appointment.config")
	require.NoError(t, os.WriteFile(path, []byte(`{"doctors":[]}`), 0o644))

	var ac legacyApptConfigData
	ok, err := decodeJSONFile(context.Background(), path, &ac)
	require.NoError(t, err)
	require.True(t, ok)

	// Present-but-empty clears the doctor list; absent leaves it alone.
	require.NotNil(t, ac.Doctors)
	assert.Empty(t, *ac.Doctors)
}

func TestReadLegacyFileHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := readLegacyFile(ctx, filepath.Join(t.TempDir(), "whatever.json"))
	assert.Error(t, err)
}
