package validation

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/nauticalab/devenv-compose/internal/environment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// installFiles writes the given files into the install directory of rec
func installFiles(t *testing.T, rec environment.Record, files ...string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(rec.InstallDir(), 0755))
	for _, file := range files {
		err := os.WriteFile(filepath.Join(rec.InstallDir(), file), []byte("# test\n"), 0644)
		require.NoError(t, err)
	}
}

func newTestRecord(t *testing.T, typ environment.Type) environment.Record {
	return environment.Record{Name: "demo", Location: t.TempDir(), Type: typ}
}

func TestFileValidator_AllPresent(t *testing.T) {
	rec := newTestRecord(t, environment.TypeSymfony)
	// custom-nginx.conf and custom-php.ini are satisfied by their de-prefixed names
	installFiles(t, rec, ".env", "docker-compose.yml", "nginx.conf", "php.ini")

	result := NewFileValidator(nil).Validate(rec)
	assert.True(t, result.IsValid)
	assert.Empty(t, result.Errors)
	assert.True(t, NewFileValidator(nil).Valid(rec))
}

func TestFileValidator_PrefixedFileDoesNotCount(t *testing.T) {
	rec := newTestRecord(t, environment.TypeSymfony)
	installFiles(t, rec, ".env", "docker-compose.yml", "custom-nginx.conf", "php.ini")

	result := NewFileValidator(nil).Validate(rec)
	require.False(t, result.IsValid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "custom-nginx.conf", result.Errors[0].File)
	assert.Equal(t, filepath.Join(rec.InstallDir(), "nginx.conf"), result.Errors[0].FilePath)
}

func TestFileValidator_MissingFiles(t *testing.T) {
	cases := []struct {
		name    string
		typ     environment.Type
		present []string
		missing []string
	}{
		{
			name:    "nothing installed",
			typ:     environment.TypeDrupal,
			present: nil,
			missing: []string{".env", "docker-compose.yml", "nginx.conf", "php.ini"},
		},
		{
			name:    "compose file missing",
			typ:     environment.TypeSylius,
			present: []string{".env", "nginx.conf", "php.ini"},
			missing: []string{"docker-compose.yml"},
		},
		{
			name:    "type specific file missing",
			typ:     environment.TypeMagento2,
			present: []string{".env", "docker-compose.yml", "nginx.conf", "php.ini"},
			missing: []string{"varnish.vcl"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := newTestRecord(t, tc.typ)
			installFiles(t, rec, tc.present...)

			result := NewFileValidator(nil).Validate(rec)
			assert.False(t, result.IsValid)

			var want []string
			for _, file := range tc.missing {
				want = append(want, filepath.Join(rec.InstallDir(), file))
			}
			assert.Equal(t, want, result.MissingFiles())
			for _, err := range result.Errors {
				assert.Equal(t, "missing_file", err.Type)
			}
		})
	}
}

type failingFS struct{}

func (failingFS) Exists(path string) (bool, error) {
	return false, errors.New("permission denied")
}

func TestFileValidator_FilesystemErrors(t *testing.T) {
	rec := environment.Record{Name: "demo", Location: "/srv/demo", Type: environment.TypeSymfony}

	result := NewFileValidator(failingFS{}).Validate(rec)
	assert.False(t, result.IsValid)
	require.Len(t, result.Errors, len(environment.TypeSymfony.Files()))
	assert.Equal(t, "unreadable", result.Errors[0].Type)
	assert.Contains(t, result.Errors[0].Message, "permission denied")
}

type recordingFS struct {
	checked []string
}

func (r *recordingFS) Exists(path string) (bool, error) {
	r.checked = append(r.checked, path)
	return true, nil
}

func TestFileValidator_ChecksUnderInstallDir(t *testing.T) {
	rec := environment.Record{Name: "demo", Location: "/srv/demo", Type: environment.TypeOroCommerce}
	fsys := &recordingFS{}

	assert.True(t, NewFileValidator(fsys).Valid(rec))
	assert.Equal(t, []string{
		"/srv/demo/var/docker/.env",
		"/srv/demo/var/docker/docker-compose.yml",
		"/srv/demo/var/docker/nginx.conf",
		"/srv/demo/var/docker/php.ini",
		"/srv/demo/var/docker/supervisord.conf",
	}, fsys.checked)
}
