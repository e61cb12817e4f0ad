package remoteparse

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	chdir(t, t.TempDir())

	var output bytes.Buffer
	app := &cli.App{
		Name:     "planscope",
		Writer:   &output,
		Commands: []*cli.Command{RegisterCLI()},
	}

	err := app.Run(append([]string{"planscope", "remote-parse"}, args...))
	return output.String(), err
}

func TestRemoteParseCommand(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "", r.URL.Query().Get("selected_only"))
		io.WriteString(w, personsJSON)
	}))
	defer server.Close()

	plans := filepath.Join(t.TempDir(), "output_plans.xml")
	require.NoError(t, os.WriteFile(plans, []byte("<population/>"), 0o644))

	output, err := runCLI(t, "--endpoint", server.URL+"/upload", "--file", plans)
	require.NoError(t, err)
	assert.Equal(t, "p1\t1 plans\tselected 0\n", output)
}

func TestRemoteParseCommandServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	plans := filepath.Join(t.TempDir(), "output_plans.xml")
	require.NoError(t, os.WriteFile(plans, []byte("<population/>"), 0o644))

	_, err := runCLI(t, "--endpoint", server.URL, "--file", plans, "--selected-only=false")
	assert.ErrorIs(t, err, ErrRemoteParseFailure)
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent to testing.T.Chdir on newer toolchains).
func chdir(t *testing.T, dir string) {
	t.Helper()
	previous, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(previous); err != nil {
			t.Fatal(err)
		}
	})
}
