package utilities

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-jobboard/internal/apperr"
)

func TestIDGeneratorIsUnique(t *testing.T) {
	g := NewIDGenerator(3)
	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		id := g.NewID()
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestIDGeneratorFallsBackToKSUID(t *testing.T) {
	g := NewIDGenerator(-1)
	assert.Len(t, g.NewID(), 27)
	var nilGen *IDGenerator
	assert.Len(t, nilGen.NewID(), 27)
}

func TestLevelFromString(t *testing.T) {
	assert.Equal(t, "warn", levelFromString("warning").String())
	assert.Equal(t, "info", levelFromString("verbose").String())
}

func TestInitWithLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api.log")
	lg, err := Init(Config{Level: "info", File: path})
	require.NoError(t, err)
	lg.Info("hello")
	_ = lg.Sync()
}

type payload struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"oneof=job_seeker employer"`
}

func TestDecodeJSONValidates(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"nope","role":"admin"}`))
	var p payload
	err := DecodeJSON(r, &p)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "email")
	assert.Contains(t, ve.Fields, "role")
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestDecodeJSONMalformed(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
	var p payload
	err := DecodeJSON(r, &p)
	assert.Equal(t, apperr.KindInvalidInput, apperr.From(err).Kind)
}

func TestWriteError(t *testing.T) {
	logger := zap.NewNop().Sugar()

	rec := httptest.NewRecorder()
	WriteError(rec, logger, fmt.Errorf("job %w", apperr.ErrNotFound))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "job not found", body["error"])

	rec = httptest.NewRecorder()
	WriteError(rec, logger, errors.New("secret detail"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "secret detail")

	rec = httptest.NewRecorder()
	WriteError(rec, logger, &ValidationError{Fields: map[string]string{"email": "bad"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"email":"bad"`)
}
