package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arahman1700/nit-logistics-portal/internal/auth"
	"github.com/arahman1700/nit-logistics-portal/internal/config"
	"github.com/arahman1700/nit-logistics-portal/internal/documents"
	"github.com/arahman1700/nit-logistics-portal/internal/models"
	"github.com/arahman1700/nit-logistics-portal/internal/numbering"
	"github.com/arahman1700/nit-logistics-portal/internal/repository/gormstore"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestRootCommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd().Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["serve"])
	assert.True(t, names["migrate"])
	assert.True(t, names["token"])
}

func TestTokenCommand(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"token", "--user", "u-42", "--role", "engineer", "--name", "Eng. Alamri"})
	require.NoError(t, cmd.Execute())

	s, err := auth.ParseToken(testSecret, strings.TrimSpace(out.String()))
	require.NoError(t, err)
	assert.Equal(t, "u-42", s.UserID)
	assert.Equal(t, models.RoleEngineer, s.Role)

	cmd = rootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"token", "--role", "captain"})
	assert.Error(t, cmd.Execute())
}

func TestAppRouting(t *testing.T) {
	log, _ := test.NewNullLogger()
	cfg := &config.Config{JWTSecret: testSecret, CORSOrigins: "http://localhost:5173"}
	store := gormstore.New(nil)
	svc := documents.NewService(store, numbering.NewGenerator(), nil, log)
	app := newApp(cfg, log, nil, store, svc, nil)

	get := func(path string, role models.Role) int {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if role != "" {
			token, err := auth.GenerateToken(testSecret, auth.Session{UserID: "u-1", Role: role}, time.Hour)
			require.NoError(t, err)
			req.Header.Set("Authorization", "Bearer "+token)
		}
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		resp.Body.Close()
		return resp.StatusCode
	}

	assert.Equal(t, http.StatusOK, get("/healthz", ""))
	assert.Equal(t, http.StatusOK, get("/metrics", ""))
	assert.Equal(t, http.StatusUnauthorized, get("/api/session", ""))
	assert.Equal(t, http.StatusOK, get("/api/session", models.RoleWarehouse))
	assert.Equal(t, http.StatusForbidden, get("/api/resources", models.RoleWarehouse))
	assert.Equal(t, http.StatusOK, get("/api/resources", models.RoleAdmin))
	assert.Equal(t, http.StatusBadRequest, get("/api/dashboard/search?q=a", models.RoleTransport))
}
