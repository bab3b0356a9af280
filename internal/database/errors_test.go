package database

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func TestTranslateKeepsConstraintName(t *testing.T) {
	d := dialector{&postgres.Dialector{Config: &postgres.Config{}}}

	err := d.Translate(&pgconn.PgError{Code: "23505", ConstraintName: "idx_gate_passes_mirv_id"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey))
	assert.Equal(t, "idx_gate_passes_mirv_id", ConstraintOf(err))

	err = d.Translate(&pgconn.PgError{Code: "23503", ConstraintName: "fk_mirvs_project"})
	assert.True(t, errors.Is(err, gorm.ErrForeignKeyViolated))
	assert.Empty(t, ConstraintOf(err))

	plain := errors.New("connection reset")
	assert.Same(t, plain, d.Translate(plain))
}
