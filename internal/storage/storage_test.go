package storage

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func Test_AsUniqueViolation_MatchesWrappedPgError(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:           "23505",
		ConstraintName: "uq_users_email",
	}
	err := fmt.Errorf("failed to create user: %w", pgErr)

	violation, ok := AsUniqueViolation(err)

	assert.True(t, ok)
	assert.Equal(t, "uq_users_email", violation.Constraint)
}

func Test_AsUniqueViolation_IgnoresOtherPgErrors(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23503", ConstraintName: "fk_memberships_user"}

	_, ok := AsUniqueViolation(pgErr)

	assert.False(t, ok)
}

func Test_AsUniqueViolation_IgnoresPlainErrors(t *testing.T) {
	_, ok := AsUniqueViolation(errors.New("connection refused"))

	assert.False(t, ok)
}

func Test_IsUniqueViolationOn(t *testing.T) {
	err := fmt.Errorf("insert failed: %w", &pgconn.PgError{
		Code:           "23505",
		ConstraintName: "uq_organizations_domain",
	})

	assert.True(t, IsUniqueViolationOn(err, "uq_organizations_domain"))
	assert.False(t, IsUniqueViolationOn(err, "uq_users_email"))
	assert.False(t, IsUniqueViolationOn(nil, "uq_organizations_domain"))
}
