//go:build integration

package integration

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/userhub/userhub-go/internal/testutil"
)

// registerTestUser registers a user and returns its ID.
func registerTestUser(t *testing.T, client *testutil.Client, name, email, password string) string {
	t.Helper()

	resp, err := client.POST("/api/v1/auth/register", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var result struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &result)
	require.NotEmpty(t, result.Data.ID)
	return result.Data.ID
}

// promoteToAdmin raises a registered user to the admin role directly in the
// database. There is no API to do this; role assignment is an operator action.
func promoteToAdmin(t *testing.T, email string) {
	t.Helper()

	tag, err := testDB.Exec(context.Background(),
		`UPDATE users SET role = 'admin' WHERE email = $1`, email)
	require.NoError(t, err)
	require.EqualValues(t, 1, tag.RowsAffected())
}

// loginAsAdmin registers a fresh user, promotes it and logs the client in.
func loginAsAdmin(t *testing.T, client *testutil.Client) {
	t.Helper()

	email := testutil.RandomEmail()
	registerTestUser(t, client, "Admin User", email, "password123")
	promoteToAdmin(t, email)
	client.LoginAs(t, email, "password123")
}
