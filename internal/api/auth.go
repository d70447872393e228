package api

import (
	"context"
	"fmt"
	"net/http"

	"iseesync/internal/logging"
)

type loginResponse struct {
	Token string `json:"token"`
	DBs   []struct {
		DB string `json:"db"`
	} `json:"dbs"`
}

// Login authenticates and selects the customer database. The first call
// yields an account-level token plus the databases the account can reach; the
// second exchanges it for a database-scoped token. Returns the list of
// available databases. Any failure here is fatal to the run.
func (c *Client) Login(ctx context.Context, customerDB string) ([]string, error) {
	credentials := map[string]string{
		"username": c.username,
		"password": c.password,
	}

	var userData loginResponse
	if _, err := c.request(ctx, http.MethodPost, "/apilogin/login", nil, "", credentials, &userData); err != nil {
		return nil, &AuthError{Reason: "login rejected", Err: err}
	}
	if userData.Token == "" {
		return nil, &AuthError{Reason: "login response carried no token"}
	}

	available := make([]string, len(userData.DBs))
	found := false
	for i, db := range userData.DBs {
		available[i] = db.DB
		if db.DB == customerDB {
			found = true
		}
	}
	if !found {
		return available, &AuthError{
			Reason: fmt.Sprintf("database %q not available for this user", customerDB),
		}
	}

	c.http.SetAuthToken(userData.Token)

	var dbData loginResponse
	endpoint := fmt.Sprintf("/apilogin/login/%s", customerDB)
	if _, err := c.request(ctx, http.MethodGet, endpoint, nil, "", nil, &dbData); err != nil {
		return available, &AuthError{Reason: "database selection rejected", Err: err}
	}
	if dbData.Token == "" {
		return available, &AuthError{Reason: "database selection carried no token"}
	}
	c.http.SetAuthToken(dbData.Token)

	logging.Info().Str("db", customerDB).Msg("logged in")
	return available, nil
}
