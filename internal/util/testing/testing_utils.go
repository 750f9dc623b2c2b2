package test_utils

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"accessly-backend/internal/features/audit_logs"
	invitations_models "accessly-backend/internal/features/invitations/models"
	organizations_models "accessly-backend/internal/features/organizations/models"
	sites_models "accessly-backend/internal/features/sites/models"
	users_models "accessly-backend/internal/features/users/models"
	workspaces_models "accessly-backend/internal/features/workspaces/models"
	"accessly-backend/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

var migrateOnce sync.Once

// PrepareTestDb makes sure the schema exists before DB-backed tests run.
// Production relies on goose migrations; tests auto-migrate the same models
// so a suite can run against an empty database.
func PrepareTestDb() *gorm.DB {
	db := storage.GetDb()

	migrateOnce.Do(func() {
		err := db.AutoMigrate(
			&users_models.User{},
			&organizations_models.Organization{},
			&organizations_models.OrganizationMembership{},
			&workspaces_models.Workspace{},
			&workspaces_models.WorkspaceMembership{},
			&invitations_models.Invitation{},
			&sites_models.Site{},
			&audit_logs.AuditLog{},
		)
		if err != nil {
			panic(err)
		}
	})

	return db
}

type RequestOptions struct {
	Method             string
	URL                string
	Body               any
	AuthToken          string
	ExpectedStatusCode int
}

type APIResponse struct {
	StatusCode int
	Body       []byte
}

func MakeRequest(t *testing.T, router *gin.Engine, opts RequestOptions) *APIResponse {
	t.Helper()

	var requestBody *bytes.Buffer

	switch body := opts.Body.(type) {
	case nil:
		requestBody = bytes.NewBuffer(nil)
	case string:
		requestBody = bytes.NewBufferString(body)
	default:
		bodyJSON, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		requestBody = bytes.NewBuffer(bodyJSON)
	}

	req, err := http.NewRequest(opts.Method, opts.URL, requestBody)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}

	if opts.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if opts.AuthToken != "" {
		req.Header.Set("Authorization", opts.AuthToken)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if opts.ExpectedStatusCode != 0 {
		assert.Equal(
			t, opts.ExpectedStatusCode, w.Code,
			"unexpected status for %s %s: %s", opts.Method, opts.URL, w.Body.String(),
		)
	}

	return &APIResponse{StatusCode: w.Code, Body: w.Body.Bytes()}
}

func MakeGetRequest(
	t *testing.T,
	router *gin.Engine,
	url, authToken string,
	expectedStatusCode int,
) *APIResponse {
	t.Helper()

	return MakeRequest(t, router, RequestOptions{
		Method:             "GET",
		URL:                url,
		AuthToken:          authToken,
		ExpectedStatusCode: expectedStatusCode,
	})
}

func MakePostRequest(
	t *testing.T,
	router *gin.Engine,
	url, authToken string,
	body any,
	expectedStatusCode int,
) *APIResponse {
	t.Helper()

	return MakeRequest(t, router, RequestOptions{
		Method:             "POST",
		URL:                url,
		Body:               body,
		AuthToken:          authToken,
		ExpectedStatusCode: expectedStatusCode,
	})
}

func MakePostRequestAndUnmarshal(
	t *testing.T,
	router *gin.Engine,
	url, authToken string,
	body any,
	expectedStatusCode int,
	out any,
) {
	t.Helper()

	resp := MakePostRequest(t, router, url, authToken, body, expectedStatusCode)

	if err := json.Unmarshal(resp.Body, out); err != nil {
		t.Fatalf("failed to unmarshal response %q: %v", string(resp.Body), err)
	}
}
