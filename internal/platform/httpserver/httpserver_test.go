package httpserver_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"catchrec/internal/platform/httpserver"
	"catchrec/pkg/testutil"
)

func TestOpsRouter(t *testing.T) {
	router := httpserver.NewOpsRouter()

	t.Run("healthz responds ok", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/healthz"))
		testutil.AssertStatusOK(t, rr)
		assert.Equal(t, "ok", string(testutil.ReadBody(t, rr)))
	})

	t.Run("metrics endpoint is registered", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/metrics"))
		testutil.AssertStatusOK(t, rr)
	})

	t.Run("unknown path is not found", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/nope"))
		testutil.AssertStatus(t, rr, http.StatusNotFound)
	})
}
