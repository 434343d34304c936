package postal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Kariqs/goneer-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/pincode/411001":
			_, _ = w.Write([]byte(`[{"Message":"Number of pincode(s) found:1","Status":"Success","PostOffice":[{"Name":"Pune City","District":"Pune","State":"Maharashtra"}]}]`))
		case "/pincode/999999":
			_, _ = w.Write([]byte(`[{"Message":"No records found","Status":"Error","PostOffice":null}]`))
		case "/pincode/500500":
			w.WriteHeader(http.StatusBadGateway)
		default:
			_, _ = w.Write([]byte(`not json`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_LookupCity(t *testing.T) {
	client := NewClient(newTestServer(t).URL, time.Second)

	city, err := client.LookupCity(context.Background(), "411001")

	require.NoError(t, err)
	assert.Equal(t, "Pune", city)
}

func TestClient_LookupCityFailures(t *testing.T) {
	client := NewClient(newTestServer(t).URL, time.Second)

	for _, code := range []string{"12345", "abcdef", "999999", "500500", "123456"} {
		t.Run(code, func(t *testing.T) {
			city, err := client.LookupCity(context.Background(), code)
			assert.ErrorIs(t, err, models.ErrLookup)
			assert.Empty(t, city)
		})
	}
}
