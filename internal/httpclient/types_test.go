package httpclient_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datapond/lakecat/internal/httpclient"
)

func TestHTTPError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		statusCode    int
		url           string
		message       string
		expectedError string
	}{
		{
			name:          "create HTTPError with all fields",
			statusCode:    404,
			url:           "http://example.com/v1/info",
			message:       "Not Found",
			expectedError: "HTTP 404 for URL http://example.com/v1/info: Not Found",
		},
		{
			name:          "format error message correctly for 500",
			statusCode:    500,
			url:           "http://catalog.example.com/v1/info",
			message:       "Internal Server Error",
			expectedError: "HTTP 500 for URL http://catalog.example.com/v1/info: Internal Server Error",
		},
		{
			name:          "handle empty message",
			statusCode:    404,
			url:           "http://example.com",
			message:       "",
			expectedError: "HTTP 404 for URL http://example.com: ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := httpclient.NewHTTPError(tt.statusCode, tt.url, tt.message)
			require.Error(t, err)
			assert.Equal(t, tt.expectedError, err.Error())

			var httpErr *httpclient.HTTPError
			require.ErrorAs(t, err, &httpErr)
			assert.Equal(t, tt.statusCode, httpErr.StatusCode)
			assert.Equal(t, tt.url, httpErr.URL)
			assert.Equal(t, tt.message, httpErr.Message)
		})
	}
}
