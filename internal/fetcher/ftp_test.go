package fetcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFTPURL(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		wantHost string
		wantPath string
		wantErr  bool
	}{
		{
			name:     "standard ftp url",
			url:      "ftp://ftp.example.com/exports/companies.csv",
			wantHost: "ftp.example.com:21",
			wantPath: "/exports/companies.csv",
		},
		{
			name:     "ftp url with port",
			url:      "ftp://ftp.example.com:2121/drop/contacts.csv",
			wantHost: "ftp.example.com:2121",
			wantPath: "/drop/contacts.csv",
		},
		{
			name:    "http scheme rejected",
			url:     "http://example.com/file.csv",
			wantErr: true,
		},
		{
			name:    "empty path rejected",
			url:     "ftp://ftp.example.com",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host, path, err := parseFTPURL(tt.url)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantHost, host)
			assert.Equal(t, tt.wantPath, path)
		})
	}
}

func TestNewFTPFetcher_Defaults(t *testing.T) {
	f := NewFTPFetcher(FTPOptions{})
	assert.Equal(t, "anonymous", f.opts.User)
	assert.Equal(t, "anonymous@", f.opts.Password)
	assert.Equal(t, 30*time.Second, f.opts.Timeout)
}

func TestNewFTPFetcher_KeepsCredentials(t *testing.T) {
	f := NewFTPFetcher(FTPOptions{User: "svc", Password: "secret", Timeout: 5 * time.Second})
	assert.Equal(t, "svc", f.opts.User)
	assert.Equal(t, "secret", f.opts.Password)
	assert.Equal(t, 5*time.Second, f.opts.Timeout)
}
