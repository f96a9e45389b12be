// Package gsuite implements the certificate pipeline's external
// collaborators on top of the Google Sheets, Drive and Slides APIs.
package gsuite

import (
	"context"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/sheets/v4"
	"google.golang.org/api/slides/v1"
)

// Config holds the OAuth2 credentials for the Google Workspace account that
// owns the spreadsheet, the slide template and the destination folder.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	RefreshToken string
}

// NewHTTPClient builds an OAuth2-authenticated HTTP client from a long-lived
// refresh token. Token refresh happens transparently on use.
func NewHTTPClient(ctx context.Context, cfg *Config) *http.Client {
	conf := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Endpoint:     google.Endpoint,
		Scopes: []string{
			sheets.SpreadsheetsReadonlyScope,
			drive.DriveScope,
			slides.PresentationsScope,
		},
	}

	return conf.Client(ctx, &oauth2.Token{RefreshToken: cfg.RefreshToken})
}
