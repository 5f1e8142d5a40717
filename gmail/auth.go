package gmail

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
)

// Scopes needed to read, reply to and mark messages read.
var Scopes = []string{gmail.GmailModifyScope, gmail.GmailSendScope}

// Authenticator runs the installed-app OAuth flow and caches the token.
type Authenticator struct {
	CredentialsFile string
	TokenFile       string
	In              io.Reader // where the authorization code is typed
	Out             io.Writer // where the consent URL is printed
}

// HTTPClient returns an authorized client, asking the operator for a code
// when no cached token exists. Token refresh outlives cancellation of ctx so
// a message already in progress can still be sent during shutdown.
func (a Authenticator) HTTPClient(ctx context.Context) (*http.Client, error) {
	b, err := os.ReadFile(a.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read client secret file: %w", err)
	}
	oauthConfig, err := google.ConfigFromJSON(b, Scopes...)
	if err != nil {
		return nil, fmt.Errorf("unable to parse client secret file to config: %w", err)
	}

	tok, err := tokenFromFile(a.TokenFile)
	if err != nil {
		tok, err = a.tokenFromWeb(ctx, oauthConfig)
		if err != nil {
			return nil, err
		}
		if err := saveToken(a.TokenFile, tok); err != nil {
			return nil, err
		}
		fmt.Fprintf(a.Out, "Saved credential file to: %s\n", a.TokenFile)
	}
	return oauthConfig.Client(context.WithoutCancel(ctx), tok), nil
}

func (a Authenticator) tokenFromWeb(ctx context.Context, config *oauth2.Config) (*oauth2.Token, error) {
	authURL := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Fprintf(a.Out, "Go to the following link in your browser then type the "+
		"authorization code: \n%v\n", authURL)

	var authCode string
	if _, err := fmt.Fscan(a.In, &authCode); err != nil {
		return nil, fmt.Errorf("unable to read authorization code: %w", err)
	}
	tok, err := config.Exchange(ctx, strings.TrimSpace(authCode))
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve token from web: %w", err)
	}
	return tok, nil
}

func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(tok)
	return tok, err
}

func saveToken(path string, token *oauth2.Token) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("unable to create token directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("unable to save oauth token: %w", err)
	}
	defer f.Close()
	if err := json.NewEncoder(f).Encode(token); err != nil {
		return fmt.Errorf("unable to save oauth token: %w", err)
	}
	return nil
}
