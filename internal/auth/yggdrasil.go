package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/quasar/launchpi/internal/manifest"
)

var (
	yggAuthenticateURL = "https://authserver.mojang.com/authenticate"
	yggValidateURL     = "https://authserver.mojang.com/validate"
	yggRefreshURL      = "https://authserver.mojang.com/refresh"
	yggInvalidateURL   = "https://authserver.mojang.com/invalidate"
)

// YggdrasilSession is the legacy Mojang authentication variant.
type YggdrasilSession struct {
	AccessTokenVal string `json:"access_token"`
	UsernameVal    string `json:"username"`
	UUIDVal        string `json:"uuid"`
	ClientIDVal    string `json:"client_id"`
}

func (s *YggdrasilSession) AccessToken() string { return s.AccessTokenVal }
func (s *YggdrasilSession) Username() string    { return s.UsernameVal }
func (s *YggdrasilSession) UUIDHex() string     { return s.UUIDVal }
func (s *YggdrasilSession) ClientID() string    { return s.ClientIDVal }
func (s *YggdrasilSession) UserType() string    { return "mojang" }
func (s *YggdrasilSession) GetXUID() string     { return "" }

func (s *YggdrasilSession) FormatTokenArgument(legacy bool) string {
	return tokenArgument(s.AccessTokenVal, s.UUIDVal, legacy)
}

type yggProfile struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AuthenticateYggdrasil performs the authenticate endpoint and builds a
// fresh session from the returned profile and tokens.
func AuthenticateYggdrasil(ctx context.Context, clientID, email, password string) (*YggdrasilSession, error) {
	body, _ := json.Marshal(map[string]any{
		"agent":       map[string]string{"name": "Minecraft", "version": "1"},
		"username":    email,
		"password":    password,
		"clientToken": clientID,
		"requestUser": false,
	})

	var result struct {
		AccessToken     string     `json:"accessToken"`
		ClientToken     string     `json:"clientToken"`
		SelectedProfile yggProfile `json:"selectedProfile"`
		Error           string     `json:"error"`
		ErrorMessage    string     `json:"errorMessage"`
	}

	status, err := manifest.JSONRequest(ctx, yggAuthenticateURL, http.MethodPost, manifest.RequestOptions{
		Body:    bytes.NewReader(body),
		Headers: map[string]string{"Content-Type": "application/json"},
	}, &result)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK || result.Error != "" {
		return nil, &Error{Kind: Yggdrasil, Details: result.ErrorMessage}
	}

	return &YggdrasilSession{
		AccessTokenVal: result.AccessToken,
		UsernameVal:    result.SelectedProfile.Name,
		UUIDVal:        result.SelectedProfile.ID,
		ClientIDVal:    result.ClientToken,
	}, nil
}

func (s *YggdrasilSession) Validate(ctx context.Context) (bool, error) {
	body, _ := json.Marshal(map[string]string{
		"accessToken": s.AccessTokenVal,
		"clientToken": s.ClientIDVal,
	})
	status, err := manifest.JSONRequest(ctx, yggValidateURL, http.MethodPost, manifest.RequestOptions{
		Body:        bytes.NewReader(body),
		Headers:     map[string]string{"Content-Type": "application/json"},
		IgnoreError: true,
	}, &struct{}{})
	if err != nil {
		return false, err
	}
	return status == http.StatusNoContent, nil
}

func (s *YggdrasilSession) Refresh(ctx context.Context) error {
	body, _ := json.Marshal(map[string]any{
		"accessToken": s.AccessTokenVal,
		"clientToken": s.ClientIDVal,
		"requestUser": false,
	})

	var result struct {
		AccessToken     string     `json:"accessToken"`
		SelectedProfile yggProfile `json:"selectedProfile"`
		Error           string     `json:"error"`
		ErrorMessage    string     `json:"errorMessage"`
	}

	status, err := manifest.JSONRequest(ctx, yggRefreshURL, http.MethodPost, manifest.RequestOptions{
		Body:    bytes.NewReader(body),
		Headers: map[string]string{"Content-Type": "application/json"},
	}, &result)
	if err != nil {
		return err
	}
	if status != http.StatusOK || result.Error != "" {
		return &Error{Kind: Yggdrasil, Details: result.ErrorMessage}
	}

	s.AccessTokenVal = result.AccessToken
	if result.SelectedProfile.Name != "" {
		s.UsernameVal = result.SelectedProfile.Name
	}
	return nil
}

func (s *YggdrasilSession) Invalidate(ctx context.Context) error {
	body, _ := json.Marshal(map[string]string{
		"accessToken": s.AccessTokenVal,
		"clientToken": s.ClientIDVal,
	})
	status, err := manifest.JSONRequest(ctx, yggInvalidateURL, http.MethodPost, manifest.RequestOptions{
		Body:        bytes.NewReader(body),
		Headers:     map[string]string{"Content-Type": "application/json"},
		IgnoreError: true,
	}, &struct{}{})
	if err != nil {
		return err
	}
	if status != http.StatusOK && status != http.StatusNoContent {
		return &Error{Kind: Yggdrasil, Details: fmt.Sprintf("unexpected status %d", status)}
	}
	return nil
}
