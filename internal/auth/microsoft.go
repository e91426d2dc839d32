package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/quasar/launchpi/internal/manifest"
)

var (
	msaTokenURL  = "https://login.live.com/oauth20_token.srf"
	xblAuthURL   = "https://user.auth.xboxlive.com/user/authenticate"
	xstsAuthURL  = "https://xsts.auth.xboxlive.com/xsts/authorize"
	mcLoginURL   = "https://api.minecraftservices.com/authentication/login_with_xbox"
	mcProfileURL = "https://api.minecraftservices.com/minecraft/profile"
)

// MicrosoftSession is the modern Microsoft-account authentication variant.
type MicrosoftSession struct {
	AccessTokenVal  string `json:"access_token"`
	UsernameVal     string `json:"username"`
	UUIDVal         string `json:"uuid"`
	ClientIDVal     string `json:"client_id"`
	RefreshTokenVal string `json:"refresh_token"`
	AppID           string `json:"app_id"`
	RedirectURI     string `json:"redirect_uri"`
	XUIDVal         string `json:"xuid"`

	pendingUsername string
}

func (s *MicrosoftSession) AccessToken() string { return s.AccessTokenVal }
func (s *MicrosoftSession) Username() string    { return s.UsernameVal }
func (s *MicrosoftSession) UUIDHex() string     { return s.UUIDVal }
func (s *MicrosoftSession) ClientID() string    { return s.ClientIDVal }
func (s *MicrosoftSession) UserType() string    { return "msa" }
func (s *MicrosoftSession) GetXUID() string     { return s.XUIDVal }

func (s *MicrosoftSession) FormatTokenArgument(legacy bool) string {
	return tokenArgument(s.AccessTokenVal, s.UUIDVal, legacy)
}

type msaTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	Error        string `json:"error"`
}

type xblAuthResponse struct {
	Token         string `json:"Token"`
	DisplayClaims struct {
		XUI []struct {
			UHS string `json:"uhs"`
		} `json:"xui"`
	} `json:"DisplayClaims"`
}

type mcProfileResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AuthenticateMicrosoft runs the full authorization_code grant through to
// the Minecraft profile fetch (spec ยง4.6 steps 1-5), yielding a ready
// session.
func AuthenticateMicrosoft(ctx context.Context, appID, redirectURI, authorizationCode string) (*MicrosoftSession, error) {
	s := &MicrosoftSession{AppID: appID, RedirectURI: redirectURI}
	if err := s.exchangeMSAToken(ctx, "authorization_code", authorizationCode); err != nil {
		return nil, err
	}
	if err := s.exchangeXboxAndProfile(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// exchangeMSAToken performs step 1 with either grant_type=authorization_code
// (first login) or grant_type=refresh_token (renewal).
func (s *MicrosoftSession) exchangeMSAToken(ctx context.Context, grantType, codeOrRefreshToken string) error {
	form := url.Values{
		"client_id":  {s.AppID},
		"scope":      {"xboxlive.signin offline_access openid email"},
		"grant_type": {grantType},
	}
	if grantType == "authorization_code" {
		form.Set("code", codeOrRefreshToken)
		form.Set("redirect_uri", s.RedirectURI)
	} else {
		form.Set("refresh_token", codeOrRefreshToken)
	}

	var result msaTokenResponse
	status, err := manifest.JSONRequest(ctx, msaTokenURL, http.MethodPost, manifest.RequestOptions{
		Body:    bytes.NewReader([]byte(form.Encode())),
		Headers: map[string]string{"Content-Type": "application/x-www-form-urlencoded"},
	}, &result)
	if err != nil {
		return err
	}
	if status != http.StatusOK || result.Error != "" {
		return &Error{Kind: Microsoft, Details: result.Error}
	}

	s.AccessTokenVal = result.AccessToken
	s.RefreshTokenVal = result.RefreshToken
	return nil
}

func (s *MicrosoftSession) exchangeXboxAndProfile(ctx context.Context) error {
	xbl, err := doXboxAuth(ctx, xblAuthURL, map[string]any{
		"Properties": map[string]any{
			"AuthMethod": "RPS",
			"SiteName":   "user.auth.xboxlive.com",
			"RpsTicket":  "d=" + s.AccessTokenVal,
		},
		"RelyingParty": "http://auth.xboxlive.com",
		"TokenType":    "JWT",
	})
	if err != nil {
		return err
	}
	if len(xbl.DisplayClaims.XUI) == 0 {
		return &Error{Kind: Microsoft, Details: "xbox response missing display claims"}
	}
	uhs := xbl.DisplayClaims.XUI[0].UHS

	xsts, err := doXboxAuth(ctx, xstsAuthURL, map[string]any{
		"Properties": map[string]any{
			"SandboxId":  "RETAIL",
			"UserTokens": []string{xbl.Token},
		},
		"RelyingParty": "rp://api.minecraftservices.com/",
		"TokenType":    "JWT",
	})
	if err != nil {
		return err
	}
	if len(xsts.DisplayClaims.XUI) == 0 || xsts.DisplayClaims.XUI[0].UHS != uhs {
		return &Error{Kind: MicrosoftInconsistentHash}
	}

	identityToken := fmt.Sprintf("XBL3.0 x=%s;%s", uhs, xsts.Token)
	body, _ := json.Marshal(map[string]string{"identityToken": identityToken})

	var mcLogin struct {
		AccessToken string `json:"access_token"`
	}
	status, err := manifest.JSONRequest(ctx, mcLoginURL, http.MethodPost, manifest.RequestOptions{
		Body:    bytes.NewReader(body),
		Headers: map[string]string{"Content-Type": "application/json"},
	}, &mcLogin)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return &Error{Kind: Microsoft, Details: fmt.Sprintf("login_with_xbox returned status %d", status)}
	}
	s.AccessTokenVal = mcLogin.AccessToken

	if xuid, err := extractXUID(s.AccessTokenVal); err == nil {
		s.XUIDVal = xuid
	}

	profile, err := fetchMinecraftProfile(ctx, s.AccessTokenVal)
	if err != nil {
		return err
	}
	s.UsernameVal = profile.Name
	s.UUIDVal = profile.ID
	return nil
}

func doXboxAuth(ctx context.Context, endpoint string, body map[string]any) (*xblAuthResponse, error) {
	payload, _ := json.Marshal(body)
	var result xblAuthResponse
	status, err := manifest.JSONRequest(ctx, endpoint, http.MethodPost, manifest.RequestOptions{
		Body: bytes.NewReader(payload),
		Headers: map[string]string{
			"Content-Type":           "application/json",
			"Accept":                 "application/json",
			"x-xbl-contract-version": "1",
		},
	}, &result)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, &Error{Kind: Microsoft, Details: fmt.Sprintf("xbox auth at %s returned status %d", endpoint, status)}
	}
	return &result, nil
}

func fetchMinecraftProfile(ctx context.Context, accessToken string) (*mcProfileResponse, error) {
	var profile mcProfileResponse
	status, err := manifest.JSONRequest(ctx, mcProfileURL, http.MethodGet, manifest.RequestOptions{
		Headers: map[string]string{"Authorization": "Bearer " + accessToken},
	}, &profile)
	if err != nil {
		return nil, err
	}
	switch status {
	case http.StatusOK:
		return &profile, nil
	case http.StatusNotFound:
		return nil, &Error{Kind: MicrosoftDoesNotOwnMinecraft}
	case http.StatusUnauthorized:
		return nil, &Error{Kind: MicrosoftOutdatedToken}
	default:
		return nil, &Error{Kind: Microsoft, Details: fmt.Sprintf("profile fetch returned status %d", status)}
	}
}

// Validate fetches the current profile and compares its name against the
// stored username. A mismatch is reported as invalid but the fresh name is
// remembered so Refresh can adopt it without a further network call.
func (s *MicrosoftSession) Validate(ctx context.Context) (bool, error) {
	profile, err := fetchMinecraftProfile(ctx, s.AccessTokenVal)
	if err != nil {
		return false, err
	}
	if profile.Name != s.UsernameVal {
		s.pendingUsername = profile.Name
		return false, nil
	}
	return true, nil
}

// Refresh adopts a pending username discovered by Validate, or else runs
// the full refresh_token grant followed by the Xbox/XSTS/MC chain.
func (s *MicrosoftSession) Refresh(ctx context.Context) error {
	if s.pendingUsername != "" {
		s.UsernameVal = s.pendingUsername
		s.pendingUsername = ""
		return nil
	}
	if err := s.exchangeMSAToken(ctx, "refresh_token", s.RefreshTokenVal); err != nil {
		return err
	}
	return s.exchangeXboxAndProfile(ctx)
}

// Invalidate has no server-side counterpart for Microsoft sessions; it
// simply clears the in-memory tokens.
func (s *MicrosoftSession) Invalidate(ctx context.Context) error {
	s.AccessTokenVal = ""
	s.RefreshTokenVal = ""
	return nil
}
