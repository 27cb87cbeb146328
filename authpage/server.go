// Package authpage serves the auth landing page on a loopback address. The page
// runs the authorization code flow with PKCE against Entra ID and hands the Graph
// access token back to the application.
package authpage

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/google/uuid"
	"github.com/jrsteele09/go-teams-profile/auth"
	"github.com/jrsteele09/go-teams-profile/token"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

const (
	// PagePath starts a sign-in. It accepts an optional loginHint query parameter.
	PagePath     = "/auth.html"
	CallbackPath = "/auth-end"

	flowTimeout = 15 * time.Minute
)

// TokenSink receives the tokens obtained by the page
type TokenSink interface {
	Put(rawToken string) *token.CachedToken
}

// Config describes the app registration the page signs in to
type Config struct {
	AppName   string
	ClientID  string
	Authority string // https://login.microsoftonline.com/{tenant}
	Scopes    []string
	Port      int // 0 picks a free port
}

// Result is the outcome of one sign-in on the page
type Result struct {
	Token string
	Err   error
}

type flow struct {
	verifier string
	started  time.Time
}

// Server is the loopback auth page
type Server struct {
	addr       string
	appName    string
	sink       TokenSink
	oauth      *oauth2.Config
	endpoint   *oauth2.Endpoint
	httpClient *http.Client
	http       *http.Server
	nowTime    func() time.Time

	lock    sync.Mutex
	flows   map[string]flow
	waiters map[string]chan Result
}

// Option configures a Server
type Option func(*Server)

// WithEndpoint skips issuer discovery and uses endpoint
func WithEndpoint(endpoint oauth2.Endpoint) Option {
	return func(s *Server) {
		s.endpoint = &endpoint
	}
}

// WithHTTPClient sets the client used for discovery and code exchange
func WithHTTPClient(client *http.Client) Option {
	return func(s *Server) {
		s.httpClient = client
	}
}

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) Option {
	return func(s *Server) {
		s.nowTime = nowFunc
	}
}

// New discovers the authority's endpoints and starts serving the page
func New(ctx context.Context, cfg Config, sink TokenSink, options ...Option) (*Server, error) {
	if sink == nil {
		return nil, errors.New("[authpage.New] token sink is required")
	}
	if cfg.ClientID == "" {
		return nil, errors.New("[authpage.New] client id is required")
	}

	s := &Server{
		appName: cfg.AppName,
		sink:    sink,
		nowTime: time.Now,
		flows:   make(map[string]flow),
		waiters: make(map[string]chan Result),
	}
	for _, opt := range options {
		opt(s)
	}

	endpoint, err := s.discover(ctx, cfg.Authority)
	if err != nil {
		return nil, err
	}
	endpoint.AuthStyle = oauth2.AuthStyleInParams

	listener, err := net.Listen("tcp", fmt.Sprintf("localhost:%d", cfg.Port))
	if err != nil {
		return nil, errors.Wrap(err, "listen for auth page")
	}
	s.addr = "http://" + listener.Addr().String()

	s.oauth = &oauth2.Config{
		ClientID:    cfg.ClientID,
		Endpoint:    endpoint,
		RedirectURL: s.addr + CallbackPath,
		Scopes:      cfg.Scopes,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+PagePath, chainMiddleware(s.handleStart, pageMiddleware()...))
	mux.HandleFunc("GET "+CallbackPath, chainMiddleware(s.handleCallback, pageMiddleware()...))
	s.http = &http.Server{Handler: mux, ReadHeaderTimeout: time.Second}

	go func() {
		if err := s.http.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Err(err).Msg("Auth page server stopped")
		}
	}()

	log.Info().Str("addr", s.addr).Msg("Auth page listening")
	return s, nil
}

func (s *Server) discover(ctx context.Context, authority string) (oauth2.Endpoint, error) {
	if s.endpoint != nil {
		return *s.endpoint, nil
	}
	if s.httpClient != nil {
		ctx = oidc.ClientContext(ctx, s.httpClient)
	}

	issuer := strings.TrimSuffix(authority, "/") + "/v2.0"
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return oauth2.Endpoint{}, errors.Wrapf(err, "discover %s", issuer)
	}
	log.Debug().Str("issuer", issuer).Msg("Discovered authority endpoints")
	return provider.Endpoint(), nil
}

// Addr is the page's origin, e.g. http://127.0.0.1:5173
func (s *Server) Addr() string {
	return s.addr
}

// AuthURL is the URL that starts a sign-in
func (s *Server) AuthURL() string {
	return s.addr + PagePath
}

// Shutdown stops serving. Pending waiters are told the flow was interrupted.
func (s *Server) Shutdown(ctx context.Context) error {
	s.publish(Result{Err: auth.NewError(auth.KindCancelled, errors.New("auth page shut down"))})
	return s.http.Shutdown(ctx)
}

// await registers for the next completed sign-in. cancel must be called once the
// caller stops waiting.
func (s *Server) await() (results <-chan Result, cancel func()) {
	id := uuid.NewString()
	ch := make(chan Result, 1)

	s.lock.Lock()
	s.waiters[id] = ch
	s.lock.Unlock()

	return ch, func() {
		s.lock.Lock()
		delete(s.waiters, id)
		s.lock.Unlock()
	}
}

func (s *Server) publish(result Result) {
	s.lock.Lock()
	defer s.lock.Unlock()
	for id, ch := range s.waiters {
		ch <- result
		delete(s.waiters, id)
	}
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()
	verifier := oauth2.GenerateVerifier()

	s.lock.Lock()
	s.expireFlows()
	s.flows[state] = flow{verifier: verifier, started: s.nowTime()}
	s.lock.Unlock()

	options := []oauth2.AuthCodeOption{oauth2.S256ChallengeOption(verifier)}
	if hint := r.URL.Query().Get("loginHint"); hint != "" {
		options = append(options, oauth2.SetAuthURLParam("login_hint", hint))
	}

	log.Debug().Str("state", state).Msg("Auth page redirecting to authority")
	http.Redirect(w, r, s.oauth.AuthCodeURL(state, options...), http.StatusFound)
}

func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	s.lock.Lock()
	f, ok := s.flows[q.Get("state")]
	delete(s.flows, q.Get("state"))
	s.lock.Unlock()

	if !ok {
		log.Warn().Str("state", q.Get("state")).Msg("Auth callback with unknown state")
		render(w, http.StatusBadRequest, failurePage, pageData{AppName: s.appName, Code: "invalid_state", Description: "unknown or expired sign-in"})
		s.publish(Result{Err: auth.NewError(auth.KindCancelled, errors.New("unknown or expired sign-in state"))})
		return
	}

	if code := q.Get("error"); code != "" {
		description := q.Get("error_description")
		render(w, http.StatusOK, failurePage, pageData{AppName: s.appName, Code: code, Description: description})
		s.publish(Result{Err: callbackError(code, description)})
		return
	}

	code := q.Get("code")
	if code == "" {
		render(w, http.StatusBadRequest, failurePage, pageData{AppName: s.appName, Code: "invalid_request", Description: "authorization code missing"})
		s.publish(Result{Err: errors.New("authorization code missing in query string")})
		return
	}

	ctx := r.Context()
	if s.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
	}
	tok, err := s.oauth.Exchange(ctx, code, oauth2.VerifierOption(f.verifier))
	if err != nil {
		log.Err(err).Msg("Authorization code exchange failed")
		render(w, http.StatusBadGateway, failurePage, pageData{AppName: s.appName, Code: "token_exchange", Description: err.Error()})
		s.publish(Result{Err: errors.Wrap(err, "exchange authorization code")})
		return
	}

	s.sink.Put(tok.AccessToken)
	log.Info().Dur("elapsed", s.nowTime().Sub(f.started)).Msg("Auth page obtained a Graph token")
	render(w, http.StatusOK, successPage, pageData{AppName: s.appName})
	s.publish(Result{Token: tok.AccessToken})
}

// expireFlows drops sign-ins abandoned long ago. Callers hold s.lock.
func (s *Server) expireFlows() {
	for state, f := range s.flows {
		if s.nowTime().Sub(f.started) > flowTimeout {
			delete(s.flows, state)
		}
	}
}

func callbackError(code, description string) error {
	err := errors.Errorf("%s: %s", code, description)
	switch code {
	case "access_denied":
		return auth.NewError(auth.KindCancelled, err)
	case "interaction_required", "login_required", "consent_required":
		return auth.NewError(auth.KindInteractionInProgress, err)
	}
	return err
}
