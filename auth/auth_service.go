package auth

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/jrsteele09/go-teams-profile/graph"
	"github.com/jrsteele09/go-teams-profile/host"
	interrors "github.com/jrsteele09/go-teams-profile/internal/errors"
	"github.com/jrsteele09/go-teams-profile/token"
	"github.com/jrsteele09/go-teams-profile/users"
	"github.com/jrsteele09/go-teams-profile/view"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// maxResumes bounds how often a pending redirect restarts the sign-in
const maxResumes = 1

// ProfileFetcher reads the signed-in user's Graph profile
type ProfileFetcher interface {
	Me(ctx context.Context, token string) (*graph.Profile, error)
}

// Dependencies holds the collaborators of the sign-in Service
type Dependencies struct {
	Runtime     host.Runtime   // Embedding host, may fail to initialize outside Teams
	Identity    IdentityClient // Sign-in outside a Teams host
	Cache       *token.Cache   // Graph token cache
	Graph       ProfileFetcher // Graph /me
	Opener      WindowOpener   // Optional fallback when the host dialog is refused
	AuthPageURL string         // Page that runs the sign-in and hands back a token
}

// Snapshot is the state rendered by a view
type Snapshot struct {
	Status           view.Status
	Environment      host.Environment
	User             *users.UserInfo
	Err              error
	ManualInProgress bool
}

// Service drives the sign-in: detect the host, acquire a Graph token, fetch and merge
// the profile and publish each state change.
type Service struct {
	runtime  host.Runtime
	cache    *token.Cache
	graph    ProfileFetcher
	embedded *EmbeddedAcquirer
	redirect *RedirectAcquirer
	gate     ManualGate

	userAgent       string
	embeddedOptions []EmbeddedOption
	nowTime         func() time.Time

	lock        sync.RWMutex
	snapshot    Snapshot
	hostContext *host.Context
	observers   []func(Snapshot)
}

// ServiceOption configures a Service
type ServiceOption func(*Service)

// WithUserAgent overrides the user agent reported by the host
func WithUserAgent(userAgent string) ServiceOption {
	return func(s *Service) {
		s.userAgent = userAgent
	}
}

// WithEmbeddedOptions configures the host dialog acquirer
func WithEmbeddedOptions(options ...EmbeddedOption) ServiceOption {
	return func(s *Service) {
		s.embeddedOptions = append(s.embeddedOptions, options...)
	}
}

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

// NewService creates a sign-in Service
func NewService(deps Dependencies, options ...ServiceOption) (*Service, error) {
	if deps.Runtime == nil {
		return nil, errors.New("[NewService] host runtime is required")
	}
	if deps.Identity == nil {
		return nil, errors.New("[NewService] identity client is required")
	}
	if deps.Cache == nil {
		return nil, errors.New("[NewService] token cache is required")
	}
	if deps.Graph == nil {
		return nil, errors.New("[NewService] profile fetcher is required")
	}
	if deps.AuthPageURL == "" {
		return nil, errors.New("[NewService] auth page URL is required")
	}

	s := &Service{
		runtime:  deps.Runtime,
		cache:    deps.Cache,
		graph:    deps.Graph,
		redirect: NewRedirectAcquirer(deps.Identity, deps.Cache),
		nowTime:  time.Now,
		snapshot: Snapshot{Status: view.StatusLoading, Environment: host.EnvironmentUnknown},
	}
	for _, opt := range options {
		opt(s)
	}
	if deps.Opener != nil {
		s.embeddedOptions = append(s.embeddedOptions, WithWindowOpener(deps.Opener))
	}
	s.embedded = NewEmbeddedAcquirer(deps.Runtime, deps.Cache, deps.AuthPageURL, s.embeddedOptions...)

	return s, nil
}

// Observe registers fn to be called with every new snapshot
func (s *Service) Observe(fn func(Snapshot)) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.observers = append(s.observers, fn)
}

// Snapshot returns the current state
func (s *Service) Snapshot() Snapshot {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.snapshot
}

// Run signs in and returns once the state is success, error or manual. A started
// redirect resumes the sign-in once it has completed.
func (s *Service) Run(ctx context.Context) error {
	started := s.nowTime()
	for resumes := 0; ; resumes++ {
		err := s.signIn(ctx)
		if err == nil {
			log.Info().Dur("elapsed", s.nowTime().Sub(started)).Str("status", s.Snapshot().Status.String()).Msg("Sign-in finished")
			return nil
		}
		if IsRedirectPending(err) && resumes < maxResumes {
			log.Info().Msg("Sign-in redirect completed, resuming")
			s.transition(view.StatusLoading, nil)
			continue
		}

		log.Err(err).Msg("Sign-in failed")
		s.transition(view.StatusError, func(snap *Snapshot) {
			snap.Err = err
		})
		return err
	}
}

// ManualAuth runs the host dialog on user request while the state is manual. A
// request made while another is running is ignored.
func (s *Service) ManualAuth(ctx context.Context) error {
	if !s.gate.TryEnter() {
		log.Debug().Msg("Manual sign-in already in progress")
		return nil
	}
	defer s.gate.Leave()

	if s.Snapshot().Status != view.StatusManual {
		log.Debug().Str("status", s.Snapshot().Status.String()).Msg("Manual sign-in ignored")
		return nil
	}

	s.transition(view.StatusWaitingConsent, func(snap *Snapshot) {
		snap.ManualInProgress = true
	})
	defer s.update(func(snap *Snapshot) {
		snap.ManualInProgress = false
	})

	err := s.manualSignIn(ctx)
	if err != nil {
		log.Err(err).Msg("Manual sign-in failed")
		s.transition(view.StatusError, func(snap *Snapshot) {
			snap.Err = err
		})
	}
	return err
}

func (s *Service) manualSignIn(ctx context.Context) error {
	s.lock.RLock()
	hostContext := s.hostContext
	s.lock.RUnlock()
	if hostContext == nil {
		return interrors.ErrNoHostContext
	}

	cached, err := s.embedded.Acquire(ctx, hostContext.User.LoginHint())
	if err != nil {
		return err
	}
	return s.complete(ctx, cached, users.Sources{Teams: &hostContext.User, TenantID: hostContext.User.TenantID})
}

func (s *Service) signIn(ctx context.Context) error {
	environment, hostContext := host.Detect(ctx, s.runtime)
	s.lock.Lock()
	s.hostContext = hostContext
	s.lock.Unlock()
	s.update(func(snap *Snapshot) {
		snap.Environment = environment
	})

	if environment.IsTeamsHost() {
		return s.signInWithHost(ctx, environment, hostContext)
	}

	var loginHint, tenantID string
	if hostContext != nil {
		loginHint = hostContext.User.UserPrincipalName
		tenantID = hostContext.User.TenantID
	}
	return s.signInWithIdentity(ctx, loginHint, tenantID)
}

func (s *Service) signInWithHost(ctx context.Context, environment host.Environment, hostContext *host.Context) error {
	s.transition(view.StatusWaitingConsent, nil)

	loginHint := hostContext.User.LoginHint()
	cached, ok := s.cache.Get()
	if !ok && environment == host.EnvironmentTeamsWeb && host.IsSafari(s.effectiveUserAgent(hostContext)) {
		log.Info().Msg("Teams on the web in Safari, waiting for manual sign-in")
		s.transition(view.StatusManual, nil)
		return nil
	}

	if !ok {
		var err error
		cached, err = s.embedded.Acquire(ctx, loginHint)
		if err != nil {
			if RequiresManual(err) {
				log.Warn().Err(err).Msg("Host dialog unavailable, waiting for manual sign-in")
				s.transition(view.StatusManual, nil)
				return nil
			}
			return err
		}
	}

	return s.complete(ctx, cached, users.Sources{Teams: &hostContext.User, TenantID: hostContext.User.TenantID})
}

func (s *Service) signInWithIdentity(ctx context.Context, loginHint, tenantID string) error {
	s.transition(view.StatusWaitingConsent, nil)

	cached, err := s.redirect.Acquire(ctx, loginHint)
	if err != nil {
		return err
	}
	return s.complete(ctx, cached, users.Sources{TenantID: tenantID})
}

func (s *Service) complete(ctx context.Context, cached *token.CachedToken, sources users.Sources) error {
	profile, err := s.graph.Me(ctx, cached.Token)
	if err != nil {
		return errors.Wrap(err, "fetch Graph profile")
	}

	sources.Graph = profile
	sources.Claims = cached.Claims
	user := users.Merge(sources)

	s.transition(view.StatusSuccess, func(snap *Snapshot) {
		snap.User = &user
		snap.Err = nil
	})
	return nil
}

func (s *Service) effectiveUserAgent(hostContext *host.Context) string {
	if s.userAgent != "" {
		return s.userAgent
	}
	return hostContext.UserAgent
}

// transition moves to status unless the state machine forbids it
func (s *Service) transition(status view.Status, mutate func(*Snapshot)) {
	s.publish(func(snap *Snapshot) bool {
		if snap.Status != status && !snap.Status.CanTransition(status) {
			log.Warn().Str("from", snap.Status.String()).Str("to", status.String()).Msg("Ignoring invalid state transition")
			return false
		}
		snap.Status = status
		if mutate != nil {
			mutate(snap)
		}
		return true
	})
}

func (s *Service) update(mutate func(*Snapshot)) {
	s.publish(func(snap *Snapshot) bool {
		mutate(snap)
		return true
	})
}

func (s *Service) publish(apply func(*Snapshot) bool) {
	s.lock.Lock()
	if !apply(&s.snapshot) {
		s.lock.Unlock()
		return
	}
	snap := s.snapshot
	observers := slices.Clone(s.observers)
	s.lock.Unlock()

	for _, fn := range observers {
		fn(snap)
	}
}
