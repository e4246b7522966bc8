// Package gate decides, before every navigation, whether the user may
// proceed, must authenticate first, or must complete profile setup.
package gate

import (
	"context"

	errx "github.com/nncoach/client-core/internal/core/error"
	"github.com/nncoach/client-core/internal/model"
	"github.com/nncoach/client-core/internal/session"
	logx "github.com/nncoach/client-core/pkg/logger"
)

// Config names the sentinel routes the gate must special-case.
type Config struct {
	LoginPath        string `envconfig:"ROUTE_LOGIN" default:"/login"`
	SignupPath       string `envconfig:"ROUTE_SIGNUP" default:"/signup"`
	ProfileSetupPath string `envconfig:"ROUTE_PROFILE_SETUP" default:"/profile/setup"`
	HomePath         string `envconfig:"ROUTE_HOME" default:"/dashboard"`
}

// Requirements is the access metadata a route declares.
type Requirements struct {
	RequiresAuth    bool
	RequiresProfile bool
}

// Route is a navigation target.
type Route struct {
	Path string
	Requirements
}

// Action is the gate's verdict for a navigation attempt.
type Action int

const (
	// Allow lets the navigation proceed.
	Allow Action = iota
	// RedirectLogin sends an unauthenticated user to the login route.
	RedirectLogin
	// RedirectHome sends an authenticated user away from auth pages.
	RedirectHome
	// RedirectProfileSetup sends an incomplete profile to the setup step.
	RedirectProfileSetup
)

func (a Action) String() string {
	switch a {
	case Allow:
		return "allow"
	case RedirectLogin:
		return "redirect_login"
	case RedirectHome:
		return "redirect_home"
	case RedirectProfileSetup:
		return "redirect_profile_setup"
	default:
		return "unknown"
	}
}

// Decision carries the verdict and, for redirects, the target path.
// StaleSession marks a leftover user record without a token; the caller
// clears it and explains the bounce instead of redirecting silently.
type Decision struct {
	Action       Action
	Target       string
	StaleSession bool
}

// Evaluate applies the decision order, first match wins:
//  1. auth required, no token -> login
//  2. auth page while authenticated -> home
//  3. profile required but incomplete -> profile setup (unless already there)
//  4. allow
//
// Pure given its inputs; it runs synchronously before every render.
func (c Config) Evaluate(r Route, hasToken bool, user *model.Profile) Decision {
	if r.RequiresAuth && !hasToken {
		return Decision{
			Action:       RedirectLogin,
			Target:       c.LoginPath,
			StaleSession: user != nil,
		}
	}

	if (r.Path == c.LoginPath || r.Path == c.SignupPath) && hasToken {
		return Decision{Action: RedirectHome, Target: c.HomePath}
	}

	if r.RequiresProfile && hasToken && user != nil && !user.Complete() && r.Path != c.ProfileSetupPath {
		return Decision{Action: RedirectProfileSetup, Target: c.ProfileSetupPath}
	}

	return Decision{Action: Allow}
}

// Gate binds the pure evaluation to the current session and a message
// sink for the stale-session notice.
type Gate struct {
	cfg      Config
	sessions *session.Manager
	notify   func(message string)
}

func New(cfg Config, sessions *session.Manager, notify func(message string)) *Gate {
	return &Gate{cfg: cfg, sessions: sessions, notify: notify}
}

// Authorize evaluates the route against the current identity and applies
// the stale-session side effects: the leftover user record is cleared and
// a session-expired notice is surfaced before the redirect.
func (g *Gate) Authorize(ctx context.Context, r Route) Decision {
	d := g.cfg.Evaluate(r, g.sessions.Token() != "", g.sessions.CurrentUser())

	if d.StaleSession {
		g.sessions.Clear(ctx)
		if g.notify != nil {
			g.notify(errx.SessionExpiredMessage)
		}
	}

	logx.Debug().Str("path", r.Path).Str("action", d.Action.String()).Msg("navigation gate")
	return d
}
