// Package guard decides whether a command may run with the stored tokens,
// mirroring the dashboard's route protection.
package guard

import (
	"net/url"
	"strings"
	"time"

	"github.com/Paintersrp/dash/internal/constants"
	"github.com/Paintersrp/dash/internal/tokens"
)

var (
	protected  = []string{constants.RouteDashboard}
	authRoutes = []string{constants.RouteGetStarted, constants.RouteLogin, constants.RouteRegister}
)

type Decision struct {
	Allow bool
	// Redirect is the route to go to instead when Allow is false.
	Redirect string
}

// Check applies the rules to path. Protected routes only need a token to
// be present: an expired access token is refreshed on first use. Auth
// routes bounce to the dashboard only while the access token is unexpired.
func Check(path, access, refresh string) Decision {
	return check(path, access, refresh, time.Now())
}

func check(path, access, refresh string, now time.Time) Decision {
	if path == "" || path == constants.RouteRoot {
		return Decision{Allow: true}
	}

	if hasPrefix(path, protected) && access == "" && refresh == "" {
		return Decision{Redirect: constants.RouteGetStarted + "?redirectTo=" + url.QueryEscape(path)}
	}
	if hasPrefix(path, authRoutes) && access != "" && tokens.AccessValid(access, now) {
		return Decision{Redirect: constants.RouteDashboard}
	}
	return Decision{Allow: true}
}

func hasPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
