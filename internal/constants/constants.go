package constants

import "time"

const (
	Version        = `0.1.0`
	AppName        = `dash`
	ConfigFile     = `cfg`
	ConfigFileType = `yaml`
	ConfigDir      = `/.dash/`
	CookieFile     = `cookies.yaml`
	EnvPrefix      = `DASH`

	AccessTokenKey  = `access_token`
	RefreshTokenKey = `refresh_token`

	AccessTokenMaxAge  = 15 * time.Minute
	RefreshTokenMaxAge = 7 * 24 * time.Hour
	DefaultCookieAge   = 7 * 24 * time.Hour

	DefaultTimeout = 30 * time.Second

	// Route prefixes mirrored from the web dashboard.
	RouteRoot       = `/`
	RouteDashboard  = `/dashboard`
	RouteGetStarted = `/get-started`
	RouteLogin      = `/login`
	RouteRegister   = `/register`
	RouteVerify     = `/verify`
	RouteReset      = `/reset-password`
	RouteNotes      = `/dashboard/notes`
	RouteTasks      = `/dashboard/tasks`
	RouteTodos      = `/dashboard/todos`
	RouteProfile    = `/dashboard/profile`

	// RouteAnnotation is the cobra annotation naming the route a command
	// stands for. The root command checks it against the stored tokens.
	RouteAnnotation = `route`
)
