package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// ServerName identifies the local API in the Server response header.
var ServerName = "World-Clocks/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName           = "World Clocks"
	AppID             = "com.github.tartampluch.world-clocks"
	LocalhostBindAddr = "127.0.0.1"
	LogFileName       = "app.log"
	IconFile          = "Icon.png"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// CLI Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagVersion      = "version"
	FlagDebug        = "debug"
	FlagDescVersion  = "Show application version and exit"
	FlagDescDebug    = "Enable debug logging to stdout"
	MsgVersionOutput = "%s version %s (%s/%s)\n"
)

// -----------------------------------------------------------------------------
// UI Constants & Preferences
// -----------------------------------------------------------------------------

const (
	MainWindowWidth     = 1120
	MainWindowHeight    = 760
	SettingsWindowWidth = 480

	// Clock face geometry, in device independent pixels.
	ClockFaceSize   = 180
	ClockCellWidth  = 200
	ClockCellHeight = 230

	// ReferenceEntryWidth fits "HH:MM" plus the validation icon.
	ReferenceEntryWidth = 120

	// Hand lengths relative to the face radius.
	HourHandRatio   = 0.50
	MinuteHandRatio = 0.72
	SecondHandRatio = 0.84
	TickInnerRatio  = 0.86
	TickOuterRatio  = 0.96
	CenterDotRatio  = 0.05

	// Stroke widths.
	HourHandWidth   = 5
	MinuteHandWidth = 3
	SecondHandWidth = 1
	TickWidth       = 2
	FaceStrokeWidth = 3

	// Preference Keys
	PrefLanguage      = "language"
	PrefRefreshMillis = "refresh_interval_ms"
	PrefServerPort    = "server_port"
	PrefServerEnabled = "server_enabled"
	PrefLastRun       = "last_run_version"
)

// SupportedLanguages defines the list of available UI languages (ISO 639-1).
var SupportedLanguages = []string{"en", "fr"}

// -----------------------------------------------------------------------------
// UI Time Table Window Constants
// -----------------------------------------------------------------------------

const (
	TableWinWidth  = 560
	TableWinHeight = 520

	// Table Column IDs
	ColIDCity   = 0
	ColIDTime   = 1
	ColIDOffset = 2

	// Table Layout
	ColWidthCity   = 300
	ColWidthTime   = 120
	ColWidthOffset = 110

	TablePlaceholder = "Cell Content"
	LogMsgOpenWin    = "Opening time table window"
	LogMsgSorted     = "Time table sorted"

	// Sorting Indicators
	SortIconAsc  = " ▲"
	SortIconDesc = " ▼"
)

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyWinTitle       = "win_title"
	TKeyWinSettings    = "win_settings_title"
	TKeyWinTable       = "win_table_title"
	TKeyMenuShow       = "menu_show"
	TKeyMenuTable      = "menu_table"
	TKeyMenuReset      = "menu_reset"
	TKeyMenuSettings   = "menu_settings"
	TKeyLblReference   = "lbl_reference"
	TKeyHintReference  = "hint_reference"
	TKeyBtnReset       = "btn_reset"
	TKeyStatusLive     = "status_live"
	TKeyStatusPinned   = "status_pinned" // Requires Time
	TKeyLblLanguage    = "lbl_language"
	TKeyHelpLanguage   = "help_language"
	TKeyLblRefresh     = "lbl_refresh_interval"
	TKeyLblMillis      = "lbl_millis_suffix"
	TKeyHelpInterval   = "help_interval"
	TKeyLblPort        = "lbl_server_port"
	TKeyHelpPort       = "help_port"
	TKeyLblServer      = "lbl_server_enabled"
	TKeyLblGeneral     = "lbl_general"
	TKeyLblAPI         = "lbl_api"
	TKeyBtnSave        = "btn_save"
	TKeyBtnCancel      = "btn_cancel"
	TKeyLblFooter      = "lbl_footer"
	TKeyNotifAPIError  = "notif_api_error"
	TKeyColCity        = "col_city"
	TKeyColTime        = "col_time"
	TKeyColOffset      = "col_offset"
	TKeyErrPortReq     = "err_port_required"
	TKeyErrPortNum     = "err_port_number"
	TKeyErrPortRange   = "err_port_range"
	TKeyErrTimeFormat  = "err_time_format"
	TKeyErrIntervalMin = "err_interval_min"
)

// -----------------------------------------------------------------------------
// Default Values & Business Logic
// -----------------------------------------------------------------------------

const (
	DefaultPort          = "18081"
	DefaultLanguage      = "en"
	DefaultServerEnabled = true

	// DefaultRefreshMillis is the periodic refresh interval. Ticks are not
	// phase-locked to second boundaries.
	DefaultRefreshMillis = 1000
	MinRefreshMillis     = 100

	// Reference zone: Indian Standard Time, fixed UTC+5:30 without DST.
	ReferenceZoneName   = "IST"
	ReferenceZoneOffset = 5*60*60 + 30*60
	ReferenceZoneID     = "Asia/Kolkata"

	// Reference input bounds (24-hour wall clock).
	MaxReferenceHour   = 23
	MaxReferenceMinute = 59
	ReferenceSeparator = ":"
	FormatReference    = "%02d:%02d"

	ModeLive   = "live"
	ModePinned = "pinned"
)

// -----------------------------------------------------------------------------
// Display Formats
// -----------------------------------------------------------------------------

const (
	FormatCivilTime = "%d:%02d:%02d %s"
	FormatOffset    = "UTC%s%02d:%02d"
	PeriodAM        = "AM"
	PeriodPM        = "PM"
	SignPlus        = "+"
	SignMinus       = "-"
)

// -----------------------------------------------------------------------------
// Standards: iCalendar
// -----------------------------------------------------------------------------

const (
	ICalVersion = "2.0"
	ICalProdid  = "-//World Clocks//Engine//EN"
	ICalCalName = "World Clocks"
	ICalMethod  = "PUBLISH"
	ICalScale   = "GREGORIAN"
	ICalDomain  = "worldclocks"

	PropUID         = "UID"
	PropSummary     = "SUMMARY"
	PropDescription = "DESCRIPTION"
	PropDTStart     = "DTSTART"
	PropDTStamp     = "DTSTAMP"
	PropDuration    = "DURATION"
	PropVersion     = "VERSION"
	PropProdid      = "PRODID"
	PropXWRCalName  = "X-WR-CALNAME"
	PropCalScale    = "CALSCALE"
	PropMethod      = "METHOD"

	DefaultEventDuration = 30 * time.Minute

	FormatICalSummary = "World clocks at %s " + ReferenceZoneName
	FormatICalLine    = "%s: %s"
	FormatUID         = "%s@%s"
	UIDHashLength     = 16
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	ShutdownTimeout    = 5 * time.Second
	ServerReadTimeout  = 10 * time.Second
	ServerWriteTimeout = 30 * time.Second
	ServerIdleTimeout  = 60 * time.Second
	RetryAfterSeconds  = "1"
	AddrSeparator      = ":"
	MinPort            = 1
	MaxPort            = 65535

	// Token bucket guarding the local API.
	RateLimitPerSecond = 20
	RateLimitBurst     = 40

	RouteHealth       = "/healthz"
	RouteClocks       = "/api/clocks"
	RouteClock        = "/api/clocks/{index}"
	RouteReferenceICS = "/api/reference.ics"
	URLParamIndex     = "index"
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType  = "Content-Type"
	HeaderCacheControl = "Cache-Control"
	HeaderETag         = "ETag"
	HeaderRetryAfter   = "Retry-After"
	HeaderXContentType = "X-Content-Type-Options"
	HeaderIfNoneMatch  = "If-None-Match"
	HeaderServer       = "Server"

	MimeJSON         = "application/json; charset=utf-8"
	MimeTextCalendar = "text/calendar; charset=utf-8"
	MimeTextPlain    = "text/plain; charset=utf-8"
	MimeNoSniff      = "nosniff"
	CacheControlNone = "no-cache"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
	HealthBody = "ok"
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrCatalogueLoad    = "failed to load city catalogue"
	ErrCatalogueParse   = "failed to parse city catalogue"
	ErrCatalogueEmpty   = "city catalogue is empty"
	ErrCatalogueEntry   = "city catalogue entry is missing zone or label"
	ErrCatalogueZone    = "unknown time zone"
	ErrCatalogueDup     = "duplicate time zone"
	ErrInvalidReference = "reference time must be HH:MM (24-hour)"
	ErrICalEncode       = "failed to encode iCalendar data"
	ErrJSONEncode       = "failed to encode snapshot"
	ErrServerStartup    = "server startup failed"
	ErrServerShutdown   = "server shutdown failed"
	ErrPortRequired     = "server port is required"
	ErrPortNumber       = "server port must be a number"
	ErrPortRange        = "server port must be between 1 and 65535"
	ErrLogFile          = "failed to open log file"
	ErrCacheDir         = "could not determine user cache dir"
	ErrCreateDir        = "could not create app cache dir"
	ErrAppFailed        = "application failed unexpectedly"
	ErrWriteResp        = "failed to write response body"
	ErrLocalesAccess    = "failed to access embedded locales"
	ErrLocaleLoad       = "failed to load locale file"
	ErrTrayNotSupported = "system tray not supported on this platform/driver"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgInitializing = "Clocks initializing, please try again shortly."
	HTTPMsgBadIndex     = "Clock index must be a number"
	HTTPMsgNotFound     = "Clock not found"
	HTTPMsgTooMany      = "Too Many Requests"
	HTTPMsgInternalErr  = "Internal Server Error"
)

// -----------------------------------------------------------------------------
// Fallbacks & Messages
// -----------------------------------------------------------------------------

const (
	FallbackStatusLive   = "Live time"
	FallbackStatusPinned = "Pinned at %s " + ReferenceZoneName
	FallbackTrayLabel    = "World Clocks"

	TitleStartupError = "Startup Error"

	MsgPortBusy          = "Port %s is busy or unavailable."
	MsgWorkerStart       = "Refresh worker started"
	MsgWorkerStop        = "Refresh worker stopping due to context cancellation"
	MsgUpdateInterval    = "Updating refresh interval"
	MsgTickSkipped       = "Periodic tick skipped while reference is pinned"
	MsgReferencePinned   = "Reference time pinned"
	MsgReferenceCleared  = "Reference time cleared, back to live time"
	MsgReferenceRejected = "Reference time rejected"
	MsgCatalogueLoaded   = "City catalogue loaded"
	MsgAppStop           = "Application stopped gracefully"
	MsgCtxCancel         = "Context cancelled, shutting down UI"
	MsgAppStarting       = "Starting application"
	MsgServerListen      = "HTTP server listening"
	MsgServerStop        = "Shutting down HTTP server..."
	MsgServerDisabled    = "HTTP server disabled in settings"
	MsgSnapshotUpdated   = "Snapshot cache updated"
	MsgRateLimited       = "Request rejected by rate limiter"
	MsgLocaleSkip        = "Skipping non-locale file"
	MsgLocaleBadName     = "Skipping malformed locale filename"
	MsgLocaleLoaded      = "Locale loaded successfully"
	MsgTransMissing      = "Missing translation key"
	MsgLogWarning        = "Warning: %s at %s: %v\n"

	PlaceholderReference = "HH:MM"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyPort      = "port"
	LogKeyInterval  = "interval"
	LogKeyOld       = "old"
	LogKeyNew       = "new"
	LogKeyValue     = "value"
	LogKeyCount     = "count"
	LogKeyReference = "reference"
	LogKeyPath      = "path"
	LogKeySortCol   = "sort_column"
	LogKeySortAsc   = "sort_asc"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompUI        = "ui"
	CompUISet     = "ui_settings"
	CompUITable   = "ui_table"
	CompEngine    = "engine"
	CompCatalogue = "catalogue"
	CompServer    = "server"
	CompWorker    = "worker"
	CompMain      = "main"
	CompI18n      = "i18n"
)

// -----------------------------------------------------------------------------
// UI Layout Constants
// -----------------------------------------------------------------------------

const (
	LayoutColumnsDouble = 2
)
