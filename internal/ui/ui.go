package ui

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/world-clocks/internal/config"
	"github.com/tartampluch/world-clocks/internal/engine"
	"github.com/tartampluch/world-clocks/internal/server"
)

//go:embed Icon.png
var appIconData []byte

// WorldClockApp encapsulates the UI state, preferences, and background logic.
type WorldClockApp struct {
	App         fyne.App
	MainWindow  fyne.Window
	Window      fyne.Window // settings
	Preferences fyne.Preferences
	I18nBundle  *i18n.Bundle
	Localizer   *i18n.Localizer
	Ctx         context.Context

	Server    *server.SnapshotServer
	Refresher *engine.Refresher

	Tray desktop.App
	Menu *fyne.Menu

	TrayStatusItem   *fyne.MenuItem
	TrayShowItem     *fyne.MenuItem
	TrayTableItem    *fyne.MenuItem
	TrayResetItem    *fyne.MenuItem
	TraySettingsItem *fyne.MenuItem

	// Main window widgets
	ReferenceLabel *widget.Label
	ReferenceEntry *FilteredEntry
	ResetButton    *widget.Button
	StatusLabel    *widget.Label
	HintLabel      *widget.Label
	Faces          []*ClockFace

	SupportedLanguages []string

	// Latest published snapshot, shared with the time table window
	SnapshotMut sync.RWMutex
	Snapshot    engine.Snapshot

	tableWindow  fyne.Window
	tableRefresh func()
}

// NewWorldClockApp constructs the application and wires dependencies.
// Every snapshot the refresher publishes is forwarded to the server and the UI.
func NewWorldClockApp(a fyne.App, ctx context.Context, srv *server.SnapshotServer, refresher *engine.Refresher) *WorldClockApp {
	a.SetIcon(fyne.NewStaticResource(config.IconFile, appIconData))

	app := &WorldClockApp{
		App:                a,
		Preferences:        a.Preferences(),
		Ctx:                ctx,
		Server:             srv,
		Refresher:          refresher,
		SupportedLanguages: config.SupportedLanguages,
	}

	refresher.OnRefresh = app.publish
	refresher.SetInterval(app.refreshInterval())
	return app
}

// Run launches the application services and the main UI loop.
func (app *WorldClockApp) Run() {
	app.SetupI18n()
	app.watchPreferences()
	app.startServer()

	w := app.buildMainWindow()

	if desk, ok := app.App.(desktop.App); ok {
		app.Tray = desk
		app.Tray.SetSystemTrayIcon(app.App.Icon())
		app.setupTrayMenu()
		// The tray keeps the application alive; closing only hides the clocks.
		w.SetCloseIntercept(w.Hide)
	} else {
		slog.Warn(config.ErrTrayNotSupported,
			config.LogKeyComponent, config.CompUI)
	}

	go app.Refresher.Run(app.Ctx)

	w.Show()
	app.App.Run()
}

// startServer launches the localhost API unless it is disabled in settings.
func (app *WorldClockApp) startServer() {
	if app.Server == nil {
		return
	}
	if !app.Preferences.BoolWithFallback(config.PrefServerEnabled, config.DefaultServerEnabled) {
		slog.Info(config.MsgServerDisabled, config.LogKeyComponent, config.CompUI)
		return
	}

	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyPort, app.Server.Port,
			config.LogKeyComponent, config.CompUI)

		if err := app.Server.Start(app.Ctx); err != nil {
			slog.Error(config.ErrServerStartup,
				config.LogKeyError, err,
				config.LogKeyComponent, config.CompUI)

			body := app.GetMsg(config.TKeyNotifAPIError)
			if body == config.TKeyNotifAPIError {
				body = fmt.Sprintf(config.MsgPortBusy, app.Server.Port)
			}
			app.App.SendNotification(fyne.NewNotification(config.TitleStartupError, body))
		}
	}()
}

// watchPreferences re-arms the refresh ticker whenever settings change.
func (app *WorldClockApp) watchPreferences() {
	app.Preferences.AddChangeListener(func() {
		app.Refresher.SetInterval(app.refreshInterval())
	})
}

// refreshInterval reads the periodic refresh interval from preferences.
// Values under the minimum fall back to the default.
func (app *WorldClockApp) refreshInterval() time.Duration {
	ms := app.Preferences.IntWithFallback(config.PrefRefreshMillis, config.DefaultRefreshMillis)
	if ms < config.MinRefreshMillis {
		ms = config.DefaultRefreshMillis
	}
	return time.Duration(ms) * time.Millisecond
}

// buildMainWindow creates the clocks window: the reference-time bar on top
// and the grid of faces in catalogue order.
func (app *WorldClockApp) buildMainWindow() fyne.Window {
	w := app.App.NewWindow(app.GetMsg(config.TKeyWinTitle))
	w.Resize(fyne.NewSize(config.MainWindowWidth, config.MainWindowHeight))
	w.SetContent(app.buildMainContent())
	app.MainWindow = w
	return w
}

func (app *WorldClockApp) buildMainContent() fyne.CanvasObject {
	app.ReferenceLabel = widget.NewLabel(app.GetMsg(config.TKeyLblReference))

	app.ReferenceEntry = NewTimeEntry()
	app.ReferenceEntry.SetPlaceHolder(config.PlaceholderReference)
	app.ReferenceEntry.Validator = app.validateReference
	app.ReferenceEntry.OnChanged = app.onReferenceChanged

	app.ResetButton = widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnReset), theme.ViewRefreshIcon(), app.resetReference)
	app.ResetButton.Disable()

	app.StatusLabel = widget.NewLabel(app.statusText(engine.Snapshot{}))
	app.StatusLabel.TextStyle = fyne.TextStyle{Bold: true}

	app.HintLabel = widget.NewLabel(app.GetMsg(config.TKeyHintReference))
	app.HintLabel.TextStyle = fyne.TextStyle{Italic: true}
	app.HintLabel.Wrapping = fyne.TextWrapWord

	entryBox := container.NewGridWrap(
		fyne.NewSize(config.ReferenceEntryWidth, app.ReferenceEntry.MinSize().Height),
		app.ReferenceEntry)
	toolbar := container.NewHBox(app.ReferenceLabel, entryBox, app.ResetButton, layout.NewSpacer(), app.StatusLabel)

	app.Faces = make([]*ClockFace, len(app.Refresher.Cities))
	cells := make([]fyne.CanvasObject, len(app.Refresher.Cities))
	for i, city := range app.Refresher.Cities {
		app.Faces[i] = NewClockFace(city.Label)
		cells[i] = app.Faces[i]
	}
	grid := container.NewGridWrap(fyne.NewSize(config.ClockCellWidth, config.ClockCellHeight), cells...)

	header := container.NewVBox(toolbar, app.HintLabel, widget.NewSeparator())
	return container.NewBorder(header, nil, nil, nil, container.NewVScroll(grid))
}

// validateReference accepts an empty field (live time) or a valid HH:MM.
func (app *WorldClockApp) validateReference(text string) error {
	if text == "" {
		return nil
	}
	if _, _, err := engine.ParseReference(text); err != nil {
		return errors.New(app.GetMsg(config.TKeyErrTimeFormat))
	}
	return nil
}

// onReferenceChanged pins the clocks on a valid HH:MM and returns to live
// time when the field is cleared. Partial input leaves the clocks as they are.
func (app *WorldClockApp) onReferenceChanged(text string) {
	if text == "" {
		app.ResetButton.Disable()
	} else {
		app.ResetButton.Enable()
	}

	// Invalid text is flagged by the entry validator and keeps the current mode.
	_, _ = app.Refresher.ApplyInput(text)
}

// resetReference clears the field and returns every clock to live time.
func (app *WorldClockApp) resetReference() {
	if app.ReferenceEntry != nil {
		app.ReferenceEntry.SetText("")
	}
	if app.ResetButton != nil {
		app.ResetButton.Disable()
	}
	// Clearing the field already resets through OnChanged.
	if app.Refresher.Mode() == engine.ModePinned {
		app.Refresher.Reset()
	}
}

// publish receives every snapshot from the refresher. It may run on the
// worker goroutine, so widget updates are handed to the Fyne goroutine.
func (app *WorldClockApp) publish(snap engine.Snapshot) {
	app.SnapshotMut.Lock()
	app.Snapshot = snap
	app.SnapshotMut.Unlock()

	if app.Server != nil {
		app.Server.Update(snap)
	}

	fyne.Do(func() {
		app.applySnapshot(snap)
	})
}

// applySnapshot moves the hands and updates status labels.
func (app *WorldClockApp) applySnapshot(snap engine.Snapshot) {
	for _, rd := range snap.Readings {
		if rd.Index < 0 || rd.Index >= len(app.Faces) {
			continue
		}
		face := app.Faces[rd.Index]
		face.SetAngles(rd.Hands)
		face.SetCaption(rd.Time.String())
	}

	status := app.statusText(snap)
	if app.StatusLabel != nil {
		app.StatusLabel.SetText(status)
	}
	app.updateTrayStatus(status, snap.Mode)

	if app.tableRefresh != nil {
		app.tableRefresh()
	}
}

// latestSnapshot returns a copy of the last published snapshot.
func (app *WorldClockApp) latestSnapshot() engine.Snapshot {
	app.SnapshotMut.RLock()
	defer app.SnapshotMut.RUnlock()

	snap := app.Snapshot
	snap.Readings = append([]engine.Reading(nil), app.Snapshot.Readings...)
	return snap
}

// setupTrayMenu constructs the system tray menu.
func (app *WorldClockApp) setupTrayMenu() {
	// The status item doubles as a shortcut to the clocks window.
	app.TrayStatusItem = fyne.NewMenuItem(config.FallbackTrayLabel, app.showMainWindow)

	app.TrayShowItem = fyne.NewMenuItem(app.GetMsg(config.TKeyMenuShow), app.showMainWindow)
	app.TrayTableItem = fyne.NewMenuItem(app.GetMsg(config.TKeyMenuTable), func() {
		app.ShowTableWindow()
	})
	app.TrayResetItem = fyne.NewMenuItem(app.GetMsg(config.TKeyMenuReset), app.resetReference)
	app.TrayResetItem.Disabled = true
	app.TraySettingsItem = fyne.NewMenuItem(app.GetMsg(config.TKeyMenuSettings), func() {
		app.ShowSettingsWindow()
	})

	app.Menu = fyne.NewMenu(config.AppName,
		app.TrayStatusItem,
		fyne.NewMenuItemSeparator(),
		app.TrayShowItem,
		app.TrayTableItem,
		app.TrayResetItem,
		app.TraySettingsItem,
	)

	if app.Tray != nil {
		app.Tray.SetSystemTrayMenu(app.Menu)
	}
}

func (app *WorldClockApp) showMainWindow() {
	if app.MainWindow == nil {
		return
	}
	app.MainWindow.Show()
	app.MainWindow.RequestFocus()
}

// RefreshLabels re-applies translations after a language change.
func (app *WorldClockApp) RefreshLabels() {
	if app.MainWindow != nil {
		app.MainWindow.SetTitle(app.GetMsg(config.TKeyWinTitle))
	}
	if app.ReferenceLabel != nil {
		app.ReferenceLabel.SetText(app.GetMsg(config.TKeyLblReference))
		app.HintLabel.SetText(app.GetMsg(config.TKeyHintReference))
		app.ResetButton.SetText(app.GetMsg(config.TKeyBtnReset))
	}
	app.RefreshTrayMenu()
	app.applySnapshot(app.latestSnapshot())
}

// RefreshTrayMenu updates localized labels in the tray menu.
func (app *WorldClockApp) RefreshTrayMenu() {
	if app.Menu == nil {
		return
	}
	app.TrayShowItem.Label = app.GetMsg(config.TKeyMenuShow)
	app.TrayTableItem.Label = app.GetMsg(config.TKeyMenuTable)
	app.TrayResetItem.Label = app.GetMsg(config.TKeyMenuReset)
	app.TraySettingsItem.Label = app.GetMsg(config.TKeyMenuSettings)
	app.Menu.Refresh()
}

// updateTrayStatus mirrors the status label in the tray menu.
func (app *WorldClockApp) updateTrayStatus(status string, mode engine.Mode) {
	if app.Menu == nil || app.TrayStatusItem == nil {
		return
	}
	disabled := mode != engine.ModePinned
	if app.TrayStatusItem.Label == status && app.TrayResetItem.Disabled == disabled {
		return
	}
	app.TrayStatusItem.Label = status
	app.TrayResetItem.Disabled = disabled
	app.Menu.Refresh()
}
