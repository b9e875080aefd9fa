package ui

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/world-clocks/internal/config"
)

// settingsWidgets holds references to UI elements to simplify data retrieval during save.
type settingsWidgets struct {
	langSelect    *widget.Select
	entryInterval *FilteredEntry
	checkServer   *widget.Check
	entryPort     *FilteredEntry
}

// ShowSettingsWindow displays the configuration dialog allowing users to manage settings.
func (app *WorldClockApp) ShowSettingsWindow() {
	if app.Window != nil {
		slog.Debug("Settings window already open, requesting focus", config.LogKeyComponent, config.CompUISet)
		app.Window.RequestFocus()
		return
	}

	slog.Info("Opening settings window", config.LogKeyComponent, config.CompUISet)
	w := app.App.NewWindow(app.GetMsg(config.TKeyWinSettings))
	app.Window = w

	sw := app.newSettingsWidgets()

	// --- General Section (Language & Interval) ---
	itemLang := widget.NewFormItem(app.GetMsg(config.TKeyLblLanguage), sw.langSelect)
	itemLang.HintText = app.GetMsg(config.TKeyHelpLanguage)

	widInterval := container.NewBorder(nil, nil, nil, widget.NewLabel(app.GetMsg(config.TKeyLblMillis)), sw.entryInterval)
	itemInterval := widget.NewFormItem(app.GetMsg(config.TKeyLblRefresh), widInterval)
	itemInterval.HintText = app.GetMsg(config.TKeyHelpInterval)

	generalCard := widget.NewCard(app.GetMsg(config.TKeyLblGeneral), "", widget.NewForm(itemLang, itemInterval))

	// --- API Section ---
	itemPort := widget.NewFormItem(app.GetMsg(config.TKeyLblPort), sw.entryPort)
	itemPort.HintText = app.GetMsg(config.TKeyHelpPort)

	sw.checkServer.OnChanged = func(enabled bool) {
		if enabled {
			sw.entryPort.Enable()
		} else {
			sw.entryPort.Disable()
		}
	}
	sw.checkServer.OnChanged(sw.checkServer.Checked)

	apiCard := widget.NewCard(app.GetMsg(config.TKeyLblAPI), "",
		container.NewVBox(sw.checkServer, widget.NewForm(itemPort)))

	// --- Actions ---
	saveAction := func() {
		if err := sw.validate(); err != nil {
			dialog.ShowError(err, w)
			return
		}
		app.saveSettings(sw)
		w.Close()
	}

	btnSave := widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnSave), theme.DocumentSaveIcon(), saveAction)
	btnSave.Importance = widget.HighImportance
	btnCancel := widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnCancel), theme.CancelIcon(), func() { w.Close() })

	// --- Footer ---
	footerLabel := widget.NewLabel(fmt.Sprintf(app.GetMsg(config.TKeyLblFooter), config.Version))
	footerLabel.Alignment = fyne.TextAlignCenter
	footerLabel.TextStyle = fyne.TextStyle{Italic: true}

	content := container.NewPadded(container.NewVBox(
		generalCard,
		apiCard,
		container.NewGridWithColumns(config.LayoutColumnsDouble, btnCancel, btnSave),
		footerLabel,
	))

	w.SetContent(content)
	w.Resize(fyne.NewSize(config.SettingsWindowWidth, content.MinSize().Height))
	w.SetFixedSize(true)
	w.SetOnClosed(func() { app.Window = nil })
	w.Show()
}

// newSettingsWidgets builds the form inputs pre-filled from preferences.
func (app *WorldClockApp) newSettingsWidgets() *settingsWidgets {
	sw := &settingsWidgets{}

	sw.langSelect = widget.NewSelect(app.SupportedLanguages, nil)
	sw.langSelect.SetSelected(app.Preferences.StringWithFallback(config.PrefLanguage, config.DefaultLanguage))

	// Interval: numerical only, with a lower bound so the clocks cannot spin the CPU.
	sw.entryInterval = NewNumericalEntry()
	sw.entryInterval.SetText(strconv.Itoa(app.Preferences.IntWithFallback(config.PrefRefreshMillis, config.DefaultRefreshMillis)))
	sw.entryInterval.Validator = func(s string) error {
		ms, err := strconv.Atoi(s)
		if err != nil || ms < config.MinRefreshMillis {
			return errors.New(app.GetMsg(config.TKeyErrIntervalMin))
		}
		return nil
	}

	sw.checkServer = widget.NewCheck(app.GetMsg(config.TKeyLblServer), nil)
	sw.checkServer.Checked = app.Preferences.BoolWithFallback(config.PrefServerEnabled, config.DefaultServerEnabled)

	// Port: numerical only, but requires strict validation (range 1-65535).
	sw.entryPort = NewNumericalEntry()
	sw.entryPort.SetText(app.Preferences.StringWithFallback(config.PrefServerPort, config.DefaultPort))
	sw.entryPort.Validator = func(s string) error {
		if s == "" {
			return errors.New(app.GetMsg(config.TKeyErrPortReq))
		}
		port, err := strconv.Atoi(s)
		if err != nil {
			return errors.New(app.GetMsg(config.TKeyErrPortNum))
		}
		if port < config.MinPort || port > config.MaxPort {
			return errors.New(app.GetMsg(config.TKeyErrPortRange))
		}
		return nil
	}

	return sw
}

// validate blocks saving on a bad interval, and on a bad port while the API is enabled.
func (sw *settingsWidgets) validate() error {
	if err := sw.entryInterval.Validate(); err != nil {
		return err
	}
	if sw.checkServer.Checked {
		return sw.entryPort.Validate()
	}
	return nil
}

// saveSettings persists the data and applies what can change at runtime.
// The interval reaches the refresher through the preference listener; the
// port and server toggle apply on next start.
func (app *WorldClockApp) saveSettings(sw *settingsWidgets) {
	slog.Info("Saving preferences", config.LogKeyComponent, config.CompUISet)

	app.Preferences.SetString(config.PrefLanguage, sw.langSelect.Selected)
	app.Preferences.SetBool(config.PrefServerEnabled, sw.checkServer.Checked)

	if ms, err := strconv.Atoi(sw.entryInterval.Text); err == nil && ms >= config.MinRefreshMillis {
		app.Preferences.SetInt(config.PrefRefreshMillis, ms)
	}

	if sw.entryPort.Validate() == nil {
		app.Preferences.SetString(config.PrefServerPort, sw.entryPort.Text)
	}

	app.UpdateLocalizer()
	app.RefreshLabels()
}
