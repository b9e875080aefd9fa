package ui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/world-clocks/internal/config"
)

func TestSettingsWidgets_Defaults(t *testing.T) {
	app, _, _ := setupTestApp(t)

	sw := app.newSettingsWidgets()

	assert.Equal(t, config.DefaultLanguage, sw.langSelect.Selected)
	assert.Equal(t, "1000", sw.entryInterval.Text)
	assert.Equal(t, config.DefaultPort, sw.entryPort.Text)
	assert.Equal(t, config.DefaultServerEnabled, sw.checkServer.Checked)
	assert.NoError(t, sw.validate())
}

func TestSettingsWidgets_Validation(t *testing.T) {
	app, _, _ := setupTestApp(t)
	app.Preferences.SetString(config.PrefLanguage, "en")
	app.UpdateLocalizer()

	sw := app.newSettingsWidgets()

	sw.entryInterval.SetText("50")
	err := sw.validate()
	require.Error(t, err)
	assert.Equal(t, "Interval must be at least 100 ms", err.Error())

	sw.entryInterval.SetText("250")
	sw.entryPort.SetText("70000")
	err = sw.validate()
	require.Error(t, err)
	assert.Equal(t, "Port must be between 1 and 65535", err.Error())

	sw.entryPort.SetText("")
	assert.EqualError(t, sw.validate(), "Port is required")

	// A disabled API does not block saving on its port.
	sw.checkServer.SetChecked(false)
	assert.NoError(t, sw.validate())
}

func TestSaveSettings_PersistsAndApplies(t *testing.T) {
	app, _, _ := setupTestApp(t)
	app.watchPreferences()

	sw := app.newSettingsWidgets()
	sw.langSelect.SetSelected("fr")
	sw.entryInterval.SetText("250")
	sw.checkServer.SetChecked(false)
	sw.entryPort.SetText("19000")

	app.saveSettings(sw)

	assert.Equal(t, "fr", app.Preferences.String(config.PrefLanguage))
	assert.Equal(t, 250, app.Preferences.Int(config.PrefRefreshMillis))
	assert.False(t, app.Preferences.BoolWithFallback(config.PrefServerEnabled, true))
	assert.Equal(t, "19000", app.Preferences.String(config.PrefServerPort))
	assert.Equal(t, "Paramètres...", app.GetMsg(config.TKeyMenuSettings))

	assert.Eventually(t, func() bool {
		return app.Refresher.Interval() == 250*time.Millisecond
	}, time.Second, 10*time.Millisecond)
}

func TestShowSettingsWindow_Singleton(t *testing.T) {
	app, _, _ := setupTestApp(t)

	app.ShowSettingsWindow()
	require.NotNil(t, app.Window)

	first := app.Window
	app.ShowSettingsWindow()
	assert.Same(t, first, app.Window)

	app.Window.Close()
	assert.Nil(t, app.Window)
}
