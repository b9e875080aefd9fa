package ui

import (
	"log/slog"
	"sort"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/world-clocks/internal/config"
	"github.com/tartampluch/world-clocks/internal/engine"
)

const tableColumns = 3

// ShowTableWindow displays every city's digital time and UTC offset.
// It implements a singleton pattern: if the window is already open, it requests focus.
// Rows follow the live snapshots while the window is open.
func (app *WorldClockApp) ShowTableWindow() {
	if app.tableWindow != nil {
		app.tableWindow.RequestFocus()
		return
	}

	app.tableWindow = app.App.NewWindow(app.GetMsg(config.TKeyWinTable))
	app.tableWindow.Resize(fyne.NewSize(config.TableWinWidth, config.TableWinHeight))

	rows := app.latestSnapshot().Readings

	slog.Info(config.LogMsgOpenWin,
		config.LogKeyComponent, config.CompUITable,
		config.LogKeyCount, len(rows))

	// Catalogue order reads east to west, so offset is the natural default.
	currentSortCol := config.ColIDOffset
	sortAsc := true

	performSort := func() {
		sortReadings(rows, currentSortCol, sortAsc)
		slog.Debug(config.LogMsgSorted,
			config.LogKeyComponent, config.CompUITable,
			config.LogKeySortCol, currentSortCol,
			config.LogKeySortAsc, sortAsc)
	}
	performSort()

	table := widget.NewTable(
		func() (int, int) {
			return len(rows), tableColumns
		},
		func() fyne.CanvasObject {
			return widget.NewLabel(config.TablePlaceholder)
		},
		func(id widget.TableCellID, o fyne.CanvasObject) {
			label := o.(*widget.Label)
			if id.Row >= len(rows) {
				return
			}
			label.SetText(cellText(rows[id.Row], id.Col))
		},
	)

	table.ShowHeaderRow = true
	table.CreateHeader = func() fyne.CanvasObject {
		return widget.NewButton("Header", func() {})
	}

	var refreshTable func()

	// UpdateHeader sets the localized title and visual sort indicator.
	table.UpdateHeader = func(id widget.TableCellID, o fyne.CanvasObject) {
		btn := o.(*widget.Button)

		text := app.GetMsg(headerKey(id.Col))
		if id.Col == currentSortCol {
			if sortAsc {
				text += config.SortIconAsc
			} else {
				text += config.SortIconDesc
			}
		}
		btn.SetText(text)

		btn.OnTapped = func() {
			if currentSortCol == id.Col {
				sortAsc = !sortAsc
			} else {
				currentSortCol = id.Col
				sortAsc = true
			}
			refreshTable()
		}
	}

	table.SetColumnWidth(config.ColIDCity, config.ColWidthCity)
	table.SetColumnWidth(config.ColIDTime, config.ColWidthTime)
	table.SetColumnWidth(config.ColIDOffset, config.ColWidthOffset)

	refreshTable = func() {
		performSort()
		table.Refresh()
	}

	// Called from applySnapshot on the Fyne goroutine.
	app.tableRefresh = func() {
		rows = app.latestSnapshot().Readings
		refreshTable()
	}

	app.tableWindow.SetContent(container.NewBorder(nil, nil, nil, nil, table))
	app.tableWindow.SetOnClosed(func() {
		app.tableWindow = nil
		app.tableRefresh = nil
	})

	app.tableWindow.Show()
}

func headerKey(col int) string {
	switch col {
	case config.ColIDCity:
		return config.TKeyColCity
	case config.ColIDTime:
		return config.TKeyColTime
	default:
		return config.TKeyColOffset
	}
}

func cellText(rd engine.Reading, col int) string {
	switch col {
	case config.ColIDCity:
		return rd.City.Label
	case config.ColIDTime:
		return rd.Time.String()
	default:
		return rd.Time.OffsetString()
	}
}

// sortReadings orders rows by the given column. Ties keep catalogue order.
func sortReadings(rows []engine.Reading, col int, asc bool) {
	sort.SliceStable(rows, func(i, j int) bool {
		tie := rows[i].Index < rows[j].Index
		a, b := rows[i], rows[j]
		if !asc {
			a, b = b, a
		}

		switch col {
		case config.ColIDCity:
			la, lb := strings.ToLower(a.City.Label), strings.ToLower(b.City.Label)
			if la != lb {
				return la < lb
			}
		case config.ColIDTime:
			if sa, sb := secondOfDay(a.Time), secondOfDay(b.Time); sa != sb {
				return sa < sb
			}
		default:
			if a.Time.Offset != b.Time.Offset {
				return a.Time.Offset < b.Time.Offset
			}
		}
		return tie
	})
}

func secondOfDay(c engine.CivilTime) int {
	return c.Hour24()*3600 + c.Minute*60 + c.Second
}
