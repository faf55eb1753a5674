package colab

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/entrhq/clay/pkg/google"
	"github.com/entrhq/clay/pkg/logging"
	"github.com/playwright-community/playwright-go"
)

// Notebook is one notebook open in a signed-in browser.
type Notebook struct {
	driver *google.Driver
	opts   Options
	url    string
	log    *logging.Logger
}

// New opens url (the base URL when empty) in the driver's page and waits
// for the notebook to load.
func New(driver *google.Driver, url string, opts Options) (*Notebook, error) {
	if driver == nil {
		return nil, fmt.Errorf("browser driver is required")
	}
	opts.setDefaults()

	n := &Notebook{
		driver: driver,
		opts:   opts,
		log:    opts.Logger,
	}
	if url == "" {
		url = opts.BaseURL
	}
	if err := n.Open(url); err != nil {
		return nil, err
	}
	return n, nil
}

func (n *Notebook) page() playwright.Page {
	return n.driver.Page()
}

// URL returns the URL last opened.
func (n *Notebook) URL() string {
	return n.url
}

// Open navigates to url and waits until the notebook has loaded.
func (n *Notebook) Open(url string) error {
	n.url = url
	n.log.Infof("opening %s", url)
	if _, err := n.page().Goto(url); err != nil {
		return fmt.Errorf("failed to open %s: %w", url, err)
	}
	return n.waitLoaded()
}

// Create makes a new notebook and returns its name.
func (n *Notebook) Create() (string, error) {
	url := strings.TrimSuffix(n.opts.BaseURL, "/") + "/" + createSuffix
	n.log.Infof("creating notebook")
	if _, err := n.page().Goto(url); err != nil {
		return "", fmt.Errorf("failed to open %s: %w", url, err)
	}
	if err := n.waitLoaded(); err != nil {
		return "", err
	}
	n.url = n.page().URL()
	return n.Name()
}

// Reconnect restarts the browser and reopens the current notebook.
func (n *Notebook) Reconnect() error {
	n.log.Warnf("reconnecting to %s", n.url)
	if err := n.driver.Recreate(); err != nil {
		return fmt.Errorf("failed to recreate browser: %w", err)
	}
	return n.Open(n.url)
}

// waitLoaded waits for the notebook name field. On timeout the error lists
// the element ids present on the page.
func (n *Notebook) waitLoaded() error {
	err := n.page().Locator(selDocName).WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateAttached,
		Timeout: playwright.Float(milliseconds(n.opts.LoadTimeout)),
	})
	if err == nil {
		return nil
	}
	if !errors.Is(err, playwright.ErrTimeout) {
		return fmt.Errorf("failed waiting for notebook: %w", err)
	}

	ids, idsErr := google.PageElementIDs(n.page())
	if idsErr != nil {
		n.log.Warnf("listing element ids: %v", idsErr)
	}
	return &google.ElementIDsError{URL: n.url, Expected: []string{selDocName}, IDs: ids, Err: err}
}

// Name returns the notebook's name.
func (n *Notebook) Name() (string, error) {
	name, err := n.page().Locator(selDocName).InputValue()
	if err != nil {
		return "", fmt.Errorf("failed to read notebook name: %w", err)
	}
	return name, nil
}

// SetName renames the notebook and returns the name the page shows after.
func (n *Notebook) SetName(name string) (string, error) {
	field := n.page().Locator(selDocName)
	if err := field.Clear(); err != nil {
		return "", fmt.Errorf("failed to clear notebook name: %w", err)
	}
	if err := field.PressSequentially(name); err != nil {
		return "", fmt.Errorf("failed to type notebook name: %w", err)
	}
	if err := field.Press(keyEnter); err != nil {
		return "", fmt.Errorf("failed to submit notebook name: %w", err)
	}
	return n.Name()
}

// Cells returns every cell in document order.
func (n *Notebook) Cells() ([]*Cell, error) {
	all, err := n.page().Locator(selCell).All()
	if err != nil {
		return nil, fmt.Errorf("failed to list cells: %w", err)
	}

	cells := make([]*Cell, 0, len(all))
	for i, loc := range all {
		cells = append(cells, &Cell{notebook: n, loc: loc, index: i})
	}
	return cells, nil
}

// Cell returns the cell at index. Negative indexes count from the end.
func (n *Notebook) Cell(index int) (*Cell, error) {
	cells, err := n.Cells()
	if err != nil {
		return nil, err
	}
	if index < 0 {
		index += len(cells)
	}
	if index < 0 || index >= len(cells) {
		return nil, fmt.Errorf("%w: %d (notebook has %d cells)", ErrNoCell, index, len(cells))
	}
	return cells[index], nil
}

// InsertCellBelow adds a code cell below the focused cell and returns the
// new cell's index, found by comparing the cells before and after.
func (n *Notebook) InsertCellBelow(ctx context.Context) (int, error) {
	page := n.page()
	if _, err := page.Evaluate(markCellsJS, selCell); err != nil {
		return 0, fmt.Errorf("failed to list cells: %w", err)
	}
	if err := page.Locator(selAddCode).Click(); err != nil {
		return 0, fmt.Errorf("failed to insert cell: %w", err)
	}

	index := -1
	err := waitUntil(ctx, n.opts.LoadTimeout, n.opts.PollInterval, func() (bool, error) {
		v, err := page.Evaluate(newCellIndexJS, selCell)
		if err != nil {
			return false, err
		}
		index = jsInt(v)
		return index >= 0, nil
	})
	if err != nil {
		return 0, fmt.Errorf("inserted cell did not appear: %w", err)
	}
	n.log.Debugf("inserted cell %d", index)
	return index, nil
}

// Restart restarts the notebook runtime, confirming the dialog if one opens.
func (n *Notebook) Restart(ctx context.Context) error {
	n.log.Infof("restarting runtime")
	page := n.page()
	if err := page.Locator(selRuntimeMenuButton).Click(); err != nil {
		return fmt.Errorf("failed to open runtime menu: %w", err)
	}
	if err := page.Locator(selRuntimeMenu).Locator(selRestartCommand).First().Click(); err != nil {
		return fmt.Errorf("failed to click restart: %w", err)
	}
	return n.closeDialogIfOpen(ctx)
}

// ShowOpenDialog opens the "open notebook" dialog from the file menu.
func (n *Notebook) ShowOpenDialog() error {
	page := n.page()
	if err := page.Locator(selFileMenuButton).Click(); err != nil {
		return fmt.Errorf("failed to open file menu: %w", err)
	}
	if err := page.Locator(selFileMenu).Locator(selOpenCommand).First().Click(); err != nil {
		return fmt.Errorf("failed to click open: %w", err)
	}
	return nil
}

// DismissOpenDialog closes the "open notebook" dialog.
func (n *Notebook) DismissOpenDialog() error {
	if err := n.page().Locator(selDismiss).First().Click(); err != nil {
		return fmt.Errorf("failed to dismiss dialog: %w", err)
	}
	return nil
}
