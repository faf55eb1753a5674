package colab

import (
	"context"
	"fmt"

	"github.com/playwright-community/playwright-go"
)

// Cell is one notebook cell. It reads the live DOM on every call.
type Cell struct {
	notebook *Notebook
	loc      playwright.Locator
	index    int
}

// Index returns the cell's position when it was listed.
func (c *Cell) Index() int {
	return c.index
}

// Text returns the cell's source. Code cells expose it through their
// textarea; other cells through their rendered main content.
func (c *Cell) Text() (string, error) {
	textarea := c.loc.Locator(selTextarea)
	if ok, err := exists(textarea); err != nil {
		return "", err
	} else if ok {
		return textarea.First().InputValue()
	}
	return c.loc.Locator(selMainContent).First().InnerText()
}

// SetText replaces the cell's source with text and returns what the editor
// holds afterwards.
func (c *Cell) SetText(ctx context.Context, text string) (string, error) {
	log := c.notebook.log.With("cell", c.index)

	editorEl := c.loc.Locator(selEditor).First()
	if err := editorEl.Click(); err != nil {
		return "", fmt.Errorf("failed to focus editor: %w", err)
	}

	// erase existing content
	textarea := c.loc.Locator(selTextarea).First()
	if err := c.notebook.page().Keyboard().Press("ControlOrMeta+a"); err != nil {
		return "", fmt.Errorf("failed to select cell text: %w", err)
	}
	if err := textarea.Press(keyDelete); err != nil {
		return "", fmt.Errorf("failed to clear cell text: %w", err)
	}
	if err := editorEl.Click(); err != nil {
		return "", fmt.Errorf("failed to focus editor: %w", err)
	}

	log.Debugf("typing %d characters", len(text))
	got, err := typeText(ctx, &cellEditor{cell: c, textarea: textarea}, text)
	if err != nil {
		log.Errorf("typing failed: %v", err)
		return "", err
	}
	return got, nil
}

// Focus selects the cell. New cells are inserted below the focused one.
func (c *Cell) Focus() error {
	if err := c.loc.Click(); err != nil {
		return fmt.Errorf("failed to select cell: %w", err)
	}
	return nil
}

// Run starts the cell. A message dialog that opens in response is closed.
func (c *Cell) Run(ctx context.Context) error {
	c.notebook.log.Infof("running cell %d", c.index)
	if err := c.Focus(); err != nil {
		return err
	}
	button := c.loc.Locator(selRunButton).First().Locator(selRunExecution).First()
	if err := button.Click(); err != nil {
		return fmt.Errorf("failed to click run: %w", err)
	}
	return c.notebook.closeDialogIfOpen(ctx)
}

// IsRunComplete reports whether the run button shows its status marker.
func (c *Cell) IsRunComplete() (bool, error) {
	return exists(c.loc.Locator(selRunButton).First().Locator(selRunStatus))
}

// outputTargets returns the elements holding the rendered output, best
// first: the body of an output iframe, a static renderer, the output itself.
func (c *Cell) outputTargets() ([]playwright.Locator, error) {
	output := c.loc.Locator(selOutput)
	if ok, err := exists(output); err != nil || !ok {
		return nil, err
	}
	output = output.First()

	var targets []playwright.Locator
	if ok, err := exists(output.Locator(selOutputFrame)); err != nil {
		return nil, err
	} else if ok {
		targets = append(targets, output.FrameLocator(selOutputFrame).First().Locator(selOutputBody))
	}

	fallback := output
	renderer := output.Locator(selStaticRenderer)
	if ok, err := exists(renderer); err != nil {
		return nil, err
	} else if ok {
		fallback = renderer.First()
	}
	return append(targets, fallback), nil
}

// readOutput applies read to the best output target. The output iframe can
// disappear while it is read; the next target is used then.
func (c *Cell) readOutput(read func(playwright.Locator) (string, error)) (string, bool, error) {
	targets, err := c.outputTargets()
	if err != nil {
		return "", false, fmt.Errorf("failed to locate output: %w", err)
	}
	if len(targets) == 0 {
		return "", false, nil
	}

	for i, target := range targets {
		value, err := read(target)
		if err == nil {
			return value, true, nil
		}
		if i == len(targets)-1 {
			return "", false, fmt.Errorf("failed to read output: %w", err)
		}
		c.notebook.log.Debugf("output target vanished, falling back: %v", err)
	}
	return "", false, nil
}

// Output returns the cell's rendered output text. A cell without an output
// area has empty output.
func (c *Cell) Output() (string, error) {
	text, _, err := c.readOutput(quickText)
	return text, err
}

// Images returns the absolute URL of every image in the cell's output.
func (c *Cell) Images() ([]string, error) {
	var base string
	fragment, ok, err := c.readOutput(func(loc playwright.Locator) (string, error) {
		timeout := playwright.Float(milliseconds(quickReadTimeout))
		v, err := loc.Evaluate(documentBaseJS, nil, playwright.LocatorEvaluateOptions{Timeout: timeout})
		if err != nil {
			return "", err
		}
		base, _ = v.(string)
		return loc.InnerHTML(playwright.LocatorInnerHTMLOptions{Timeout: timeout})
	})
	if err != nil || !ok {
		return nil, err
	}
	return imageSources(fragment, base)
}

// Stream reports the output of a running cell as it appears. fn receives
// the full output first and then each addition, until the run completes.
func (c *Cell) Stream(ctx context.Context, fn func(chunk string) error) error {
	return streamOutput(ctx, &cellView{pageDialogs: pageDialogs{c.notebook}, cell: c}, c.notebook.opts.PollInterval, c.notebook.opts.OutputTimeout, fn)
}

// Fields returns the form widgets in the cell.
func (c *Cell) Fields() ([]Field, error) {
	all, err := c.loc.Locator(selFields).All()
	if err != nil {
		return nil, fmt.Errorf("failed to list fields: %w", err)
	}

	fields := make([]Field, 0, len(all))
	for _, loc := range all {
		f, err := newField(c, loc)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return fields, nil
}

// String returns the source followed by the output.
func (c *Cell) String() string {
	text, err := c.Text()
	if err != nil {
		return fmt.Sprintf("<cell %d: %v>", c.index, err)
	}
	output, err := c.Output()
	if err != nil {
		return text
	}
	return text + "\n" + output
}

// cellEditor types into a cell's editor through its textarea.
type cellEditor struct {
	cell     *Cell
	textarea playwright.Locator
}

func (e *cellEditor) text() (string, error) {
	return e.cell.Text()
}

func (e *cellEditor) press(key string) error {
	return e.textarea.Press(key)
}

func (e *cellEditor) typeRune(r rune) error {
	switch r {
	case '\n':
		return e.textarea.Press(keyEnter)
	case '\t':
		return e.textarea.Press(keyTab)
	default:
		return e.textarea.PressSequentially(string(r))
	}
}

// cellView adapts a cell and its notebook for the output stream.
type cellView struct {
	pageDialogs
	cell *Cell
}

func (v *cellView) output() (string, error) {
	return v.cell.Output()
}

func (v *cellView) runComplete() (bool, error) {
	return v.cell.IsRunComplete()
}
