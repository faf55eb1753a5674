package colab

import (
	"context"
	"fmt"

	"github.com/entrhq/clay/pkg/logging"
	"github.com/playwright-community/playwright-go"
)

// DialogMessage returns the text of the open dialog. ok is false when no
// dialog is open or its text cannot be read (it may be closing).
func (n *Notebook) DialogMessage() (msg string, ok bool, err error) {
	dialog := n.page().Locator(selDialog)
	open, err := exists(dialog)
	if err != nil || !open {
		return "", false, err
	}

	text, err := quickText(dialog.First().Locator(selDialogText).First())
	if err != nil {
		n.log.Debugf("reading dialog text: %v", err)
		return "", false, nil
	}
	return text, true, nil
}

// CloseDialog waits for the dialog's buttons to become enabled, clicks OK
// (or dismiss when there is no OK button) and waits for the dialog to go.
func (n *Notebook) CloseDialog(ctx context.Context) error {
	dialog := n.page().Locator(selDialog)
	open, err := exists(dialog)
	if err != nil {
		return err
	}
	if !open {
		return ErrNoDialog
	}
	dialog = dialog.First()

	err = waitUntil(ctx, n.opts.DialogTimeout, n.opts.PollInterval, func() (bool, error) {
		return enabled(dialog.Locator(selDialogButton))
	})
	if err != nil {
		return fmt.Errorf("dialog buttons never became enabled: %w", err)
	}

	button := dialog.Locator(selDialogOK)
	if ok, _ := exists(button); !ok {
		button = dialog.Locator(selDismiss)
	}
	if err := button.First().Click(); err != nil {
		return fmt.Errorf("failed to close dialog: %w", err)
	}

	err = waitUntil(ctx, n.opts.DialogTimeout, n.opts.PollInterval, func() (bool, error) {
		_, open, err := n.DialogMessage()
		return !open, err
	})
	if err != nil {
		return fmt.Errorf("dialog did not close: %w", err)
	}
	return nil
}

// dialogs reads and closes the dialog open on a page.
type dialogs interface {
	// dialogMessage returns the text of an open dialog, ok=false when none
	dialogMessage() (string, bool, error)
	closeDialog(ctx context.Context) error
}

type pageDialogs struct {
	notebook *Notebook
}

func (d pageDialogs) dialogMessage() (string, bool, error) {
	return d.notebook.DialogMessage()
}

func (d pageDialogs) closeDialog(ctx context.Context) error {
	return d.notebook.CloseDialog(ctx)
}

func (n *Notebook) closeDialogIfOpen(ctx context.Context) error {
	return closeMessageDialog(ctx, pageDialogs{n}, n.log)
}

// closeMessageDialog closes an open dialog that shows a message. A dialog
// without text is left open.
func closeMessageDialog(ctx context.Context, d dialogs, log *logging.Logger) error {
	msg, open, err := d.dialogMessage()
	if err != nil || !open || msg == "" {
		return err
	}
	log.Infof("closing dialog: %s", msg)
	return d.closeDialog(ctx)
}

// enabled reports whether the first match exists and is not aria-disabled.
func enabled(loc playwright.Locator) (bool, error) {
	ok, err := exists(loc)
	if err != nil || !ok {
		return false, err
	}
	v, err := loc.First().GetAttribute(attrAriaDisabled)
	if err != nil {
		return false, err
	}
	return v != "true", nil
}
