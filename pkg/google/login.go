package google

import (
	"context"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
)

// loginPollInterval is how often Login checks for the signed-in markup.
const loginPollInterval = time.Second

// Login opens a visible browser on the profile at the accounts page and
// waits until the user has signed in or closed the window. The browser is
// closed before returning. It returns ErrNotLoggedIn when the window was
// closed before the signed-in markup appeared.
func Login(ctx context.Context, rt *Runtime, opts Options) error {
	d, err := newDriver(rt, opts)
	if err != nil {
		return err
	}
	defer d.Close()

	page, err := d.launch(false)
	if err != nil {
		return err
	}

	closed := make(chan struct{})
	d.context.OnClose(func(playwright.BrowserContext) {
		close(closed)
	})

	if _, err := page.Goto(d.opts.AccountsURL); err != nil {
		return fmt.Errorf("failed to open %s: %w", d.opts.AccountsURL, err)
	}

	dir, _ := d.ProfileDir()
	d.log.Infof("waiting for sign-in in %s", dir)

	ticker := time.NewTicker(loginPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-closed:
			d.context = nil
			return &NotLoggedInError{Engine: d.opts.Engine, ProfileDir: dir}
		case <-ticker.C:
			present, err := presentIDs(page, append(append([]string(nil), d.opts.SigningInIDs...), d.opts.SignedInIDs...))
			if err != nil {
				// navigation in progress; try again on the next tick
				d.log.Debugf("sign-in check: %v", err)
				continue
			}
			if classifyLogin(present, d.opts.SigningInIDs, d.opts.SignedInIDs) == stateSignedIn {
				d.log.Infof("signed in")
				return nil
			}
		}
	}
}
