package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/entrhq/clay/pkg/colab"
	"github.com/entrhq/clay/pkg/config"
	"github.com/entrhq/clay/pkg/google"
	"github.com/playwright-community/playwright-go"
	"github.com/spf13/cobra"
)

// session is a browser with a notebook open.
type session struct {
	runtime  *google.Runtime
	driver   *google.Driver
	notebook *colab.Notebook
}

func (s *session) Close() {
	if s.driver != nil {
		s.driver.Close()
	}
	s.runtime.Stop()
}

// engines resolves the engine flag (or config) to the engines to try.
func (c *cli) engines() ([]google.Engine, error) {
	name := c.engine
	if name == "" {
		name = config.GetBrowser().GetEngine()
	}
	if name == config.EngineAuto {
		return google.Engines, nil
	}
	engine, err := google.ParseEngine(name)
	if err != nil {
		return nil, err
	}
	return []google.Engine{engine}, nil
}

// driverOptions merges the browser config section with the flags.
func (c *cli) driverOptions(cmd *cobra.Command) google.Options {
	browser := config.GetBrowser()
	signingIn, signedIn := browser.GetLoginIDs()

	opts := google.Options{
		ProfileDir:   browser.GetProfileDir(),
		Headless:     browser.IsHeadless(),
		Timeout:      browser.GetTimeout(),
		SigningInIDs: signingIn,
		SignedInIDs:  signedIn,
		Logger:       c.log,
	}
	if c.profileDir != "" {
		opts.ProfileDir = c.profileDir
	}
	if cmd.Flags().Changed("headless") {
		opts.Headless = c.headless
	}
	return opts
}

// notebookOptions converts the colab config section.
func (c *cli) notebookOptions() colab.Options {
	section := config.GetColab()
	load, dialog, output, poll := section.GetTimeouts()
	return colab.Options{
		BaseURL:       section.GetBaseURL(),
		LoadTimeout:   load,
		DialogTimeout: dialog,
		PollInterval:  poll,
		OutputTimeout: output,
		Logger:        c.log,
	}
}

// openDriver starts the browser on the first engine that is signed in.
func (c *cli) openDriver(cmd *cobra.Command) (*google.Runtime, *google.Driver, error) {
	engines, err := c.engines()
	if err != nil {
		return nil, nil, err
	}

	rt := google.NewRuntime()
	rt.SetVerbose(c.verbose)
	if err := rt.Initialize(engines...); err != nil {
		return nil, nil, err
	}

	driver, err := google.OpenAny(rt, c.driverOptions(cmd), engines...)
	if err != nil {
		rt.Stop()
		return nil, nil, err
	}
	c.log.Infof("using %s with profile %s", driver.Engine(), c.driverOptions(cmd).ProfileDir)
	return rt, driver, nil
}

// openSession opens the browser and the notebook named by --url.
func (c *cli) openSession(cmd *cobra.Command) (*session, error) {
	rt, driver, err := c.openDriver(cmd)
	if err != nil {
		return nil, err
	}
	s := &session{runtime: rt, driver: driver}

	s.notebook, err = colab.New(driver, c.url, c.notebookOptions())
	if err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// withNotebook runs fn against an open notebook. When the browser goes away
// under fn, the notebook is reopened once and fn is run again.
func (c *cli) withNotebook(cmd *cobra.Command, fn func(ctx context.Context, nb *colab.Notebook) error) error {
	s, err := c.openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()
	err = fn(ctx, s.notebook)
	if !errors.Is(err, playwright.ErrTargetClosed) {
		return err
	}

	c.log.Warnf("browser closed during command: %v", err)
	if rerr := s.notebook.Reconnect(); rerr != nil {
		return errors.Join(err, fmt.Errorf("reconnect failed: %w", rerr))
	}
	return fn(ctx, s.notebook)
}

// withCell is withNotebook for commands addressing one cell.
func (c *cli) withCell(cmd *cobra.Command, arg string, fn func(ctx context.Context, cell *colab.Cell) error) error {
	index, err := parseIndex(arg)
	if err != nil {
		return err
	}
	return c.withNotebook(cmd, func(ctx context.Context, nb *colab.Notebook) error {
		cell, err := nb.Cell(index)
		if err != nil {
			return err
		}
		return fn(ctx, cell)
	})
}
