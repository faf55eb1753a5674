// Package colab drives the Colab notebook web UI through Playwright.
//
// Everything here is bound to the application's current markup: element ids
// such as #doc-name and #toolbar-add-code, class names such as .cell and
// .monaco-editor, and custom elements with open shadow roots such as
// colab-run-button and paper-dialog. The selectors are collected in
// selectors.go so they can be updated in one place when the site changes.
// Playwright's CSS engine pierces open shadow roots, so shadow content is
// addressed with ordinary descendant selectors.
//
// A Notebook wraps one page. Cells and Fields are thin handles over
// locators and query the live DOM on every call; nothing is cached.
//
// Two operations carry real logic:
//
//   - Cell.SetText types character by character and, after every keystroke,
//     reconciles the editor's content with the wanted text so that
//     auto-indentation and auto-closed brackets do not end up duplicated.
//   - Cell.Stream polls the rendered output and reports only what was added
//     since the previous poll, until the run-complete marker appears.
package colab
