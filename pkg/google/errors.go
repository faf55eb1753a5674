package google

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotLoggedIn is returned when the profile shows the sign-in form.
var ErrNotLoggedIn = errors.New("not logged in")

// NotLoggedInError tells the user how to sign the profile in.
type NotLoggedInError struct {
	Engine     Engine
	ProfileDir string
}

func (e *NotLoggedInError) Error() string {
	return fmt.Sprintf("not logged in. Please run this, log in, close the browser, and try again: clay login --engine %s --profile-dir %q",
		e.Engine, e.ProfileDir)
}

// Unwrap makes errors.Is(err, ErrNotLoggedIn) work.
func (e *NotLoggedInError) Unwrap() error {
	return ErrNotLoggedIn
}

// ElementIDsError reports that none of the expected element ids appeared.
// IDs holds every element id present on the page at the time.
type ElementIDsError struct {
	URL      string
	Expected []string
	IDs      []string
	Err      error
}

func (e *ElementIDsError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "element ids unrecognised at %s: expected one of [%s]. ", e.URL, strings.Join(e.Expected, ", "))
	b.WriteString("Update signing_in_ids and signed_in_ids in the browser config section to ids that indicate needing to sign in, or being signed in. ")
	b.WriteString("Ids on a page can be listed from the developer console with: ")
	b.WriteString(`console.log(JSON.stringify(Array.prototype.map.call(document.querySelectorAll('*[id]'), x => x.id))). `)
	fmt.Fprintf(&b, "Current list: [%s]", strings.Join(e.IDs, ", "))
	return b.String()
}

func (e *ElementIDsError) Unwrap() error {
	return e.Err
}
