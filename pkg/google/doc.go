// Package google launches a browser on a persistent profile that is signed in
// to a Google account.
//
// A Driver binds one browser engine to one profile directory
// (<profile_dir>/<engine>/). Signing in is done once, by a human, in a
// visible browser started with Login; every later Create reuses the cookies
// stored in that profile and only checks that the account page shows the
// signed-in markup.
//
// Detection is done by element ids on https://accounts.google.com/. When
// none of the known ids shows up, Create fails with an ElementIDsError that
// lists every id on the page so the configured ids can be updated.
package google
