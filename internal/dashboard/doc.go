// Package dashboard renders the "today" task dashboard.
//
// The page is served in two modes. The default client mode ships a small
// script, configured with the restricted platform key, that loads tasks from
// the JSON API and drives the loading, error, empty and table states in the
// browser. The server mode (?render=server) renders the same states directly
// and uses plain form posts for the mark-complete action.
package dashboard
