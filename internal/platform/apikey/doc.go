// Package apikey issues and verifies platform API keys.
//
// A platform key is an HS256-signed JWT whose "role" claim names the database
// role requests made with it run under. The privileged service_role key is held
// by the server for task creation; restricted anon/authenticated keys are handed
// to the browser dashboard and are subject to row-level security.
package apikey
